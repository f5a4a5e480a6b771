package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampDocumentShape(t *testing.T) {
	ts := NewTimestamp(time.UnixMilli(1496000000000))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":1496000000000}`, string(data))
	assert.Equal(t, int64(1496000000000), ts.Time().UnixMilli())
}

func TestTaskDocumentOmitsAbsentFields(t *testing.T) {
	task := Task{ID: "t1", ColumnID: "c1", Desc: "write tests", CreatedAt: Timestamp{Value: 1}}

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NotContains(t, doc, "lastUpdatedAt")
	assert.NotContains(t, doc, "linkToBoardId")
	assert.NotContains(t, doc, "externalUrl")
	assert.Equal(t, "c1", doc["columnId"])
}

func TestTaskCloneDetachesTimestamp(t *testing.T) {
	orig := Task{ID: "t1", LastUpdatedAt: &Timestamp{Value: 5}}
	cp := orig.Clone()
	cp.LastUpdatedAt.Value = 10
	assert.Equal(t, int64(5), orig.LastUpdatedAt.Value)
}
