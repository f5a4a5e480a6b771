package natsstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func TestKVKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{types.KeyBoards, "boards"},
		{types.KeyCurrentBoard, "currentBoard"},
		{types.ColumnsKey("0190-ab"), "columns.0190-ab"},
		{types.TasksKey("c1"), "tasks.c1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, kvKey(tt.in))
		})
	}
}

// TestStore_Integration runs against a live server named by BOARD_NATS_URL.
func TestStore_Integration(t *testing.T) {
	url := os.Getenv("BOARD_NATS_URL")
	if url == "" {
		t.Skip("BOARD_NATS_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Open(ctx, types.NATSConfig{URL: url, Bucket: "BOARDS_TEST"})
	require.NoError(t, err)
	defer s.Close()

	key := types.TasksKey("integration")
	require.NoError(t, s.Remove(ctx, key))

	_, err = s.Read(ctx, key)
	assert.ErrorIs(t, err, types.ErrAbsent)

	require.NoError(t, s.Write(ctx, key, []byte(`[]`)))
	got, err := s.Read(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	require.NoError(t, s.Remove(ctx, key))
	_, err = s.Read(ctx, key)
	assert.ErrorIs(t, err, types.ErrAbsent)
}
