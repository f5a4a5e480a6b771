package types

import "time"

// Timestamp is a point in time stored as Unix milliseconds. The JSON form
// is {"value": <ms>}.
type Timestamp struct {
	Value int64 `json:"value"`
}

// NewTimestamp converts t into a Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Value: t.UnixMilli()}
}

// Time returns the timestamp as a time.Time in UTC.
func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(ts.Value).UTC()
}

// TaskPresentationalOptions holds display settings for a task. An empty
// Color means the default background.
type TaskPresentationalOptions struct {
	Color string `json:"color,omitempty"`
}

// Task is a unit of work inside a column.
type Task struct {
	ID                    string                    `json:"id"`
	ColumnID              string                    `json:"columnId"`
	Desc                  string                    `json:"desc"`
	LongDesc              string                    `json:"longdesc"`
	Order                 int                       `json:"order"`
	CreatedAt             Timestamp                 `json:"createdAt"`
	LastUpdatedAt         *Timestamp                `json:"lastUpdatedAt,omitempty"`
	PresentationalOptions TaskPresentationalOptions `json:"presentationalOptions"`

	// LinkToBoardID is a weak reference to another board. It is never
	// cascaded and may dangle after the board is removed.
	LinkToBoardID string  `json:"linkToBoardId,omitempty"`
	ExternalURL   string  `json:"externalUrl,omitempty"`
	SteamVolume   float64 `json:"steamVolume"`
}

// SteamStatus derives the steam tier from the task's volume.
func (t Task) SteamStatus() SteamStatus {
	return SteamStatusOf(t.SteamVolume)
}

// Clone returns a copy of t that shares no pointers with it.
func (t Task) Clone() Task {
	if t.LastUpdatedAt != nil {
		ts := *t.LastUpdatedAt
		t.LastUpdatedAt = &ts
	}
	return t
}

// TaskEdit carries the new content of a task. Desc is required; nil
// pointer fields keep the stored value. Setting LinkToBoardID or
// ExternalURL to an empty string clears it.
type TaskEdit struct {
	Desc                  string
	LongDesc              *string
	PresentationalOptions *TaskPresentationalOptions
	TargetColumnID        *string
	LinkToBoardID         *string
	SteamVolume           *float64
	ExternalURL           *string
}
