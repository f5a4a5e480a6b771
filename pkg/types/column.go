package types

import "fmt"

// DefaultWipLimit is applied when a column is created without a limit.
// It is large enough to never trip in practice.
const DefaultWipLimit = 999

// ColumnSize controls how wide a column is rendered.
type ColumnSize string

// Column sizes.
const (
	ColumnSizeFull ColumnSize = "FULL"
	ColumnSizeHalf ColumnSize = "HALF"
)

// Valid reports whether s is a known column size.
func (s ColumnSize) Valid() bool {
	return s == ColumnSizeFull || s == ColumnSizeHalf
}

// ColumnOptions holds presentational settings for a column.
// The zero value renders as a full-width column.
type ColumnOptions struct {
	Size ColumnSize `json:"size"`
}

// Normalize returns a copy of o with defaults applied.
func (o ColumnOptions) Normalize() ColumnOptions {
	if !o.Size.Valid() {
		o.Size = ColumnSizeFull
	}
	return o
}

// Column is an ordered container of tasks within a board.
type Column struct {
	ID       string        `json:"id"`
	BoardID  string        `json:"boardId"`
	Name     string        `json:"name"`
	WipLimit int           `json:"wipLimit"`
	Order    int           `json:"order"`
	Options  ColumnOptions `json:"options"`
}

// IsHalf reports whether the column is rendered at half width.
func (c Column) IsHalf() bool {
	return c.Options.Size == ColumnSizeHalf
}

// WipStatus is the work-in-progress load of a column. Exceeded is a soft
// violation: it is surfaced to the caller but never blocks a write.
type WipStatus struct {
	Count    int  `json:"count"`
	Limit    int  `json:"limit"`
	Exceeded bool `json:"exceeded"`
}

// NewWipStatus computes the WIP status for count tasks against limit.
func NewWipStatus(count, limit int) WipStatus {
	return WipStatus{Count: count, Limit: limit, Exceeded: count > limit}
}

// String renders the status as "count / limit".
func (w WipStatus) String() string {
	return fmt.Sprintf("%d / %d", w.Count, w.Limit)
}

// InsertionMode selects where a reordered element lands relative to its
// target.
type InsertionMode int

// Insertion modes for reordering.
const (
	InsertBefore InsertionMode = iota + 1
	InsertAfter
)

// Valid reports whether m is InsertBefore or InsertAfter.
func (m InsertionMode) Valid() bool {
	return m == InsertBefore || m == InsertAfter
}

// String returns "before" or "after".
func (m InsertionMode) String() string {
	switch m {
	case InsertBefore:
		return "before"
	case InsertAfter:
		return "after"
	default:
		return fmt.Sprintf("InsertionMode(%d)", int(m))
	}
}

// ParseInsertionMode converts "before" or "after" into an InsertionMode.
func ParseInsertionMode(s string) (InsertionMode, error) {
	switch s {
	case "before", "BEFORE":
		return InsertBefore, nil
	case "after", "AFTER":
		return InsertAfter, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidInsertionMode, s)
	}
}
