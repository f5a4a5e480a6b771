package types

// Board is the top-level container of columns. Order places the board in
// the global board sequence used for rotation; values are unique but need
// not be contiguous.
type Board struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}
