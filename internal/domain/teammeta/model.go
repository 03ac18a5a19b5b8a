package teammeta

// Meta is directory metadata for one team.
type Meta struct {
	Abbr string
	Logo string
	ID   int64
}
