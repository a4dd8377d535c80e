package reconcile

// ColumnSet is the ordered list of destination column names.
// Order decides tie-breaks, so it is never sorted or mutated.
type ColumnSet []string

// Contains reports whether name is one of the columns.
func (c ColumnSet) Contains(name string) bool {
	return c.Index(name) >= 0
}

// Index returns the position of name, or -1.
func (c ColumnSet) Index(name string) int {
	for i, col := range c {
		if col == name {
			return i
		}
	}
	return -1
}
