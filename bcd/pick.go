package bcd

// PickStatement selects single representative statement out of all
// statements listed for a browser. Plain unconditional support wins; failing
// that the first statement with non-null added version; failing that the
// first statement. False is returned only for an empty list.
func PickStatement(stmts []Statement) (Statement, bool) {
	if len(stmts) == 0 {
		return Statement{}, false
	}
	for _, s := range stmts {
		if s.Unconditional() {
			return s, true
		}
	}
	for _, s := range stmts {
		if !s.VersionAdded.IsNull() {
			return s, true
		}
	}
	return stmts[0], true
}
