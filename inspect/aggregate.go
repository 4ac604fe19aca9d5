package inspect

import (
	"csi/bcd"
	"csi/css"
)

// Limit is the feature responsible for browser minimum version.
type Limit struct {
	Feature css.FeatureUsage `json:"feature" yaml:"feature"`
	Version float64          `json:"version" yaml:"version"`
	// Tied holds labels of all features requiring the same version in the
	// order they were processed. Feature is always the last one.
	Tied []string `json:"tied,omitempty" yaml:"tied,omitempty"`
}

// Tally is the aggregated requirement of a single browser.
type Tally struct {
	// Minimum is the highest version required by any supported feature, 0
	// when every feature is supported in all versions.
	Minimum float64
	// Limit is nil when no feature requires a particular version.
	Limit *Limit
	// Unsupported holds labels of features never supported by the browser.
	Unsupported []string
}

// Computable reports whether minimum version makes sense: no feature is
// unsupported.
func (t Tally) Computable() bool {
	return len(t.Unsupported) == 0
}

// Aggregation holds tallies for every browser indexed by bcd.Browser.
type Aggregation [bcd.BrowserCount]Tally

// ResolveFunc maps feature to its compat block, false when feature is unknown.
type ResolveFunc func(css.FeatureUsage) (*bcd.Compat, bool)

// Aggregate folds resolved features into per-browser requirements. Features
// unknown to the knowledge base are skipped. For every known feature the
// representative statement is picked, added version true counts as 0,
// false/null/absent marks feature unsupported, anything else raises running
// minimum when greater or equal to it (on equal versions later feature becomes
// the limit). Versions without numbers ("preview") carry no information.
func Aggregate(inv *css.Inventory, resolve ResolveFunc) Aggregation {
	var agg Aggregation

	for f := range inv.All() {
		compat, ok := resolve(f)
		if !ok {
			continue
		}
		for _, b := range bcd.Browsers() {
			t := &agg[b]

			stmt, _ := bcd.PickStatement(compat.Statements(b))
			if stmt.VersionAdded.Never() {
				t.Unsupported = append(t.Unsupported, f.Label)
				continue
			}

			v, ok := bcd.ParseVersion(stmt.VersionAdded)
			if !ok {
				continue
			}
			switch {
			case v > t.Minimum:
				t.Minimum = v
				t.Limit = &Limit{Feature: f, Version: v, Tied: []string{f.Label}}
			case v == t.Minimum && t.Limit != nil:
				t.Limit.Feature = f
				t.Limit.Tied = append(t.Limit.Tied, f.Label)
			}
		}
	}
	return agg
}
