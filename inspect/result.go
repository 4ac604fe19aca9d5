package inspect

import (
	"csi/bcd"
	"csi/css"
)

// AllVersions is reported as minimum version when every feature is supported
// by all known browser versions.
const AllVersions = "all"

// BrowserReport is analysis outcome for a single browser.
type BrowserReport struct {
	Browser bcd.Browser `json:"browser" yaml:"browser"`
	// Minimum is the lowest version supporting every feature, AllVersions, or
	// empty when it cannot be computed (some feature is unsupported or there
	// was nothing to analyze).
	Minimum string `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	// Latest is the current stable release, empty when unknown.
	Latest      string   `json:"latest,omitempty" yaml:"latest,omitempty"`
	Unsupported []string `json:"unsupported,omitempty" yaml:"unsupported,omitempty"`
	Limit       *Limit   `json:"limit,omitempty" yaml:"limit,omitempty"`
	Reason      string   `json:"reason" yaml:"reason"`
}

// Result is complete analysis outcome. It is not modified after Analyze
// returns.
type Result struct {
	// Empty is set when there was no text to analyze.
	Empty    bool               `json:"empty,omitempty" yaml:"empty,omitempty"`
	Features []css.FeatureUsage `json:"features" yaml:"features"`
	// Browsers is indexed by bcd.Browser.
	Browsers []BrowserReport `json:"browsers" yaml:"browsers"`
}

// Browser returns report for the browser.
func (r *Result) Browser(b bcd.Browser) BrowserReport {
	return r.Browsers[b]
}
