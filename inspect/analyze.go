// Package inspect determines which browsers, and starting from which
// versions, can render a stylesheet.
//
// The pipeline is: feature extraction (package css) produces deduplicated
// inventory, every feature is resolved against compatibility data (package
// bcd), resolved features are folded into per-browser minimum versions and
// unsupported lists, and finally those are explained with one line of text
// per browser.
//
// Analyzer holds no mutable state and may be used from multiple goroutines.
package inspect

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"csi/bcd"
	"csi/css"
)

// Analyzer runs the whole analysis pipeline.
type Analyzer struct {
	log       *zap.Logger
	extractor *css.Extractor
	resolver  *Resolver
	reasons   *Reasons
	latest    [bcd.BrowserCount]string
}

// Option configures Analyzer.
type Option func(*Analyzer)

// WithLanguage sets language of reasons, english is used by default.
func WithLanguage(tag language.Tag) Option {
	return func(a *Analyzer) {
		a.reasons = NewReasons(tag)
	}
}

// NewAnalyzer creates analyzer over loaded knowledge base.
func NewAnalyzer(kb *bcd.Data, log *zap.Logger, options ...Option) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Analyzer{
		log:       log.Named("inspect"),
		extractor: css.NewExtractor(log),
		resolver:  NewResolver(kb),
		reasons:   NewReasons(language.English),
	}
	for _, opt := range options {
		opt(a)
	}
	// releases do not depend on analyzed text
	for _, b := range bcd.Browsers() {
		if r, ok := kb.LatestRelease(b); ok {
			a.latest[b] = r.ID
		}
	}
	return a
}

// Analyze inspects stylesheet text. It never fails: empty input results in
// neutral prompt, unreadable input in no features, unknown features are
// ignored and unsupported ones are reported in the result.
// The optional source parameter identifies what's being analyzed (for debug logging).
func (a *Analyzer) Analyze(text string, source ...string) *Result {
	res := &Result{
		Features: []css.FeatureUsage{},
		Browsers: make([]BrowserReport, bcd.BrowserCount),
	}
	for _, b := range bcd.Browsers() {
		res.Browsers[b] = BrowserReport{Browser: b, Latest: a.latest[b]}
	}

	if strings.TrimSpace(text) == "" {
		res.Empty = true
		for i := range res.Browsers {
			res.Browsers[i].Reason = a.reasons.Prompt()
		}
		return res
	}

	start := time.Now()

	inv := a.extractor.Extract([]byte(text), source...)
	agg := Aggregate(inv, a.resolver.Resolve)

	res.Features = inv.Features()
	for _, b := range bcd.Browsers() {
		t := agg[b]
		rep := &res.Browsers[b]
		rep.Unsupported = t.Unsupported
		rep.Limit = t.Limit
		rep.Reason = a.reasons.Build(t)
		switch {
		case !t.Computable():
			// minimum stays unknown
		case t.Minimum == 0:
			rep.Minimum = AllVersions
		default:
			rep.Minimum = bcd.FormatVersion(t.Minimum)
		}
	}

	a.log.Debug("Analysis completed",
		zap.Int("features", len(res.Features)),
		zap.Duration("elapsed", time.Since(start)))
	return res
}
