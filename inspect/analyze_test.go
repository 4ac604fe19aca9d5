package inspect

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"csi/bcd"
	"csi/css"
)

func newTestAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()
	return NewAnalyzer(loadTestData(t), zap.NewNop(), opts...)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	a := newTestAnalyzer(t)
	for _, in := range []string{"", "   ", "\n\t "} {
		res := a.Analyze(in)
		if !res.Empty {
			t.Errorf("%q: expected empty result", in)
		}
		if res.Features == nil || len(res.Features) != 0 {
			t.Errorf("%q: expected empty feature list, got %#v", in, res.Features)
		}
		if data, err := json.Marshal(res); err != nil || !strings.Contains(string(data), `"features":[]`) {
			t.Errorf("%q: features are not encoded as empty list: %s (%v)", in, data, err)
		}
		for _, rep := range res.Browsers {
			if rep.Minimum != "" || len(rep.Unsupported) != 0 {
				t.Errorf("%q %s: expected no minimum, got %+v", in, rep.Browser, rep)
			}
			if rep.Reason != "Enter CSS to check browser support" {
				t.Errorf("%q %s: reason = %q", in, rep.Browser, rep.Reason)
			}
		}
	}
}

func TestAnalyze_UniversallySupported(t *testing.T) {
	res := newTestAnalyzer(t).Analyze("p { color: red; }")
	if res.Empty {
		t.Fatal("unexpected empty result")
	}
	for _, rep := range res.Browsers {
		if rep.Minimum != AllVersions {
			t.Errorf("%s: minimum = %q, want %q", rep.Browser, rep.Minimum, AllVersions)
		}
		if rep.Reason != "No limiting feature found" {
			t.Errorf("%s: reason = %q", rep.Browser, rep.Reason)
		}
	}
}

func TestAnalyze_SupportedAndUnsupported(t *testing.T) {
	res := newTestAnalyzer(t).Analyze("h1 { text-wrap: balance; }")

	chrome := res.Browser(bcd.Chrome)
	if chrome.Minimum != "120" {
		t.Errorf("chrome minimum = %q, want 120", chrome.Minimum)
	}
	if !strings.Contains(chrome.Reason, "text-wrap") {
		t.Errorf("chrome reason = %q", chrome.Reason)
	}

	firefox := res.Browser(bcd.Firefox)
	if firefox.Minimum != "" {
		t.Errorf("firefox minimum = %q, want none", firefox.Minimum)
	}
	if firefox.Reason != "Not supported: text-wrap" {
		t.Errorf("firefox reason = %q", firefox.Reason)
	}
	if !reflect.DeepEqual(firefox.Unsupported, []string{"text-wrap"}) {
		t.Errorf("firefox unsupported = %v", firefox.Unsupported)
	}
}

func TestAnalyze_HighestVersionLimits(t *testing.T) {
	res := newTestAnalyzer(t).Analyze(".a { gap: 1em; } .b { inset: 0; }")

	chrome := res.Browser(bcd.Chrome)
	if chrome.Minimum != "90" {
		t.Errorf("chrome minimum = %q, want 90", chrome.Minimum)
	}
	if chrome.Limit == nil || chrome.Limit.Feature.Label != "inset" {
		t.Fatalf("chrome limit = %+v, want inset", chrome.Limit)
	}
	if chrome.Reason != "Limited by inset (since version 90)" {
		t.Errorf("chrome reason = %q", chrome.Reason)
	}
	if safari := res.Browser(bcd.Safari); safari.Minimum != "14.1" {
		t.Errorf("safari minimum = %q, want 14.1", safari.Minimum)
	}
}

func TestAnalyze_NestingOnly(t *testing.T) {
	res := newTestAnalyzer(t).Analyze(`.a { & .b { } & > .c { } &:hover { } }`)

	if len(res.Features) != 1 {
		t.Fatalf("expected single feature, got %v", res.Features)
	}
	if res.Features[0].Key != css.NestingKey {
		t.Errorf("feature key = %q, want %q", res.Features[0].Key, css.NestingKey)
	}
	want := map[bcd.Browser]string{bcd.Chrome: "120", bcd.Firefox: "117", bcd.Safari: "17.2"}
	for b, v := range want {
		if got := res.Browser(b).Minimum; got != v {
			t.Errorf("%s minimum = %q, want %q", b, got, v)
		}
	}
}

func TestAnalyze_LatestReleases(t *testing.T) {
	res := newTestAnalyzer(t).Analyze("p { color: red }")
	want := map[bcd.Browser]string{bcd.Chrome: "120", bcd.Firefox: "121", bcd.Safari: "17.2"}
	for b, v := range want {
		if got := res.Browser(b).Latest; got != v {
			t.Errorf("%s latest = %q, want %q", b, got, v)
		}
	}
	// latest releases are reported even for empty input
	if got := newTestAnalyzer(t).Analyze("").Browser(bcd.Safari).Latest; got != "17.2" {
		t.Errorf("safari latest on empty input = %q", got)
	}
}

func TestAnalyze_PropertyValues(t *testing.T) {
	res := newTestAnalyzer(t).Analyze(`
		.grid { display: grid; }
		.fit { width: fit-content; }
		.fn { width: fit-content(10em); }
	`)

	// fit-content() is never supported
	for _, rep := range res.Browsers {
		if rep.Minimum != "" {
			t.Errorf("%s minimum = %q, want none", rep.Browser, rep.Minimum)
		}
		if !reflect.DeepEqual(rep.Unsupported, []string{"width: fit-content()"}) {
			t.Errorf("%s unsupported = %v", rep.Browser, rep.Unsupported)
		}
	}
}

func TestAnalyze_ValueVersions(t *testing.T) {
	res := newTestAnalyzer(t).Analyze(`.grid { display: grid } .fit { width: fit-content }`)

	want := map[bcd.Browser]string{bcd.Chrome: "57", bcd.Firefox: "94", bcd.Safari: "11"}
	for b, v := range want {
		if got := res.Browser(b).Minimum; got != v {
			t.Errorf("%s minimum = %q, want %q", b, got, v)
		}
	}
	if got := res.Browser(bcd.Firefox).Reason; got != "Limited by width: fit-content (since version 94)" {
		t.Errorf("firefox reason = %q", got)
	}
}

func TestAnalyze_FlaggedSupportIsUnsupported(t *testing.T) {
	res := newTestAnalyzer(t).Analyze(`.m { grid-template-columns: masonry; }`)

	if got := res.Browser(bcd.Firefox).Unsupported; !reflect.DeepEqual(got, []string{"grid-template-columns: masonry"}) {
		t.Errorf("firefox unsupported = %v", got)
	}
	if got := res.Browser(bcd.Safari).Minimum; got != "17" {
		t.Errorf("safari minimum = %q, want 17", got)
	}
}

func TestAnalyze_TrueNeverRaisesMinimum(t *testing.T) {
	res := newTestAnalyzer(t).Analyze(`.a { gap: 0; color: red; }`)
	if got := res.Browser(bcd.Chrome); got.Minimum != "80" || got.Limit.Feature.Label != "gap" {
		t.Errorf("chrome = %+v", got)
	}
}

func TestAnalyze_PreviewCarriesNoInformation(t *testing.T) {
	res := newTestAnalyzer(t).Analyze(`.c { display: contents; }`)
	safari := res.Browser(bcd.Safari)
	// display itself is supported since 1
	if safari.Minimum != "1" || len(safari.Unsupported) != 0 {
		t.Errorf("safari = %+v", safari)
	}
}

func TestAnalyze_UnknownFeaturesIgnored(t *testing.T) {
	res := newTestAnalyzer(t).Analyze(`.x { made-up: thing; color: bogus-value; }`)
	if len(res.Features) == 0 {
		t.Fatal("expected features to be reported")
	}
	for _, rep := range res.Browsers {
		if rep.Minimum != AllVersions || len(rep.Unsupported) != 0 {
			t.Errorf("%s = %+v", rep.Browser, rep)
		}
	}
}

func TestAnalyze_PartialInput(t *testing.T) {
	// stylesheet in the middle of editing: nested block is not closed yet
	res := newTestAnalyzer(t).Analyze(`.a { gap: 1em; } } .b { .c { inset: 0`)
	if res.Empty {
		t.Error("partial input is not empty input")
	}

	chrome := res.Browser(bcd.Chrome)
	if chrome.Minimum != "90" {
		t.Errorf("chrome minimum = %q, want 90", chrome.Minimum)
	}
	if chrome.Reason != "Limited by inset (since version 90)" {
		t.Errorf("chrome reason = %q", chrome.Reason)
	}
}

func TestAnalyze_Language(t *testing.T) {
	res := newTestAnalyzer(t, WithLanguage(language.Russian)).Analyze("h1 { text-wrap: pretty }")
	if got := res.Browser(bcd.Firefox).Reason; got != "Не поддерживается: text-wrap" {
		t.Errorf("firefox reason = %q", got)
	}
}

func TestAnalyze_Concurrent(t *testing.T) {
	a := newTestAnalyzer(t)
	inputs := []string{
		"p { color: red }",
		".a { gap: 1em } .b { inset: 0 }",
		"h1 { text-wrap: balance }",
		".a { & .b { } }",
	}
	want := make([]*Result, len(inputs))
	for i, in := range inputs {
		want[i] = a.Analyze(in)
	}

	var wg sync.WaitGroup
	for n := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			i := n % len(inputs)
			if got := a.Analyze(inputs[i]); !reflect.DeepEqual(got, want[i]) {
				t.Errorf("input %d: concurrent result differs", i)
			}
		}()
	}
	wg.Wait()
}
