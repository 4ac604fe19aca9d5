package bcd

import "testing"

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name  string
		token VersionToken
		want  float64
		ok    bool
	}{
		{"true is zero", VersionTrue, 0, true},
		{"false", VersionFalse, 0, false},
		{"null", VersionNull, 0, false},
		{"absent", VersionAbsent, 0, false},
		{"plain", Version("120"), 120, true},
		{"decimal", Version("15.4"), 15.4, true},
		{"ranged", Version("≤79"), 79, true},
		{"multi part keeps first run", Version("15.4.1"), 15.4, true},
		{"preview", Version("preview"), 0, false},
		{"empty", Version(""), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseVersion(tt.token)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseVersion(%q) = %v, %v; want %v, %v", tt.token, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b VersionToken
		want int
	}{
		{Version("80"), Version("90"), -1},
		{Version("90"), Version("80"), 1},
		{Version("17.0"), Version("17"), 0},
		{VersionTrue, Version("1"), -1},
		{Version("preview"), VersionTrue, -1},
		{VersionFalse, VersionNull, 0},
	}
	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestFormatVersion(t *testing.T) {
	tests := map[float64]string{
		120:   "120",
		0:     "0",
		15.4:  "15.4",
		10.26: "10.3",
		16.0:  "16",
	}
	for in, want := range tests {
		if got := FormatVersion(in); got != want {
			t.Errorf("FormatVersion(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestVersionTokenNever(t *testing.T) {
	for _, v := range []VersionToken{VersionFalse, VersionNull, VersionAbsent} {
		if !v.Never() {
			t.Errorf("%q.Never() = false, want true", v)
		}
	}
	for _, v := range []VersionToken{VersionTrue, Version("1"), Version("preview")} {
		if v.Never() {
			t.Errorf("%q.Never() = true, want false", v)
		}
	}
}
