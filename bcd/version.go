package bcd

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

type tokenKind uint8

const (
	tokenAbsent tokenKind = iota
	tokenNull
	tokenFalse
	tokenTrue
	tokenString
)

// VersionToken is a version value as it appears in the knowledge base:
// a version string, true (supported since an unknown version), false or
// null (never supported), or absent altogether.
type VersionToken struct {
	kind tokenKind
	raw  string
}

var (
	VersionAbsent = VersionToken{kind: tokenAbsent}
	VersionNull   = VersionToken{kind: tokenNull}
	VersionFalse  = VersionToken{kind: tokenFalse}
	VersionTrue   = VersionToken{kind: tokenTrue}
)

// Version makes version token from a version string.
func Version(s string) VersionToken {
	return VersionToken{kind: tokenString, raw: s}
}

// IsTrue reports whether token is boolean true.
func (v VersionToken) IsTrue() bool { return v.kind == tokenTrue }

// IsString reports whether token carries version string.
func (v VersionToken) IsString() bool { return v.kind == tokenString }

// IsNull reports whether token is null or absent.
func (v VersionToken) IsNull() bool { return v.kind == tokenNull || v.kind == tokenAbsent }

// Never reports whether token means "never supported": false, null or absent.
func (v VersionToken) Never() bool {
	return v.kind != tokenTrue && v.kind != tokenString
}

func (v VersionToken) String() string {
	switch v.kind {
	case tokenString:
		return v.raw
	case tokenTrue:
		return "true"
	case tokenFalse:
		return "false"
	case tokenNull:
		return "null"
	default:
		return ""
	}
}

var leadingNumber = regexp.MustCompile(`^(?:\d+\.?\d*|\.\d+)`)

// ParseVersion converts version token into comparable number. True is 0
// (all known versions). Strings lose every character which is not a digit
// or a period and the leading numeric run is interpreted as a single decimal
// number, so "≤79" is 79 and "15.4.1" is 15.4. False, null, absent and
// strings without digits ("preview") are not parseable.
func ParseVersion(v VersionToken) (float64, bool) {
	switch v.kind {
	case tokenTrue:
		return 0, true
	case tokenString:
		stripped := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' {
				return r
			}
			return -1
		}, v.raw)
		num := leadingNumber.FindString(stripped)
		if num == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// CompareVersions returns -1, 0 or +1 comparing parsed versions. Tokens which
// cannot be parsed are ordered before any parseable one.
func CompareVersions(a, b VersionToken) int {
	va, oka := ParseVersion(a)
	vb, okb := ParseVersion(b)
	switch {
	case !oka && !okb:
		return 0
	case !oka:
		return -1
	case !okb:
		return 1
	case va < vb:
		return -1
	case va > vb:
		return 1
	}
	return 0
}

// FormatVersion renders version number as integer when whole and with one
// decimal place otherwise.
func FormatVersion(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
