package bcd

import (
	"github.com/maruel/natural"
)

// LatestRelease returns browser release to be displayed as current stable one.
func (d *Data) LatestRelease(b Browser) (Release, bool) {
	return LatestRelease(d.releases[b])
}

// LatestRelease picks latest stable release out of release table. Among
// releases with "current" status the highest version wins, ties are broken by
// the most recent release date. Some browsers do not flag their newest release
// as current, when nothing is flagged the most recent release wins with ties
// broken by the highest version.
func LatestRelease(releases map[string]Release) (Release, bool) {
	var (
		best  Release
		found bool
	)
	for _, r := range releases {
		if r.Status != ReleaseCurrent {
			continue
		}
		if !found || newerByVersion(r, best) {
			best, found = r, true
		}
	}
	if found {
		return best, true
	}
	for _, r := range releases {
		if !found || newerByDate(r, best) {
			best, found = r, true
		}
	}
	return best, found
}

// newerByVersion orders by version, then date, then release identifier.
func newerByVersion(a, b Release) bool {
	if c := CompareVersions(Version(a.ID), Version(b.ID)); c != 0 {
		return c > 0
	}
	if a.Date != b.Date {
		// ISO dates compare lexicographically
		return a.Date > b.Date
	}
	return natural.Less(b.ID, a.ID)
}

// newerByDate orders by date, then version, then release identifier.
func newerByDate(a, b Release) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	if c := CompareVersions(Version(a.ID), Version(b.ID)); c != 0 {
		return c > 0
	}
	return natural.Less(b.ID, a.ID)
}
