// Package bcd provides read-only access to browser compatibility data in the
// layout published by @mdn/browser-compat-data.
//
// The data is loaded and shape checked once (see Load), afterwards it is never
// modified and may be shared by any number of goroutines without locking.
package bcd

// Flag describes run time switch required to enable a feature.
type Flag struct {
	Type       string
	Name       string
	ValueToSet string
}

// Statement is a single support record for a feature in one browser.
type Statement struct {
	VersionAdded          VersionToken
	VersionRemoved        VersionToken
	Flags                 []Flag
	Prefix                string
	AlternativeName       string
	PartialImplementation bool
}

// Unconditional reports whether statement describes plain support: no flags,
// no vendor prefix, no alternative name and a real added version.
func (s Statement) Unconditional() bool {
	return len(s.Flags) == 0 && s.Prefix == "" && s.AlternativeName == "" && !s.VersionAdded.Never()
}

// Status is standardization status of a feature.
type Status struct {
	Experimental  bool
	StandardTrack bool
	Deprecated    bool
}

// Compat is the "__compat" block of a knowledge base entry.
type Compat struct {
	Description string
	MDNURL      string
	Status      Status
	// Support keeps statements per browser in the order they are listed in
	// the knowledge base, nil when browser is not mentioned.
	Support [BrowserCount][]Statement
}

// Statements returns all support statements for the browser.
func (c *Compat) Statements(b Browser) []Statement {
	if c == nil {
		return nil
	}
	return c.Support[b]
}

// Entry is a node of the feature tree: optional compat block plus nested
// sub-features (for css properties these are property values).
type Entry struct {
	Compat *Compat
	Sub    map[string]*Entry
}

// Child returns nested entry by its identifier.
func (e *Entry) Child(name string) (*Entry, bool) {
	if e == nil {
		return nil, false
	}
	c, ok := e.Sub[name]
	return c, ok
}

// Release is a single browser release.
type Release struct {
	ID     string
	Status string
	Date   string // ISO 8601, YYYY-MM-DD
}

const ReleaseCurrent = "current"

// Data is the loaded knowledge base.
type Data struct {
	Version    string
	properties map[string]*Entry
	selectors  map[string]*Entry
	releases   [BrowserCount]map[string]Release
}

// Property returns css property entry by name.
func (d *Data) Property(name string) (*Entry, bool) {
	e, ok := d.properties[name]
	return e, ok
}

// Selector returns css selector entry by name.
func (d *Data) Selector(name string) (*Entry, bool) {
	e, ok := d.selectors[name]
	return e, ok
}

// Releases returns release table of the browser keyed by release identifier.
// Caller must not modify returned map.
func (d *Data) Releases(b Browser) map[string]Release {
	return d.releases[b]
}

// PropertyCount returns number of known css properties.
func (d *Data) PropertyCount() int {
	return len(d.properties)
}
