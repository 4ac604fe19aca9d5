package inspect

import (
	"regexp"
	"strings"

	"csi/bcd"
	"csi/css"
)

// Resolver maps features to their compatibility data.
type Resolver struct {
	kb *bcd.Data
}

// NewResolver creates resolver over loaded knowledge base.
func NewResolver(kb *bcd.Data) *Resolver {
	return &Resolver{kb: kb}
}

// Resolve returns compat block for the feature. False means the knowledge
// base knows nothing about the feature, which is different from a known
// feature no browser supports.
func (r *Resolver) Resolve(f css.FeatureUsage) (*bcd.Compat, bool) {
	var entry *bcd.Entry

	switch f.Type {
	case css.FeatureProperty:
		e, ok := r.kb.Property(f.Property)
		if !ok {
			return nil, false
		}
		entry = e

	case css.FeaturePropertyValue:
		prop, ok := r.kb.Property(f.Property)
		if !ok {
			return nil, false
		}
		entry = resolveValue(prop, f)

	case css.FeatureSelector:
		if f.Key != css.NestingKey {
			return nil, false
		}
		entry, _ = r.kb.Selector("nesting")
	}

	if entry == nil || entry.Compat == nil {
		return nil, false
	}
	return entry.Compat, true
}

// resolveValue looks up value entry under property. Function calls are keyed
// with "()" suffix in the knowledge base, so suffixed form is tried first and
// plain identifier second.
func resolveValue(prop *bcd.Entry, f css.FeatureUsage) *bcd.Entry {
	id := NormalizeIdentifier(f.Value)
	if id == "" {
		return nil
	}

	candidates := []string{id}
	if f.ValueKind == css.ValueFunctionCall {
		candidates = []string{id + "()", id}
	}
	for _, c := range candidates {
		if e, ok := prop.Child(c); ok {
			return e
		}
	}
	return nil
}

var (
	reSpaces     = regexp.MustCompile(`\s+`)
	reIllegal    = regexp.MustCompile(`[^A-Za-z0-9\-_%().]`)
	reUnderscore = regexp.MustCompile(`_+`)
)

// NormalizeIdentifier converts value text into knowledge base identifier:
// whitespace runs become underscore, characters other than alphanumerics,
// "-", "_", "%", "(", ")" and "." are dropped, repeated underscores collapse
// and leading and trailing underscores are trimmed.
func NormalizeIdentifier(value string) string {
	id := reSpaces.ReplaceAllString(value, "_")
	id = reIllegal.ReplaceAllString(id, "")
	id = reUnderscore.ReplaceAllString(id, "_")
	return strings.Trim(id, "_")
}
