package css

import (
	"iter"
	"strings"
)

// FeatureType is kind of observed style capability.
type FeatureType string

const (
	FeatureProperty      FeatureType = "property"
	FeaturePropertyValue FeatureType = "property-value"
	FeatureSelector      FeatureType = "selector"
)

// ValueKind distinguishes property values.
type ValueKind string

const (
	ValueIdentifier   ValueKind = "identifier"
	ValueFunctionCall ValueKind = "function-call"
)

// NestingKey is the key of the only selector feature being tracked.
const NestingKey = "selector:nesting"

// FeatureUsage is a single distinct feature found in a stylesheet.
type FeatureUsage struct {
	Key       string      `json:"key" yaml:"key"`
	Type      FeatureType `json:"type" yaml:"type"`
	Property  string      `json:"property,omitempty" yaml:"property,omitempty"`
	Value     string      `json:"value,omitempty" yaml:"value,omitempty"`
	ValueKind ValueKind   `json:"value_kind,omitempty" yaml:"value_kind,omitempty"`
	Label     string      `json:"label" yaml:"label"`
}

// PropertyKey returns deduplication key for property usage.
func PropertyKey(prop string) string {
	return string(FeatureProperty) + ":" + prop
}

// ValueKey returns deduplication key for property value usage. Function calls
// carry "()" suffix so "env" identifier and "env()" call are different features.
func ValueKey(prop, value string, kind ValueKind) string {
	var sb strings.Builder
	sb.WriteString(string(FeaturePropertyValue))
	sb.WriteByte(':')
	sb.WriteString(prop)
	sb.WriteByte(':')
	sb.WriteString(value)
	if kind == ValueFunctionCall {
		sb.WriteString("()")
	}
	return sb.String()
}

func propertyUsage(prop string) FeatureUsage {
	return FeatureUsage{
		Key:      PropertyKey(prop),
		Type:     FeatureProperty,
		Property: prop,
		Label:    prop,
	}
}

func valueUsage(prop, value string, kind ValueKind) FeatureUsage {
	label := prop + ": " + value
	if kind == ValueFunctionCall {
		label += "()"
	}
	return FeatureUsage{
		Key:       ValueKey(prop, value, kind),
		Type:      FeaturePropertyValue,
		Property:  prop,
		Value:     value,
		ValueKind: kind,
		Label:     label,
	}
}

func nestingUsage() FeatureUsage {
	return FeatureUsage{
		Key:   NestingKey,
		Type:  FeatureSelector,
		Value: "&",
		Label: "nesting selector (&)",
	}
}

// Inventory is a deduplicated set of features keyed by FeatureUsage.Key.
// It remembers the order in which features were first seen.
type Inventory struct {
	index map[string]int
	items []FeatureUsage
}

// NewInventory creates empty inventory.
func NewInventory() *Inventory {
	return &Inventory{index: make(map[string]int)}
}

// Add stores feature unless feature with the same key is already present, the
// first occurrence is never replaced. Returns true when feature was added.
func (inv *Inventory) Add(f FeatureUsage) bool {
	if _, exists := inv.index[f.Key]; exists {
		return false
	}
	inv.index[f.Key] = len(inv.items)
	inv.items = append(inv.items, f)
	return true
}

// Get returns feature by key.
func (inv *Inventory) Get(key string) (FeatureUsage, bool) {
	i, ok := inv.index[key]
	if !ok {
		return FeatureUsage{}, false
	}
	return inv.items[i], true
}

// Len returns number of distinct features.
func (inv *Inventory) Len() int {
	return len(inv.items)
}

// All iterates features in the order they were first seen.
func (inv *Inventory) All() iter.Seq[FeatureUsage] {
	return func(yield func(FeatureUsage) bool) {
		for _, f := range inv.items {
			if !yield(f) {
				return
			}
		}
	}
}

// Features returns copy of all features in the order they were first seen.
func (inv *Inventory) Features() []FeatureUsage {
	out := make([]FeatureUsage, len(inv.items))
	copy(out, inv.items)
	return out
}
