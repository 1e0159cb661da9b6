package model

import "slices"

// Item is one candidate value for a form field, as declared in a
// configuration file.
type Item struct {
	ID                   string   `yaml:"id"                                json:"id"`
	Profile              string   `yaml:"profile,omitempty"                 json:"profile,omitempty"`
	RawValue             string   `yaml:"raw_value"                         json:"raw_value"`
	Value                *string  `yaml:"value,omitempty"                   json:"value,omitempty"`
	Label                *string  `yaml:"label,omitempty"                   json:"label,omitempty"`
	RememberLastEntryFor []string `yaml:"remember_last_entry_for,omitempty" json:"remember_last_entry_for,omitempty"`
	LastEntry            bool     `yaml:"last_entry,omitempty"              json:"last_entry,omitempty"`
}

// NewItem returns an item for field id with the literal configuration text.
// An empty profile means the item belongs to no profile.
func NewItem(id, profile, rawValue string) *Item {
	return &Item{ID: id, Profile: profile, RawValue: rawValue}
}

// HasProfile reports whether the item was declared inside a profile.
func (it *Item) HasProfile() bool {
	return it.Profile != ""
}

// CachedValue returns the resolved value, if one has been stored.
func (it *Item) CachedValue() (string, bool) {
	if it.Value == nil {
		return "", false
	}
	return *it.Value, true
}

// SetValue stores a resolved value on the item.
func (it *Item) SetValue(v string) {
	it.Value = &v
}

// ClearValue drops the resolved value.
func (it *Item) ClearValue() {
	it.Value = nil
}

// SetLabel overrides the text shown for the item in a candidate list.
func (it *Item) SetLabel(label string) {
	it.Label = &label
}

// DisplayLabel returns the label override, falling back to the resolved
// value and then the raw value.
func (it *Item) DisplayLabel() string {
	if it.Label != nil {
		return *it.Label
	}
	if it.Value != nil {
		return *it.Value
	}
	return it.RawValue
}

// ShouldRememberLastEntry reports whether committing this item must be
// remembered for other field ids.
func (it *Item) ShouldRememberLastEntry() bool {
	return len(it.RememberLastEntryFor) > 0
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	c := *it
	if it.Value != nil {
		v := *it.Value
		c.Value = &v
	}
	if it.Label != nil {
		l := *it.Label
		c.Label = &l
	}
	c.RememberLastEntryFor = slices.Clone(it.RememberLastEntryFor)
	return &c
}

// Equal reports structural equality over every field of the item.
func (it *Item) Equal(other *Item) bool {
	if it == nil || other == nil {
		return it == other
	}
	return it.ID == other.ID &&
		it.Profile == other.Profile &&
		it.RawValue == other.RawValue &&
		equalOptional(it.Value, other.Value) &&
		equalOptional(it.Label, other.Label) &&
		slices.Equal(it.RememberLastEntryFor, other.RememberLastEntryFor) &&
		it.LastEntry == other.LastEntry
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// IndexOf returns the position of the first item structurally equal to
// target, or -1.
func IndexOf(items []*Item, target *Item) int {
	if target == nil {
		return -1
	}
	for i, it := range items {
		if it.Equal(target) {
			return i
		}
	}
	return -1
}
