package models

import "strings"

// DisasterType is a canonical disaster label with its known aliases.
// Name is the lower-cased canonical key; Aliases always contains Name.
// Default types form the fixed built-in baseline and are never persisted;
// everything else is a custom type created at runtime.
type DisasterType struct {
	Name      string   `json:"name"`
	Aliases   []string `json:"aliases"`
	IsDefault bool     `json:"is_default"`
}

// NewDisasterType creates a disaster type, normalizing the canonical name
// to lower case and guaranteeing it appears in the alias set.
func NewDisasterType(name string, aliases []string, isDefault bool) *DisasterType {
	name = strings.ToLower(strings.TrimSpace(name))
	all := make([]string, 0, len(aliases)+1)
	seen := map[string]bool{}
	for _, a := range append([]string{name}, aliases...) {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		all = append(all, a)
	}
	return &DisasterType{Name: name, Aliases: all, IsDefault: isDefault}
}

// HasAlias reports whether the keyword matches one of the aliases.
// The comparison is case-insensitive and ignores surrounding whitespace.
func (d *DisasterType) HasAlias(keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	for _, a := range d.Aliases {
		if a == keyword {
			return true
		}
	}
	return false
}
