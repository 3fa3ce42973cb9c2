// Package vip decides whether a player unlocks VIP mode.
//
// The directory is a static list of community leader profiles. Lookups are by
// full name, trimmed and case-folded, so "  ada " + "LOVELACE" matches
// "Ada Lovelace".
package vip

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
)

//go:embed mvps.json
var defaultProfiles []byte

// Profile is one community leader entry.
type Profile struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	LocalizedFirstName string `json:"localizedFirstName,omitempty"`
	LocalizedLastName  string `json:"localizedLastName,omitempty"`
}

type document struct {
	CommunityLeaderProfiles []Profile `json:"communityLeaderProfiles"`
}

// Directory is an immutable set of normalized full names.
type Directory struct {
	names map[string]struct{}
}

// Default returns the directory built from the embedded profile list.
func Default() (*Directory, error) {
	return Parse(strings.NewReader(string(defaultProfiles)))
}

// LoadFile builds a directory from a JSON file on disk.
func LoadFile(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vip file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse builds a directory from a JSON document.
func Parse(r io.Reader) (*Directory, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode vip profiles: %w", err)
	}
	return New(doc.CommunityLeaderProfiles), nil
}

// New indexes every first/last combination of the given profiles, including the
// localized variants.
func New(profiles []Profile) *Directory {
	d := &Directory{names: make(map[string]struct{}, len(profiles)*2)}
	for _, p := range profiles {
		first := normalize(p.FirstName)
		last := normalize(p.LastName)
		lfirst := normalize(p.LocalizedFirstName)
		llast := normalize(p.LocalizedLastName)

		d.add(first, last)
		d.add(lfirst, llast)
		d.add(first, llast)
		d.add(lfirst, last)
	}
	return d
}

func (d *Directory) add(first, last string) {
	if first == "" || last == "" {
		return
	}
	d.names[first+" "+last] = struct{}{}
}

// Len reports the number of indexed name combinations.
func (d *Directory) Len() int {
	return len(d.names)
}

// IsVIP reports whether the name pair is in the directory. Empty parts never match.
func (d *Directory) IsVIP(firstName, lastName string) bool {
	if d == nil {
		return false
	}
	first := normalize(firstName)
	last := normalize(lastName)
	if first == "" || last == "" {
		return false
	}
	_, ok := d.names[first+" "+last]
	return ok
}

// A Caser is stateful, so each call gets its own.
func normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
