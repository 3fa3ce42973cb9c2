package vip

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsVIP(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("default directory: %v", err)
	}

	tests := []struct {
		name        string
		first, last string
		want        bool
	}{
		{"exact", "Ada", "Lovelace", true},
		{"case insensitive", "ADA", "lovelace", true},
		{"trimmed", "  grace ", "\thopper\n", true},
		{"localized pair", "juergen", "mueller", true},
		{"mixed localized", "Jürgen", "Mueller", true},
		{"unicode fold", "JÜRGEN", "MÜLLER", true},
		{"absent", "Alan", "Turing", false},
		{"empty first", "", "Lovelace", false},
		{"empty last", "Ada", "   ", false},
		{"missing last in profile", "Linus", "", false},
		{"swapped", "Lovelace", "Ada", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.IsVIP(tc.first, tc.last); got != tc.want {
				t.Fatalf("IsVIP(%q, %q) = %v, want %v", tc.first, tc.last, got, tc.want)
			}
		})
	}
}

func TestNilDirectory(t *testing.T) {
	var d *Directory
	if d.IsVIP("Ada", "Lovelace") {
		t.Fatal("nil directory should never match")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mvps.json")
	doc := `{"communityLeaderProfiles":[{"firstName":"Alan","lastName":"Turing"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !d.IsVIP("alan", "turing") {
		t.Fatal("expected loaded profile to match")
	}
	if d.Len() != 1 {
		t.Fatalf("expected 1 name, got %d", d.Len())
	}
}

func TestParseError(t *testing.T) {
	_, err := Parse(strings.NewReader("{"))
	if err == nil || !strings.Contains(err.Error(), "decode vip profiles") {
		t.Fatalf("expected decode error, got %v", err)
	}
}
