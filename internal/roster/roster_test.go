package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `
participants:
  - id: TZ-001
    phone: "9999999991"
    name: Alice
  - id: " TZ-002 "
    phone: "9999999992"
    name: Bob
`

func TestDecode(t *testing.T) {
	entries, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[1].ID != "TZ-002" {
		t.Errorf("id = %q, want trimmed TZ-002", entries[1].ID)
	}
	if entries[0].Phone != "9999999991" {
		t.Errorf("phone = %q", entries[0].Phone)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing phone", doc: "participants:\n  - id: TZ-001\n"},
		{name: "duplicate id", doc: "participants:\n  - {id: TZ-001, phone: '1'}\n  - {id: tz-001, phone: '2'}\n"},
		{name: "unknown field", doc: "participants:\n  - {id: TZ-001, phone: '1', email: x}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	entries, err := Decode(strings.NewReader(""))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %d, want 0", len(entries))
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	entries, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("entries = %d, want 2", len(entries))
	}
}
