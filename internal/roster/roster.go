// Package roster reads the participant list used to seed sessions.
package roster

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Entry struct {
	ID    string `yaml:"id" json:"id"`
	Phone string `yaml:"phone" json:"phone"`
	Name  string `yaml:"name" json:"name"`
}

type File struct {
	Participants []Entry `yaml:"participants" json:"participants"`
}

func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a roster document and rejects blank or duplicate ids.
func Decode(r io.Reader) ([]Entry, error) {
	var doc File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}

	seen := make(map[string]bool, len(doc.Participants))
	out := make([]Entry, 0, len(doc.Participants))
	for i, e := range doc.Participants {
		e.ID = strings.TrimSpace(e.ID)
		e.Phone = strings.TrimSpace(e.Phone)
		e.Name = strings.TrimSpace(e.Name)
		if e.ID == "" || e.Phone == "" {
			return nil, fmt.Errorf("participant %d: id and phone are required", i+1)
		}
		key := strings.ToLower(e.ID)
		if seen[key] {
			return nil, fmt.Errorf("participant %d: duplicate id %q", i+1, e.ID)
		}
		seen[key] = true
		out = append(out, e)
	}
	return out, nil
}
