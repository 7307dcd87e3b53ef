// Package catalog loads the static profile catalog printed in report appendices.
package catalog

import (
	_ "embed"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Gender is the gender-specificity tag of a catalog entry.
type Gender string

const (
	GenderNone   Gender = "none"
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// Order is the order partitions are printed in.
var Order = []Gender{GenderNone, GenderFemale, GenderMale}

// Entry is one profile definition.
type Entry struct {
	Name            string   `yaml:"name" validate:"required"`
	Description     string   `yaml:"description" validate:"required"`
	Gender          Gender   `yaml:"gender" validate:"oneof=none female male"`
	Icon            string   `yaml:"icon,omitempty"`
	Characteristics []string `yaml:"characteristics,omitempty"`
	Criteria        string   `yaml:"criteria,omitempty"`
}

// Catalog is an ordered, read-only list of profile definitions. It is safe to share
// between concurrent renders.
type Catalog struct {
	Version int     `yaml:"version"`
	Entries []Entry `yaml:"profiles" validate:"dive"`
}

// Partition is the set of entries sharing one gender tag, in catalog order.
type Partition struct {
	Gender  Gender
	Entries []Entry
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultCatalog, "(embedded)")
})

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Load reads a YAML catalog from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Message: "failed to read file", Cause: err}
	}
	return Parse(data, path)
}

// Parse decodes and validates YAML catalog data. A missing gender tag means none.
func Parse(data []byte, source string) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, &LoadError{Source: source, Message: "invalid YAML", Cause: err}
	}
	for i := range c.Entries {
		e := &c.Entries[i]
		e.Name = strings.TrimSpace(e.Name)
		e.Description = strings.TrimSpace(e.Description)
		e.Gender = Gender(strings.ToLower(strings.TrimSpace(string(e.Gender))))
		if e.Gender == "" {
			e.Gender = GenderNone
		}
	}
	if err := validator.New().Struct(&c); err != nil {
		return nil, &LoadError{Source: source, Message: "invalid entry", Cause: err}
	}
	return &c, nil
}

// Partitions groups entries by gender tag in Order, skipping empty groups.
func (c *Catalog) Partitions() []Partition {
	var out []Partition
	for _, g := range Order {
		if entries := c.Partition(g); len(entries) > 0 {
			out = append(out, Partition{Gender: g, Entries: entries})
		}
	}
	return out
}

// Partition returns the entries tagged g.
func (c *Catalog) Partition(g Gender) []Entry {
	var out []Entry
	for _, e := range c.Entries {
		if e.Gender == g {
			out = append(out, e)
		}
	}
	return out
}

// Lookup finds an entry by case-insensitive name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	name = strings.TrimSpace(name)
	for _, e := range c.Entries {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}
