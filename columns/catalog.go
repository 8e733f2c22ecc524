package columns

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Axis names the dimension of a fractional parameter.
type Axis string

const (
	Universe Axis = "universe"
	Galaxy   Axis = "galaxy"
	Emotion  Axis = "emotion"
	Size     Axis = "size"
)

var axisCategory = map[Axis]Category{
	Universe: FractionalUniverse,
	Galaxy:   FractionalGalaxy,
	Emotion:  FractionalEmotion,
	Size:     FractionalSize,
}

// Catalog declares which columns every parameter selects.
type Catalog struct {
	Parameters   []Parameter  `yaml:"parameters"`
	Combinations Combinations `yaml:"combinations"`
}

// Parameter maps one name=value selection to columns of the primary table.
//
// A numeric parameter takes integers as values instead of fixed words; each
// value n names column |n| and lands in the axis bucket, or in the
// concatenated bucket when no axis is set.
type Parameter struct {
	Name         string   `yaml:"name"`
	Value        string   `yaml:"value"`
	Ordinary     []int    `yaml:"ordinary"`
	Generated    []int    `yaml:"generated"`
	Concatenated []int    `yaml:"concatenated"`
	Bool         []int    `yaml:"bool"`
	Meta         []int    `yaml:"meta"`
	Tags         []string `yaml:"tags"`
	Numeric      bool     `yaml:"numeric"`
	Axis         Axis     `yaml:"axis"`
	PrimesOnly   bool     `yaml:"primesOnly"`
}

// Combinations declares the parameters that select columns of the
// combination tables.
type Combinations struct {
	Primary   Combination `yaml:"primary"`
	Secondary Combination `yaml:"secondary"`
}

// Combination maps the values of one parameter to combination table columns.
type Combination struct {
	Name    string         `yaml:"name"`
	Columns map[string]int `yaml:"columns"`
}

// LoadCatalog decodes and validates a YAML catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]struct{}, len(c.Parameters))
	for _, p := range c.Parameters {
		if p.Name == "" {
			return fmt.Errorf("%w: parameter without name", ErrInvalidCatalog)
		}
		if p.Axis != "" {
			if _, ok := axisCategory[p.Axis]; !ok {
				return fmt.Errorf("%w: parameter %q has unknown axis %q", ErrInvalidCatalog, p.Name, p.Axis)
			}
		}
		key := p.Name + "=" + p.Value
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidCatalog, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}
