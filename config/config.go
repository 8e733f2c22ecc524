// Package config reads the settings of a report from a rudder-go-kit
// configuration. Every key lives under the "Reta." namespace and can be
// overridden from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bjaus/reta"
	"github.com/bjaus/reta/columns"
	"github.com/bjaus/reta/rangeparse"
	"github.com/bjaus/reta/rowfilter"
	kitconfig "github.com/rudderlabs/rudder-go-kit/config"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// Sentinel errors for programmatic error handling.
var (
	ErrInvalidConfig = errors.New("invalid config")
)

// EnvPrefix prefixes the environment variables that override keys.
const EnvPrefix = "RETA"

// Defaults.
const (
	DefaultSyntax     = reta.Shell
	DefaultSunCeiling = 114
	DefaultToday      = 10
)

// ConcatKey names the row-aligned table of the concatenated bucket in
// [Config.Concat]. The fractional buckets are keyed by their axis.
const ConcatKey = "concatenated"

// Config is the resolved configuration of one report.
type Config struct {
	// Primary is the path of the primary table.
	Primary string
	// Catalog is the path of the YAML column catalog.
	Catalog string
	// CombinationPrimary and CombinationSecondary are the paths of the
	// combination tables.
	CombinationPrimary   string
	CombinationSecondary string
	// Concat maps ConcatKey and the axis names to row-aligned tables.
	Concat map[string]string

	Syntax    reta.Syntax
	Numbering bool
	NoHeader  bool
	NoEmpty   bool
	Color     bool
	Width     int
	Widths    []int
	// Order lists 1-based output columns to keep, in output order.
	Order []int

	Marker     string
	SunCeiling int
	Today      int
}

// New returns a kit configuration that reads overrides from RETA_*
// environment variables.
func New() *kitconfig.Config {
	return kitconfig.New(kitconfig.WithEnvPrefix(EnvPrefix))
}

// Load resolves the configuration from c.
func Load(c *kitconfig.Config) (Config, error) {
	cfg := Config{
		Primary:              c.GetString("Reta.primary", ""),
		Catalog:              c.GetString("Reta.catalog", ""),
		CombinationPrimary:   c.GetString("Reta.combination.primary", ""),
		CombinationSecondary: c.GetString("Reta.combination.secondary", ""),
		Concat:               make(map[string]string),
		Numbering:            c.GetBool("Reta.numbering", true),
		NoHeader:             c.GetBool("Reta.noHeader", false),
		NoEmpty:              c.GetBool("Reta.noEmpty", false),
		Color:                c.GetBool("Reta.color", false),
		Width:                c.GetInt("Reta.width", 0),
		Marker:               c.GetString("Reta.marker", rangeparse.DefaultMarker),
		SunCeiling:           c.GetInt("Reta.sunCeiling", DefaultSunCeiling),
		Today:                c.GetInt("Reta.today", DefaultToday),
	}

	for _, key := range concatKeys() {
		if path := c.GetString("Reta.concat."+key, ""); path != "" {
			cfg.Concat[key] = path
		}
	}

	var err error
	if cfg.Syntax, err = reta.ParseSyntax(c.GetString("Reta.syntax", string(DefaultSyntax))); err != nil {
		return Config{}, err
	}
	if cfg.Widths, err = ParseInts(c.GetString("Reta.widths", "")); err != nil {
		return Config{}, fmt.Errorf("%w: widths: %w", ErrInvalidConfig, err)
	}
	if cfg.Order, err = ParseInts(c.GetString("Reta.order", "")); err != nil {
		return Config{}, fmt.Errorf("%w: order: %w", ErrInvalidConfig, err)
	}
	if cfg.Width < 0 {
		return Config{}, fmt.Errorf("%w: negative width %d", ErrInvalidConfig, cfg.Width)
	}
	if strings.TrimSpace(cfg.Marker) == "" {
		cfg.Marker = rangeparse.DefaultMarker
	}
	return cfg, nil
}

func concatKeys() []string {
	return []string{
		ConcatKey,
		string(columns.Universe),
		string(columns.Galaxy),
		string(columns.Emotion),
		string(columns.Size),
	}
}

// ParseInts reads a comma separated list of integers. Blank items are
// skipped; an empty string is an empty list.
func ParseInts(s string) ([]int, error) {
	parts := lo.Compact(lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	}))
	if len(parts) == 0 {
		return nil, nil
	}
	return cast.ToIntSliceE(lo.Map(parts, func(p string, _ int) string {
		return columns.Decimal(p)
	}))
}

// RenderOptions returns the renderer options. cls colors and styles rows.
func (c Config) RenderOptions(cls reta.Classifier) reta.Options {
	return reta.Options{
		Syntax:     c.Syntax,
		Numbering:  c.Numbering,
		NoHeader:   c.NoHeader,
		NoEmpty:    c.NoEmpty,
		Color:      c.Color,
		Width:      c.Width,
		Widths:     c.Widths,
		Classifier: cls,
	}
}

// FilterOptions returns the row filter bounds.
func (c Config) FilterOptions() rowfilter.Options {
	return rowfilter.Options{SunCeiling: c.SunCeiling, Today: c.Today}
}
