package columns

import (
	"io"

	"gopkg.in/yaml.v3"
)

// yamlIndent is the indentation of exported documents.
const yamlIndent = 2

type exportedColumn struct {
	Column int      `yaml:"column"`
	Tags   []string `yaml:"tags,omitempty"`
}

type exportedClassification struct {
	Buckets map[string][]exportedColumn `yaml:"buckets"`
	Unknown []string                    `yaml:"unknown,omitempty"`
}

// WriteYAML writes c as a YAML document. Buckets are keyed by category name;
// empty buckets are left out.
func WriteYAML(w io.Writer, c Classification) error {
	doc := exportedClassification{
		Buckets: make(map[string][]exportedColumn),
		Unknown: c.Unknown,
	}
	for _, cat := range Categories() {
		for _, col := range c.Buckets[cat].Values() {
			doc.Buckets[cat.String()] = append(doc.Buckets[cat.String()], exportedColumn{
				Column: col,
				Tags:   c.Tags[col].Tags,
			})
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
