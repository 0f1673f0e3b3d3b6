package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	pusimp "github.com/python-pusimp/go-pusimp"
)

// yamlGuard is the document shape of YAML and JSON manifests.
type yamlGuard struct {
	Package        string           `yaml:"package"`
	SystemManager  string           `yaml:"system_manager"`
	ContactURL     string           `yaml:"contact_url"`
	ExpectedPrefix string           `yaml:"expected_prefix"`
	Dependencies   []yamlDependency `yaml:"dependencies"`
}

type yamlDependency struct {
	ImportName       string `yaml:"import_name"`
	DistributionName string `yaml:"distribution_name"`
	Optional         bool   `yaml:"optional"`
	ExtraMessage     string `yaml:"extra_message"`

	line, column int
}

// UnmarshalYAML records the position of each dependency for diagnostics.
func (d *yamlDependency) UnmarshalYAML(node *yaml.Node) error {
	type plain yamlDependency
	var v plain
	if err := node.Decode(&v); err != nil {
		return err
	}
	*d = yamlDependency(v)
	d.line, d.column = node.Line, node.Column
	return nil
}

func parseYAML(filename string, content []byte) (*Result, error) {
	var doc yamlGuard
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{
			Pos:     Position{Filename: filename},
			Message: fmt.Sprintf("syntax error: %v", err),
			Wrapped: err,
		}
	}

	b := newBuilder(filename)
	if doc.Package != "" || doc.ExpectedPrefix != "" || doc.SystemManager != "" || doc.ContactURL != "" {
		b.setGuard(Position{Filename: filename, Line: 1, Column: 1}, pusimp.Guard{
			PackageName:    doc.Package,
			SystemManager:  doc.SystemManager,
			ContactURL:     doc.ContactURL,
			ExpectedPrefix: doc.ExpectedPrefix,
		})
	}
	for _, d := range doc.Dependencies {
		b.addDependency(Position{Filename: filename, Line: d.line, Column: d.column}, pusimp.Dependency{
			ImportName:       d.ImportName,
			DistributionName: d.DistributionName,
			Optional:         d.Optional,
			ExtraMessage:     d.ExtraMessage,
		})
	}
	return b.finish(), nil
}
