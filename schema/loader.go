package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse builds a Registry from a YAML schema document. The document mirrors
// the programmatic descriptors:
//
//	entities:
//	  - name: User
//	    fields:
//	      - name: name
//	      - name: age
//	    relations:
//	      - name: pets
//	        target: Pet
//	        kind: one-to-many
//	        inverse: owner
//	  - name: Pet
//	    fields:
//	      - name: name
//	    relations:
//	      - name: owner
//	        target: User
//	        kind: many-to-one
//	        inverse: pets
//
// Omitted tables, key fields and join columns get the same defaults as
// NewRegistry applies.
func Parse(data []byte) (*Registry, error) {
	var doc struct {
		Entities []*entityDoc `yaml:"entities"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse: %w", err)
	}
	entities := make([]*Entity, len(doc.Entities))
	for i, ed := range doc.Entities {
		entities[i] = ed.entity()
	}
	return NewRegistry(entities...)
}

type entityDoc struct {
	Name      string        `yaml:"name"`
	Table     string        `yaml:"table"`
	Key       *fieldDoc     `yaml:"key"`
	Fields    []fieldDoc    `yaml:"fields"`
	Relations []relationDoc `yaml:"relations"`
}

type fieldDoc struct {
	Name   string `yaml:"name"`
	Column string `yaml:"column"`
}

type relationDoc struct {
	Name      string        `yaml:"name"`
	Target    string        `yaml:"target"`
	Kind      string        `yaml:"kind"`
	Owning    bool          `yaml:"owning"`
	Inverse   string        `yaml:"inverse"`
	Column    string        `yaml:"column"`
	RefColumn string        `yaml:"ref_column"`
	JoinTable *joinTableDoc `yaml:"join_table"`
}

type joinTableDoc struct {
	Name              string `yaml:"name"`
	JoinColumn        string `yaml:"join_column"`
	InverseJoinColumn string `yaml:"inverse_join_column"`
}

func (ed *entityDoc) entity() *Entity {
	e := &Entity{Name: ed.Name, Table: ed.Table}
	if ed.Key != nil {
		e.Key = Field{Name: ed.Key.Name, Column: ed.Key.Column}
	}
	for _, f := range ed.Fields {
		e.Fields = append(e.Fields, Field{Name: f.Name, Column: f.Column})
	}
	for _, rd := range ed.Relations {
		rel := &Relation{
			Name:      rd.Name,
			Target:    rd.Target,
			Owning:    rd.Owning,
			Inverse:   rd.Inverse,
			Column:    rd.Column,
			RefColumn: rd.RefColumn,
		}
		// Unknown kinds become an out-of-range value that NewRegistry rejects.
		rel.Kind = kindFromString(rd.Kind)
		if rd.JoinTable != nil {
			rel.JoinTable = &JoinTable{
				Name:              rd.JoinTable.Name,
				JoinColumn:        rd.JoinTable.JoinColumn,
				InverseJoinColumn: rd.JoinTable.InverseJoinColumn,
			}
		}
		e.Relations = append(e.Relations, rel)
	}
	return e
}

func kindFromString(s string) Kind {
	switch s {
	case "one-to-one":
		return O2O
	case "one-to-many":
		return O2M
	case "many-to-one":
		return M2O
	case "many-to-many":
		return M2M
	default:
		return Kind(255)
	}
}
