// Package schema holds the relation metadata the compiler consumes: entity
// descriptors (table, key, field-to-column mapping) and relation descriptors
// (cardinality, ownership, join keys, association tables).
//
// Metadata is supplied externally, either programmatically through a Registry
// or declaratively from a YAML document (see Parse). A Registry is read-only
// after construction and safe for concurrent use.
package schema

import (
	"fmt"

	"github.com/go-openapi/inflect"

	"github.com/syssam/relq"
)

// Kind is the cardinality of a relation, a closed set matched exhaustively
// by the join resolver.
type Kind uint8

const (
	// O2O is a one-to-one relation. Ownership is carried separately on the
	// relation descriptor: the owning side's table holds the foreign key.
	O2O Kind = iota
	// O2M is a one-to-many relation; the foreign key lives on the related table.
	O2M
	// M2O is a many-to-one relation; the foreign key lives on this table.
	M2O
	// M2M is a many-to-many relation implemented through an association table.
	M2M
)

// String returns the conventional name of the kind.
func (k Kind) String() string {
	switch k {
	case O2O:
		return "one-to-one"
	case O2M:
		return "one-to-many"
	case M2O:
		return "many-to-one"
	case M2M:
		return "many-to-many"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// JoinTable describes the association table of a many-to-many relation.
type JoinTable struct {
	// Name of the association table.
	Name string
	// JoinColumn is the foreign key referencing the declaring entity.
	JoinColumn string
	// InverseJoinColumn is the foreign key referencing the target entity.
	InverseJoinColumn string
}

// Field maps a logical field name to its physical column.
type Field struct {
	Name   string
	Column string
}

// Relation describes one navigable association of an entity.
type Relation struct {
	// Name of the relation as referenced by queries.
	Name string
	// Target is the related entity type name.
	Target string
	// Kind is the relation cardinality.
	Kind Kind
	// Owning marks the side whose table holds the foreign key. It is only
	// meaningful for O2O; M2O is always owning and O2M never is.
	Owning bool
	// Inverse is the relation name on the target navigating back, or empty
	// for a uni-directional relation. Directionality does not change the
	// join mechanics, only what is navigable.
	Inverse string
	// Column is the join key column on this entity's table. Defaults to the
	// foreign key "<name>_id" for owning to-one relations and to the entity
	// key column otherwise.
	Column string
	// RefColumn is the join key column on the target side. Defaults to the
	// target key column for owning to-one relations and to the foreign key
	// "<inverse>_id" (or "<entity>_id") otherwise.
	RefColumn string
	// JoinTable is set for M2M relations only.
	JoinTable *JoinTable
}

// IsOwning reports whether this entity's table holds the foreign key.
func (r *Relation) IsOwning() bool {
	return r.Kind == M2O || (r.Kind == O2O && r.Owning)
}

// Entity describes one entity type: its table, primary key, fields and
// relations.
type Entity struct {
	// Name of the entity type.
	Name string
	// Table is the physical table name. Defaults to the pluralized,
	// underscored entity name ("OrderItem" -> "order_items").
	Table string
	// Key is the primary key field. Defaults to {id, id}.
	Key Field
	// Fields are the entity's scalar fields, excluding the key.
	Fields []Field
	// Relations are the entity's declared relations.
	Relations []*Relation

	columns   map[string]string
	relations map[string]*Relation
}

// Column returns the physical column for a logical field name. The key field
// resolves like any other field.
func (e *Entity) Column(field string) (string, bool) {
	c, ok := e.columns[field]
	return c, ok
}

// FieldByColumn returns the logical field name for a physical column.
func (e *Entity) FieldByColumn(column string) (string, bool) {
	if e.Key.Column == column {
		return e.Key.Name, true
	}
	for _, f := range e.Fields {
		if f.Column == column {
			return f.Name, true
		}
	}
	return "", false
}

// Relation returns the named relation, or a RelationNotFoundError. Lookup
// failure is a hard error, never a silent no-op.
func (e *Entity) Relation(name string) (*Relation, error) {
	r, ok := e.relations[name]
	if !ok {
		return nil, relq.NewRelationNotFoundError(e.Name, name)
	}
	return r, nil
}

// HasRelation reports whether the entity declares the named relation.
func (e *Entity) HasRelation(name string) bool {
	_, ok := e.relations[name]
	return ok
}

// Columns returns the qualified column list of the entity, key first, each
// prefixed with the given alias.
func (e *Entity) Columns(alias string) []string {
	cols := make([]string, 0, len(e.Fields)+1)
	cols = append(cols, alias+"."+e.Key.Column)
	for _, f := range e.Fields {
		cols = append(cols, alias+"."+f.Column)
	}
	return cols
}

// Registry is the metadata lookup the compiler consults. Exactly one entity
// descriptor exists per entity type name.
type Registry struct {
	entities map[string]*Entity
}

// NewRegistry builds a registry from the given entities, applying naming
// defaults and validating relation shapes.
func NewRegistry(entities ...*Entity) (*Registry, error) {
	r := &Registry{entities: make(map[string]*Entity, len(entities))}
	for _, e := range entities {
		if err := r.add(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. Intended for static
// metadata known correct at build time.
func MustRegistry(entities ...*Entity) *Registry {
	r, err := NewRegistry(entities...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) add(e *Entity) error {
	if e.Name == "" {
		return fmt.Errorf("schema: entity with empty name")
	}
	if _, ok := r.entities[e.Name]; ok {
		return fmt.Errorf("schema: duplicate entity %q", e.Name)
	}
	if e.Table == "" {
		e.Table = inflect.Pluralize(inflect.Underscore(e.Name))
	}
	if e.Key.Name == "" {
		e.Key.Name = "id"
	}
	if e.Key.Column == "" {
		e.Key.Column = inflect.Underscore(e.Key.Name)
	}
	e.columns = make(map[string]string, len(e.Fields)+1)
	e.columns[e.Key.Name] = e.Key.Column
	for i := range e.Fields {
		f := &e.Fields[i]
		if f.Column == "" {
			f.Column = inflect.Underscore(f.Name)
		}
		if _, ok := e.columns[f.Name]; ok {
			return fmt.Errorf("schema: duplicate field %q on entity %q", f.Name, e.Name)
		}
		e.columns[f.Name] = f.Column
	}
	e.relations = make(map[string]*Relation, len(e.Relations))
	for _, rel := range e.Relations {
		if err := validateRelation(e, rel); err != nil {
			return err
		}
		if _, ok := e.relations[rel.Name]; ok {
			return fmt.Errorf("schema: duplicate relation %q on entity %q", rel.Name, e.Name)
		}
		e.relations[rel.Name] = rel
	}
	r.entities[e.Name] = e
	return nil
}

func validateRelation(e *Entity, rel *Relation) error {
	if rel.Name == "" || rel.Target == "" {
		return fmt.Errorf("schema: relation on entity %q needs a name and a target", e.Name)
	}
	switch rel.Kind {
	case O2O, O2M, M2O:
		if rel.JoinTable != nil {
			return fmt.Errorf("schema: relation %q on %q: join table is only valid for many-to-many", rel.Name, e.Name)
		}
	case M2M:
		if rel.Owning {
			return fmt.Errorf("schema: relation %q on %q: many-to-many has no owning side", rel.Name, e.Name)
		}
	default:
		return fmt.Errorf("schema: relation %q on %q: unknown kind %d", rel.Name, e.Name, rel.Kind)
	}
	return nil
}

// Entity returns the descriptor for the given entity type name.
func (r *Registry) Entity(name string) (*Entity, error) {
	e, ok := r.entities[name]
	if !ok {
		return nil, fmt.Errorf("schema: unknown entity %q", name)
	}
	return e, nil
}

// OwnerColumn returns the join key column on the declaring (owner) side of
// the relation, applying defaults.
func (rel *Relation) OwnerColumn(owner *Entity) string {
	if rel.Column != "" {
		return rel.Column
	}
	if rel.IsOwning() {
		return inflect.Underscore(rel.Name) + "_id"
	}
	return owner.Key.Column
}

// TargetColumn returns the join key column on the target side of the
// relation, applying defaults.
func (rel *Relation) TargetColumn(owner, target *Entity) string {
	if rel.RefColumn != "" {
		return rel.RefColumn
	}
	if rel.Kind == M2M || rel.IsOwning() {
		return target.Key.Column
	}
	if rel.Inverse != "" {
		return inflect.Underscore(rel.Inverse) + "_id"
	}
	return inflect.Underscore(owner.Name) + "_id"
}

// AssocTable returns the association table spec of an M2M relation, applying
// defaults: "<owner_table>_<relation>" with "<owner>_id"/"<target>_id" keys.
func (rel *Relation) AssocTable(owner, target *Entity) JoinTable {
	jt := JoinTable{}
	if rel.JoinTable != nil {
		jt = *rel.JoinTable
	}
	if jt.Name == "" {
		jt.Name = owner.Table + "_" + inflect.Underscore(rel.Name)
	}
	if jt.JoinColumn == "" {
		jt.JoinColumn = inflect.Underscore(owner.Name) + "_id"
	}
	if jt.InverseJoinColumn == "" {
		jt.InverseJoinColumn = inflect.Underscore(target.Name) + "_id"
	}
	return jt
}
