package schema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Column is one normalized column of a table or view.
type Column struct {
	Field      string   `yaml:"field"`
	Type       string   `yaml:"type"` // bare type, no (length) suffix
	Length     int      `yaml:"length"`
	Nullable   bool     `yaml:"nullable"`
	IsPrimary  bool     `yaml:"isPrimary"`
	Key        string   `yaml:"key"`
	Index      int      `yaml:"index"` // 0-based declaration order
	Extra      string   `yaml:"extra"`
	Default    *string  `yaml:"default,omitempty"`
	EnumValues []string `yaml:"enumValues,omitempty"`
}

// Clone returns a copy of the column that shares no memory with c.
func (c *Column) Clone() *Column {
	cp := *c
	if c.Default != nil {
		def := *c.Default
		cp.Default = &def
	}
	if c.EnumValues != nil {
		cp.EnumValues = append([]string(nil), c.EnumValues...)
	}
	return &cp
}

// Dict is a string keyed map that remembers insertion order. The zero value is
// an empty dictionary ready to use.
type Dict[V any] struct {
	m *orderedmap.OrderedMap[string, V]
}

// Set stores value under key. Replacing an existing key keeps its position.
func (d *Dict[V]) Set(key string, value V) {
	if d.m == nil {
		d.m = orderedmap.New[string, V]()
	}
	d.m.Set(key, value)
}

func (d Dict[V]) Get(key string) (V, bool) {
	if d.m == nil {
		var zero V
		return zero, false
	}
	return d.m.Get(key)
}

func (d Dict[V]) Len() int {
	if d.m == nil {
		return 0
	}
	return d.m.Len()
}

// Keys returns the keys in insertion order.
func (d Dict[V]) Keys() []string {
	keys := make([]string, 0, d.Len())
	d.Range(func(key string, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Values returns the values in insertion order.
func (d Dict[V]) Values() []V {
	values := make([]V, 0, d.Len())
	d.Range(func(_ string, value V) bool {
		values = append(values, value)
		return true
	})
	return values
}

// Range calls fn for every entry in insertion order until fn returns false.
func (d Dict[V]) Range(fn func(key string, value V) bool) {
	if d.m == nil {
		return
	}
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// MarshalYAML encodes the dictionary as a mapping in insertion order.
func (d Dict[V]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	var err error
	d.Range(func(key string, value V) bool {
		var v yaml.Node
		if err = v.Encode(value); err != nil {
			return false
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, &v)
		return true
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// Table maps column names to columns in declaration order.
type Table = Dict[*Column]

// NewTable builds a table from columns, keyed by Column.Field.
func NewTable(columns ...*Column) *Table {
	t := &Table{}
	for _, c := range columns {
		t.Set(c.Field, c)
	}
	return t
}

// Parameter describes one IN, OUT or INOUT parameter of a stored procedure.
type Parameter struct {
	Name         string `yaml:"name"`
	Ordinal      int    `yaml:"ordinal"`
	Mode         string `yaml:"mode"`
	DataType     string `yaml:"dataType"`
	Length       int    `yaml:"length"`
	DeclaredType string `yaml:"declaredType"`
}

type StoredProcedure struct {
	Name       string           `yaml:"name"`
	Parameters Dict[*Parameter] `yaml:"parameters"`
}

// Schema is the normalized model of one database.
type Schema struct {
	Database         string                 `yaml:"database"`
	Tables           Dict[*Table]           `yaml:"tables"`
	Views            Dict[*Table]           `yaml:"views"`
	StoredProcedures Dict[*StoredProcedure] `yaml:"storedProcedures"`
}

// DefinitionCopy returns a deep copy of the schema suitable for embedding in
// generated code. View columns lose their default values, which are
// meaningless on a projection.
func (s *Schema) DefinitionCopy() *Schema {
	cp := &Schema{Database: s.Database}
	s.Tables.Range(func(name string, t *Table) bool {
		cp.Tables.Set(name, copyTable(t, false))
		return true
	})
	s.Views.Range(func(name string, t *Table) bool {
		cp.Views.Set(name, copyTable(t, true))
		return true
	})
	s.StoredProcedures.Range(func(name string, sp *StoredProcedure) bool {
		out := &StoredProcedure{Name: sp.Name}
		sp.Parameters.Range(func(pname string, p *Parameter) bool {
			param := *p
			out.Parameters.Set(pname, &param)
			return true
		})
		cp.StoredProcedures.Set(name, out)
		return true
	})
	return cp
}

func copyTable(t *Table, dropDefaults bool) *Table {
	out := &Table{}
	t.Range(func(name string, c *Column) bool {
		col := c.Clone()
		if dropDefaults {
			col.Default = nil
		}
		out.Set(name, col)
		return true
	})
	return out
}
