package schema

// Column is a named, typed position within a record.
type Column struct {
	Name  string
	Type  Type
	Index int
}

// Schema is an ordered, immutable list of columns.
type Schema struct {
	columns []Column
	byName  map[string]int
}

// New builds a schema from columns in order. Index fields are assigned
// from the position; any value the caller set is overwritten. When two
// columns share a name, Lookup returns the first.
func New(columns ...Column) Schema {
	cols := make([]Column, len(columns))
	byName := make(map[string]int, len(columns))
	for i, c := range columns {
		c.Index = i
		cols[i] = c
		if _, dup := byName[c.Name]; !dup {
			byName[c.Name] = i
		}
	}
	return Schema{columns: cols, byName: byName}
}

// Len returns the number of columns.
func (s Schema) Len() int {
	return len(s.columns)
}

// Column returns the column at position i. It panics if i is out of range.
func (s Schema) Column(i int) Column {
	return s.columns[i]
}

// Columns returns a copy of the columns in order.
func (s Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Lookup finds a column by exact name.
func (s Schema) Lookup(name string) (Column, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}
