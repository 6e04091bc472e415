package engine

// Field is one named cell of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is one data row. Field order is the order the source declared.
type Record struct {
	fields []Field
}

// NewRecord builds a record from fields in declared order. A repeated name
// keeps its first position and takes the last value.
func NewRecord(fields ...Field) Record {
	out := make([]Field, 0, len(fields))
	pos := make(map[string]int, len(fields))
	for _, f := range fields {
		if i, ok := pos[f.Name]; ok {
			out[i].Value = f.Value
			continue
		}
		pos[f.Name] = len(out)
		out = append(out, f)
	}
	return Record{fields: out}
}

// Get returns the value for name. Absent fields report ok=false and a null
// value.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Null(), false
}

// Value is Get without the presence flag.
func (r Record) Value(name string) Value {
	v, _ := r.Get(name)
	return v
}

// Names returns the field names in declared order.
func (r Record) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

func (r Record) Len() int { return len(r.fields) }
