package models

import (
	"encoding/json"
	"sort"
)

// Fields maps field names to values. Values are string, int64, time.Time or nil.
type Fields map[string]any

// Names returns the field names in sorted order
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Record is one stored row of any mutable kind
type Record struct {
	Kind   Kind
	ID     int64
	Fields Fields
}

// Get returns the value of a field
func (r *Record) Get(name string) any {
	return r.Fields[name]
}

// Projection returns the public view of the record: its id plus every
// non-secret field
func (r *Record) Projection() map[string]any {
	out := map[string]any{"id": r.ID}

	d, err := DescriptorFor(r.Kind)
	if err != nil {
		return out
	}
	for _, spec := range d.Fields {
		if spec.Secret {
			continue
		}
		out[spec.Name] = r.Fields[spec.Name]
	}
	return out
}

// MarshalJSON encodes the record's projection
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Projection())
}
