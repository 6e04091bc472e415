package engine

// Bindings names the schema columns that play each filter role.
type Bindings struct {
	Search       string
	Manufacturer string
	Platform     string
	Cores        string
}

// DefaultBindings matches the processor dataset's column names.
func DefaultBindings() Bindings {
	return Bindings{
		Search:       "Model",
		Manufacturer: "Manufacturer",
		Platform:     "Platform",
		Cores:        "Cores",
	}
}

// withDefaults fills empty roles from DefaultBindings.
func (b Bindings) withDefaults() Bindings {
	d := DefaultBindings()
	if b.Search == "" {
		b.Search = d.Search
	}
	if b.Manufacturer == "" {
		b.Manufacturer = d.Manufacturer
	}
	if b.Platform == "" {
		b.Platform = d.Platform
	}
	if b.Cores == "" {
		b.Cores = d.Cores
	}
	return b
}

// Dataset is the loaded record collection. It is read-only after
// NewDataset returns and safe to share between goroutines.
type Dataset struct {
	Records  []Record
	Schema   Schema
	Bindings Bindings
	Facets   Facets
}

// NewDataset validates records against a schema derived from the first
// record and precomputes the filter option lists.
func NewDataset(records []Record, b Bindings) (*Dataset, error) {
	schema, err := DeriveSchema(records)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{
		Records:  records,
		Schema:   schema,
		Bindings: b.withDefaults(),
	}
	ds.Facets = buildFacets(ds)
	return ds, nil
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
