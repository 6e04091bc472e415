package engine

import (
	"sort"
)

// Option is one entry of a filter drop-down. Value is what the control
// submits; Label is what it shows.
type Option struct {
	Value string
	Label string
}

// Facets are the distinct-value option lists offered by the three
// discrete filters.
type Facets struct {
	Manufacturers []Option
	Platforms     []Option
	CoreCounts    []Option
}

// dictionary collects distinct values in first-seen order.
type dictionary struct {
	seen map[Value]struct{}
	list []Value
}

func newDictionary() *dictionary {
	return &dictionary{seen: make(map[Value]struct{})}
}

func (d *dictionary) add(v Value) {
	if v.IsNull() {
		return
	}
	if _, ok := d.seen[v]; ok {
		return
	}
	d.seen[v] = struct{}{}
	d.list = append(d.list, v)
}

func buildFacets(ds *Dataset) Facets {
	b := ds.Bindings
	mans, plats, cores := newDictionary(), newDictionary(), newDictionary()

	for _, r := range ds.Records {
		mans.add(r.Value(b.Manufacturer))
		plats.add(r.Value(b.Platform))
		cores.add(r.Value(b.Cores))
	}

	// Numbers ascending; anything non-numeric keeps first-seen order after
	// them.
	sort.SliceStable(cores.list, func(i, j int) bool {
		a, b := cores.list[i], cores.list[j]
		if a.IsNumber() && b.IsNumber() {
			return a.Float() < b.Float()
		}
		return a.IsNumber() && !b.IsNumber()
	})

	return Facets{
		Manufacturers: options(mans.list),
		Platforms:     options(plats.list),
		CoreCounts:    options(cores.list),
	}
}

func options(values []Value) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v.String(), Label: v.String()}
	}
	return out
}
