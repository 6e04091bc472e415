package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cpu(manufacturer, model, platform string, cores float64) Record {
	return NewRecord(
		Field{Name: "Manufacturer", Value: Text(manufacturer)},
		Field{Name: "Model", Value: Text(model)},
		Field{Name: "Platform", Value: Text(platform)},
		Field{Name: "Cores", Value: Number(cores)},
	)
}

func loadedModel(t *testing.T, records ...Record) *ViewModel {
	t.Helper()
	m := NewViewModel(DefaultBindings())
	require.NoError(t, m.LoadDataset(records))
	return m
}

func models(v View) []string {
	out := make([]string, v.Len())
	for i := 0; i < v.Len(); i++ {
		out[i] = v.At(i).Value("Model").String()
	}
	return out
}

func cores(v View) []float64 {
	out := make([]float64, v.Len())
	for i := 0; i < v.Len(); i++ {
		out[i] = v.At(i).Value("Cores").Float()
	}
	return out
}

func twoCPUs() []Record {
	return []Record{
		cpu("AMD", "Ryzen 5", "AM4", 6),
		cpu("Intel", "Core i7", "LGA1700", 8),
	}
}

func TestManufacturerFilter(t *testing.T) {
	m := loadedModel(t, twoCPUs()...)

	m.SetManufacturerFilter("AMD")

	assert.Equal(t, []string{"Ryzen 5"}, models(m.View()))
	assert.Equal(t, []int{0}, m.View().Indices())
}

func TestSearchText(t *testing.T) {
	m := loadedModel(t, twoCPUs()...)

	m.SetSearchText("ryzen")
	assert.Equal(t, []string{"Ryzen 5"}, models(m.View()))

	m.SetSearchText("RYZEN")
	assert.Equal(t, []string{"Ryzen 5"}, models(m.View()))

	m.SetSearchText("xyz")
	assert.Equal(t, 0, m.View().Len())

	m.SetSearchText("")
	assert.Equal(t, 2, m.View().Len())
}

func TestToggleSortNumeric(t *testing.T) {
	m := loadedModel(t,
		cpu("AMD", "A", "AM4", 6),
		cpu("AMD", "B", "AM4", 8),
		cpu("AMD", "C", "AM4", 4),
	)

	require.NoError(t, m.ToggleSort("Cores"))
	assert.Equal(t, []float64{4, 6, 8}, cores(m.View()))

	require.NoError(t, m.ToggleSort("Cores"))
	assert.Equal(t, []float64{8, 6, 4}, cores(m.View()))
}

func TestNumericSortIsNotLexicographic(t *testing.T) {
	m := loadedModel(t,
		cpu("AMD", "A", "AM4", 16),
		cpu("AMD", "B", "AM4", 4),
		cpu("AMD", "C", "AM4", 128),
	)

	require.NoError(t, m.ToggleSort("Cores"))
	assert.Equal(t, []float64{4, 16, 128}, cores(m.View()))
}

func TestTextSortIsCaseInsensitive(t *testing.T) {
	m := loadedModel(t,
		cpu("AMD", "epyc", "SP5", 64),
		cpu("AMD", "Athlon", "AM4", 2),
		cpu("AMD", "Ryzen", "AM5", 8),
	)

	require.NoError(t, m.ToggleSort("Model"))
	assert.Equal(t, []string{"Athlon", "epyc", "Ryzen"}, models(m.View()))

	require.NoError(t, m.ToggleSort("Model"))
	assert.Equal(t, []string{"Ryzen", "epyc", "Athlon"}, models(m.View()))
}

func TestToggleSortTransitions(t *testing.T) {
	m := loadedModel(t, twoCPUs()...)
	assert.False(t, m.Sort().Active())

	var dirs []Direction
	for i := 0; i < 3; i++ {
		require.NoError(t, m.ToggleSort("Model"))
		assert.Equal(t, "Model", m.Sort().Column)
		dirs = append(dirs, m.Sort().Direction)
	}
	assert.Equal(t, []Direction{Ascending, Descending, Ascending}, dirs)

	require.NoError(t, m.ToggleSort("Model"))
	require.NoError(t, m.ToggleSort("Cores"))
	assert.Equal(t, SortState{Column: "Cores", Direction: Ascending}, m.Sort())
}

func TestToggleSortByColumnID(t *testing.T) {
	m := loadedModel(t, NewRecord(
		Field{Name: "Model", Value: Text("X")},
		Field{Name: "Clock (GHz)", Value: Number(3.5)},
	))

	require.NoError(t, m.ToggleSort("clock-ghz"))
	assert.Equal(t, "Clock (GHz)", m.Sort().Column)
}

func TestToggleSortUnknownColumn(t *testing.T) {
	m := loadedModel(t, twoCPUs()...)
	require.NoError(t, m.ToggleSort("Cores"))

	err := m.ToggleSort("Price")
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Equal(t, SortState{Column: "Cores"}, m.Sort())
}

func TestResetAll(t *testing.T) {
	records := []Record{
		cpu("Intel", "Core i9", "LGA1700", 24),
		cpu("AMD", "Ryzen 5", "AM4", 6),
		cpu("AMD", "Ryzen 9", "AM5", 16),
	}
	m := loadedModel(t, records...)

	m.SetManufacturerFilter("AMD")
	m.SetSearchText("9")
	require.NoError(t, m.ToggleSort("Cores"))
	require.Equal(t, 1, m.View().Len())

	m.ResetAll()
	assert.Equal(t, FilterState{}, m.Filter())
	assert.Equal(t, SortState{}, m.Sort())
	assert.Equal(t, []int{0, 1, 2}, m.View().Indices())

	m.ResetAll()
	assert.Equal(t, []int{0, 1, 2}, m.View().Indices())
}

func TestCoreCountFilterIsLoose(t *testing.T) {
	m := loadedModel(t, twoCPUs()...)

	for _, sel := range []string{"8", "8.0", " 8 "} {
		m.SetCoreCountFilter(sel)
		assert.Equal(t, []string{"Core i7"}, models(m.View()), "selection %q", sel)
	}

	m.SetCoreCountFilter("eight")
	assert.Equal(t, 0, m.View().Len())
}

func TestManufacturerFilterIsStrict(t *testing.T) {
	m := loadedModel(t,
		NewRecord(Field{Name: "Manufacturer", Value: Number(5)}, Field{Name: "Model", Value: Text("odd")}),
		NewRecord(Field{Name: "Manufacturer", Value: Text("amd")}, Field{Name: "Model", Value: Text("lower")}),
	)

	m.SetManufacturerFilter("5")
	assert.Equal(t, 0, m.View().Len())

	m.SetManufacturerFilter("AMD")
	assert.Equal(t, 0, m.View().Len())

	m.SetManufacturerFilter("amd")
	assert.Equal(t, []string{"lower"}, models(m.View()))
}

func TestNullValues(t *testing.T) {
	m := loadedModel(t,
		NewRecord(Field{Name: "Model", Value: Null()}, Field{Name: "Platform", Value: Null()}, Field{Name: "Cores", Value: Null()}),
		NewRecord(Field{Name: "Model", Value: Text("Xeon")}, Field{Name: "Platform", Value: Text("LGA4677")}, Field{Name: "Cores", Value: Number(56)}),
	)

	m.SetSearchText("x")
	assert.Equal(t, []int{1}, m.View().Indices())

	m.SetSearchText("")
	m.SetPlatformFilter("LGA4677")
	assert.Equal(t, []int{1}, m.View().Indices())

	m.SetPlatformFilter("")
	m.SetCoreCountFilter("0")
	assert.Equal(t, 0, m.View().Len())
}

func TestOperationsBeforeLoad(t *testing.T) {
	m := NewViewModel(DefaultBindings())

	m.SetSearchText("ryzen")
	m.SetManufacturerFilter("AMD")
	require.NoError(t, m.ToggleSort("Cores"))
	m.ResetAll()

	assert.False(t, m.Loaded())
	assert.Equal(t, 0, m.View().Len())
	assert.Equal(t, 0, m.ComputeView().Len())
	assert.Equal(t, FilterState{}, m.Filter())
	assert.Equal(t, SortState{}, m.Sort())
}

func TestOnChangeFiresAfterEveryMutation(t *testing.T) {
	m := NewViewModel(DefaultBindings())
	var snaps []Snapshot
	m.OnChange(func(s Snapshot) { snaps = append(snaps, s) })

	require.NoError(t, m.LoadDataset(twoCPUs()))
	m.SetManufacturerFilter("Intel")
	require.NoError(t, m.ToggleSort("Model"))
	m.ResetAll()

	require.Len(t, snaps, 4)
	assert.Equal(t, 1, snaps[1].View.Len())
	assert.Equal(t, "Intel", snaps[1].Filter.Manufacturer)
	assert.Equal(t, "Model", snaps[2].Sort.Column)
	assert.Equal(t, 2, snaps[3].View.Len())
}

func TestLoadDatasetRejectsRaggedRecords(t *testing.T) {
	m := NewViewModel(DefaultBindings())
	err := m.LoadDataset([]Record{
		cpu("AMD", "Ryzen 5", "AM4", 6),
		NewRecord(Field{Name: "Manufacturer", Value: Text("Intel")}),
	})

	assert.ErrorIs(t, err, ErrRaggedRecord)
	assert.False(t, m.Loaded())
}

func TestRestore(t *testing.T) {
	m := loadedModel(t, twoCPUs()...)

	require.NoError(t, m.Restore(FilterState{Platform: "AM4"}, SortState{Column: "cores", Direction: Descending}))
	assert.Equal(t, "Cores", m.Sort().Column)
	assert.Equal(t, []string{"Ryzen 5"}, models(m.View()))

	err := m.Restore(FilterState{}, SortState{Column: "nope"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestDispatch(t *testing.T) {
	m := loadedModel(t, twoCPUs()...)

	require.NoError(t, m.DispatchAll(
		SetFilter{Field: FilterManufacturer, Value: "AMD"},
		SetSearch{Text: "ry"},
		ToggleSort{Column: "Model"},
	))
	assert.Equal(t, FilterState{Search: "ry", Manufacturer: "AMD"}, m.Filter())
	assert.Equal(t, []string{"Ryzen 5"}, models(m.View()))

	require.NoError(t, m.Dispatch(Reset{}))
	assert.Equal(t, 2, m.View().Len())

	err := m.DispatchAll(SetFilter{Field: FilterCores, Value: "8"}, ToggleSort{Column: "bogus"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Equal(t, "8", m.Filter().Cores)

	err = m.Dispatch(SetFilter{Field: FilterField(9)})
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

// The view must always be a subsequence of the dataset, whatever the filter
// and sort.
func TestComputeYieldsSubsequence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	mans := []string{"AMD", "Intel", "Apple"}
	plats := []string{"AM4", "AM5", "LGA1700", "SoC"}
	names := []string{"Ryzen", "Core", "Xeon", "EPYC", "M"}

	records := make([]Record, 200)
	for i := range records {
		records[i] = cpu(
			mans[rng.Intn(len(mans))],
			names[rng.Intn(len(names))]+" "+string(rune('a'+rng.Intn(26))),
			plats[rng.Intn(len(plats))],
			float64(2*(1+rng.Intn(16))),
		)
	}
	ds, err := NewDataset(records, DefaultBindings())
	require.NoError(t, err)

	columns := []string{"", "Manufacturer", "Model", "Platform", "Cores"}
	for round := 0; round < 100; round++ {
		f := FilterState{}
		if rng.Intn(2) == 0 {
			f.Search = string(rune('a' + rng.Intn(26)))
		}
		if rng.Intn(2) == 0 {
			f.Manufacturer = mans[rng.Intn(len(mans))]
		}
		if rng.Intn(3) == 0 {
			f.Platform = plats[rng.Intn(len(plats))]
		}
		if rng.Intn(3) == 0 {
			f.Cores = ds.Facets.CoreCounts[rng.Intn(len(ds.Facets.CoreCounts))].Value
		}
		s := SortState{Column: columns[rng.Intn(len(columns))], Direction: Direction(rng.Intn(2))}

		v := Compute(ds, f, s)

		seen := make(map[int]bool)
		for i := 0; i < v.Len(); i++ {
			idx := v.Index(i)
			require.False(t, seen[idx], "duplicate index %d", idx)
			seen[idx] = true
		}
		// Every matching record is present exactly once.
		unfiltered := Compute(ds, f, SortState{})
		require.Equal(t, unfiltered.Len(), v.Len())
		for i := 0; i < unfiltered.Len(); i++ {
			require.True(t, seen[unfiltered.Index(i)])
		}
		// Unsorted views keep load order.
		for i := 1; i < unfiltered.Len(); i++ {
			require.Less(t, unfiltered.Index(i-1), unfiltered.Index(i))
		}
		// Sorted views are ordered by the comparator.
		if s.Active() {
			for i := 1; i < v.Len(); i++ {
				cmp := Compare(v.At(i-1).Value(s.Column), v.At(i).Value(s.Column))
				if s.Direction == Descending {
					cmp = -cmp
				}
				require.LessOrEqual(t, cmp, 0)
			}
		}
	}
}
