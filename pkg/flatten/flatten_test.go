package flatten_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/fieldmap/pkg/flatten"
	"github.com/agentstation/fieldmap/pkg/record"
)

type entry struct {
	Path  string
	Value string
}

func entries(m *flatten.Map) []entry {
	var out []entry
	m.Each(func(p, v string) { out = append(out, entry{p, v}) })
	return out
}

func TestFlattenNested(t *testing.T) {
	rec := record.Record{
		{Key: "PDF_Name", Value: "study_01.pdf"},
		{Key: "patient_data", Value: record.Record{
			{Key: "total_patients", Value: 42},
			{Key: "age", Value: record.Record{
				{Key: "mean", Value: 65.2},
				{Key: "sd", Value: nil},
			}},
		}},
		{Key: "randomized", Value: true},
	}

	got := entries(flatten.Flatten(rec))
	want := []entry{
		{"PDF_Name", "study_01.pdf"},
		{"patient_data_total_patients", "42"},
		{"patient_data_age_mean", "65.2"},
		{"patient_data_age_sd", ""},
		{"randomized", "true"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flatten() mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenOptions(t *testing.T) {
	rec := record.Record{
		{Key: "a", Value: record.Record{{Key: "b", Value: "x"}}},
	}

	t.Run("separator", func(t *testing.T) {
		m := flatten.Flatten(rec, flatten.WithSeparator("."))
		assert.Equal(t, []string{"a.b"}, m.Keys())
	})

	t.Run("empty separator keeps default", func(t *testing.T) {
		m := flatten.Flatten(rec, flatten.WithSeparator(""))
		assert.Equal(t, []string{"a_b"}, m.Keys())
	})

	t.Run("parent", func(t *testing.T) {
		m := flatten.Flatten(rec, flatten.WithParent("root"))
		assert.Equal(t, []string{"root_a_b"}, m.Keys())
	})
}

func TestFlattenLists(t *testing.T) {
	rec := record.Record{
		{Key: "tags", Value: []any{"a", "b"}},
		{Key: "arms", Value: []any{record.Record{{Key: "n", Value: 10}}}},
	}

	t.Run("stringified by default", func(t *testing.T) {
		m := flatten.Flatten(rec)
		v, ok := m.Get("tags")
		require.True(t, ok)
		assert.Equal(t, `["a","b"]`, v)

		v, ok = m.Get("arms")
		require.True(t, ok)
		assert.Equal(t, `[{"n":10}]`, v)
	})

	t.Run("expanded", func(t *testing.T) {
		m := flatten.Flatten(rec, flatten.WithListExpansion())
		assert.Equal(t, []string{"tags_0", "tags_1", "arms_0_n"}, m.Keys())
		v, _ := m.Get("arms_0_n")
		assert.Equal(t, "10", v)
	})
}

func TestFlattenCollisionLastWriteWins(t *testing.T) {
	rec := record.Record{
		{Key: "a_b", Value: "first"},
		{Key: "c", Value: "middle"},
		{Key: "a", Value: record.Record{{Key: "b", Value: "second"}}},
	}

	m := flatten.Flatten(rec)
	assert.Equal(t, []string{"a_b", "c"}, m.Keys())
	v, _ := m.Get("a_b")
	assert.Equal(t, "second", v)
}

func TestFlattenEmpty(t *testing.T) {
	assert.Equal(t, 0, flatten.Flatten(nil).Len())
	assert.Equal(t, 0, flatten.Flatten(record.Record{{Key: "x", Value: record.Record{}}}).Len())
}

func TestFlattenIdempotent(t *testing.T) {
	flat := record.Record{
		{Key: "PDF_Name", Value: "a.pdf"},
		{Key: "age", Value: "65"},
		{Key: "blank", Value: ""},
	}

	once := flatten.Flatten(flat)

	var again record.Record
	once.Each(func(p, v string) { again = append(again, record.Field{Key: p, Value: v}) })
	twice := flatten.Flatten(again)

	if diff := cmp.Diff(entries(once), entries(twice)); diff != "" {
		t.Errorf("Flatten not idempotent (-once +twice):\n%s", diff)
	}
	if diff := cmp.Diff([]entry{{"PDF_Name", "a.pdf"}, {"age", "65"}, {"blank", ""}}, entries(once)); diff != "" {
		t.Errorf("flat input changed (-want +got):\n%s", diff)
	}
}

func TestFlattenProducesNoNestedValues(t *testing.T) {
	rec := record.Record{
		{Key: "a", Value: map[string]any{"b": map[string]any{"c": 1}}},
	}
	m := flatten.Flatten(rec)
	assert.Equal(t, []string{"a_b_c"}, m.Keys())
	m.Each(func(_, v string) {
		assert.NotContains(t, v, "{")
	})
}

func TestMap(t *testing.T) {
	m := flatten.NewMap()
	m.Set("x", "1")
	m.Set("y", "2")
	m.Set("x", "3")

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"x", "y"}, m.Keys())
	assert.True(t, m.Has("y"))
	assert.False(t, m.Has("z"))
	assert.Equal(t, map[string]string{"x": "3", "y": "2"}, m.ToMap())

	data, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":"3","y":"2"}`, string(data))
	assert.Equal(t, `{"x":"3","y":"2"}`, string(data))

	other := flatten.NewMap()
	other.Set("z", "4")
	other.Set("y", "5")
	m.Merge(other)
	assert.Equal(t, []string{"x", "y", "z"}, m.Keys())
	v, _ := m.Get("y")
	assert.Equal(t, "5", v)

	var nilMap *flatten.Map
	assert.Equal(t, 0, nilMap.Len())
	_, ok := nilMap.Get("x")
	assert.False(t, ok)
}
