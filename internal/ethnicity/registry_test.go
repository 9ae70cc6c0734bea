package ethnicity

import (
	"os"
	"path/filepath"
	"testing"

	"ethnicityfacts/domain/core"
	"ethnicityfacts/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	lookup := newTestLookup(t)

	require.NoError(t, registry.Register("ons-2011", lookup))
	assert.Error(t, registry.Register("", lookup))
	assert.Error(t, registry.Register("nil", nil))

	got, err := registry.Get("ons-2011")
	require.NoError(t, err)
	assert.Same(t, lookup, got)

	_, err = registry.Get("missing")
	assert.ErrorIs(t, err, core.ErrLookupNotFound)

	name, got, err := registry.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "ons-2011", name)
	assert.Same(t, lookup, got)

	require.NoError(t, registry.Register("ons-2021", newTestLookup(t)))
	_, _, err = registry.Resolve("")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Equal(t, []string{"ons-2011", "ons-2021"}, registry.Names())
}

func TestBuildRegistry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ref.csv"), []byte(referenceCSV), 0o644))

	registry, err := BuildRegistry([]config.LookupConfig{
		{Name: "relative", Reference: "ref.csv", Wildcard: "*", Defaults: []string{"*", "0"}},
		{Name: "absolute", Reference: filepath.Join(dir, "ref.csv")},
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"absolute", "relative"}, registry.Names())

	lookup, err := registry.Get("relative")
	require.NoError(t, err)
	out := lookup.Process([][]string{{"ethnicity"}, {"Sami"}}, "", "")
	assert.Equal(t, []string{"Sami", "Sami", "0"}, out[1])
}

func TestBuildRegistryFailsOnBadReference(t *testing.T) {
	_, err := BuildRegistry([]config.LookupConfig{{Name: "missing", Reference: "nope.csv"}}, t.TempDir())
	require.Error(t, err)
	assert.True(t, core.IsDataFormatError(err))
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestRepositoryCatalogueLoads(t *testing.T) {
	lookups, err := config.LoadLookups("../../config/lookups.yaml")
	require.NoError(t, err)

	registry, err := BuildRegistry(lookups, "../../config")
	require.NoError(t, err)

	lookup, err := registry.Get("ethnicity-2011")
	require.NoError(t, err)

	out := lookup.Process([][]string{
		{"Ethnicity", "Ethnicity type", "Value"},
		{"british", "white", "10"},
		{"Chinese", "ONS 2001", "11"},
		{"Chinese", "ONS 2011", "12"},
		{"Martian", "", "13"},
	}, "", "")
	assert.Equal(t, []string{"british", "white", "10", "White British", "White", "2"}, out[1])
	assert.Equal(t, []string{"Chinese", "ONS 2001", "11", "Chinese", "Other", "24"}, out[2])
	assert.Equal(t, []string{"Chinese", "ONS 2011", "12", "Chinese", "Asian", "24"}, out[3])
	assert.Equal(t, []string{"Martian", "", "13", "Martian", "Other", "98"}, out[4])
}
