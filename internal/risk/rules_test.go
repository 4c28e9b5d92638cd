package risk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/firstmover/alert-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesStore_MissingFile_BuiltinDefault(t *testing.T) {
	store := NewRulesStore(filepath.Join(t.TempDir(), "absent.json"), discardLogger())

	table := store.Table()
	require.Contains(t, table, "default")
	assert.Equal(t, 4, table["default"].Score)
	assert.Equal(t, domain.LabelModerate, table["default"].Label)
	assert.Equal(t, 0, store.CoveredZCTAs())
}

func TestRulesStore_MalformedFile_BuiltinDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risk_rules.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	store := NewRulesStore(path, discardLogger())
	table := store.Table()
	require.Contains(t, table, "default")
	assert.Equal(t, 4, table["default"].Score)
}

func TestRulesStore_LoadsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risk_rules.json")
	require.NoError(t, os.WriteFile(path, []byte(rulesFixture), 0o644))

	store := NewRulesStore(path, discardLogger())
	first := store.Table()

	// Removing the file after first load changes nothing: the table is
	// memoized for the process lifetime.
	require.NoError(t, os.Remove(path))
	second := store.Table()

	assert.Equal(t, first, second)
	assert.Contains(t, second, "92618")
}

func TestRulesStore_CoveredZCTAs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risk_rules.json")
	require.NoError(t, os.WriteFile(path, []byte(rulesFixture), 0o644))

	store := NewRulesStore(path, discardLogger())
	assert.Equal(t, 1, store.CoveredZCTAs()) // "default" excluded
}
