package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	table := Default()

	assert.Equal(t, []string{"Amazon", "Apple", "Google", "Microsoft", "Tesla"}, table.Symbols())

	price, ok := table.Price("Apple")
	assert.True(t, ok)
	assert.Equal(t, 180.0, price)
}

func TestPrice_NormalizesLookup(t *testing.T) {
	table := Default()

	price, ok := table.Price(" tesla ")
	assert.True(t, ok)
	assert.Equal(t, 250.0, price)

	_, ok = table.Price("Plum")
	assert.False(t, ok)
	assert.False(t, table.Contains("Plum"))
}

func TestNew_DropsNonPositivePrices(t *testing.T) {
	table := New(map[string]float64{
		"apple": 180,
		"tesla": 0,
		"plum":  -5,
	})

	assert.Equal(t, []string{"Apple"}, table.Symbols())
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns default table", func(t *testing.T) {
		table, err := Load("")
		require.NoError(t, err)
		assert.True(t, table.Contains("Apple"))
	})

	t.Run("reads JSON file with normalized keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prices.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"apple": 42.5, "plum": 7}`), 0644))

		table, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, []string{"Apple", "Plum"}, table.Symbols())
		price, ok := table.Price("Apple")
		assert.True(t, ok)
		assert.Equal(t, 42.5, price)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("empty table fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestMap_ReturnsCopy(t *testing.T) {
	table := Default()

	prices := table.Map()
	prices["Apple"] = 1

	price, _ := table.Price("Apple")
	assert.Equal(t, 180.0, price, "mutating the returned map must not affect the table")
}
