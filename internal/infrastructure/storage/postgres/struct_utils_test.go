package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rentware/internal/core/entity"
	"rentware/internal/core/id"
)

type mockCatalog struct {
	entity.Catalog
	Location string `db:"location" json:"location"`
	Internal string `db:"-" json:"-"`
	NoTag    string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expected := []string{"id", "version", "created_at", "updated_at", "code", "name", "active", "location"}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}

	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "Internal")
	assert.NotContains(t, cols, "NoTag")
}

func TestStructToMap(t *testing.T) {
	cat := mockCatalog{
		Catalog: entity.Catalog{
			BaseEntity: entity.BaseEntity{
				ID:      id.New(),
				Version: 5,
			},
			Code:   "WH-01",
			Name:   "Main warehouse",
			Active: true,
		},
		Location: "Calle Mayor 1",
		Internal: "skip me",
		NoTag:    "skip me too",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "WH-01", m["code"])
	assert.Equal(t, "Main warehouse", m["name"])
	assert.Equal(t, true, m["active"])
	assert.Equal(t, "Calle Mayor 1", m["location"])

	_, hasInternal := m["-"]
	assert.False(t, hasInternal)
	assert.NotContains(t, m, "NoTag")
}

func TestStructToMap_Pointer(t *testing.T) {
	cat := &mockCatalog{
		Catalog: entity.Catalog{Code: "PTR", Name: "Pointer"},
	}

	m := StructToMap(cat)
	assert.Equal(t, "PTR", m["code"])
}

func TestStructToMap_NonStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap("nope"))
}
