package facet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumistore/catalog-engine/internal/upstream"
)

func productWithColor(color string) upstream.ProductRecord {
	return upstream.ProductRecord{Attributes: upstream.Attributes{Color: color}}
}

func TestExtractMergesColorSpellings(t *testing.T) {
	facets := Extract([]upstream.ProductRecord{
		productWithColor("Золотой"),
		productWithColor("gold matte"),
		productWithColor("ЗОЛОТО"),
	})

	require.Len(t, facets.Colors, 1)
	assert.Equal(t, "Gold", facets.Colors[0].Label)
	assert.Equal(t, []string{"Matte"}, facets.Colors[0].Variants)
}

func TestExtractColorFamilies(t *testing.T) {
	facets := Extract([]upstream.ProductRecord{
		productWithColor("серебро глянцевое"),
		productWithColor("Silver"),
		productWithColor("чёрный"),
		productWithColor("белый матовый"),
		productWithColor("Красный"),
	})

	require.Len(t, facets.Colors, 4)
	assert.Equal(t, ColorFacet{Label: "Black"}, facets.Colors[0])
	assert.Equal(t, ColorFacet{Label: "Silver", Variants: []string{"Glossy"}}, facets.Colors[1])
	assert.Equal(t, ColorFacet{Label: "White", Variants: []string{"Matte"}}, facets.Colors[2])
	// Values outside the known families are kept, title-cased.
	assert.Equal(t, ColorFacet{Label: "Красный"}, facets.Colors[3])
}

func TestExtractDistinctSortedAttributes(t *testing.T) {
	facets := Extract([]upstream.ProductRecord{
		{Attributes: upstream.Attributes{Material: "металл", SocketType: "E27", LampCount: 5}},
		{Attributes: upstream.Attributes{Material: "Металл", SocketType: "E14", LampCount: 3}},
		{Attributes: upstream.Attributes{Material: "стекло", LampCount: 5}},
		{Attributes: upstream.Attributes{}},
	})

	assert.Equal(t, []string{"Металл", "Стекло"}, facets.Materials)
	assert.Equal(t, []string{"E14", "E27"}, facets.SocketTypes)
	assert.Equal(t, []int{3, 5}, facets.LampCounts)
}

func TestExtractEmptySet(t *testing.T) {
	facets := Extract(nil)
	assert.Empty(t, facets.Colors)
	assert.Empty(t, facets.Materials)
	assert.Empty(t, facets.LampCounts)
}
