package taxonomy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveParentRedirectsToFirstChild(t *testing.T) {
	cfg := Default()

	res := cfg.Resolve("Люстра", "KinkLight")
	require.NotNil(t, res)
	assert.Equal(t, "KinkLight", res.Brand)
	assert.Equal(t, "Подвесная люстра", res.Node.SearchKey)
	assert.Equal(t, "Подвесные люстры", res.Node.Label)
	assert.True(t, res.Redirected)
	require.NotNil(t, res.Parent)
	assert.Equal(t, "Люстра", res.Parent.SearchKey)
}

func TestResolveLeafIsNotRedirected(t *testing.T) {
	cfg := Default()

	res := cfg.Resolve("Бра", "KinkLight")
	require.NotNil(t, res)
	assert.Equal(t, "Бра", res.Node.SearchKey)
	assert.False(t, res.Redirected)
	assert.Nil(t, res.Parent)
}

// Every declared alias, in any case combination, must land on the same
// canonical node as the node's own label.
func TestResolveAliasMatchesLabel(t *testing.T) {
	cfg := Default()

	for _, brand := range cfg.Brands {
		var walk func(nodes []CategoryNode)
		walk = func(nodes []CategoryNode) {
			for _, n := range nodes {
				want := cfg.Resolve(n.Label, brand.Name)
				require.NotNil(t, want, "label %q did not resolve", n.Label)
				for _, alias := range n.Aliases {
					for _, input := range []string{alias, strings.ToUpper(alias), strings.Title(alias)} {
						got := cfg.Resolve(input, brand.Name)
						require.NotNil(t, got, "alias %q did not resolve", input)
						assert.Equal(t, want.Node.Label, got.Node.Label, "alias %q", input)
						assert.Equal(t, want.Node.SearchKey, got.Node.SearchKey, "alias %q", input)
					}
				}
				walk(n.Children)
			}
		}
		walk(brand.RootCategories)
	}
}

func TestResolveAliasSubstring(t *testing.T) {
	cfg := Default()

	// Input contains a declared alias.
	res := cfg.Resolve("купить люстры недорого", "KinkLight")
	require.NotNil(t, res)
	assert.Equal(t, "Подвесная люстра", res.Node.SearchKey)
	assert.True(t, res.Redirected)

	// Declared alias contains the input.
	res = cfg.Resolve("свет", "KinkLight")
	require.NotNil(t, res)
	assert.Equal(t, "Подвесной светильник", res.Node.SearchKey)
}

func TestResolveMissReturnsNil(t *testing.T) {
	cfg := Default()

	assert.Nil(t, cfg.Resolve("шуруповёрт", ""))
	assert.Nil(t, cfg.Resolve("", "KinkLight"))
}

func TestResolveBrandHintOrdersScan(t *testing.T) {
	cfg := Default()

	res := cfg.Resolve("Трековая система", "Maytoni")
	require.NotNil(t, res)
	assert.Equal(t, "Maytoni", res.Brand)

	// Without a hint the declared brand order decides; Maytoni declares
	// track systems before ST Luce.
	res = cfg.Resolve("Трековая система", "")
	require.NotNil(t, res)
	assert.Equal(t, "Maytoni", res.Brand)
}

func TestBrandSlugTable(t *testing.T) {
	name, ok := BrandForSlug("kinklight")
	require.True(t, ok)
	assert.Equal(t, "KinkLight", name)

	slug, ok := SlugForBrand("Odeon Light")
	require.True(t, ok)
	assert.Equal(t, "odeon", slug)

	_, ok = BrandForSlug("nosuchbrand")
	assert.False(t, ok)
}

func TestCategoryPathTable(t *testing.T) {
	p, ok := PathForCategory("Подвесная люстра")
	require.True(t, ok)
	assert.Equal(t, "chandeliers/pendant-chandeliers", p)

	key, ok := CategoryForPath("chandeliers/pendant-chandeliers")
	require.True(t, ok)
	assert.Equal(t, "Подвесная люстра", key)
}

func TestAllBrandsCatalogIsLabelUnion(t *testing.T) {
	cfg := Default()
	union := cfg.AllBrands()

	seen := map[string]int{}
	for _, n := range union.RootCategories {
		seen[n.Label]++
	}
	for label, count := range seen {
		assert.Equal(t, 1, count, "label %q duplicated in union", label)
	}
	// Union preserves first declaration order: KinkLight's roots come first.
	require.NotEmpty(t, union.RootCategories)
	assert.Equal(t, "Люстры", union.RootCategories[0].Label)
}

func TestParseConfigRejectsDuplicateNodes(t *testing.T) {
	doc := []byte(`
brands:
  - name: X
    categories:
      - label: Бра
        searchKey: Бра
      - label: Бра
        searchKey: Бра
`)
	_, err := ParseConfig(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate node")
}
