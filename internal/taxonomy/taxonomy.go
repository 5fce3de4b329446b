// Package taxonomy holds the static brand/category tree and resolves
// human-authored category input to canonical nodes.
package taxonomy

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTaxonomyYAML []byte

// AllBrandsName is the name of the synthetic catalog whose categories are
// the union of every brand's root category labels.
const AllBrandsName = "all"

// CategoryNode is one node of a brand's category tree. SearchKey is the
// canonical string sent upstream; Aliases are matched case-insensitively.
type CategoryNode struct {
	Label     string         `yaml:"label"`
	SearchKey string         `yaml:"searchKey"`
	Aliases   []string       `yaml:"aliases,omitempty"`
	Children  []CategoryNode `yaml:"children,omitempty"`
}

// BrandCatalog is the category tree of a single brand.
type BrandCatalog struct {
	Name           string         `yaml:"name"`
	RootCategories []CategoryNode `yaml:"categories"`
}

// Config is the full taxonomy, loaded once at process start and immutable
// thereafter.
type Config struct {
	Brands []BrandCatalog `yaml:"brands"`

	allBrands BrandCatalog
}

// ParseConfig decodes a taxonomy document and builds the synthetic
// all-brands catalog from it.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.allBrands = buildAllBrandsCatalog(cfg.Brands)
	return &cfg, nil
}

var (
	defaultConfig     *Config
	defaultConfigOnce sync.Once
)

// Default returns the taxonomy shipped with the binary.
func Default() *Config {
	defaultConfigOnce.Do(func() {
		cfg, err := ParseConfig(defaultTaxonomyYAML)
		if err != nil {
			panic(err)
		}
		defaultConfig = cfg
	})
	return defaultConfig
}

// AllBrands returns the synthetic union catalog.
func (c *Config) AllBrands() BrandCatalog {
	return c.allBrands
}

// Brand returns the catalog for an exact brand name.
func (c *Config) Brand(name string) (BrandCatalog, bool) {
	for _, b := range c.Brands {
		if b.Name == name {
			return b, true
		}
	}
	return BrandCatalog{}, false
}

// validate enforces the (label, searchKey) uniqueness invariant within each
// brand. Aliases may overlap freely.
func (c *Config) validate() error {
	for _, b := range c.Brands {
		seen := map[string]bool{}
		var walk func(nodes []CategoryNode) error
		walk = func(nodes []CategoryNode) error {
			for _, n := range nodes {
				key := n.Label + "\x00" + n.SearchKey
				if seen[key] {
					return fmt.Errorf("taxonomy: duplicate node (%q, %q) in brand %q", n.Label, n.SearchKey, b.Name)
				}
				seen[key] = true
				if err := walk(n.Children); err != nil {
					return err
				}
			}
			return nil
		}
		if err := walk(b.RootCategories); err != nil {
			return err
		}
	}
	return nil
}

// buildAllBrandsCatalog unions root categories across brands by label,
// keeping the first declaration of each label. Brand order is preserved.
func buildAllBrandsCatalog(brands []BrandCatalog) BrandCatalog {
	union := BrandCatalog{Name: AllBrandsName}
	seen := map[string]bool{}
	for _, b := range brands {
		for _, n := range b.RootCategories {
			if seen[n.Label] {
				continue
			}
			seen[n.Label] = true
			union.RootCategories = append(union.RootCategories, n)
		}
	}
	return union
}
