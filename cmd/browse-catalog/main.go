package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lithammer/dedent"

	"github.com/lumistore/catalog-engine/config"
	"github.com/lumistore/catalog-engine/internal/engine"
	"github.com/lumistore/catalog-engine/internal/facet"
	"github.com/lumistore/catalog-engine/internal/taxonomy"
	"github.com/lumistore/catalog-engine/internal/upstream"
)

var usageExamples = dedent.Dedent(`
	Examples:
	  browse-catalog -brand KinkLight -category "Люстра"
	  browse-catalog -brand Maytoni -category "трек" -availability inStock -sort price-asc
	  browse-catalog -category "Бра" -availability outOfStock -page 2
`)

func main() {
	brand := flag.String("brand", "", "Brand name (empty for all brands)")
	category := flag.String("category", "", "Category input (label, search key, or alias)")
	color := flag.String("color", "", "Color filter")
	material := flag.String("material", "", "Material filter")
	minPrice := flag.Float64("min-price", 0, "Minimum price")
	maxPrice := flag.Float64("max-price", 0, "Maximum price")
	sortName := flag.String("sort", "", "Sort (price-asc, price-desc, popularity, newest, random)")
	availability := flag.String("availability", "all", "Availability (all, inStock, outOfStock)")
	newItems := flag.Bool("new", false, "Only items added in the last 30 days")
	page := flag.Int("page", 1, "Page number (1-based)")
	pageSize := flag.Int("page-size", 40, "Products per page")
	rawJSON := flag.Bool("json", false, "Output raw JSON only")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: browse-catalog [flags]\n")
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr, usageExamples)
	}
	flag.Parse()

	if *pageSize < 1 {
		*pageSize = 1
	}

	config.LoadEnvFile()

	cfg := taxonomy.Default()
	q := engine.Query{
		Brand: *brand,
		Filters: engine.Filters{
			Color:    *color,
			Material: *material,
			MinPrice: *minPrice,
			MaxPrice: *maxPrice,
		},
		Availability: engine.Availability(*availability),
		ShowOnlyNew:  *newItems,
		Sort:         engine.Sort(*sortName),
		Page:         *page,
	}
	if *category != "" {
		if res := cfg.Resolve(*category, *brand); res != nil {
			q.Category = res.Node
			if q.Brand == "" {
				q.Brand = res.Brand
			}
		} else {
			q.Filters.Search = *category
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := upstream.NewClient(upstream.ClientOpts{BaseURL: config.BaseURL()})
	agg := engine.NewAggregator(client)

	buf, err := agg.Aggregate(ctx, q, *pageSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	products, totalPages, totalProducts := engine.Apply(buf, q, *pageSize)

	if *rawJSON {
		out := map[string]any{
			"products":      products,
			"totalPages":    totalPages,
			"totalProducts": totalProducts,
			"facets":        facet.Extract(products),
		}
		jsonBytes, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(jsonBytes))
		return
	}

	fmt.Printf("Found %d products (page %d of %d)\n\n", totalProducts, q.Page, totalPages)
	for i, p := range products {
		fmt.Printf("%d. %s (%s) - %.0f rub\n", i+1, p.Name, p.ArticleCode, p.Price)
		if p.Attributes.Color != "" {
			fmt.Printf("   %s\n", p.Attributes.Color)
		}
	}
	if buf.Truncated {
		fmt.Println("\nNote: results may be incomplete")
	}
}
