package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lumistore/catalog-engine/internal/engine"
	"github.com/lumistore/catalog-engine/internal/taxonomy"
	"github.com/lumistore/catalog-engine/internal/urlstate"
)

func main() {
	input := flag.String("input", "", "Category input to resolve (label, search key, or alias)")
	brand := flag.String("brand", "", "Brand hint")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: resolve-category -input <text> [-brand <name>]")
		os.Exit(1)
	}

	cfg := taxonomy.Default()
	res := cfg.Resolve(*input, *brand)
	if res == nil {
		fmt.Printf("no taxonomy match, would fall back to free-text search: %q\n", *input)
		return
	}

	fmt.Printf("brand:     %s\n", res.Brand)
	fmt.Printf("label:     %s\n", res.Node.Label)
	fmt.Printf("searchKey: %s\n", res.Node.SearchKey)
	if res.Redirected {
		fmt.Printf("redirected from parent %q to first child\n", res.Parent.Label)
	}

	q := engine.Query{Brand: res.Brand, Category: res.Node, Page: 1}
	if *brand != "" {
		q.Brand = *brand
	}
	fmt.Printf("canonical: %s\n", urlstate.Encode(q))
}
