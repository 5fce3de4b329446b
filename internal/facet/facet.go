// Package facet derives the currently available filter values from a
// result set. It operates on the visible products only, so facet lists
// legitimately narrow or grow as the category and filters change.
package facet

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lumistore/catalog-engine/internal/upstream"
)

// ColorFacet is one canonical color entry. Near-duplicate spellings collapse
// into a single entry; finish qualifiers observed in the set are kept as
// sub-variants.
type ColorFacet struct {
	Label    string
	Variants []string
}

// Facets are the distinct filter values observed in a product set, each
// deduplicated and sorted.
type Facets struct {
	Colors      []ColorFacet
	Materials   []string
	SocketTypes []string
	LampCounts  []int
	ShadeColors []ColorFacet
	FrameColors []ColorFacet
}

// Extract derives facets from the given products.
func Extract(products []upstream.ProductRecord) Facets {
	var colors, shadeColors, frameColors, materials, socketTypes []string
	var lampCounts []int
	for _, p := range products {
		colors = append(colors, p.Attributes.Color)
		shadeColors = append(shadeColors, p.Attributes.ShadeColor)
		frameColors = append(frameColors, p.Attributes.FrameColor)
		materials = append(materials, p.Attributes.Material)
		socketTypes = append(socketTypes, p.Attributes.SocketType)
		if p.Attributes.LampCount > 0 {
			lampCounts = append(lampCounts, p.Attributes.LampCount)
		}
	}

	return Facets{
		Colors:      extractColors(colors),
		ShadeColors: extractColors(shadeColors),
		FrameColors: extractColors(frameColors),
		Materials:   distinctStrings(materials),
		SocketTypes: distinctStrings(socketTypes),
		LampCounts:  distinctInts(lampCounts),
	}
}

// extractColors collapses color spellings into canonical families, keeping
// first-seen order for tie-breaking before the final sort.
func extractColors(values []string) []ColorFacet {
	caser := cases.Title(language.Und)
	entries := orderedmap.New()
	for _, v := range values {
		if v == "" {
			continue
		}
		label := caser.String(v)
		var qualifier string
		if family, q, ok := normalizeColor(v); ok {
			label, qualifier = family, q
		}
		variants, _ := entries.Get(label)
		set, _ := variants.(map[string]bool)
		if set == nil {
			set = map[string]bool{}
			entries.Set(label, set)
		}
		if qualifier != "" {
			set[qualifier] = true
		}
	}

	out := make([]ColorFacet, 0, entries.Len())
	for pair := entries.Oldest(); pair != nil; pair = pair.Next() {
		f := ColorFacet{Label: pair.Key.(string)}
		for v := range pair.Value.(map[string]bool) {
			f.Variants = append(f.Variants, v)
		}
		sort.Strings(f.Variants)
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func distinctStrings(values []string) []string {
	caser := cases.Title(language.Und)
	seen := orderedmap.New()
	for _, v := range values {
		if v == "" {
			continue
		}
		seen.Set(caser.String(v), true)
	}
	out := make([]string, 0, seen.Len())
	for pair := seen.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key.(string))
	}
	sort.Strings(out)
	return out
}

func distinctInts(values []int) []int {
	seen := map[int]bool{}
	out := make([]int, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
