package taxonomy

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Resolution is the outcome of mapping an input string to a canonical
// category node.
type Resolution struct {
	Brand string
	Node  *CategoryNode
	// Redirected is true when the input matched a parent node and the
	// resolver descended to its first child. Parent then holds the node
	// that was originally matched, so the caller can rewrite the URL.
	Redirected bool
	Parent     *CategoryNode
}

// matchStrategy is one step of the resolution chain. Strategies scan brands
// in declared order and return the first hit, or nil.
type matchStrategy func(input string, brands []BrandCatalog) *Resolution

// Resolve maps an input string (path segment or free text) to the best
// matching category node. The match chain is, in order: exact label or
// searchKey, exact alias, alias substring in either direction. A nil result
// means the caller should fall back to treating the input as free-text
// search. When brandHint names a known brand, that brand is scanned first.
func (c *Config) Resolve(input string, brandHint string) *Resolution {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	brands := c.Brands
	if brandHint != "" {
		if hinted, ok := c.Brand(brandHint); ok {
			ordered := make([]BrandCatalog, 0, len(c.Brands))
			ordered = append(ordered, hinted)
			for _, b := range c.Brands {
				if b.Name != hinted.Name {
					ordered = append(ordered, b)
				}
			}
			brands = ordered
		}
	}

	strategies := []matchStrategy{matchExact, matchAliasExact, matchAliasSubstring}
	for _, strategy := range strategies {
		if res := strategy(input, brands); res != nil {
			return redirectToFirstChild(res)
		}
	}

	log.Debug().Str("input", input).Str("brandHint", brandHint).Msg("no taxonomy match, falling back to free text")
	return nil
}

// redirectToFirstChild descends to the first child when the matched node is
// a parent, per the canonical-URL contract.
func redirectToFirstChild(res *Resolution) *Resolution {
	if len(res.Node.Children) == 0 {
		return res
	}
	return &Resolution{
		Brand:      res.Brand,
		Node:       &res.Node.Children[0],
		Redirected: true,
		Parent:     res.Node,
	}
}

func matchExact(input string, brands []BrandCatalog) *Resolution {
	return scan(brands, func(n *CategoryNode) bool {
		return strings.EqualFold(input, n.Label) || strings.EqualFold(input, n.SearchKey)
	})
}

func matchAliasExact(input string, brands []BrandCatalog) *Resolution {
	return scan(brands, func(n *CategoryNode) bool {
		for _, a := range n.Aliases {
			if strings.EqualFold(input, a) {
				return true
			}
		}
		return false
	})
}

func matchAliasSubstring(input string, brands []BrandCatalog) *Resolution {
	lowered := strings.ToLower(input)
	return scan(brands, func(n *CategoryNode) bool {
		for _, a := range n.Aliases {
			alias := strings.ToLower(a)
			if strings.Contains(lowered, alias) || strings.Contains(alias, lowered) {
				return true
			}
		}
		return false
	})
}

// scan walks every brand's tree in declared order, depth first, returning
// the first node the predicate accepts.
func scan(brands []BrandCatalog, pred func(*CategoryNode) bool) *Resolution {
	for bi := range brands {
		if node := scanNodes(brands[bi].RootCategories, pred); node != nil {
			return &Resolution{Brand: brands[bi].Name, Node: node}
		}
	}
	return nil
}

func scanNodes(nodes []CategoryNode, pred func(*CategoryNode) bool) *CategoryNode {
	for i := range nodes {
		if pred(&nodes[i]) {
			return &nodes[i]
		}
		if found := scanNodes(nodes[i].Children, pred); found != nil {
			return found
		}
	}
	return nil
}
