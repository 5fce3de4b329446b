package taxonomy

// Fixed lookup tables for the address-bar contract. These are not
// user-editable at runtime; adding a brand or category slug is a deploy.

var brandBySlug = map[string]string{
	"kinklight":   "KinkLight",
	"maytoni":     "Maytoni",
	"odeon":       "Odeon Light",
	"st-luce":     "ST Luce",
	"favourite":   "Favourite",
	"lumion":      "Lumion",
	"arte-lamp":   "Arte Lamp",
	AllBrandsName: AllBrandsName,
}

var slugByBrand = invert(brandBySlug)

// pathBySearchKey maps a category's canonical search key to its pretty URL
// path, relative to the brand segment. Child categories carry their parent
// segment.
var pathBySearchKey = map[string]string{
	"Люстра":               "chandeliers",
	"Подвесная люстра":     "chandeliers/pendant-chandeliers",
	"Потолочная люстра":    "chandeliers/ceiling-chandeliers",
	"Люстра на штанге":     "chandeliers/rod-chandeliers",
	"Каскадная люстра":     "chandeliers/cascade-chandeliers",
	"Светильник":           "lights",
	"Подвесной светильник": "lights/pendant-lights",
	"Накладной светильник": "lights/surface-lights",
	"Бра":                  "sconces",
	"Торшер":               "floor-lamps",
	"Настольная лампа":     "table-lamps",
	"Спот":                 "spots",
	"Трековая система":     "track-systems",
	"Уличный светильник":   "outdoor-lights",
}

var searchKeyByPath = invert(pathBySearchKey)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// BrandForSlug resolves a URL brand slug to a brand name.
func BrandForSlug(slug string) (string, bool) {
	name, ok := brandBySlug[slug]
	return name, ok
}

// SlugForBrand resolves a brand name to its URL slug.
func SlugForBrand(name string) (string, bool) {
	slug, ok := slugByBrand[name]
	return slug, ok
}

// PathForCategory returns the pretty URL path for a category search key.
func PathForCategory(searchKey string) (string, bool) {
	p, ok := pathBySearchKey[searchKey]
	return p, ok
}

// CategoryForPath returns the search key mapped to a pretty URL path.
func CategoryForPath(path string) (string, bool) {
	k, ok := searchKeyByPath[path]
	return k, ok
}
