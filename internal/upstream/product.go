package upstream

import (
	"encoding/json"
	"regexp"
	"strconv"
	"time"
)

// StockCount decodes the upstream stock field, which is sometimes a number
// and sometimes free text like "12 шт." or "нет в наличии". The first
// integer found wins; text without digits counts as zero stock.
type StockCount int

var stockDigits = regexp.MustCompile(`-?\d+`)

func (s *StockCount) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*s = StockCount(n)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = StockCount(ParseStockCount(raw))
	return nil
}

// ParseStockCount extracts a stock count from a free-text stock field.
func ParseStockCount(raw string) int {
	m := stockDigits.FindString(raw)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// Attributes are the optional filterable properties of a product.
type Attributes struct {
	Color      string `json:"color,omitempty"`
	Material   string `json:"material,omitempty"`
	SocketType string `json:"socketType,omitempty"`
	LampCount  int    `json:"lampCount,omitempty"`
	ShadeColor string `json:"shadeColor,omitempty"`
	FrameColor string `json:"frameColor,omitempty"`
}

// ProductRecord is one product as returned by the upstream API.
type ProductRecord struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	ArticleCode   string     `json:"article"`
	Brand         string     `json:"brand"`
	CategoryLabel string     `json:"category"`
	Stock         StockCount `json:"stock"`
	Price         float64    `json:"price"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	Attributes    Attributes `json:"attributes"`
}

// PageResult is one upstream page.
type PageResult struct {
	Products      []ProductRecord `json:"products"`
	TotalPages    int             `json:"totalPages"`
	TotalProducts int             `json:"totalProducts"`
}
