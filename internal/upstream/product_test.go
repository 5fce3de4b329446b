package upstream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStockCount(t *testing.T) {
	assert.Equal(t, 12, ParseStockCount("12 шт."))
	assert.Equal(t, 3, ParseStockCount("осталось 3"))
	assert.Equal(t, 0, ParseStockCount("нет в наличии"))
	assert.Equal(t, 0, ParseStockCount(""))
	assert.Equal(t, -1, ParseStockCount("-1"))
}

func TestStockCountUnmarshal(t *testing.T) {
	var rec ProductRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":"a","stock":"5 шт. на складе"}`), &rec))
	assert.Equal(t, StockCount(5), rec.Stock)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"b","stock":17}`), &rec))
	assert.Equal(t, StockCount(17), rec.Stock)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"c","stock":"под заказ"}`), &rec))
	assert.Equal(t, StockCount(0), rec.Stock)
}
