package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/topuphub/storefront/internal/domain/currency"
)

func completedOrder(rawTotal string, cur currency.Code) Order {
	return Order{
		Status:   StatusCompleted,
		Currency: cur,
		Total:    ParseAmount(rawTotal, cur),
	}
}

func TestAggregate_MixedTotalShapes(t *testing.T) {
	orders := []Order{
		completedOrder("500", currency.NPR),     // legacy bare number
		completedOrder("NPR 500", currency.NPR), // current tagged string
		completedOrder("$3.45", currency.USD),   // symbol only, currency field decides
	}

	stats := Aggregate(orders)

	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 0, stats.PendingOrders)
	// 500/145 + 500/145 + 3.45 = 10.3465...
	assert.InEpsilon(t, 10.3465, stats.TotalRevenueUSD.InexactFloat64(), 0.001)
}

func TestAggregate_CountsPending(t *testing.T) {
	orders := []Order{
		{Status: StatusPending, Total: ParseAmount("100", currency.NPR)},
		{Status: StatusPending, Total: ParseAmount("200", currency.NPR)},
		{Status: StatusProcessing, Total: ParseAmount("300", currency.NPR)},
		{Status: StatusCancelled, Total: ParseAmount("400", currency.NPR)},
	}

	stats := Aggregate(orders)

	assert.Equal(t, 4, stats.TotalOrders)
	assert.Equal(t, 2, stats.PendingOrders)
	assert.True(t, stats.TotalRevenueUSD.IsZero(), "only completed orders earn revenue")
}

func TestAggregate_MalformedTotalContributesZero(t *testing.T) {
	orders := []Order{
		completedOrder("abc", currency.NPR),
		completedOrder("NPR 145", currency.NPR),
	}

	stats := Aggregate(orders)

	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, "1", stats.TotalRevenueUSD.String())
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil)

	assert.Zero(t, stats.TotalOrders)
	assert.Zero(t, stats.PendingOrders)
	assert.True(t, stats.TotalRevenueUSD.IsZero())
}
