package order

import (
	"github.com/shopspring/decimal"
)

// Stats is the admin dashboard summary over the full order collection.
type Stats struct {
	TotalOrders     int
	PendingOrders   int
	TotalRevenueUSD decimal.Decimal
}

// Aggregate scans orders and produces dashboard statistics. Only completed
// orders contribute revenue; every total has already been normalized into an
// Amount on read, so heterogeneous legacy shapes degrade to zero instead of
// aborting the scan. Aggregation is idempotent and never panics.
func Aggregate(orders []Order) Stats {
	stats := Stats{TotalRevenueUSD: decimal.Zero}

	for _, o := range orders {
		stats.TotalOrders++
		switch o.Status {
		case StatusPending:
			stats.PendingOrders++
		case StatusCompleted:
			stats.TotalRevenueUSD = stats.TotalRevenueUSD.Add(o.Total.USD())
		}
	}

	return stats
}
