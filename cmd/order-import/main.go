// Command order-import loads legacy order exports into the database. Exports
// are gzipped JSON-lines files, one order per line, dumped from the previous
// storefront backend. Totals are kept as their original raw text; re-running
// an import never duplicates rows.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/topuphub/storefront/internal/domain/checkout"
	"github.com/topuphub/storefront/internal/domain/currency"
	"github.com/topuphub/storefront/internal/domain/order"
	"github.com/topuphub/storefront/internal/repository"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

// legacyOrder mirrors one line of the export. Requirements and total carry
// historically mixed shapes, so both are taken raw and normalized here.
type legacyOrder struct {
	ID            string             `json:"id"`
	UserID        string             `json:"userId"`
	UserEmail     string             `json:"userEmail"`
	Items         []legacyItem       `json:"items"`
	Requirements  order.Requirements `json:"requirements"`
	PaymentMethod string             `json:"paymentMethod"`
	Country       string             `json:"country"`
	Currency      string             `json:"currency"`
	Proof         order.PaymentProof `json:"payment"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	CouponCode    string             `json:"couponCode"`
	Discount      int                `json:"discountPercent"`
	Total         json.RawMessage    `json:"total"`
	Status        string             `json:"status"`
	CreatedAtMS   int64              `json:"createdAt"`
}

type legacyItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	PackageLabel string          `json:"package"`
	Price        decimal.Decimal `json:"price"`
	Requirements string          `json:"requirements"`
	Image        string          `json:"image"`
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing orders-*.jsonl.gz export files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("order import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("order import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "orders-*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob export files")
	}
	if len(files) == 0 {
		return errors.Errorf("no orders-*.jsonl.gz files in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := repository.NewOrderRepository(pool)

	// Bloom filter over stored order IDs: a negative test skips the insert
	// entirely, a positive hands off to ON CONFLICT DO NOTHING.
	seen, err := buildSeenFilter(ctx, repo)
	if err != nil {
		return errors.Wrap(err, "build dedupe filter")
	}

	var imported, skipped atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		g.Go(importFile(ctx, repo, seen, f, &imported, &skipped))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("import summary",
		slog.Int64("imported", imported.Load()),
		slog.Int64("skipped", skipped.Load()),
	)
	return nil
}

// buildSeenFilter loads all existing order IDs into a bloom filter.
func buildSeenFilter(ctx context.Context, repo *repository.OrderRepository) (*bloom.BloomFilter, error) {
	ids, err := repo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	for _, id := range ids {
		filter.AddString(id)
	}

	slog.Info("dedupe filter ready", slog.Int("existing_orders", len(ids)))
	return filter, nil
}

func importFile(
	ctx context.Context,
	repo *repository.OrderRepository,
	seen *bloom.BloomFilter,
	path string,
	imported, skipped *atomic.Int64,
) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer f.Close()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "gzip reader for %s", path)
		}
		defer gz.Close()

		var count uint64
		scanner := bufio.NewScanner(gz)
		scanner.Buffer(make([]byte, 0, 1<<20), 16<<20)
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				return err
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("import progress",
					slog.String("file", filepath.Base(path)),
					slog.Uint64("lines", count),
				)
			}

			var legacy legacyOrder
			if err := json.Unmarshal([]byte(line), &legacy); err != nil {
				slog.Warn("skipping malformed line",
					slog.String("file", filepath.Base(path)),
					slog.Uint64("line", count),
				)
				skipped.Add(1)
				continue
			}
			if legacy.ID == "" {
				skipped.Add(1)
				continue
			}
			if seen.TestString(legacy.ID) {
				// Probable duplicate; the insert's conflict clause settles it.
				skipped.Add(1)
				continue
			}

			o, rawTotal := convertLegacy(legacy)
			inserted, err := repo.Import(ctx, o, rawTotal)
			if err != nil {
				return errors.Wrapf(err, "import order %s", legacy.ID)
			}
			seen.AddString(legacy.ID)
			if inserted {
				imported.Add(1)
			} else {
				skipped.Add(1)
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("file done", slog.String("file", filepath.Base(path)), slog.Uint64("lines", count))
		return nil
	}
}

// convertLegacy maps an export line to a domain order, keeping the raw total
// text for storage.
func convertLegacy(legacy legacyOrder) (*order.Order, string) {
	rawTotal := strings.Trim(string(legacy.Total), `"`)

	cur := currency.Code(legacy.Currency)
	status, err := order.ParseStatus(legacy.Status)
	if err != nil {
		status = order.StatusPending
	}

	items := make([]order.Item, len(legacy.Items))
	for i, item := range legacy.Items {
		items[i] = order.Item{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			PackageLabel: item.PackageLabel,
			Price:        item.Price,
			Requirements: item.Requirements,
			Image:        item.Image,
		}
	}

	return &order.Order{
		ID:              legacy.ID,
		UserID:          legacy.UserID,
		UserEmail:       legacy.UserEmail,
		Items:           items,
		Requirements:    legacy.Requirements,
		PaymentMethod:   checkout.PaymentMethod(legacy.PaymentMethod),
		Country:         checkout.Country(legacy.Country),
		Currency:        cur,
		PaymentProof:    legacy.Proof,
		Subtotal:        legacy.Subtotal,
		CouponCode:      legacy.CouponCode,
		DiscountPercent: legacy.Discount,
		Total:           order.ParseAmount(rawTotal, cur),
		Status:          status,
		CreatedAt:       time.UnixMilli(legacy.CreatedAtMS).UTC(),
	}, rawTotal
}
