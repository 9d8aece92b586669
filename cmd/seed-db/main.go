// Command seed-db loads the product catalog, starter coupons, and API tokens
// into the database. Safe to re-run: products are upserted, coupons and
// tokens are inserted only when missing.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/topuphub/storefront/internal/domain/auth"
	"github.com/topuphub/storefront/internal/domain/coupon"
	"github.com/topuphub/storefront/internal/domain/currency"
	"github.com/topuphub/storefront/internal/domain/product"
	"github.com/topuphub/storefront/internal/handler"
	"github.com/topuphub/storefront/internal/repository"
)

type productJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Image        string `json:"image"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Currency     string `json:"currency"`
	Packages     []struct {
		Label string          `json:"label"`
		Price decimal.Decimal `json:"price"`
	} `json:"packages"`
}

// starterCoupons are created on first seed when the code does not yet exist.
var starterCoupons = []struct {
	Code     string
	Discount int
}{
	{"WELCOME10", 10},
	{"SAVE20", 20},
}

func main() {
	var (
		databaseURL  string
		productsFile string
		adminToken   string
		userToken    string
		pepper       string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&adminToken, "admin-token", "", "admin API token to seed (or STORE_SEED_ADMIN_TOKEN env)")
	flag.StringVar(&userToken, "user-token", "", "user API token to seed (or STORE_SEED_USER_TOKEN env)")
	flag.StringVar(&pepper, "token-pepper", "", "HMAC pepper for token hashing (or STORE_TOKEN_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminToken == "" {
		adminToken = os.Getenv("STORE_SEED_ADMIN_TOKEN")
	}
	if userToken == "" {
		userToken = os.Getenv("STORE_SEED_USER_TOKEN")
	}
	if pepper == "" {
		pepper = os.Getenv("STORE_TOKEN_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, adminToken, userToken, pepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, adminToken, userToken, pepper string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, repository.NewProductRepository(pool), productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedCoupons(ctx, repository.NewCouponRepository(pool)); err != nil {
		return errors.Wrap(err, "seed coupons")
	}

	if err := seedTokens(ctx, repository.NewTokenRepository(pool), adminToken, userToken, pepper); err != nil {
		return errors.Wrap(err, "seed tokens")
	}

	return nil
}

func seedProducts(ctx context.Context, repo *repository.ProductRepository, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	var items []productJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	for _, item := range items {
		code, err := currency.ParseCode(item.Currency)
		if err != nil {
			return errors.Wrapf(err, "product %q", item.ID)
		}
		p := product.Product{
			ID:           item.ID,
			Name:         item.Name,
			Category:     item.Category,
			Image:        item.Image,
			Description:  item.Description,
			Requirements: item.Requirements,
			Currency:     code,
		}
		for _, pkg := range item.Packages {
			p.Packages = append(p.Packages, product.Package{Label: pkg.Label, Price: pkg.Price})
		}
		if err := repo.Upsert(ctx, p); err != nil {
			return err
		}
		slog.Info("product seeded", slog.String("id", p.ID), slog.Int("packages", len(p.Packages)))
	}

	return nil
}

func seedCoupons(ctx context.Context, repo *repository.CouponRepository) error {
	for _, sc := range starterCoupons {
		existing, err := repo.FindByCode(ctx, sc.Code)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			slog.Info("coupon exists, skipping", slog.String("code", sc.Code))
			continue
		}

		c := coupon.Coupon{
			ID:       uuid.New().String(),
			Code:     sc.Code,
			Discount: sc.Discount,
			Active:   true,
		}
		if err := repo.Create(ctx, c); err != nil {
			return err
		}
		slog.Info("coupon seeded", slog.String("code", c.Code), slog.Int("discount", c.Discount))
	}

	return nil
}

func seedTokens(ctx context.Context, repo *repository.TokenRepository, adminToken, userToken, pepper string) error {
	if adminToken == "" && userToken == "" {
		slog.Info("no tokens to seed")
		return nil
	}
	if pepper == "" {
		return errors.New("token pepper is required when seeding tokens")
	}

	if adminToken != "" {
		t := auth.Token{
			ID:        uuid.New().String(),
			TokenHash: handler.HashToken([]byte(pepper), adminToken),
			Identity: auth.Identity{
				UID:           "seed-admin",
				Email:         "admin@topuphub.example",
				EmailVerified: true,
				Admin:         true,
			},
		}
		if err := repo.Insert(ctx, t); err != nil {
			return err
		}
		slog.Info("admin token seeded")
	}

	if userToken != "" {
		t := auth.Token{
			ID:        uuid.New().String(),
			TokenHash: handler.HashToken([]byte(pepper), userToken),
			Identity: auth.Identity{
				UID:           "seed-user",
				Email:         "user@topuphub.example",
				EmailVerified: true,
			},
		}
		if err := repo.Insert(ctx, t); err != nil {
			return err
		}
		slog.Info("user token seeded")
	}

	return nil
}
