package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/storage"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/config"
	"github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/internal/domain/repository"
	pginfra "github.com/oksasatya/storefront/internal/infrastructure/postgres"
	"github.com/oksasatya/storefront/internal/infrastructure/search"
	"github.com/oksasatya/storefront/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()
	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}

	users := pginfra.NewUserRepository(pool)
	products := pginfra.NewProductRepository(pool)

	if err := seedAdmin(ctx, users, cfg, logger); err != nil {
		logger.WithError(err).Fatal("failed to seed admin")
	}

	var gcs *storage.Client
	if cfg.GCSBucket != "" && cfg.SeedImagesDir != "" {
		gcs, err = helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs unavailable; product images skipped")
		} else {
			defer func() { _ = gcs.Close() }()
		}
	}
	s := &seeder{
		Products: products,
		Logger:   logger,
		Upload: func(ctx context.Context, p *entity.Product, path string) (string, error) {
			if gcs == nil {
				return "", nil
			}
			f, err := os.Open(path)
			if err != nil {
				return "", err
			}
			defer func() { _ = f.Close() }()
			return helpers.UploadObject(ctx, gcs, cfg.GCSBucket, helpers.ProductImagePath(p.ID, path), helpers.ImageContentType(path), f)
		},
		ImagesDir: cfg.SeedImagesDir,
	}
	n, err := s.seedProducts(ctx, sampleProducts())
	if err != nil {
		logger.WithError(err).Fatal("failed to seed products")
	}
	logger.WithField("created", n).Info("products seeded")

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			err = helpers.EnsureIndex(ctx, es, cfg.ESProductsIndex, helpers.ProductIndexMapping)
		}
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; skipping reindex")
			return
		}
		catalog := application.NewCatalogService(products, search.NewProductIndex(es, cfg.ESProductsIndex, logger), nil, logger)
		indexed, err := catalog.Reindex(ctx)
		if err != nil {
			logger.WithError(err).Fatal("reindex failed")
		}
		logger.WithField("indexed", indexed).Info("search index rebuilt")
	}
}

func seedAdmin(ctx context.Context, users repository.UserRepository, cfg *config.Config, logger *logrus.Logger) error {
	if _, err := users.GetByEmail(ctx, cfg.SeedAdminEmail); err == nil {
		logger.WithField("email", cfg.SeedAdminEmail).Info("admin already exists")
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err := helpers.CheckPasswordPolicy(cfg.SeedAdminPassword); err != nil {
		return fmt.Errorf("SEED_ADMIN_PASSWORD: %w", err)
	}
	hash, err := helpers.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	admin := &entity.User{Email: cfg.SeedAdminEmail, Name: "Admin User", PasswordHash: hash, IsAdmin: true}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"id": admin.ID, "email": admin.Email}).Info("admin created")
	return nil
}

func sampleProducts() []entity.Product {
	return []entity.Product{
		{
			Name:        "Sample Product 1",
			Description: "This is a sample product description",
			Price:       decimal.RequireFromString("99.99"),
			Stock:       100,
			Category:    "Electronics",
			Featured:    true,
		},
		{
			Name:        "Sample Product 2",
			Description: "Another sample product description",
			Price:       decimal.RequireFromString("149.99"),
			Stock:       50,
			Category:    "Clothing",
			Featured:    true,
		},
	}
}
