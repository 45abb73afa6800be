package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/config"
	"github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/internal/infrastructure/postgres"
	"github.com/oksasatya/storefront/internal/infrastructure/redisstore"
	"github.com/oksasatya/storefront/internal/infrastructure/search"
	"github.com/oksasatya/storefront/pkg/helpers"
)

// Container holds the components constructed once in main and shared by
// router modules. Nothing here is global.
type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	DB     *pgxpool.Pool
	Redis  *redis.Client
	ES     *elasticsearch.Client // optional
	Mail   application.MailQueue // optional
	JWT    *helpers.JWTManager

	Users    *postgres.UserRepository
	Products *postgres.ProductRepository
	Orders   *postgres.OrderRepository
	Sessions *redisstore.Store
	Search   *search.ProductIndex

	Auth     *application.AuthService
	Cart     *application.CartService
	Checkout *application.CheckoutService
	Catalog  *application.CatalogService
	Order    *application.OrderService
}

type Option func(*Container)

// WithElasticsearch enables product search.
func WithElasticsearch(es *elasticsearch.Client) Option {
	return func(c *Container) { c.ES = es }
}

// WithMailQueue enables outbound email jobs. A nil *RabbitPublisher is
// ignored so the interface never holds a typed nil.
func WithMailQueue(pub *helpers.RabbitPublisher) Option {
	return func(c *Container) {
		if pub != nil {
			c.Mail = pub
		}
	}
}

// New wires repositories and services on top of the given infrastructure.
func New(cfg *config.Config, logger *logrus.Logger, db *pgxpool.Pool, rdb *redis.Client, opts ...Option) *Container {
	c := &Container{Cfg: cfg, Logger: logger, DB: db, Redis: rdb}
	for _, opt := range opts {
		opt(c)
	}

	c.JWT = helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	c.Users = postgres.NewUserRepository(db)
	c.Products = postgres.NewProductRepository(db)
	c.Orders = postgres.NewOrderRepository(db)
	c.Sessions = redisstore.NewStore(rdb)
	c.Search = search.NewProductIndex(c.ES, cfg.ESProductsIndex, logger)

	c.Auth = application.NewAuthService(c.Users, c.Sessions, c.JWT, c.Mail, cfg, logger)
	c.Cart = application.NewCartService(c.Sessions, c.Products, logger)
	c.Catalog = application.NewCatalogService(c.Products, c.Search, rdb, logger)
	c.Checkout = application.NewCheckoutService(c.Cart, postgres.NewTransactor(db), c.Users, c.Mail, cfg, logger)
	c.Checkout.Featured = c.Catalog
	c.Order = application.NewOrderService(c.Orders, logger)
	return c
}
