package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/catering-backend/internal/adapter/broker/memory"
	redisbroker "github.com/heartmarshall/catering-backend/internal/adapter/broker/redis"
	"github.com/heartmarshall/catering-backend/internal/adapter/postgres"
	activityrepo "github.com/heartmarshall/catering-backend/internal/adapter/postgres/activity"
	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/booking"
	catalogrepo "github.com/heartmarshall/catering-backend/internal/adapter/postgres/catalog"
	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/emaillog"
	inquiryrepo "github.com/heartmarshall/catering-backend/internal/adapter/postgres/inquiry"
	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/notify"
	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/order"
	"github.com/heartmarshall/catering-backend/internal/adapter/postgres/role"
	taskrepo "github.com/heartmarshall/catering-backend/internal/adapter/postgres/task"
	"github.com/heartmarshall/catering-backend/internal/adapter/provider/invoicing"
	"github.com/heartmarshall/catering-backend/internal/auth"
	"github.com/heartmarshall/catering-backend/internal/config"
	"github.com/heartmarshall/catering-backend/internal/domain"
	"github.com/heartmarshall/catering-backend/internal/realtime"
	"github.com/heartmarshall/catering-backend/internal/routing"
	"github.com/heartmarshall/catering-backend/internal/service/activity"
	"github.com/heartmarshall/catering-backend/internal/service/catalog"
	"github.com/heartmarshall/catering-backend/internal/service/checkout"
	"github.com/heartmarshall/catering-backend/internal/service/emailhook"
	"github.com/heartmarshall/catering-backend/internal/service/inbox"
	"github.com/heartmarshall/catering-backend/internal/service/inquiry"
	"github.com/heartmarshall/catering-backend/internal/service/invoice"
	"github.com/heartmarshall/catering-backend/internal/service/pricing"
	"github.com/heartmarshall/catering-backend/internal/service/presence"
	"github.com/heartmarshall/catering-backend/internal/service/task"
	"github.com/heartmarshall/catering-backend/internal/transport/dataloader"
	"github.com/heartmarshall/catering-backend/internal/transport/middleware"
	"github.com/heartmarshall/catering-backend/internal/transport/rest"
	"github.com/heartmarshall/catering-backend/internal/transport/ws"
)

const (
	countsMaxAge = 30 * time.Second
	presenceTTL  = 2 * time.Hour
)

type presenceBroker interface {
	Upsert(ctx context.Context, channel string, rec domain.PresenceRecord) error
	Remove(ctx context.Context, channel string, sessionID uuid.UUID) error
	Members(ctx context.Context, channel string) ([]domain.PresenceRecord, error)
	Subscribe(ctx context.Context, channel string) (<-chan struct{}, func(), error)
	Ping(ctx context.Context) error
}

// Run is the application entry point. It wires every dependency, serves HTTP
// until ctx is cancelled and then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database, "catering-server")
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	broker, closeBroker, err := newPresenceBroker(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer closeBroker()

	wr, err := build(cfg, pool, broker, logger)
	if err != nil {
		return err
	}
	defer wr.limiter.Stop()

	// Hijacked websocket connections outlive Shutdown; cancelling the base
	// context is what closes them.
	baseCtx, cancelBase := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelBase()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      wr.handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return wr.listener.Run(gctx, wr.hub)
	})

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		cancelBase()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("stopped")
	return nil
}

// wiring is the assembled request pipeline plus the background pieces Run drives.
type wiring struct {
	handler  http.Handler
	hub      *realtime.Hub
	listener *notify.Listener
	limiter  *middleware.RateLimiter
}

// build constructs repositories, services and the HTTP handler tree.
func build(cfg *config.Config, pool *pgxpool.Pool, broker presenceBroker, logger *slog.Logger) (*wiring, error) {
	txm := postgres.NewTxManager(pool)

	inquiries := inquiryrepo.New(pool)
	orders := order.New(pool)
	bookings := booking.New(pool)
	tasks := taskrepo.New(pool)
	activities := activityrepo.New(pool)
	catalogs := catalogrepo.New(pool)
	emailLogs := emaillog.New(pool)
	roles := role.New(pool)

	hub := realtime.NewHub(cfg.Realtime.CoalesceWindow, logger)
	listener := notify.NewListener(pool, notify.Config{
		Channel:    cfg.Realtime.NotifyChannel,
		Backoff:    cfg.Realtime.ReconnectBackoff,
		MaxBackoff: cfg.Realtime.MaxBackoff,
	}, logger)

	engine := pricing.NewEngine(pricing.TierConfig{
		PackageID:        cfg.Pricing.TierPackageID,
		BasePrice:        cfg.Pricing.TierBasePrice,
		BaseGuests:       cfg.Pricing.TierBaseGuests,
		MatchByBasePrice: cfg.Pricing.MatchByBasePrice,
	})

	activitySvc := activity.NewService(logger, activities)
	inboxSvc := inbox.NewService(logger, inbox.Config{
		BookingTimeKey: domain.BookingTimeKey(cfg.Inbox.BookingSortField),
		DefaultLimit:   cfg.Inbox.DefaultLimit,
		MaxLimit:       cfg.Inbox.MaxLimit,
		CountsMaxAge:   countsMaxAge,
	}, inquiries, orders, bookings, tasks, activitySvc, hub)
	taskSvc := task.NewService(logger, tasks, activitySvc)
	catalogSvc := catalog.NewService(logger, catalogs, engine)
	checkoutSvc := checkout.NewService(logger, catalogs, catalogs, orders, engine, activitySvc)
	inquirySvc := inquiry.NewService(logger, inquiries, tasks, activitySvc, txm)
	presenceSvc := presence.NewService(logger, broker)

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	roleCache := auth.NewRoleCache(roles, cfg.Auth.RoleCacheTTL)
	resolver := routing.NewResolver(routing.DefaultTable())
	loginPath := rest.LoginPath(resolver)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)

	upgrader := ws.NewUpgrader(cfg.CORS.Origins())

	handlers := rest.Handlers{
		Health: rest.NewHealthHandler(BuildVersion(),
			rest.PingDependency("database", pool, false),
			rest.PingDependency("realtime", listener, true),
			rest.PingDependency("presence", broker, true),
		),
		Routes:         rest.NewRouteHandler(resolver, logger),
		Catalog:        rest.NewCatalogHandler(catalogSvc, logger),
		Public:         rest.NewPublicHandler(inquirySvc, checkoutSvc, logger),
		Inbox:          rest.NewInboxHandler(inboxSvc, logger),
		Tasks:          rest.NewTaskHandler(taskSvc, logger),
		Activity:       rest.NewActivityHandler(activitySvc, logger),
		Session:        rest.NewSessionHandler(roleCache),
		InboxStream:    ws.NewInboxHandler(hub, upgrader, logger),
		PresenceStream: ws.NewPresenceHandler(presenceSvc, upgrader, logger),
	}

	if cfg.Invoicing.Enabled() {
		client := invoicing.NewClient(invoicing.Config{
			BaseURL:   cfg.Invoicing.BaseURL,
			APIKey:    cfg.Invoicing.APIKey,
			Timeout:   cfg.Invoicing.Timeout,
			UserAgent: UserAgent(),
		}, logger)
		handlers.Invoices = rest.NewInvoiceHandler(invoice.NewService(logger, orders, client, activitySvc), logger)
	} else {
		logger.Info("invoicing disabled")
	}

	if cfg.EmailWebhook.Secret != "" {
		hookVerifier, err := emailhook.NewVerifier(cfg.EmailWebhook.Secret, cfg.EmailWebhook.Tolerance)
		if err != nil {
			limiter.Stop()
			return nil, fmt.Errorf("email webhook: %w", err)
		}
		handlers.Webhook = rest.NewWebhookHandler(emailhook.NewService(logger, emailLogs, hookVerifier), logger)
	} else {
		logger.Info("email webhook disabled")
	}

	handler := rest.NewRouter(handlers, rest.Middlewares{
		Global: []middleware.Middleware{
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.Logger(logger),
			middleware.CORS(cfg.CORS),
		},
		Auth:        middleware.Auth(verifier),
		User:        middleware.RequireUser(loginPath),
		Admin:       middleware.RequireAdmin(roleCache, loginPath, logger),
		PublicLimit: limiter.Limit(cfg.RateLimit.PublicPerMinute),
		Loaders:     dataloader.Middleware(&dataloader.Repos{Tasks: tasks}),
	})

	return &wiring{handler: handler, hub: hub, listener: listener, limiter: limiter}, nil
}

// newPresenceBroker returns the Redis broker when an address is configured,
// the in-process broker otherwise.
func newPresenceBroker(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (presenceBroker, func(), error) {
	if cfg.Addr == "" {
		logger.Info("presence broker: in-process")
		return memory.New(), func() {}, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	logger.Info("presence broker: redis", slog.String("addr", cfg.Addr))
	return redisbroker.New(rdb, presenceTTL, logger), func() { _ = rdb.Close() }, nil
}
