package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/logger"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/repository/memory"
	"github.com/iliyamo/hotel-reservation/internal/router"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// stores groups the storage ports behind whichever driver was selected.
type stores struct {
	users        service.UserStore
	rooms        service.RoomStore
	reservations service.ReservationStore
	payments     service.PaymentStore
	audit        service.AuditStore
	dbRole       string
	ping         func(context.Context) error
	close        func() error
}

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("storage unavailable")
	}
	defer st.close()

	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	var events service.EventPublisher
	if cfg.QueueEnabled {
		pub := queue.NewPublisher(cfg.RabbitURL)
		defer pub.Close()
		events = pub

		consumer := queue.NewConsumer(cfg.RabbitURL, cfg.EventLogPath, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("booking log consumer stopped")
			}
		}()
	}

	audit := service.NewAuditTrail(st.audit, st.dbRole, cfg.StoreTimeout, log)
	creds, err := service.NewCredentialService(st.users, audit, cfg.BcryptCost, cfg.StoreTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid credential settings")
	}
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	avail := service.NewAvailabilityChecker(st.reservations, st.rooms, cfg.StoreTimeout)
	ledger := service.NewReservationService(st.users, st.rooms, st.reservations, avail, audit, events, cfg.StoreTimeout, log)
	payments := service.NewPaymentService(ledger, st.payments, audit, events, cfg.StoreTimeout, log)
	rooms := service.NewRoomService(st.rooms, audit, cfg.StoreTimeout)
	assets := service.NewAssetService(st.rooms, audit, cfg.StoreTimeout)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.BodyLimit("6M"))
	e.Use(middleware.RequestLogger(log))

	router.Register(e, router.Deps{
		Auth:         handler.NewAuthHandler(creds, tokens),
		Rooms:        handler.NewRoomHandler(rooms, assets, avail),
		Reservations: handler.NewReservationHandler(ledger, payments),
		Admin:        handler.NewAdminHandler(creds, audit),
		Tokens:       tokens,
		Ping:         st.ping,
		Redis:        rdb,
		Cache:        config.LoadCacheConfig(),
		RateLimit:    config.LoadRateLimitConfig(),
		Log:          log,
	})

	addr := ":" + cfg.Port
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("storage", cfg.StorageDriver).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errc:
		log.Error().Err(err).Msg("server failed")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// openStores connects the configured storage driver.
func openStores(ctx context.Context, cfg config.Config, log zerolog.Logger) (stores, error) {
	if cfg.StorageDriver == config.StorageMemory {
		m := memory.NewStore()
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		return stores{
			users: m, rooms: m, reservations: m, payments: m, audit: m,
			dbRole: memory.DBRole,
			close:  func() error { return nil },
		}, nil
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return stores{}, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return stores{}, err
		}
	}
	role, err := database.CurrentUser(ctx, db)
	if err != nil {
		log.Warn().Err(err).Msg("could not resolve database account for audit rows")
		role = cfg.DBUser
	}
	return stores{
		users:        repository.NewUserRepo(db),
		rooms:        repository.NewRoomRepo(db),
		reservations: repository.NewReservationRepo(db),
		payments:     repository.NewPaymentRepo(db),
		audit:        repository.NewAuditRepo(db),
		dbRole:       role,
		ping:         db.PingContext,
		close:        db.Close,
	}, nil
}
