package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ihor-metko/RSP-sub015/internal/config"
	"github.com/ihor-metko/RSP-sub015/internal/database"
	"github.com/ihor-metko/RSP-sub015/internal/domain"
	"github.com/ihor-metko/RSP-sub015/internal/events"
	"github.com/ihor-metko/RSP-sub015/internal/middleware"
	"github.com/ihor-metko/RSP-sub015/internal/modules/availability"
	"github.com/ihor-metko/RSP-sub015/internal/modules/lifecycle"
	"github.com/ihor-metko/RSP-sub015/internal/modules/pricing"
	"github.com/ihor-metko/RSP-sub015/internal/modules/reservation"
	jwtsvc "github.com/ihor-metko/RSP-sub015/internal/pkg/jwt"
	"github.com/ihor-metko/RSP-sub015/internal/pkg/logger"
	"github.com/ihor-metko/RSP-sub015/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog := logger.New(cfg.LogLevel, cfg.LogFormat, "api")
	defer func() { _ = zlog.Sync() }()

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("database migrate failed", zap.Error(err))
	}

	emitter := buildEmitter(cfg, zlog)

	userRepo := repository.NewUserRepository(db)
	clubRepo := repository.NewClubRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	ruleRepo := repository.NewPricingRuleRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	blockRepo := repository.NewAvailabilityBlockRepository(db)

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	pricingService := pricing.NewService(ruleRepo, resourceRepo, clubRepo, holidayRepo)
	pricingHandler := pricing.NewHandler(pricingService)

	availabilityService := availability.NewService(
		resourceRepo,
		clubRepo,
		reservationRepo,
		blockRepo,
		slotPricer{svc: pricingService},
		cfg.SlotMinutes,
	)
	availabilityHandler := availability.NewHandler(availabilityService)

	reservationService := reservation.NewService(
		reservationRepo,
		userRepo,
		pricingService,
		emitter,
		zlog,
		cfg.HoldDuration,
	)
	reservationHandler := reservation.NewHandler(reservationService)

	lifecycleService := lifecycle.NewService(reservationRepo, emitter, zlog)
	lifecycleHandler := lifecycle.NewHandler(lifecycleService)

	r := gin.New()
	r.Use(middleware.RequestLogger(zlog))
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")

	authed := v1.Group("/")
	authed.Use(middleware.Auth(jwtService))

	admin := v1.Group("/")
	admin.Use(middleware.Auth(jwtService))
	admin.Use(middleware.RequireRole(string(domain.RoleAdmin), string(domain.RoleClubAdmin)))

	internal := v1.Group("/internal")
	internal.Use(middleware.InternalTokenAuth(cfg.InternalToken, zlog))

	pricingHandler.RegisterRoutes(admin)
	availabilityHandler.RegisterRoutes(v1, admin)
	reservationHandler.RegisterRoutes(authed, internal)
	lifecycleHandler.RegisterRoutes(internal)

	zlog.Info("api listening", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

// buildEmitter wires the AMQP sink when configured and falls back to the
// log sink otherwise. Emission is best-effort either way.
func buildEmitter(cfg *config.Config, zlog *zap.Logger) events.Emitter {
	if cfg.AMQPURL == "" {
		return events.NewLogEmitter(zlog)
	}
	emitter, err := events.NewAMQPEmitter(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		zlog.Warn("amqp connect failed, falling back to log emitter", zap.Error(err))
		return events.NewLogEmitter(zlog)
	}
	return emitter
}

// slotPricer adapts the pricing service to the availability module's
// pricer interface.
type slotPricer struct {
	svc *pricing.Service
}

func (p slotPricer) QuoteDay(ctx context.Context, resourceID int64, day time.Time) (availability.PriceQuote, error) {
	quote, err := p.svc.QuoteDay(ctx, resourceID, day)
	if err != nil {
		return nil, err
	}
	return quote, nil
}
