package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/vendofy-api/docs"
	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/auth"
	"github.com/jhoicas/vendofy-api/internal/application/ordering"
	"github.com/jhoicas/vendofy-api/internal/application/pricing"
	"github.com/jhoicas/vendofy-api/internal/application/usecase"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
	infmail "github.com/jhoicas/vendofy-api/internal/infrastructure/mail"
	infmetrics "github.com/jhoicas/vendofy-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/vendofy-api/internal/infrastructure/pdf"
	"github.com/jhoicas/vendofy-api/internal/infrastructure/postgres"
	infredis "github.com/jhoicas/vendofy-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/vendofy-api/internal/interfaces/http"
	"github.com/jhoicas/vendofy-api/pkg/config"
	"github.com/jhoicas/vendofy-api/pkg/logger"
)

// @title                       Vendofy API
// @version                     1.0
// @description                 Pedidos B2B con jerarquía admin → distribuidor → cliente.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	if len(applied) > 0 {
		log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	pricingRepo := postgres.NewPricingRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Denylist de logout: Redis si está configurado, si no la tabla revoked_tokens.
	var denylist repository.TokenDenylist = postgres.NewRevokedTokenRepository(pool)
	if cfg.Redis.Addr != "" {
		rdb, err := infredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		denylist = infredis.NewTokenDenylist(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("denylist de tokens en Redis")
	}

	metrics := infmetrics.New()

	mailer, err := infmail.New(cfg.Mail, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de correo")
	}
	notifier, err := infmail.NewOrderNotifier(mailer, log, metrics, cfg.App.FrontendURL)
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas de correo")
	}

	scoper := access.NewScoper(userRepo)
	pricingSvc := pricing.NewService(userRepo, productRepo, pricingRepo)
	orderUC := ordering.NewUseCase(
		txRunner, orderRepo, userRepo, productRepo, pricingSvc, scoper,
		notifier, infrapdf.NewDeliveryNoteGenerator(), metrics, log,
	)
	authUC := auth.NewAuthUseCase(userRepo, denylist, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.SuperAdmin.Email)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(metrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Vendofy API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", metrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         usecase.NewUserUseCase(userRepo, scoper, cfg.SuperAdmin.Email),
		ProductUC:      usecase.NewProductUseCase(productRepo, scoper),
		SettingsUC:     usecase.NewSettingsUseCase(settingsRepo),
		Pricing:        pricingSvc,
		Orders:         orderUC,
		Denylist:       denylist,
		JWTSecret:      cfg.JWT.Secret,
		LoginRateLimit: cfg.HTTP.LoginRateLimit,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Correos en vuelo.
	if err := notifier.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("notificaciones pendientes descartadas")
	}

	log.Info().Msg("aplicación detenida")
}
