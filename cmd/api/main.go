package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/cfdi-api/internal/application/auth"
	"github.com/jhoicas/cfdi-api/internal/application/billing"
	"github.com/jhoicas/cfdi-api/internal/domain/repository"
	infracfdi "github.com/jhoicas/cfdi-api/internal/infrastructure/cfdi"
	"github.com/jhoicas/cfdi-api/internal/infrastructure/memory"
	infrapac "github.com/jhoicas/cfdi-api/internal/infrastructure/pac"
	infrapdf "github.com/jhoicas/cfdi-api/internal/infrastructure/pdf"
	"github.com/jhoicas/cfdi-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/cfdi-api/internal/interfaces/http"
	"github.com/jhoicas/cfdi-api/pkg/config"
	"github.com/jhoicas/cfdi-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL si está configurado; en memoria para sandbox/demo.
	var invoiceRepo repository.InvoiceRepository
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		invoiceRepo = postgres.NewInvoiceRepository(pool)
		log.Info().Msg("persistencia: PostgreSQL")
	} else {
		invoiceRepo = memory.NewInvoiceRepository()
		log.Warn().Msg("persistencia: en memoria (sin DATABASE_URL/DB_HOST, los datos se pierden al reiniciar)")
	}

	xmlBuilder := infracfdi.NewXMLBuilderService()
	pacClient := infrapac.NewFakePAC(cfg.PAC.Latency, infrapac.AcceptAll)

	lifecycle := billing.NewInvoiceLifecycle(invoiceRepo, pacClient, xmlBuilder, billing.LifecycleConfig{
		StampMode:    cfg.PAC.StampMode,
		StampTimeout: cfg.PAC.StampTimeout,
	}, log.Zerolog())

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := billing.NewPDFUseCase(invoiceRepo, pdfGenerator)

	authUC, err := auth.NewAuthUseCase(cfg.Auth.DemoUser, cfg.Auth.DemoPass, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar auth")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CFDI API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Lifecycle: lifecycle,
		PDFUC:     pdfUC,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
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

	// Drenar timbrados en vuelo antes de salir para no dejar facturas en pending.
	lifecycle.Wait()

	log.Info().Msg("aplicación detenida")
}
