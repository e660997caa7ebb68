package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Flota-api/internal/application/auth"
	"github.com/jhoicas/Flota-api/internal/application/usecase"
	"github.com/jhoicas/Flota-api/internal/bootstrap"
	httpRouter "github.com/jhoicas/Flota-api/internal/interfaces/http"
	"github.com/jhoicas/Flota-api/pkg/config"
	"github.com/jhoicas/Flota-api/pkg/logger"
)

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
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	deps, err := bootstrap.Open(ctx, cfg, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer deps.Close()

	authUC := auth.NewAuthUseCase(deps.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.JWT.AdminEmail != "" && cfg.JWT.AdminPassword != "" {
		created, err := authUC.EnsureAdmin(ctx, cfg.JWT.AdminEmail, cfg.JWT.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("email", cfg.JWT.AdminEmail).Msg("administrador inicial creado")
		}
	}

	groupUC := usecase.NewGroupUseCase(deps.Repos.Groups, deps.Propagation)
	categoryUC := usecase.NewCategoryUseCase(deps.Repos, deps.TxRunner, deps.Propagation)
	modelUC := usecase.NewModelUseCase(deps.Repos, deps.TxRunner, deps.Propagation)
	assetUC := usecase.NewAssetUseCase(deps.Repos, deps.TxRunner)
	propagationUC := usecase.NewPropagationUseCase(deps.Propagation)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // una propagación grande puede tardar más que un CRUD
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:       cfg.App.Name,
		AuthUC:        authUC,
		GroupUC:       groupUC,
		CategoryUC:    categoryUC,
		ModelUC:       modelUC,
		AssetUC:       assetUC,
		PropagationUC: propagationUC,
		JWTSecret:     cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
