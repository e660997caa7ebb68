// Command propagate ejecuta una propagación de esquemas desde la línea de comandos, con la misma
// configuración que el servidor (env / .env).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/Flota-api/internal/application/usecase"
	"github.com/jhoicas/Flota-api/internal/bootstrap"
	"github.com/jhoicas/Flota-api/pkg/config"
	"github.com/jhoicas/Flota-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openFromConfig).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openFromConfig arma el caso de uso de propagación y el historial de Redis (nil si no hay Redis).
func openFromConfig(ctx context.Context) (*usecase.PropagationUseCase, history, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.Storage.Driver == "memory" {
		return nil, nil, nil, fmt.Errorf("la CLI necesita STORAGE_DRIVER=postgres")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	deps, err := bootstrap.Open(ctx, cfg, log.Zerolog())
	if err != nil {
		return nil, nil, nil, err
	}
	var hist history
	if deps.Notifier != nil {
		hist = deps.Notifier
	}
	return usecase.NewPropagationUseCase(deps.Propagation), hist, deps.Close, nil
}
