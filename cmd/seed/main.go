// Command seed carga un catálogo inicial de grupos, categorías y modelos a través de los mismos
// casos de uso que la API (validación, normalización y herencia de esquemas incluidas).
//
// Uso: seed [catalogo.json]
// Sin argumento carga el catálogo de demostración embebido.
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Flota-api/internal/application/usecase"
	"github.com/jhoicas/Flota-api/internal/bootstrap"
	"github.com/jhoicas/Flota-api/pkg/config"
	"github.com/jhoicas/Flota-api/pkg/logger"
)

//go:embed catalogo_demo.json
var demoCatalog []byte

func main() {
	if err := newRootCmd(openFromConfig).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type opener func(ctx context.Context) (*seeder, func(), error)

func newRootCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:           "seed [catalogo.json]",
		Short:         "Carga grupos, categorías y modelos iniciales",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := demoCatalog
			if len(args) == 1 {
				b, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("leer catálogo: %w", err)
				}
				raw = b
			}
			var c catalog
			if err := json.Unmarshal(raw, &c); err != nil {
				return fmt.Errorf("decodificar catálogo: %w", err)
			}

			s, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			sum, err := s.Apply(cmd.Context(), c)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		},
	}
}

func openFromConfig(ctx context.Context) (*seeder, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Storage.Driver == "memory" {
		return nil, nil, fmt.Errorf("seed necesita STORAGE_DRIVER=postgres")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	deps, err := bootstrap.Open(ctx, cfg, log.Zerolog())
	if err != nil {
		return nil, nil, err
	}
	s := &seeder{
		groups:     usecase.NewGroupUseCase(deps.Repos.Groups, deps.Propagation),
		categories: usecase.NewCategoryUseCase(deps.Repos, deps.TxRunner, deps.Propagation),
		models:     usecase.NewModelUseCase(deps.Repos, deps.TxRunner, deps.Propagation),
	}
	return s, deps.Close, nil
}
