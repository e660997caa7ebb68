package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Flota-api/internal/application/dto"
	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/application/usecase"
)

// history lectura de eventos recientes (implementada por el notifier de Redis).
type history interface {
	Recent(ctx context.Context, limit int) ([]propagation.Event, error)
}

// opener construye las dependencias de la CLI; el func devuelto libera conexiones.
type opener func(ctx context.Context) (*usecase.PropagationUseCase, history, func(), error)

func newRootCmd(open opener) *cobra.Command {
	var (
		removeMissing bool
		oldDefPath    string
	)
	root := &cobra.Command{
		Use:   "propagate <grupo|categoria|modelo> <id>",
		Short: "Propaga la definición de un grupo, categoría o modelo a sus dependientes",
		Long: `Recalcula categorías, modelos y activos a partir de la definición actual de la fuente,
en una sola transacción. Los valores existentes nunca se sobrescriben.

Con --remove-missing y --old-def (definición previa del grupo, JSON) se eliminan de los
dependientes los atributos que el grupo dejó de aportar y que ningún otro grupo de la
categoría aporta.

Ejemplo:
  propagate grupo 7b1c... --remove-missing --old-def motor_anterior.json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := dto.PropagateRequest{RemoveMissing: removeMissing}
			if oldDefPath != "" {
				raw, err := os.ReadFile(oldDefPath)
				if err != nil {
					return fmt.Errorf("leer --old-def: %w", err)
				}
				in.OldDef = raw
			}
			uc, _, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			out, err := uc.Propagate(cmd.Context(), args[0], args[1], in)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
	root.Flags().BoolVar(&removeMissing, "remove-missing", false, "podar atributos que la fuente dejó de aportar (requiere --old-def)")
	root.Flags().StringVar(&oldDefPath, "old-def", "", "archivo JSON con la definición previa del grupo")

	var limit int
	historyCmd := &cobra.Command{
		Use:   "historial",
		Short: "Muestra las últimas propagaciones publicadas en Redis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, hist, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			if hist == nil {
				return fmt.Errorf("historial no disponible: configure REDIS_ADDR")
			}
			events, err := hist.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printJSON(cmd, events)
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "cantidad de eventos")
	root.AddCommand(historyCmd)
	return root
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
