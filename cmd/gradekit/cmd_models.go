package main

import (
	"context"
	"fmt"

	"github.com/gradekit/gradekit/internal/models"
	"github.com/spf13/cobra"
)

func newModelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models available for grading",
		Long: `List the models each provider offers, grouped by provider.

Hosted providers are queried only when an API key for them is configured.
The local provider is always queried; an empty listing usually means the
local inference server is not running.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := newApp(ctx, false)
			if err != nil {
				return err
			}

			app.reg.Refresh(ctx)
			catalog := app.reg.Snapshot()

			total := 0
			for _, p := range models.AllProviders() {
				fmt.Printf("%s:\n", p)

				if p != models.ProviderLocal && !app.gw.Configured(p) {
					fmt.Println("  (not configured)")
					fmt.Println()
					continue
				}

				names := catalog[p]
				if len(names) == 0 {
					if p == models.ProviderLocal {
						fmt.Println("  (no models found, is the local server running?)")
					} else {
						fmt.Println("  (no models found)")
					}
					fmt.Println()
					continue
				}

				for _, name := range names {
					fmt.Printf("  %s\n", name)
				}
				total += len(names)
				fmt.Println()
			}

			fmt.Printf("%d model(s) available\n", total)
			return nil
		},
	}

	return cmd
}
