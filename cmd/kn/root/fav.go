package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SicilyCialo/kannacs/internal/engine"
	"github.com/SicilyCialo/kannacs/internal/ui"
)

func newFavCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav <name>",
		Short: "Toggle a waifu in your favorites",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(strings.Join(args, " ")) == "" {
				return errors.New("name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			name := strings.Join(args, " ")
			if w, ok := engine.LookupWaifu(name); ok {
				name = w.Name
			}
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			if svc.ToggleFavorite(ctx, name) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconHeart+" Added"), name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Muted.Render("Removed"), name)
			}
			return nil
		},
	}

	return cmd
}
