package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SicilyCialo/kannacs/internal/ui"
)

func newCookiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "cookies",
		Short:  "Dump the raw stored values",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repo, cleanup, err := openRepo(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := repo.List(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
				return nil
			}
			for _, c := range list {
				fmt.Fprintf(out, "%s %s %s\n", ui.Key.Render(c.Name), c.Value, ui.Muted.Render("expires "+c.ExpiresAt.Local().Format(time.DateTime)))
			}
			return nil
		},
	}

	return cmd
}
