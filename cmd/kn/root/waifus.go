package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SicilyCialo/kannacs/internal/engine"
	"github.com/SicilyCialo/kannacs/internal/ui"
)

func newWaifusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waifus",
		Short: "Show the waifu roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			favs := svc.Favorites()
			msgs := svc.Messages()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconHeart, "Waifu Showcase"))
			for _, w := range engine.Roster() {
				mark := "  "
				if favs.Contains(w.Name) {
					mark = ui.IconStar
				}
				fmt.Fprintf(out, "%s %s %s\n", mark, ui.H2.Render(w.Name), ui.Muted.Render(w.Description))
				fmt.Fprintf(out, "   charm %d | cuteness %d | shyness %d | %d messages\n",
					w.Stats.Charm, w.Stats.Cuteness, w.Stats.Shyness, len(msgs[w.Name]))
			}
			return nil
		},
	}

	return cmd
}
