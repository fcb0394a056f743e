package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SicilyCialo/kannacs/internal/engine"
	"github.com/SicilyCialo/kannacs/internal/ui"
)

func newAchievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "achievements",
		Aliases: []string{"ach"},
		Short:   "List achievements and their unlock status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			list := svc.Achievements()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, fmt.Sprintf("Achievements (%d/%d)", engine.CountEarned(list), len(list))))
			for _, a := range list {
				fmt.Fprintln(out, "- "+ui.AchievementLine(a.Icon, a.Title, a.Description, a.Unlocked))
			}
			return nil
		},
	}

	return cmd
}
