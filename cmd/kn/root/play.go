package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SicilyCialo/kannacs/internal/engine"
	"github.com/SicilyCialo/kannacs/internal/ui"
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <rock|paper|scissors>",
		Short: "Play a round of rock-paper-scissors",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("choice is required")
			}
			_, err := engine.ParseChoice(args[0])
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			choice, _ := engine.ParseChoice(args[0])
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s You chose %s. %s\n", ui.IconGamepad, ui.Key.Render(string(choice)), ui.Muted.Render("Opponent is thinking…"))
			r, err := svc.PlayAndWait(ctx, choice)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s vs %s: %s\n", r.Player, r.Computer, ui.OutcomeText(string(r.Outcome)))
			if r.Reward.XPGained > 0 {
				line := fmt.Sprintf("+%d XP", r.Reward.XPGained)
				if r.Reward.BonusXP > 0 {
					line += fmt.Sprintf(" (includes %d streak bonus)", r.Reward.BonusXP)
				}
				fmt.Fprintln(out, ui.Gold.Render(line))
			}
			fmt.Fprintln(out, ui.LabelValue("Win streak", r.Reward.StreakAfter))
			return nil
		},
	}

	return cmd
}
