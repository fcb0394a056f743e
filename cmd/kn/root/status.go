package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SicilyCialo/kannacs/internal/engine"
	"github.com/SicilyCialo/kannacs/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show gamer stats and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			p := svc.Snapshot()
			st := p.Stats
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Gamer Stats"))
			fmt.Fprintln(out, ui.LabelValue("Level", st.Level))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d/%d %s", st.Experience, st.NextLevelXP, ui.ProgressBar(st.Experience, st.NextLevelXP, 20))))
			fmt.Fprintln(out, ui.LabelValue("Rank", st.Rank))
			fmt.Fprintln(out, ui.LabelValue("Wins / Losses", fmt.Sprintf("%d / %d", st.Wins, st.Losses)))
			fmt.Fprintln(out, ui.LabelValue("Win streak", p.WinStreak))
			fmt.Fprintln(out, ui.LabelValue("Time played", st.TimePlayed))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.LabelValue(ui.IconTrophy+" Achievements", fmt.Sprintf("%d/%d", engine.CountEarned(p.Achievements), len(p.Achievements))))
			favs := "none"
			if p.Favorites.Len() > 0 {
				favs = strings.Join(p.Favorites, ", ")
			}
			fmt.Fprintln(out, ui.LabelValue(ui.IconHeart+" Favorites", favs))
			fmt.Fprintln(out, ui.LabelValue(ui.IconMail+" Messaged", fmt.Sprintf("%d waifus", p.Messages.Recipients())))
			fmt.Fprintln(out, ui.LabelValue(ui.IconPalette+" Canvas", fmt.Sprintf("%d pixels painted", p.Canvas.Painted())))
			fmt.Fprintln(out, ui.LabelValue(ui.IconLock+" Privacy accepted", ui.EnabledText(p.Consent.PrivacyAccepted)))
			return nil
		},
	}

	return cmd
}
