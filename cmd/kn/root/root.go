package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SicilyCialo/kannacs/internal/ui"
)

const Version = "0.1.0"

var dbPathFlag string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kn",
		Short:         "Kannacs: a pixel fan-site profile in your terminal",
		Long:          "Kannacs keeps a gamer profile: stats, achievements, favorite waifus, a pixel canvas and a rock-paper-scissors minigame. Progress is stored locally and expires after 30 days without updates.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "path to the progress database (default ~/.kannacs.db)")

	cmd.AddCommand(
		newStatusCmd(),
		newAchievementsCmd(),
		newPlayCmd(),
		newWaifusCmd(),
		newFavCmd(),
		newMsgCmd(),
		newPaintCmd(),
		newCanvasCmd(),
		newPrivacyCmd(),
		newItemsCmd(),
		newUseCmd(),
		newResetCmd(),
		newCookiesCmd(),
		newBoardCmd(),
		newServeCmd(),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
