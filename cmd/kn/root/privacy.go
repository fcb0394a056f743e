package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SicilyCialo/kannacs/internal/ui"
)

func newPrivacyCmd() *cobra.Command {
	var accept bool
	cmd := &cobra.Command{
		Use:   "privacy",
		Short: "Read the privacy policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			svc.VisitPrivacy(ctx)
			if accept {
				svc.AcceptPrivacy(ctx)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconLock, "Privacy & Policy"))
			fmt.Fprintln(out, "Your progress (stats, favorites, messages, canvas and achievements)")
			fmt.Fprintln(out, "is stored locally and expires 30 days after it was last written.")
			fmt.Fprintln(out, "Nothing is sent to a server. Run `kn reset --yes` to delete it.")
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.LabelValue("Accepted", ui.EnabledText(svc.Consent().PrivacyAccepted)))
			if !accept && !svc.Consent().PrivacyAccepted {
				fmt.Fprintln(out, ui.Muted.Render("Run `kn privacy --accept` to agree."))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&accept, "accept", false, "accept the privacy policy")

	return cmd
}
