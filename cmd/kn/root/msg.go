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

func newMsgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "msg <name> <text>",
		Short: "Send a message to a waifu",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("name and text are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			name := args[0]
			if w, ok := engine.LookupWaifu(name); ok {
				name = w.Name
			}
			text := strings.Join(args[1:], " ")
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			if !svc.SendMessage(ctx, name, text) {
				return errors.New("name and text must not be blank")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconMail+" Sent to"), name)
			return nil
		},
	}

	return cmd
}
