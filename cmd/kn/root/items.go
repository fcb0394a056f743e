package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SicilyCialo/kannacs/internal/engine"
	"github.com/SicilyCialo/kannacs/internal/ui"
)

func newItemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Show the inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconBox, "Inventory"))
			for _, it := range engine.Inventory() {
				xp := ""
				if it.UseXP > 0 {
					xp = ui.Gold.Render(fmt.Sprintf(" use: +%d XP", it.UseXP))
				}
				fmt.Fprintf(out, "%s %s %s %s%s\n", it.Icon, ui.H2.Render(it.Name), ui.RarityText(string(it.Rarity)), ui.Muted.Render(it.ID), xp)
				fmt.Fprintf(out, "   %s %s\n", it.Bonus, ui.Muted.Render(it.Description))
			}
			return nil
		},
	}

	return cmd
}

func newUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <item>",
		Short: "Use an inventory item for XP",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("item id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			use, err := svc.UseItem(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: +%d XP\n", use.Item.Icon, use.Item.Name, use.Reward.XPGained)
			return nil
		},
	}

	return cmd
}
