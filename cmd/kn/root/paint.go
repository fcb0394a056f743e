package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SicilyCialo/kannacs/internal/engine"
	"github.com/SicilyCialo/kannacs/internal/ui"
)

func newPaintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paint <row> <col> <color>",
		Short: "Paint one pixel of the canvas",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return errors.New("row, col and color are required")
			}
			for _, a := range args[:2] {
				if _, err := strconv.Atoi(a); err != nil {
					return errors.New("row and col must be integers")
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			row, _ := strconv.Atoi(args[0])
			col, _ := strconv.Atoi(args[1])
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.Paint(ctx, row, col, args[2]); err != nil {
				return err
			}
			printCanvas(cmd, svc.Canvas())
			return nil
		},
	}

	return cmd
}

func newCanvasCmd() *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "canvas",
		Short: "Show the pixel canvas",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			if clear {
				svc.ClearCanvas(ctx)
			}
			printCanvas(cmd, svc.Canvas())
			return nil
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "reset every pixel to the background color")

	return cmd
}

func printCanvas(cmd *cobra.Command, c engine.PixelCanvas) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Heading(ui.IconPalette, fmt.Sprintf("Pixel Canvas (%d painted)", c.Painted())))
	for r := range c {
		for col := range c[r] {
			fmt.Fprint(out, ui.Swatch(c[r][col]))
		}
		fmt.Fprintln(out)
	}
}
