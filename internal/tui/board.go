package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SicilyCialo/kannacs/internal/engine"
)

// RunBoard opens the pixel menu until the user quits.
func RunBoard(ctx context.Context, svc *engine.Service, out io.Writer) error {
	events := make(chan engine.Event, 64)
	cancel := svc.Subscribe(func(e engine.Event) {
		select {
		case events <- e:
		default:
		}
	})
	defer cancel()

	m := newBoardModel(ctx, svc, events)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
