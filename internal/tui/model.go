package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SicilyCialo/kannacs/internal/engine"
	"github.com/SicilyCialo/kannacs/internal/ui"
)

type section int

const (
	sectionProfile section = iota
	sectionAchievements
	sectionMinigame
	sectionWaifus
	sectionCanvas
	sectionPrivacy
	sectionCount
)

var sectionNames = [sectionCount]string{"Profile", "Achievements", "Minigame", "Waifus", "Canvas", "Privacy"}

const maxToasts = 4

type boardModel struct {
	ctx    context.Context
	svc    *engine.Service
	events <-chan engine.Event

	width  int
	height int

	section section
	snap    engine.Progress
	phase   engine.Phase
	round   engine.Round

	item   int
	waifu  int
	row    int
	col    int
	color  int
	toasts []string

	lastLog string
}

type eventMsg struct{ e engine.Event }

// refreshMsg re-reads the minigame after the result has been shown.
type refreshMsg struct{}

func newBoardModel(ctx context.Context, svc *engine.Service, events <-chan engine.Event) boardModel {
	m := boardModel{
		ctx:     ctx,
		svc:     svc,
		events:  events,
		lastLog: "Loaded.",
	}
	m.refresh()
	return m
}

func (m boardModel) Init() tea.Cmd {
	return m.waitEvent()
}

func (m boardModel) waitEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e, ok := <-m.events:
			if !ok {
				return nil
			}
			return eventMsg{e: e}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *boardModel) refresh() {
	m.snap = m.svc.Snapshot()
	m.phase = m.svc.Minigame().Phase()
	m.round, _ = m.svc.Minigame().Current()
}

func (m *boardModel) toast(s string) {
	m.toasts = append(m.toasts, s)
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case eventMsg:
		m.refresh()
		cmds := []tea.Cmd{m.waitEvent()}
		if text := describeEvent(msg.e); text != "" {
			m.toast(text)
		}
		if msg.e.Kind == engine.EventRoundResolved {
			_, display := m.svc.Minigame().Delays()
			cmds = append(cmds, tea.Tick(display+10*time.Millisecond, func(time.Time) tea.Msg { return refreshMsg{} }))
		}
		return m, tea.Batch(cmds...)
	case refreshMsg:
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.enter((m.section + 1) % sectionCount)
		return m, nil
	case "shift+tab":
		m.enter((m.section + sectionCount - 1) % sectionCount)
		return m, nil
	case "1", "2", "3", "4", "5", "6":
		m.enter(section(msg.String()[0] - '1'))
		return m, nil
	}

	switch m.section {
	case sectionProfile:
		m.profileKey(msg.String())
	case sectionMinigame:
		m.minigameKey(msg.String())
	case sectionWaifus:
		m.waifuKey(msg.String())
	case sectionCanvas:
		m.canvasKey(msg.String())
	case sectionPrivacy:
		if msg.String() == "a" {
			m.svc.AcceptPrivacy(m.ctx)
			m.lastLog = "Privacy policy accepted."
		}
	}
	m.refresh()
	return m, nil
}

func (m *boardModel) enter(s section) {
	m.section = s
	if s == sectionPrivacy {
		m.svc.VisitPrivacy(m.ctx)
	}
	m.refresh()
}

func (m *boardModel) profileKey(key string) {
	items := engine.Inventory()
	switch key {
	case "up", "k":
		if m.item > 0 {
			m.item--
		}
	case "down", "j":
		if m.item < len(items)-1 {
			m.item++
		}
	case "enter", "u":
		use, err := m.svc.UseItem(m.ctx, items[m.item].ID)
		if err != nil {
			m.lastLog = "Use failed: " + err.Error()
			return
		}
		m.lastLog = fmt.Sprintf("Used %s: +%d XP", use.Item.Name, use.Reward.XPGained)
	}
}

func (m *boardModel) minigameKey(key string) {
	choice, err := engine.ParseChoice(key)
	if err != nil {
		return
	}
	if !m.svc.Play(m.ctx, choice) {
		m.lastLog = "Wait for the current round to finish."
		return
	}
	m.lastLog = fmt.Sprintf("You chose %s.", choice)
}

func (m *boardModel) waifuKey(key string) {
	roster := engine.Roster()
	switch key {
	case "up", "k":
		if m.waifu > 0 {
			m.waifu--
		}
	case "down", "j":
		if m.waifu < len(roster)-1 {
			m.waifu++
		}
	case "f", "enter":
		name := roster[m.waifu].Name
		if m.svc.ToggleFavorite(m.ctx, name) {
			m.lastLog = name + " added to favorites."
		} else {
			m.lastLog = name + " removed from favorites."
		}
	case "m":
		name := roster[m.waifu].Name
		m.svc.SendMessage(m.ctx, name, fmt.Sprintf("Hi %s!", name))
		m.lastLog = "Message sent to " + name + "."
	}
}

func (m *boardModel) canvasKey(key string) {
	switch key {
	case "up", "k":
		m.row = (m.row + engine.CanvasSize - 1) % engine.CanvasSize
	case "down", "j":
		m.row = (m.row + 1) % engine.CanvasSize
	case "left", "h":
		m.col = (m.col + engine.CanvasSize - 1) % engine.CanvasSize
	case "right", "l":
		m.col = (m.col + 1) % engine.CanvasSize
	case "c":
		m.color = (m.color + 1) % len(engine.Palette)
	case " ", "enter":
		if err := m.svc.Paint(m.ctx, m.row, m.col, engine.Palette[m.color]); err != nil {
			m.lastLog = "Paint failed: " + err.Error()
		}
	case "x":
		m.svc.ClearCanvas(m.ctx)
		m.lastLog = "Canvas cleared."
	}
}

func describeEvent(e engine.Event) string {
	switch e.Kind {
	case engine.EventAchievementUnlocked:
		return fmt.Sprintf("%s Achievement unlocked: %s", e.Achievement.Icon, e.Achievement.Title)
	case engine.EventAchievementLocked:
		return fmt.Sprintf("%s Achievement lost: %s", ui.IconLock, e.Achievement.Title)
	case engine.EventLevelUp:
		return fmt.Sprintf("%s Level %d", ui.BadgeLevelUp, e.Level)
	case engine.EventRoundResolved:
		return fmt.Sprintf("%s %s vs %s (+%d XP)", ui.OutcomeText(string(e.Round.Outcome)), e.Round.Player, e.Round.Computer, e.Round.Reward.XPGained)
	case engine.EventConsentGranted:
		return ui.Good.Render("Thanks for accepting the privacy policy.")
	case engine.EventProgressReset:
		return ui.Warn.Render("Progress reset.")
	}
	return ""
}

func (m boardModel) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.section {
	case sectionProfile:
		b.WriteString(m.renderProfile())
	case sectionAchievements:
		b.WriteString(m.renderAchievements())
	case sectionMinigame:
		b.WriteString(m.renderMinigame())
	case sectionWaifus:
		b.WriteString(m.renderWaifus())
	case sectionCanvas:
		b.WriteString(m.renderCanvas())
	case sectionPrivacy:
		b.WriteString(m.renderPrivacy())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m boardModel) renderHeader() string {
	st := m.snap.Stats
	bar := ui.ProgressBar(st.Experience, st.NextLevelXP, 30)
	return fmt.Sprintf("%s | Level %d | XP %d/%d %s | %s %d/%d",
		ui.Title.Render("KANNACS"), st.Level, st.Experience, st.NextLevelXP, bar,
		ui.IconTrophy, engine.CountEarned(m.snap.Achievements), len(m.snap.Achievements))
}

func (m boardModel) renderTabs() string {
	tabs := make([]string, 0, sectionCount)
	for i, name := range sectionNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if section(i) == m.section {
			tabs = append(tabs, ui.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, ui.Tab.Render(label))
		}
	}
	return strings.Join(tabs, "")
}

func (m boardModel) renderProfile() string {
	st := m.snap.Stats
	lines := []string{
		ui.LabelValue("Rank", st.Rank),
		ui.LabelValue("Wins", st.Wins),
		ui.LabelValue("Losses", st.Losses),
		ui.LabelValue("Win streak", m.snap.WinStreak),
		ui.LabelValue("Time played", st.TimePlayed),
		"",
		ui.H2.Render(ui.IconBox + " Inventory"),
	}
	for i, it := range engine.Inventory() {
		line := fmt.Sprintf("%s %s %s %s", it.Icon, it.Name, ui.RarityText(string(it.Rarity)), ui.Muted.Render(it.Bonus))
		if it.UseXP > 0 {
			line += ui.Muted.Render(fmt.Sprintf(" (+%d XP)", it.UseXP))
		}
		lines = append(lines, cursorLine(i == m.item, line))
	}
	return strings.Join(lines, "\n")
}

func (m boardModel) renderAchievements() string {
	lines := []string{ui.H2.Render(ui.IconTrophy + " Achievements")}
	for _, a := range m.snap.Achievements {
		lines = append(lines, ui.AchievementLine(a.Icon, a.Title, a.Description, a.Unlocked))
	}
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMinigame() string {
	lines := []string{ui.H2.Render(ui.IconGamepad + " Rock Paper Scissors")}
	switch m.phase {
	case engine.PhaseCommitted:
		lines = append(lines, fmt.Sprintf("You chose %s. Opponent is thinking…", m.round.Player))
	case engine.PhaseResolved:
		lines = append(lines,
			fmt.Sprintf("%s vs %s", m.round.Player, m.round.Computer),
			ui.OutcomeText(string(m.round.Outcome)),
		)
		if r := m.round.Reward; r.XPGained > 0 {
			reward := fmt.Sprintf("+%d XP", r.XPGained)
			if r.BonusXP > 0 {
				reward += fmt.Sprintf(" (streak bonus %d)", r.BonusXP)
			}
			lines = append(lines, ui.Gold.Render(reward))
		}
	default:
		lines = append(lines, "Choose: [r]ock [p]aper [s]cissors")
	}
	lines = append(lines, "", ui.LabelValue("Win streak", m.snap.WinStreak))
	return strings.Join(lines, "\n")
}

func (m boardModel) renderWaifus() string {
	lines := []string{ui.H2.Render(ui.IconHeart + " Waifus")}
	for i, w := range engine.Roster() {
		fav := "  "
		if m.snap.Favorites.Contains(w.Name) {
			fav = ui.IconStar
		}
		sent := len(m.snap.Messages[w.Name])
		line := fmt.Sprintf("%s %s %s", fav, w.Name, ui.Muted.Render(fmt.Sprintf("charm %d cuteness %d shyness %d | %d messages", w.Stats.Charm, w.Stats.Cuteness, w.Stats.Shyness, sent)))
		lines = append(lines, cursorLine(i == m.waifu, line))
	}
	return strings.Join(lines, "\n")
}

func (m boardModel) renderCanvas() string {
	lines := []string{ui.H2.Render(ui.IconPalette + " Pixel Canvas")}
	for r := 0; r < engine.CanvasSize; r++ {
		var row strings.Builder
		for c := 0; c < engine.CanvasSize; c++ {
			if r == m.row && c == m.col {
				row.WriteString("[]")
				continue
			}
			row.WriteString(ui.Swatch(m.snap.Canvas[r][c]))
		}
		lines = append(lines, row.String())
	}
	lines = append(lines, "", fmt.Sprintf("Brush %s %s", ui.Swatch(engine.Palette[m.color]), engine.Palette[m.color]))
	return strings.Join(lines, "\n")
}

func (m boardModel) renderPrivacy() string {
	c := m.snap.Consent
	return strings.Join([]string{
		ui.H2.Render(ui.IconLock + " Privacy & Policy"),
		"Progress is stored locally for 30 days.",
		"",
		ui.LabelValue("Visited", ui.EnabledText(c.PrivacyVisited)),
		ui.LabelValue("Accepted", ui.EnabledText(c.PrivacyAccepted)),
	}, "\n")
}

func (m boardModel) renderFooter() string {
	var help string
	switch m.section {
	case sectionProfile:
		help = "↑/↓ select item, enter use"
	case sectionMinigame:
		help = "r/p/s play"
	case sectionWaifus:
		help = "↑/↓ select, f favorite, m message"
	case sectionCanvas:
		help = "arrows move, c color, space paint, x clear"
	case sectionPrivacy:
		help = "a accept"
	}
	out := []string{""}
	out = append(out, m.toasts...)
	out = append(out, m.lastLog, ui.Muted.Render("tab/1-6 switch | "+help+" | q quit"))
	return strings.Join(out, "\n")
}

func cursorLine(selected bool, line string) string {
	if selected {
		return "> " + line
	}
	return "  " + line
}
