package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Kannacs theme (CLI + TUI).
// Reusable styles, a few emojis and the pixel helpers.

const (
	IconSparkle = "✨"
	IconTrophy  = "🏆"
	IconHeart   = "❤️"
	IconMail    = "✉️"
	IconGamepad = "🎮"
	IconLock    = "🔒"
	IconUnlock  = "🔓"
	IconBolt    = "⚡"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconPalette = "🎨"
	IconBox     = "📦"
	IconStar    = "⭐"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)
	Tab         = lipgloss.NewStyle().Foreground(cMuted).Padding(0, 1)
	ActiveTab   = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary).Padding(0, 1)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// OutcomeText colors a minigame outcome.
func OutcomeText(outcome string) string {
	switch strings.ToLower(strings.TrimSpace(outcome)) {
	case "win":
		return Good.Render("YOU WIN!")
	case "lose":
		return Bad.Render("YOU LOSE")
	case "draw":
		return Warn.Render("DRAW")
	default:
		return Muted.Render(outcome)
	}
}

// AchievementLine renders one badge row.
func AchievementLine(icon, title, description string, unlocked bool) string {
	if unlocked {
		return fmt.Sprintf("%s %s %s", icon, Gold.Render(title), Muted.Render(description))
	}
	return fmt.Sprintf("%s %s %s", IconLock, Dim.Render(title), Dim.Render(description))
}

func RarityText(rarity string) string {
	switch rarity {
	case "epic":
		return Title.Render(rarity)
	case "rare":
		return H2.Render(rarity)
	case "uncommon":
		return Good.Render(rarity)
	default:
		return Muted.Render(rarity)
	}
}

// ProgressBar renders value/total as a fixed-width bar.
func ProgressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := value * width / total
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// Swatch paints a two-cell block in a hex color.
func Swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}

func EnabledText(ok bool) string {
	if ok {
		return Good.Render("yes")
	}
	return Bad.Render("no")
}
