package engine

import (
	"regexp"
	"strings"

	"github.com/SicilyCialo/kannacs/internal/storage"
)

// Rank is the label shown next to the player's level.
type Rank string

const RankVoid Rank = "VOID"

const (
	DefaultNextLevelXP = 500
	DefaultTimePlayed  = "1000+ hours"
)

type GameStats struct {
	Level       int    `json:"level"`
	Experience  int    `json:"experience"`
	NextLevelXP int    `json:"nextLevelXp"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	TimePlayed  string `json:"timePlayed"`
	Rank        Rank   `json:"rank"`
}

func DefaultGameStats() GameStats {
	return GameStats{
		Level:       0,
		Experience:  0,
		NextLevelXP: DefaultNextLevelXP,
		TimePlayed:  DefaultTimePlayed,
		Rank:        RankVoid,
	}
}

// normalize enforces the experience clamp.
func (g GameStats) normalize() GameStats {
	if g.NextLevelXP <= 0 {
		g.NextLevelXP = DefaultNextLevelXP
	}
	g.Experience = clampXP(g.Experience, g.NextLevelXP)
	if g.Level < 0 {
		g.Level = 0
	}
	if g.Wins < 0 {
		g.Wins = 0
	}
	if g.Losses < 0 {
		g.Losses = 0
	}
	return g
}

// FavoriteSet keeps names unique and preserves insertion order for display.
type FavoriteSet []string

func (f FavoriteSet) Contains(name string) bool {
	for _, n := range f {
		if n == name {
			return true
		}
	}
	return false
}

func (f FavoriteSet) Len() int { return len(f) }

// toggled returns a copy with name added or removed.
func (f FavoriteSet) toggled(name string) (FavoriteSet, bool) {
	out := make(FavoriteSet, 0, len(f)+1)
	removed := false
	for _, n := range f {
		if n == name {
			removed = true
			continue
		}
		out = append(out, n)
	}
	if removed {
		return out, false
	}
	return append(out, name), true
}

func dedupe(names []string) FavoriteSet {
	out := make(FavoriteSet, 0, len(names))
	for _, n := range names {
		if n == "" || out.Contains(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

const (
	MaxMessageRunes = 140
	MessageHistory  = 5
)

// MessageLog maps a recipient to the messages sent to them, oldest first.
type MessageLog map[string][]string

// Recipients is the number of distinct names that received at least one message.
func (m MessageLog) Recipients() int { return len(m) }

func (m MessageLog) clone() MessageLog {
	out := make(MessageLog, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

const CanvasSize = 8

// BackgroundColor is the default (and eraser) canvas color.
const BackgroundColor = "#1a1c2c"

// Palette is the set of colors offered by the drawing pad.
var Palette = []string{
	"#ff004d", // red
	"#ff77a8", // pink
	"#ffec27", // yellow
	"#00e756", // green
	"#29adff", // blue
	"#83769c", // purple
	"#ffffff", // white
	BackgroundColor,
}

type PixelCanvas [CanvasSize][CanvasSize]string

func BlankCanvas() PixelCanvas {
	var c PixelCanvas
	for r := range c {
		for col := range c[r] {
			c[r][col] = BackgroundColor
		}
	}
	return c
}

// Painted counts cells that differ from the background.
func (c PixelCanvas) Painted() int {
	n := 0
	for r := range c {
		for col := range c[r] {
			if !strings.EqualFold(c[r][col], BackgroundColor) {
				n++
			}
		}
	}
	return n
}

var hexColorRE = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func IsHexColor(s string) bool { return hexColorRE.MatchString(s) }

type ConsentState struct {
	PrivacyAccepted bool `json:"privacyAccepted"`
	PrivacyVisited  bool `json:"privacyVisited"`
}

// Field names a persisted piece of progress. Values double as cookie names.
type Field string

const (
	FieldCanvas          Field = storage.KeyPixelCanvas
	FieldGameStats       Field = storage.KeyGameStats
	FieldFavorites       Field = storage.KeyFavoriteWaifus
	FieldAchievements    Field = storage.KeyAchievements
	FieldPrivacyVisited  Field = storage.KeyPrivacyVisited
	FieldPrivacyAccepted Field = storage.KeyPrivacyAccepted
	FieldMessages        Field = storage.KeySentMessages
	FieldWinStreak       Field = storage.KeyWinStreak
)

// Fields lists every persisted field in load order.
func Fields() []Field {
	return []Field{
		FieldCanvas,
		FieldGameStats,
		FieldFavorites,
		FieldMessages,
		FieldWinStreak,
		FieldAchievements,
		FieldPrivacyVisited,
		FieldPrivacyAccepted,
	}
}

func (f Field) Key() string { return string(f) }

// Progress is a point-in-time copy of everything the store holds.
type Progress struct {
	Stats        GameStats
	Favorites    FavoriteSet
	Messages     MessageLog
	Canvas       PixelCanvas
	Consent      ConsentState
	Achievements []Achievement
	WinStreak    int
}

func DefaultProgress() Progress {
	return Progress{
		Stats:        DefaultGameStats(),
		Favorites:    FavoriteSet{},
		Messages:     MessageLog{},
		Canvas:       BlankCanvas(),
		Achievements: Catalogue(),
	}
}

func (p Progress) clone() Progress {
	out := p
	out.Favorites = append(FavoriteSet{}, p.Favorites...)
	out.Messages = p.Messages.clone()
	out.Achievements = append([]Achievement(nil), p.Achievements...)
	return out
}
