package engine

import (
	"strings"
	"sync"
)

// Change describes one store mutation: which persisted fields moved and the
// progress on either side of it.
type Change struct {
	Fields       []Field
	Before       Progress
	After        Progress
	Achievements AchievementDiff
}

func (c Change) Empty() bool { return len(c.Fields) == 0 }

func (c Change) Touched(f Field) bool {
	for _, x := range c.Fields {
		if x == f {
			return true
		}
	}
	return false
}

// watchedFields feed the achievement evaluator.
var watchedFields = map[Field]bool{
	FieldGameStats:      true,
	FieldFavorites:      true,
	FieldMessages:       true,
	FieldPrivacyVisited: true,
}

// Store holds the canonical in-memory progress. Every mutation returns a
// Change; callers decide what to persist from it.
type Store struct {
	mu sync.Mutex
	p  Progress
}

func NewStore() *Store {
	return &Store{p: DefaultProgress()}
}

func (s *Store) Snapshot() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.clone()
}

func (s *Store) Stats() GameStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Stats
}

func (s *Store) Favorites() FavoriteSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(FavoriteSet{}, s.p.Favorites...)
}

func (s *Store) Messages() MessageLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Messages.clone()
}

func (s *Store) Canvas() PixelCanvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Canvas
}

func (s *Store) Consent() ConsentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Consent
}

func (s *Store) Achievements() []Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Achievement(nil), s.p.Achievements...)
}

func (s *Store) WinStreak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.WinStreak
}

// mutate runs fn under the lock. fn reports the fields it changed; when any of
// them is watched the achievements are re-evaluated in the same step.
func (s *Store) mutate(fn func(p *Progress) []Field) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.p.clone()
	fields := fn(&s.p)
	if len(fields) == 0 {
		return Change{}
	}

	var diff AchievementDiff
	if touchesWatched(fields) {
		next := Evaluate(s.p)
		if !achievementsEqual(next, s.p.Achievements) {
			diff = diffAchievements(s.p.Achievements, next)
			s.p.Achievements = next
			fields = append(fields, FieldAchievements)
		}
	}
	return Change{Fields: fields, Before: before, After: s.p.clone(), Achievements: diff}
}

func touchesWatched(fields []Field) bool {
	for _, f := range fields {
		if watchedFields[f] {
			return true
		}
	}
	return false
}

// SetStats replaces the stats record, clamping experience.
func (s *Store) SetStats(g GameStats) Change {
	return s.mutate(func(p *Progress) []Field {
		g = g.normalize()
		if g == p.Stats {
			return nil
		}
		p.Stats = g
		return []Field{FieldGameStats}
	})
}

// ToggleFavorite adds or removes name. Blank names are ignored.
func (s *Store) ToggleFavorite(name string) (Change, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Change{}, false
	}
	var added bool
	c := s.mutate(func(p *Progress) []Field {
		p.Favorites, added = p.Favorites.toggled(name)
		return []Field{FieldFavorites}
	})
	return c, added
}

// SendMessage appends text to the log for to. Blank recipients or texts are
// ignored. Text is cut to MaxMessageRunes and each recipient keeps only the
// last MessageHistory entries so the log fits in one cookie.
func (s *Store) SendMessage(to, text string) Change {
	to = strings.TrimSpace(to)
	text = strings.TrimSpace(text)
	if to == "" || text == "" {
		return Change{}
	}
	if r := []rune(text); len(r) > MaxMessageRunes {
		text = string(r[:MaxMessageRunes])
	}
	return s.mutate(func(p *Progress) []Field {
		if p.Messages == nil {
			p.Messages = MessageLog{}
		}
		entries := append(p.Messages[to], text)
		if len(entries) > MessageHistory {
			entries = append([]string(nil), entries[len(entries)-MessageHistory:]...)
		}
		p.Messages[to] = entries
		return []Field{FieldMessages}
	})
}

func (s *Store) Paint(row, col int, color string) (Change, error) {
	if row < 0 || row >= CanvasSize || col < 0 || col >= CanvasSize {
		return Change{}, ErrOutOfBounds
	}
	if !IsHexColor(color) {
		return Change{}, ErrInvalidColor
	}
	color = strings.ToLower(color)
	return s.mutate(func(p *Progress) []Field {
		if p.Canvas[row][col] == color {
			return nil
		}
		p.Canvas[row][col] = color
		return []Field{FieldCanvas}
	}), nil
}

func (s *Store) ClearCanvas() Change {
	return s.mutate(func(p *Progress) []Field {
		blank := BlankCanvas()
		if p.Canvas == blank {
			return nil
		}
		p.Canvas = blank
		return []Field{FieldCanvas}
	})
}

func (s *Store) VisitPrivacy() Change {
	return s.mutate(func(p *Progress) []Field {
		if p.Consent.PrivacyVisited {
			return nil
		}
		p.Consent.PrivacyVisited = true
		return []Field{FieldPrivacyVisited}
	})
}

// AcceptPrivacy grants consent. Accepting also counts as a visit.
func (s *Store) AcceptPrivacy() Change {
	return s.mutate(func(p *Progress) []Field {
		var fields []Field
		if !p.Consent.PrivacyAccepted {
			p.Consent.PrivacyAccepted = true
			fields = append(fields, FieldPrivacyAccepted)
		}
		if !p.Consent.PrivacyVisited {
			p.Consent.PrivacyVisited = true
			fields = append(fields, FieldPrivacyVisited)
		}
		return fields
	})
}

// ApplyOutcome books a minigame outcome against stats and the win streak.
func (s *Store) ApplyOutcome(o Outcome) (Change, Reward) {
	var r Reward
	c := s.mutate(func(p *Progress) []Field {
		var next GameStats
		next, r = ApplyOutcome(p.Stats, p.WinStreak, o)
		var fields []Field
		if next != p.Stats {
			p.Stats = next
			fields = append(fields, FieldGameStats)
		}
		if r.StreakAfter != p.WinStreak {
			p.WinStreak = r.StreakAfter
			fields = append(fields, FieldWinStreak)
		}
		return fields
	})
	return c, r
}

func (s *Store) GrantXP(amount int) (Change, Reward) {
	var r Reward
	c := s.mutate(func(p *Progress) []Field {
		var next GameStats
		next, r = GrantXP(p.Stats, amount)
		if next == p.Stats {
			return nil
		}
		p.Stats = next
		return []Field{FieldGameStats}
	})
	return c, r
}

// Reset restores every field to its default. See ResetPolicy for how the
// achievement flags are treated.
func (s *Store) Reset(policy ResetPolicy) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.p.clone()
	next := DefaultProgress()
	switch policy {
	case ResetLegacy:
		next.Achievements = append([]Achievement(nil), before.Achievements...)
		for i := range next.Achievements {
			if next.Achievements[i].ID == AchievementFirstVictory {
				next.Achievements[i].Unlocked = false
			}
		}
	default:
		next.Achievements = Evaluate(next)
	}
	s.p = next
	return Change{
		Fields:       Fields(),
		Before:       before,
		After:        s.p.clone(),
		Achievements: diffAchievements(before.Achievements, next.Achievements),
	}
}

// hydrate overwrites fields from persisted values without producing a Change.
func (s *Store) hydrate(fn func(p *Progress)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.p)
	s.p.Stats = s.p.Stats.normalize()
	s.p.Achievements = Evaluate(s.p)
}
