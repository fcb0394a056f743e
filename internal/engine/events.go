package engine

import (
	"sync"
	"time"
)

type EventKind string

const (
	EventAchievementUnlocked EventKind = "achievement.unlocked"
	EventAchievementLocked   EventKind = "achievement.locked"
	EventLevelUp             EventKind = "level.up"
	EventMessageSent         EventKind = "message.sent"
	EventFavoriteToggled     EventKind = "favorite.toggled"
	EventConsentGranted      EventKind = "consent.granted"
	EventRoundStarted        EventKind = "round.started"
	EventRoundResolved       EventKind = "round.resolved"
	EventItemUsed            EventKind = "item.used"
	EventProgressReset       EventKind = "progress.reset"
)

// Event is feedback for the presentation layer (toasts, confetti, badges).
type Event struct {
	Kind        EventKind
	At          time.Time
	Achievement Achievement
	Round       Round
	Level       int
	Name        string
	Favorited   bool
	Item        Item
}

// Bus fans events out to subscribers synchronously, in subscription order.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
	ids  []int
}

func NewBus() *Bus {
	return &Bus{subs: map[int]func(Event){}}
}

// Subscribe registers fn and returns a func that removes it.
func (b *Bus) Subscribe(fn func(Event)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.ids = append(b.ids, id)
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
		for i, x := range b.ids {
			if x == id {
				b.ids = append(b.ids[:i], b.ids[i+1:]...)
				break
			}
		}
	}
}

func (b *Bus) Publish(events ...Event) {
	if len(events) == 0 {
		return
	}
	b.mu.RLock()
	fns := make([]func(Event), 0, len(b.ids))
	for _, id := range b.ids {
		fns = append(fns, b.subs[id])
	}
	b.mu.RUnlock()

	for _, e := range events {
		for _, fn := range fns {
			fn(e)
		}
	}
}

// eventsForChange derives level-up, achievement and consent feedback.
func eventsForChange(c Change, at time.Time) []Event {
	var out []Event
	if c.After.Stats.Level > c.Before.Stats.Level {
		out = append(out, Event{Kind: EventLevelUp, At: at, Level: c.After.Stats.Level})
	}
	for _, a := range c.Achievements.Unlocked {
		out = append(out, Event{Kind: EventAchievementUnlocked, At: at, Achievement: a})
	}
	for _, a := range c.Achievements.Locked {
		out = append(out, Event{Kind: EventAchievementLocked, At: at, Achievement: a})
	}
	if c.After.Consent.PrivacyAccepted && !c.Before.Consent.PrivacyAccepted {
		out = append(out, Event{Kind: EventConsentGranted, At: at})
	}
	return out
}
