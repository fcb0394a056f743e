package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/SicilyCialo/kannacs/internal/random"
	"github.com/SicilyCialo/kannacs/internal/storage"
)

// ResetPolicy decides what a full reset does to achievement flags.
type ResetPolicy string

const (
	// ResetRelock re-derives every flag from the restored defaults.
	ResetRelock ResetPolicy = "relock"
	// ResetLegacy forces only first-victory back to locked and leaves the
	// other flags as last computed.
	ResetLegacy ResetPolicy = "legacy"
)

func ParseResetPolicy(input string) (ResetPolicy, error) {
	switch p := ResetPolicy(strings.TrimSpace(strings.ToLower(input))); p {
	case "":
		return ResetRelock, nil
	case ResetRelock, ResetLegacy:
		return p, nil
	default:
		return "", fmt.Errorf("invalid reset policy: %q", input)
	}
}

type options struct {
	logger  *log.Logger
	picker  Picker
	sched   Scheduler
	think   time.Duration
	display time.Duration
	ttl     time.Duration
	policy  ResetPolicy
	now     func() time.Time
}

type Option func(*options)

func WithLogger(l *log.Logger) Option      { return func(o *options) { o.logger = l } }
func WithPicker(p Picker) Option           { return func(o *options) { o.picker = p } }
func WithScheduler(s Scheduler) Option     { return func(o *options) { o.sched = s } }
func WithResetPolicy(p ResetPolicy) Option { return func(o *options) { o.policy = p } }
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithDelays sets the minigame thinking and display delays.
func WithDelays(think, display time.Duration) Option {
	return func(o *options) { o.think, o.display = think, display }
}

// WithTTL sets how long persisted values live.
func WithTTL(ttl time.Duration) Option { return func(o *options) { o.ttl = ttl } }

// Service is the surface the presentation layer talks to. Every mutation is
// persisted explicitly and its feedback published on the bus.
type Service struct {
	// mu orders writes to the jar. Rounds resolve on timer goroutines, so a
	// save must never land after a newer one.
	mu sync.Mutex

	store   *Store
	persist *Persistence
	game    *Minigame
	bus     *Bus
	logger  *log.Logger
	now     func() time.Time
	policy  ResetPolicy
}

func NewService(jar storage.Jar, opts ...Option) *Service {
	o := options{
		sched:   RealScheduler{},
		think:   DefaultThinkDelay,
		display: DefaultDisplayDelay,
		ttl:     storage.DefaultTTL,
		policy:  ResetRelock,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard, "", 0)
	}
	if o.picker == nil {
		o.picker = NewRandomPicker(random.Source())
	}

	store := NewStore()
	persist := NewPersistence(jar, o.logger)
	persist.ttl = o.ttl
	persist.now = o.now

	game := NewMinigame(store, o.picker, o.sched)
	game.now = o.now
	game.SetDelays(o.think, o.display)

	return &Service{
		store:   store,
		persist: persist,
		game:    game,
		bus:     NewBus(),
		logger:  o.logger,
		now:     o.now,
		policy:  o.policy,
	}
}

func (s *Service) Store() *Store              { return s.store }
func (s *Service) Persistence() *Persistence { return s.persist }
func (s *Service) Minigame() *Minigame        { return s.game }
func (s *Service) ResetPolicy() ResetPolicy   { return s.policy }

// Subscribe registers fn for engine events.
func (s *Service) Subscribe(fn func(Event)) (cancel func()) {
	return s.bus.Subscribe(fn)
}

// Load hydrates the store from the jar.
func (s *Service) Load(ctx context.Context) LoadReport {
	return s.persist.Load(ctx, s.store)
}

func (s *Service) Snapshot() Progress          { return s.store.Snapshot() }
func (s *Service) Stats() GameStats            { return s.store.Stats() }
func (s *Service) Achievements() []Achievement { return s.store.Achievements() }
func (s *Service) Favorites() FavoriteSet      { return s.store.Favorites() }
func (s *Service) Messages() MessageLog        { return s.store.Messages() }
func (s *Service) Canvas() PixelCanvas         { return s.store.Canvas() }
func (s *Service) Consent() ConsentState       { return s.store.Consent() }
func (s *Service) WinStreak() int              { return s.store.WinStreak() }

// commit persists the fields c touched and publishes derived events. The
// values written come from the store as it is now, not from c.After, which a
// later mutation may already have superseded.
func (s *Service) commit(ctx context.Context, c Change, extra ...Event) {
	if !c.Empty() {
		s.mu.Lock()
		err := s.persist.SaveFields(ctx, c.Fields, s.store.Snapshot())
		s.mu.Unlock()
		if err != nil {
			s.logger.Printf("persistence: %v", err)
		}
	}
	events := append(extra, eventsForChange(c, s.now())...)
	s.bus.Publish(events...)
}

// ToggleFavorite flips name in the favorites and reports whether it is now a
// favorite. A blank name is a no-op.
func (s *Service) ToggleFavorite(ctx context.Context, name string) bool {
	c, added := s.store.ToggleFavorite(name)
	if c.Empty() {
		return false
	}
	s.commit(ctx, c, Event{
		Kind:      EventFavoriteToggled,
		At:        s.now(),
		Name:      strings.TrimSpace(name),
		Favorited: added,
	})
	return added
}

// SendMessage logs text for to. It reports false, doing nothing, when either
// is blank.
func (s *Service) SendMessage(ctx context.Context, to, text string) bool {
	c := s.store.SendMessage(to, text)
	if c.Empty() {
		return false
	}
	s.commit(ctx, c, Event{Kind: EventMessageSent, At: s.now(), Name: strings.TrimSpace(to)})
	return true
}

func (s *Service) Paint(ctx context.Context, row, col int, color string) error {
	c, err := s.store.Paint(row, col, color)
	if err != nil {
		return err
	}
	s.commit(ctx, c)
	return nil
}

func (s *Service) ClearCanvas(ctx context.Context) {
	s.commit(ctx, s.store.ClearCanvas())
}

func (s *Service) VisitPrivacy(ctx context.Context) {
	s.commit(ctx, s.store.VisitPrivacy())
}

func (s *Service) AcceptPrivacy(ctx context.Context) {
	s.commit(ctx, s.store.AcceptPrivacy())
}

type ItemUse struct {
	Item   Item
	Reward Reward
}

// UseItem grants the item's XP and runs the level-up check.
func (s *Service) UseItem(ctx context.Context, id string) (ItemUse, error) {
	it, ok := LookupItem(id)
	if !ok {
		return ItemUse{}, fmt.Errorf("%w: %q", ErrUnknownItem, id)
	}
	c, r := s.store.GrantXP(it.UseXP)
	s.commit(ctx, c, Event{Kind: EventItemUsed, At: s.now(), Item: it})
	return ItemUse{Item: it, Reward: r}, nil
}

// Play starts a minigame round. It reports false while another round is in
// flight or when choice is invalid.
func (s *Service) Play(ctx context.Context, choice Choice) bool {
	return s.play(ctx, choice, nil)
}

func (s *Service) play(ctx context.Context, choice Choice, then func(Round)) bool {
	// Resolution fires from a timer, after the caller may have returned.
	ctx = context.WithoutCancel(ctx)
	think, ok := s.game.Commit(choice, func(r Round, c Change) {
		s.commit(ctx, c, Event{Kind: EventRoundResolved, At: s.now(), Round: r})
		if then != nil {
			then(r)
		}
	})
	if !ok {
		return false
	}
	r, _ := s.game.Current()
	s.bus.Publish(Event{Kind: EventRoundStarted, At: s.now(), Round: r})
	s.game.Schedule(think)
	return true
}

// PlayAndWait plays a round and blocks until it resolves.
func (s *Service) PlayAndWait(ctx context.Context, choice Choice) (Round, error) {
	if !choice.IsValid() {
		return Round{}, ErrUnknownChoice
	}
	done := make(chan Round, 1)
	if !s.play(ctx, choice, func(r Round) { done <- r }) {
		return Round{}, ErrRoundInProgress
	}
	select {
	case r := <-done:
		return r, nil
	case <-ctx.Done():
		return Round{}, ctx.Err()
	}
}

// ResetAll wipes persisted progress and restores defaults.
func (s *Service) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	c, err := s.persist.ResetAll(ctx, s.store, s.policy)
	s.mu.Unlock()
	events := []Event{{Kind: EventProgressReset, At: s.now()}}
	for _, a := range c.Achievements.Unlocked {
		events = append(events, Event{Kind: EventAchievementUnlocked, At: s.now(), Achievement: a})
	}
	for _, a := range c.Achievements.Locked {
		events = append(events, Event{Kind: EventAchievementLocked, At: s.now(), Achievement: a})
	}
	s.bus.Publish(events...)
	return err
}
