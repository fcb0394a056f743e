package engine

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Choice string

const (
	ChoiceRock     Choice = "rock"
	ChoicePaper    Choice = "paper"
	ChoiceScissors Choice = "scissors"
)

func Choices() []Choice { return []Choice{ChoiceRock, ChoicePaper, ChoiceScissors} }

func (c Choice) IsValid() bool {
	switch c {
	case ChoiceRock, ChoicePaper, ChoiceScissors:
		return true
	default:
		return false
	}
}

// Beats reports cyclic dominance: rock > scissors > paper > rock.
func (c Choice) Beats(o Choice) bool {
	switch c {
	case ChoiceRock:
		return o == ChoiceScissors
	case ChoiceScissors:
		return o == ChoicePaper
	case ChoicePaper:
		return o == ChoiceRock
	default:
		return false
	}
}

// ParseChoice accepts full names and the r/p/s shorthands.
func ParseChoice(input string) (Choice, error) {
	switch strings.TrimSpace(strings.ToLower(input)) {
	case "rock", "r":
		return ChoiceRock, nil
	case "paper", "p":
		return ChoicePaper, nil
	case "scissors", "s":
		return ChoiceScissors, nil
	default:
		return "", ErrUnknownChoice
	}
}

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeDraw Outcome = "draw"
)

func Decide(player, computer Choice) Outcome {
	switch {
	case player == computer:
		return OutcomeDraw
	case player.Beats(computer):
		return OutcomeWin
	default:
		return OutcomeLose
	}
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCommitted
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseCommitted:
		return "committed"
	case PhaseResolved:
		return "resolved"
	default:
		return "idle"
	}
}

// Picker draws the computer's choice.
type Picker interface {
	Pick() Choice
}

type PickerFunc func() Choice

func (f PickerFunc) Pick() Choice { return f() }

// FixedPicker always answers c.
func FixedPicker(c Choice) Picker {
	return PickerFunc(func() Choice { return c })
}

type randomPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPicker draws uniformly from the three choices using src.
func NewRandomPicker(src rand.Source) Picker {
	return &randomPicker{rng: rand.New(src)}
}

func (p *randomPicker) Pick() Choice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Choices()[p.rng.IntN(3)]
}

// Round is one minigame round from commit to resolution.
type Round struct {
	ID           uuid.UUID `json:"id"`
	Player       Choice    `json:"player"`
	Computer     Choice    `json:"computer,omitempty"`
	Outcome      Outcome   `json:"outcome,omitempty"`
	StreakBefore int       `json:"streakBefore"`
	Reward       Reward    `json:"reward"`
	Stats        GameStats `json:"stats"`
	StartedAt    time.Time `json:"startedAt"`
	ResolvedAt   time.Time `json:"resolvedAt"`
}

func (r Round) Resolved() bool { return r.Outcome != "" }

const (
	DefaultThinkDelay   = time.Second
	DefaultDisplayDelay = 2 * time.Second
)

// Minigame is the rock-paper-scissors state machine:
// Idle -> Committed -> Resolved -> Idle. Input outside Idle is rejected.
type Minigame struct {
	mu      sync.Mutex
	store   *Store
	picker  Picker
	sched   Scheduler
	now     func() time.Time
	think   time.Duration
	display time.Duration

	phase   Phase
	round   Round
	hasLast bool
	done    func(Round, Change)
}

func NewMinigame(store *Store, picker Picker, sched Scheduler) *Minigame {
	if sched == nil {
		sched = RealScheduler{}
	}
	return &Minigame{
		store:   store,
		picker:  picker,
		sched:   sched,
		now:     time.Now,
		think:   DefaultThinkDelay,
		display: DefaultDisplayDelay,
	}
}

// SetDelays tunes the thinking and display delays.
func (g *Minigame) SetDelays(think, display time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.think, g.display = think, display
}

func (g *Minigame) Delays() (think, display time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.think, g.display
}

func (g *Minigame) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Current returns the in-flight round, or the last one when idle.
func (g *Minigame) Current() (Round, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.round, g.hasLast
}

// Schedule arranges Resolve after think and Finish after the display delay.
func (g *Minigame) Schedule(think time.Duration) {
	g.sched.AfterFunc(think, func() {
		if _, ok := g.Resolve(); !ok {
			return
		}
		_, display := g.Delays()
		g.sched.AfterFunc(display, g.Finish)
	})
}

// Commit moves Idle -> Committed and returns the thinking delay to wait
// before Resolve.
func (g *Minigame) Commit(choice Choice, done func(Round, Change)) (time.Duration, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseIdle || !choice.IsValid() {
		return 0, false
	}
	g.phase = PhaseCommitted
	g.round = Round{
		ID:           uuid.New(),
		Player:       choice,
		StreakBefore: g.store.WinStreak(),
		StartedAt:    g.now(),
	}
	g.hasLast = true
	g.done = done
	return g.think, true
}

// Resolve draws the computer choice and books the outcome.
func (g *Minigame) Resolve() (Round, bool) {
	g.mu.Lock()
	if g.phase != PhaseCommitted {
		g.mu.Unlock()
		return Round{}, false
	}
	r := g.round
	r.Computer = g.picker.Pick()
	r.Outcome = Decide(r.Player, r.Computer)
	change, reward := g.store.ApplyOutcome(r.Outcome)
	r.Reward = reward
	r.Stats = g.store.Stats()
	r.ResolvedAt = g.now()
	g.round = r
	g.phase = PhaseResolved
	done := g.done
	g.done = nil
	g.mu.Unlock()

	if done != nil {
		done(r, change)
	}
	return r, true
}

// Finish returns a resolved round to Idle.
func (g *Minigame) Finish() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == PhaseResolved {
		g.phase = PhaseIdle
	}
}
