package engine

import (
	"context"
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"
	"time"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		player, computer Choice
		want             Outcome
	}{
		{ChoiceRock, ChoiceRock, OutcomeDraw},
		{ChoiceRock, ChoicePaper, OutcomeLose},
		{ChoiceRock, ChoiceScissors, OutcomeWin},
		{ChoicePaper, ChoiceRock, OutcomeWin},
		{ChoicePaper, ChoicePaper, OutcomeDraw},
		{ChoicePaper, ChoiceScissors, OutcomeLose},
		{ChoiceScissors, ChoiceRock, OutcomeLose},
		{ChoiceScissors, ChoicePaper, OutcomeWin},
		{ChoiceScissors, ChoiceScissors, OutcomeDraw},
	}
	for _, tc := range cases {
		if got := Decide(tc.player, tc.computer); got != tc.want {
			t.Fatalf("Decide(%s, %s)=%s, want %s", tc.player, tc.computer, got, tc.want)
		}
	}
}

func TestParseChoice(t *testing.T) {
	for in, want := range map[string]Choice{"rock": ChoiceRock, " R ": ChoiceRock, "Paper": ChoicePaper, "s": ChoiceScissors} {
		got, err := ParseChoice(in)
		if err != nil || got != want {
			t.Fatalf("ParseChoice(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ParseChoice("lizard"); !errors.Is(err, ErrUnknownChoice) {
		t.Fatalf("ParseChoice(lizard) err=%v, want ErrUnknownChoice", err)
	}
}

func TestFirstWinUnlocksFirstVictory(t *testing.T) {
	sched := &manualScheduler{}
	svc, _ := newTestService(t, WithScheduler(sched), WithDelays(time.Second, 2*time.Second))
	ctx := context.Background()

	var events []Event
	svc.Subscribe(func(e Event) { events = append(events, e) })

	if !svc.Play(ctx, ChoiceRock) {
		t.Fatalf("expected round to start")
	}
	if got := svc.Minigame().Phase(); got != PhaseCommitted {
		t.Fatalf("phase=%s, want committed", got)
	}

	sched.Advance(999 * time.Millisecond)
	if svc.Stats().Wins != 0 {
		t.Fatalf("outcome revealed before the thinking delay")
	}
	if svc.Play(ctx, ChoicePaper) {
		t.Fatalf("expected input to be rejected while committed")
	}

	sched.Advance(time.Millisecond)
	if got := svc.Minigame().Phase(); got != PhaseResolved {
		t.Fatalf("phase=%s, want resolved", got)
	}
	r, _ := svc.Minigame().Current()
	if r.Outcome != OutcomeWin || r.Computer != ChoiceScissors {
		t.Fatalf("round=%+v, want win vs scissors", r)
	}
	st := svc.Stats()
	if st.Wins != 1 || st.Experience != 50 {
		t.Fatalf("stats=%+v, want wins=1 experience=50", st)
	}
	if svc.WinStreak() != 1 {
		t.Fatalf("streak=%d, want 1", svc.WinStreak())
	}
	if !achievement(t, svc.Achievements(), AchievementFirstVictory).Unlocked {
		t.Fatalf("expected first-victory unlocked")
	}
	if svc.Play(ctx, ChoicePaper) {
		t.Fatalf("expected input to be rejected while the result is shown")
	}

	sched.Advance(2 * time.Second)
	if got := svc.Minigame().Phase(); got != PhaseIdle {
		t.Fatalf("phase=%s, want idle", got)
	}

	want := []EventKind{EventRoundStarted, EventRoundResolved, EventAchievementUnlocked}
	if got := eventKinds(events); !reflect.DeepEqual(got, want) {
		t.Fatalf("events=%v, want %v", got, want)
	}
}

func TestStreakBonus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	setStreak(t, svc, 3)

	r, err := svc.PlayAndWait(ctx, ChoiceRock)
	if err != nil {
		t.Fatalf("PlayAndWait: %v", err)
	}
	if r.Reward.BaseXP != 50 || r.Reward.BonusXP != 75 || r.Reward.XPGained != 125 {
		t.Fatalf("reward=%+v, want 50 + 75 bonus", r.Reward)
	}
	if svc.Stats().Experience != 125 || svc.WinStreak() != 4 {
		t.Fatalf("experience=%d streak=%d, want 125 and 4", svc.Stats().Experience, svc.WinStreak())
	}
}

func TestNoBonusBelowThreshold(t *testing.T) {
	svc, _ := newTestService(t)
	setStreak(t, svc, 2)

	r, err := svc.PlayAndWait(context.Background(), ChoiceRock)
	if err != nil {
		t.Fatalf("PlayAndWait: %v", err)
	}
	if r.Reward.BonusXP != 0 || svc.Stats().Experience != 50 {
		t.Fatalf("reward=%+v experience=%d, want no bonus", r.Reward, svc.Stats().Experience)
	}
}

func TestWinTriggersLevelUp(t *testing.T) {
	svc, _ := newTestService(t)
	setStats(t, svc, func(g *GameStats) { g.Experience = 480 })

	r, err := svc.PlayAndWait(context.Background(), ChoiceRock)
	if err != nil {
		t.Fatalf("PlayAndWait: %v", err)
	}
	if !r.Reward.LevelUp || r.Reward.XPGained != 20 {
		t.Fatalf("reward=%+v, want clamped +20 and level up", r.Reward)
	}
	st := svc.Stats()
	if st.Level != 1 || st.Experience != 0 || st.NextLevelXP != 1000 {
		t.Fatalf("stats=%+v, want level 1, xp 0/1000", st)
	}
}

func TestLoseAndDraw(t *testing.T) {
	svc, _ := newTestService(t, WithPicker(FixedPicker(ChoicePaper)))
	ctx := context.Background()
	setStreak(t, svc, 2)

	if _, err := svc.PlayAndWait(ctx, ChoiceRock); err != nil {
		t.Fatalf("PlayAndWait lose: %v", err)
	}
	st := svc.Stats()
	if st.Losses != 1 || st.Experience != 15 || svc.WinStreak() != 0 {
		t.Fatalf("after loss stats=%+v streak=%d", st, svc.WinStreak())
	}

	setStreak(t, svc, 2)
	before := svc.Stats()
	r, err := svc.PlayAndWait(ctx, ChoicePaper)
	if err != nil {
		t.Fatalf("PlayAndWait draw: %v", err)
	}
	if r.Outcome != OutcomeDraw {
		t.Fatalf("outcome=%s, want draw", r.Outcome)
	}
	if svc.Stats() != before || svc.WinStreak() != 2 {
		t.Fatalf("draw changed stats=%+v streak=%d", svc.Stats(), svc.WinStreak())
	}

	setStats(t, svc, func(g *GameStats) { g.Experience = g.NextLevelXP })
	r, err = svc.PlayAndWait(ctx, ChoicePaper)
	if err != nil {
		t.Fatalf("PlayAndWait draw at full bar: %v", err)
	}
	if r.Outcome != OutcomeDraw || !r.Reward.LevelUp || r.Reward.XPGained != 0 {
		t.Fatalf("round=%+v, want draw with level up and no xp", r)
	}
	st = svc.Stats()
	if st.Level != before.Level+1 || st.Experience != 0 || st.NextLevelXP != before.NextLevelXP+LevelXPIncrement {
		t.Fatalf("after draw at full bar stats=%+v", st)
	}
	if svc.WinStreak() != 2 {
		t.Fatalf("streak=%d, want 2", svc.WinStreak())
	}
}

func TestExperienceNeverExceedsNextLevel(t *testing.T) {
	for xp := 0; xp <= 500; xp += 7 {
		for streak := 0; streak <= 6; streak++ {
			for _, o := range []Outcome{OutcomeWin, OutcomeLose, OutcomeDraw} {
				g := DefaultGameStats()
				g.Experience = xp
				next, r := ApplyOutcome(g, streak, o)
				if xp+r.XPGained > g.NextLevelXP {
					t.Fatalf("xp=%d streak=%d %s: gained %d overshoots %d", xp, streak, o, r.XPGained, g.NextLevelXP)
				}
				if next.Experience > next.NextLevelXP {
					t.Fatalf("xp=%d streak=%d %s: experience %d > %d", xp, streak, o, next.Experience, next.NextLevelXP)
				}
				if r.LevelUp && (next.Experience != 0 || next.Level != 1) {
					t.Fatalf("level up left stats=%+v", next)
				}
			}
		}
	}
}

func TestPlayAndWaitRejectsInFlightRound(t *testing.T) {
	sched := &manualScheduler{}
	svc, _ := newTestService(t, WithScheduler(sched))
	ctx := context.Background()

	if !svc.Play(ctx, ChoiceRock) {
		t.Fatalf("expected first round to start")
	}
	if _, err := svc.PlayAndWait(ctx, ChoicePaper); !errors.Is(err, ErrRoundInProgress) {
		t.Fatalf("err=%v, want ErrRoundInProgress", err)
	}
	if _, err := svc.PlayAndWait(ctx, Choice("lizard")); !errors.Is(err, ErrUnknownChoice) {
		t.Fatalf("err=%v, want ErrUnknownChoice", err)
	}
}

func TestPlayAndWaitHonorsContext(t *testing.T) {
	svc, _ := newTestService(t, WithScheduler(&manualScheduler{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.PlayAndWait(ctx, ChoiceRock); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}

func TestRandomPickerCoversAllChoices(t *testing.T) {
	p := NewRandomPicker(rand.NewPCG(42, 1024))
	counts := map[Choice]int{}
	for i := 0; i < 3000; i++ {
		counts[p.Pick()]++
	}
	for _, c := range Choices() {
		if counts[c] < 800 {
			t.Fatalf("choice %s drawn %d/3000 times", c, counts[c])
		}
	}
}
