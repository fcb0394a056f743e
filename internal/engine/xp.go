package engine

const (
	// WinXP and LoseXP are the flat minigame awards.
	WinXP  = 50
	LoseXP = 15

	// StreakBonusThreshold is the streak a player must already hold before a
	// win earns StreakBonusXP per streak step.
	StreakBonusThreshold = 3
	StreakBonusXP        = 25

	// LevelXPIncrement is added to NextLevelXP on every level-up.
	LevelXPIncrement = 500
)

func clampXP(xp, max int) int {
	if xp < 0 {
		return 0
	}
	if xp > max {
		return max
	}
	return xp
}

// addXP grants amount, clamped to NextLevelXP.
func addXP(g GameStats, amount int) GameStats {
	g.Experience = clampXP(g.Experience+amount, g.NextLevelXP)
	return g
}

// levelUp applies a single level-up when the bar is full.
func levelUp(g GameStats) (GameStats, bool) {
	if g.Experience < g.NextLevelXP {
		return g, false
	}
	g.Level++
	g.Experience = 0
	g.NextLevelXP += LevelXPIncrement
	return g, true
}

// StreakBonus returns the extra XP a win earns given the streak held before it.
func StreakBonus(streakBefore int) int {
	if streakBefore < StreakBonusThreshold {
		return 0
	}
	return StreakBonusXP * streakBefore
}

// Reward summarizes what an outcome did to the stats.
type Reward struct {
	BaseXP      int  `json:"baseXp"`
	BonusXP     int  `json:"bonusXp"`
	XPGained    int  `json:"xpGained"` // after clamping
	StreakAfter int  `json:"streakAfter"`
	LevelUp     bool `json:"levelUp"`
}

// ApplyOutcome returns the stats and streak after an outcome.
func ApplyOutcome(g GameStats, streak int, o Outcome) (GameStats, Reward) {
	g = g.normalize()
	before := g.Experience
	r := Reward{StreakAfter: streak}

	switch o {
	case OutcomeWin:
		g.Wins++
		r.BaseXP = WinXP
		g = addXP(g, WinXP)
		r.BonusXP = StreakBonus(streak)
		if r.BonusXP > 0 {
			g = addXP(g, r.BonusXP)
		}
		r.StreakAfter = streak + 1
	case OutcomeLose:
		g.Losses++
		r.BaseXP = LoseXP
		g = addXP(g, LoseXP)
		r.StreakAfter = 0
	}

	// Draws fall through too: a full bar levels up after any outcome.
	r.XPGained = g.Experience - before
	g, r.LevelUp = levelUp(g)
	return g, r
}

// GrantXP adds a non-minigame award and applies the level-up check.
func GrantXP(g GameStats, amount int) (GameStats, Reward) {
	g = g.normalize()
	before := g.Experience
	g = addXP(g, amount)
	r := Reward{BaseXP: amount, XPGained: g.Experience - before}
	g, r.LevelUp = levelUp(g)
	return g, r
}
