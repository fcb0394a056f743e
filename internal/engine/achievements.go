package engine

// Stable achievement ids. Never reuse one for a different meaning.
const (
	AchievementFirstVictory     = "first-victory"
	AchievementCollector        = "collector"
	AchievementSocialButterfly  = "social-butterfly"
	AchievementDedicatedGamer   = "dedicated-gamer"
	AchievementPrivacyConscious = "privacy-conscious"
)

const (
	CollectorThreshold       = 3
	SocialButterflyThreshold = 3
	DedicatedGamerLevel      = 5
)

// Achievement represents a badge the player can earn.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
}

// Catalogue returns the fixed, ordered achievement list, all locked.
func Catalogue() []Achievement {
	return []Achievement{
		{ID: AchievementFirstVictory, Title: "First Victory", Description: "Win your first online match", Icon: "🏆"},
		{ID: AchievementCollector, Title: "Collector", Description: "Add 3 waifus to your favorites", Icon: "❤️"},
		{ID: AchievementSocialButterfly, Title: "Social Butterfly", Description: "Send messages to all your waifus", Icon: "✉️"},
		{ID: AchievementDedicatedGamer, Title: "Dedicated Gamer", Description: "Reach level 5", Icon: "🎮"},
		{ID: AchievementPrivacyConscious, Title: "Privacy Conscious", Description: "Agree to privacy and policy", Icon: "🔒"},
	}
}

// Watched is the subset of progress the evaluator reads.
type Watched struct {
	Wins           int
	Level          int
	Favorites      int
	Recipients     int
	PrivacyVisited bool
}

func watchedOf(p Progress) Watched {
	return Watched{
		Wins:           p.Stats.Wins,
		Level:          p.Stats.Level,
		Favorites:      p.Favorites.Len(),
		Recipients:     p.Messages.Recipients(),
		PrivacyVisited: p.Consent.PrivacyVisited,
	}
}

// AchievementChecker calculates which achievements the player has earned.
type AchievementChecker struct {
	w Watched
}

func NewAchievementChecker(p Progress) *AchievementChecker {
	return &AchievementChecker{w: watchedOf(p)}
}

// Earned reports whether the rule for id holds. Unknown ids are never earned.
func (c *AchievementChecker) Earned(id string) bool {
	switch id {
	case AchievementFirstVictory:
		return c.w.Wins > 0
	case AchievementCollector:
		return c.w.Favorites >= CollectorThreshold
	case AchievementSocialButterfly:
		return c.w.Recipients >= SocialButterflyThreshold
	case AchievementDedicatedGamer:
		return c.w.Level >= DedicatedGamerLevel
	case AchievementPrivacyConscious:
		return c.w.PrivacyVisited
	default:
		return false
	}
}

// GetAchievements returns the catalogue with its unlocked status.
func (c *AchievementChecker) GetAchievements() []Achievement {
	achievements := Catalogue()
	for i := range achievements {
		achievements[i].Unlocked = c.Earned(achievements[i].ID)
	}
	return achievements
}

// CountEarned returns how many achievements are unlocked in list.
func CountEarned(list []Achievement) int {
	count := 0
	for _, a := range list {
		if a.Unlocked {
			count++
		}
	}
	return count
}

// Evaluate is the pure evaluator: same progress, same answer.
func Evaluate(p Progress) []Achievement {
	return NewAchievementChecker(p).GetAchievements()
}

// AchievementDiff is the set of flags that flipped between two evaluations.
type AchievementDiff struct {
	Unlocked []Achievement
	Locked   []Achievement
}

func (d AchievementDiff) Empty() bool { return len(d.Unlocked) == 0 && len(d.Locked) == 0 }

func diffAchievements(before, after []Achievement) AchievementDiff {
	prev := make(map[string]bool, len(before))
	for _, a := range before {
		prev[a.ID] = a.Unlocked
	}
	var d AchievementDiff
	for _, a := range after {
		was := prev[a.ID]
		switch {
		case a.Unlocked && !was:
			d.Unlocked = append(d.Unlocked, a)
		case !a.Unlocked && was:
			d.Locked = append(d.Locked, a)
		}
	}
	return d
}

func achievementsEqual(a, b []Achievement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
