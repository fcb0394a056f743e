package web

import (
	"github.com/SicilyCialo/kannacs/internal/engine"
)

type progressView struct {
	Stats        engine.GameStats     `json:"gameStats"`
	Favorites    []string             `json:"favoriteWaifus"`
	Messages     engine.MessageLog    `json:"sentMessages"`
	Canvas       engine.PixelCanvas   `json:"pixelCanvas"`
	Consent      engine.ConsentState  `json:"consent"`
	Achievements []engine.Achievement `json:"achievements"`
	Unlocked     int                  `json:"achievementsUnlocked"`
	WinStreak    int                  `json:"winStreak"`
}

func newProgressView(p engine.Progress) progressView {
	favs := append([]string{}, p.Favorites...)
	msgs := p.Messages
	if msgs == nil {
		msgs = engine.MessageLog{}
	}
	return progressView{
		Stats:        p.Stats,
		Favorites:    favs,
		Messages:     msgs,
		Canvas:       p.Canvas,
		Consent:      p.Consent,
		Achievements: p.Achievements,
		Unlocked:     engine.CountEarned(p.Achievements),
		WinStreak:    p.WinStreak,
	}
}

// eventView is a toast the client should show.
type eventView struct {
	Kind        engine.EventKind    `json:"kind"`
	Achievement *engine.Achievement `json:"achievement,omitempty"`
	Level       int                 `json:"level,omitempty"`
	Name        string              `json:"name,omitempty"`
	Item        string              `json:"item,omitempty"`
}

func newEventView(e engine.Event) eventView {
	v := eventView{Kind: e.Kind, Level: e.Level, Name: e.Name, Item: e.Item.ID}
	if e.Achievement.ID != "" {
		a := e.Achievement
		v.Achievement = &a
	}
	return v
}

type actionResponse struct {
	Progress  progressView   `json:"progress"`
	Events    []eventView    `json:"events"`
	Round     *engine.Round  `json:"round,omitempty"`
	Reward    *engine.Reward `json:"reward,omitempty"`
	Item      *engine.Item   `json:"item,omitempty"`
	Favorited *bool          `json:"favorited,omitempty"`
}
