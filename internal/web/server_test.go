package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SicilyCialo/kannacs/internal/engine"
	"github.com/SicilyCialo/kannacs/internal/storage"
)

var testNow = time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)

// browser replays cookies between requests the way a browser would.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, opts Options) *browser {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Picker == nil {
		opts.Picker = engine.FixedPicker(engine.ChoiceScissors)
	}
	opts.Now = func() time.Time { return testNow }
	return &browser{t: t, handler: NewServer(opts).Routes(), cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, body any) *httptest.ResponseRecorder {
	b.t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			b.t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) action(method, path string, body any) actionResponse {
	b.t.Helper()
	rec := b.do(method, path, body)
	if rec.Code != http.StatusOK {
		b.t.Fatalf("%s %s: status=%d body=%s", method, path, rec.Code, rec.Body.String())
	}
	var resp actionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		b.t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp
}

func hasUnlock(events []eventView, id string) bool {
	for _, e := range events {
		if e.Kind == engine.EventAchievementUnlocked && e.Achievement != nil && e.Achievement.ID == id {
			return true
		}
	}
	return false
}

func TestHealth(t *testing.T) {
	b := newBrowser(t, Options{})
	rec := b.do(http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("content-type=%q", rec.Header().Get("Content-Type"))
	}
}

func TestPlayPersistsInCookies(t *testing.T) {
	b := newBrowser(t, Options{})

	resp := b.action(http.MethodPost, "/api/minigame/rock", nil)
	if resp.Round == nil || resp.Round.Outcome != engine.OutcomeWin {
		t.Fatalf("round=%+v, want win", resp.Round)
	}
	if resp.Progress.Stats.Experience != 50 || resp.Progress.WinStreak != 1 {
		t.Fatalf("progress=%+v", resp.Progress)
	}
	if !hasUnlock(resp.Events, engine.AchievementFirstVictory) {
		t.Fatalf("events=%+v, want first-victory unlock", resp.Events)
	}

	c, ok := b.cookies[storage.KeyGameStats]
	if !ok {
		t.Fatalf("gameStats cookie not set")
	}
	if c.Path != "/" || c.SameSite != http.SameSiteLaxMode || c.MaxAge != int(storage.DefaultTTL/time.Second) {
		t.Fatalf("cookie attrs path=%q samesite=%v maxage=%d", c.Path, c.SameSite, c.MaxAge)
	}

	rec := b.do(http.MethodGet, "/api/progress", nil)
	var p progressView
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode progress: %v", err)
	}
	if p.Stats.Wins != 1 || p.Unlocked != 1 {
		t.Fatalf("reloaded progress=%+v", p)
	}
}

func TestFavoritesUnlockCollector(t *testing.T) {
	b := newBrowser(t, Options{})
	b.action(http.MethodPost, "/api/favorites/Chiffon", nil)
	b.action(http.MethodPost, "/api/favorites/Akizuki%20Kanna", nil)
	resp := b.action(http.MethodPost, "/api/favorites/Segawa%20Emi", nil)

	if resp.Favorited == nil || !*resp.Favorited {
		t.Fatalf("favorited=%v", resp.Favorited)
	}
	if !hasUnlock(resp.Events, engine.AchievementCollector) {
		t.Fatalf("events=%+v, want collector unlock", resp.Events)
	}

	resp = b.action(http.MethodPost, "/api/favorites/Chiffon", nil)
	if *resp.Favorited || len(resp.Progress.Favorites) != 2 {
		t.Fatalf("toggle off failed: %+v", resp.Progress.Favorites)
	}
}

func TestMessages(t *testing.T) {
	b := newBrowser(t, Options{})
	resp := b.action(http.MethodPost, "/api/messages/Chiffon", messageRequest{Text: "nya"})
	if got := resp.Progress.Messages["Chiffon"]; len(got) != 1 || got[0] != "nya" {
		t.Fatalf("messages=%v", resp.Progress.Messages)
	}

	rec := b.do(http.MethodPost, "/api/messages/Chiffon", messageRequest{Text: "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank text status=%d", rec.Code)
	}
}

func TestPaintValidation(t *testing.T) {
	b := newBrowser(t, Options{})

	cases := []struct {
		path  string
		color string
	}{
		{"/api/canvas/8/0", "#ffffff"},
		{"/api/canvas/x/0", "#ffffff"},
		{"/api/canvas/0/0", "blue"},
	}
	for _, tc := range cases {
		rec := b.do(http.MethodPut, tc.path, paintRequest{Color: tc.color})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s %s: status=%d", tc.path, tc.color, rec.Code)
		}
		var apiErr APIError
		if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil || apiErr.Type != ErrTypeValidation {
			t.Fatalf("error body=%s", rec.Body.String())
		}
	}

	resp := b.action(http.MethodPut, "/api/canvas/2/7", paintRequest{Color: "#FFEC27"})
	if resp.Progress.Canvas[2][7] != "#ffec27" {
		t.Fatalf("cell=%q", resp.Progress.Canvas[2][7])
	}
	resp = b.action(http.MethodDelete, "/api/canvas", nil)
	if resp.Progress.Canvas != engine.BlankCanvas() {
		t.Fatalf("canvas not cleared")
	}
}

func TestErrorStatuses(t *testing.T) {
	b := newBrowser(t, Options{})
	if rec := b.do(http.MethodPost, "/api/minigame/lizard", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown choice status=%d", rec.Code)
	}
	if rec := b.do(http.MethodPost, "/api/items/excalibur/use", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown item status=%d", rec.Code)
	}
}

func TestUseItemAndPrivacy(t *testing.T) {
	b := newBrowser(t, Options{})
	resp := b.action(http.MethodPost, "/api/items/game-cartridge/use", nil)
	if resp.Reward == nil || resp.Reward.XPGained != 15 || resp.Item == nil || resp.Item.ID != "game-cartridge" {
		t.Fatalf("reward=%+v item=%+v", resp.Reward, resp.Item)
	}

	resp = b.action(http.MethodPost, "/api/privacy/visit", nil)
	if !hasUnlock(resp.Events, engine.AchievementPrivacyConscious) {
		t.Fatalf("events=%+v", resp.Events)
	}
	if _, ok := b.cookies[storage.KeyPrivacyAccepted]; ok {
		t.Fatalf("privacyAccepted set before accept")
	}
	resp = b.action(http.MethodPost, "/api/privacy/accept", nil)
	if !resp.Progress.Consent.PrivacyAccepted {
		t.Fatalf("consent=%+v", resp.Progress.Consent)
	}
	if _, ok := b.cookies[storage.KeyPrivacyAccepted]; !ok {
		t.Fatalf("privacyAccepted cookie missing")
	}
}

func TestResetClearsCookies(t *testing.T) {
	b := newBrowser(t, Options{})
	b.action(http.MethodPost, "/api/minigame/rock", nil)
	b.action(http.MethodPost, "/api/favorites/Chiffon", nil)

	resp := b.action(http.MethodDelete, "/api/progress", nil)
	if len(b.cookies) != 0 {
		t.Fatalf("cookies left after reset: %v", b.cookies)
	}
	if resp.Progress.Stats != engine.DefaultGameStats() || resp.Progress.Unlocked != 0 {
		t.Fatalf("progress=%+v", resp.Progress)
	}
}

func TestCorruptCookieFallsBack(t *testing.T) {
	b := newBrowser(t, Options{})
	b.cookies[storage.KeyGameStats] = &http.Cookie{Name: storage.KeyGameStats, Value: "%7Bbroken"}
	b.cookies[storage.KeyFavoriteWaifus] = &http.Cookie{Name: storage.KeyFavoriteWaifus, Value: "%5B%22Chiffon%22%5D"}

	rec := b.do(http.MethodGet, "/api/progress", nil)
	var p progressView
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Stats != engine.DefaultGameStats() {
		t.Fatalf("stats=%+v, want defaults", p.Stats)
	}
	if len(p.Favorites) != 1 || p.Favorites[0] != "Chiffon" {
		t.Fatalf("favorites=%v", p.Favorites)
	}
}

func TestRequestJarSeesOwnWrites(t *testing.T) {
	ctx := context.Background()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "a", Value: "old"})
	jar := NewRequestJar(rec, req, true)
	jar.now = func() time.Time { return testNow }

	if v, ok, _ := jar.Get(ctx, "a"); !ok || v != "old" {
		t.Fatalf("get a=%q ok=%v", v, ok)
	}
	if err := jar.Set(ctx, "a", `{"x": 1}`, testNow.Add(time.Hour)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _, _ := jar.Get(ctx, "a"); v != `{"x": 1}` {
		t.Fatalf("overlay value=%q", v)
	}
	if err := jar.Remove(ctx, "a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := jar.Get(ctx, "a"); ok {
		t.Fatalf("removed cookie still visible")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 || !cookies[0].Secure || cookies[0].MaxAge != 3600 || cookies[1].MaxAge != -1 {
		t.Fatalf("set-cookie headers=%+v", cookies)
	}
}

func TestRequestJarRejectsOversizedValue(t *testing.T) {
	ctx := context.Background()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: storage.KeySentMessages, Value: "kept"})
	jar := NewRequestJar(rec, req, false)
	jar.now = func() time.Time { return testNow }

	big := strings.Repeat("é", storage.MaxCookieBytes/2)
	err := jar.Set(ctx, storage.KeySentMessages, big, testNow.Add(time.Hour))
	if !errors.Is(err, storage.ErrValueTooLarge) {
		t.Fatalf("err=%v, want ErrValueTooLarge", err)
	}
	if v, _, _ := jar.Get(ctx, storage.KeySentMessages); v != "kept" {
		t.Fatalf("value=%q, want the previous cookie", v)
	}
	if got := rec.Result().Cookies(); len(got) != 0 {
		t.Fatalf("set-cookie headers=%+v", got)
	}
}
