package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/SicilyCialo/kannacs/internal/storage"
)

const flagTrue = "true"

// Persistence mirrors store fields into a storage.Jar.
type Persistence struct {
	jar    storage.Jar
	ttl    time.Duration
	now    func() time.Time
	logger *log.Logger
}

func NewPersistence(jar storage.Jar, logger *log.Logger) *Persistence {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Persistence{
		jar:    jar,
		ttl:    storage.DefaultTTL,
		now:    time.Now,
		logger: logger,
	}
}

// LoadReport lists what hydration picked up and what it had to discard.
type LoadReport struct {
	Loaded []Field
	Failed []ParseError
}

// Load hydrates s from the jar. Each field is read and decoded on its own; a
// bad value is logged and the in-memory value is kept.
func (a *Persistence) Load(ctx context.Context, s *Store) LoadReport {
	var (
		rep   LoadReport
		apply []func(p *Progress)
	)

	for _, f := range Fields() {
		raw, ok, err := a.jar.Get(ctx, f.Key())
		if err != nil {
			a.fail(&rep, f, fmt.Errorf("read: %w", err))
			continue
		}
		if !ok {
			continue
		}
		fn, err := decodeField(f, raw)
		if err != nil {
			a.fail(&rep, f, err)
			continue
		}
		if fn == nil {
			// Derived from the other fields on hydrate.
			continue
		}
		apply = append(apply, fn)
		rep.Loaded = append(rep.Loaded, f)
	}

	s.hydrate(func(p *Progress) {
		for _, fn := range apply {
			fn(p)
		}
	})
	return rep
}

func (a *Persistence) fail(rep *LoadReport, f Field, err error) {
	pe := ParseError{Key: f.Key(), Err: err}
	rep.Failed = append(rep.Failed, pe)
	a.logger.Printf("persistence: %v", pe)
}

// decodeField parses raw into a setter for f. A derived field is only
// checked for shape and yields a nil setter.
func decodeField(f Field, raw string) (func(p *Progress), error) {
	switch f {
	case FieldCanvas:
		c, err := decodeCanvas(raw)
		if err != nil {
			return nil, err
		}
		return func(p *Progress) { p.Canvas = c }, nil
	case FieldGameStats:
		var g GameStats
		if err := json.Unmarshal([]byte(raw), &g); err != nil {
			return nil, err
		}
		if g.NextLevelXP <= 0 {
			return nil, errors.New("nextLevelXp must be positive")
		}
		return func(p *Progress) { p.Stats = g }, nil
	case FieldFavorites:
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			return nil, err
		}
		return func(p *Progress) { p.Favorites = dedupe(names) }, nil
	case FieldMessages:
		var msgs MessageLog
		if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
			return nil, err
		}
		for k, v := range msgs {
			if k == "" || len(v) == 0 {
				delete(msgs, k)
			}
		}
		if msgs == nil {
			msgs = MessageLog{}
		}
		return func(p *Progress) { p.Messages = msgs }, nil
	case FieldWinStreak:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("negative streak %d", n)
		}
		return func(p *Progress) { p.WinStreak = n }, nil
	case FieldAchievements:
		var list []Achievement
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, err
		}
		return nil, nil
	case FieldPrivacyVisited:
		v := raw == flagTrue
		return func(p *Progress) { p.Consent.PrivacyVisited = v }, nil
	case FieldPrivacyAccepted:
		v := raw == flagTrue
		return func(p *Progress) { p.Consent.PrivacyAccepted = v }, nil
	default:
		return nil, fmt.Errorf("unknown field %q", f)
	}
}

func decodeCanvas(raw string) (PixelCanvas, error) {
	var rows [][]string
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return PixelCanvas{}, err
	}
	if len(rows) != CanvasSize {
		return PixelCanvas{}, fmt.Errorf("canvas has %d rows, want %d", len(rows), CanvasSize)
	}
	var c PixelCanvas
	for r, row := range rows {
		if len(row) != CanvasSize {
			return PixelCanvas{}, fmt.Errorf("canvas row %d has %d cells, want %d", r, len(row), CanvasSize)
		}
		for col, v := range row {
			if !IsHexColor(v) {
				return PixelCanvas{}, fmt.Errorf("canvas cell %d,%d: %q is not a hex color", r, col, v)
			}
			c[r][col] = v
		}
	}
	return c, nil
}

// encodeField renders the value of f in p. write=false means nothing should
// be written (an unset flag).
func encodeField(f Field, p Progress) (value string, write bool, err error) {
	var v any
	switch f {
	case FieldCanvas:
		v = p.Canvas
	case FieldGameStats:
		v = p.Stats
	case FieldFavorites:
		v = p.Favorites
	case FieldMessages:
		v = p.Messages
	case FieldAchievements:
		v = p.Achievements
	case FieldWinStreak:
		return strconv.Itoa(p.WinStreak), true, nil
	case FieldPrivacyVisited:
		return flagTrue, p.Consent.PrivacyVisited, nil
	case FieldPrivacyAccepted:
		return flagTrue, p.Consent.PrivacyAccepted, nil
	default:
		return "", false, fmt.Errorf("unknown field %q", f)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", false, fmt.Errorf("encode %s: %w", f, err)
	}
	return string(data), true, nil
}

// Save writes the current value of f from p with the configured TTL.
func (a *Persistence) Save(ctx context.Context, f Field, p Progress) error {
	value, write, err := encodeField(f, p)
	if err != nil {
		return err
	}
	if !write {
		return nil
	}
	if err := a.jar.Set(ctx, f.Key(), value, a.now().Add(a.ttl)); err != nil {
		return fmt.Errorf("save %s: %w", f, err)
	}
	return nil
}

// SaveFields writes each of fields from p. One failing field does not stop
// the others.
func (a *Persistence) SaveFields(ctx context.Context, fields []Field, p Progress) error {
	var errs []error
	for _, f := range fields {
		if err := a.Save(ctx, f, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResetAll deletes every persisted key and restores the store defaults.
func (a *Persistence) ResetAll(ctx context.Context, s *Store, policy ResetPolicy) (Change, error) {
	c := s.Reset(policy)
	if err := a.jar.Remove(ctx, storage.Keys()...); err != nil {
		return c, fmt.Errorf("reset: %w", err)
	}
	return c, nil
}
