package root

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/SicilyCialo/kannacs/internal/config"
	"github.com/SicilyCialo/kannacs/internal/engine"
	"github.com/SicilyCialo/kannacs/internal/storage"
	"github.com/SicilyCialo/kannacs/internal/ui"
)

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}
	return cfg, nil
}

func openRepo(ctx context.Context, cfg config.Config) (*storage.CookieRepo, func(), error) {
	path, err := storage.ResolveDBPath(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	repo := storage.NewCookieRepo(db)
	if _, err := repo.PurgeExpired(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return repo, cleanup, nil
}

// openService loads progress and prints feedback events to out.
func openService(ctx context.Context, out io.Writer) (*engine.Service, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	policy, err := engine.ParseResetPolicy(cfg.ResetPolicy)
	if err != nil {
		return nil, nil, err
	}
	repo, cleanup, err := openRepo(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	svc := engine.NewService(repo,
		engine.WithLogger(log.New(os.Stderr, "[kn] ", log.LstdFlags)),
		engine.WithResetPolicy(policy),
		engine.WithDelays(cfg.ThinkDelay, cfg.DisplayDelay),
		engine.WithTTL(cfg.CookieTTL),
	)
	rep := svc.Load(ctx)
	if out == nil {
		return svc, cleanup, nil
	}
	for _, pe := range rep.Failed {
		fmt.Fprintf(out, "%s %s\n", ui.Warn.Render(ui.IconWarn+" discarded saved "+pe.Key), ui.Muted.Render(pe.Err.Error()))
	}
	svc.Subscribe(func(e engine.Event) { printEvent(out, e) })
	return svc, cleanup, nil
}

func printEvent(out io.Writer, e engine.Event) {
	switch e.Kind {
	case engine.EventAchievementUnlocked:
		fmt.Fprintf(out, "%s %s\n", ui.Gold.Render(e.Achievement.Icon+" Achievement unlocked:"), e.Achievement.Title)
	case engine.EventAchievementLocked:
		fmt.Fprintf(out, "%s %s\n", ui.Muted.Render(ui.IconLock+" Achievement locked:"), e.Achievement.Title)
	case engine.EventLevelUp:
		fmt.Fprintf(out, "%s %s\n", ui.BadgeLevelUp, ui.Gold.Render(fmt.Sprintf("Level %d", e.Level)))
	case engine.EventConsentGranted:
		fmt.Fprintln(out, ui.Good.Render(ui.IconUnlock+" Privacy policy accepted."))
	}
}
