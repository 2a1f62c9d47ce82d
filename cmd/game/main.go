package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/hunt/internal/config"
	"github.com/tomz197/hunt/internal/loop/client"
	"github.com/tomz197/hunt/internal/loop/world"
	"github.com/tomz197/hunt/internal/progress"
	"github.com/tomz197/hunt/internal/quest"

	loopconfig "github.com/tomz197/hunt/internal/loop/config"
)

func main() {
	settings := config.Load()

	// The terminal belongs to the game, so logs go to a file in the data dir.
	logger, closeLog, err := newLogger(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	tuning, err := loopconfig.LoadTuning(settings.TuningPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load tuning: %v\n", err)
		os.Exit(1)
	}
	catalog, err := quest.LoadCatalog(settings.QuestsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load quests: %v\n", err)
		os.Exit(1)
	}

	player := config.GetEnv("USER", "hunter")
	store := progress.NewStore(progress.NewFileBackend(settings.DataDir), player, progress.Defaults{
		TotalLevels: catalog.Len(),
		QuestIDs:    catalog.QuestIDs(),
		Health:      tuning.BaseHealth,
		Damage:      tuning.BaseDamage,
		Speed:       tuning.BaseSpeed,
	}, logger)
	store.Load()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worldCfg := world.DefaultConfig()
	worldCfg.Tuning = tuning
	worldCfg.AutoAim = settings.AutoAim

	c := client.NewClient(store, catalog, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		World:  worldCfg,
		Logger: logger,
	})
	if err := c.Run(ctx); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(settings config.Settings) (*log.Logger, func(), error) {
	if err := os.MkdirAll(settings.DataDir, 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(settings.DataDir, "hunt.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "hunt",
	})
	if level, err := log.ParseLevel(settings.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger, func() { _ = f.Close() }, nil
}
