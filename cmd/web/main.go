package main

import (
	"cmp"
	"context"
	_ "embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/hunt/internal/config"
	"github.com/tomz197/hunt/internal/progress"
	"github.com/tomz197/hunt/internal/quest"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"stars": func(n int) string {
		n = max(0, min(n, quest.MaxStars))
		return strings.Repeat("★", n) + strings.Repeat("☆", quest.MaxStars-n)
	},
}).Parse(indexHTML))

func main() {
	settings := config.Load()
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "hunt-web",
	})
	if level, err := log.ParseLevel(settings.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	catalog, err := quest.LoadCatalog(settings.QuestsPath)
	if err != nil {
		logger.Fatal("load quests", "err", err)
	}

	board := &leaderboard{
		backend: progress.NewFileBackend(settings.DataDir),
		defaults: progress.Defaults{
			TotalLevels: catalog.Len(),
			QuestIDs:    catalog.QuestIDs(),
		},
		sshHost: sshHost,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", board)

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("starting web server", "addr", "http://"+srv.Addr, "dataDir", settings.DataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// leaderboard renders the stored progress of every player, read-only.
type leaderboard struct {
	backend  *progress.FileBackend
	defaults progress.Defaults
	sshHost  string
	logger   *log.Logger
}

type playerRow struct {
	Name        string
	TotalReward int
	Stars       int
	Levels      []progress.LevelRecord
}

type pageData struct {
	SSHHost string
	Players []playerRow
}

func (l *leaderboard) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	names, err := l.backend.List()
	if err != nil {
		l.logger.Error("list progress", "err", err)
		http.Error(w, "progress unavailable", http.StatusInternalServerError)
		return
	}

	data := pageData{SSHHost: l.sshHost}
	for _, name := range names {
		raw, err := l.backend.Read(name)
		if err != nil {
			l.logger.Warn("read progress", "player", name, "err", err)
			continue
		}
		p, err := progress.Decode(raw, l.defaults)
		if err != nil {
			l.logger.Warn("decode progress", "player", name, "err", err)
			continue
		}
		row := playerRow{Name: name, TotalReward: p.TotalReward, Levels: p.Levels}
		for _, lvl := range p.Levels {
			row.Stars += lvl.Stars
		}
		data.Players = append(data.Players, row)
	}
	sortPlayers(data.Players)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		l.logger.Error("render page", "err", err)
	}
}

// sortPlayers orders by total reward, then stars, then name.
func sortPlayers(rows []playerRow) {
	slices.SortFunc(rows, func(a, b playerRow) int {
		return cmp.Or(
			cmp.Compare(b.TotalReward, a.TotalReward),
			cmp.Compare(b.Stars, a.Stars),
			strings.Compare(a.Name, b.Name),
		)
	})
}
