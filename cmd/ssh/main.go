package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/hunt/internal/config"
	"github.com/tomz197/hunt/internal/draw"
	"github.com/tomz197/hunt/internal/loop/client"
	"github.com/tomz197/hunt/internal/loop/server"
	"github.com/tomz197/hunt/internal/loop/world"
	"github.com/tomz197/hunt/internal/progress"
	"github.com/tomz197/hunt/internal/quest"

	loopconfig "github.com/tomz197/hunt/internal/loop/config"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	settings := config.Load()
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "hunt-ssh",
	})
	if level, err := log.ParseLevel(settings.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("ssh config", "host", host, "port", port, "hostKey", hostKeyPath, "dataDir", settings.DataDir)

	tuning, err := loopconfig.LoadTuning(settings.TuningPath)
	if err != nil {
		logger.Fatal("load tuning", "err", err)
	}
	catalog, err := quest.LoadCatalog(settings.QuestsPath)
	if err != nil {
		logger.Fatal("load quests", "err", err)
	}

	hub := server.NewHub(progress.NewFileBackend(settings.DataDir), progress.Defaults{
		TotalLevels: catalog.Len(),
		QuestIDs:    catalog.QuestIDs(),
		Health:      tuning.BaseHealth,
		Damage:      tuning.BaseDamage,
		Speed:       tuning.BaseSpeed,
	}, logger)

	worldCfg := world.DefaultConfig()
	worldCfg.Tuning = tuning
	worldCfg.AutoAim = settings.AutoAim

	game := &gameHandler{
		hub:     hub,
		catalog: catalog,
		world:   worldCfg,
		logger:  logger,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			game.middleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server", "sessions", hub.Sessions())

	grace := time.Duration(loopconfig.ShutdownGraceSeconds * float64(time.Second))
	if !hub.Shutdown(grace) {
		logger.Warn("sessions still connected after grace period", "sessions", hub.Sessions())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameHandler runs one independent hunting session per SSH connection.
type gameHandler struct {
	hub     *server.Hub
	catalog *quest.Catalog
	world   world.Config
	logger  *log.Logger
}

// middleware handles SSH sessions and runs the game client.
func (g *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		player := progress.SanitizePlayer(sess.User())
		logger := g.logger.With("player", player, "remote", sess.RemoteAddr().String())
		logger.Info("new game session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		handle, err := g.hub.Register(player)
		if err != nil {
			fmt.Fprintln(sess, "The server is shutting down, please reconnect in a moment.")
			return
		}
		defer g.hub.Unregister(handle.ID)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c := client.NewClient(handle.Store, g.catalog, bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			World:        g.world,
			Logger:       logger,
			Events:       handle.EventsCh,
		})
		if err := c.Run(sess.Context()); err != nil {
			logger.Error("game error", "err", err)
		}

		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
