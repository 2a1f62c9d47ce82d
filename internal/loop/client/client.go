// Package client is the terminal frontend of one hunting session: it reads
// keys, drives the world and draws screens for a single connection.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/hunt/internal/draw"
	"github.com/tomz197/hunt/internal/input"
	"github.com/tomz197/hunt/internal/loop/config"
	"github.com/tomz197/hunt/internal/loop/server"
	"github.com/tomz197/hunt/internal/loop/world"
	"github.com/tomz197/hunt/internal/progress"
	"github.com/tomz197/hunt/internal/quest"
)

// Client handles rendering and input for a single connection.
type Client struct {
	world        *world.World
	store        *progress.Store
	catalog      *quest.Catalog
	logger       *log.Logger
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates one frame of output
	writer       io.Writer
	inputStream  *input.Stream
	events       <-chan server.Event
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	World        world.Config
	Logger       *log.Logger
	Rand         *rand.Rand
	Events       <-chan server.Event // Optional hub notifications
}

var _ world.Presenter = (*Client)(nil)

// NewClient creates a client playing with the given progress and quests.
// It panics if store or catalog is nil.
func NewClient(store *progress.Store, catalog *quest.Catalog, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	if store == nil || catalog == nil {
		panic("client: NewClient requires a progress store and a quest catalog")
	}
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("player", store.Player())

	field := opts.World.Field
	canvas := draw.NewCanvas(int(field.Width), int(field.Height))

	c := &Client{
		store:        store,
		catalog:      catalog,
		logger:       logger,
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w),
		writer:       w,
		events:       opts.Events,
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
	}
	if r != nil {
		c.inputStream = input.StartStream(r)
	}
	c.world = world.New(opts.World, world.Deps{
		Progress:  store,
		Presenter: c,
		Logger:    logger,
		Rand:      opts.Rand,
	})
	c.updateScreen()
	return c
}

// State returns the presentation state.
func (c *Client) State() *ClientState {
	return c.state
}

// World returns the session simulation.
func (c *Client) World() *world.World {
	return c.world
}

// Run runs the frame loop until the player quits, goes idle for too long
// or ctx is cancelled. The store is expected to be loaded already.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		if ctx.Err() != nil {
			break
		}
		frameStart := time.Now()
		delta := frameDelta(frameStart, lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()

		if err := c.frame(delta); err != nil {
			return err
		}

		c.updateScreen()

		if err := c.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	c.logger.Info("session ended", "screen", c.state.GameState)
	return nil
}

// processInput reads the keys of this frame and tracks inactivity.
func (c *Client) processInput() {
	if c.inputStream == nil {
		return
	}
	c.setInput(input.ReadInput(c.inputStream))

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive player")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}
}

// processServerEvents handles notifications from the hub.
func (c *Client) processServerEvents() {
	if c.events == nil {
		return
	}
	for {
		select {
		case event, ok := <-c.events:
			if !ok {
				c.state.Running = false
				return
			}
			if event.Type == server.EventServerShutdown {
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

func (c *Client) setInput(in input.Input) {
	c.state.prevInput = c.state.Input
	c.state.Input = in
}

// frameDelta is the simulated time between two frames, capped so a stalled
// connection does not advance the world in one large jump.
func frameDelta(now, last time.Time) time.Duration {
	return max(0, min(now.Sub(last), config.ClientMaxFrameDelta))
}

// frame applies one frame of input to the current screen.
func (c *Client) frame(delta time.Duration) error {
	c.state.delta = delta
	if c.state.Input.Quit {
		c.state.Running = false
		return nil
	}

	switch c.state.GameState {
	case GameStateLevelSelect:
		c.updateLevelSelect()
	case GameStateBriefing:
		c.updateBriefing()
	case GameStatePlaying:
		return c.updatePlaying()
	case GameStateComplete:
		return c.updateComplete()
	case GameStateShutdown:
		c.updateShutdown()
	}
	return nil
}

// updateScreen recenters the field when the terminal is resized. On actual
// size changes the terminal is cleared to remove stale borders.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	offsetCol, offsetRow := fieldOffset(termWidth, termHeight, c.canvas.Width(), c.canvas.Height())
	if offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.state.forceClear = true
	}
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// fieldOffset centers the field, its border and the HUD rows below it.
// The returned offset is where the first field cell goes, leaving one
// column and row for the border when the terminal is large enough.
func fieldOffset(termWidth, termHeight, w, h int) (col, row int) {
	col, row = draw.CenterOffset(termWidth, termHeight, w+2, h+2+config.HUDRows)
	if termWidth >= w+2 {
		col++
	}
	if termHeight >= h+2+config.HUDRows {
		row++
	}
	return col, row
}

// updateLevelSelect moves the highlight and opens the briefing of an unlocked level.
func (c *Client) updateLevelSelect() {
	levels := c.catalog.Levels()
	if len(levels) == 0 {
		return
	}
	first, last := levels[0], levels[len(levels)-1]

	switch {
	case c.state.pressedUp():
		c.selectLevel(c.state.Selected - 1)
	case c.state.pressedDown():
		c.selectLevel(c.state.Selected + 1)
	case c.state.Input.Number >= 1:
		c.selectLevel(c.state.Input.Number)
	}
	c.state.Selected = max(first, min(c.state.Selected, last))

	if !c.state.Input.Enter {
		return
	}
	if !c.store.Unlocked(c.state.Selected) {
		c.state.Notice = fmt.Sprintf("Level %d is locked", c.state.Selected)
		return
	}
	q, ok := c.catalog.ForLevel(c.state.Selected)
	if !ok {
		c.state.Notice = fmt.Sprintf("Level %d has no quest", c.state.Selected)
		return
	}
	c.state.Quest = q
	c.state.Notice = ""
	c.state.GameState = GameStateBriefing
}

// selectLevel highlights level if the catalog has it. Unknown levels are ignored.
func (c *Client) selectLevel(level int) {
	if _, ok := c.catalog.ForLevel(level); ok {
		c.state.Selected = level
		c.state.Notice = ""
	}
}

// updateBriefing starts the hunt on Enter and goes back on Escape.
func (c *Client) updateBriefing() {
	switch {
	case c.state.Input.Escape:
		c.state.GameState = GameStateLevelSelect
	case c.state.Input.Enter:
		if err := c.startLevel(); err != nil {
			c.logger.Error("start level", "level", c.state.Selected, "err", err)
			c.state.Notice = "Could not start the level"
			c.state.GameState = GameStateLevelSelect
		}
	}
}

// startLevel begins the selected quest. Locked levels cannot be started.
func (c *Client) startLevel() error {
	level := c.state.Selected
	if !c.store.Unlocked(level) {
		return fmt.Errorf("level %d is locked", level)
	}
	if c.inputStream != nil {
		input.ResetKeyInput(c.inputStream)
	}
	c.state.Cooldown = 0
	c.state.Result = quest.Result{}
	c.state.GameState = GameStatePlaying
	if err := c.world.StartLevel(level, c.state.Quest); err != nil {
		return fmt.Errorf("start level %d: %w", level, err)
	}
	return nil
}

// updatePlaying steps the simulation. Escape abandons the hunt.
func (c *Client) updatePlaying() error {
	if c.state.Input.Escape {
		c.logger.Info("hunt abandoned", "level", c.world.Level(), "run", c.world.RunID())
		c.state.GameState = GameStateBriefing
		return nil
	}
	if err := c.world.Step(c.state.delta, c.state.Input); err != nil {
		return fmt.Errorf("step world: %w", err)
	}
	return nil
}

// updateComplete keeps the frozen field presented until Enter returns to
// the level list with the next level highlighted.
func (c *Client) updateComplete() error {
	if err := c.world.Step(c.state.delta, input.Input{Number: -1}); err != nil {
		return fmt.Errorf("step world: %w", err)
	}
	if !c.state.Input.Enter {
		return nil
	}
	next := c.world.Level() + 1
	if _, ok := c.catalog.ForLevel(next); ok && c.store.Unlocked(next) {
		c.state.Selected = next
	}
	c.state.GameState = GameStateLevelSelect
	return nil
}

// OnQuestComplete shows the result panel over the frozen field.
func (c *Client) OnQuestComplete(stars, reward int) {
	c.state.Result = c.world.Tracker().Result()
	c.state.Result.Stars = stars
	c.state.Result.Reward = reward
	c.state.GameState = GameStateComplete
}

// OnTimeUpdated receives the formatted elapsed quest time.
func (c *Client) OnTimeUpdated(formatted string) {
	c.state.Clock = formatted
}

// OnCooldownUpdated receives the remaining fraction of the bow cooldown.
func (c *Client) OnCooldownUpdated(remainingFraction float64) {
	c.state.Cooldown = remainingFraction
}

// updateShutdown counts down the shutdown notice and then disconnects.
func (c *Client) updateShutdown() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
