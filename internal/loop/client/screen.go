package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomz197/hunt/internal/draw"
	"github.com/tomz197/hunt/internal/loop/config"
	"github.com/tomz197/hunt/internal/progress"
	"github.com/tomz197/hunt/internal/quest"
)

// cooldownBarWidth is the width of the bow cooldown bar inside its brackets.
const cooldownBarWidth = 10

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or inactivity transitions, do a full terminal clear
	// so panels from the previous screen don't persist.
	stateChanged := c.state.GameState != c.state.prevState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged || c.state.forceClear {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.forceClear = false
	}

	c.canvas.Clear()
	if c.state.GameState == GameStatePlaying || c.state.GameState == GameStateComplete {
		if err := c.world.Draw(c.canvas); err != nil {
			return err
		}
	}

	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	if err := c.canvas.RenderBorder(c.chunkWriter); err != nil {
		return err
	}

	c.drawUI()

	return c.chunkWriter.Flush()
}

// drawUI draws the panel of the current screen over the field.
func (c *Client) drawUI() {
	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen()
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen()
		return
	}

	switch c.state.GameState {
	case GameStateLevelSelect:
		c.drawLevelSelect()
	case GameStateBriefing:
		c.drawBriefing()
	case GameStatePlaying:
		c.drawPlayingHUD()
	case GameStateComplete:
		c.drawPlayingHUD()
		c.drawCompletePanel()
	}
}

func (c *Client) overlay(block string) {
	draw.OverlayCentered(c.chunkWriter, c.canvas.Width(), c.canvas.Height(), block)
}

// drawInactivityScreen draws the inactivity warning.
func (c *Client) drawInactivityScreen() {
	left := int(config.InactivityDisconnectUser - time.Since(c.lastInput).Seconds())
	c.overlay(draw.Panel("INACTIVITY WARNING",
		fmt.Sprintf("You will be disconnected in %d seconds.", max(0, left)),
		"",
		draw.Dim("Press any key to continue"),
	))
}

// drawShutdownScreen draws the server shutdown notice.
func (c *Client) drawShutdownScreen() {
	c.overlay(draw.Panel("SERVER SHUTTING DOWN",
		"Your progress is saved.",
		fmt.Sprintf("Disconnecting in %d seconds...", int(c.state.shutdownTimer)+1),
		"",
		draw.Dim("Press Q to disconnect now"),
	))
}

// drawLevelSelect lists every level with its best stars and lock.
func (c *Client) drawLevelSelect() {
	snap := c.store.Snapshot()
	lines := []string{
		fmt.Sprintf("Hunter: %s    Total reward: %d", c.store.Player(), snap.TotalReward),
		"",
	}
	for _, level := range c.catalog.Levels() {
		lines = append(lines, levelLine(&snap, c.catalog, level, level == c.state.Selected))
	}
	lines = append(lines, "")
	if c.state.Notice != "" {
		lines = append(lines, c.state.Notice)
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, draw.Dim("Up/Down or 1-9 select   Enter briefing   Q quit"))
	c.overlay(draw.Panel("HUNT - Select a level", lines...))
}

// levelLine renders one row of the level list.
func levelLine(p *progress.PlayerProgress, catalog *quest.Catalog, level int, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	id := ""
	if q, ok := catalog.ForLevel(level); ok {
		id = q.ID
	}
	status := "locked"
	if p.Unlocked(level) {
		stars := 0
		if rec := p.Level(level); rec != nil {
			stars = rec.Stars
		}
		status = draw.Stars(stars, quest.MaxStars)
	}
	return fmt.Sprintf("%sLevel %-3d %-8s %s", cursor, level, status, id)
}

// drawBriefing shows the selected quest and its star thresholds.
func (c *Client) drawBriefing() {
	q := c.state.Quest
	if q == nil {
		return
	}
	lines := []string{}
	if q.Description != "" {
		lines = append(lines, q.Description, "")
	}
	lines = append(lines,
		q.Describe(),
		"",
		fmt.Sprintf("%s  finish within %s", draw.Stars(3, quest.MaxStars), quest.FormatThreshold(q.TimeFor3Stars)),
		fmt.Sprintf("%s  finish within %s", draw.Stars(2, quest.MaxStars), quest.FormatThreshold(q.TimeFor2Stars)),
		fmt.Sprintf("Rewards: %s", joinInts(q.Rewards, " / ")),
		"",
		"WASD / arrows move   SPACE shoot",
		draw.Dim("Enter start   Esc back"),
	)
	c.overlay(draw.Panel(fmt.Sprintf("Level %d - %s", c.state.Selected, q.ID), lines...))
}

// drawCompletePanel shows the result of the finished quest.
func (c *Client) drawCompletePanel() {
	r := c.state.Result
	c.overlay(draw.Panel("QUEST COMPLETE",
		fmt.Sprintf("Stars   %s", draw.Stars(r.Stars, quest.MaxStars)),
		fmt.Sprintf("Time    %s", quest.FormatClock(r.Elapsed)),
		fmt.Sprintf("Reward  +%d", r.Reward),
		"",
		draw.Dim("Enter to continue"),
	))
}

// drawPlayingHUD draws the clock, objectives and bow cooldown below the field.
// Text fields are padded to the field width so shrinking values don't
// leave residual characters on screen.
func (c *Client) drawPlayingHUD() {
	if c.world.Player() == nil {
		return
	}
	cw := c.chunkWriter
	width := c.canvas.Width()
	row := c.canvas.Height() + 2

	bow := "ready"
	if c.state.Cooldown > 0 {
		bow = fmt.Sprintf("%d", c.world.Player().Gate().CountdownSeconds())
	}
	status := fmt.Sprintf("Level %d   Time %s   Bow %s %s",
		c.world.Level(), c.state.Clock, draw.Bar(1-c.state.Cooldown, cooldownBarWidth), bow)
	cw.WriteAt(1, row, pad(status, width))

	var objectives []string
	for _, s := range c.world.Tracker().Status() {
		objectives = append(objectives, fmt.Sprintf("%s %d/%d", s.Type, s.Count, s.Required))
	}
	cw.WriteAt(1, row+1, pad("Hunt: "+strings.Join(objectives, "  "), width))
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func joinInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, sep)
}
