package client

import (
	"time"

	"github.com/tomz197/hunt/internal/object"
	"github.com/tomz197/hunt/internal/quest"
)

// GameState represents the current screen of a client.
type GameState int

const (
	GameStateLevelSelect GameState = iota // Level list with stars and locks
	GameStateBriefing                     // Quest description before the hunt
	GameStatePlaying                      // Active hunt
	GameStateComplete                     // Quest finished, field frozen behind the result panel
	GameStateShutdown                     // Server is shutting down
)

// String returns the screen name used in logs.
func (s GameState) String() string {
	switch s {
	case GameStateLevelSelect:
		return "level-select"
	case GameStateBriefing:
		return "briefing"
	case GameStatePlaying:
		return "playing"
	case GameStateComplete:
		return "complete"
	case GameStateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// ClientState holds per-connection presentation state.
type ClientState struct {
	Input     object.Input
	prevInput object.Input
	GameState GameState
	prevState GameState

	Selected int          // Level highlighted on the select screen
	Quest    *quest.Quest // Quest shown on the briefing and played
	Notice   string       // One-line message on the select screen

	// Filled by the presentation callbacks.
	Clock    string
	Cooldown float64
	Result   quest.Result

	Running       bool
	delta         time.Duration
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool
	wasInactive   bool
	forceClear    bool
}

// NewClientState creates a state on the level select screen with level 1 highlighted.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateLevelSelect,
		prevState: -1,
		Selected:  1,
		Clock:     quest.FormatClock(0),
		Running:   true,
	}
}

// pressedUp and pressedDown report keys that went down this frame. Movement
// keys are held for a few frames by the input stream; menus only want the edge.
func (s *ClientState) pressedUp() bool   { return s.Input.Up && !s.prevInput.Up }
func (s *ClientState) pressedDown() bool { return s.Input.Down && !s.prevInput.Down }
