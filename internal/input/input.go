// Package input decodes raw terminal bytes into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only repeat keys, they never report releases.
const keyHoldDuration = 80 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit   bool
	Left   bool
	Right  bool
	Up     bool
	Down   bool
	Space  bool
	Enter  bool
	Escape bool
	Number int // Last digit pressed this frame, -1 if none
	// Pressed holds the raw bytes read this frame.
	Pressed []byte
}

// Held movement keys persist for keyHoldDuration; the rest are edge-triggered
// so a single press never confirms a menu twice.
type keyState struct {
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
}

// Stream delivers input bytes via a channel and tracks held keys.
type Stream struct {
	ch    chan byte
	state keyState
	now   func() time.Time
}

// StartStream spawns a goroutine that reads from r until it fails.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:  make(chan byte, 128),
		now: time.Now,
	}
}

// ReadInput drains all available bytes from the stream without blocking.
// A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	var buf []byte
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := decode(&s.state, buf, s.now())
	if closed {
		in.Quit = true
	}
	return in
}

// ResetKeyInput forgets held keys, e.g. when switching screens.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

func decode(state *keyState, buf []byte, now time.Time) Input {
	in := Input{Number: -1, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequences: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				state.up = now
				i += 2
				continue
			case 'B':
				state.down = now
				i += 2
				continue
			case 'C':
				state.right = now
				i += 2
				continue
			case 'D':
				state.left = now
				i += 2
				continue
			}
		}

		switch b {
		case 'q', 'Q', 0x03: // Ctrl+C
			in.Quit = true
		case 'a', 'A', 'h':
			state.left = now
		case 'd', 'D', 'l':
			state.right = now
		case 'w', 'W', 'k':
			state.up = now
		case 's', 'S', 'j':
			state.down = now
		case ' ':
			in.Space = true
		case '\n', '\r':
			in.Enter = true
		case '\x1b':
			in.Escape = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			in.Number = int(b - '0')
		}
	}

	in.Left = now.Sub(state.left) < keyHoldDuration
	in.Right = now.Sub(state.right) < keyHoldDuration
	in.Up = now.Sub(state.up) < keyHoldDuration
	in.Down = now.Sub(state.down) < keyHoldDuration
	return in
}
