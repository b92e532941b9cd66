// Package input turns raw terminal bytes into pilot key state.
package input

import (
	"bufio"
	"io"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report key repeats, never releases.
const keyHoldDuration = 120 * time.Millisecond

// Keys is the pilot key state at one instant.
type Keys struct {
	Quit   bool
	Left   bool
	Right  bool
	Thrust bool
	Fire   bool
}

type keyState struct {
	quit, left, right, thrust, fire time.Time
}

// Stream delivers input bytes via a channel and tracks key state.
type Stream struct {
	ch    chan byte
	state keyState
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r returns an error.
func StartStream(r io.Reader) *Stream {
	s := newStream()
	br := bufio.NewReader(r)
	go func() {
		defer close(s.ch)
		for {
			b, err := br.ReadByte()
			if err != nil {
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{ch: make(chan byte, 128)}
}

// Poll drains all available bytes without blocking and returns the keys
// pressed within the hold window.
func (s *Stream) Poll() Keys {
	return s.poll(time.Now())
}

func (s *Stream) poll(now time.Time) Keys {
	var buf []byte
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				// Input gone; treat as a request to stop.
				s.state.quit = now
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}
	s.apply(buf, now)

	return Keys{
		Quit:   now.Sub(s.state.quit) < keyHoldDuration,
		Left:   now.Sub(s.state.left) < keyHoldDuration,
		Right:  now.Sub(s.state.right) < keyHoldDuration,
		Thrust: now.Sub(s.state.thrust) < keyHoldDuration,
		Fire:   now.Sub(s.state.fire) < keyHoldDuration,
	}
}

func (s *Stream) apply(buf []byte, now time.Time) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.thrust = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}

		switch b {
		case 'q', 'Q', '\x03':
			s.state.quit = now
		case 'a', 'A', 'j', 'J':
			s.state.left = now
		case 'd', 'D', 'l', 'L':
			s.state.right = now
		case 'w', 'W', 'i', 'I':
			s.state.thrust = now
		case ' ':
			s.state.fire = now
		}
	}
}
