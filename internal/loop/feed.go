package loop

import (
	"fmt"
	"io"

	"github.com/tomz197/arena/internal/collision"
	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/world"
)

// Feed is a world.Listener that writes one line per collision.
// The first write error is kept and later writes are skipped.
type Feed struct {
	w     io.Writer
	clock func() float64
	err   error
}

var _ world.Listener = (*Feed)(nil)

// NewFeed creates a feed writing to w.
func NewFeed(w io.Writer) *Feed {
	return &Feed{w: w}
}

// Err returns the first write error.
func (f *Feed) Err() error { return f.err }

func (f *Feed) now() float64 {
	if f.clock == nil {
		return 0
	}
	return f.clock()
}

func (f *Feed) printf(format string, args ...any) {
	if f.err != nil {
		return
	}
	_, f.err = fmt.Fprintf(f.w, format, args...)
}

// EntityCollision implements world.Listener.
func (f *Feed) EntityCollision(a, b object.View, x, y float64, o collision.Outcome) {
	f.printf("t=%9.3f  %s <-> %s  at (%.1f, %.1f)  %s\r\n", f.now(), label(a), label(b), x, y, o)
}

// BoundaryCollision implements world.Listener.
func (f *Feed) BoundaryCollision(e object.View, edge collision.Edge, x, y float64, o collision.Outcome) {
	f.printf("t=%9.3f  %s |  %s wall  at (%.1f, %.1f)  %s\r\n", f.now(), label(e), edge, x, y, o)
}

// Summary writes the entity counts and the fingerprint of a snapshot.
func (f *Feed) Summary(s world.Snapshot) {
	f.printf("t=%9.3f  ships=%d bullets=%d planets=%d fingerprint=%016x\r\n",
		s.Clock,
		s.Count(object.KindShip),
		s.Count(object.KindBullet),
		s.Count(object.KindMinorPlanet),
		s.Fingerprint(),
	)
}

func label(v object.View) string {
	return fmt.Sprintf("%s#%d", v.Kind, v.ID)
}
