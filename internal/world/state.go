package world

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/tomz197/arena/internal/object"
)

// Snapshot is an immutable copy of the world state.
type Snapshot struct {
	Width    float64
	Height   float64
	Clock    float64
	Entities []object.View // Ordered by id
}

// Snapshot copies the observable state of every live entity.
func (w *World) Snapshot() Snapshot {
	views := make([]object.View, 0, len(w.order))
	for _, id := range w.order {
		views = append(views, w.entities[id].View())
	}
	return Snapshot{
		Width:    w.width,
		Height:   w.height,
		Clock:    w.clock,
		Entities: views,
	}
}

// Count returns the number of entities of the given kind in the snapshot.
func (s Snapshot) Count(kind object.Kind) int {
	n := 0
	for _, v := range s.Entities {
		if v.Kind == kind {
			n++
		}
	}
	return n
}

// Fingerprint digests the exact bit patterns of the world state. Two worlds
// with the same fingerprint followed bit-identical trajectories with
// overwhelming probability.
func (w *World) Fingerprint() uint64 {
	return w.Snapshot().Fingerprint()
}

// Fingerprint digests the snapshot.
func (s Snapshot) Fingerprint() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 96)
	buf = appendFloat(buf, s.Clock)
	for _, v := range s.Entities {
		buf = binary.LittleEndian.AppendUint64(buf, v.ID)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v.Kind))
		buf = appendFloat(buf, v.Position.X)
		buf = appendFloat(buf, v.Position.Y)
		buf = appendFloat(buf, v.Velocity.X)
		buf = appendFloat(buf, v.Velocity.Y)
		buf = appendFloat(buf, v.Orientation)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v.Bullets))
		_, _ = d.Write(buf)
		buf = buf[:0]
	}
	if len(buf) > 0 {
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}

func appendFloat(b []byte, f float64) []byte {
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(f))
}
