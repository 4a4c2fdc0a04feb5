package dasha

import (
	"fmt"
	"time"

	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// Snapshot is the serialisable form of a Timeline.
type Snapshot struct {
	Table    CycleTable `json:"table"`
	Birth    time.Time  `json:"birth"`
	Start    StartPoint `json:"start"`
	Cycles   int        `json:"cycles"`
	Depth    Level      `json:"depth"`
	Consumed int64      `json:"consumed_ms"`
	Nodes    []Node     `json:"nodes"`
}

// Snapshot copies the timeline into its serialisable form.
func (t *Timeline) Snapshot() Snapshot {
	return Snapshot{
		Table:    t.table,
		Birth:    t.birth,
		Start:    t.start,
		Cycles:   t.cycles,
		Depth:    t.depth,
		Consumed: t.consumed,
		Nodes:    append([]Node(nil), t.nodes...),
	}
}

// Restore rebuilds a Timeline from s.  The arena must be breadth-first with
// every child range inside the arena.
func Restore(s Snapshot) (*Timeline, error) {
	if err := s.Table.Validate(); err != nil {
		return nil, err
	}
	if len(s.Nodes) == 0 || !s.Depth.Valid() {
		return nil, errors.New(errors.ErrCodeSerialization, "timeline snapshot is empty")
	}
	tl := &Timeline{
		table:    s.Table,
		birth:    s.Birth,
		loc:      s.Birth.Location(),
		start:    s.Start,
		cycles:   s.Cycles,
		depth:    s.Depth,
		consumed: s.Consumed,
		nodes:    append([]Node(nil), s.Nodes...),
	}

	n := int32(len(tl.nodes))
	level := Mahadasha
	tl.levelStart[Mahadasha] = 0
	for i, nd := range tl.nodes {
		if nd.Level != level {
			if nd.Level != level+1 {
				return nil, corrupt("level %d follows level %d at node %d", nd.Level, level, i)
			}
			level = nd.Level
			tl.levelStart[level] = int32(i)
		}
		if nd.EndMs < nd.StartMs || int(nd.Entry) >= len(s.Table.Entries) {
			return nil, corrupt("node %d is malformed", i)
		}
		if nd.ChildCount < 0 || nd.ChildCount > 0 && (nd.FirstChild <= int32(i) || nd.FirstChild+nd.ChildCount > n) {
			return nil, corrupt("node %d has children outside the arena", i)
		}
		if (nd.Level == Mahadasha) != (nd.Parent < 0) || nd.Parent >= int32(i) {
			return nil, corrupt("node %d has an invalid parent", i)
		}
	}
	if level != s.Depth {
		return nil, corrupt("deepest level %d differs from depth %d", level, s.Depth)
	}
	tl.levelStart[level+1] = n
	return tl, nil
}

func corrupt(format string, args ...interface{}) error {
	return errors.New(errors.ErrCodeSerialization, "corrupt timeline snapshot").WithDetail(fmt.Sprintf(format, args...))
}

//Personal.AI order the ending
