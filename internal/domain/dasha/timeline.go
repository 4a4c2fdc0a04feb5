package dasha

import (
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/turtacn/jyotish-engine/internal/domain/calendar"
	"github.com/turtacn/jyotish-engine/internal/domain/zodiac"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// Level is the depth of a period in the hierarchy, 1 for the top level.
type Level uint8

const (
	NoLevel Level = iota
	Mahadasha
	Antardasha
	Pratyantardasha
	Sookshma
	Prana
)

// MaxLevel is the deepest supported level.
const MaxLevel = Prana

var levelNames = [...]string{"", "Mahadasha", "Antardasha", "Pratyantardasha", "Sookshma", "Prana"}

// Valid reports whether l is within [Mahadasha, Prana].
func (l Level) Valid() bool { return l >= Mahadasha && l <= MaxLevel }

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
	return levelNames[l]
}

// Node is one period stored in a Timeline arena.  Children of a node occupy
// the contiguous range [FirstChild, FirstChild+ChildCount).
type Node struct {
	Entry      uint8
	Level      Level
	StartMs    int64
	EndMs      int64
	Parent     int32
	FirstChild int32
	ChildCount int32
}

// Timeline is the computed period tree of one birth.  Nodes are stored
// breadth-first so every level is a contiguous chronological run.
type Timeline struct {
	table    CycleTable
	birth    time.Time
	loc      *time.Location
	start    StartPoint
	cycles   int
	depth    Level
	consumed int64
	nodes    []Node
	// levelStart[l] is the arena index of the first node at level l;
	// levelStart[depth+1] is len(nodes).
	levelStart [MaxLevel + 2]int32
}

// Table returns the cycle table the timeline was built from.
func (t *Timeline) Table() CycleTable { return t.table }

// Birth returns the birth instant.
func (t *Timeline) Birth() time.Time { return t.birth }

// In returns a copy of t that reports every instant in loc.
func (t *Timeline) In(loc *time.Location) *Timeline {
	cp := *t
	cp.loc = loc
	cp.birth = t.birth.In(loc)
	return &cp
}

// StartPoint returns the entry and fraction running at birth.
func (t *Timeline) StartPoint() StartPoint { return t.start }

// Cycles returns the number of cycles computed.
func (t *Timeline) Cycles() int { return t.cycles }

// Depth returns the deepest computed level.
func (t *Timeline) Depth() Level { return t.depth }

// Len returns the number of periods at every level.
func (t *Timeline) Len() int { return len(t.nodes) }

// Nodes exposes the raw arena.  Callers must not modify it.
func (t *Timeline) Nodes() []Node { return t.nodes }

// Start returns the first instant covered, which is birth on the grid.
func (t *Timeline) Start() time.Time {
	return calendar.FromMillis(t.nodes[0].StartMs, t.loc)
}

// End returns the exclusive end of the last top-level period.
func (t *Timeline) End() time.Time {
	return calendar.FromMillis(t.nodes[t.levelStart[Mahadasha+1]-1].EndMs, t.loc)
}

// ConsumedMillis returns how much of the first entry elapsed before birth.
func (t *Timeline) ConsumedMillis() int64 { return t.consumed }

// Top returns the top-level periods in order.
func (t *Timeline) Top() []Period { return t.AtLevel(Mahadasha) }

// AtLevel returns every period of level l in chronological order.
func (t *Timeline) AtLevel(l Level) []Period {
	if !l.Valid() || l > t.depth {
		return nil
	}
	lo, hi := t.levelStart[l], t.levelStart[l+1]
	out := make([]Period, 0, hi-lo)
	for i := lo; i < hi; i++ {
		out = append(out, Period{tl: t, idx: i})
	}
	return out
}

// Period returns the view over arena index i.
func (t *Timeline) Period(i int) Period { return Period{tl: t, idx: int32(i)} }

// Find returns the period of level l containing at.  Periods include their
// start and exclude their end, so an instant on a boundary belongs to the
// later period.
func (t *Timeline) Find(at time.Time, l Level) (Period, error) {
	if !l.Valid() || l > t.depth {
		return Period{}, errors.New(errors.ErrCodeInvalidPeriodRequest, "level not computed").
			WithDetail(fmt.Sprintf("level=%d depth=%d", l, t.depth))
	}
	chain, err := t.Current(at)
	if err != nil {
		return Period{}, err
	}
	return chain[l-1], nil
}

// Current returns the chain of periods containing at, from the top level
// down to the deepest computed level.
func (t *Timeline) Current(at time.Time) ([]Period, error) {
	ms := calendar.ToMillis(at)
	first, last := t.nodes[0].StartMs, t.nodes[t.levelStart[Mahadasha+1]-1].EndMs
	if ms < first || ms >= last {
		return nil, errors.OutOfRange("instant outside the computed timeline").
			WithDetail(fmt.Sprintf("at=%s start=%s end=%s", at.Format(time.RFC3339),
				calendar.FromMillis(first, t.loc).Format(time.RFC3339),
				calendar.FromMillis(last, t.loc).Format(time.RFC3339)))
	}
	chain := make([]Period, 0, t.depth)
	lo, n := int32(0), t.levelStart[Mahadasha+1]
	for {
		i := lo + t.search(lo, n, ms)
		chain = append(chain, Period{tl: t, idx: i})
		node := t.nodes[i]
		if node.ChildCount == 0 {
			return chain, nil
		}
		lo, n = node.FirstChild, node.ChildCount
	}
}

// AtAge returns the chain of periods running on the civil anniversary of
// birth at the given age.
func (t *Timeline) AtAge(age int) ([]Period, error) {
	at, err := calendar.AtAge(t.birth, age)
	if err != nil {
		return nil, err
	}
	return t.Current(at)
}

// BalanceAtBirth returns the remaining length of the first top-level period.
func (t *Timeline) BalanceAtBirth() calendar.Span {
	return Period{tl: t, idx: 0}.Span()
}

// search returns the offset within [lo, lo+n) of the sibling containing ms.
func (t *Timeline) search(lo, n int32, ms int64) int32 {
	k := sort.Search(int(n), func(j int) bool { return t.nodes[lo+int32(j)].EndMs > ms })
	if k == int(n) {
		k--
	}
	return int32(k)
}

// ─────────────────────────────────────────────────────────────────────────────
// Period view
// ─────────────────────────────────────────────────────────────────────────────

// Period is a lightweight view of one arena node.
type Period struct {
	tl  *Timeline
	idx int32
}

func (p Period) node() *Node { return &p.tl.nodes[p.idx] }

// Valid reports whether p refers to a node.
func (p Period) Valid() bool { return p.tl != nil && p.idx >= 0 && int(p.idx) < len(p.tl.nodes) }

// Index returns the arena index of p.
func (p Period) Index() int { return int(p.idx) }

// Entry returns the cycle-table entry ruling p.
func (p Period) Entry() Entry { return p.tl.table.Entries[p.node().Entry] }

// Lord returns the ruling planet.
func (p Period) Lord() zodiac.Planet { return p.Entry().Lord }

// Name returns the period's label, or the lord's name.
func (p Period) Name() string { return p.Entry().Name() }

// Level returns the hierarchy level.
func (p Period) Level() Level { return p.node().Level }

// StartMillis returns the inclusive start on the grid.
func (p Period) StartMillis() int64 { return p.node().StartMs }

// EndMillis returns the exclusive end on the grid.
func (p Period) EndMillis() int64 { return p.node().EndMs }

// Start returns the inclusive start in the birth location.
func (p Period) Start() time.Time { return calendar.FromMillis(p.node().StartMs, p.tl.loc) }

// End returns the exclusive end in the birth location.
func (p Period) End() time.Time { return calendar.FromMillis(p.node().EndMs, p.tl.loc) }

// DurationMillis returns End-Start in grid milliseconds.
func (p Period) DurationMillis() int64 { n := p.node(); return n.EndMs - n.StartMs }

// Duration returns the length as a time.Duration.
func (p Period) Duration() time.Duration { return time.Duration(p.DurationMillis()) * time.Millisecond }

// Years returns the exact length in grid years.
func (p Period) Years() *big.Rat { return calendar.MillisToYears(p.DurationMillis()) }

// Span returns the length broken into years, months and days.
func (p Period) Span() calendar.Span { return calendar.Breakdown(p.DurationMillis()) }

// Contains reports whether at falls in [Start, End).
func (p Period) Contains(at time.Time) bool {
	ms := calendar.ToMillis(at)
	n := p.node()
	return ms >= n.StartMs && ms < n.EndMs
}

// Progress returns the elapsed fraction of p at instant at, clamped to
// [0,1].
func (p Period) Progress(at time.Time) float64 {
	n := p.node()
	d := n.EndMs - n.StartMs
	if d <= 0 {
		return 1
	}
	f := float64(calendar.ToMillis(at)-n.StartMs) / float64(d)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Remaining returns the time left in p at instant at, never negative.
func (p Period) Remaining(at time.Time) time.Duration {
	r := p.node().EndMs - calendar.ToMillis(at)
	if r < 0 {
		return 0
	}
	if d := p.DurationMillis(); r > d {
		r = d
	}
	return time.Duration(r) * time.Millisecond
}

// Parent returns the enclosing period; top-level periods have none.
func (p Period) Parent() (Period, bool) {
	n := p.node()
	if n.Parent < 0 {
		return Period{}, false
	}
	return Period{tl: p.tl, idx: n.Parent}, true
}

// Children returns the sub-periods in order, or nil at the deepest level.
func (p Period) Children() []Period {
	n := p.node()
	if n.ChildCount == 0 {
		return nil
	}
	out := make([]Period, n.ChildCount)
	for i := range out {
		out[i] = Period{tl: p.tl, idx: n.FirstChild + int32(i)}
	}
	return out
}

// Path returns the lords from the top level down to p, e.g. "Venus/Sun".
func (p Period) Path() string {
	name := p.Name()
	if parent, ok := p.Parent(); ok {
		return parent.Path() + "/" + name
	}
	return name
}

func (p Period) String() string {
	return fmt.Sprintf("%s %s [%s, %s)", p.Level(), p.Path(),
		p.Start().Format(time.DateOnly), p.End().Format(time.DateOnly))
}

//Personal.AI order the ending
