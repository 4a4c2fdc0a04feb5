package dasha

import (
	"fmt"
	"math"
	"math/bits"
	"time"

	"github.com/turtacn/jyotish-engine/internal/domain/calendar"
	"github.com/turtacn/jyotish-engine/internal/domain/chart"
	"github.com/turtacn/jyotish-engine/pkg/errors"
)

// BalancePolicy decides how the sub-periods of the period running at birth
// are laid out.
type BalancePolicy uint8

const (
	BalanceUnset BalancePolicy = iota
	// BalanceClip lays the sub-periods over the full length of the birth
	// period, starting before birth, and clips them at the birth instant.
	BalanceClip
	// BalanceScale divides only the remaining balance proportionally.
	BalanceScale
)

// ParseBalancePolicy resolves "clip" or "scale".
func ParseBalancePolicy(s string) (BalancePolicy, error) {
	switch s {
	case "clip", "":
		return BalanceClip, nil
	case "scale":
		return BalanceScale, nil
	}
	return BalanceUnset, errors.New(errors.ErrCodeInvalidPeriodRequest, "unknown balance policy").WithDetail(s)
}

func (p BalancePolicy) String() string {
	switch p {
	case BalanceClip:
		return "clip"
	case BalanceScale:
		return "scale"
	}
	return "unset"
}

// Request describes one timeline computation.
type Request struct {
	Table  CycleTable
	Start  StartPoint
	Birth  time.Time
	Cycles int
	Depth  Level
}

// Engine computes period timelines.  It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	maxCycles int
	maxDepth  Level
	policy    BalancePolicy
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxCycles caps the number of cycles a request may ask for.
func WithMaxCycles(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxCycles = n
		}
	}
}

// WithMaxDepth caps the depth a request may ask for.
func WithMaxDepth(l Level) Option {
	return func(e *Engine) {
		if l.Valid() {
			e.maxDepth = l
		}
	}
}

// WithBalancePolicy selects how the birth period is subdivided.
func WithBalancePolicy(p BalancePolicy) Option {
	return func(e *Engine) {
		if p != BalanceUnset {
			e.policy = p
		}
	}
}

// NewEngine returns an engine allowing up to 10 cycles at any depth.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{maxCycles: 10, maxDepth: MaxLevel, policy: BalanceClip}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the configured balance policy.
func (e *Engine) Policy() BalancePolicy { return e.policy }

// ComputeFor computes the timeline of system s for chart c.
func (e *Engine) ComputeFor(s System, c *chart.Chart, cycles int, depth Level) (*Timeline, error) {
	d, err := Lookup(s)
	if err != nil {
		return nil, err
	}
	return e.Compute(Request{
		Table:  d.Table,
		Start:  d.Start(c.Moon().Longitude),
		Birth:  c.Birth(),
		Cycles: cycles,
		Depth:  depth,
	})
}

// Compute builds the period tree described by req.  The first top-level
// period is the balance of the starting entry; the remaining entries follow
// in table order for req.Cycles full cycles.  Every sub-period boundary is
// placed at start + floor(D*cum/total) on the millisecond grid, so siblings
// tile their parent with no gap and the last child ends exactly at the
// parent's end.
func (e *Engine) Compute(req Request) (*Timeline, error) {
	if err := e.validate(req); err != nil {
		return nil, err
	}

	t := req.Table
	n := len(t.Entries)
	birthMs := calendar.ToMillis(req.Birth)
	consumed, _ := Balance(t, req.Start)

	tl := &Timeline{
		table:    t,
		birth:    req.Birth,
		loc:      req.Birth.Location(),
		start:    req.Start,
		cycles:   req.Cycles,
		depth:    req.Depth,
		consumed: consumed,
		nodes:    make([]Node, 0, estimateNodes(n, req.Cycles, req.Depth)),
	}
	// Virtual spans differ from actual spans only for periods straddling
	// birth under BalanceClip.
	vStart := make([]int64, 0, cap(tl.nodes))

	cursor := birthMs - consumed
	if e.policy == BalanceScale {
		cursor = birthMs
	}
	for k := 0; k < req.Cycles*n; k++ {
		idx := (req.Start.Index + k) % n
		length := calendar.YearsToMillis(t.Entries[idx].Years)
		end := cursor + length
		if k == 0 {
			end = birthMs - consumed + length
		}
		tl.nodes = append(tl.nodes, Node{
			Entry:   uint8(idx),
			Level:   Mahadasha,
			StartMs: max(cursor, birthMs),
			EndMs:   end,
			Parent:  -1,
		})
		vStart = append(vStart, cursor)
		cursor = end
	}
	tl.levelStart[Mahadasha] = 0
	tl.levelStart[Mahadasha+1] = int32(len(tl.nodes))

	total := uint64(t.Total)
	for l := Antardasha; l <= req.Depth; l++ {
		lo, hi := tl.levelStart[l-1], tl.levelStart[l]
		for pi := lo; pi < hi; pi++ {
			parent := tl.nodes[pi]
			vs := vStart[pi]
			span := uint64(parent.EndMs - vs)
			first := int32(len(tl.nodes))
			var cum uint64
			for j := 0; j < n; j++ {
				idx := (int(parent.Entry) + j) % n
				cs := vs + mulDiv(span, cum, total)
				cum += uint64(t.Entries[idx].Years)
				ce := vs + mulDiv(span, cum, total)
				if cs < parent.StartMs && ce <= parent.StartMs {
					continue
				}
				tl.nodes = append(tl.nodes, Node{
					Entry:   uint8(idx),
					Level:   l,
					StartMs: max(cs, parent.StartMs),
					EndMs:   ce,
					Parent:  pi,
				})
				vStart = append(vStart, cs)
			}
			tl.nodes[pi].FirstChild = first
			tl.nodes[pi].ChildCount = int32(len(tl.nodes)) - first
		}
		tl.levelStart[l+1] = int32(len(tl.nodes))
	}
	return tl, nil
}

func (e *Engine) validate(req Request) error {
	if err := req.Table.Validate(); err != nil {
		return err
	}
	if len(req.Table.Entries) > math.MaxUint8 {
		return errors.New(errors.ErrCodeInvalidCycleTable, "cycle table has too many entries")
	}
	if err := calendar.ValidateBirth(req.Birth); err != nil {
		return err
	}
	if req.Start.Index < 0 || req.Start.Index >= len(req.Table.Entries) {
		return errors.New(errors.ErrCodeInvalidPeriodRequest, "start index outside the cycle table").
			WithDetail(fmt.Sprintf("index=%d entries=%d", req.Start.Index, len(req.Table.Entries)))
	}
	if f := req.Start.Fraction; math.IsNaN(f) || f < 0 || f >= 1 {
		return errors.New(errors.ErrCodeInvalidPeriodRequest, "start fraction outside [0,1)").
			WithDetail(fmt.Sprintf("fraction=%v", f))
	}
	if req.Cycles < 1 || req.Cycles > e.maxCycles {
		return errors.New(errors.ErrCodeInvalidPeriodRequest, "cycle count out of range").
			WithDetail(fmt.Sprintf("cycles=%d max=%d", req.Cycles, e.maxCycles))
	}
	if !req.Depth.Valid() || req.Depth > e.maxDepth {
		return errors.New(errors.ErrCodeInvalidPeriodRequest, "depth out of range").
			WithDetail(fmt.Sprintf("depth=%d max=%d", req.Depth, e.maxDepth))
	}
	return nil
}

// mulDiv returns floor(a*b/c) for b <= c without intermediate overflow.
func mulDiv(a, b, c uint64) int64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, c)
	return int64(q)
}

func estimateNodes(entries, cycles int, depth Level) int {
	total, width := 0, entries*cycles
	for l := Mahadasha; l <= depth; l++ {
		total += width
		width *= entries
	}
	return total
}

//Personal.AI order the ending
