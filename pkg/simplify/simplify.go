// Package simplify reduces the net segments of a board to a canonical form
// without changing their electrical meaning: duplicate lines go away,
// coinciding net points are merged, vias and pads are joined to the
// geometry passing through them, and straight chains of lines become one
// line.
//
// All mutations of one run are collected in one undo group, so a run is a
// single undoable step and a failing run changes nothing.
package simplify

import (
	"errors"
	"fmt"
	"log/slog"

	"netsimplify/pkg/board"
	"netsimplify/pkg/geometry"
	"netsimplify/pkg/undo"
)

// Stats counts the changes made by a run.
type Stats struct {
	DuplicateLinesRemoved int
	NetPointsCombined     int
	LinesSplit            int
	ChainsCollapsed       int
}

func (s *Stats) add(o Stats) {
	s.DuplicateLinesRemoved += o.DuplicateLinesRemoved
	s.NetPointsCombined += o.NetPointsCombined
	s.LinesSplit += o.LinesSplit
	s.ChainsCollapsed += o.ChainsCollapsed
}

func (s Stats) IsZero() bool { return s == Stats{} }

type Result struct {
	// NetSignal is nil if nothing was found to simplify.
	NetSignal *board.NetSignal
	Segments  int
	Stats     Stats
}

type Simplifier struct {
	stack   *undo.Stack
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Simplifier)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simplifier) { s.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Simplifier) { s.metrics = m }
}

// New returns a Simplifier that records its changes on stack.
func New(stack *undo.Stack, opts ...Option) *Simplifier {
	s := &Simplifier{stack: stack, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GroupLabel is the undo label of a run over ns.
func GroupLabel(ns *board.NetSignal) string {
	return fmt.Sprintf("Simplify Traces of %q", ns.Name)
}

// SimplifyAt simplifies the net signal found at pos. If several net
// signals are found, the first by name wins. Finding nothing is not an
// error; the returned Result has a nil NetSignal.
func (s *Simplifier) SimplifyAt(b *board.Board, pos geometry.Point) (Result, error) {
	nets := FindNetSignals(b, pos)
	if len(nets) == 0 {
		s.logger.Debug("no net signal found", "board", b.Name(), "pos", pos)
		s.metrics.observe("nothing", Stats{})
		return Result{}, nil
	}
	if len(nets) > 1 {
		s.logger.Debug("several net signals found", "count", len(nets), "chosen", nets[0].Name)
	}
	return s.SimplifyNetSignal(b, nets[0])
}

// SimplifyNetSignal simplifies every segment of ns in one undo group.
func (s *Simplifier) SimplifyNetSignal(b *board.Board, ns *board.NetSignal) (Result, error) {
	return s.run(ns, b.SegmentsOf(ns))
}

// SimplifySegment simplifies a single segment in its own undo group.
func (s *Simplifier) SimplifySegment(seg *board.Segment) (Result, error) {
	return s.run(seg.NetSignal(), []*board.Segment{seg})
}

func (s *Simplifier) run(ns *board.NetSignal, segments []*board.Segment) (Result, error) {
	res := Result{NetSignal: ns, Segments: len(segments)}
	if ns == nil {
		return res, fmt.Errorf("%w: segment without net signal", board.ErrLogic)
	}
	label := GroupLabel(ns)
	if err := s.stack.BeginGroup(label); err != nil {
		return res, err
	}

	for _, seg := range segments {
		p := &pass{stack: s.stack, segment: seg}
		err := p.run()
		res.Stats.add(p.stats)
		if err != nil {
			err = fmt.Errorf("simplify segment %s: %w", seg.UUID(), err)
			if abortErr := s.stack.AbortGroup(); abortErr != nil {
				err = errors.Join(err, abortErr)
			}
			s.logger.Warn("simplification aborted", "net", ns.Name, "error", err)
			s.metrics.observe("error", Stats{})
			return Result{NetSignal: ns, Segments: len(segments)}, err
		}
		s.logger.Debug("segment simplified",
			"net", ns.Name,
			"segment", seg.UUID(),
			"duplicates", p.stats.DuplicateLinesRemoved,
			"combined", p.stats.NetPointsCombined,
			"split", p.stats.LinesSplit,
			"collapsed", p.stats.ChainsCollapsed)
	}

	if err := s.stack.CommitGroup(); err != nil {
		return res, err
	}
	s.metrics.observe("ok", res.Stats)
	s.logger.Info("net signal simplified", "net", ns.Name, "segments", len(segments), "changed", !res.Stats.IsZero())
	return res, nil
}
