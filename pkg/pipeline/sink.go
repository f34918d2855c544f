package pipeline

import (
	"time"

	"github.com/pkg/errors"

	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/model"
)

// SinkStage hosts a chain of operators that consume items of I. It has an
// input port and no output port. An item counts as consumed once the last
// operator's invocation returns.
type SinkStage[I any] struct {
	*stage
	inPort  *Handoff[I]
	scratch *I
	bindIn  func(*I)
}

// NewSink creates a sink stage. The stage starts in step mode.
func NewSink[I any](name string, opts ...StageOption) *SinkStage[I] {
	s := &SinkStage[I]{
		stage:   newStage(name, model.SinkStageKind, opts...),
		scratch: new(I),
	}
	s.terminatePorts = func() { s.InputPort().Terminate() }

	return s
}

// AddOperator appends op to the chain. Operators run in insertion order.
func (s *SinkStage[I]) AddOperator(op Operator) {
	s.addOperator(op)
}

// BindInput records the first operator's input slot so the stage can retarget
// it into the input scratch cell at each cycle. Required before Start.
func (s *SinkStage[I]) BindInput(op InputHolder[I]) {
	s.bindIn = op.SetInput
}

// InputPort lazily creates and returns this stage's upstream buffer so a peer
// can attach to it.
func (s *SinkStage[I]) InputPort() *Handoff[I] {
	if s.inPort == nil {
		s.inPort = NewHandoff[I](s.name+"_input", s.log)
	}

	return s.inPort
}

// AttachInput adopts a buffer created by the upstream stage, releasing a
// lazily created one.
func (s *SinkStage[I]) AttachInput(h *Handoff[I]) {
	if h != nil {
		s.inPort = h
	}
}

// Start spawns the stage goroutine.
func (s *SinkStage[I]) Start() error {
	if s.bindIn == nil {
		return errors.Wrap(ErrInputNotBound, s.name)
	}
	if err := s.markStarted(); err != nil {
		return errors.Wrap(err, s.name)
	}
	s.log.Debugf("%s: starting", s.name)
	go s.run()

	return nil
}

func (s *SinkStage[I]) run() {
	defer s.finish()

	for {
		if !s.awaitTurn() {
			return
		}
		iterStart := time.Now()

		cell, ok := s.InputPort().Receive(s.scratch)
		if !ok {
			s.markEnding(CauseStopped)

			continue
		}
		s.scratch = cell

		s.bindIn(s.scratch)
		opStart := time.Now()
		s.invoke()
		opDur := time.Since(opStart)

		s.report(time.Since(iterStart), opDur)
	}
}
