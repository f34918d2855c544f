package pipeline

import (
	"time"

	"github.com/pkg/errors"

	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/model"
)

// SourceStage hosts a chain of operators that produce items of O. It has an
// output port and no input port.
type SourceStage[O any] struct {
	*stage
	outPort *Handoff[O]
	scratch *O
	bindOut func(*O)
}

// NewSource creates a source stage. The stage starts in step mode.
func NewSource[O any](name string, opts ...StageOption) *SourceStage[O] {
	s := &SourceStage[O]{
		stage:   newStage(name, model.SourceStageKind, opts...),
		scratch: new(O),
	}
	s.terminatePorts = func() { s.OutputPort().Terminate() }

	return s
}

// AddOperator appends op to the chain. Operators run in insertion order.
func (s *SourceStage[O]) AddOperator(op Operator) {
	s.addOperator(op)
}

// BindOutput records the last operator's output slot so the stage can
// retarget it into the output scratch cell at each cycle. Required before
// Start.
func (s *SourceStage[O]) BindOutput(op OutputHolder[O]) {
	s.bindOut = op.SetOutput
}

// OutputPort lazily creates and returns this stage's downstream buffer so a
// peer can attach to it.
func (s *SourceStage[O]) OutputPort() *Handoff[O] {
	if s.outPort == nil {
		s.outPort = NewHandoff[O](s.name+"_output", s.log)
	}

	return s.outPort
}

// AttachOutput adopts a buffer created by the downstream stage, releasing a
// lazily created one.
func (s *SourceStage[O]) AttachOutput(h *Handoff[O]) {
	if h != nil {
		s.outPort = h
	}
}

// Start spawns the stage goroutine.
func (s *SourceStage[O]) Start() error {
	if s.bindOut == nil {
		return errors.Wrap(ErrOutputNotBound, s.name)
	}
	if err := s.markStarted(); err != nil {
		return errors.Wrap(err, s.name)
	}
	s.log.Debugf("%s: starting", s.name)
	go s.run()

	return nil
}

func (s *SourceStage[O]) run() {
	defer s.finish()

	for {
		if !s.awaitTurn() {
			return
		}
		iterStart := time.Now()

		s.bindOut(s.scratch)
		opStart := time.Now()
		s.invoke()
		opDur := time.Since(opStart)

		cell, ok := s.OutputPort().Send(s.scratch)
		if !ok {
			s.markEnding(CauseStopped)

			continue
		}
		s.scratch = cell
		s.report(time.Since(iterStart), opDur)
	}
}
