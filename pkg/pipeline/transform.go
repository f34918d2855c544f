package pipeline

import (
	"time"

	"github.com/pkg/errors"

	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/model"
)

// TransformStage hosts a chain of operators that consume items of I and
// produce items of O. It has both an input and an output port.
type TransformStage[I, O any] struct {
	*stage
	inPort     *Handoff[I]
	outPort    *Handoff[O]
	inScratch  *I
	outScratch *O
	bindIn     func(*I)
	bindOut    func(*O)
}

// NewTransform creates a transform stage. The stage starts in step mode.
func NewTransform[I, O any](name string, opts ...StageOption) *TransformStage[I, O] {
	s := &TransformStage[I, O]{
		stage:      newStage(name, model.TransformStageKind, opts...),
		inScratch:  new(I),
		outScratch: new(O),
	}
	s.terminatePorts = func() {
		s.InputPort().Terminate()
		s.OutputPort().Terminate()
	}

	return s
}

// AddOperator appends op to the chain. Operators run in insertion order.
func (s *TransformStage[I, O]) AddOperator(op Operator) {
	s.addOperator(op)
}

// BindInput records the first operator's input slot so the stage can retarget
// it into the input scratch cell at each cycle. Required before Start.
func (s *TransformStage[I, O]) BindInput(op InputHolder[I]) {
	s.bindIn = op.SetInput
}

// BindOutput records the last operator's output slot. Required before Start.
func (s *TransformStage[I, O]) BindOutput(op OutputHolder[O]) {
	s.bindOut = op.SetOutput
}

// InputPort lazily creates and returns this stage's upstream buffer so a peer
// can attach to it.
func (s *TransformStage[I, O]) InputPort() *Handoff[I] {
	if s.inPort == nil {
		s.inPort = NewHandoff[I](s.name+"_input", s.log)
	}

	return s.inPort
}

// OutputPort lazily creates and returns this stage's downstream buffer so a
// peer can attach to it.
func (s *TransformStage[I, O]) OutputPort() *Handoff[O] {
	if s.outPort == nil {
		s.outPort = NewHandoff[O](s.name+"_output", s.log)
	}

	return s.outPort
}

// AttachInput adopts a buffer created by the upstream stage, releasing a
// lazily created one.
func (s *TransformStage[I, O]) AttachInput(h *Handoff[I]) {
	if h != nil {
		s.inPort = h
	}
}

// AttachOutput adopts a buffer created by the downstream stage, releasing a
// lazily created one.
func (s *TransformStage[I, O]) AttachOutput(h *Handoff[O]) {
	if h != nil {
		s.outPort = h
	}
}

// Start spawns the stage goroutine.
func (s *TransformStage[I, O]) Start() error {
	if s.bindIn == nil {
		return errors.Wrap(ErrInputNotBound, s.name)
	}
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

func (s *TransformStage[I, O]) run() {
	defer s.finish()

	for {
		if !s.awaitTurn() {
			return
		}
		iterStart := time.Now()

		cell, ok := s.InputPort().Receive(s.inScratch)
		if !ok {
			s.markEnding(CauseStopped)

			continue
		}
		s.inScratch = cell

		s.bindIn(s.inScratch)
		s.bindOut(s.outScratch)
		opStart := time.Now()
		s.invoke()
		opDur := time.Since(opStart)

		out, ok := s.OutputPort().Send(s.outScratch)
		if !ok {
			s.markEnding(CauseStopped)

			continue
		}
		s.outScratch = out
		s.report(time.Since(iterStart), opDur)
	}
}
