package pipeline

import (
	"sync"
	"time"

	"github.com/SaidZahrai/go-parallel-operators/log"
	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/model"
)

// Mode is the execution pacing of a stage.
type Mode int

const (
	// ModeStep advances the stage one iteration per control message.
	ModeStep Mode = iota
	// ModeContinuous lets the stage run as fast as its ports allow.
	ModeContinuous
)

func (m Mode) String() string {
	if m == ModeContinuous {
		return "continuous"
	}

	return "step"
}

// Cause is the terminal cause attached to a stage's completion.
type Cause int

const (
	// CauseNormal means an operator reported StatusComplete.
	CauseNormal Cause = iota
	// CauseError means an operator reported StatusError or panicked.
	CauseError
	// CauseStopped means the stage was stopped from outside, or one of its
	// ports terminated under it.
	CauseStopped
)

func (c Cause) String() string {
	switch c {
	case CauseNormal:
		return "normal"
	case CauseError:
		return "error"
	case CauseStopped:
		return "stopped"
	}

	return "unknown"
}

// Stage is the non-generic surface shared by the three stage shapes, used by
// the pipeline assembly.
type Stage interface {
	Name() string
	Info() *model.StageInfo
	// Start spawns the stage goroutine. The stage must be fully configured:
	// operators added, slots bound, ports joined.
	Start() error
	// Send records a new execution mode and counts as one step command, so a
	// single message both switches the mode and advances a stepping stage.
	Send(mode Mode)
	// Stop asks the stage to exit and terminates its attached buffers. It is
	// idempotent and returns without waiting.
	Stop()
	// Wait blocks until the stage goroutine has left its loop and returns the
	// terminal cause.
	Wait() Cause
}

// stage carries the control state common to the three executor shapes. The
// control fields are guarded by mu; the stage goroutine alone touches the
// scratch cells and operator slots of the embedding type.
type stage struct {
	name string
	info *model.StageInfo
	ops  []Operator
	log  log.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	mode    Mode
	pending bool
	ending  bool
	cause   Cause
	started bool

	completed bool

	done       chan struct{}
	finishOnce sync.Once
	startTime  time.Time
	hooks      []model.PipelineOption

	// terminatePorts is installed by the embedding type before Start so that
	// Stop can release both attached buffers without knowing their types.
	terminatePorts func()
}

func newStage(name string, kind model.StageKind, opts ...StageOption) *stage {
	s := &stage{
		name: name,
		info: &model.StageInfo{Kind: kind, Name: name},
		log:  log.NewNop(),
		done: make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the stage name.
func (s *stage) Name() string { return s.name }

// Info describes the stage to pipeline options.
func (s *stage) Info() *model.StageInfo { return s.info }

// Send records the new mode, flags a pending command and releases a stepping
// stage. Sending the current mode is a no-op except for that step advance.
func (s *stage) Send(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debugf("%s: mode command %s", s.name, mode)
	s.mode = mode
	s.pending = true
	s.cond.Signal()
}

// Stop requests shutdown and terminates both attached buffers, releasing the
// stage from any blocking send or receive.
func (s *stage) Stop() {
	s.markEnding(CauseStopped)
	if s.terminatePorts != nil {
		s.terminatePorts()
	}
}

// Wait blocks until the completion signal fires, then returns the cause.
func (s *stage) Wait() Cause {
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cause
}

// addOperator appends op to the chain. Operators run in insertion order.
// Permitted only before Start.
func (s *stage) addOperator(op Operator) {
	s.ops = append(s.ops, op)
	s.info.Operators = len(s.ops)
}

// attach hands the pipeline options to the stage so the loop can report
// per-iteration timings. Called by Pipeline.Add before Start.
func (s *stage) attach(hooks []model.PipelineOption) {
	s.hooks = hooks
}

// markEnding flips the stage into its draining state. The first terminal
// event wins the cause; later ones only re-notify the waiters.
func (s *stage) markEnding(cause Cause) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ending {
		s.ending = true
		s.cause = cause
		s.log.Debugf("%s: ending, cause %s", s.name, cause)
	}
	s.cond.Broadcast()
}

// markStarted flags the goroutine spawn, refusing a second Start.
func (s *stage) markStarted() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrStageStarted
	}
	s.started = true
	s.startTime = time.Now()

	return nil
}

// awaitTurn performs the control half of one iteration: in step mode it waits
// for a pending command, then reports whether the loop may run the data half.
// A false return means the stage must exit.
func (s *stage) awaitTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeStep && !s.ending {
		s.log.Debugf("%s: waiting for command", s.name)
		for !s.pending && !s.ending {
			s.cond.Wait()
		}
		s.pending = false
	}

	return !s.ending
}

// invoke runs the operator chain once. StatusComplete is sticky at stage
// level; StatusError is recorded and treated as completion with CauseError.
// A panicking operator is converted to StatusError and the loop keeps the
// scratch cells valid for the publish that follows.
func (s *stage) invoke() {
	errored := false
	for _, op := range s.ops {
		switch s.invokeOne(op) {
		case StatusComplete:
			s.completed = true
		case StatusError:
			s.completed = true
			errored = true
		case StatusRunning:
		}
	}
	if s.completed {
		if errored {
			s.markEnding(CauseError)
		} else {
			s.markEnding(CauseNormal)
		}
	}
}

func (s *stage) invokeOne(op Operator) (status Status) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("%s: operator %s panicked: %v", s.name, op.Name(), r)
			status = StatusError
		}
	}()

	return op.Operation()
}

// report feeds one finished iteration to the pipeline options.
func (s *stage) report(iterationDuration, operationDuration time.Duration) {
	for _, hook := range s.hooks {
		err := hook.OnStageOutput(s.info, iterationDuration, operationDuration)
		if err != nil {
			s.log.Warnf("%s: stage output hook: %v", s.name, err)
		}
	}
}

// finish fires the completion signal exactly once, after the goroutine has
// left its loop.
func (s *stage) finish() {
	s.finishOnce.Do(func() {
		total := time.Since(s.startTime)
		for _, hook := range s.hooks {
			err := hook.AfterStage(s.info, total)
			if err != nil {
				s.log.Warnf("%s: after stage hook: %v", s.name, err)
			}
		}
		s.log.Debugf("%s: loop completed", s.name)
		close(s.done)
	})
}
