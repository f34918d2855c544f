package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/SaidZahrai/go-parallel-operators/internal/chain"
	"github.com/SaidZahrai/go-parallel-operators/log"
	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/model"
)

// Pipeline assembles stages into a linear chain. It is a wiring surface, not
// a runtime entity: the stages own their goroutines and buffers; the pipeline
// records the topology, forwards it to options such as the measure and the
// drawer, and drives the ordered shutdown cascade.
type Pipeline struct {
	opts   []model.PipelineOption
	stages map[string]Stage
	chain  *chain.Registry
	log    log.Logger

	// DrainDelay is the pause between successive Stop calls during the
	// shutdown cascade, letting in-flight items drain through the normal
	// send/receive path instead of being discarded by termination.
	DrainDelay time.Duration
}

// New creates a new pipeline.
func New(opts ...model.PipelineOption) (*Pipeline, error) {
	p := &Pipeline{
		opts:       opts,
		stages:     make(map[string]Stage),
		chain:      chain.New(),
		log:        log.NewNop(),
		DrainDelay: 500 * time.Millisecond,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return p, nil
}

// SetLogger attaches a logger for assembly and shutdown diagnostics.
func (p *Pipeline) SetLogger(l log.Logger) {
	if l != nil {
		p.log = l
	}
}

// Add registers a stage with the pipeline.
func (p *Pipeline) Add(s Stage) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	if s == nil {
		return ErrStageMustBeSet
	}
	err := p.chain.AddStage(s.Name())
	if err != nil {
		return err
	}
	p.stages[s.Name()] = s
	if att, ok := s.(interface{ attach(hooks []model.PipelineOption) }); ok {
		att.attach(p.opts)
	}

	for _, opt := range p.opts {
		err := opt.PrepareStage(s.Info())
		if err != nil {
			return errors.Wrap(err, "unable to prepare stage")
		}
	}

	return nil
}

// OutputStage is a stage with a T-typed downstream port.
type OutputStage[T any] interface {
	Stage
	OutputPort() *Handoff[T]
}

// InputStage is a stage that can adopt a T-typed upstream buffer.
type InputStage[T any] interface {
	Stage
	AttachInput(h *Handoff[T])
}

// Connect joins two stages through one hand-off buffer: the producer's port
// is created or reused, and the consumer attaches to it. Both stages must
// already be added; the link must keep the chain linear and acyclic.
func Connect[T any](p *Pipeline, from OutputStage[T], to InputStage[T]) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	err := p.chain.AddLink(from.Name(), to.Name())
	if err != nil {
		return errors.Wrap(err, "unable to link stages")
	}
	to.AttachInput(from.OutputPort())
	to.Info().Upstream = from.Name()

	for _, opt := range p.opts {
		err := opt.PrepareLink(from.Info(), to.Info())
		if err != nil {
			return errors.Wrap(err, "unable to prepare link")
		}
	}

	return nil
}

// Start spawns every stage goroutine, source to sink.
func (p *Pipeline) Start() error {
	for _, name := range p.chain.Order() {
		err := p.stages[name].Start()
		if err != nil {
			return errors.Wrapf(err, "unable to start stage %s", name)
		}
	}
	p.log.Debugf("pipeline: %d stages started", len(p.stages))

	return nil
}

// Wait blocks until every stage has terminated, then runs the options'
// Finish hooks. It returns an error if any stage terminated with CauseError.
func (p *Pipeline) Wait(ctx context.Context) error {
	grp, _ := errgroup.WithContext(ctx)
	for _, name := range p.chain.Order() {
		stg := p.stages[name]
		grp.Go(func() error {
			done := make(chan Cause, 1)
			go func() { done <- stg.Wait() }()
			select {
			case <-ctx.Done():
				return errors.Wrapf(ctx.Err(), "%s", stg.Name())
			case cause := <-done:
				if cause == CauseError {
					return errors.Errorf("stage %s terminated with error", stg.Name())
				}

				return nil
			}
		})
	}
	err := grp.Wait()
	if err != nil {
		return err
	}

	return p.finishRun()
}

// Shutdown stops every stage in source-to-sink order, pausing DrainDelay
// between successive stops so in-flight items drain, then waits for each
// stage to leave its loop.
func (p *Pipeline) Shutdown() {
	order := p.chain.Order()
	for i, name := range order {
		p.log.Debugf("pipeline: stopping %s", name)
		p.stages[name].Stop()
		if i < len(order)-1 && p.DrainDelay > 0 {
			time.Sleep(p.DrainDelay)
		}
	}
	for _, name := range order {
		p.stages[name].Wait()
	}
}

// Run starts every stage, waits for the head of the chain to terminate (in a
// typical run the source completes first), pauses DrainDelay so the head's
// last item leaves its output buffer, then drives the shutdown cascade and
// waits for the remaining stages.
func (p *Pipeline) Run(ctx context.Context) error {
	err := p.Start()
	if err != nil {
		return err
	}
	order := p.chain.Order()
	if len(order) == 0 {
		return p.finishRun()
	}

	head := p.stages[order[0]]
	done := make(chan Cause, 1)
	go func() { done <- head.Wait() }()
	select {
	case <-ctx.Done():
		p.Shutdown()

		return errors.Wrap(ctx.Err(), "pipeline cancelled")
	case <-done:
	}
	if p.DrainDelay > 0 {
		time.Sleep(p.DrainDelay)
	}
	p.Shutdown()

	return p.Wait(ctx)
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
