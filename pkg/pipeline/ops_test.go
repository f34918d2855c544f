package pipeline_test

import (
	"math"
	"sync"

	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline"
)

// counterSource emits start, start+1, ..., start+4 with StatusRunning, then
// start+5 with StatusComplete.
type counterSource struct {
	pipeline.SourceBase[int]
	counter int
	limit   int
}

func newCounterSource(name string, start int) *counterSource {
	return &counterSource{
		SourceBase: pipeline.NewSourceBase[int](name),
		counter:    start,
		limit:      start + 5,
	}
}

func (c *counterSource) Operation() pipeline.Status {
	out := c.Output()
	*out = c.counter
	if c.counter < c.limit {
		c.counter++

		return pipeline.StatusRunning
	}

	return pipeline.StatusComplete
}

// naturalSource emits 1..total, returning StatusComplete on the last value.
type naturalSource struct {
	pipeline.SourceBase[int]
	next  int
	total int
}

func newNaturalSource(name string, total int) *naturalSource {
	return &naturalSource{
		SourceBase: pipeline.NewSourceBase[int](name),
		next:       1,
		total:      total,
	}
}

func (n *naturalSource) Operation() pipeline.Status {
	*n.Output() = n.next
	if n.next == n.total {
		return pipeline.StatusComplete
	}
	n.next++

	return pipeline.StatusRunning
}

// collectSink records every received value and signals each arrival.
type collectSink struct {
	pipeline.SinkBase[float64]
	mu       sync.Mutex
	received []float64
	arrived  chan float64
}

func newCollectSink(name string) *collectSink {
	return &collectSink{
		SinkBase: pipeline.NewSinkBase[float64](name),
		arrived:  make(chan float64, 1024),
	}
}

func (s *collectSink) Operation() pipeline.Status {
	v := *s.Input()
	s.mu.Lock()
	s.received = append(s.received, v)
	s.mu.Unlock()
	s.arrived <- v

	return pipeline.StatusRunning
}

func (s *collectSink) values() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]float64(nil), s.received...)
}

func (s *collectSink) last() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.received) == 0 {
		return 0
	}

	return s.received[len(s.received)-1]
}

// multiply scales an int input into a float64 output.
type multiply struct {
	pipeline.TransformBase[int, float64]
	factor float64
}

func newMultiply(name string, factor float64) *multiply {
	return &multiply{
		TransformBase: pipeline.NewTransformBase[int, float64](name),
		factor:        factor,
	}
}

func (m *multiply) Operation() pipeline.Status {
	*m.Output() = m.factor * float64(*m.Input())

	return pipeline.StatusRunning
}

// divFloor divides and floors a float64.
type divFloor struct {
	pipeline.TransformBase[float64, float64]
	divisor float64
}

func newDivFloor(name string, divisor float64) *divFloor {
	return &divFloor{
		TransformBase: pipeline.NewTransformBase[float64, float64](name),
		divisor:       divisor,
	}
}

func (d *divFloor) Operation() pipeline.Status {
	*d.Output() = math.Floor(*d.Input() / d.divisor)

	return pipeline.StatusRunning
}

// addConst adds a constant to a float64.
type addConst struct {
	pipeline.TransformBase[float64, float64]
	constant float64
}

func newAddConst(name string, constant float64) *addConst {
	return &addConst{
		TransformBase: pipeline.NewTransformBase[float64, float64](name),
		constant:      constant,
	}
}

func (a *addConst) Operation() pipeline.Status {
	*a.Output() = a.constant + *a.Input()

	return pipeline.StatusRunning
}

// divide divides a float64.
type divide struct {
	pipeline.TransformBase[float64, float64]
	divisor float64
}

func newDivide(name string, divisor float64) *divide {
	return &divide{
		TransformBase: pipeline.NewTransformBase[float64, float64](name),
		divisor:       divisor,
	}
}

func (d *divide) Operation() pipeline.Status {
	*d.Output() = *d.Input() / d.divisor

	return pipeline.StatusRunning
}

// identity passes an int through unchanged, as a float64-free transform.
type identity struct {
	pipeline.TransformBase[int, int]
}

func newIdentity(name string) *identity {
	return &identity{TransformBase: pipeline.NewTransformBase[int, int](name)}
}

func (i *identity) Operation() pipeline.Status {
	*i.Output() = *i.Input()

	return pipeline.StatusRunning
}

// intSink records ints and the distinct slot addresses it observed, which the
// zero-copy tests count.
type intSink struct {
	pipeline.SinkBase[int]
	mu        sync.Mutex
	received  []int
	addresses map[*int]struct{}
	arrived   chan int
}

func newIntSink(name string) *intSink {
	return &intSink{
		SinkBase:  pipeline.NewSinkBase[int](name),
		addresses: make(map[*int]struct{}),
		arrived:   make(chan int, 1024),
	}
}

func (s *intSink) Operation() pipeline.Status {
	in := s.Input()
	s.mu.Lock()
	s.received = append(s.received, *in)
	s.addresses[in] = struct{}{}
	s.mu.Unlock()
	s.arrived <- *in

	return pipeline.StatusRunning
}

func (s *intSink) values() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]int(nil), s.received...)
}

func (s *intSink) distinctAddresses() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.addresses)
}

// failing reports StatusError on its first invocation.
type failing struct {
	pipeline.TransformBase[int, int]
}

func newFailing(name string) *failing {
	return &failing{TransformBase: pipeline.NewTransformBase[int, int](name)}
}

func (f *failing) Operation() pipeline.Status {
	*f.Output() = *f.Input()

	return pipeline.StatusError
}

// panicking panics on every invocation.
type panicking struct {
	pipeline.TransformBase[int, int]
}

func newPanicking(name string) *panicking {
	return &panicking{TransformBase: pipeline.NewTransformBase[int, int](name)}
}

func (p *panicking) Operation() pipeline.Status {
	panic("operator blew up")
}
