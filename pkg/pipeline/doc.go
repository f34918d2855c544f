// Package pipeline provides a backbone for staged, multi-threaded data
// processing. A pipeline is a linear chain of stages, each hosting an ordered
// list of user-defined operators on its own goroutine. Adjacent stages are
// coupled by a single-slot hand-off buffer that transfers ownership of one
// item at a time by swapping cell handles, so payloads move through the chain
// without being copied.
//
// Stages come in three shapes: a source produces items, a transform consumes
// and produces, and a sink consumes. Operators inside one stage run strictly
// sequentially on the stage goroutine, so they never need their own
// synchronisation. Between stages, the hand-off buffer provides both the data
// path and the pairwise synchronisation: a slow consumer blocks its producer
// and a slow producer blocks its consumer.
//
// Each stage is paced independently. In continuous mode it runs as fast as
// its ports allow; in step mode it advances one iteration per control
// message. An operator reports Complete to terminate its stage gracefully,
// and the owner drives the rest of the shutdown as a cascade of Stop calls
// from source to sink.
package pipeline
