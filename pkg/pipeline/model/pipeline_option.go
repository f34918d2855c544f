package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	// PrepareStage runs when a stage is registered with the pipeline.
	PrepareStage(stage *StageInfo) error
	// PrepareLink runs when two stages are joined through a hand-off buffer.
	PrepareLink(from, to *StageInfo) error
	// OnStageOutput runs everytime a stage finishes one iteration.
	OnStageOutput(stage *StageInfo, iterationDuration, operationDuration time.Duration) error
	// AfterStage runs once a stage has terminated.
	AfterStage(stage *StageInfo, totalDuration time.Duration) error

	// Finish runs after the whole pipeline has terminated.
	Finish() error
}
