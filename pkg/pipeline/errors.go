package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrPipelineMustBeSet = errors.New("p must be set")
	ErrStageMustBeSet    = errors.New("stage must be set")
	ErrStageStarted      = errors.New("stage already started")
	ErrInputNotBound     = errors.New("first operator input slot not bound")
	ErrOutputNotBound    = errors.New("last operator output slot not bound")
	ErrStageNotAdded     = errors.New("stage not added to the pipeline")
)
