package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/measure"
	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m measure.Measure
}

func (pd *pipelineDrawer) New() error {
	return nil
}

func (pd *pipelineDrawer) PrepareStage(stage *model.StageInfo) error {
	err := pd.AddStage(stage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add stage to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareLink(from, to *model.StageInfo) error {
	err := pd.AddLink(from.Name, to.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add link to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) OnStageOutput(stage *model.StageInfo, iterationDuration, operationDuration time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) AfterStage(stage *model.StageInfo, totalDuration time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) Finish() error {
	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the pipeline chain once the run has finished. A
// non-nil measure overlays the per-stage and per-edge timings.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{drawer, measure}
}

var _ model.PipelineOption = (*pipelineDrawer)(nil)
