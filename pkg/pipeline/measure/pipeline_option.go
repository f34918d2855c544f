package measure

import (
	"time"

	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	return nil
}

func (pm *pipelineMeasure) PrepareStage(stage *model.StageInfo) error {
	pm.AddMetric(stage.Name)

	return nil
}

func (pm *pipelineMeasure) PrepareLink(from, to *model.StageInfo) error {
	return nil
}

func (pm *pipelineMeasure) OnStageOutput(stage *model.StageInfo, iterationDuration, operationDuration time.Duration) error {
	mt := pm.GetMetric(stage.Name)
	if mt == nil {
		return nil
	}
	mt.AddDuration(operationDuration)
	if stage.Upstream != "" {
		mt.AddTransportDuration(stage.Upstream, iterationDuration)
	}

	return nil
}

func (pm *pipelineMeasure) AfterStage(stage *model.StageInfo, totalDuration time.Duration) error {
	mt := pm.GetMetric(stage.Name)
	if mt == nil {
		return nil
	}
	mt.SetTotalDuration(totalDuration)

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	return nil
}

// PipelineMeasure attaches measure to every stage of a pipeline.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure}
}

var _ model.PipelineOption = (*pipelineMeasure)(nil)
