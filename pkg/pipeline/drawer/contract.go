package drawer

import (
	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStage adds a stage to the pipeline drawer.
	AddStage(stageName string) error
	// AddLink adds a link between a producer stage and its consumer.
	AddLink(fromStageName, toStageName string) error
	// Draw creates a file with the pipeline graph.
	Draw() error
	// AddMeasure overlays the collected metrics on the graph.
	AddMeasure(measure measure.Measure) error
}
