package model

// StageKind distinguishes the three stage shapes by connectivity.
type StageKind string

const (
	SourceStageKind    StageKind = "source"
	TransformStageKind StageKind = "transform"
	SinkStageKind      StageKind = "sink"
)

// StageInfo describes one stage to pipeline options. Upstream is filled in
// when the stage is connected to its producer.
type StageInfo struct {
	Kind      StageKind
	Name      string
	Operators int
	Upstream  string
}
