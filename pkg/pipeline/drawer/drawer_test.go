package drawer_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/drawer"
	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/measure"
	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/model"
)

func TestSVGDrawerDraw(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "chain.svg")
	d := drawer.NewSVGDrawer(file)

	require.NoError(t, d.AddStage("source"))
	require.NoError(t, d.AddStage("sink"))
	require.NoError(t, d.AddLink("source", "sink"))
	require.NoError(t, d.Draw())

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "digraph")
	assert.Contains(t, string(content), `"source"`)
	assert.Contains(t, string(content), `"sink"`)
}

func TestSVGDrawerWithMeasure(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "measured.svg")
	d := drawer.NewSVGDrawer(file)

	require.NoError(t, d.AddStage("source"))
	require.NoError(t, d.AddStage("sink"))
	require.NoError(t, d.AddLink("source", "sink"))

	msr := measure.NewDefaultMeasure()
	mt := msr.AddMetric("sink")
	mt.AddDuration(4 * time.Millisecond)
	mt.AddTransportDuration("source", 6*time.Millisecond)

	require.NoError(t, d.AddMeasure(msr))
	require.NoError(t, d.Draw())

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "6ms")
}

func TestSVGDrawerEmptyMeasure(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "empty.svg")
	d := drawer.NewSVGDrawer(file)
	require.NoError(t, d.AddStage("only"))

	msr := measure.NewDefaultMeasure()
	msr.AddMetric("only")
	require.NoError(t, d.AddMeasure(msr))
	require.NoError(t, d.Draw())
}

func TestPipelineDrawerOption(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "option.svg")
	opt := drawer.PipelineDrawer(drawer.NewSVGDrawer(file), nil)
	require.NoError(t, opt.New())

	src := &model.StageInfo{Kind: model.SourceStageKind, Name: "source"}
	snk := &model.StageInfo{Kind: model.SinkStageKind, Name: "sink"}
	require.NoError(t, opt.PrepareStage(src))
	require.NoError(t, opt.PrepareStage(snk))
	require.NoError(t, opt.PrepareLink(src, snk))
	require.NoError(t, opt.Finish())

	_, err := os.Stat(file)
	assert.NoError(t, err)
}
