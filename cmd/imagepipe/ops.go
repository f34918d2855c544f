package main

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/SaidZahrai/go-parallel-operators/log"
	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline"
)

// frame is the item type flowing through the pipeline. The zero value is a
// valid stand-in, which is what the hand-off buffers circulate before the
// first real frame arrives.
type frame struct {
	path string
	img  image.Image
}

// scanSource emits one image path per invocation and reports Complete on the
// last one.
type scanSource struct {
	pipeline.SourceBase[frame]
	paths []string
	next  int
}

func newScanSource(name string, paths []string) *scanSource {
	return &scanSource{
		SourceBase: pipeline.NewSourceBase[frame](name),
		paths:      paths,
	}
}

func (s *scanSource) Operation() pipeline.Status {
	out := s.Output()
	*out = frame{path: s.paths[s.next]}
	s.next++
	if s.next == len(s.paths) {
		return pipeline.StatusComplete
	}

	return pipeline.StatusRunning
}

// decodeOp reads the file named by the incoming frame and decodes it. A frame
// that fails to decode travels on without pixels and the sink skips it.
type decodeOp struct {
	pipeline.TransformBase[frame, frame]
	log log.Logger
}

func newDecodeOp(name string, l log.Logger) *decodeOp {
	return &decodeOp{
		TransformBase: pipeline.NewTransformBase[frame, frame](name),
		log:           l,
	}
}

func (d *decodeOp) Operation() pipeline.Status {
	in := d.Input()
	out := d.Output()
	*out = frame{path: in.path}

	file, err := os.Open(in.path)
	if err != nil {
		d.log.Warnf("unable to open %s: %v", in.path, err)

		return pipeline.StatusRunning
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		d.log.Warnf("unable to decode %s: %v", in.path, err)

		return pipeline.StatusRunning
	}
	out.img = img

	return pipeline.StatusRunning
}

// grayOp converts the frame to grayscale. The original app ran its cascade
// classifier here; any per-frame transform slots into this position.
type grayOp struct {
	pipeline.TransformBase[frame, frame]
}

func newGrayOp(name string) *grayOp {
	return &grayOp{TransformBase: pipeline.NewTransformBase[frame, frame](name)}
}

func (g *grayOp) Operation() pipeline.Status {
	in := g.Input()
	out := g.Output()
	*out = *in
	if in.img == nil {
		return pipeline.StatusRunning
	}

	bounds := in.img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, in.img.At(x, y))
		}
	}
	out.img = gray

	return pipeline.StatusRunning
}

// saveSink encodes each frame into the output directory under the original
// name plus the configured suffix.
type saveSink struct {
	pipeline.SinkBase[frame]
	outputDir string
	suffix    string
	log       log.Logger
	saved     int
}

func newSaveSink(name, outputDir, suffix string, l log.Logger) *saveSink {
	return &saveSink{
		SinkBase:  pipeline.NewSinkBase[frame](name),
		outputDir: outputDir,
		suffix:    suffix,
		log:       l,
	}
}

func (s *saveSink) Operation() pipeline.Status {
	in := s.Input()
	if in.img == nil {
		return pipeline.StatusRunning
	}

	base := filepath.Base(in.path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + s.suffix + ext
	target := filepath.Join(s.outputDir, name)

	file, err := os.Create(target)
	if err != nil {
		s.log.Warnf("unable to create %s: %v", target, err)

		return pipeline.StatusRunning
	}
	defer file.Close()

	switch strings.ToLower(ext) {
	case ".png":
		err = png.Encode(file, in.img)
	default:
		err = jpeg.Encode(file, in.img, nil)
	}
	if err != nil {
		s.log.Warnf("unable to encode %s: %v", target, err)

		return pipeline.StatusRunning
	}
	s.saved++
	s.log.Infof("saved %s", target)

	return pipeline.StatusRunning
}
