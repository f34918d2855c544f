// Command imagepipe runs a four-stage image pipeline over a directory: scan
// the directory, decode each image, convert it to grayscale and save the
// result into an output directory with a filename suffix. Each stage runs on
// its own goroutine and hands frames to the next one through the single-slot
// buffers of the pipeline package.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/SaidZahrai/go-parallel-operators/log"
	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline"
	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/drawer"
	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/measure"
	"github.com/SaidZahrai/go-parallel-operators/pkg/pipeline/model"
)

func main() {
	pf := pflag.NewFlagSet(`imagepipe`, pflag.ExitOnError)
	cfgFile := pf.StringP("config", "c", "", "Path to config yaml file.")
	inputDir := pf.StringP("dir", "d", "", "Directory with images to process.")
	outputDir := pf.StringP("out", "o", "", "Output directory (default: <dir>_modified).")
	svgFile := pf.String("svg", "", "Write the pipeline topology to this DOT file.")
	skipPrompt := pf.BoolP("yes", "y", false, "Skip the confirmation prompt.")
	verbose := pf.BoolP("verbose", "v", false, "Log every control and data event.")
	_ = pf.Parse(os.Args[1:])

	cfg := DefaultConfig()
	if *cfgFile != "" {
		var err error
		cfg, err = ConfigFromFile(*cfgFile)
		if err != nil {
			fmt.Println("ERR:", err)
			os.Exit(1)
		}
	}
	if *inputDir != "" {
		cfg.InputDir = *inputDir
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *svgFile != "" {
		cfg.SVGFile = *svgFile
	}
	if *verbose {
		cfg.Verbose = true
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = strings.TrimRight(cfg.InputDir, "/") + cfg.Suffix
	}

	logger := log.NewNop()
	if cfg.Verbose {
		var err error
		logger, err = log.New(log.DevelopmentConfig())
		if err != nil {
			fmt.Println("ERR:", err)
			os.Exit(1)
		}
	}

	paths, err := listImages(cfg.InputDir)
	if err != nil {
		fmt.Println("ERR:", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Printf("No images found in %s\n", cfg.InputDir)
		os.Exit(1)
	}

	if !*skipPrompt && !confirm(len(paths), cfg.InputDir, cfg.OutputDir) {
		fmt.Println("Aborted.")
		os.Exit(0)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Println("ERR:", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	msr := measure.NewDefaultMeasure()
	opts := []model.PipelineOption{measure.PipelineMeasure(msr)}
	if cfg.SVGFile != "" {
		opts = append(opts, drawer.PipelineDrawer(drawer.NewSVGDrawer(cfg.SVGFile), msr))
	}

	saved, err := runPipeline(ctx, cfg, logger, opts, paths)
	if err != nil {
		fmt.Println("ERR:", err)
		os.Exit(1)
	}

	fmt.Printf("Processed %d of %d images into %s\n", saved, len(paths), cfg.OutputDir)
	for name, mt := range msr.AllMetrics() {
		fmt.Printf("  %-10s %4d items, avg %s\n", name, mt.Count(), mt.AVGDuration())
	}
}

func runPipeline(ctx context.Context, cfg Config, logger log.Logger, opts []model.PipelineOption, paths []string) (int, error) {
	pipe, err := pipeline.New(opts...)
	if err != nil {
		return 0, err
	}
	pipe.SetLogger(logger)
	pipe.DrainDelay = cfg.DrainDelay()

	scan := newScanSource("scan_op", paths)
	source := pipeline.NewSource[frame]("scan",
		pipeline.StageLogger(logger), pipeline.StageMode(pipeline.ModeContinuous))
	source.AddOperator(scan)
	source.BindOutput(scan)

	decode := newDecodeOp("decode_op", logger)
	decodeStage := pipeline.NewTransform[frame, frame]("decode",
		pipeline.StageLogger(logger), pipeline.StageMode(pipeline.ModeContinuous))
	decodeStage.AddOperator(decode)
	decodeStage.BindInput(decode)
	decodeStage.BindOutput(decode)

	gray := newGrayOp("gray_op")
	grayStage := pipeline.NewTransform[frame, frame]("gray",
		pipeline.StageLogger(logger), pipeline.StageMode(pipeline.ModeContinuous))
	grayStage.AddOperator(gray)
	grayStage.BindInput(gray)
	grayStage.BindOutput(gray)

	save := newSaveSink("save_op", cfg.OutputDir, cfg.Suffix, logger)
	sinkStage := pipeline.NewSink[frame]("save",
		pipeline.StageLogger(logger), pipeline.StageMode(pipeline.ModeContinuous))
	sinkStage.AddOperator(save)
	sinkStage.BindInput(save)

	if err := pipe.Add(source); err != nil {
		return 0, err
	}
	if err := pipe.Add(decodeStage); err != nil {
		return 0, err
	}
	if err := pipe.Add(grayStage); err != nil {
		return 0, err
	}
	if err := pipe.Add(sinkStage); err != nil {
		return 0, err
	}
	if err := pipeline.Connect[frame](pipe, source, decodeStage); err != nil {
		return 0, err
	}
	if err := pipeline.Connect[frame](pipe, decodeStage, grayStage); err != nil {
		return 0, err
	}
	if err := pipeline.Connect[frame](pipe, grayStage, sinkStage); err != nil {
		return 0, err
	}

	if err := pipe.Run(ctx); err != nil {
		return save.saved, err
	}

	return save.saved, nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	return paths, nil
}

func confirm(count int, inputDir, outputDir string) bool {
	fmt.Printf("Process %d images from %s into %s? [Yes/no] ", count, inputDir, outputDir)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.TrimSpace(line) {
	case "Yes", "yes", "y", "Y":
		return true
	}

	return false
}
