package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"croprec/config"
	"croprec/logging"
	"croprec/ml"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	defaults := ml.DefaultFeatures()
	flags := flag.NewFlagSet("recommend", flag.ContinueOnError)
	configPath := flags.String("config", config.DefaultPath, "path to config.yaml")
	ph := flags.Float64("ph", defaults.Ph, "soil pH, 0-14")
	k := flags.Float64("k", defaults.K, "potassium, 0-300")
	p := flags.Float64("p", defaults.P, "phosphorus, 0-300")
	n := flags.Float64("n", defaults.N, "nitrogen, 0-300")
	verbose := flags.Bool("v", false, "print confidence and class index")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(config.Find(*configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	artifacts, err := ml.NewArtifactStore(cfg.Artifacts).Load()
	if err != nil {
		return fmt.Errorf("failed to load artifacts: %w", err)
	}
	if artifacts.IsPlaceholder() {
		logger.Warn("placeholder artifacts loaded, recommendation is not from a fitted model",
			zap.Any("artifacts", artifacts.Placeholders))
	}
	pipeline, err := ml.NewPipeline(artifacts)
	if err != nil {
		return err
	}

	input := ml.FeatureVector{Ph: *ph, K: *k, P: *p, N: *n}.Clamp()
	rec, err := pipeline.Recommend(input)
	if err != nil {
		logger.Error("recommendation failed", zap.Any("input", input), zap.Error(err))
		return err
	}
	logger.Debug("recommended crop", zap.Any("input", input), zap.String("crop", rec.Crop))

	if *verbose {
		fmt.Fprintf(stdout, "Ph=%.2f K=%.2f P=%.2f N=%.2f\n", input.Ph, input.K, input.P, input.N)
		fmt.Fprintf(stdout, "%s (class %d, confidence %.2f)\n", rec.Crop, rec.Class, rec.Confidence)
		return nil
	}
	fmt.Fprintln(stdout, rec.Crop)
	return nil
}
