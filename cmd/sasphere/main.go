package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/facette/natsort"

	"github.com/wildstyl3r/sasphere/internal/config"
	"github.com/wildstyl3r/sasphere/internal/iqplot"
	"github.com/wildstyl3r/sasphere/internal/model"
	"github.com/wildstyl3r/sasphere/internal/utils"
	"github.com/wildstyl3r/sasphere/internal/watch"
)

type options struct {
	configFileName string
	threads        int
	verbose        bool
	plot           bool
}

func main() {
	dataFlags := model.NewDataFlags(flag.CommandLine)
	var configFileNamePointer = flag.String("input", "sphere", "model configuration in toml format")
	var threads = flag.Int("threads", runtime.NumCPU(), "number of q evaluation workers")
	var verbose = flag.Bool("v", false, "print per-model details")
	var plot = flag.Bool("plot", false, "save a log-log plot of I(q) for all models")
	var watchConfig = flag.Bool("watch", false, "re-evaluate whenever the configuration file changes")
	flag.Parse()

	opts := options{
		configFileName: strings.TrimSuffix(*configFileNamePointer, ".toml") + ".toml",
		threads:        *threads,
		verbose:        *verbose,
		plot:           *plot,
	}

	if err := evaluate(opts, dataFlags); err != nil {
		if !*watchConfig {
			log.Fatalln(err)
		}
		log.Println(err)
	}
	if !*watchConfig {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w, err := watch.NewWatcher([]string{filepath.Ext(opts.configFileName)})
	if err != nil {
		log.Fatalln(err)
	}
	defer w.Stop()
	changed, err := w.Watch(ctx, filepath.Dir(opts.configFileName))
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Printf("watching %s\n", opts.configFileName)
	for path := range changed {
		if filepath.Clean(path) != filepath.Clean(opts.configFileName) {
			continue
		}
		if err := evaluate(opts, dataFlags); err != nil {
			log.Println(err)
		}
	}
}

func evaluate(opts options, dataFlags model.DataFlags) error {
	startTime := time.Now()
	fmt.Printf("Current time: %s\n", startTime.UTC().Format(time.UnixDate))

	cfg, meta, err := config.LoadConfig(opts.configFileName)
	if err != nil {
		return err
	}

	outputPath := ""
	if cfg.OutputDir != "" && cfg.OutputDir != "." {
		if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
			return err
		}
		outputPath = cfg.OutputDir
	}
	dataFlags.SetOutputPath(outputPath)

	modelNames := make([]string, 0, len(cfg.Models))
	for modelName := range cfg.Models {
		modelNames = append(modelNames, modelName)
	}
	sort.Slice(modelNames, func(i, j int) bool {
		return natsort.Compare(modelNames[i], modelNames[j])
	})

	var summary utils.CSV
	var curves []iqplot.Curve
	for _, modelName := range modelNames {
		fmt.Println("\n" + modelName)
		parameters := cfg.Models[modelName]
		parameters.SetVerbosity(opts.verbose)
		parameters.SetThreads(opts.threads)
		if !parameters.CheckAndUnify(modelName, &cfg, &meta) {
			fmt.Printf("skipping model %s\n", modelName)
			continue
		}

		q, err := parameters.QVector()
		if err != nil {
			fmt.Printf("model %s: %v\n", modelName, err)
			continue
		}
		kernel, err := model.NewKernelFromConfig(&parameters)
		if err != nil {
			fmt.Printf("model %s: %v\n", modelName, err)
			continue
		}

		de := model.NewDataExtractor(kernel, &parameters, q)
		if err := de.Save(modelName, dataFlags); err != nil {
			return err
		}
		summary = append(summary, de.Summary(modelName))

		units := parameters.OutputUnits()
		qOut := make([]float64, len(q))
		iOut := make([]float64, len(q))
		for i := range q {
			qOut[i] = config.Convert(q[i], config.UnitsOf("QMin"), units, false)
			iOut[i] = config.Convert(de.Intensity[i], config.UnitsOf("Background"), units, false)
		}
		curves = append(curves, iqplot.Curve{Label: modelName, Q: qOut, I: iOut})
	}

	if len(summary) == 0 {
		return fmt.Errorf("%s: no model could be evaluated", opts.configFileName)
	}
	name := utils.GetFilename(opts.configFileName)
	if err := utils.WriteAsCSV(summary, false, outputPath, "summary", name, model.SummaryColumns); err != nil {
		return err
	}

	if opts.plot {
		plotPath := filepath.Join(outputPath, name+"_Iq.png")
		lengthUnit := config.UnitOf(config.Length, cfg.OutputUnits)
		intensityUnit := config.UnitOf(config.Intensity, cfg.OutputUnits)
		if err := iqplot.SaveIq(plotPath, "Sphere I(q): "+name, lengthUnit, intensityUnit, curves...); err != nil {
			return err
		}
	}

	fmt.Printf("\nDone in %s\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}
