// Package batch orchestrates seed counting over a directory of images:
// scanning, sample pairing, per-image pipeline invocation, progress
// streaming, and CSV persistence of the per-sample results.
package batch

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"seedseg/internal/diagnostics"
	"seedseg/internal/pipeline"
	"seedseg/internal/raster"
	"seedseg/internal/segment"
)

// Mode selects the counting workflow.
type Mode int

const (
	// Fluorescence pairs a brightfield image (all seeds) with a
	// fluorescent image (marker seeds) per sample.
	Fluorescence Mode = iota
	// Colorimetric derives both counts from one RGB image per sample.
	Colorimetric
)

func (m Mode) String() string {
	switch m {
	case Colorimetric:
		return "colorimetric"
	default:
		return "fluorescence"
	}
}

// ParseMode parses a mode name from the command line.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "fluorescence":
		return Fluorescence, nil
	case "colorimetric":
		return Colorimetric, nil
	default:
		return Fluorescence, fmt.Errorf("unknown mode %q (expected fluorescence or colorimetric)", s)
	}
}

// Config holds one batch run's parameters.
type Config struct {
	InputDir  string
	OutputDir string

	// StoreImages enables intermediate mask/overlay output in OutputDir.
	StoreImages bool

	// Fixed brightness thresholds; nil selects Otsu per image.
	BrightfieldThreshold *int
	FluorescentThreshold *int

	// Touch-separation parameters (see segment.Params).
	RadialThreshold      *float64
	RadialThresholdRatio float64
	LargeAreaFactor      *float64

	// Filename suffixes identifying the two channels (fluorescence mode).
	BrightfieldSuffix string
	FluorescentSuffix string

	Log zerolog.Logger
}

// Event is one progress update from a running batch. Message is set on
// intermediate events; the final event instead carries the full Results.
type Event struct {
	Message string
	Results []Result
}

func (c Config) effectiveRatio() float64 {
	if c.RadialThresholdRatio > 0 {
		return c.RadialThresholdRatio
	}
	return segment.DefaultRadialThresholdRatio
}

func (c Config) params() segment.Params {
	p := segment.DefaultParams()
	p.RadialThresholdRatio = c.effectiveRatio()
	p.RadialThreshold = c.RadialThreshold
	p.LargeAreaFactor = c.LargeAreaFactor
	return p
}

func (c Config) recorder(sample, tag string) *diagnostics.Recorder {
	if !c.StoreImages || c.OutputDir == "" {
		return nil
	}
	return diagnostics.New(c.OutputDir, sample, tag)
}

// RunFluorescence processes paired brightfield/fluorescent images. It
// returns immediately; progress events stream on the returned channel and
// the final event carries the per-sample results. The channel is closed
// when the batch finishes.
func RunFluorescence(cfg Config, sampleToFiles map[string][]FileRef) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		cfg.Log.Debug().Str("dir", cfg.InputDir).Int("samples", len(sampleToFiles)).Msg("starting fluorescence batch")

		bfSuffix := cfg.BrightfieldSuffix
		if bfSuffix == "" {
			bfSuffix = DefaultBrightfieldSuffix
		}
		flSuffix := cfg.FluorescentSuffix
		if flSuffix == "" {
			flSuffix = DefaultFluorescentSuffix
		}

		samples := sortedSamples(sampleToFiles)
		var results []Result
		for i, sample := range samples {
			events <- Event{Message: fmt.Sprintf("Processing sample %s (%d of %d):", sample, i+1, len(samples))}

			result := Result{Sample: sample, RadialThresholdRatio: cfg.effectiveRatio()}
			for _, file := range sampleToFiles[sample] {
				switch {
				case strings.EqualFold(file.ImgType, bfSuffix):
					events <- Event{Message: fmt.Sprintf("\t%s (brightfield) image: %s", bfSuffix, file.Name)}
					outcome, err := cfg.processOne(file, pipeline.Brightfield, cfg.BrightfieldThreshold, sample, bfSuffix)
					if err != nil {
						events <- Event{Message: fmt.Sprintf("\tFailed to process %s: %v", file.Name, err)}
						continue
					}
					result.TotalSeeds = outcome.NumSeeds
					result.BrightfieldThreshold = outcome.BrightnessThreshold
					result.RadialThreshold = outcome.RadialThreshold
				case strings.EqualFold(file.ImgType, flSuffix):
					events <- Event{Message: fmt.Sprintf("\t%s (fluorescent) image: %s", flSuffix, file.Name)}
					outcome, err := cfg.processOne(file, pipeline.Fluorescent, cfg.FluorescentThreshold, sample, flSuffix)
					if err != nil {
						events <- Event{Message: fmt.Sprintf("\tFailed to process %s: %v", file.Name, err)}
						continue
					}
					result.MarkerSeeds = outcome.NumSeeds
					result.MarkerThreshold = outcome.BrightnessThreshold
					result.RadialThreshold = outcome.RadialThreshold
				default:
					events <- Event{Message: fmt.Sprintf("\tUnknown image type for %s", file.Name)}
				}
			}

			if result.TotalSeeds == 0 {
				events <- Event{Message: fmt.Sprintf(
					"\tCouldn't find %s (brightfield) seeds for %s. Images should be named <sample>_%s.<ext>, e.g. img1_%s.tif",
					bfSuffix, sample, bfSuffix, bfSuffix)}
			}
			if result.MarkerSeeds == 0 {
				events <- Event{Message: fmt.Sprintf(
					"\tCouldn't find %s (fluorescent) seeds for %s. Images should be named <sample>_%s.<ext>, e.g. img1_%s.tif",
					flSuffix, sample, flSuffix, flSuffix)}
			}

			results = append(results, result)
		}

		events <- Event{Results: results}
	}()
	return events
}

func (c Config) processOne(file FileRef, kind pipeline.ImageKind, thresh *int, sample, tag string) (pipeline.Outcome, error) {
	img, err := raster.Load(file.Path)
	if err != nil {
		return pipeline.Outcome{}, err
	}
	defer img.Close()

	p := c.params()
	p.BrightnessThreshold = thresh

	outcome, err := pipeline.ProcessSeedImage(img, kind, p, c.recorder(sample, tag))
	if err != nil {
		return pipeline.Outcome{}, err
	}
	c.Log.Debug().
		Str("sample", sample).
		Str("image", file.Name).
		Str("kind", kind.String()).
		Int("seeds", outcome.NumSeeds).
		Int("brightness_threshold", outcome.BrightnessThreshold).
		Float64("radial_threshold", outcome.RadialThreshold).
		Msg("processed image")
	return outcome, nil
}

// RunColorimetric processes one RGB image per sample, deriving the total
// and marker counts from a single brightness pass plus hue classification.
// Progress and final results stream exactly as in RunFluorescence.
func RunColorimetric(cfg Config, sampleToFile map[string][]FileRef) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		cfg.Log.Debug().Str("dir", cfg.InputDir).Int("samples", len(sampleToFile)).Msg("starting colorimetric batch")

		samples := sortedSamples(sampleToFile)
		var results []Result
		for i, sample := range samples {
			events <- Event{Message: fmt.Sprintf("Processing sample %s (%d of %d):", sample, i+1, len(samples))}

			file := sampleToFile[sample][0]
			all, marker, err := cfg.processColorimetric(file, sample)
			if err != nil {
				events <- Event{Message: fmt.Sprintf("\tFailed to process %s: %v", file.Name, err)}
				continue
			}

			result := Result{
				Sample:               sample,
				TotalSeeds:           all.NumSeeds,
				MarkerSeeds:          marker.NumSeeds,
				BrightfieldThreshold: all.BrightnessThreshold,
				MarkerThreshold:      marker.BrightnessThreshold,
				RadialThreshold:      all.RadialThreshold,
				RadialThresholdRatio: cfg.effectiveRatio(),
			}
			results = append(results, result)

			if result.TotalSeeds == 0 {
				events <- Event{Message: fmt.Sprintf("\tDid not find any seeds for %s.", sample)}
			}
			if result.MarkerSeeds == 0 {
				events <- Event{Message: fmt.Sprintf(
					"\tDid not find any marker seeds for %s. Make sure that the marker seeds are RED and that the non-marker seeds are YELLOW-ish. Other colors are not supported yet.", sample)}
			}
			if result.TotalSeeds > 0 && result.MarkerSeeds > 0 {
				events <- Event{Message: fmt.Sprintf("\tSuccessfully processed %s", sample)}
			} else {
				events <- Event{Message: fmt.Sprintf("\tAdjust parameters to improve results for %s. See instructions for guidelines on how to ideally set them.", sample)}
			}
			events <- Event{Message: fmt.Sprintf("\tResults for %s: %s", sample, result)}
		}

		events <- Event{Results: results}
	}()
	return events
}

func (c Config) processColorimetric(file FileRef, sample string) (all, marker pipeline.Outcome, err error) {
	var img gocv.Mat
	img, err = raster.Load(file.Path)
	if err != nil {
		return pipeline.Outcome{}, pipeline.Outcome{}, err
	}
	defer img.Close()

	p := c.params()
	p.BrightnessThreshold = c.BrightfieldThreshold

	all, marker, err = pipeline.ProcessColorimetricImage(img, p, c.recorder(sample, "all"))
	if err != nil {
		return pipeline.Outcome{}, pipeline.Outcome{}, err
	}
	c.Log.Debug().
		Str("sample", sample).
		Str("image", file.Name).
		Int("total_seeds", all.NumSeeds).
		Int("marker_seeds", marker.NumSeeds).
		Int("brightness_threshold", all.BrightnessThreshold).
		Float64("radial_threshold", all.RadialThreshold).
		Msg("processed colorimetric image")
	return all, marker, nil
}
