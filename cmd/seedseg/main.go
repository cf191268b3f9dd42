// Command seedseg counts seeds in a directory of plant sample images and
// writes one CSV row per sample. Fluorescence mode pairs a brightfield and
// a fluorescent image per sample; colorimetric mode takes one RGB image
// per sample with red marker seeds and yellow non-marker seeds.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"seedseg/internal/batch"
	"seedseg/internal/version"
)

func main() {
	inputDir := flag.String("dir", "", "Path to the image directory. Required")
	outputDir := flag.String("out", "", "Path to the output directory. Required")
	noStore := flag.Bool("nostore", false, "Do not store intermediate images in the output directory (the results CSV is still written)")
	intensityThresh := flag.String("intensity-thresh", "", "Fixed intensity thresholds as <brightfield>,<fluorescent>, e.g. \"30,30\". Empty selects Otsu per image")
	radialThresh := flag.Float64("radial-thresh", 0, "Fixed radial threshold for seed separation. Zero derives it from the median seed radius")
	suffixes := flag.String("suffixes", batch.DefaultBrightfieldSuffix+","+batch.DefaultFluorescentSuffix,
		"Image type suffixes as <brightfield>,<fluorescent>")
	mode := flag.String("mode", "fluorescence", "Counting mode: fluorescence or colorimetric")
	radialRatio := flag.Float64("radial-threshold-ratio", 0.4, "Fraction of the median seed radius used when deriving the radial threshold")
	largeAreaFactor := flag.Float64("large-area-factor", 0, "Discard regions larger than this factor times the median area. Zero disables the filter")
	verbose := flag.Bool("v", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("seedseg %s (%s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
		return
	}

	if *inputDir == "" || *outputDir == "" {
		fmt.Println("Usage: seedseg -dir <images> -out <results> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	countMode, err := batch.ParseMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg := batch.Config{
		InputDir:             *inputDir,
		OutputDir:            *outputDir,
		StoreImages:          !*noStore,
		RadialThresholdRatio: *radialRatio,
		Log:                  log,
	}
	if *radialThresh > 0 {
		cfg.RadialThreshold = radialThresh
	}
	if *largeAreaFactor > 0 {
		cfg.LargeAreaFactor = largeAreaFactor
	}

	if *intensityThresh != "" {
		bf, fl, err := parseThresholdPair(*intensityThresh)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		cfg.BrightfieldThreshold = &bf
		cfg.FluorescentThreshold = &fl
	}

	if countMode == batch.Fluorescence {
		bf, fl, err := parseSuffixPair(*suffixes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		cfg.BrightfieldSuffix = bf
		cfg.FluorescentSuffix = fl
	}

	printWelcome()

	var (
		sampleToFiles map[string][]batch.FileRef
		fileNames     []string
	)
	if countMode == batch.Fluorescence {
		sampleToFiles, fileNames, err = batch.CollectImageFiles(*inputDir)
	} else {
		sampleToFiles, fileNames, err = batch.CollectSingleImageFiles(*inputDir)
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to scan input directory")
		os.Exit(1)
	}
	fmt.Printf("Found %d unique samples in %d files\n", len(sampleToFiles), len(fileNames))

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Error().Err(err).Msg("failed to create output directory")
		os.Exit(1)
	}

	var events <-chan batch.Event
	if countMode == batch.Fluorescence {
		events = batch.RunFluorescence(cfg, sampleToFiles)
	} else {
		events = batch.RunColorimetric(cfg, sampleToFiles)
	}

	var results []batch.Result
	for event := range events {
		if event.Results != nil {
			results = event.Results
			continue
		}
		fmt.Println(event.Message)
	}

	// The results CSV is always stored, even with -nostore.
	path, err := batch.WriteResults(results, *outputDir)
	if err != nil {
		log.Error().Err(err).Msg("failed to store results")
		os.Exit(1)
	}
	fmt.Printf("Results stored in %s\n", path)
	fmt.Println("Thanks for your visit!")
}

func printWelcome() {
	fmt.Println("Welcome to SeedSeg!")
	fmt.Printf("For fluorescence mode, provide pairs of images: %s (brightfield) and %s (fluorescent).\n",
		batch.DefaultBrightfieldSuffix, batch.DefaultFluorescentSuffix)
	fmt.Println("For color mode, provide a single RGB image per sample.")
	fmt.Println()
}

func parseThresholdPair(s string) (bf, fl int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid intensity threshold format %q: expected <brightfield>,<fluorescent>, e.g. 60,60", s)
	}
	bf, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err == nil {
		fl, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	if err != nil {
		return 0, 0, fmt.Errorf("invalid intensity threshold format %q: expected <brightfield>,<fluorescent>, e.g. 60,60", s)
	}
	return bf, fl, nil
}

func parseSuffixPair(s string) (bf, fl string, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid image type suffix format %q: expected <brightfield>,<fluorescent>, e.g. BF,FL", s)
	}
	bf = strings.TrimSpace(parts[0])
	fl = strings.TrimSpace(parts[1])
	if bf == "" || fl == "" {
		return "", "", fmt.Errorf("invalid image type suffix format %q: expected <brightfield>,<fluorescent>, e.g. BF,FL", s)
	}
	return bf, fl, nil
}
