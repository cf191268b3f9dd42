package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"seedseg/internal/raster"
)

// Default filename suffixes identifying the two channels of a sample pair.
const (
	DefaultBrightfieldSuffix = "BF"
	DefaultFluorescentSuffix = "FL"
)

// FileRef describes one discovered image file.
type FileRef struct {
	Path    string // Full path
	Name    string // Base filename
	ImgType string // Filename suffix after the last underscore ("" if none)
}

// ParseFilename splits a filename following the <sample>_<suffix>.<ext>
// convention into the sample id and the image-type suffix. A name without
// an underscore yields the whole stem as the sample and an empty suffix.
func ParseFilename(name string) (sample, imgType string) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.LastIndex(stem, "_")
	if idx < 0 {
		return stem, ""
	}
	return stem[:idx], stem[idx+1:]
}

// CollectImageFiles gathers paired channel images from a directory, grouped
// by sample id. It also returns the flat list of discovered filenames so
// callers can report how many files fed how many samples.
func CollectImageFiles(dir string) (map[string][]FileRef, []string, error) {
	names, err := listImageFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	sampleToFiles := make(map[string][]FileRef)
	for _, name := range names {
		sample, imgType := ParseFilename(name)
		sampleToFiles[sample] = append(sampleToFiles[sample], FileRef{
			Path:    filepath.Join(dir, name),
			Name:    name,
			ImgType: imgType,
		})
	}
	return sampleToFiles, names, nil
}

// CollectSingleImageFiles gathers one RGB image per sample from a
// directory, using the whole filename stem as the sample id.
func CollectSingleImageFiles(dir string) (map[string][]FileRef, []string, error) {
	names, err := listImageFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	sampleToFile := make(map[string][]FileRef)
	for _, name := range names {
		sample := strings.TrimSuffix(name, filepath.Ext(name))
		sampleToFile[sample] = []FileRef{{
			Path: filepath.Join(dir, name),
			Name: name,
		}}
	}
	return sampleToFile, names, nil
}

func listImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !raster.IsSupportedFormat(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// sortedSamples returns the sample ids in deterministic processing order.
func sortedSamples[T any](m map[string][]T) []string {
	samples := make([]string, 0, len(m))
	for sample := range m {
		samples = append(samples, sample)
	}
	sort.Strings(samples)
	return samples
}
