package model

import "github.com/turtacn/textselect/pkg/errors"

// ImageInfo summarizes a parsed model image for diagnostics tooling.
type ImageInfo struct {
	Version  uint16        `json:"version"`
	Sections []SectionInfo `json:"sections"`
}

// SectionInfo summarizes one sub-model section.
type SectionInfo struct {
	Tag          string   `json:"tag"`
	Collections  []string `json:"collections,omitempty"`
	RegexCount   int      `json:"regex_count"`
	InputDim     int      `json:"input_dim"`
	OutputDim    int      `json:"output_dim"`
	LayerCount   int      `json:"layer_count"`
	BucketCount  int      `json:"bucket_count"`
	ClickWindowL int      `json:"click_window_left"`
	ClickWindowR int      `json:"click_window_right"`
}

// ReadSelectionModelOptions parses the image at path and returns the
// selection sub-model's options without building networks or processors.
// It backs quick compatibility probes by host integrations.
func ReadSelectionModelOptions(path string) (*SubModelOptions, error) {
	region, err := RegionFromPath(path)
	if err != nil {
		return nil, err
	}
	defer region.Close()

	img, err := ParseImage(region.Bytes())
	if err != nil {
		return nil, err
	}
	sec := img.Section(TagSelection)
	if sec == nil {
		return nil, errors.New(errors.CodeModelMissing, "image has no selection model").
			WithDetail("path=" + path)
	}
	return sec.Options, nil
}

// Inspect parses the image at path and returns a structured summary.
func Inspect(path string) (*ImageInfo, error) {
	region, err := RegionFromPath(path)
	if err != nil {
		return nil, err
	}
	defer region.Close()

	img, err := ParseImage(region.Bytes())
	if err != nil {
		return nil, err
	}

	info := &ImageInfo{Version: img.Version}
	for _, sec := range img.Sections {
		info.Sections = append(info.Sections, SectionInfo{
			Tag:          sec.Tag,
			Collections:  sec.Options.Collections,
			RegexCount:   len(sec.Options.RegexPatterns),
			InputDim:     sec.Params.InputDim,
			OutputDim:    sec.Params.OutputDim(),
			LayerCount:   len(sec.Params.LayerDims),
			BucketCount:  sec.Options.FeatureProcessor.BucketCount,
			ClickWindowL: sec.Options.FeatureProcessor.ClickWindowLeft,
			ClickWindowR: sec.Options.FeatureProcessor.ClickWindowRight,
		})
	}
	return info, nil
}
