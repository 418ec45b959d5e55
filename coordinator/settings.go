package coordinator

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"MandelbrotMovie/misc"
	"MandelbrotMovie/raw"

	"gopkg.in/yaml.v3"
)

const (
	// ImagesToGenerate is the fixed size of one batch
	ImagesToGenerate uint = 50

	// RegularScaleStep and ExtraScaleStep widen the x scale per image number. Remainder images have always used the
	// larger step; it is kept so existing batches reproduce frame for frame.
	RegularScaleStep = 0.1
	ExtraScaleStep   = 0.2
)

type Settings struct {
	CenterX       float64 `json:"CenterX" yaml:"center_x"`
	CenterY       float64 `json:"CenterY" yaml:"center_y"`
	Format        string  `json:"Format" yaml:"format"`
	Height        int     `json:"Height" yaml:"height"`
	LogFile       string  `json:"LogFile" yaml:"log_file"`
	MaxIterations uint    `json:"MaxIterations" yaml:"max_iterations"`
	OutputFile    string  `json:"OutputFile" yaml:"output_file"`
	Processes     int     `json:"Processes" yaml:"processes"`
	Quality       int     `json:"Quality" yaml:"quality"`
	SavePath      string  `json:"SavePath" yaml:"save_path"`
	Scale         float64 `json:"Scale" yaml:"scale"`
	Threads       int     `json:"Threads" yaml:"threads"`
	Width         int     `json:"Width" yaml:"width"`
}

func DefaultSettings() Settings {
	return Settings{
		CenterX:       0,
		CenterY:       0,
		Format:        raw.JPEG.String(),
		Height:        1000,
		MaxIterations: 1000,
		OutputFile:    "mandel.jpg",
		Processes:     1,
		Quality:       raw.DefaultQuality,
		SavePath:      ".",
		Scale:         4,
		Threads:       1,
		Width:         1000,
	}
}

// LoadSettings reads a settings file on top of the defaults. Files ending in .yaml or .yml are read as YAML, anything
// else as JSON.
func LoadSettings(settingsFile string) (Settings, error) {
	s := DefaultSettings()
	fileBytes, err := misc.ReadFile(settingsFile)
	if err != nil {
		return s, err
	}

	switch strings.ToLower(filepath.Ext(settingsFile)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(fileBytes, &s)
	default:
		err = json.Unmarshal(fileBytes, &s)
	}
	if err != nil {
		return s, fmt.Errorf("unable to parse %s - %w", settingsFile, err)
	}
	return s, nil
}

func (s *Settings) String() string {
	output := "\nBatch settings\n"
	output += fmt.Sprintf("Center: (%f, %f)\n", s.CenterX, s.CenterY)
	output += fmt.Sprintf("Scale: %f\n", s.Scale)
	output += fmt.Sprintf("Size: %dx%d\n", s.Width, s.Height)
	output += fmt.Sprintf("Max Iterations: %d\n", s.MaxIterations)
	output += fmt.Sprintf("Processes: %d\n", s.Processes)
	output += fmt.Sprintf("Threads: %d\n", s.Threads)
	output += fmt.Sprintf("Format: %s (quality %d)\n", s.Format, s.Quality)
	output += fmt.Sprintf("Save Path: %s\n", s.SavePath)
	return output
}

// Verify rejects settings that cannot render a batch. Nothing is silently defaulted: a zero max iteration count would
// divide by zero in the color mapping and a zero worker count would render nothing.
func (s *Settings) Verify() error {
	if s.Width < 1 || s.Height < 1 {
		return fmt.Errorf("%w: image size must be positive, got %dx%d", misc.ErrInvalidSettings, s.Width, s.Height)
	}
	if s.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be at least 1", misc.ErrInvalidSettings)
	}
	if s.Processes < 1 {
		return fmt.Errorf("%w: process count must be at least 1, got %d", misc.ErrInvalidSettings, s.Processes)
	}
	if s.Threads < 1 {
		return fmt.Errorf("%w: thread count must be at least 1, got %d", misc.ErrInvalidSettings, s.Threads)
	}
	if s.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %f", misc.ErrInvalidSettings, s.Scale)
	}
	if _, err := raw.ParseFormat(s.Format); err != nil {
		return fmt.Errorf("%w: %s", misc.ErrInvalidSettings, err)
	}
	if s.Quality < 1 || s.Quality > 100 {
		return fmt.Errorf("%w: jpeg quality must be within [1, 100], got %d", misc.ErrInvalidSettings, s.Quality)
	}
	if s.SavePath == "" {
		s.SavePath = "."
	}
	return nil
}

func (s *Settings) ImageFormat() raw.Format {
	format, _ := raw.ParseFormat(s.Format)
	return format
}
