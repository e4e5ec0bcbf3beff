package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/viper"

	"github.com/agentstation/modelscout"
	"github.com/agentstation/modelscout/pkg/catalogs"
	"github.com/agentstation/modelscout/pkg/hardware"
)

// weightsFile is the on-disk shape of a scoring weights override.
type weightsFile struct {
	Compat      float64 `yaml:"compat"`
	Performance float64 `yaml:"performance"`
	Quality     float64 `yaml:"quality"`
	Size        float64 `yaml:"size"`
}

// newScout assembles a Scout from flags, config, and environment.
func newScout() (modelscout.Scout, error) {
	sourceNames := viper.GetStringSlice("sources")
	sourceIDs := make([]catalogs.SourceID, 0, len(sourceNames))
	for _, name := range sourceNames {
		sourceIDs = append(sourceIDs, catalogs.SourceID(name))
	}

	opts := []modelscout.Option{
		modelscout.WithSources(sourceIDs...),
		modelscout.WithTokens(sourceTokens()),
		modelscout.WithHardwareProvider(hardwareFromFlags()),
	}

	if path := viper.GetString("weights"); path != "" {
		weights, err := loadWeights(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, modelscout.WithScorerWeights(
			weights.Compat, weights.Performance, weights.Quality, weights.Size))
	}

	return modelscout.New(opts...)
}

// hardwareFromFlags builds a static snapshot provider from the hardware
// flags. Total and available memory are conflated; the CLI describes the
// budget the user is willing to spend.
func hardwareFromFlags() hardware.Provider {
	vram := gib(viper.GetFloat64("vram"))
	ram := gib(viper.GetFloat64("ram"))

	return hardware.StaticProvider{Snap: hardware.Snapshot{
		TotalRAMBytes:      ram,
		AvailableRAMBytes:  ram,
		TotalVRAMBytes:     vram,
		AvailableVRAMBytes: vram,
		GPUPresent:         vram > 0,
		GPUClass:           hardware.GPUClass(viper.GetString("gpu-class")),
		CPUClass:           hardware.CPUClass(viper.GetString("cpu-class")),
	}}
}

func gib(v float64) int64 {
	return int64(v * float64(1<<30))
}

// loadWeights parses a scoring weights YAML file.
func loadWeights(path string) (*weightsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading weights file: %w", err)
	}
	var weights weightsFile
	if err := yaml.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("parsing weights file %s: %w", path, err)
	}
	return &weights, nil
}
