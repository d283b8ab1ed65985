package imaging

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/presets.yaml
var presetFiles embed.FS

// Preset names shipped with the binary.
const (
	PresetAvatar      = "avatar"
	PresetPost        = "post"
	PresetThumbnail   = "thumbnail"
	PresetHighQuality = "highQuality"
)

var presets map[string]Options

func init() {
	loaded, err := loadPresets()
	if err != nil {
		// The preset file is embedded; failing to parse it is a build
		// defect, not a runtime condition.
		panic(fmt.Sprintf("imaging: load embedded presets: %v", err))
	}
	presets = loaded
}

func loadPresets() (map[string]Options, error) {
	data, err := presetFiles.ReadFile("config/presets.yaml")
	if err != nil {
		return nil, fmt.Errorf("read presets.yaml: %w", err)
	}

	var file struct {
		Presets map[string]Options `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse presets.yaml: %w", err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("presets.yaml defines no presets")
	}
	return file.Presets, nil
}

// PresetOptions returns the options tuple for a named preset.
func PresetOptions(name string) (Options, error) {
	opts, ok := presets[name]
	if !ok {
		return Options{}, fmt.Errorf("unknown compression preset %q", name)
	}
	return opts, nil
}

// presetOrDefault is for internal tiers that reference a preset; the presets
// are embedded so lookup failure cannot happen outside of development.
func presetOrDefault(name string) Options {
	opts, err := PresetOptions(name)
	if err != nil {
		return Options{MaxSizeMB: 2, MaxDimension: 1920, Quality: 0.8, FileType: MimeJPEG}
	}
	return opts
}
