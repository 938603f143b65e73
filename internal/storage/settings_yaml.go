package storage

import (
	"os"
	"path/filepath"

	"biodaemon/internal/core/model"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlThresholds struct {
	Round  int `yaml:"round"`
	Slouch int `yaml:"slouch"`
	Melt   int `yaml:"melt"`
	Flat   int `yaml:"flat"`
	Death  int `yaml:"death"`
}

type yamlHealing struct {
	MinBreakMinutes  int `yaml:"min_break_minutes"`
	FullResetMinutes int `yaml:"full_reset_minutes"`
}

type yamlSettings struct {
	DebugTimescale bool           `yaml:"debug_timescale"`
	ForcePolling   bool           `yaml:"force_polling"`
	LogLevel       string         `yaml:"log_level"`
	LogFormat      string         `yaml:"log_format"`
	Thresholds     yamlThresholds `yaml:"thresholds"`
	Healing        yamlHealing    `yaml:"healing"`
}

// DefaultPath returns the settings location under the user config dir.
func DefaultPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve user config dir")
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads daemon settings from YAML.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, errors.Wrap(err, "read settings file")
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, errors.Wrap(err, "parse settings yaml")
	}

	applyYamlSettings(&settings, fileData)
	if err := settings.Fatigue.Validate(); err != nil {
		return model.DefaultSettings(), errors.Wrap(err, "validate settings")
	}
	return settings, nil
}

// SaveSettings writes daemon settings to YAML.
func SaveSettings(path string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	thresholds := settings.Fatigue.Thresholds
	fileData := yamlSettings{
		DebugTimescale: settings.Fatigue.Timescale.Debug,
		ForcePolling:   settings.ForcePolling,
		LogLevel:       settings.LogLevel,
		LogFormat:      settings.LogFormat,
		Thresholds: yamlThresholds{
			Round:  thresholds.Round,
			Slouch: thresholds.Slouch,
			Melt:   thresholds.Melt,
			Flat:   thresholds.Flat,
			Death:  thresholds.Death,
		},
		Healing: yamlHealing{
			MinBreakMinutes:  settings.Fatigue.Healing.MinBreak,
			FullResetMinutes: settings.Fatigue.Healing.FullReset,
		},
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return errors.Wrap(err, "marshal settings yaml")
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return errors.Wrap(err, "write settings file")
	}
	return nil
}

// EnsureSettings writes the default settings file when none exists yet, so
// there is something on disk to edit. It reports whether a file was created.
func EnsureSettings(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, errors.Wrap(err, "stat settings file")
	}
	if err := SaveSettings(path, model.DefaultSettings()); err != nil {
		return false, err
	}
	return true, nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	settings.Fatigue.Timescale = model.NewTimescale(fileData.DebugTimescale)
	settings.ForcePolling = fileData.ForcePolling
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}
	if fileData.LogFormat != "" {
		settings.LogFormat = fileData.LogFormat
	}

	thresholds := &settings.Fatigue.Thresholds
	if fileData.Thresholds.Round > 0 {
		thresholds.Round = fileData.Thresholds.Round
	}
	if fileData.Thresholds.Slouch > 0 {
		thresholds.Slouch = fileData.Thresholds.Slouch
	}
	if fileData.Thresholds.Melt > 0 {
		thresholds.Melt = fileData.Thresholds.Melt
	}
	if fileData.Thresholds.Flat > 0 {
		thresholds.Flat = fileData.Thresholds.Flat
	}
	if fileData.Thresholds.Death > 0 {
		thresholds.Death = fileData.Thresholds.Death
	}

	if fileData.Healing.MinBreakMinutes > 0 {
		settings.Fatigue.Healing.MinBreak = fileData.Healing.MinBreakMinutes
	}
	if fileData.Healing.FullResetMinutes > 0 {
		settings.Fatigue.Healing.FullReset = fileData.Healing.FullResetMinutes
	}
}
