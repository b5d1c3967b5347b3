package model

// AppConfig holds application-wide preferences read from the config file.
type AppConfig struct {
	// Optimizer defaults
	DefaultMaxRectangles int    `json:"default_max_rectangles" yaml:"default_max_rectangles"` // applied to fields without a bound line, 0 = unbounded
	EmptyMarker          string `json:"empty_marker" yaml:"empty_marker"`
	FallbackLabel        string `json:"fallback_label" yaml:"fallback_label"`

	// Output
	Formats      []string `json:"formats" yaml:"formats"` // text, json, pdf, xlsx, dxf
	AppendOutput bool     `json:"append_output" yaml:"append_output"`

	// Logging
	LogLevel string `json:"log_level" yaml:"log_level"`
	LogPath  string `json:"log_path" yaml:"log_path"` // empty = stdout

	// Viewer
	Theme string `json:"theme" yaml:"theme"` // light, dark or system
}

// DefaultAppConfig returns an AppConfig populated with defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultMaxRectangles: 0,
		EmptyMarker:          string(defaults.EmptyMarker),
		FallbackLabel:        string(defaults.FallbackLabel),
		Formats:              []string{"text"},
		AppendOutput:         false,
		LogLevel:             "info",
		LogPath:              "",
		Theme:                "system",
	}
}

// ApplyToSettings copies the rendering values from AppConfig into a CoverSettings.
// Empty or multi-character markers leave the existing value untouched.
func (c AppConfig) ApplyToSettings(s *CoverSettings) {
	if len(c.EmptyMarker) == 1 {
		s.EmptyMarker = c.EmptyMarker[0]
	}
	if len(c.FallbackLabel) == 1 {
		s.FallbackLabel = c.FallbackLabel[0]
	}
}
