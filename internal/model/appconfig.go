package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default cut settings applied to new projects
	DefaultKerfWidth        int  `json:"default_kerf_width" yaml:"default_kerf_width"`
	DefaultTrimFront        int  `json:"default_trim_front" yaml:"default_trim_front"`
	DefaultTrimBack         int  `json:"default_trim_back" yaml:"default_trim_back"`
	DefaultMaxUniqueLengths int  `json:"default_max_unique_lengths" yaml:"default_max_unique_lengths"`
	DefaultPercentPriority  bool `json:"default_percent_priority" yaml:"default_percent_priority"`
	DefaultOffcutEnabled    bool `json:"default_offcut_enabled" yaml:"default_offcut_enabled"`
	DefaultOffcutLength     int  `json:"default_offcut_length" yaml:"default_offcut_length"`
	DefaultStockLength      int  `json:"default_stock_length" yaml:"default_stock_length"`

	Search SearchBudget `json:"search" yaml:"search"`

	// Default target lengths for new projects
	DefaultTargets []Target `json:"default_targets" yaml:"default_targets"`

	// Application preferences
	RunLogPath     string   `json:"run_log_path" yaml:"run_log_path"` // sqlite file, empty = disabled
	RecentProjects []string `json:"recent_projects" yaml:"recent_projects"`
	LogLevel       string   `json:"log_level" yaml:"log_level"` // "debug", "info", "warn"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultKerfWidth:        defaults.KerfWidth,
		DefaultTrimFront:        defaults.TrimFront,
		DefaultTrimBack:         defaults.TrimBack,
		DefaultMaxUniqueLengths: defaults.MaxUniqueLengths,
		DefaultPercentPriority:  defaults.PercentPriority,
		DefaultOffcutEnabled:    defaults.OffcutEnabled,
		DefaultOffcutLength:     defaults.OffcutLength,
		DefaultStockLength:      defaults.StockLength,
		Search:                  defaults.Search,
		DefaultTargets:          DefaultTargets().Targets,
		RecentProjects:          []string{},
		LogLevel:                "info",
	}
}

// ApplyToSettings copies the default values from AppConfig into a CutSettings struct.
// This is used when creating a new project so it inherits the user's saved defaults.
func (c AppConfig) ApplyToSettings(s *CutSettings) {
	s.KerfWidth = c.DefaultKerfWidth
	s.TrimFront = c.DefaultTrimFront
	s.TrimBack = c.DefaultTrimBack
	s.MaxUniqueLengths = c.DefaultMaxUniqueLengths
	s.PercentPriority = c.DefaultPercentPriority
	s.OffcutEnabled = c.DefaultOffcutEnabled
	s.OffcutLength = c.DefaultOffcutLength
	s.StockLength = c.DefaultStockLength
	if c.Search.MaxCalls > 0 {
		s.Search = c.Search
	}
}

// NewProject creates a project seeded with the configured defaults.
func (c AppConfig) NewProject(name string) Project {
	p := NewProject()
	if name != "" {
		p.Name = name
	}
	c.ApplyToSettings(&p.Settings)
	if c.DefaultTargets != nil {
		p.Targets = TargetRegistry{Targets: append([]Target{}, c.DefaultTargets...)}
	}
	return p
}
