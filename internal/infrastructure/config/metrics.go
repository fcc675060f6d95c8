package config

// MetricsConfig controls prometheus collection and the scrape endpoint
// served by the metrics command.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	Port int `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`

	// Host defaults to localhost so the exporter is not exposed beyond
	// the box unless asked.
	Host string `mapstructure:"host"`

	Path string `mapstructure:"path"`
}
