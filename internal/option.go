package internal

// Option configures the application before Run or RunMCP starts it.
type Option func(*application)

type application struct {
	config *Config
}

// WithConfig supplies the application configuration. Required.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}
