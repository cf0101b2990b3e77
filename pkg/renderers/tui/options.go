package tui

// OutputFormat controls how filled values are serialized by the renderer.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional formatting hints applied when printing messages.
// Keep minimal to avoid coupling fill logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

type config struct {
	driver PromptDriver
	format OutputFormat
	theme  Theme
}

// Option configures the interactive session and the renderer built on it.
type Option func(*config)

// WithPromptDriver overrides the prompt driver. The default drives a real
// terminal through survey.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *config) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithOutputFormat selects the renderer's output serialization format.
// Sessions ignore it.
func WithOutputFormat(format OutputFormat) Option {
	return func(c *config) {
		if format != "" {
			c.format = format
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(c *config) {
		c.theme = theme
	}
}

func buildConfig(options ...Option) (config, error) {
	cfg := config{format: OutputFormatJSON}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.driver == nil {
		driver, err := newSurveyDriver()
		if err != nil {
			return config{}, err
		}
		cfg.driver = driver
	}
	return cfg, nil
}
