package internal

import tea "github.com/charmbracelet/bubbletea"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config      *Config
	allowNonTTY bool
	programOpts []tea.ProgramOption
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithAllowNonTTY skips the terminal check. Used by tests.
func WithAllowNonTTY() Option {
	return func(a *application) {
		a.allowNonTTY = true
	}
}

// WithProgramOptions appends extra bubbletea program options, letting tests
// run the UI against non-terminal input and output.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(a *application) {
		a.programOpts = append(a.programOpts, opts...)
	}
}
