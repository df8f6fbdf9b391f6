package internal

import "io"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	in     io.Reader
	out    io.Writer
	logOut io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithIO sets the streams used by the interactive and one-shot commands.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *application) {
		a.in = in
		a.out = out
	}
}

// WithLogOutput redirects log output.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}
