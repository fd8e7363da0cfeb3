package shadergraph

import (
	"log/slog"
	"runtime"
)

// Option configures a Compiler or a Simulator.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	workers  int
	template ShaderTemplate
	features map[string]bool
}

func defaultOptions() options {
	return options{
		logger:   slog.Default(),
		workers:  runtime.GOMAXPROCS(0),
		template: DefaultShaderTemplate,
		features: map[string]bool{},
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithLogger sets the logger used for diagnostics. A nil logger keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers bounds the number of goroutines the simulator uses per node.
// Values below 1 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithShaderTemplate replaces the Kage wrapper the node code is spliced into.
func WithShaderTemplate(t ShaderTemplate) Option {
	return func(o *options) {
		o.template = t
	}
}

// WithFeatures enables optional feature blocks of the shader template.
func WithFeatures(names ...string) Option {
	return func(o *options) {
		for _, n := range names {
			o.features[n] = true
		}
	}
}
