package pipeline

import (
	"log/slog"

	"github.com/askiada/go-codec/pkg/pipeline/model"
)

// DefaultMaxDepth bounds sub-pipeline nesting unless WithMaxDepth says otherwise.
const DefaultMaxDepth = 16

type Option func(p *Pipeline)

// WithMaxDepth sets how deeply sub-pipelines may nest. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(p *Pipeline) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// WithHooks registers pipeline options such as a drawer or a measure.
func WithHooks(hooks ...model.PipelineOption) Option {
	return func(p *Pipeline) {
		p.opts = append(p.opts, hooks...)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}
