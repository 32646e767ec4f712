package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-codec/internal/logging"
	"github.com/askiada/go-codec/pkg/codec"
	"github.com/askiada/go-codec/pkg/pipeline/model"
)

// Pipeline runs parsed commands against a registry.
type Pipeline struct {
	registry  *codec.Registry
	opts      []model.PipelineOption
	maxDepth  int
	logger    *slog.Logger
	startTime time.Time
}

// New creates a new pipeline.
func New(registry *codec.Registry, options ...Option) (*Pipeline, error) {
	if registry == nil {
		return nil, ErrRegistryMustBeSet
	}

	pipe := &Pipeline{
		registry:  registry,
		maxDepth:  DefaultMaxDepth,
		logger:    logging.L(),
		startTime: time.Now(),
	}

	for _, option := range options {
		option(pipe)
	}

	for _, opt := range pipe.opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// Execute desugars cmd and runs it.
func (p *Pipeline) Execute(ctx context.Context, cmd *model.Pipeline, in io.Reader, out io.Writer) error {
	plan, err := Desugar(cmd)
	if err != nil {
		return err
	}

	return p.Run(ctx, plan, in, out)
}

// Run checks every stage of plan, then streams in through the stages into out.
// Nothing is read from in when a stage name is unknown.
func (p *Pipeline) Run(ctx context.Context, plan *Plan, in io.Reader, out io.Writer) error {
	if plan == nil {
		return ErrPlanMustBeSet
	}

	err := p.validate(plan.Stages, 0)
	if err != nil {
		return err
	}

	_, err = p.run(ctx, scope{stages: plan.Stages, mode: plan.Mode}, in, out)
	if err != nil {
		return err
	}

	return p.finishRun()
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	p.logger.Debug("pipeline finished", "elapsed", time.Since(p.startTime))

	return nil
}

// validate looks every stage up, sub-pipelines included.
func (p *Pipeline) validate(stages []model.Stage, depth int) error {
	if depth > p.maxDepth {
		return errors.Wrapf(ErrMaxDepth, "depth %d > %d", depth, p.maxDepth)
	}

	for _, st := range stages {
		if _, ok := p.registry.Lookup(st.Name); !ok {
			return errors.Wrap(&LookupError{Name: st.Name}, st.Name)
		}

		for _, opt := range st.Options {
			if !opt.Text.IsSub() {
				continue
			}

			err := p.validate(opt.Text.Sub.Stages, depth+1)
			if err != nil {
				return errors.Wrapf(err, "%s -%s", st.Name, opt.Name)
			}
		}
	}

	return nil
}

// scope is one linear run of stages: the top-level command or a sub-pipeline.
type scope struct {
	stages []model.Stage
	mode   codec.Mode
	depth  int
	// prefix makes stage IDs unique across sub-pipelines.
	prefix string
}

func (sc scope) stageInfo(i int, st model.Stage) *model.StageInfo {
	return &model.StageInfo{
		ID:    fmt.Sprintf("%s%s#%d", sc.prefix, st.Name, i),
		Name:  st.Name,
		Index: i,
		Depth: sc.depth,
		Mode:  stageMode(sc.mode, st),
	}
}

// run connects the stages of sc with OS pipes, starts one goroutine per stage and
// copies the output of the last one into out. It returns the last stage.
func (p *Pipeline) run(ctx context.Context, sc scope, in io.Reader, out io.Writer) (*model.StageInfo, error) {
	if len(sc.stages) == 0 {
		_, err := io.Copy(out, in)

		return nil, errors.Wrap(err, "unable to copy input")
	}

	errcList := &errorChans{}

	var (
		src    = in
		owned  *os.File
		parent *model.StageInfo
	)

	if sc.depth == 0 {
		parent = model.StartStage
	}

	for i, st := range sc.stages {
		r, w, err := os.Pipe()
		if err != nil {
			// Started stages see a closed pipe and stop.
			if owned != nil {
				owned.Close()
			}

			drainPipeline(errcList.list...)

			return nil, errors.Wrap(err, "unable to create pipe")
		}

		info := sc.stageInfo(i, st)

		err = p.prepareStage(parent, info)
		if err != nil {
			r.Close()
			w.Close()

			if owned != nil {
				owned.Close()
			}

			// Started stages see a closed pipe and stop.
			drainPipeline(errcList.list...)

			return nil, err
		}

		errC := make(chan error, 1)
		errcList.add(newErrorChan(st.Name, errC))

		go p.runStage(ctx, sc, st, info, src, owned, w, errC)

		src, owned, parent = r, r, info
	}

	if sc.depth == 0 {
		err := p.prepareStage(parent, model.EndStage)
		if err != nil {
			owned.Close()
			drainPipeline(errcList.list...)

			return nil, err
		}
	}

	_, copyErr := io.Copy(out, owned)
	owned.Close()

	err := waitForPipeline(errcList.list...)
	if err != nil {
		return nil, err
	}

	if copyErr != nil && !isBrokenPipe(copyErr) {
		return nil, errors.Wrap(copyErr, "unable to write output")
	}

	return parent, nil
}

func (p *Pipeline) prepareStage(parent, stage *model.StageInfo) error {
	for _, opt := range p.opts {
		err := opt.PrepareStage(parent, stage)
		if err != nil {
			return errors.Wrapf(err, "unable to prepare stage %s", stage.ID)
		}
	}

	return nil
}
