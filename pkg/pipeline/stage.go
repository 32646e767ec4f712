package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-codec/pkg/codec"
	"github.com/askiada/go-codec/pkg/pipeline/model"
)

// stageMode applies a stage's own e/d switch to the inherited mode. d wins over e.
func stageMode(inherited codec.Mode, st model.Stage) codec.Mode {
	mode := inherited

	for _, opt := range st.Options {
		if !opt.IsSwitch() {
			continue
		}

		switch opt.Name {
		case "d":
			return codec.Decode
		case "e":
			mode = codec.Encode
		}
	}

	return mode
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)

	return n, err
}

// runStage runs one stage to completion. Closing w tells the next stage the
// stream ended; closing owned makes the previous stage's writes fail with a broken pipe.
func (p *Pipeline) runStage(
	ctx context.Context,
	sc scope,
	st model.Stage,
	info *model.StageInfo,
	in io.Reader,
	owned, w *os.File,
	errC chan<- error,
) {
	defer close(errC)
	defer w.Close()

	if owned != nil {
		defer owned.Close()
	}

	start := time.Now()
	cw := &countingWriter{w: w}

	p.logger.Debug("stage started", "stage", info.ID, "mode", info.Mode.String())

	err := p.execStage(ctx, sc, st, info, in, cw)
	elapsed := time.Since(start)

	if err != nil && isBrokenPipe(err) {
		p.logger.Debug("downstream closed", "stage", info.ID, "bytes", cw.n)

		err = nil
	}

	if err != nil {
		errC <- err

		return
	}

	p.logger.Debug("stage finished", "stage", info.ID, "bytes", cw.n, "elapsed", elapsed)

	for _, opt := range p.opts {
		hookErr := opt.OnStageDone(info, cw.n, elapsed)
		if hookErr != nil {
			errC <- errors.Wrap(hookErr, "unable to record stage")

			return
		}
	}
}

func (p *Pipeline) execStage(
	ctx context.Context,
	sc scope,
	st model.Stage,
	info *model.StageInfo,
	in io.Reader,
	out io.Writer,
) error {
	c, ok := p.registry.Lookup(st.Name)
	if !ok {
		return &LookupError{Name: st.Name}
	}

	opts, err := p.resolve(ctx, sc, st, info)
	if err != nil {
		return err
	}

	if mc, ok := c.(codec.MetaCodec); ok {
		return mc.RunMeta(ctx, in, info.Mode, opts, p.registry, out)
	}

	return c.Run(ctx, in, info.Mode, opts, out)
}

// resolve builds the options of a stage. Sub-pipeline values are evaluated
// concurrently and all of them finish before the stage runs.
func (p *Pipeline) resolve(ctx context.Context, sc scope, st model.Stage, info *model.StageInfo) (codec.Options, error) {
	opts := codec.NewOptions()
	values := make([][]byte, len(st.Options))

	errGrp, dCtx := errgroup.WithContext(ctx)

	for i, opt := range st.Options {
		if !opt.Text.IsSub() {
			continue
		}

		errGrp.Go(func() error {
			value, err := p.evaluate(dCtx, sc, info, i, opt.Name, opt.Text.Sub)
			if err != nil {
				return errors.Wrapf(err, "option -%s", opt.Name)
			}

			values[i] = value

			return nil
		})
	}

	err := errGrp.Wait()
	if err != nil {
		return opts, err
	}

	for i, opt := range st.Options {
		switch {
		case opt.IsSwitch():
			opts.SetSwitch(opt.Name)
		case opt.Text.IsSub():
			opts.SetText(opt.Name, values[i])
		default:
			opts.SetText(opt.Name, opt.Text.Literal)
		}
	}

	return opts, nil
}

// evaluate runs a sub-pipeline over its seed and returns everything it wrote.
// It inherits the mode of the enclosing pipeline, not the owner's override.
func (p *Pipeline) evaluate(
	ctx context.Context,
	sc scope,
	owner *model.StageInfo,
	index int,
	option string,
	sub *model.SubPipeline,
) ([]byte, error) {
	child := scope{
		stages: sub.Stages,
		mode:   sc.mode,
		depth:  sc.depth + 1,
		prefix: fmt.Sprintf("%s/-%s#%d/", owner.ID, option, index),
	}
	if child.depth > p.maxDepth {
		return nil, errors.Wrapf(ErrMaxDepth, "depth %d > %d", child.depth, p.maxDepth)
	}

	var buf bytes.Buffer

	last, err := p.run(ctx, child, bytes.NewReader(sub.Seed), &buf)
	if err != nil {
		return nil, err
	}

	if last != nil {
		for _, opt := range p.opts {
			err := opt.PrepareOption(last, owner, option)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to prepare option -%s", option)
			}
		}
	}

	return buf.Bytes(), nil
}
