// Command codec streams standard input through a pipeline of codecs and writes
// the result to standard output.
//
//	codec -I hello base64 hex
//	codec -d -F payload.b64 base64 zstd
//	codec -h
package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/askiada/go-codec/internal/config"
	"github.com/askiada/go-codec/internal/logging"
	"github.com/askiada/go-codec/pkg/codec/builtins"
	"github.com/askiada/go-codec/pkg/pipeline"
	"github.com/askiada/go-codec/pkg/pipeline/drawer"
	"github.com/askiada/go-codec/pkg/pipeline/dsl"
	"github.com/askiada/go-codec/pkg/pipeline/measure"
	"github.com/askiada/go-codec/pkg/pipeline/model"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "codec: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codec [-e|-d] [-n] [-I text] [-F file] [-O file] [-G file] [-M file] [stage [-option [value]]...]...",
		Short: "Stream bytes through a pipeline of encoders and decoders",
		Long: `codec runs its input through each stage in turn. Stages run concurrently and
are connected with pipes.

Options starting with an upper-case letter take a value. A value can be a
sub-pipeline, [seed stage...], whose output becomes the value.

Run "codec -h" to list the available stages.`,
		// The arguments are a pipeline, not flags.
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args, in, out, errOut)
		},
	}

	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	return cmd
}

func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	logging.Configure(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Output: errOut})

	cmd, err := dsl.Parse(args)
	if err != nil {
		return err
	}

	plan, err := pipeline.Desugar(cmd)
	if err != nil {
		return err
	}

	reg, err := builtins.NewRegistry()
	if err != nil {
		return err
	}

	pipe, err := pipeline.New(reg,
		pipeline.WithMaxDepth(cfg.Pipeline.MaxDepth),
		pipeline.WithLogger(logging.L()),
		pipeline.WithHooks(hooks(plan, cfg)...),
	)
	if err != nil {
		return err
	}

	return pipe.Run(ctx, plan, in, out)
}

// hooks measures the run when metrics or a graph were asked for, on the command
// line or in the config.
func hooks(plan *pipeline.Plan, cfg config.Config) []model.PipelineOption {
	graphFile := cmp.Or(plan.GraphFile, cfg.Graph.DOTFile)
	metricsFile := cmp.Or(plan.MetricsFile, cfg.Metrics.Textfile)

	if graphFile == "" && metricsFile == "" {
		return nil
	}

	m := measure.NewDefaultMeasure()
	opts := []model.PipelineOption{measure.PipelineMeasure(m, metricsFile)}

	if graphFile != "" {
		opts = append(opts, drawer.PipelineDrawer(drawer.NewDOTDrawer(graphFile), m))
	}

	return opts
}
