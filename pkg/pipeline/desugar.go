package pipeline

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-codec/pkg/codec"
	"github.com/askiada/go-codec/pkg/pipeline/model"
)

// Plan is a command with its top-level options turned into stages and settings.
type Plan struct {
	Mode   codec.Mode
	Stages []model.Stage
	// GraphFile and MetricsFile are empty unless -G and -M were given.
	GraphFile   string
	MetricsFile string
}

// Desugar rewrites the top-level options of cmd. It does no I/O.
//
//	-e, -d    run in encode, decode mode (-d wins)
//	-I text   prepend "const -C text"
//	-F file   prepend "cat -c -F file"
//	-O file   append "redirect -O file"
//	-n        append "newline", ahead of any redirect
//	-h        replace every stage with "usage"
//	-G file   write the pipeline graph
//	-M file   write stage metrics
func Desugar(cmd *model.Pipeline) (*Plan, error) {
	if cmd == nil {
		return nil, ErrPlanMustBeSet
	}

	plan := &Plan{}

	var (
		head, tail            []model.Stage
		decode, newline, help bool
	)

	for _, opt := range cmd.TopOptions {
		switch opt.Name {
		case "e":
			// encode is the default direction.
		case "d":
			decode = true
		case "n":
			newline = true
		case "h":
			help = true
		case "I":
			head = append(head, model.NewStage("const", model.Value("C", opt.Text)))
		case "F":
			head = append(head, model.NewStage("cat", model.Switch("c"), model.Value("F", opt.Text)))
		case "O":
			tail = append(tail, model.NewStage("redirect", model.Value("O", opt.Text)))
		case "G", "M":
			if opt.IsSwitch() || opt.Text.IsSub() {
				return nil, errors.Wrapf(ErrLiteralRequired, "-%s", opt.Name)
			}

			if opt.Name == "G" {
				plan.GraphFile = string(opt.Text.Literal)
			} else {
				plan.MetricsFile = string(opt.Text.Literal)
			}
		default:
			return nil, errors.Wrapf(ErrUnknownTopOption, "-%s", opt.Name)
		}
	}

	if decode {
		plan.Mode = codec.Decode
	}

	if help {
		plan.Stages = []model.Stage{model.NewStage("usage")}

		return plan, nil
	}

	stages := make([]model.Stage, 0, len(head)+len(cmd.Stages)+len(tail)+1)
	stages = append(stages, head...)
	stages = append(stages, cmd.Stages...)

	if newline {
		stages = append(stages, model.NewStage("newline"))
	}

	plan.Stages = append(stages, tail...)

	return plan, nil
}
