package measure

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/askiada/go-codec/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
	textfile string
}

func (*pipelineMeasure) New() error {
	return nil
}

func (pm *pipelineMeasure) PrepareStage(_, stage *model.StageInfo) error {
	if stage == model.EndStage {
		return nil
	}

	pm.AddMetric(stage.ID, stage.Name)

	return nil
}

func (*pipelineMeasure) PrepareOption(_, _ *model.StageInfo, _ string) error {
	return nil
}

func (pm *pipelineMeasure) OnStageDone(stage *model.StageInfo, written int64, elapsed time.Duration) error {
	pm.AddMetric(stage.ID, stage.Name).Record(written, elapsed)

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	if pm.textfile == "" {
		return nil
	}

	err := prometheus.WriteToTextfile(pm.textfile, pm.Gatherer())
	if err != nil {
		return errors.Wrapf(err, "unable to write metrics to %s", pm.textfile)
	}

	return nil
}

// PipelineMeasure records every stage of a run into measure. When textfile is
// set the metrics are written there in the Prometheus text format once the run
// finishes.
func PipelineMeasure(measure Measure, textfile string) model.PipelineOption {
	return &pipelineMeasure{Measure: measure, textfile: textfile}
}
