package drawer

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-codec/pkg/pipeline/measure"
	"github.com/askiada/go-codec/pkg/pipeline/model"
)

type pipelineDrawer struct {
	mu sync.Mutex
	Drawer
	m         measure.Measure
	startTime time.Time
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStage(model.StartStage.ID, model.StartStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start stage to drawer")
	}

	err = pd.AddStage(model.EndStage.ID, model.EndStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end stage to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStage(parent, stage *model.StageInfo) error {
	pd.mu.Lock()
	defer pd.mu.Unlock()

	if stage != model.EndStage {
		err := pd.AddStage(stage.ID, stage.Name)
		if err != nil {
			return err
		}
	}

	if parent == nil {
		return nil
	}

	return pd.AddLink(parent.ID, stage.ID, "")
}

func (pd *pipelineDrawer) PrepareOption(last, owner *model.StageInfo, option string) error {
	pd.mu.Lock()
	defer pd.mu.Unlock()

	return pd.AddLink(last.ID, owner.ID, "-"+option)
}

func (*pipelineDrawer) OnStageDone(*model.StageInfo, int64, time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) Finish() error {
	pd.mu.Lock()
	defer pd.mu.Unlock()

	if pd.m != nil {
		err := pd.SetTotalTime(model.EndStage.ID, pd.startTime)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}

		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}

		err = pd.MarkSlowest(model.StartStage.ID, model.EndStage.ID, pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to mark slowest stage")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws every stage of a run, and the sub-pipelines feeding their
// options, once the run finishes. A non-nil measure adds timings and byte counts.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: measure, startTime: time.Now()}
}
