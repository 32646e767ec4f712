package drawer

import (
	"time"

	"github.com/askiada/go-codec/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStage adds a stage to the pipeline drawer.
	AddStage(id, label string) error
	// AddLink adds a link from the stage feeding bytes to the one receiving them.
	// A non-empty label names the option a sub-pipeline fills.
	AddLink(parentID, childID, label string) error
	// Draw writes the pipeline graph.
	Draw() error
	// SetTotalTime sets the total time for the stage.
	SetTotalTime(id string, startTime time.Time) error
	// AddMeasure adds a measure to the pipeline drawer.
	AddMeasure(measure measure.Measure) error
	// MarkSlowest highlights the slowest stage on the main chain from sourceID to targetID.
	MarkSlowest(sourceID, targetID string, measure measure.Measure) error
}
