package model

import "time"

// PipelineOption defines the interface for pipeline options.
//
// Hooks other than New and Finish are called from stage goroutines and must be
// safe for concurrent use.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	pipelineStageOption

	// Finish runs after the pipeline is finished.
	Finish() error
}

// pipelineStageOption defines the interface for stage options at the pipeline level.
type pipelineStageOption interface {
	// PrepareStage runs before the stage starts. parent is the stage feeding it,
	// nil for the first stage of a sub-pipeline. The last stage of the top-level
	// pipeline is reported as the parent of EndStage.
	PrepareStage(parent, stage *StageInfo) error
	// PrepareOption runs once a sub-pipeline has produced the value of option on owner.
	PrepareOption(last, owner *StageInfo, option string) error
	// OnStageDone runs when a stage returns, with the bytes it wrote.
	OnStageDone(stage *StageInfo, written int64, elapsed time.Duration) error
}
