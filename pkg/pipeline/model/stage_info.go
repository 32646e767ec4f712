package model

import "github.com/askiada/go-codec/pkg/codec"

// StageInfo describes a stage the pipeline is about to run.
type StageInfo struct {
	// ID is unique within a run, Name repeats when a codec is used twice.
	ID    string
	Name  string
	Index int
	// Depth is 0 for top-level stages and grows by one per enclosing sub-pipeline.
	Depth int
	Mode  codec.Mode
}

var (
	StartStage = &StageInfo{ID: "start", Name: "start"}
	EndStage   = &StageInfo{ID: "end", Name: "end"}
)
