// Package model provides the data structures shared by the pipeline packages.
// It defines the parsed command (the pipeline, its stages, their options and the
// texts options carry, including nested sub-pipelines), the description of a running
// stage and the hooks a pipeline option can implement.
package model
