// Package pipeline runs a parsed command as a chain of concurrent stages.
//
// Every stage runs in its own goroutine and talks to its neighbours through OS
// pipes. A full pipe blocks the writer, so a slow stage holds back the ones before
// it, and closing the write end is the only way a stage learns its input ended.
// The goroutine calling Run copies the output of the last stage to the caller's
// writer.
//
// Option values can themselves be pipelines: "-K [seed stage ...]" runs the inner
// stages over seed and uses what they wrote as the value. Inner pipelines run to
// completion before the stage that owns the option starts.
//
// The pipeline stops on the first stage error and reports it prefixed with the
// stage name. A stage that stops reading early is not an error: the stage writing
// to it sees a broken pipe, which is ignored.
package pipeline
