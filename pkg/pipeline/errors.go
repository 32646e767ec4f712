package pipeline

import (
	"io"
	"sync"
	"syscall"

	"github.com/pkg/errors"
)

var (
	ErrRegistryMustBeSet = errors.New("registry must be set")
	ErrPlanMustBeSet     = errors.New("plan must be set")
	ErrMaxDepth          = errors.New("sub-pipelines nested too deeply")
	ErrUnknownTopOption  = errors.New("unknown top-level option")
	ErrLiteralRequired   = errors.New("option needs a literal value")
)

// LookupError reports a stage whose name is not registered. It is wrapped with
// the stage name like any other stage error.
type LookupError struct {
	Name string
}

func (*LookupError) Error() string {
	return "codec not found"
}

// isBrokenPipe reports whether err means the reading side went away first.
func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}

type errorChans struct {
	mu   sync.Mutex
	list []*errorChan
}

func (ec *errorChans) add(errChan *errorChan) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.list = append(ec.list, errChan)
}

type errorChan struct {
	c    <-chan error
	name string
}

func newErrorChan(name string, c <-chan error) *errorChan {
	return &errorChan{
		c:    c,
		name: name,
	}
}

// mergeErrors merges multiple channels of errors, prefixing each error with the
// name of the stage that produced it.
// Based on https://blog.golang.org/pipelines.
func mergeErrors(cs ...*errorChan) <-chan error {
	var wg sync.WaitGroup
	// The output channel holds one error per input channel so senders never
	// block, even when waitForPipeline returns early.
	out := make(chan error, len(cs))

	output := func(c *errorChan) {
		defer wg.Done()
		if c.c == nil {
			return
		}
		for n := range c.c {
			out <- errors.Wrap(n, c.name)
		}
	}
	wg.Add(len(cs))
	for _, c := range cs {
		go output(c)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// waitForPipeline waits for results from all error channels.
// It returns early on the first error.
func waitForPipeline(errs ...*errorChan) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}

	return nil
}

// drainPipeline waits for every stage to return and discards their errors.
func drainPipeline(errs ...*errorChan) {
	for range mergeErrors(errs...) {
	}
}
