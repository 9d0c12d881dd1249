package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/textilize/pkg/errors"
)

// Result is the outcome of one unit
type Result struct {
	Unit     string
	Err      error
	Duration time.Duration
}

// OK reports whether the unit completed
func (r Result) OK() bool { return r.Err == nil }

// Code returns the innermost error code of a failed unit
func (r Result) Code() errors.ErrorCode {
	if r.Err == nil {
		return ""
	}
	return errors.RootCode(r.Err)
}

// Report lists the results of a batch in input order
type Report struct {
	Results []Result
}

// Failed returns the failed results
func (r Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Succeeded counts completed units
func (r Report) Succeeded() int {
	return len(r.Results) - len(r.Failed())
}

// OK reports whether every unit completed
func (r Report) OK() bool {
	return len(r.Failed()) == 0
}

// Err summarizes the failures under the first failure's code, nil when
// every unit completed
func (r Report) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	names := make([]string, len(failed))
	for i, res := range failed {
		names[i] = res.Unit
	}
	return errors.Newf(failed[0].Code(), "%d of %d units failed", len(failed), len(r.Results)).
		WithDetail("units", names)
}

func (r Report) String() string {
	var b strings.Builder
	for _, res := range r.Results {
		if res.OK() {
			fmt.Fprintf(&b, "ok   %s\n", res.Unit)
		} else {
			fmt.Fprintf(&b, "FAIL %s: %v\n", res.Unit, res.Err)
		}
	}
	fmt.Fprintf(&b, "%d succeeded, %d failed\n", r.Succeeded(), len(r.Failed()))
	return b.String()
}
