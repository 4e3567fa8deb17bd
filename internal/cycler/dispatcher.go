package cycler

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"

	"settingscycler/pkg/cyclertypes"
)

// WriteFailure records one write of a batch that did not complete.
type WriteFailure struct {
	Key   string
	Scope cyclertypes.Scope
	Err   error
}

// Dispatch runs every pending write concurrently and waits for all of them.
// A failing or panicking write does not stop the others; each failure is
// logged and returned in the order of writes. There is no batch-level error.
func Dispatch(ctx context.Context, writes []PendingWrite, logger *log.Logger) []WriteFailure {
	errs := make([]error, len(writes))

	p := pool.New()
	for i, w := range writes {
		i, w := i, w
		p.Go(func() {
			var catcher panics.Catcher
			catcher.Try(func() {
				errs[i] = w.Write(ctx)
			})
			if recovered := catcher.Recovered(); recovered != nil {
				errs[i] = recovered.AsError()
			}
		})
	}
	p.Wait()

	var failures []WriteFailure
	for i, err := range errs {
		if err == nil {
			continue
		}
		failure := WriteFailure{Key: writes[i].Key, Scope: writes[i].Scope, Err: err}
		failures = append(failures, failure)
		if logger != nil {
			logger.Error("settings write failed", "key", failure.Key, "scope", failure.Scope.String(), "error", err)
		}
	}
	return failures
}
