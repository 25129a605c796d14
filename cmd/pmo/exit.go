package main

import "github.com/pmo-project/pmo/internal/pmoerr"

// exitCodeFor maps a returned error to the process exit code: 0 success,
// 1 descriptor/IO error, 2 unknown service, 3 partial failure.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	switch err.(type) {
	case *pmoerr.ConfigError, *pmoerr.IOError:
		return 1
	case *pmoerr.UnknownService:
		return 2
	case *partialFailure:
		return 3
	default:
		return 1
	}
}

// partialFailure wraps a command outcome where some services were acted on
// successfully and others failed, which maps to exit code 3.
type partialFailure struct {
	errs []error
}

func (p *partialFailure) Error() string {
	if len(p.errs) == 0 {
		return "partial failure"
	}
	return p.errs[0].Error()
}

// combineResults turns a set of per-service outcomes into nil (all ok),
// the single error (exactly one failure, so its own exit code applies), or
// a *partialFailure (mixed success/failure, forcing exit code 3).
func combineResults(succeeded int, errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if succeeded == 0 {
		return errs[0]
	}
	return &partialFailure{errs: errs}
}
