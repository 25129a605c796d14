package tail

import (
	"github.com/pmo-project/pmo/internal/probe"
	"github.com/pmo-project/pmo/internal/state"
)

// Flush truncates (not unlinks) the log pair while the service is
// running, since the child may hold the file descriptors open, and deletes
// the files outright once it is stopped. Truncation is kept even though
// the child's append position may or may not reset depending on
// platform — see DESIGN.md for why this is an accepted limitation rather
// than something fixed here.
func Flush(store *state.Store, prober *probe.Prober, name string) error {
	row, err := prober.Status(name)
	if err != nil {
		return err
	}
	if row.State == probe.Running {
		return store.TruncateLogs(name)
	}
	return store.DeleteLogs(name)
}
