package workflow

import (
	"path/filepath"

	"github.com/gofrs/flock"

	"kslingo/internal/services"
)

// LockFileName is the advisory lock held in the output directory while a run
// publishes files.
const LockFileName = ".kslingo.lock"

// lockOutputDir takes the output directory lock without waiting. A second
// run against the same directory fails instead of interleaving writes.
func lockOutputDir(dir string) (func(), error) {
	lock := flock.New(filepath.Join(dir, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "lock output dir", dir, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "lock output dir",
			"another kslingo run is writing to "+dir, nil)
	}
	return func() {
		_ = lock.Unlock()
	}, nil
}
