package pixelcache

import (
	"errors"
	"fmt"

	"github.com/voskan/pixelcache/internal/buffer"
)

// ErrAllocFailed is the only error the core cache ever returns (§7). It
// surfaces from New when the initial N buffers cannot be allocated, and
// from Get/GetImportant/GetWeighted when a victim entry needs to grow but
// the backing allocation fails. In both cases the cache is left
// consistent: on a failed Get, the victim entry retains its previous
// contents and metadata, and the query/miss counters are still
// incremented because the lookup itself did happen.
var ErrAllocFailed = errors.New("pixelcache: buffer allocation failed")

// wrapAllocErr folds a buffer-level allocation error into the package's
// single exported sentinel, preserving errors.Is(err, ErrAllocFailed).
func wrapAllocErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, buffer.ErrAllocFailed) {
		return fmt.Errorf("%w: %v", ErrAllocFailed, err)
	}
	return err
}
