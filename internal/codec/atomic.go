package codec

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const lockRetryDelay = 25 * time.Millisecond

// tempPath returns a unique hidden path in dir keeping ext, so tools that
// infer formats from extensions still work.
func tempPath(dir, ext string) string {
	return filepath.Join(dir, ".regionfx-"+uuid.NewString()+ext)
}

// replaceFile produces dest by letting write fill a temp file in the same
// directory, then renaming it over dest under an exclusive lock.
func replaceFile(ctx context.Context, dest string, write func(tmp string) error) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("codec: create output dir: %w", err)
	}

	lock := flock.New(dest + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("codec: lock %s: %w", dest, err)
	}
	if !locked {
		return fmt.Errorf("codec: lock %s: not acquired", dest)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(dest + ".lock")
	}()

	tmp := tempPath(dir, filepath.Ext(dest))
	if err := write(tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("codec: replace %s: %w", dest, err)
	}
	return nil
}
