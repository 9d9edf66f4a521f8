package classpath

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/dhamidi/whatis/java/entry"
	"github.com/dhamidi/whatis/java/mapper"
)

//go:embed stubs
var stubs embed.FS

var (
	bootOnce sync.Once
	bootPool *entry.Pool
	bootErr  error
)

// Bootstrap returns a pool holding the core of java.lang, java.util and
// java.io as declared by the embedded stub sources. It stands in for a
// runtime image when none is on the classpath. Callers get their own
// copy and may register more classes into it.
func Bootstrap() (*entry.Pool, error) {
	bootOnce.Do(func() {
		bootPool, bootErr = buildBootstrap()
	})
	if bootErr != nil {
		return nil, bootErr
	}
	return bootPool.Copy(), nil
}

func buildBootstrap() (*entry.Pool, error) {
	set := NewSourceSet()
	err := fs.WalkDir(stubs, "stubs", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".java" {
			return err
		}
		src, err := stubs.ReadFile(p)
		if err != nil {
			return err
		}
		unit, err := mapper.Parse(src)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		set.Add(p, unit)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap stubs: %w", err)
	}
	pool := entry.NewPool()
	if err := set.Build(pool); err != nil {
		return nil, fmt.Errorf("bootstrap stubs: %w", err)
	}
	log.Debugf("bootstrap pool with %d classes", pool.Len())
	return pool, nil
}
