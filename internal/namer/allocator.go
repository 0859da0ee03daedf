package namer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dmorgan81/dreamwriter/internal/log"
	"github.com/samber/lo"
)

// FilenameAllocator picks the path for the next image of a session.
// previous is the path handed out by the last call, or "" on the first.
type FilenameAllocator interface {
	NextPath(seed int64, upscaled bool, previous string) string
}

// SequentialAllocator numbers files {count:06d}.{seed}[.{series:02d}].png in
// Dir, continuing from the highest count already present.
//
// It checks for existing files without locking and assumes a single writer
// per directory.
type SequentialAllocator struct {
	Dir       string
	BatchSize int
	Log       *slog.Logger
}

func NewSequentialAllocator(ctx context.Context, dir string, batchSize int) *SequentialAllocator {
	return &SequentialAllocator{
		Dir:       dir,
		BatchSize: batchSize,
		Log:       log.FromContextOrDiscard(ctx).WithGroup("allocator"),
	}
}

func (a *SequentialAllocator) NextPath(seed int64, upscaled bool, previous string) string {
	if previous != "" {
		if count, ok := parseCount(filepath.Base(previous)); ok {
			return a.continueSeries(count, seed, upscaled)
		}
	}
	return a.nextCount(seed)
}

func (a *SequentialAllocator) nextCount(seed int64) string {
	count := a.highestCount() + 1
	if a.BatchSize > 1 {
		return a.path(fmt.Sprintf("%06d.%d.01.png", count, seed))
	}
	return a.path(fmt.Sprintf("%06d.%d.png", count, seed))
}

// continueSeries keeps the count of the previous file and finds the first
// free series number. Upscaled images take the unsuffixed name whenever a
// suffix would be needed.
func (a *SequentialAllocator) continueSeries(count int, seed int64, upscaled bool) string {
	plain := fmt.Sprintf("%06d.%d.png", count, seed)
	for series := 1; ; series++ {
		filename := plain
		if a.BatchSize > 1 || a.exists(plain) {
			if upscaled {
				return a.path(plain)
			}
			filename = fmt.Sprintf("%06d.%d.%02d.png", count, seed, series)
		}
		if !a.exists(filename) {
			return a.path(filename)
		}
	}
}

// highestCount returns the count of the first matching name in reverse
// lexical order, or 0.
func (a *SequentialAllocator) highestCount() int {
	entries, err := os.ReadDir(a.Dir)
	if err != nil {
		a.warn("listing output directory", "dir", a.Dir, "error", err)
	}
	names := lo.Map(entries, func(e fs.DirEntry, _ int) string { return e.Name() })
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	for _, name := range names {
		if count, ok := parseCount(name); ok {
			return count
		}
	}
	return 0
}

func (a *SequentialAllocator) exists(filename string) bool {
	_, err := os.Stat(a.path(filename))
	return err == nil
}

func (a *SequentialAllocator) path(filename string) string {
	return filepath.Join(a.Dir, filename)
}

func (a *SequentialAllocator) warn(msg string, args ...any) {
	if a.Log != nil {
		a.Log.Warn(msg, args...)
	}
}
