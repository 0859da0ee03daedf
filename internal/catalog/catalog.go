// Package catalog reads an output directory back into ordered entries.
package catalog

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dmorgan81/dreamwriter/internal/log"
	"github.com/dmorgan81/dreamwriter/internal/namer"
	"github.com/dmorgan81/dreamwriter/internal/pngmeta"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Entry struct {
	namer.Name
	File     string
	Prompt   string
	Modified time.Time
}

// Load lists the files in dir that follow the output naming scheme, ordered
// by count then series, with the embedded prompt of each.
func Load(ctx context.Context, dir string) ([]Entry, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("catalog").With("dir", dir)
	log.Info("loading catalog")

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := lo.FilterMap(dirEntries, func(e fs.DirEntry, _ int) (Entry, bool) {
		if e.IsDir() {
			return Entry{}, false
		}
		name, ok := namer.ParseName(e.Name())
		return Entry{Name: name, File: e.Name()}, ok
	})

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(8)
	for i := range entries {
		entry := &entries[i]
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, entry.File)
			if info, err := os.Stat(path); err == nil {
				entry.Modified = info.ModTime()
			}
			prompt, err := readPrompt(path)
			if err != nil {
				log.Warn("reading prompt", "file", entry.File, "error", err)
				return nil
			}
			entry.Prompt = prompt
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Base != b.Base {
			return a.Base < b.Base
		}
		if a.Series != b.Series {
			return a.Series < b.Series
		}
		return a.File < b.File
	})
	return entries, nil
}

func readPrompt(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	text, err := pngmeta.ReadText(f)
	if err != nil {
		return "", err
	}
	return text[namer.PromptKey], nil
}
