package browser

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atikulmunna/logbrowser/internal/model"
)

// PrepareDownloadFolder returns the folder the last search downloads into:
// <base><app>_<from>[_<to>]. An existing folder is reported as a
// *model.FolderExistsError carrying the path.
func (c *Coordinator) PrepareDownloadFolder() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last == nil {
		return "", fmt.Errorf("%w: search for logs before downloading", model.ErrValidation)
	}
	folder := c.folder(c.last)
	exists, err := dirExists(folder)
	if err != nil {
		return "", err
	}
	if exists {
		return folder, &model.FolderExistsError{Path: folder}
	}
	return folder, nil
}

// Download copies every file of the download set into folder and returns
// how many were written. An existing folder is replaced when overwrite is
// set and refused otherwise.
func (c *Coordinator) Download(ctx context.Context, folder string, overwrite bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.last
	if s == nil {
		return 0, fmt.Errorf("%w: search for logs before downloading", model.ErrValidation)
	}
	if folder == "" {
		folder = c.folder(s)
	}

	exists, err := dirExists(folder)
	if err != nil {
		return 0, err
	}
	if exists {
		if !overwrite {
			return 0, &model.FolderExistsError{Path: folder}
		}
		if err := os.RemoveAll(folder); err != nil {
			return 0, fmt.Errorf("remove %s: %w", folder, err)
		}
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return 0, fmt.Errorf("create %s: %w", folder, err)
	}

	taken := make(map[string]bool, len(s.files))
	written := 0
	for _, f := range s.files {
		name := uniqueName(DownloadName(f.DisplayName(), c.settings.DownloadExt), func(n string) bool {
			return taken[n]
		})
		taken[name] = true

		dest := filepath.Join(folder, name)
		if err := f.CopyTo(ctx, dest); err != nil {
			c.publish(s, model.Event{Kind: model.EventError, Source: f.Identity(), Detail: err.Error()})
			return written, err
		}
		written++
		c.publish(s, model.Event{Kind: model.EventDownloaded, Source: f.Identity(), File: name, Detail: dest})
	}

	log.Printf("[browser] downloaded %d files of %s to %s", written, s.app, folder)
	return written, nil
}

// folder prefixes the base verbatim; a base without a trailing separator
// names a sibling, not a parent.
func (c *Coordinator) folder(s *search) string {
	return c.settings.DownloadBase + s.app + "_" + s.dr.String()
}

// DownloadName appends ext to name unless name already ends with it.
func DownloadName(name, ext string) string {
	if ext == "" || strings.HasSuffix(name, ext) {
		return name
	}
	return name + ext
}

// uniqueName returns name, or name with "(n)" inserted before its extension
// for the smallest n >= 1 that is not taken.
func uniqueName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		candidate := stem + "(" + strconv.Itoa(n) + ")" + ext
		if !taken(candidate) {
			return candidate
		}
	}
}

func dirExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
