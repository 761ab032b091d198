package transport

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/atikulmunna/logbrowser/internal/model"
)

// Local reads log files from the local disk.
type Local struct {
	path        string
	compression model.Compression
}

// NewLocal returns a strategy for the file at path.
func NewLocal(path string, compression model.Compression) *Local {
	return &Local{path: path, compression: compression}
}

func (l *Local) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, l.fail("exists", err)
	}
	return !info.IsDir(), nil
}

func (l *Local) ReadLines(ctx context.Context) ([]model.Line, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, l.fail("read", err)
	}
	defer f.Close()

	r, err := decompress(ctxReader{ctx: ctx, r: f}, l.compression)
	if err != nil {
		return nil, l.fail("read", err)
	}
	defer r.Close()

	lines, err := scanLines(r)
	if err != nil {
		return nil, l.fail("read", err)
	}
	return lines, nil
}

func (l *Local) CopyTo(ctx context.Context, dest string) error {
	f, err := os.Open(l.path)
	if err != nil {
		return l.fail("copy", err)
	}
	defer f.Close()

	r, err := decompress(ctxReader{ctx: ctx, r: f}, l.compression)
	if err != nil {
		return l.fail("copy", err)
	}
	defer r.Close()

	if err := writeFile(r, dest); err != nil {
		return l.fail("copy", err)
	}
	return nil
}

func (l *Local) Identity() string { return l.path }

func (l *Local) Path() string { return l.path }

func (l *Local) String() string { return l.path }

func (l *Local) fail(op string, err error) error {
	return &model.TransportError{Op: op, Source: l.Identity(), Err: err}
}
