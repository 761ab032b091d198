package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/atikulmunna/logbrowser/internal/model"
)

// maxLineSize bounds a single log line; longer lines fail the read.
const maxLineSize = 8 * 1024 * 1024

// Strategy reads one resolved log file through a specific protocol.
// Implementations keep only connection parameters between calls: every
// operation opens and releases its own handles.
type Strategy interface {
	// Exists probes the file. A missing file is (false, nil); any other
	// failure is a *model.TransportError.
	Exists(ctx context.Context) (bool, error)

	// ReadLines returns the decompressed content split into lines.
	ReadLines(ctx context.Context) ([]model.Line, error)

	// CopyTo streams the decompressed content into a new local file.
	CopyTo(ctx context.Context, dest string) error

	// Identity is the key used for equality and hashing.
	Identity() string

	// Path is the resolved path on the source.
	Path() string
}

// Spec is everything needed to build a Strategy for one candidate file.
type Spec struct {
	Source      model.LogSource
	Path        string            // expanded template, relative to Source.BaseDir
	Compression model.Compression // compression of this variant, if any
}

// Options carries protocol plumbing shared by the strategies of a resolver.
type Options struct {
	// HTTPClient is used for HTTP and HTTPS sources. Nil builds a client
	// without keep-alives so each call owns its connection.
	HTTPClient *http.Client

	// DialSFTP opens an SFTP session. Nil dials SSH with the source's
	// credentials.
	DialSFTP SFTPDialer

	// DialTimeout bounds connection setup for remote sources.
	DialTimeout time.Duration
}

// New builds the strategy for spec. Unsupported type or compression
// combinations wrap model.ErrConfiguration.
func New(spec Spec, opts Options) (Strategy, error) {
	full := JoinPath(spec.Source.BaseDir, spec.Path)

	switch spec.Source.Type {
	case model.SourceLocal:
		return NewLocal(full, spec.Compression), nil

	case model.SourceHTTP, model.SourceHTTPS:
		if spec.Source.Host == "" {
			return nil, fmt.Errorf("%w: %s source without host", model.ErrConfiguration, spec.Source.Type)
		}
		return NewHTTP(spec.Source, full, spec.Compression, opts)

	case model.SourceSFTP:
		if spec.Compression != model.CompressionNone {
			return nil, fmt.Errorf("%w: SFTP sources do not support compression (%s)",
				model.ErrConfiguration, spec.Compression)
		}
		if spec.Source.Host == "" {
			return nil, fmt.Errorf("%w: SFTP source without host", model.ErrConfiguration)
		}
		return NewSFTP(spec.Source, full, opts), nil

	default:
		return nil, fmt.Errorf("%w: invalid type %q", model.ErrConfiguration, spec.Source.Type)
	}
}

// JoinPath appends p to base, inserting a slash only when neither side
// provides one.
func JoinPath(base, p string) string {
	switch {
	case base == "":
		return p
	case strings.HasSuffix(base, "/") || strings.HasPrefix(p, "/"):
		return base + p
	default:
		return base + "/" + p
	}
}

// BaseName returns the last path segment of p, or p itself without slashes.
func BaseName(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// scanLines splits r into numbered lines.
func scanLines(r io.Reader) ([]model.Line, error) {
	var lines []model.Line
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for i := 0; scanner.Scan(); i++ {
		lines = append(lines, model.Line{Index: i, Text: scanner.Text()})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// writeFile copies r into a new file at dest. A partial file is removed on
// failure.
func writeFile(r io.Reader, dest string) error {
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}

// ctxReader aborts reads once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
