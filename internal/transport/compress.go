package transport

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/atikulmunna/logbrowser/internal/model"
)

// decompress wraps r with the decoder for c. Closing the result releases
// the decoder only; the caller still owns r.
func decompress(r io.Reader, c model.Compression) (io.ReadCloser, error) {
	switch c {
	case model.CompressionNone:
		return io.NopCloser(r), nil
	case model.CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case model.CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return zr.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("%w: invalid compression %q", model.ErrConfiguration, c)
	}
}
