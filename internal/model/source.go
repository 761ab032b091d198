package model

import (
	"fmt"
	"strings"
)

// DateHolder is the template token replaced by a formatted date.
const DateHolder = "{date}"

// SourceType is the transport used to reach a log source.
type SourceType string

const (
	SourceLocal SourceType = "LOCAL"
	SourceHTTP  SourceType = "HTTP"
	SourceHTTPS SourceType = "HTTPS"
	SourceSFTP  SourceType = "SFTP"
)

// ParseSourceType normalises a configured type. SSH is accepted for SFTP.
func ParseSourceType(s string) (SourceType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOCAL", "":
		return SourceLocal, nil
	case "HTTP":
		return SourceHTTP, nil
	case "HTTPS":
		return SourceHTTPS, nil
	case "SFTP", "SSH":
		return SourceSFTP, nil
	default:
		return "", fmt.Errorf("%w: invalid source type %q", ErrConfiguration, s)
	}
}

// Remote reports whether the type needs a host.
func (t SourceType) Remote() bool {
	return t != SourceLocal
}

// Compression is the compression applied to rotated log files.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gz"
	CompressionZstd Compression = "zst"
)

// ParseCompression normalises a configured compression kind.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "none":
		return CompressionNone, nil
	case "gz", "gzip":
		return CompressionGzip, nil
	case "zst", "zstd":
		return CompressionZstd, nil
	default:
		return "", fmt.Errorf("%w: invalid compression %q", ErrConfiguration, s)
	}
}

// Suffix is the file name suffix of a compressed variant.
func (c Compression) Suffix() string {
	if c == CompressionNone {
		return ""
	}
	return "." + string(c)
}

// Credentials are passed through to the transport untouched.
type Credentials struct {
	User   string
	Secret string
}

// Empty reports whether no user was configured.
func (c Credentials) Empty() bool {
	return c.User == ""
}

// LogSource describes a group of log files on one host that share access
// parameters. It is immutable once loaded.
type LogSource struct {
	Type          SourceType
	Host          string // empty for LOCAL; may carry ":port"
	Alias         string // display suffix for files of this source
	Credentials   Credentials
	BaseDir       string
	Compression   Compression
	Files         []string // path templates, each with at most one DateHolder
	KnownHosts    string   // SFTP known_hosts file; empty skips host key checks
	TodayUndated  bool     // today's file carries no date
	DateSeparator string   // inserted before the formatted date
}

func (s LogSource) String() string {
	if s.Type == SourceLocal {
		return fmt.Sprintf("%s %s", s.Type, s.BaseDir)
	}
	return fmt.Sprintf("%s %s%s", s.Type, s.Host, s.BaseDir)
}

// App is a named application with its ordered log sources.
type App struct {
	Name    string
	Pattern string // optional regexp with timestamp/level/message groups
	Sources []LogSource
}
