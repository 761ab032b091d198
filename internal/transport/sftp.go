package transport

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/atikulmunna/logbrowser/internal/model"
)

// DefaultSSHPort is used when the configured host carries no port.
const DefaultSSHPort = "22"

// SFTPDialer opens an SFTP session for src. The returned func tears the
// session and its connection down.
type SFTPDialer func(ctx context.Context, src model.LogSource) (*sftp.Client, func() error, error)

// SFTP reads log files over SFTP. Every call opens a fresh SSH session and
// SFTP channel and closes both before returning. Compression is not
// supported.
type SFTP struct {
	src  model.LogSource
	path string
	dial SFTPDialer
}

// NewSFTP returns a strategy for path on the source's host.
func NewSFTP(src model.LogSource, path string, opts Options) *SFTP {
	dial := opts.DialSFTP
	if dial == nil {
		dial = DialSSH(opts.DialTimeout)
	}
	return &SFTP{src: src, path: path, dial: dial}
}

func (s *SFTP) Exists(ctx context.Context) (bool, error) {
	client, closeFn, err := s.dial(ctx, s.src)
	if err != nil {
		return false, s.fail("exists", err)
	}
	defer closeFn()

	info, err := client.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, s.fail("exists", err)
	}
	return !info.IsDir(), nil
}

func (s *SFTP) ReadLines(ctx context.Context) ([]model.Line, error) {
	client, closeFn, err := s.dial(ctx, s.src)
	if err != nil {
		return nil, s.fail("read", err)
	}
	defer closeFn()

	f, err := client.Open(s.path)
	if err != nil {
		return nil, s.fail("read", err)
	}
	defer f.Close()

	lines, err := scanLines(ctxReader{ctx: ctx, r: f})
	if err != nil {
		return nil, s.fail("read", err)
	}
	return lines, nil
}

func (s *SFTP) CopyTo(ctx context.Context, dest string) error {
	client, closeFn, err := s.dial(ctx, s.src)
	if err != nil {
		return s.fail("copy", err)
	}
	defer closeFn()

	f, err := client.Open(s.path)
	if err != nil {
		return s.fail("copy", err)
	}
	defer f.Close()

	if err := writeFile(ctxReader{ctx: ctx, r: f}, dest); err != nil {
		return s.fail("copy", err)
	}
	return nil
}

func (s *SFTP) Identity() string { return "sftp://" + s.src.Host + s.path }

func (s *SFTP) Path() string { return s.path }

func (s *SFTP) String() string { return s.Identity() }

func (s *SFTP) fail(op string, err error) error {
	return &model.TransportError{Op: op, Source: s.Identity(), Err: err}
}

// DialSSH returns the default dialer: password (and keyboard-interactive)
// authentication, host keys checked against the source's known_hosts file
// when one is configured.
func DialSSH(timeout time.Duration) SFTPDialer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return func(ctx context.Context, src model.LogSource) (*sftp.Client, func() error, error) {
		hostKey, err := hostKeyCallback(src.KnownHosts)
		if err != nil {
			return nil, nil, err
		}

		secret := src.Credentials.Secret
		cfg := &ssh.ClientConfig{
			User: src.Credentials.User,
			Auth: []ssh.AuthMethod{
				ssh.Password(secret),
				ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
					answers := make([]string, len(questions))
					for i := range answers {
						answers[i] = secret
					}
					return answers, nil
				}),
			},
			HostKeyCallback: hostKey,
			Timeout:         timeout,
		}

		addr := sshAddr(src.Host)
		dialer := net.Dialer{Timeout: timeout}
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, nil, err
		}

		// The handshake has no context of its own.
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
		stop()
		if err != nil {
			conn.Close()
			return nil, nil, err
		}

		sshClient := ssh.NewClient(c, chans, reqs)
		client, err := sftp.NewClient(sshClient)
		if err != nil {
			sshClient.Close()
			return nil, nil, err
		}

		return client, func() error {
			return errors.Join(client.Close(), sshClient.Close())
		}, nil
	}
}

func hostKeyCallback(knownHostsFile string) (ssh.HostKeyCallback, error) {
	if knownHostsFile == "" {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	return knownhosts.New(knownHostsFile)
}

func sshAddr(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, DefaultSSHPort)
}
