package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/atikulmunna/logbrowser/internal/model"
)

// logServer serves fixed files and requires basic auth when user is set.
func logServer(t *testing.T, tls bool, user, secret string, files map[string][]byte) *httptest.Server {
	t.Helper()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user != "" {
			u, p, ok := r.BasicAuth()
			if !ok || u != user || p != secret {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
		}
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		data, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	})
	var srv *httptest.Server
	if tls {
		srv = httptest.NewTLSServer(handler)
	} else {
		srv = httptest.NewServer(handler)
	}
	t.Cleanup(srv.Close)
	return srv
}

func httpSource(srv *httptest.Server, typ model.SourceType, user, secret string) model.LogSource {
	return model.LogSource{
		Type:        typ,
		Host:        srv.Listener.Addr().String(),
		BaseDir:     "/logs/",
		Credentials: model.Credentials{User: user, Secret: secret},
	}
}

func TestHTTPExists(t *testing.T) {
	srv := logServer(t, false, "ops", "s3cret", map[string][]byte{
		"/logs/app.log": []byte("a\n"),
	})
	src := httpSource(srv, model.SourceHTTP, "ops", "s3cret")
	ctx := context.Background()

	s, err := NewHTTP(src, "/logs/app.log", model.CompressionNone, Options{})
	if err != nil {
		t.Fatal(err)
	}
	ok, err := s.Exists(ctx)
	if err != nil || !ok {
		t.Errorf("expected existing file, got %v (%v)", ok, err)
	}

	s, _ = NewHTTP(src, "/logs/missing.log", model.CompressionNone, Options{})
	ok, err = s.Exists(ctx)
	if err != nil || ok {
		t.Errorf("expected 404 to be (false, nil), got %v (%v)", ok, err)
	}

	s, _ = NewHTTP(src, "/broken", model.CompressionNone, Options{})
	if _, err := s.Exists(ctx); err == nil {
		t.Error("expected error for a 500 response")
	}
}

func TestHTTPCredentialsArePerStrategy(t *testing.T) {
	srv := logServer(t, false, "ops", "s3cret", map[string][]byte{
		"/logs/app.log": []byte("a\n"),
	})
	ctx := context.Background()

	good, _ := NewHTTP(httpSource(srv, model.SourceHTTP, "ops", "s3cret"), "/logs/app.log", model.CompressionNone, Options{})
	bad, _ := NewHTTP(httpSource(srv, model.SourceHTTP, "ops", "wrong"), "/logs/app.log", model.CompressionNone, Options{})

	// Building the second strategy must not change the first one's credentials.
	if ok, err := good.Exists(ctx); err != nil || !ok {
		t.Errorf("expected authorized probe to succeed, got %v (%v)", ok, err)
	}
	_, err := bad.Exists(ctx)
	var te *model.TransportError
	if !errors.As(err, &te) {
		t.Errorf("expected TransportError for unauthorized probe, got %v", err)
	}
}

func TestHTTPReadLinesGzip(t *testing.T) {
	srv := logServer(t, false, "", "", map[string][]byte{
		"/logs/app.log.gz": gzipBytes(t, "one\ntwo\n"),
	})
	s, err := NewHTTP(httpSource(srv, model.SourceHTTP, "", ""), "/logs/app.log.gz", model.CompressionGzip, Options{})
	if err != nil {
		t.Fatal(err)
	}
	lines, err := s.ReadLines(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0].Text != "one" || lines[1].Text != "two" {
		t.Errorf("unexpected lines %+v", lines)
	}
}

func TestHTTPSReadAndCopy(t *testing.T) {
	srv := logServer(t, true, "ops", "pw", map[string][]byte{
		"/logs/app.log": []byte("secure line\n"),
	})
	src := httpSource(srv, model.SourceHTTPS, "ops", "pw")
	s, err := NewHTTP(src, "/logs/app.log", model.CompressionNone, Options{HTTPClient: srv.Client()})
	if err != nil {
		t.Fatal(err)
	}
	if s.Identity() != "https://"+src.Host+"/logs/app.log" {
		t.Errorf("unexpected identity %q", s.Identity())
	}

	lines, err := s.ReadLines(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].Text != "secure line" {
		t.Errorf("unexpected lines %+v", lines)
	}

	dest := filepath.Join(t.TempDir(), "copy.log")
	if err := s.CopyTo(context.Background(), dest); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "secure line\n" {
		t.Errorf("expected copied content, got %q", got)
	}
}

func TestHTTPReadMissingFails(t *testing.T) {
	srv := logServer(t, false, "", "", nil)
	s, _ := NewHTTP(httpSource(srv, model.SourceHTTP, "", ""), "/logs/none.log", model.CompressionNone, Options{})
	if _, err := s.ReadLines(context.Background()); err == nil {
		t.Error("expected error reading a missing file")
	}
	dest := filepath.Join(t.TempDir(), "none.log")
	if err := s.CopyTo(context.Background(), dest); err == nil {
		t.Error("expected error copying a missing file")
	}
	if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
		t.Error("expected no destination file after a failed copy")
	}
}

func TestHTTPMalformedHost(t *testing.T) {
	src := model.LogSource{Type: model.SourceHTTP, Host: "bad host:xx"}
	_, err := NewHTTP(src, "/app.log", model.CompressionNone, Options{})
	var te *model.TransportError
	if !errors.As(err, &te) {
		t.Errorf("expected TransportError for malformed address, got %v", err)
	}
}
