package models

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/http2"
)

// DownloadError reports a failed model download.
type DownloadError struct {
	Name string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("downloading model %q failed: %v", e.Name, e.Err)
}
func (e *DownloadError) Unwrap() error { return e.Err }

func newClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        4,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 15 * time.Second,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		log.Warn("http2 unavailable, using http/1.1", "err", err)
	}
	return &http.Client{Transport: transport}
}

// Ensure returns the local path of the named model, downloading it first
// if it is not already present under modelsDir.
func Ensure(ctx context.Context, modelsDir, name string) (string, error) {
	m, ok := Lookup(name)
	if !ok {
		return "", &DownloadError{Name: name, Err: fmt.Errorf("not in catalog")}
	}
	path := Path(modelsDir, m)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		return "", &DownloadError{Name: name, Err: err}
	}
	if err := download(ctx, m, path); err != nil {
		return "", &DownloadError{Name: name, Err: err}
	}
	return path, nil
}

// download fetches into a temp file and renames on success, so an aborted
// transfer never leaves a half-written model behind.
func download(ctx context.Context, m ModelInfo, dest string) error {
	log.Info("downloading model", "name", m.Name, "size_mb", m.SizeMB, "url", m.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.URL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "epicenter/1.0")

	resp, err := newClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), m.FileName+".partial-")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	pw := &progressWriter{name: m.Name, total: resp.ContentLength}
	if _, err := io.Copy(io.MultiWriter(tmp, pw), resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return err
	}
	log.Info("model downloaded", "name", m.Name, "path", dest)
	return nil
}

// progressWriter logs transfer progress at most once per interval.
type progressWriter struct {
	name    string
	total   int64
	written int64
	last    time.Time
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	if time.Since(w.last) >= 3*time.Second {
		w.last = time.Now()
		if w.total > 0 {
			log.Info("download progress", "name", w.name,
				"percent", fmt.Sprintf("%.0f", float64(w.written)*100/float64(w.total)))
		} else {
			log.Info("download progress", "name", w.name, "mb", w.written/(1<<20))
		}
	}
	return len(p), nil
}
