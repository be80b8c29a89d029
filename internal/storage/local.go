package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "chants-player/1.0"
)

// Local implements FileSystem on top of the os package and net/http.
type Local struct {
	httpClient *http.Client
}

// Verify Local implements FileSystem at compile time.
var _ FileSystem = (*Local)(nil)

// NewLocal creates a Local file system whose downloads abort after timeout.
// A zero timeout uses the default of 10 seconds.
func NewLocal(timeout time.Duration) *Local {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Local{
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (l *Local) Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Download streams url into dest+".part" and renames it into place on success.
func (l *Local) Download(ctx context.Context, url, dest string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &StatusError{Code: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return resp.StatusCode, fmt.Errorf("create cache dir: %w", err)
	}

	tmp := dest + partSuffix
	f, err := os.Create(tmp)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return resp.StatusCode, fmt.Errorf("write body: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return resp.StatusCode, fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return resp.StatusCode, fmt.Errorf("rename: %w", err)
	}

	return resp.StatusCode, nil
}

func (l *Local) Remove(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (l *Local) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || IsPartial(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (l *Local) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (l *Local) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (l *Local) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func (l *Local) MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
