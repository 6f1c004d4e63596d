package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"vetly/internal/domain/users"
)

// PathPrefix es donde el router sirve los archivos del Local store.
const PathPrefix = "/uploads/"

// Local guarda en disco y arma URLs bajo PUBLIC_BASE_URL + /uploads/.
type Local struct {
	dir     string
	baseURL string
}

var _ users.ImageStore = (*Local)(nil)

func NewLocal(dir, publicBaseURL string) (*Local, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("objectstore: local dir must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("objectstore: mkdir %s: %w", dir, err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (l *Local) Upload(ctx context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("objectstore: invalid key %q", key)
	}
	dst := filepath.Join(l.dir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("objectstore: mkdir: %w", err)
	}

	// escritura atómica: tmp + rename
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("objectstore: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, readerWithContext(ctx, body)); err != nil {
		tmp.Close()
		return "", fmt.Errorf("objectstore: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("objectstore: close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("objectstore: rename %s: %w", key, err)
	}

	return l.baseURL + PathPrefix + key, nil
}

// Handler sirve los archivos; montarlo con http.StripPrefix(PathPrefix, ...).
func (l *Local) Handler() http.Handler {
	return http.FileServer(http.Dir(l.dir))
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
