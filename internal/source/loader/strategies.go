package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"
)

// maxRemoteBytes bounds remote merge documents.
const maxRemoteBytes = 8 << 20

func loadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("source loader: file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source loader: %w", err)
	}
	return raw, nil
}

func loadFromFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	if files == nil {
		return nil, errors.New("source loader: fs is nil")
	}
	name = strings.TrimPrefix(name, "/")
	if name == "" || !fs.ValidPath(name) {
		return nil, fmt.Errorf("source loader: invalid fs path %q", name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, fmt.Errorf("source loader: %w", err)
	}
	return raw, nil
}

func loadHTTP(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	if client == nil {
		return nil, errors.New("source loader: http client is not configured")
	}
	if url == "" {
		return nil, errors.New("source loader: url is required")
	}

	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml, text/plain;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("source loader: %s: unexpected status %s", url, resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > maxRemoteBytes {
		return nil, fmt.Errorf("source loader: %s: document exceeds %d bytes", url, maxRemoteBytes)
	}
	return raw, nil
}
