package loader

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"
)

const acceptHeader = "application/schema+json, application/json, application/yaml;q=0.9, */*;q=0.5"

func openFile(path string) (io.ReadCloser, error) {
	if path == "" || path == "." {
		return nil, errors.New("file path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		_ = f.Close()
		return nil, errors.New("path is a directory")
	}
	return f, nil
}

func openFS(files fs.FS, name string) (io.ReadCloser, error) {
	if files == nil {
		return nil, errors.New("no fs.FS configured")
	}
	if name == "" || name == "." || !fs.ValidPath(name) {
		return nil, errors.New("invalid fs path")
	}
	return files.Open(name)
}

// cancelOnClose releases the request context once the body is consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

func openURL(ctx context.Context, client *http.Client, url string, timeout time.Duration) (io.ReadCloser, error) {
	if url == "" {
		return nil, errors.New("url is required")
	}

	var (
		reqCtx context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		reqCtx, cancel = context.WithCancel(ctx)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		cancel()
		return nil, errors.New("unexpected status " + resp.Status)
	}
	return cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}
