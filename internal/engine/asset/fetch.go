package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher retrieves the raw bytes of a source. Implementations must return
// promptly once ctx is done.
type Fetcher interface {
	Fetch(ctx context.Context, path string, progress func(Progress)) ([]byte, error)
}

// FileFetcher reads sources from the local file system. When Root is set,
// every path, including one with a leading slash, is resolved under it.
type FileFetcher struct {
	Root string
}

// Fetch reads the whole file, reporting progress per chunk.
func (f FileFetcher) Fetch(ctx context.Context, path string, progress func(Progress)) ([]byte, error) {
	full := path
	if f.Root != "" {
		full = filepath.Join(f.Root, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	}

	file, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var total int64
	if info, err := file.Stat(); err == nil {
		total = info.Size()
	}
	return readAll(ctx, file, total, progress)
}

// HTTPFetcher downloads sources over HTTP(S).
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch performs a GET bound to ctx and streams the body with progress.
func (f HTTPFetcher) Fetch(ctx context.Context, url string, progress func(Progress)) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}
	return readAll(ctx, resp.Body, total, progress)
}

// MultiFetcher routes http:// and https:// paths to HTTP and everything else
// to Files.
type MultiFetcher struct {
	Files FileFetcher
	HTTP  HTTPFetcher
}

// Fetch dispatches on the path scheme.
func (m MultiFetcher) Fetch(ctx context.Context, path string, progress func(Progress)) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return m.HTTP.Fetch(ctx, path, progress)
	}
	return m.Files.Fetch(ctx, path, progress)
}

const readChunk = 64 << 10

// readAll copies r in chunks, checking ctx between reads.
func readAll(ctx context.Context, r io.Reader, total int64, progress func(Progress)) ([]byte, error) {
	buf := make([]byte, 0, max(total, readChunk))
	chunk := make([]byte, readChunk)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			if progress != nil {
				progress(Progress{Loaded: int64(len(buf)), Total: total})
			}
		}
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
