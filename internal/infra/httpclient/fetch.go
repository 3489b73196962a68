package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"
)

// maxBody bounds how much of the page is read.
const maxBody = 1 << 20

type fetched struct {
	status  int
	body    []byte
	elapsed time.Duration
}

func (f fetched) ok() bool { return f.status >= 200 && f.status <= 299 }

// fetch GETs url and reads at most maxBody bytes of the response.
func fetch(ctx context.Context, client *http.Client, url, userAgent string) (fetched, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fetched{}, &requestError{err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return fetched{elapsed: time.Since(start)}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	out := fetched{status: resp.StatusCode, body: body, elapsed: time.Since(start)}
	return out, err
}

// requestError marks a URL that could not be turned into a request.
type requestError struct{ err error }

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }
