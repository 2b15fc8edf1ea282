package httpx

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tomnomnom/linkheader"
)

// Sentinel error kinds for well-known status codes. Callers discriminate them
// with errors.Is so a CLI can print a specific remediation hint instead of a
// generic failure message.
var (
	ErrUnauthorized = errors.New("invalid access token")
	ErrForbidden    = errors.New("access forbidden")
	ErrNotFound     = errors.New("resource does not exist")
)

// HTTPError carries status/body for non-2xx responses.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 900))
}

// Unwrap maps auth and lookup failures onto the sentinel kinds.
func (e *HTTPError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// Do executes a request and always reads the full body (even on error) so the
// underlying TCP connection can be reused by http.Transport. Non-2xx responses
// return an *HTTPError; the response is returned whenever headers were
// received so callers can still inspect them.
func Do(client *http.Client, req *http.Request) (*http.Response, []byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	body, readErr := readAndClose(resp.Body)
	if readErr != nil {
		return resp, body, fmt.Errorf("read response body: %w", readErr)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, body, nil
	}
	return resp, body, &HTTPError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}
}

func readAndClose(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}

// NextLink returns the rel="next" continuation URL from the Link response
// header, or "" when pagination is exhausted. The URL is opaque and
// self-sufficient; callers must use it verbatim.
func NextLink(resp *http.Response) string {
	for _, link := range linkheader.Parse(resp.Header.Get("Link")).FilterByRel("next") {
		if link.URL != "" {
			return link.URL
		}
	}
	return ""
}
