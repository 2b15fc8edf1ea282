package canvas

import (
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/url"
	"strconv"

	"canvas-course-tools/internal/httpx"
)

// paginate returns a lazy sequence over a paginated collection. Records are
// yielded in server order as pages are consumed; a page is only fetched when
// iteration reaches it, so a caller that stops consuming also stops the
// requests.
//
// The first request carries the caller-supplied query parameters plus the
// per-page override when perPage > 0. Every subsequent request uses the
// rel="next" continuation URL verbatim — the URL is opaque and
// self-sufficient, so caller parameters are dropped and only the
// authorization header is preserved.
//
// The sequence is not resumable: ranging over it a second time restarts from
// page one and issues fresh requests. A non-2xx response or a record that
// fails validation ends the sequence by yielding the error.
func paginate[T any](ctx context.Context, c *Client, path string, query url.Values, perPage int, decode func(json.RawMessage) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		q := url.Values{}
		for k, vs := range query {
			q[k] = vs
		}
		if perPage > 0 {
			q.Set("per_page", strconv.Itoa(perPage))
		}
		next := c.url(path, q)
		for next != "" {
			resp, body, err := c.do(ctx, http.MethodGet, next, nil)
			if err != nil {
				yield(zero, err)
				return
			}
			var items []json.RawMessage
			if err := json.Unmarshal(body, &items); err != nil {
				yield(zero, &ValidationError{Path: path, Reason: "response is not a JSON array", Raw: body})
				return
			}
			for _, raw := range items {
				record, err := decode(raw)
				if err != nil {
					yield(zero, err)
					return
				}
				if !yield(record, nil) {
					return
				}
			}
			next = httpx.NextLink(resp)
		}
	}
}

// collect drains a paginated sequence into a slice, stopping at the first
// error.
func collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	out := []T{}
	for record, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}
