package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSnippet(t *testing.T) {
	testCases := []struct {
		input    string
		max      int
		expected string
	}{
		{"short text", 100, "short text"},
		{"", 100, ""},
		{"  trimmed  ", 100, "trimmed"},
		{"long text that should be truncated", 10, "long text …"},
	}

	for _, tc := range testCases {
		result := snippet([]byte(tc.input), tc.max)
		if result != tc.expected {
			t.Errorf("snippet(%q, %d) = %q, want %q", tc.input, tc.max, result, tc.expected)
		}
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{
		Method:     "GET",
		URL:        "https://example.com",
		StatusCode: 404,
		Body:       []byte("Not Found"),
	}

	expected := "http error: GET https://example.com status=404 body=Not Found"
	if err.Error() != expected {
		t.Errorf("HTTPError.Error() = %q, want %q", err.Error(), expected)
	}
}

func TestHTTPErrorKinds(t *testing.T) {
	testCases := []struct {
		status int
		kind   error
	}{
		{401, ErrUnauthorized},
		{403, ErrForbidden},
		{404, ErrNotFound},
	}

	for _, tc := range testCases {
		err := &HTTPError{Method: "GET", URL: "https://example.com", StatusCode: tc.status}
		if !errors.Is(err, tc.kind) {
			t.Errorf("status %d: expected errors.Is(err, %v) to be true", tc.status, tc.kind)
		}
	}

	err := &HTTPError{Method: "GET", URL: "https://example.com", StatusCode: 500}
	for _, kind := range []error{ErrUnauthorized, ErrForbidden, ErrNotFound} {
		if errors.Is(err, kind) {
			t.Errorf("status 500: expected errors.Is(err, %v) to be false", kind)
		}
	}
}

func TestDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, body, err := Do(srv.Client(), req)
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("Expected body %q, got %q", `{"ok":true}`, string(body))
	}
}

func TestDoNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	_, body, err := Do(srv.Client(), req)
	if err == nil {
		t.Fatal("Expected error for 403 response")
	}

	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected *HTTPError, got %T", err)
	}
	if herr.StatusCode != 403 {
		t.Errorf("Expected StatusCode 403, got %d", herr.StatusCode)
	}
	if !errors.Is(err, ErrForbidden) {
		t.Error("Expected error to match ErrForbidden")
	}
	if string(body) != "nope\n" {
		t.Errorf("Expected body %q, got %q", "nope\n", string(body))
	}
}

func TestNextLink(t *testing.T) {
	testCases := []struct {
		header   string
		expected string
	}{
		{
			`<https://canvas.example.com/api/v1/courses?page=2&per_page=10>; rel="next"`,
			"https://canvas.example.com/api/v1/courses?page=2&per_page=10",
		},
		{
			`<https://canvas.example.com/api/v1/courses?page=1>; rel="current",` +
				`<https://canvas.example.com/api/v1/courses?page=3>; rel="next",` +
				`<https://canvas.example.com/api/v1/courses?page=9>; rel="last"`,
			"https://canvas.example.com/api/v1/courses?page=3",
		},
		{
			`<https://canvas.example.com/api/v1/courses?page=1>; rel="first"`,
			"",
		},
		{"", ""},
	}

	for i, tc := range testCases {
		resp := &http.Response{Header: http.Header{}}
		if tc.header != "" {
			resp.Header.Set("Link", tc.header)
		}
		if got := NextLink(resp); got != tc.expected {
			t.Errorf("case %d: NextLink() = %q, want %q", i, got, tc.expected)
		}
	}
}

func ExampleNextLink() {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Link", `<https://canvas.example.com/api/v1/courses?page=2>; rel="next"`)
	fmt.Println(NextLink(resp))
	// Output: https://canvas.example.com/api/v1/courses?page=2
}
