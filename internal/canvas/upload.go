package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"canvas-course-tools/internal/httpx"
	"canvas-course-tools/internal/markdown"
)

// uploadIntent is the envelope returned by phase one of the file upload
// protocol: where to send the content, and which form parameters must
// accompany it.
type uploadIntent struct {
	UploadURL    string         `json:"upload_url"`
	UploadParams map[string]any `json:"upload_params"`
}

// UploadFile pushes a local file into a course folder using the three-phase
// upload protocol: register the upload intent to obtain a target URL and form
// parameters, post the content there as multipart form data, then confirm.
// The confirmation may be a redirect that must be followed with the original
// authorization header attached. With overwrite false a name collision gets
// the server's rename policy instead.
func (t *Tasks) UploadFile(ctx context.Context, course Course, localPath, folderPath string, overwrite bool) (File, error) {
	content, err := os.ReadFile(localPath)
	if err != nil {
		return File{}, fmt.Errorf("read upload source: %w", err)
	}
	onDuplicate := "rename"
	if overwrite {
		onDuplicate = "overwrite"
	}

	// phase 1: register intent
	intentPath := fmt.Sprintf("/api/v1/courses/%d/files", course.ID)
	payload := map[string]any{
		"name":               filepath.Base(localPath),
		"size":               len(content),
		"parent_folder_path": folderPath,
		"on_duplicate":       onDuplicate,
	}
	body, err := t.client.send(ctx, http.MethodPost, intentPath, payload)
	if err != nil {
		return File{}, err
	}
	var intent uploadIntent
	if err := json.Unmarshal(body, &intent); err != nil || intent.UploadURL == "" {
		return File{}, &ValidationError{Path: "upload", Reason: "missing upload_url in registration response", Raw: body}
	}

	// phase 2: stream the content to the upload URL. The upload parameters
	// must precede the file part, and the upload target carries its own
	// credentials, so no authorization header goes out here.
	form, contentType, err := uploadForm(intent.UploadParams, filepath.Base(localPath), content)
	if err != nil {
		return File{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, intent.UploadURL, form)
	if err != nil {
		return File{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	resp, body, err := httpx.Do(t.client.http, req)
	if err != nil && !isRedirect(resp) {
		return File{}, err
	}

	// phase 3: confirm. A 3xx response points at a confirmation endpoint
	// which requires the original bearer token again.
	if isRedirect(resp) {
		location := resp.Header.Get("Location")
		if location == "" {
			return File{}, &ValidationError{Path: "upload", Reason: "redirect without Location header", Raw: body}
		}
		_, body, err = t.client.do(ctx, http.MethodGet, location, nil)
		if err != nil {
			return File{}, err
		}
	}
	return decodeFile(body)
}

func isRedirect(resp *http.Response) bool {
	return resp != nil && resp.StatusCode >= 300 && resp.StatusCode < 400
}

func uploadForm(params map[string]any, filename string, content []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range params {
		if err := w.WriteField(key, formValue(value)); err != nil {
			return nil, "", fmt.Errorf("write upload param %q: %w", key, err)
		}
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("write upload file part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", fmt.Errorf("write upload content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func formValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// UploadMarkdownPage converts markdown to HTML and publishes it as a wiki
// page. The document's single top-level heading becomes the page title and is
// removed from the body. An existing page with the same title is updated in
// place; otherwise a new page is created. The search-then-act sequence is not
// protected against concurrent external edits.
func (t *Tasks) UploadMarkdownPage(ctx context.Context, course Course, content string) (Page, error) {
	title, body, err := markdown.Render(content)
	if err != nil {
		return Page{}, err
	}
	payload := map[string]any{
		"wiki_page": map[string]any{"title": title, "body": body},
	}

	existing, found, err := t.GetPageByTitle(ctx, course, title)
	if err != nil {
		return Page{}, err
	}
	var page Page
	if found {
		path := fmt.Sprintf("/api/v1/courses/%d/pages/%s", course.ID, url.PathEscape(existing.Slug))
		page, err = putJSON(ctx, t.client, path, payload, decodePage)
	} else {
		path := fmt.Sprintf("/api/v1/courses/%d/pages", course.ID)
		page, err = postJSON(ctx, t.client, path, payload, decodePage)
	}
	if err != nil {
		return Page{}, err
	}
	// keep the page cache consistent with what the server just accepted
	t.pages.course(course.ID).put(page.ID, page)
	return page, nil
}

// GetPage fetches a single page, body included.
func (t *Tasks) GetPage(ctx context.Context, course Course, slug string) (Page, error) {
	path := fmt.Sprintf("/api/v1/courses/%d/pages/%s", course.ID, url.PathEscape(strings.TrimSpace(slug)))
	return getJSON(ctx, t.client, path, nil, decodePage)
}
