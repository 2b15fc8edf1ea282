package canvas

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUploadFileThreePhases(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(localPath, []byte("pdf bytes"), 0o600); err != nil {
		t.Fatal(err)
	}

	fc := newFakeCanvas(t)

	// phase 1: the registration names the file and its target folder
	fc.mux.HandleFunc("POST /api/v1/courses/17/files", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode registration payload: %v", err)
		}
		if payload["name"] != "report.pdf" {
			t.Errorf("Expected registration name %q, got %v", "report.pdf", payload["name"])
		}
		if payload["parent_folder_path"] != "handouts" {
			t.Errorf("Expected parent folder %q, got %v", "handouts", payload["parent_folder_path"])
		}
		if payload["on_duplicate"] != "overwrite" {
			t.Errorf("Expected on_duplicate %q, got %v", "overwrite", payload["on_duplicate"])
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"upload_url": "`+fc.URL+`/upload-target",
			"upload_params": {"key": "uploads/report.pdf", "policy": "abc"}}`)
	})

	// phase 2: an external storage target with its own credentials
	fc.mux.HandleFunc("POST /upload-target", func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("Upload target must not receive the bearer token, got %q", auth)
		}
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read upload body: %v", err)
		}
		body := string(raw)
		filePos := strings.Index(body, `name="file"`)
		if filePos == -1 {
			t.Fatal("Upload body has no file part")
		}
		for _, param := range []string{`name="key"`, `name="policy"`} {
			pos := strings.Index(body, param)
			if pos == -1 {
				t.Errorf("Upload body is missing form field %s", param)
			} else if pos > filePos {
				t.Errorf("Form field %s must precede the file part", param)
			}
		}
		if !strings.Contains(body, "pdf bytes") {
			t.Error("Upload body is missing the file content")
		}
		w.Header().Set("Location", fc.URL+"/api/v1/confirm-upload")
		w.WriteHeader(http.StatusMovedPermanently)
	})

	// phase 3: the confirmation endpoint needs the token again
	fc.mux.HandleFunc("GET /api/v1/confirm-upload", func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer token" {
			t.Errorf("Confirmation must carry the bearer token, got %q", auth)
		}
		jsonHandler(`{"id": 100, "filename": "report.pdf", "display_name": "report.pdf",
			"url": "https://files/100", "folder_id": 2}`)(w, r)
	})

	tasks := NewTasks(fc.URL, "token")
	file, err := tasks.UploadFile(context.Background(), Course{ID: 17}, localPath, "handouts", true)
	if err != nil {
		t.Fatalf("UploadFile returned error: %v", err)
	}
	if file.ID != 100 || file.Filename != "report.pdf" {
		t.Errorf("Unexpected file result: %+v", file)
	}
	if n := fc.countCalls(http.MethodGet, "/api/v1/confirm-upload"); n != 1 {
		t.Errorf("Expected 1 confirmation call, got %d", n)
	}
}

func TestUploadFileDirectConfirmation(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(localPath, []byte("notes"), 0o600); err != nil {
		t.Fatal(err)
	}

	fc := newFakeCanvas(t)
	fc.mux.HandleFunc("POST /api/v1/courses/17/files", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["on_duplicate"] != "rename" {
			t.Errorf("Expected on_duplicate %q without overwrite, got %v", "rename", payload["on_duplicate"])
		}
		jsonHandler(`{"upload_url": "` + fc.URL + `/upload-target", "upload_params": {}}`)(w, r)
	})
	// some storage backends answer the upload directly, no redirect
	fc.mux.HandleFunc("POST /upload-target", jsonHandler(
		`{"id": 101, "filename": "notes.txt", "display_name": "notes.txt",
		  "url": "https://files/101", "folder_id": 1}`))

	tasks := NewTasks(fc.URL, "token")
	file, err := tasks.UploadFile(context.Background(), Course{ID: 17}, localPath, "", false)
	if err != nil {
		t.Fatalf("UploadFile returned error: %v", err)
	}
	if file.ID != 101 {
		t.Errorf("Expected file id 101, got %d", file.ID)
	}
}

func TestUploadMarkdownPageUpdatesExisting(t *testing.T) {
	fc := newFakeCanvas(t)
	fc.mux.HandleFunc("GET /api/v1/courses/17/pages", jsonHandler(
		`[{"page_id": 1, "url": "introduction", "title": "Introduction"}]`))
	var putPayload map[string]any
	fc.mux.HandleFunc("PUT /api/v1/courses/17/pages/introduction", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&putPayload)
		jsonHandler(`{"page_id": 1, "url": "introduction", "title": "Introduction", "body": "<p>Welcome back.</p>"}`)(w, r)
	})

	tasks := NewTasks(fc.URL, "token")
	page, err := tasks.UploadMarkdownPage(context.Background(), Course{ID: 17}, "# Introduction\n\nWelcome back.")
	if err != nil {
		t.Fatalf("UploadMarkdownPage returned error: %v", err)
	}
	if page.Slug != "introduction" {
		t.Errorf("Expected slug %q, got %q", "introduction", page.Slug)
	}
	if n := fc.countCalls(http.MethodPost, "/api/v1/courses/17/pages"); n != 0 {
		t.Errorf("Expected no create call when updating, got %d", n)
	}

	wiki, _ := putPayload["wiki_page"].(map[string]any)
	if wiki == nil {
		t.Fatalf("Expected a wiki_page envelope, got %v", putPayload)
	}
	if wiki["title"] != "Introduction" {
		t.Errorf("Expected title %q, got %v", "Introduction", wiki["title"])
	}
	body, _ := wiki["body"].(string)
	if !strings.Contains(body, "Welcome back.") {
		t.Errorf("Expected the rendered body to carry the document text, got %q", body)
	}
	if strings.Contains(body, "<h1") {
		t.Errorf("Expected the title heading to be stripped from the body, got %q", body)
	}
}

func TestUploadMarkdownPageCreatesNew(t *testing.T) {
	fc := newFakeCanvas(t)
	fc.mux.HandleFunc("GET /api/v1/courses/17/pages", jsonHandler(`[]`))
	fc.mux.HandleFunc("POST /api/v1/courses/17/pages", jsonHandler(
		`{"page_id": 2, "url": "a-fancy-new-page", "title": "A fancy new page"}`))

	tasks := NewTasks(fc.URL, "token")
	course := Course{ID: 17}
	page, err := tasks.UploadMarkdownPage(context.Background(), course, "# A fancy new page\n\nHello.")
	if err != nil {
		t.Fatalf("UploadMarkdownPage returned error: %v", err)
	}
	if page.Slug != "a-fancy-new-page" {
		t.Errorf("Expected slug %q, got %q", "a-fancy-new-page", page.Slug)
	}

	// the new page lands in the cache: a title lookup needs no extra fetch
	requests := len(fc.calls)
	found, ok, err := tasks.GetPageByTitle(context.Background(), course, "A fancy new page")
	if err != nil {
		t.Fatalf("GetPageByTitle returned error: %v", err)
	}
	if !ok || found.ID != 2 {
		t.Fatalf("Expected the cached page, got ok=%v page=%+v", ok, found)
	}
	if len(fc.calls) != requests {
		t.Errorf("Expected the lookup to replay the cache, got %d extra requests", len(fc.calls)-requests)
	}
}
