package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"canvas-course-tools/internal/grouplist"
)

func sampleList() grouplist.GroupList {
	return grouplist.GroupList{
		Name: "Physics 101",
		Groups: []grouplist.StudentGroup{{
			Name: "Group A",
			Students: []grouplist.Student{
				{Name: "Drew Ferrell", ID: "800057", Notes: "second year"},
				{Name: "Amanda James", ID: "379044"},
			},
		}},
	}
}

func TestList(t *testing.T) {
	infos, err := List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(infos) == 0 {
		t.Fatal("Expected at least one embedded template")
	}
	byName := map[string]string{}
	for _, info := range infos {
		byName[info.Name] = info.Description
	}
	if _, ok := byName["template-info.toml"]; ok {
		t.Error("The description file must not be listed as a template")
	}
	if desc := byName["group-list.md"]; desc == "" {
		t.Error("Expected a description for group-list.md")
	}
}

func TestShow(t *testing.T) {
	text, err := Show("group-list.md")
	if err != nil {
		t.Fatalf("Show returned error: %v", err)
	}
	if !strings.Contains(text, "{{.Title}}") {
		t.Errorf("Expected the raw template text, got %q", text)
	}

	if _, err := Show("no-such-template"); err == nil {
		t.Error("Expected an error for an unknown template")
	}
}

func TestRenderEmbedded(t *testing.T) {
	out, err := Render("group-list.md", sampleList())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	for _, want := range []string{
		"# Physics 101",
		"## Group A",
		"Drew Ferrell (800057) [second year]",
		"Amanda James (379044)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Amanda James (379044) []") {
		t.Error("Empty notes must not render empty brackets")
	}
}

func TestRenderDiskTemplateWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.md")
	if err := os.WriteFile(path, []byte("{{.Title}}: {{len .Groups}} groups\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := Render(path, sampleList())
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.TrimSpace(out) != "Physics 101: 1 groups" {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := Render("missing.md", sampleList()); err == nil {
		t.Error("Expected an error for an unknown template")
	}
}

func TestOutputPath(t *testing.T) {
	testCases := []struct {
		file, dir, template, list string
		want                      string
	}{
		{"", "", "group-list.md", "physics.txt", filepath.Join(".", "group-list-physics.md")},
		{"", "out", "roster.tex", "groups/physics.txt", filepath.Join("out", "roster-physics.tex")},
		{"explicit.md", "out", "group-list.md", "physics.txt", filepath.Join("out", "explicit.md")},
	}
	for _, tc := range testCases {
		got := OutputPath(tc.file, tc.dir, tc.template, tc.list)
		if got != tc.want {
			t.Errorf("OutputPath(%q, %q, %q, %q) = %q, want %q",
				tc.file, tc.dir, tc.template, tc.list, got, tc.want)
		}
	}
}
