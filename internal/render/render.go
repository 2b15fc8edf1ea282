// Package render turns parsed group lists into documents through templates: a
// small embedded set for common course paperwork, or any template file on
// disk.
package render

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"

	"canvas-course-tools/internal/grouplist"
)

//go:embed templates
var builtinFS embed.FS

const infoFile = "template-info.toml"

type Info struct {
	Name        string
	Description string
}

// List returns the embedded templates with their descriptions.
func List() ([]Info, error) {
	descriptions, err := readInfo()
	if err != nil {
		return nil, err
	}
	entries, err := builtinFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == infoFile {
			continue
		}
		infos = append(infos, Info{Name: entry.Name(), Description: descriptions[entry.Name()]})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func readInfo() (map[string]string, error) {
	raw, err := builtinFS.ReadFile("templates/" + infoFile)
	if err != nil {
		return nil, err
	}
	descriptions := map[string]string{}
	if err := toml.Unmarshal(raw, &descriptions); err != nil {
		return nil, fmt.Errorf("parse %s: %w", infoFile, err)
	}
	return descriptions, nil
}

// Show returns the raw contents of an embedded template.
func Show(name string) (string, error) {
	raw, err := builtinFS.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("template %s not found", name)
	}
	return string(raw), nil
}

// Render executes a template against a group list. Name may be a path to a
// template file on disk or the name of an embedded template; a file takes
// precedence.
func Render(name string, list grouplist.GroupList) (string, error) {
	var (
		tmpl *template.Template
		err  error
	)
	if _, statErr := os.Stat(name); statErr == nil {
		tmpl, err = template.ParseFiles(name)
	} else {
		tmpl, err = template.ParseFS(builtinFS, "templates/"+name)
	}
	if err != nil {
		return "", fmt.Errorf("template %s not found: %w", name, err)
	}

	var sb strings.Builder
	data := struct {
		Title  string
		Groups []grouplist.StudentGroup
	}{Title: list.Name, Groups: list.Groups}
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return sb.String(), nil
}

// OutputPath derives where rendered output should be written. An explicit
// file wins; otherwise the name is built from the template and group list
// stems, keeping the template's extension. The result is relative to dir.
func OutputPath(file, dir, templateName, groupListPath string) string {
	if dir == "" {
		dir = "."
	}
	if file != "" {
		return filepath.Join(dir, file)
	}
	ext := filepath.Ext(templateName)
	templateStem := strings.TrimSuffix(filepath.Base(templateName), ext)
	listStem := strings.TrimSuffix(filepath.Base(groupListPath), filepath.Ext(groupListPath))
	return filepath.Join(dir, templateStem+"-"+listStem+ext)
}
