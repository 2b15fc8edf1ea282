// Package grouplist parses the line-oriented group list format used to feed
// rosters into Canvas group sets and template rendering:
//
//	# Physics 101
//	## Group A
//	Drew Ferrell (800057) [second year]
//	Amanda James (379044)
//
// A line starting with # sets the list title, ## starts a new named group, and
// any other non-empty line must be of the form "Name (id) [optional notes]" or
// it is silently skipped.
package grouplist

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var studentRe = regexp.MustCompile(`^(.*) \((.*)\) *(?:\[(.*)\])?`)

type Student struct {
	Name  string
	ID    string
	Notes string
	Photo string
}

type StudentGroup struct {
	Name     string
	Students []Student
}

type GroupList struct {
	Name   string
	Groups []StudentGroup
}

// Parse builds a group list from text. Blank lines are ignored; a new group
// header flushes the previous group if it collected any students.
func Parse(text string) GroupList {
	var list GroupList
	var current StudentGroup

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.TrimSpace(line) == "":
			continue
		case strings.HasPrefix(line, "##"):
			if len(current.Students) > 0 {
				list.Groups = append(list.Groups, current)
			}
			current = StudentGroup{Name: strings.TrimSpace(strings.TrimPrefix(line, "##"))}
		case strings.HasPrefix(line, "#"):
			list.Name = strings.TrimSpace(strings.TrimPrefix(line, "#"))
		default:
			m := studentRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			current.Students = append(current.Students, Student{
				Name:  m[1],
				ID:    m[2],
				Notes: m[3],
			})
		}
	}
	if len(current.Students) > 0 || current.Name != "" {
		list.Groups = append(list.Groups, current)
	}
	return list
}

// AttachPhotos looks up a photo for every student in the list. Photos are
// matched as "<student name>.*" inside photoDir; when relativeTo is non-empty
// the stored path is made relative to it so rendered documents can reference
// the file. Students without a matching photo are returned so the caller can
// warn about them.
func AttachPhotos(list *GroupList, photoDir, relativeTo string) []Student {
	var unmatched []Student
	for g := range list.Groups {
		for s := range list.Groups[g].Students {
			student := &list.Groups[g].Students[s]
			photo, ok := FindPhoto(student.Name, photoDir)
			if !ok {
				unmatched = append(unmatched, *student)
				continue
			}
			if relativeTo != "" {
				if rel, err := filepath.Rel(relativeTo, photo); err == nil {
					photo = rel
				}
			}
			student.Photo = photo
		}
	}
	return unmatched
}

// FindPhoto searches dir for a file named "<name>.*". Filenames on disk may
// carry either composed or decomposed unicode, so the pattern is tried in NFC
// and then NFD normalization.
func FindPhoto(name, dir string) (string, bool) {
	pattern := name + ".*"
	for _, form := range []norm.Form{norm.NFC, norm.NFD} {
		matches, err := filepath.Glob(filepath.Join(dir, form.String(pattern)))
		if err != nil || len(matches) == 0 {
			continue
		}
		return matches[0], true
	}
	return "", false
}

// ParseFile reads and parses a group list file.
func ParseFile(path string) (GroupList, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return GroupList{}, err
	}
	return Parse(string(text)), nil
}
