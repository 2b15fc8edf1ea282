package canvas

import (
	"encoding/json"
	"strings"
)

// The records below are the canonical local schema. They are value types
// identified by the integer id assigned by the Canvas server and are built
// fresh on every fetch, except Folder/File/Page which are cached per course
// for the lifetime of a Tasks value.

type Course struct {
	ID         int
	Name       string
	CourseCode string
	// Term is always a plain string, normalized from the nested term object
	// the server sends when enrollment terms are included.
	Term  string
	Alias string
}

type Student struct {
	ID           int
	Name         string
	SortableName string
	FirstName    string
	LastName     string
	// Notes and Photo are filled by the roster workflow, never by the API.
	Notes string
	Photo string
}

type Section struct {
	ID       int
	Name     string
	Students []Student
}

// GroupSet is what the Canvas API calls a group category.
type GroupSet struct {
	ID   int
	Name string
}

type Group struct {
	ID   int
	Name string
}

// AssignmentGroup carries its owning course, which is not present in the raw
// payload and must be supplied as decoding context.
type AssignmentGroup struct {
	ID     int
	Name   string
	Course Course
}

type Assignment struct {
	ID              int
	Name            string
	Course          Course
	SubmissionTypes []string
}

type Submission struct {
	ID      int
	Grade   *string
	Score   *float64
	Missing bool
	// Attempts is empty whenever Missing is true, regardless of what the
	// server returned for the submission history.
	Attempts []Attempt
	Comments []Comment
}

type Attempt struct {
	ID          int
	Attempt     int
	SubmittedAt string
	SecondsLate int
	Attachments []Attachment
}

type Attachment struct {
	ID          int
	Filename    string
	DisplayName string
	URL         string
}

type Comment struct {
	Author    string
	CreatedAt string
	Comment   string
}

type Folder struct {
	ID       int
	FullName string
	ParentID int
}

// File carries its resolved Folder; the façade never yields a File without
// one, which forces folder listing to complete before file listing.
type File struct {
	ID          int
	Filename    string
	DisplayName string
	URL         string
	FolderID    int
	Folder      *Folder
}

type Page struct {
	ID    int
	Slug  string
	Title string
	Body  string
}

func decodeCourse(raw json.RawMessage) (Course, error) {
	r := newRecord(raw, "course")
	c := Course{
		ID:         r.Int("id"),
		Name:       r.String("name"),
		CourseCode: r.OptString("", "course_code"),
	}
	// The term arrives as a nested object when requested with the term
	// include; only its name survives normalization. A server that already
	// sends a flat string is accepted as-is.
	if term, ok := r.first("term", "enrollment_term"); ok {
		var flat string
		if err := json.Unmarshal(term, &flat); err == nil {
			c.Term = flat
		} else {
			sub := newRecord(term, "course.term")
			c.Term = sub.String("name")
			r.adopt(sub)
		}
	}
	return c, r.Err()
}

func decodeStudent(raw json.RawMessage) (Student, error) {
	r := newRecord(raw, "student")
	s := Student{
		ID:           r.Int("id"),
		SortableName: r.OptString("", "sortable_name"),
	}
	name := r.String("short_name", "name")
	if err := r.Err(); err != nil {
		return Student{}, err
	}
	s.Name, s.FirstName, s.LastName = splitName(name)
	return s, nil
}

// splitName derives first/last name parts from a raw display name. An
// underscore groups words that belong to a single name part ("Jane_Anne Doe").
// The final whitespace-separated token is the last name; everything before it,
// middle names included, collapses into the first name. Underscores become
// spaces in the result, so the reconstruction first + " " + last need not
// equal the normalized display name verbatim.
func splitName(raw string) (name, first, last string) {
	parts := strings.Fields(raw)
	if len(parts) == 0 {
		return "", "", ""
	}
	despace := func(s string) string { return strings.ReplaceAll(s, "_", " ") }
	name = despace(strings.Join(parts, " "))
	if len(parts) == 1 {
		return name, despace(parts[0]), ""
	}
	first = despace(strings.Join(parts[:len(parts)-1], " "))
	last = despace(parts[len(parts)-1])
	return name, first, last
}

func decodeSection(raw json.RawMessage) (Section, error) {
	r := newRecord(raw, "section")
	s := Section{
		ID:   r.Int("id"),
		Name: r.String("name"),
		// a null students field is an empty roster, not an error
		Students: []Student{},
	}
	for _, item := range r.List("students") {
		student, err := decodeStudent(item)
		if err != nil {
			return Section{}, err
		}
		s.Students = append(s.Students, student)
	}
	return s, r.Err()
}

func decodeGroupSet(raw json.RawMessage) (GroupSet, error) {
	r := newRecord(raw, "groupset")
	g := GroupSet{ID: r.Int("id"), Name: r.String("name")}
	return g, r.Err()
}

func decodeGroup(raw json.RawMessage) (Group, error) {
	r := newRecord(raw, "group")
	g := Group{ID: r.Int("id"), Name: r.String("name")}
	return g, r.Err()
}

// decodeAssignmentGroup returns a decoder bound to the owning course. The
// course is required context; decoding without it fails loudly instead of
// constructing a partially-invalid record.
func decodeAssignmentGroup(course Course) func(json.RawMessage) (AssignmentGroup, error) {
	return func(raw json.RawMessage) (AssignmentGroup, error) {
		if course.ID == 0 {
			return AssignmentGroup{}, &ValidationError{
				Path: "assignment_group", Reason: "missing owning course context", Raw: raw,
			}
		}
		r := newRecord(raw, "assignment_group")
		g := AssignmentGroup{ID: r.Int("id"), Name: r.String("name"), Course: course}
		return g, r.Err()
	}
}

func decodeAssignment(course Course) func(json.RawMessage) (Assignment, error) {
	return func(raw json.RawMessage) (Assignment, error) {
		if course.ID == 0 {
			return Assignment{}, &ValidationError{
				Path: "assignment", Reason: "missing owning course context", Raw: raw,
			}
		}
		r := newRecord(raw, "assignment")
		a := Assignment{
			ID:              r.Int("id"),
			Name:            r.String("name"),
			Course:          course,
			SubmissionTypes: r.Strings("submission_types"),
		}
		return a, r.Err()
	}
}

func decodeSubmission(raw json.RawMessage) (Submission, error) {
	r := newRecord(raw, "submission")
	s := Submission{
		ID:       r.Int("id"),
		Grade:    r.StringPtr("grade"),
		Score:    r.FloatPtr("score"),
		Missing:  r.Bool(false, "missing"),
		Attempts: []Attempt{},
		Comments: []Comment{},
	}
	// A missing submission has no attempts, even though the server still
	// reports a submission history entry for it.
	if !s.Missing {
		for _, item := range r.List("submission_history") {
			attempt, err := decodeAttempt(item)
			if err != nil {
				return Submission{}, err
			}
			s.Attempts = append(s.Attempts, attempt)
		}
	}
	for _, item := range r.List("submission_comments") {
		comment, err := decodeComment(item)
		if err != nil {
			return Submission{}, err
		}
		s.Comments = append(s.Comments, comment)
	}
	return s, r.Err()
}

func decodeAttempt(raw json.RawMessage) (Attempt, error) {
	r := newRecord(raw, "submission.attempt")
	a := Attempt{
		ID:          r.Int("id"),
		Attempt:     r.OptInt(0, "attempt"),
		SubmittedAt: r.OptString("", "submitted_at"),
		SecondsLate: r.OptInt(0, "seconds_late"),
		Attachments: []Attachment{},
	}
	for _, item := range r.List("attachments") {
		sub := newRecord(item, "submission.attempt.attachment")
		a.Attachments = append(a.Attachments, Attachment{
			ID:          sub.Int("id"),
			Filename:    sub.OptString("", "filename"),
			DisplayName: sub.OptString("", "display_name"),
			URL:         sub.OptString("", "url"),
		})
		r.adopt(sub)
	}
	return a, r.Err()
}

func decodeComment(raw json.RawMessage) (Comment, error) {
	r := newRecord(raw, "submission.comment")
	c := Comment{
		Author:    r.OptString("", "author_name"),
		CreatedAt: r.OptString("", "created_at"),
		Comment:   r.String("comment"),
	}
	return c, r.Err()
}

func decodeFolder(raw json.RawMessage) (Folder, error) {
	r := newRecord(raw, "folder")
	f := Folder{
		ID:       r.Int("id"),
		FullName: r.String("full_name"),
		ParentID: r.OptInt(0, "parent_folder_id"),
	}
	return f, r.Err()
}

func decodeFile(raw json.RawMessage) (File, error) {
	r := newRecord(raw, "file")
	f := File{
		ID:          r.Int("id"),
		Filename:    r.String("filename"),
		DisplayName: r.OptString("", "display_name"),
		URL:         r.OptString("", "url"),
		FolderID:    r.Int("folder_id"),
	}
	return f, r.Err()
}

func decodePage(raw json.RawMessage) (Page, error) {
	r := newRecord(raw, "page")
	p := Page{
		ID:    r.Int("page_id", "id"),
		Slug:  r.String("url", "short_url"),
		Title: r.String("title"),
		// the page body is only included in single-page responses
		Body: r.OptString("", "body"),
	}
	return p, r.Err()
}
