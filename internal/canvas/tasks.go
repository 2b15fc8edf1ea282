package canvas

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"

	"canvas-course-tools/internal/grouplist"
)

// Tasks is the collection of Canvas-related operations: one method per
// logical task, each composed from the pagination engine or the
// single-resource primitives. A Tasks value owns the per-course folder, file
// and page caches; the caches live until the value is dropped and are not
// safe for concurrent use. A new Tasks value starts cold.
type Tasks struct {
	client  *Client
	folders cache[Folder]
	files   cache[File]
	pages   cache[Page]
}

func NewTasks(baseURL, token string) *Tasks {
	return &Tasks{
		client:  NewClient(baseURL, token),
		folders: cache[Folder]{},
		files:   cache[File]{},
		pages:   cache[Page]{},
	}
}

// ListCourses lists every course visible to the token, with enrollment terms
// included so Course.Term can be normalized.
func (t *Tasks) ListCourses(ctx context.Context) ([]Course, error) {
	query := url.Values{"include[]": {"term"}}
	return collect(paginate(ctx, t.client, "/api/v1/courses", query, 0, decodeCourse))
}

func (t *Tasks) GetCourse(ctx context.Context, courseID int) (Course, error) {
	query := url.Values{"include[]": {"term"}}
	path := fmt.Sprintf("/api/v1/courses/%d", courseID)
	return getJSON(ctx, t.client, path, query, decodeCourse)
}

// GetStudents lists the students enrolled in a course. The synthetic Test
// Student is only included on request.
func (t *Tasks) GetStudents(ctx context.Context, courseID int, showTestStudent bool) ([]Student, error) {
	enrollment := []string{"student"}
	if showTestStudent {
		enrollment = append(enrollment, "student_view")
	}
	query := url.Values{"enrollment_type[]": enrollment}
	path := fmt.Sprintf("/api/v1/courses/%d/users", courseID)
	return collect(paginate(ctx, t.client, path, query, 0, decodeStudent))
}

// GetSections lists the sections of a course, students included. Sections the
// server reports without students come back with an empty roster.
func (t *Tasks) GetSections(ctx context.Context, courseID int) ([]Section, error) {
	query := url.Values{"include[]": {"students"}}
	path := fmt.Sprintf("/api/v1/courses/%d/sections", courseID)
	return collect(paginate(ctx, t.client, path, query, 0, decodeSection))
}

// CreateGroupSet creates a group set in a course. When the name is already
// taken and overwrite is false, an *ExistsError is returned without touching
// the server state. With overwrite, every group set carrying the name is
// deleted first — duplicates are not expected, but cleared in any case. The
// delete-then-create sequence is not atomic: a failure in between leaves the
// group set missing.
func (t *Tasks) CreateGroupSet(ctx context.Context, name string, course Course, overwrite bool) (GroupSet, error) {
	existing, err := t.ListGroupSets(ctx, course)
	if err != nil {
		return GroupSet{}, err
	}
	var colliding []GroupSet
	for _, gs := range existing {
		if gs.Name == name {
			colliding = append(colliding, gs)
		}
	}
	if len(colliding) > 0 && !overwrite {
		return GroupSet{}, &ExistsError{Kind: "groupset", Name: name}
	}
	for _, gs := range colliding {
		if err := t.client.delete(ctx, fmt.Sprintf("/api/v1/group_categories/%d", gs.ID)); err != nil {
			return GroupSet{}, fmt.Errorf("delete groupset %d: %w", gs.ID, err)
		}
	}
	path := fmt.Sprintf("/api/v1/courses/%d/group_categories", course.ID)
	return postJSON(ctx, t.client, path, map[string]any{"name": name}, decodeGroupSet)
}

func (t *Tasks) ListGroupSets(ctx context.Context, course Course) ([]GroupSet, error) {
	path := fmt.Sprintf("/api/v1/courses/%d/group_categories", course.ID)
	return collect(paginate(ctx, t.client, path, nil, 0, decodeGroupSet))
}

// GetGroupSet fetches a group set by id. Group sets are stored as independent
// objects on the server, so no course is needed.
func (t *Tasks) GetGroupSet(ctx context.Context, groupSetID int) (GroupSet, error) {
	path := fmt.Sprintf("/api/v1/group_categories/%d", groupSetID)
	return getJSON(ctx, t.client, path, nil, decodeGroupSet)
}

func (t *Tasks) CreateGroup(ctx context.Context, name string, set GroupSet) (Group, error) {
	path := fmt.Sprintf("/api/v1/group_categories/%d/groups", set.ID)
	return postJSON(ctx, t.client, path, map[string]any{"name": name}, decodeGroup)
}

func (t *Tasks) ListGroups(ctx context.Context, set GroupSet) ([]Group, error) {
	path := fmt.Sprintf("/api/v1/group_categories/%d/groups", set.ID)
	return collect(paginate(ctx, t.client, path, nil, 0, decodeGroup))
}

func (t *Tasks) AddStudentToGroup(ctx context.Context, student Student, group Group) error {
	path := fmt.Sprintf("/api/v1/groups/%d/memberships", group.ID)
	return t.client.postStatus(ctx, path, map[string]any{"user_id": student.ID})
}

func (t *Tasks) GetStudentsInGroup(ctx context.Context, group Group) ([]Student, error) {
	path := fmt.Sprintf("/api/v1/groups/%d/users", group.ID)
	return collect(paginate(ctx, t.client, path, nil, 0, decodeStudent))
}

func (t *Tasks) GetAssignmentGroups(ctx context.Context, course Course) ([]AssignmentGroup, error) {
	path := fmt.Sprintf("/api/v1/courses/%d/assignment_groups", course.ID)
	return collect(paginate(ctx, t.client, path, nil, 0, decodeAssignmentGroup(course)))
}

func (t *Tasks) GetAssignmentsForGroup(ctx context.Context, group AssignmentGroup) ([]Assignment, error) {
	path := fmt.Sprintf("/api/v1/courses/%d/assignment_groups/%d/assignments", group.Course.ID, group.ID)
	return collect(paginate(ctx, t.client, path, nil, 0, decodeAssignment(group.Course)))
}

// GetSubmission fetches one student's submission for an assignment, with all
// submission attempts and comments included.
func (t *Tasks) GetSubmission(ctx context.Context, assignment Assignment, student Student) (Submission, error) {
	query := url.Values{"include[]": {"submission_history", "submission_comments"}}
	path := fmt.Sprintf("/api/v1/courses/%d/assignments/%d/submissions/%d",
		assignment.Course.ID, assignment.ID, student.ID)
	return getJSON(ctx, t.client, path, query, decodeSubmission)
}

// Folders lists a course's folders lazily. A fully-cached course replays from
// the cache with no network I/O; otherwise folders are paged from the server
// and inserted into the cache as they are yielded, so a partially-consumed
// sequence leaves a partially-populated cache that the next traversal
// re-fetches from page one.
func (t *Tasks) Folders(ctx context.Context, course Course, batchSize int) iter.Seq2[Folder, error] {
	st := t.folders.course(course.ID)
	if st.complete {
		return st.replay()
	}
	return func(yield func(Folder, error) bool) {
		st.reset()
		path := fmt.Sprintf("/api/v1/courses/%d/folders", course.ID)
		for folder, err := range paginate(ctx, t.client, path, nil, batchSize, decodeFolder) {
			if err != nil {
				yield(Folder{}, err)
				return
			}
			st.put(folder.ID, folder)
			if !yield(folder, nil) {
				return
			}
		}
		st.complete = true
	}
}

// Files lists a course's files lazily, with the owning Folder resolved on
// every yielded File. Resolving folders by id requires the folder cache, so
// an unprimed course first drains the folder listing completely before the
// first file request goes out.
func (t *Tasks) Files(ctx context.Context, course Course, batchSize int) iter.Seq2[File, error] {
	return func(yield func(File, error) bool) {
		if !t.folders.course(course.ID).complete {
			for _, err := range t.Folders(ctx, course, batchSize) {
				if err != nil {
					yield(File{}, err)
					return
				}
			}
		}
		st := t.files.course(course.ID)
		if st.complete {
			for file, err := range st.replay() {
				if !yield(file, err) {
					return
				}
			}
			return
		}
		st.reset()
		path := fmt.Sprintf("/api/v1/courses/%d/files", course.ID)
		for file, err := range paginate(ctx, t.client, path, nil, batchSize, decodeFile) {
			if err != nil {
				yield(File{}, err)
				return
			}
			folder, err := t.GetFolderByID(course, file.FolderID)
			if err != nil {
				yield(File{}, err)
				return
			}
			file.Folder = &folder
			st.put(file.ID, file)
			if !yield(file, nil) {
				return
			}
		}
		st.complete = true
	}
}

// GetFolderByID is a pure cache lookup; it never fetches. It returns a
// *NotCachedError when the course's folders have not been listed yet or the
// id did not appear in the listing.
func (t *Tasks) GetFolderByID(course Course, folderID int) (Folder, error) {
	st, ok := t.folders[course.ID]
	if !ok || len(st.ids) == 0 {
		return Folder{}, &NotCachedError{Kind: "folder", CourseID: course.ID}
	}
	folder, ok := st.byID[folderID]
	if !ok {
		return Folder{}, &NotCachedError{Kind: "folder", CourseID: course.ID, ID: folderID}
	}
	return folder, nil
}

// Pages lists a course's wiki pages lazily, cached like Folders. Page bodies
// are not part of the listing; fetch a single page to get its content.
func (t *Tasks) Pages(ctx context.Context, course Course) iter.Seq2[Page, error] {
	st := t.pages.course(course.ID)
	if st.complete {
		return st.replay()
	}
	return func(yield func(Page, error) bool) {
		st.reset()
		path := fmt.Sprintf("/api/v1/courses/%d/pages", course.ID)
		for page, err := range paginate(ctx, t.client, path, nil, 0, decodePage) {
			if err != nil {
				yield(Page{}, err)
				return
			}
			st.put(page.ID, page)
			if !yield(page, nil) {
				return
			}
		}
		st.complete = true
	}
}

// GetPageByTitle scans the page listing for an exact title match. The second
// return reports whether a page was found.
func (t *Tasks) GetPageByTitle(ctx context.Context, course Course, title string) (Page, bool, error) {
	for page, err := range t.Pages(ctx, course) {
		if err != nil {
			return Page{}, false, err
		}
		if page.Title == title {
			return page, true, nil
		}
	}
	return Page{}, false, nil
}

// MemberFailure records one student who could not be added during roster
// ingestion.
type MemberFailure struct {
	Student grouplist.Student
	Err     error
}

// GroupResult is the outcome for one roster group.
type GroupResult struct {
	Group    Group
	Failures []MemberFailure
}

// PopulateGroupSet creates one Canvas group per roster group and adds every
// member, strictly sequentially. Member-level failures (malformed or unknown
// student id, authorization) are collected per student instead of aborting
// the batch — partial success is the expected steady state for large rosters
// with a few bad rows. A failure to create a group itself does abort, since
// every subsequent membership call would fail with it.
func (t *Tasks) PopulateGroupSet(ctx context.Context, set GroupSet, groups []grouplist.StudentGroup) ([]GroupResult, error) {
	results := []GroupResult{}
	for _, rosterGroup := range groups {
		group, err := t.CreateGroup(ctx, rosterGroup.Name, set)
		if err != nil {
			return results, fmt.Errorf("create group %q: %w", rosterGroup.Name, err)
		}
		result := GroupResult{Group: group}
		for _, member := range rosterGroup.Students {
			id, err := strconv.Atoi(member.ID)
			if err != nil {
				result.Failures = append(result.Failures, MemberFailure{
					Student: member,
					Err:     fmt.Errorf("student id %q is not numeric", member.ID),
				})
				continue
			}
			if err := t.AddStudentToGroup(ctx, Student{ID: id}, group); err != nil {
				result.Failures = append(result.Failures, MemberFailure{Student: member, Err: err})
			}
		}
		results = append(results, result)
	}
	return results, nil
}
