package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"strconv"

	"canvas-course-tools/internal/canvas"
	"canvas-course-tools/internal/config"
)

func runStudents(ctx context.Context, args []string) {
	if len(args) < 1 {
		log.Fatal("usage: canvas students <list|groups> [arguments]")
	}
	switch args[0] {
	case "list":
		listStudents(ctx, args[1:])
	case "groups":
		listStudentsFromGroupSet(ctx, args[1:])
	default:
		log.Fatalf("unknown students subcommand %q", args[0])
	}
}

// listStudents prints the students of a course, split into sections unless
// -all is given.
func listStudents(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("students list", flag.ExitOnError)
	all := fs.Bool("all", false, "list all students without splitting them into sections")
	fs.Parse(args)
	if fs.NArg() != 1 {
		log.Fatal("usage: canvas students list [-all] COURSE_ALIAS")
	}

	cfg := config.Read()
	tasks, course := findCourse(ctx, cfg, fs.Arg(0))
	fmt.Printf("# %s\n\n", course.Name)

	if *all {
		students, err := tasks.GetStudents(ctx, course.ID, false)
		if err != nil {
			fatal(err, "course "+fs.Arg(0))
		}
		printStudents(students)
		return
	}
	sections, err := tasks.GetSections(ctx, course.ID)
	if err != nil {
		fatal(err, "course "+fs.Arg(0))
	}
	for _, section := range sections {
		fmt.Printf("## %s\n\n", section.Name)
		printStudents(section.Students)
		fmt.Println()
	}
}

// listStudentsFromGroupSet prints all groups in a group set along with their
// students. Group sets live as independent objects on a Canvas server, so
// this takes a server alias and a numeric group set id.
func listStudentsFromGroupSet(ctx context.Context, args []string) {
	if len(args) != 2 {
		log.Fatal("usage: canvas students groups SERVER_ALIAS GROUP_SET_ID")
	}
	groupSetID, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatalf("group set id %q is not numeric", args[1])
	}

	cfg := config.Read()
	tasks := getTasks(cfg, args[0])
	set, err := tasks.GetGroupSet(ctx, groupSetID)
	if err != nil {
		fatal(err, fmt.Sprintf("group set %d", groupSetID))
	}
	fmt.Printf("# %s\n\n", set.Name)

	groups, err := tasks.ListGroups(ctx, set)
	if err != nil {
		fatal(err, fmt.Sprintf("group set %d", groupSetID))
	}
	for _, group := range groups {
		fmt.Printf("## %s\n\n", group.Name)
		students, err := tasks.GetStudentsInGroup(ctx, group)
		if err != nil {
			fatal(err, fmt.Sprintf("group %d", group.ID))
		}
		printStudents(students)
		fmt.Println()
	}
}

func printStudents(students []canvas.Student) {
	sort.Slice(students, func(i, j int) bool {
		return students[i].SortableName < students[j].SortableName
	})
	for _, student := range students {
		fmt.Printf("%s (%d)\n", student.Name, student.ID)
	}
}
