package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"canvas-course-tools/internal/canvas"
	"canvas-course-tools/internal/config"
	"canvas-course-tools/internal/httpx"
)

func runCourses(ctx context.Context, args []string) {
	if len(args) < 1 {
		log.Fatal("usage: canvas courses <list|add|remove> [arguments]")
	}
	switch args[0] {
	case "list":
		listCourses(ctx, args[1:])
	case "add":
		addCourse(ctx, args[1:])
	case "remove":
		removeCourse(args[1:])
	default:
		log.Fatalf("unknown courses subcommand %q", args[0])
	}
}

// listCourses prints all courses on a server, or every registered course
// alias when no server is given.
func listCourses(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("courses list", flag.ExitOnError)
	useCodes := fs.Bool("codes", false, "include course codes")
	fs.Parse(args)

	cfg := config.Read()
	if fs.NArg() > 0 {
		serverAlias := fs.Arg(0)
		tasks := getTasks(cfg, serverAlias)
		courses, err := tasks.ListCourses(ctx)
		if err != nil {
			fatal(err, "server "+serverAlias)
		}
		aliases := map[int]string{}
		for alias, course := range cfg.Courses {
			if course.Server == serverAlias {
				aliases[course.CourseID] = alias
			}
		}
		for i := range courses {
			courses[i].Alias = aliases[courses[i].ID]
		}
		printCourses(courses, *useCodes)
		return
	}

	if len(cfg.Courses) == 0 {
		log.Fatal("no courses are registered yet")
	}
	var courses []canvas.Course
	var forbidden []string
	for alias, registered := range cfg.Courses {
		tasks := getTasks(cfg, registered.Server)
		course, err := tasks.GetCourse(ctx, registered.CourseID)
		if err != nil {
			if errors.Is(err, httpx.ErrForbidden) {
				forbidden = append(forbidden, alias)
				continue
			}
			fatal(err, "course "+alias)
		}
		course.Alias = alias
		courses = append(courses, course)
	}
	printCourses(courses, *useCodes)
	if len(forbidden) > 0 {
		fmt.Printf("\nThese aliases don't have access rights: %s\n", strings.Join(forbidden, ", "))
	}
}

func addCourse(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("courses add", flag.ExitOnError)
	update := fs.Bool("update", false, "if alias already exists, update to the new course")
	fs.Parse(args)
	if fs.NArg() != 3 {
		log.Fatal("usage: canvas courses add [-update] ALIAS SERVER_ALIAS COURSE_ID")
	}
	alias, serverAlias := fs.Arg(0), fs.Arg(1)
	courseID, err := strconv.Atoi(fs.Arg(2))
	if err != nil {
		log.Fatalf("course id %q is not numeric", fs.Arg(2))
	}

	cfg := config.Read()
	if _, ok := cfg.Courses[alias]; ok && !*update {
		log.Fatalf("course %q already exists", alias)
	}
	tasks := getTasks(cfg, serverAlias)
	course, err := tasks.GetCourse(ctx, courseID)
	if err != nil {
		fatal(err, fmt.Sprintf("course %d", courseID))
	}
	cfg.Courses[alias] = config.Course{Server: serverAlias, CourseID: courseID}
	if err := config.Write(cfg); err != nil {
		log.Fatalf("save config: %v", err)
	}
	fmt.Printf("Course %s (%s) added successfully using alias %s.\n", course.Name, course.Term, alias)
}

func removeCourse(args []string) {
	if len(args) != 1 {
		log.Fatal("usage: canvas courses remove ALIAS")
	}
	alias := args[0]

	cfg := config.Read()
	if _, ok := cfg.Courses[alias]; !ok {
		log.Fatalf("unknown course %q", alias)
	}
	delete(cfg.Courses, alias)
	if err := config.Write(cfg); err != nil {
		log.Fatalf("save config: %v", err)
	}
	fmt.Printf("Course %q removed.\n", alias)
}

func printCourses(courses []canvas.Course, useCodes bool) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if useCodes {
		fmt.Fprintln(w, "ID\tALIAS\tCODE\tNAME\tTERM")
	} else {
		fmt.Fprintln(w, "ID\tALIAS\tNAME\tTERM")
	}
	for _, c := range courses {
		if useCodes {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Alias, c.CourseCode, c.Name, c.Term)
		} else {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Alias, c.Name, c.Term)
		}
	}
	w.Flush()
}
