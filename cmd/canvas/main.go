package main

import (
	"context"
	"fmt"
	"log"
	"os"
)

const usageText = `Usage: canvas <command> [arguments]

Commands:
  servers    add, remove and list Canvas servers
  courses    add, remove and list Canvas courses
  students   list students in a course or group set
  groups     create Canvas groups from a group list file
  templates  list, show and render group list templates
  pages      list course pages and upload markdown pages
  files      list and upload course files
`

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	ctx := context.Background()
	args := os.Args[2:]

	switch os.Args[1] {
	case "servers":
		runServers(args)
	case "courses":
		runCourses(ctx, args)
	case "students":
		runStudents(ctx, args)
	case "groups":
		runGroups(ctx, args)
	case "templates":
		runTemplates(args)
	case "pages":
		runPages(ctx, args)
	case "files":
		runFiles(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usageText)
		os.Exit(2)
	}
}
