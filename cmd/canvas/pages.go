package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"canvas-course-tools/internal/config"
	"canvas-course-tools/internal/markdown"
)

func runPages(ctx context.Context, args []string) {
	if len(args) < 1 {
		log.Fatal("usage: canvas pages <list|upload> [arguments]")
	}
	switch args[0] {
	case "list":
		listPages(ctx, args[1:])
	case "upload":
		uploadPage(ctx, args[1:])
	default:
		log.Fatalf("unknown pages subcommand %q", args[0])
	}
}

func listPages(ctx context.Context, args []string) {
	if len(args) != 1 {
		log.Fatal("usage: canvas pages list COURSE_ALIAS")
	}
	cfg := config.Read()
	tasks, course := findCourse(ctx, cfg, args[0])
	for page, err := range tasks.Pages(ctx, course) {
		if err != nil {
			fatal(err, "course "+args[0])
		}
		fmt.Printf("%s\t%s\n", page.Slug, page.Title)
	}
}

// uploadPage publishes a markdown file as a wiki page. The document's
// top-level heading becomes the page title; a page with that title is updated
// in place, otherwise a new page is created.
func uploadPage(ctx context.Context, args []string) {
	if len(args) != 2 {
		log.Fatal("usage: canvas pages upload COURSE_ALIAS MARKDOWN_FILE")
	}
	content, err := os.ReadFile(args[1])
	if err != nil {
		log.Fatalf("read page source: %v", err)
	}

	cfg := config.Read()
	tasks, course := findCourse(ctx, cfg, args[0])
	page, err := tasks.UploadMarkdownPage(ctx, course, string(content))
	if err != nil {
		if errors.Is(err, markdown.ErrNoTitle) {
			log.Fatalf("%s: the document needs a single top-level heading to use as the page title", args[1])
		}
		fatal(err, "course "+args[0])
	}
	fmt.Printf("Uploaded page %q (%s).\n", page.Title, page.Slug)
}
