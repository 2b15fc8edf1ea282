package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path"

	"canvas-course-tools/internal/config"
)

func runFiles(ctx context.Context, args []string) {
	if len(args) < 1 {
		log.Fatal("usage: canvas files <list|upload> [arguments]")
	}
	switch args[0] {
	case "list":
		listFiles(ctx, args[1:])
	case "upload":
		uploadFile(ctx, args[1:])
	default:
		log.Fatalf("unknown files subcommand %q", args[0])
	}
}

// listFiles prints every file in a course with its full folder path.
func listFiles(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("files list", flag.ExitOnError)
	batchSize := fs.Int("batch-size", 100, "number of records to request per page")
	fs.Parse(args)
	if fs.NArg() != 1 {
		log.Fatal("usage: canvas files list [-batch-size N] COURSE_ALIAS")
	}

	cfg := config.Read()
	tasks, course := findCourse(ctx, cfg, fs.Arg(0))
	for file, err := range tasks.Files(ctx, course, *batchSize) {
		if err != nil {
			fatal(err, "course "+fs.Arg(0))
		}
		fmt.Println(path.Join(file.Folder.FullName, file.Filename))
	}
}

func uploadFile(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("files upload", flag.ExitOnError)
	folder := fs.String("folder", "", "target folder path in the course")
	overwrite := fs.Bool("overwrite", false, "overwrite an existing file with the same name")
	fs.Parse(args)
	if fs.NArg() != 2 {
		log.Fatal("usage: canvas files upload [-folder PATH] [-overwrite] COURSE_ALIAS LOCAL_FILE")
	}

	cfg := config.Read()
	tasks, course := findCourse(ctx, cfg, fs.Arg(0))
	file, err := tasks.UploadFile(ctx, course, fs.Arg(1), *folder, *overwrite)
	if err != nil {
		fatal(err, "course "+fs.Arg(0))
	}
	fmt.Printf("Uploaded %s (%d).\n", file.Filename, file.ID)
}
