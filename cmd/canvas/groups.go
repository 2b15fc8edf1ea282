package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"canvas-course-tools/internal/canvas"
	"canvas-course-tools/internal/config"
	"canvas-course-tools/internal/grouplist"
)

func runGroups(ctx context.Context, args []string) {
	if len(args) < 1 {
		log.Fatal("usage: canvas groups <create> [arguments]")
	}
	switch args[0] {
	case "create":
		createGroups(ctx, args[1:])
	default:
		log.Fatalf("unknown groups subcommand %q", args[0])
	}
}

// createGroups builds a group set on Canvas from a group list file, one group
// per roster group. Member failures are reported per student; the batch runs
// to completion.
func createGroups(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("groups create", flag.ExitOnError)
	groupSet := fs.String("groupset", "", "name of the group set to create (default: the group list title)")
	overwrite := fs.Bool("overwrite", false, "overwrite an existing group set with the same name")
	fs.Parse(args)
	if fs.NArg() != 2 {
		log.Fatal("usage: canvas groups create [-groupset NAME] [-overwrite] COURSE_ALIAS GROUP_LIST_FILE")
	}

	list, err := grouplist.ParseFile(fs.Arg(1))
	if err != nil {
		log.Fatalf("read group list: %v", err)
	}
	name := *groupSet
	if name == "" {
		name = list.Name
	}
	if name == "" {
		log.Fatal("the group list has no title; supply a group set name with -groupset")
	}

	cfg := config.Read()
	tasks, course := findCourse(ctx, cfg, fs.Arg(0))

	set, err := tasks.CreateGroupSet(ctx, name, course, *overwrite)
	if err != nil {
		var exists *canvas.ExistsError
		if errors.As(err, &exists) {
			log.Fatalf("%v; use -overwrite to replace it", err)
		}
		fatal(err, "course "+fs.Arg(0))
	}

	results, err := tasks.PopulateGroupSet(ctx, set, list.Groups)
	for _, result := range results {
		fmt.Printf("created group %s (%d)\n", result.Group.Name, result.Group.ID)
		for _, failure := range result.Failures {
			fmt.Printf("  WARNING: could not add %s (%s): %v\n",
				failure.Student.Name, failure.Student.ID, failure.Err)
		}
	}
	if err != nil {
		fatal(err, "group set "+name)
	}
}
