package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"canvas-course-tools/internal/grouplist"
	"canvas-course-tools/internal/render"
)

func runTemplates(args []string) {
	if len(args) < 1 {
		log.Fatal("usage: canvas templates <list|show|render> [arguments]")
	}
	switch args[0] {
	case "list":
		listTemplates()
	case "show":
		showTemplate(args[1:])
	case "render":
		renderTemplate(args[1:])
	default:
		log.Fatalf("unknown templates subcommand %q", args[0])
	}
}

func listTemplates() {
	infos, err := render.List()
	if err != nil {
		log.Fatalf("list templates: %v", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TEMPLATE\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\n", info.Name, info.Description)
	}
	w.Flush()
}

func showTemplate(args []string) {
	if len(args) != 1 {
		log.Fatal("usage: canvas templates show TEMPLATE")
	}
	contents, err := render.Show(args[0])
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Print(contents)
}

// renderTemplate renders a group list file through a template, to stdout or
// to a file.
func renderTemplate(args []string) {
	fs := flag.NewFlagSet("templates render", flag.ExitOnError)
	file := fs.String("file", "", "write the output to this file")
	autoWrite := fs.Bool("write", false, "write the output to a file named after the template and group list")
	outputDir := fs.String("dir", "", "write output relative to this directory")
	photoDir := fs.String("photos", "", "search matching photos in this directory")
	fs.Parse(args)
	if fs.NArg() != 2 {
		log.Fatal("usage: canvas templates render [options] TEMPLATE GROUP_LIST_FILE")
	}
	templateName, listPath := fs.Arg(0), fs.Arg(1)

	list, err := grouplist.ParseFile(listPath)
	if err != nil {
		log.Fatalf("read group list: %v", err)
	}

	toFile := *file != "" || *autoWrite
	var outputPath string
	if toFile {
		outputPath = render.OutputPath(*file, *outputDir, templateName, listPath)
	}
	if *photoDir != "" {
		relativeTo := ""
		if toFile {
			relativeTo = filepath.Dir(outputPath)
		}
		for _, student := range grouplist.AttachPhotos(&list, *photoDir, relativeTo) {
			fmt.Fprintf(os.Stderr, "WARNING: no photo found for %s.\n", student.Name)
		}
	}

	contents, err := render.Render(templateName, list)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if !toFile {
		fmt.Print(contents)
		return
	}
	fmt.Printf("Writing template output to %s...\n", outputPath)
	if err := os.WriteFile(outputPath, []byte(contents), 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
}
