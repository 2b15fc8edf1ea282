package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"canvas-course-tools/internal/config"
)

func runServers(args []string) {
	if len(args) < 1 {
		log.Fatal("usage: canvas servers <list|add|remove> [arguments]")
	}
	switch args[0] {
	case "list":
		listServers()
	case "add":
		addServer(args[1:])
	case "remove":
		removeServer(args[1:])
	default:
		log.Fatalf("unknown servers subcommand %q", args[0])
	}
}

func listServers() {
	cfg := config.Read()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ALIAS\tURL")
	for alias, server := range cfg.Servers {
		fmt.Fprintf(w, "%s\t%s\n", alias, server.URL)
	}
	w.Flush()
}

func addServer(args []string) {
	fs := flag.NewFlagSet("servers add", flag.ExitOnError)
	force := fs.Bool("force", false, "if alias already exists, force overwrite")
	fs.Parse(args)
	if fs.NArg() != 3 {
		log.Fatal("usage: canvas servers add [-force] ALIAS URL TOKEN")
	}
	alias, url, token := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	cfg := config.Read()
	if _, ok := cfg.Servers[alias]; ok && !*force {
		log.Fatalf("server %q already exists", alias)
	}
	cfg.Servers[alias] = config.Server{URL: url, Token: token}
	if err := config.Write(cfg); err != nil {
		log.Fatalf("save config: %v", err)
	}
}

func removeServer(args []string) {
	if len(args) != 1 {
		log.Fatal("usage: canvas servers remove ALIAS")
	}
	alias := args[0]

	cfg := config.Read()
	if _, ok := cfg.Servers[alias]; !ok {
		log.Fatalf("unknown server %q", alias)
	}
	delete(cfg.Servers, alias)
	if err := config.Write(cfg); err != nil {
		log.Fatalf("save config: %v", err)
	}
	fmt.Printf("Server %q removed.\n", alias)
}
