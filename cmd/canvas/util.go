package main

import (
	"context"
	"errors"
	"log"

	"canvas-course-tools/internal/canvas"
	"canvas-course-tools/internal/config"
	"canvas-course-tools/internal/httpx"
)

// getTasks builds a task façade for a registered server alias.
func getTasks(cfg config.Config, serverAlias string) *canvas.Tasks {
	server, ok := cfg.Servers[serverAlias]
	if !ok {
		log.Fatalf("unknown server %q; register it with: canvas servers add", serverAlias)
	}
	return canvas.NewTasks(server.URL, server.Token)
}

// findCourse resolves a course alias into a façade and a fetched course.
func findCourse(ctx context.Context, cfg config.Config, courseAlias string) (*canvas.Tasks, canvas.Course) {
	registered, ok := cfg.Courses[courseAlias]
	if !ok {
		log.Fatalf("unknown course %q; register it with: canvas courses add", courseAlias)
	}
	tasks := getTasks(cfg, registered.Server)
	course, err := tasks.GetCourse(ctx, registered.CourseID)
	if err != nil {
		fatal(err, courseAlias)
	}
	course.Alias = courseAlias
	return tasks, course
}

// fatal exits with a remediation hint for the well-known error kinds.
func fatal(err error, subject string) {
	switch {
	case errors.Is(err, httpx.ErrUnauthorized):
		log.Fatalf("%v: you must update your canvas access token", err)
	case errors.Is(err, httpx.ErrForbidden):
		log.Fatalf("you don't have authorization to access %s", subject)
	case errors.Is(err, httpx.ErrNotFound):
		log.Fatalf("%s does not exist on the server", subject)
	default:
		log.Fatalf("%v", err)
	}
}
