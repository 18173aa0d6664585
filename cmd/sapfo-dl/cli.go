package main

import (
	"context"
	"io"

	sapfodl "github.com/nycz/sapfo-dl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Config  *sapfodl.Config
	Fetcher sapfodl.Fetcher
	Store   sapfodl.DownloadStore
}

// DownloadCmd handles the main download operation.
type DownloadCmd struct {
	URLs        []string
	Title       string
	Description string
	Tags        string
}
