package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	sapfodl "github.com/nycz/sapfo-dl"
	"github.com/nycz/sapfo-dl/fs"
	sdhttp "github.com/nycz/sapfo-dl/http"
	sdslog "github.com/nycz/sapfo-dl/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sapfo-dl"),
		kong.Description("Download web serials into paginated local HTML files"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	// Load settings, bootstrapping the file from the bundled default on
	// first run.
	cfgPath := cli.Config
	if cfgPath == "" {
		cfgPath, err = sapfodl.DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to locate settings file: %w", err)
		}
	}
	cfg, err := sapfodl.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	var fetcher sapfodl.Fetcher = sdhttp.NewFetcher(sdhttp.WithTimeout(cli.Timeout))
	if cli.Verbose {
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		fetcher = sdslog.NewLoggingFetcher(fetcher, logger)
	}
	defer fetcher.Close()

	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Config:  cfg,
		Fetcher: fetcher,
		Store:   fs.NewStore(cfg.RootPath),
	}

	cmd := &DownloadCmd{
		URLs:        cli.URLs,
		Title:       cli.Title,
		Description: cli.Description,
		Tags:        cli.Tags,
	}

	return cmd.Run(deps)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Title       string        `short:"n" placeholder:"TITLE" help:"Set the title explicitly instead of using the extracted one."`
	Description string        `short:"d" placeholder:"DESC" help:"Set the description."`
	Tags        string        `short:"t" placeholder:"TAGS" help:"Comma-separated tags."`
	Config      string        `type:"path" help:"Settings file to use instead of the per-user one."`
	Timeout     time.Duration `help:"Fetch timeout per page (default: none)."`
	Verbose     bool          `short:"v" help:"Log each request to stderr."`
	URLs        []string      `arg:"" name:"url" required:"" help:"URLs to download; each may contain one brace expansion."`
}
