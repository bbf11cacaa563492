package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/conorfennell/verbivisa/internal/catalog"
	"github.com/conorfennell/verbivisa/internal/config"
	"github.com/conorfennell/verbivisa/internal/domain"
	"github.com/conorfennell/verbivisa/internal/drill"
	"github.com/conorfennell/verbivisa/internal/gitsource"
	"github.com/conorfennell/verbivisa/internal/logger"
	"github.com/conorfennell/verbivisa/internal/quiz"
	"github.com/conorfennell/verbivisa/internal/storage"
)

const usage = `Usage: verbivisa [flags] <command>

Commands:
  lists      show the available word lists
  packages   show the packages of a list (--regenerate to rebuild them)
  quiz       run a drill on stdin/stdout
  scores     show best scores (--reset KEY, --reset-all, --purge)

Flags:
`

func main() {
	// A .env file is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
	}

	flags := pflag.NewFlagSet("verbivisa", pflag.ExitOnError)
	config.RegisterFlags(flags)
	list := flags.String("list", "", "Word list file name (default: first list found)")
	regenerate := flags.Bool("regenerate", false, "packages: rebuild the package map")
	pkg := flags.String("package", domain.AllPackages, "quiz: package id, or \"all\"")
	subset := flags.String("subset", "kaikki", "quiz: kaikki, epäsäännölliset or säännölliset")
	direction := flags.String("direction", "forward", "quiz: forward (source → target) or reverse")
	mode := flags.String("mode", "single", "quiz: single or retry (until all correct)")
	reset := flags.String("reset", "", "scores: remove the record with this key")
	resetAll := flags.Bool("reset-all", false, "scores: remove all records of current packages")
	purge := flags.Bool("purge", false, "scores: drop the list's whole score store")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	flags.Parse(os.Args[1:])

	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	listsDir, err := syncLists(ctx, cfg.Lists)
	if err != nil {
		slog.Error("Failed to sync word lists", "error", err)
		os.Exit(1)
	}
	loader := &catalog.Loader{
		Dir: listsDir,
		Columns: catalog.Columns{
			Source:    cfg.Catalog.SourceColumn,
			Target:    cfg.Catalog.TargetColumn,
			Irregular: cfg.Catalog.IrregularColumn,
		},
		Delimiter: cfg.Catalog.DelimiterRune(),
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	langs := domain.Languages{Source: cfg.Languages.Source, Target: cfg.Languages.Target}
	desk := drill.New(loader, db, cfg.Packages.Size, quiz.NewEngine(), langs)

	switch cmd := flags.Arg(0); cmd {
	case "lists":
		err = runLists(loader, os.Stdout)
	case "packages":
		err = withList(ctx, desk, loader, *list, os.Stdout, func() error {
			return runPackages(ctx, desk, *regenerate, os.Stdout)
		})
	case "quiz":
		var sel quiz.Selection
		sel, err = parseSelection(*pkg, *subset, *direction, *mode, langs)
		if err == nil {
			err = withList(ctx, desk, loader, *list, os.Stdout, func() error {
				return runQuiz(ctx, desk, sel, os.Stdin, os.Stdout)
			})
		}
	case "scores":
		err = withList(ctx, desk, loader, *list, os.Stdout, func() error {
			return runScores(ctx, desk, scoreAction{reset: *reset, resetAll: *resetAll, purge: *purge}, os.Stdout)
		})
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", cmd)
		flags.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		db.Close()
		os.Exit(1)
	}
}

// syncLists pulls the configured repository, if any, and returns the directory to read lists from.
func syncLists(ctx context.Context, cfg config.ListsConfig) (string, error) {
	if cfg.Repo == "" {
		return cfg.Dir, nil
	}
	checkout := cfg.Checkout
	if checkout == "" {
		var err error
		checkout, err = gitsource.LocalPath("repos", cfg.Repo)
		if err != nil {
			return "", err
		}
	}
	if err := gitsource.Sync(ctx, cfg.Repo, checkout, os.Stderr); err != nil {
		return "", err
	}
	return checkout, nil
}

// withList opens the named list, or the first discovered one, before running fn.
func withList(ctx context.Context, desk *drill.Desk, loader *catalog.Loader, name string, out io.Writer, fn func() error) error {
	if name == "" {
		lists, err := loader.Discover()
		if err != nil {
			return err
		}
		name = lists[0]
	}
	if err := desk.Open(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(out, "Using list: %s\n", name)
	return fn()
}

func parseSelection(pkg, subset, direction, mode string, langs domain.Languages) (quiz.Selection, error) {
	sel := quiz.Selection{Package: pkg}
	var err error
	if sel.Subset, err = domain.ParseWordSubset(subset); err != nil {
		return sel, err
	}
	if sel.Direction, err = domain.ParseDirection(direction, langs); err != nil {
		return sel, err
	}
	if sel.Mode, err = domain.ParseMode(mode); err != nil {
		return sel, err
	}
	return sel, nil
}
