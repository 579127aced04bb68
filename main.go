package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/posops/termpick/pkg"
	"github.com/posops/termpick/pkg/core"
	"github.com/posops/termpick/pkg/logging"
)

var CLI struct {
	Config   string `short:"c" help:"Path to termpick.yml"`
	LogLevel string `optional:"" name:"log-level" help:"Log level: error, warn, info, debug" default:"error"`

	Run struct {
		DryRun bool   `optional:"" name:"dry-run" help:"Print the composed runner command lines without executing"`
		Path   string `arg:"" name:"path" help:"Test suite root path"`
	} `cmd:"" help:"Pick test cases and run them"`

	List struct {
		Path string `arg:"" name:"path" help:"Test suite root path"`
	} `cmd:"" help:"List available test cases"`

	New struct {
	} `cmd:"" help:"Create a new termpick configuration file"`

	Version struct {
	} `cmd:"" short:"v" help:"Termpick version"`
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx := kong.Parse(&CLI)

	logger := logging.New()
	logger.SetLevel(CLI.LogLevel)

	// below commands don't require a configuration file
	if ctx.Command() == "version" {
		fmt.Printf("Termpick %v\n", version)
		fmt.Printf("Revision %v, date: %v\n", commit, date)
		os.Exit(0)
	}

	configyml := ".termpick.yml"
	if CLI.Config != "" {
		configyml = CLI.Config
	}

	if ctx.Command() == "new" {
		porcelain := &pkg.Porcelain{Out: os.Stderr}
		if _, err := os.Stat(configyml); err == nil && !porcelain.AskForConfirmation(fmt.Sprintf("The file %s already exists. Do you want to override it?", configyml)) {
			os.Exit(0)
		}
		if err := pkg.SetupNewConfig(porcelain, configyml); err != nil {
			exitFor(porcelain, err)
		}
		os.Exit(0)
	}

	cfg, err := pkg.NewConfigFile(configyml)
	if err != nil {
		bail(err)
	}

	switch ctx.Command() {
	case "run <path>":
		launcher, err := pkg.NewLauncher(cfg, CLI.Run.Path, CLI.Run.DryRun, logger)
		if err != nil {
			bail(err)
		}
		code, err := launcher.Run()
		if err != nil {
			exitFor(launcher.Porcelain, err)
		}
		os.Exit(code)

	case "list <path>":
		launcher, err := pkg.NewLauncher(cfg, CLI.List.Path, false, logger)
		if err != nil {
			bail(err)
		}
		if err := launcher.ListTests(); err != nil {
			bail(err)
		}

	default:
		println(ctx.Command())
		os.Exit(1)
	}
}

// exitFor maps a run error to the documented exit behavior: prompts
// canceled by the user and configuration-data defects both leave with
// code 0, everything else is fatal.
func exitFor(porcelain *pkg.Porcelain, err error) {
	if errors.Is(err, core.ErrCanceled) {
		porcelain.PrintCanceled()
		os.Exit(0)
	}
	if core.IsDataDefect(err) {
		porcelain.PrintDataDefect(err.Error())
		os.Exit(0)
	}
	bail(err)
}

func bail(e error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", e)
	os.Exit(1)
}
