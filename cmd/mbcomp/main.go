// Command mbcomp runs the three-band compressor over WAV files and inspects
// its parameters.
//
// Usage:
//
//	mbcomp <command> [flags]
//
// Examples:
//
//	mbcomp process in.wav out.wav --preset vocal.toml
//	mbcomp process in.wav out.wav -s "Threshold Low Band=-24" -s "Ratio Low Band=4"
//	mbcomp params
//	mbcomp nulltest --low-mid 250 --mid-high 4000
//	mbcomp preset-dump > default.toml
package main

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"
)

var version = "0.1.0"

// Globals are shared by every command.
type Globals struct {
	Verbose bool `short:"v" help:"Log progress to stderr."`

	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
}

func (g *Globals) logf(format string, args ...any) {
	if g.Verbose {
		g.logger.Printf(format, args...)
	}
}

// CLI is the command tree.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version information."`

	Process    ProcessCmd    `cmd:"" help:"Compress a WAV file."`
	Params     ParamsCmd     `cmd:"" help:"List every parameter with its range and default."`
	Nulltest   NulltestCmd   `cmd:"" help:"Check that the crossover sums back to the allpass-filtered input."`
	PresetDump PresetDumpCmd `cmd:"" help:"Write the default preset as TOML."`
}

// errFailed marks a command that already reported its failure.
var errFailed = errors.New("failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var cli CLI
	cli.stdout = stdout
	cli.stderr = stderr
	cli.logger = log.New(stderr, "mbcomp: ", log.LstdFlags)

	exitCode := -1
	parser, err := kong.New(&cli,
		kong.Name("mbcomp"),
		kong.Description("Three-band multiband compressor"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": version},
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		printError(stderr, err.Error())
		return 1
	}

	ctx, err := parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		printError(stderr, err.Error())
		return 1
	}

	if err := ctx.Run(&cli.Globals); err != nil {
		if !errors.Is(err, errFailed) {
			printError(stderr, err.Error())
		}
		return 1
	}

	return 0
}
