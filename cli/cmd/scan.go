package cmd

import (
	"context"
	"io"
	"os"

	"github.com/ardnew/preconfig/batch"
	"github.com/ardnew/preconfig/log"
)

// Scan runs a shell command in each of a list of directories.
type Scan struct {
	Command string   `arg:"" help:"Shell command to run in each directory"`
	Dirs    []string `arg:"" help:"Directories to run the command in"        name:"dir" type:"existingdir"`

	Jobs  int    `default:"1"  help:"Number of directories processed at once"             short:"j"`
	Shell string `default:"sh" help:"Shell used to run the command"`
	Quiet bool   `help:"Print only the output of the command"                  short:"q" xor:"verbosity"`
	Plain bool   `help:"Print one line per directory: its name and output"               xor:"verbosity"`

	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

// Run executes the scan command.
func (s *Scan) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	runner := batch.New(s.Command,
		batch.WithJobs(s.Jobs),
		batch.WithShell(s.Shell),
		batch.WithVerbosity(s.verbosity()),
		batch.WithOutput(writer(s.Stdout, os.Stdout), writer(s.Stderr, os.Stderr)),
		batch.WithLogger(log.Default()),
	)

	return runner.Run(ctx, s.Dirs...)
}

func (s *Scan) verbosity() batch.Verbosity {
	switch {
	case s.Quiet:
		return batch.Quiet
	case s.Plain:
		return batch.Plain
	default:
		return batch.Verbose
	}
}
