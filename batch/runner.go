package batch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/preconfig/log"
)

// Verbosity selects how the output of each directory is presented.
type Verbosity int

const (
	// Quiet writes only what the command prints.
	Quiet Verbosity = iota
	// Plain writes the directory name followed by the command output joined
	// on one line.
	Plain
	// Verbose writes a separator naming the directory to the error stream
	// before running the command, then the command output.
	Verbose
)

// DefaultShell interprets the command.
const DefaultShell = "sh"

// separator precedes the directory name in Verbose mode.
var separator = strings.Repeat("-  ", 24) //nolint:gochecknoglobals

// Runner runs a command in directories.
type Runner struct {
	command   string
	shell     string
	out       io.Writer
	err       io.Writer
	logger    log.Logger
	jobs      int
	verbosity Verbosity
	mu        sync.Mutex
}

// Option configures a [Runner].
type Option func(*Runner)

// WithJobs sets the number of directories processed at once.
func WithJobs(n int) Option {
	return func(r *Runner) { r.jobs = n }
}

// WithVerbosity sets the presentation of the output.
func WithVerbosity(v Verbosity) Option {
	return func(r *Runner) { r.verbosity = v }
}

// WithOutput sets the writers receiving the command output and the command
// error stream.
func WithOutput(out, err io.Writer) Option {
	return func(r *Runner) { r.out, r.err = out, err }
}

// WithShell sets the shell that interprets the command with "-c".
func WithShell(shell string) Option {
	return func(r *Runner) { r.shell = shell }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New returns a Runner for command.
func New(command string, opts ...Option) *Runner {
	r := &Runner{
		command:   command,
		shell:     DefaultShell,
		out:       os.Stdout,
		err:       os.Stderr,
		logger:    log.Default(),
		jobs:      1,
		verbosity: Verbose,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Run runs the command once in each of dirs.
//
// A failing command does not stop the others; every failure is returned,
// joined, after all directories have been processed. Canceling ctx stops
// running commands and skips the remaining directories.
func (r *Runner) Run(ctx context.Context, dirs ...string) error {
	if strings.TrimSpace(r.command) == "" {
		return ErrNoCommand
	}

	if len(dirs) == 0 {
		return ErrNoDirs.With(slog.String("command", r.command))
	}

	queue := make(chan string, len(dirs))

	for _, dir := range dirs {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}

		queue <- dir
	}

	close(queue)

	var (
		failMu sync.Mutex
		failed []error
	)

	workers := min(max(r.jobs, 1), len(dirs))

	r.logger.DebugContext(ctx, "batch",
		slog.String("command", r.command),
		slog.Int("dirs", len(dirs)),
		slog.Int("workers", workers),
	)

	var g errgroup.Group

	for range workers {
		g.Go(func() error {
			for dir := range queue {
				if err := ctx.Err(); err != nil {
					return err
				}

				if err := r.execute(ctx, dir); err != nil {
					failMu.Lock()
					failed = append(failed, err)
					failMu.Unlock()
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return errors.Join(failed...)
}

// execute runs the command in dir and writes its output and its error
// output each in one piece.
func (r *Runner) execute(ctx context.Context, dir string) error {
	if r.verbosity == Verbose {
		r.write(r.err, separator+dir+"\n")
	}

	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, r.shell, "-c", r.command) //nolint:gosec
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	r.write(r.err, stderr.String())
	r.write(r.out, Assemble(dir, stdout.String(), r.verbosity))

	if runErr != nil {
		r.logger.WarnContext(ctx, "command failed",
			slog.String("dir", dir),
			slog.Any("error", runErr),
		)

		return ErrCommand.Wrap(runErr).With(slog.String("dir", dir))
	}

	return nil
}

func (r *Runner) write(w io.Writer, s string) {
	if s == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = io.WriteString(w, s)
}

// Assemble formats the output of the command run in dir.
func Assemble(dir, output string, v Verbosity) string {
	if v != Plain {
		return output
	}

	return filepath.Base(dir) + " " + strings.ReplaceAll(output, "\n", " ") + "\n"
}
