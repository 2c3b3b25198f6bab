package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/preconfig/gen"
	"github.com/ardnew/preconfig/log"
	"github.com/ardnew/preconfig/template"
)

// Extract lists the content of every block in template files.
type Extract struct {
	Files []string `arg:"" help:"Template files" name:"file" type:"existingfile"`

	Stdout io.Writer `kong:"-"`
}

// Run executes the extract command.
func (e *Extract) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	w := writer(e.Stdout, os.Stdout)

	for _, path := range e.Files {
		src, err := gen.LoadTemplate(ctx, path)
		if err != nil {
			return err
		}

		if len(e.Files) > 1 {
			fmt.Fprintf(w, "%s:\n", path)
		}

		writeSnippets(ctx, w, src)
	}

	return nil
}

// writeSnippets writes one line per block of src: its line number and its
// trimmed content. Malformed blocks are logged.
func writeSnippets(ctx context.Context, w io.Writer, src template.Source) {
	for sn, err := range src.Snippets() {
		if err != nil {
			log.WarnContext(ctx, "malformed block",
				slog.String("template", src.Name()),
				slog.Int("line", sn.Line),
				slog.Any("error", err),
			)
		}

		code := strings.TrimSpace(sn.Code)
		if code == "" {
			continue
		}

		fmt.Fprintf(w, " line %4d : %s\n", sn.Line, code)
	}
}
