// Package cli holds the pieces shared by the command handlers: subcommand
// dispatch, table output and the mapping from error kinds to exit codes.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fekuna/stroymaterials/internal/apperr"
)

var ErrUsage = errors.New("usage")

const (
	ExitOK = iota
	ExitFailure
	ExitUsage
	ExitValidation
	ExitNotFound
	ExitConflict
	ExitDenied
	ExitUnsupported
)

// DateLayout is the input and display format for dates.
const DateLayout = "02.01.2006"

type Command struct {
	Name  string
	Usage string
	Run   func(ctx context.Context, args []string) error
}

// Dispatch runs the command named by args[0].
func Dispatch(ctx context.Context, group string, cmds []Command, args []string) error {
	if len(args) == 0 {
		return Usagef("%s: missing subcommand (%s)", group, names(cmds))
	}
	for _, c := range cmds {
		if c.Name == args[0] {
			return c.Run(ctx, args[1:])
		}
	}
	return Usagef("%s: unknown subcommand %q (%s)", group, args[0], names(cmds))
}

func names(cmds []Command) string {
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Name)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// PrintUsage writes one line per command.
func PrintUsage(w io.Writer, group string, cmds []Command) {
	tw := NewTable(w)
	for _, c := range cmds {
		fmt.Fprintf(tw, "  %s %s\t%s\n", group, c.Name, c.Usage)
	}
	tw.Flush()
}

func Usagef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// NewFlagSet returns a flag set that reports errors instead of exiting.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// Parse parses args and wraps failures as usage errors.
func Parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return Usagef("%s: %v", fs.Name(), err)
	}
	return nil
}

// ArgID reads the single positional row id.
func ArgID(fs *flag.FlagSet) (int64, error) {
	if fs.NArg() != 1 {
		return 0, Usagef("%s: expected one id argument", fs.Name())
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		return 0, Usagef("%s: invalid id %q", fs.Name(), fs.Arg(0))
	}
	return id, nil
}

// ParseDate reads a dd.MM.yyyy date at local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}

func NewTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func YesNo(b bool) string {
	if b {
		return "да"
	}
	return "нет"
}

func Opt(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func Number(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ExitCode maps an error onto the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case apperr.IsValidation(err):
		return ExitValidation
	case errors.Is(err, apperr.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, apperr.ErrConflict):
		return ExitConflict
	case errors.Is(err, apperr.ErrForbidden), errors.Is(err, apperr.ErrUnauthenticated):
		return ExitDenied
	case errors.Is(err, apperr.ErrUnsupported):
		return ExitUnsupported
	}
	return ExitFailure
}
