// Package shell implements the interactive numbered menu over a store.
//
// The shell owns console I/O only: it prompts, re-prompts on invalid input,
// and hands validated values to the store and query packages.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/satman/internal/store"
	"github.com/roach88/satman/internal/validate"
)

// Menu choices.
const (
	ChoiceInsert  = "1"
	ChoiceView    = "2"
	ChoiceRank    = "3"
	ChoiceUpdate  = "4"
	ChoiceDelete  = "5"
	ChoiceAverage = "6"
	ChoiceFilter  = "7"
	ChoiceSave    = "8"
	ChoiceExit    = "9"
	ChoiceSetMax  = "10"
)

const (
	wideRule   = 60
	narrowRule = 50
)

// errExit ends the menu loop normally.
var errExit = errors.New("exit")

// Shell is one interactive session over a store.
type Shell struct {
	store     *store.Store
	in        *lineReader
	out       io.Writer
	logger    *slog.Logger
	sessionID string
	pause     bool
}

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(sh *Shell) { sh.logger = l }
}

// WithSessionID fixes the session id (for testing).
// If unset, a UUIDv7 is generated.
func WithSessionID(id string) Option {
	return func(sh *Shell) { sh.sessionID = id }
}

// WithPause waits for Enter after every action before the menu is shown again.
func WithPause() Option {
	return func(sh *Shell) { sh.pause = true }
}

// New creates a shell reading commands from in and writing to out.
func New(st *store.Store, in io.Reader, out io.Writer, opts ...Option) *Shell {
	sh := &Shell{
		store:  st,
		out:    out,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(sh)
	}
	if sh.sessionID == "" {
		sh.sessionID = uuid.Must(uuid.NewV7()).String()
	}
	sh.logger = sh.logger.With("session", sh.sessionID)
	sh.in = newLineReader(in)
	return sh
}

// SessionID returns the id attached to this session's log lines.
func (sh *Shell) SessionID() string {
	return sh.sessionID
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
// All three are a clean exit and return nil; other errors are returned.
func (sh *Shell) Run(ctx context.Context) error {
	sh.logger.Info("session started", "path", sh.store.Path(), "records", sh.store.Len())
	defer sh.in.close()
	sh.greet()

	for {
		sh.printMenu()
		choice, err := sh.prompt(ctx, fmt.Sprintf("\nChoose an option (1-%s): ", ChoiceSetMax))
		if err == nil {
			err = sh.dispatch(ctx, choice)
		}
		if err == nil && sh.pause {
			_, err = sh.prompt(ctx, "\nPress Enter to continue...")
		}

		switch {
		case err == nil:
			continue
		case errors.Is(err, errExit):
			sh.println("\nThank you for using SAT Results Manager. Goodbye!")
			sh.logger.Info("session ended", "reason", "exit")
			return nil
		case errors.Is(err, io.EOF):
			sh.println("\n\nInput closed. Goodbye!")
			sh.logger.Info("session ended", "reason", "eof")
			return nil
		case errors.Is(err, context.Canceled):
			sh.println("\n\nProgram interrupted. Goodbye!")
			sh.logger.Info("session ended", "reason", "interrupted")
			return nil
		default:
			sh.logger.Error("session failed", "error", err)
			return err
		}
	}
}

func (sh *Shell) dispatch(ctx context.Context, choice string) error {
	sh.logger.Debug("menu choice", "choice", choice)
	switch choice {
	case ChoiceInsert:
		return sh.insert(ctx)
	case ChoiceView:
		return sh.view()
	case ChoiceRank:
		return sh.rank(ctx)
	case ChoiceUpdate:
		return sh.update(ctx)
	case ChoiceDelete:
		return sh.delete(ctx)
	case ChoiceAverage:
		return sh.average()
	case ChoiceFilter:
		return sh.filter(ctx)
	case ChoiceSave:
		return sh.save()
	case ChoiceExit:
		return errExit
	case ChoiceSetMax:
		return sh.setMaxScore(ctx)
	default:
		sh.printf("Invalid choice. Please enter a number from 1 to %s.\n", ChoiceSetMax)
		return nil
	}
}

func (sh *Shell) greet() {
	if err := sh.store.LoadWarning(); err != nil {
		sh.printf("Warning: Could not load data file (%v). Starting with fresh data.\n", err)
	}
	if sh.store.Len() == 0 && sh.store.MaxScore() == sh.store.DefaultMaxScore() {
		sh.println("Welcome to SAT Results Manager!")
		sh.printf("Default max score is %s. You can change this in the menu.\n",
			validate.FormatNumber(sh.store.DefaultMaxScore()))
	}
}

func (sh *Shell) printMenu() {
	sh.println("\n" + strings.Repeat("=", wideRule))
	sh.println("SAT RESULTS MANAGER")
	sh.println(strings.Repeat("=", wideRule))
	sh.println("1.  Insert data")
	sh.println("2.  View all data")
	sh.println("3.  Get rank")
	sh.println("4.  Update score")
	sh.println("5.  Delete one record")
	sh.println("6.  Calculate Average SAT Score")
	sh.println("7.  Filter records by Pass/Fail Status")
	sh.println("8.  Save data to JSON file")
	sh.println("9.  Exit")
	sh.println("10. Set maximum SAT score")
	sh.println(strings.Repeat("-", wideRule))
	sh.printf("Current stats: %d candidates, max score: %s\n",
		sh.store.Len(), validate.FormatNumber(sh.store.MaxScore()))
}

func (sh *Shell) header(title string) {
	sh.println("\n" + strings.Repeat("=", narrowRule))
	sh.println(title)
	sh.println(strings.Repeat("=", narrowRule))
}

// prompt writes msg and reads one trimmed line.
func (sh *Shell) prompt(ctx context.Context, msg string) (string, error) {
	fmt.Fprint(sh.out, msg)
	return sh.in.next(ctx)
}

func (sh *Shell) println(s string) {
	fmt.Fprintln(sh.out, s)
}

func (sh *Shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.out, format, args...)
}

// invalid prints a validation failure so the caller can re-prompt.
func (sh *Shell) invalid(err error) {
	var ve *validate.Error
	if errors.As(err, &ve) {
		sh.println("Invalid input: " + ve.Message + ".")
		return
	}
	sh.println("Invalid input: " + err.Error())
}

// saveFailed reports a failed write and logs it.
func (sh *Shell) saveFailed(what string, err error) {
	sh.logger.Error("write failed", "op", what, "error", err)
	sh.printf("Failed to save data (%v).\n", err)
}

func (sh *Shell) saved() {
	sh.printf("[Saved] Data written to %s\n", sh.store.Path())
}
