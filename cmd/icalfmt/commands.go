package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/hako/durafmt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	ics "github.com/aimcal/ical"
	"github.com/aimcal/ical/datetime"
	"github.com/aimcal/ical/internal/config"
)

// Exit codes.
const (
	exitOK       = 0
	exitProblems = 1
	exitUsage    = 2
)

var errUnknownCommand = errors.New("unknown command")

type app struct {
	cfg *config.Config
	log logrus.FieldLogger
	loc *time.Location
	now func() time.Time

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	errorColor   *color.Color
	warningColor *color.Color
	dimColor     *color.Color
}

func newApp(cfg *config.Config, log logrus.FieldLogger, now func() time.Time) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:          cfg,
		log:          log,
		loc:          loc,
		now:          now,
		stdin:        os.Stdin,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		errorColor:   color.New(color.FgRed, color.Bold),
		warningColor: color.New(color.FgYellow),
		dimColor:     color.New(color.Faint),
	}
	for _, c := range []*color.Color{a.errorColor, a.warningColor, a.dimColor} {
		switch cfg.Color {
		case "always":
			c.EnableColor()
		case "never":
			c.DisableColor()
		}
	}
	return a, nil
}

func (a *app) run(cmd string, args []string) (int, error) {
	switch cmd {
	case "fmt":
		return a.cmdFmt(args)
	case "check":
		return a.cmdCheck(args)
	case "todos":
		return a.cmdTodos(args)
	case "new-todo":
		return a.cmdNewTodo(args)
	}
	return exitUsage, errors.Wrap(errUnknownCommand, cmd)
}

func (a *app) serializeOps() []any {
	nl := ics.WithNewLineWindows
	if a.cfg.NewLine == config.NewLineLF {
		nl = ics.WithNewLineUnix
	}
	return []any{ics.WithLineLength(a.cfg.LineLength), nl}
}

func (a *app) parseOpts() []ics.ParseOption {
	return []ics.ParseOption{ics.WithLogger(a.log)}
}

// source is one input file; "-" is standard input.
type source struct {
	name string
	text string
}

func (a *app) readSources(names []string) ([]source, error) {
	if len(names) == 0 {
		names = []string{"-"}
	}
	out := make([]source, 0, len(names))
	for _, name := range names {
		var b []byte
		var err error
		if name == "-" {
			b, err = io.ReadAll(a.stdin)
			name = "<stdin>"
		} else {
			b, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", name)
		}
		out = append(out, source{name: name, text: string(b)})
	}
	return out, nil
}

func (a *app) renderDiagnostics(w io.Writer, src source, diags ics.Diagnostics) {
	li := ics.NewLineIndex(src.text)
	for _, d := range diags {
		sev := a.warningColor.Sprint(d.Severity)
		if d.Severity == ics.SeverityError {
			sev = a.errorColor.Sprint(d.Severity)
		}
		fmt.Fprintf(w, "%s:%s: %s: %s\n", src.name, li.FormatSpan(d.Span), sev, d.Message)
	}
}

func (a *app) cmdFmt(args []string) (int, error) {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	write := fs.Bool("w", false, "write the result back to the source file")
	if err := fs.Parse(args); err != nil {
		return exitUsage, err
	}
	srcs, err := a.readSources(fs.Args())
	if err != nil {
		return exitProblems, err
	}
	code := exitOK
	for _, src := range srcs {
		cals, diags := ics.Parse(src.text, a.parseOpts()...)
		a.renderDiagnostics(a.stderr, src, diags.Errors())
		if diags.HasErrors() {
			code = exitProblems
		}
		if len(cals) == 0 {
			a.log.WithField("file", src.name).Warn("no calendar to format")
			continue
		}
		out := &bytes.Buffer{}
		for _, cal := range cals {
			if err := cal.SerializeTo(out, a.serializeOps()...); err != nil {
				return exitProblems, errors.Wrapf(err, "formatting %s", src.name)
			}
		}
		if *write && src.name != "<stdin>" {
			if err := os.WriteFile(src.name, out.Bytes(), 0o644); err != nil {
				return exitProblems, errors.Wrapf(err, "writing %s", src.name)
			}
			a.log.WithField("file", src.name).Info("formatted")
			continue
		}
		if _, err := a.stdout.Write(out.Bytes()); err != nil {
			return exitProblems, errors.Wrap(err, "writing output")
		}
	}
	return code, nil
}

func (a *app) cmdCheck(args []string) (int, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	strict := fs.Bool("strict", false, "fail on warnings too")
	if err := fs.Parse(args); err != nil {
		return exitUsage, err
	}
	srcs, err := a.readSources(fs.Args())
	if err != nil {
		return exitProblems, err
	}
	code := exitOK
	for _, src := range srcs {
		cals, diags := ics.Parse(src.text, a.parseOpts()...)
		a.renderDiagnostics(a.stdout, src, diags)
		errs, warns := len(diags.Errors()), len(diags.Warnings())
		fmt.Fprintln(a.stdout, a.dimColor.Sprintf("%s (%s): %d calendars, %d errors, %d warnings",
			src.name, humanize.Bytes(uint64(len(src.text))), len(cals), errs, warns))
		if errs > 0 || (*strict && warns > 0) {
			code = exitProblems
		}
	}
	return code, nil
}

type todoLine struct {
	todo  *ics.VTodo
	state string
}

// todoState places now relative to the todo's DTSTART and DUE. Zoned and UTC
// bounds are moved into the configured zone first; floating and date bounds
// are already wall clocks there.
func (a *app) todoState(todo *ics.VTodo, now time.Time) string {
	if todo.Status != nil {
		switch todo.Status.Value {
		case ics.ObjectStatusCompleted:
			return "done"
		case ics.ObjectStatusCancelled:
			return "cancelled"
		}
	}
	var start, due *datetime.Loose
	if todo.DTStart != nil {
		start = a.wallClock(todo.DTStart.Value)
	}
	if todo.Due != nil {
		due = a.wallClock(todo.Due.Value)
	}
	switch datetime.PositionInRange(now.In(a.loc), start, due) {
	case datetime.Before:
		return "upcoming"
	case datetime.After:
		return "overdue"
	case datetime.InRange:
		return "active"
	}
	return "open"
}

func (a *app) wallClock(dt ics.DateTime) *datetime.Loose {
	l := dt.Loose()
	if l.Kind() == datetime.KindLocal {
		l = datetime.Local(l.Instant(a.loc).In(a.loc))
	}
	return &l
}

func (a *app) describeTodo(todo *ics.VTodo, now time.Time) string {
	b := strings.Builder{}
	summary := "(no summary)"
	if todo.Summary != nil {
		summary = todo.Summary.Value.Content
	}
	b.WriteString(summary)
	if due, err := todo.GetDueAt(); err == nil {
		b.WriteString(" due ")
		b.WriteString(humanize.RelTime(due, now, "ago", "from now"))
	}
	if todo.Duration != nil {
		b.WriteString(", takes ")
		b.WriteString(durafmt.ParseShort(todo.Duration.Value.Std()).String())
	}
	if todo.PercentComplete != nil {
		fmt.Fprintf(&b, ", %d%% done", todo.PercentComplete.Value)
	}
	return b.String()
}

func (a *app) cmdTodos(args []string) (int, error) {
	fs := flag.NewFlagSet("todos", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	from := fs.String("from", a.cfg.Todos.From, "start of the range, an anchor such as today or 2024-01-15")
	to := fs.String("to", a.cfg.Todos.To, "end of the range, an anchor such as 7d or tomorrow")
	if err := fs.Parse(args); err != nil {
		return exitUsage, err
	}
	fromAnchor, err := datetime.ParseAnchor(*from)
	if err != nil {
		return exitUsage, errors.Wrap(err, "-from")
	}
	toAnchor, err := datetime.ParseAnchor(*to)
	if err != nil {
		return exitUsage, errors.Wrap(err, "-to")
	}
	now := a.now().In(a.loc)
	start := fromAnchor.ResolveAtStartOfDay(now)
	end := toAnchor.ResolveSinceEndOfDay(start)
	a.log.WithFields(logrus.Fields{"from": start, "to": end}).Debug("todo range")

	srcs, err := a.readSources(fs.Args())
	if err != nil {
		return exitProblems, err
	}
	var lines []todoLine
	for _, src := range srcs {
		cals, diags := ics.Parse(src.text, a.parseOpts()...)
		a.renderDiagnostics(a.stderr, src, diags.Errors())
		for _, cal := range cals {
			for _, todo := range cal.Todos() {
				if todo.OverlapsTimeRange(start, end) {
					lines = append(lines, todoLine{todo: todo, state: a.todoState(todo, now)})
				}
			}
		}
	}
	for _, l := range lines {
		state := fmt.Sprintf("%-9s", l.state)
		if l.state == "overdue" {
			state = a.errorColor.Sprint(state)
		}
		fmt.Fprintf(a.stdout, "%s %s\n", state, a.describeTodo(l.todo, now))
	}
	return exitOK, nil
}

func (a *app) cmdNewTodo(args []string) (int, error) {
	fs := flag.NewFlagSet("new-todo", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	summary := fs.String("summary", "", "todo summary (required)")
	due := fs.String("due", "", "due anchor such as tomorrow, 18:00 or 2024-03-01")
	priority := fs.Int("priority", 0, "priority 1 (highest) to 9, 0 for none")
	if err := fs.Parse(args); err != nil {
		return exitUsage, err
	}
	if *summary == "" {
		return exitUsage, errors.New("-summary is required")
	}
	if *priority < 0 || *priority > 9 {
		return exitUsage, errors.Errorf("priority %d is outside 0..9", *priority)
	}
	now := a.now().In(a.loc)
	cal := ics.NewCalendarFor(a.cfg.Service)
	todo := ics.NewTodo(uuid.New().String(), now)
	todo.SetSummary(*summary)
	todo.SetStatus(ics.ObjectStatusNeedsAction)
	if *due != "" {
		anchor, err := datetime.ParseAnchor(*due)
		if err != nil {
			return exitUsage, errors.Wrap(err, "-due")
		}
		todo.Due = &ics.Prop[ics.DateTime]{Value: ics.DateTimeFromLoose(anchor.ResolveAtSuggestedTime(now))}
	}
	if *priority > 0 {
		todo.SetPriority(*priority)
	}
	cal.Add(todo)
	if err := cal.SerializeTo(a.stdout, a.serializeOps()...); err != nil {
		return exitProblems, errors.Wrap(err, "writing todo")
	}
	return exitOK, nil
}
