package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/jsamuelsen/go-github-issues/github"
)

// env is what a command needs to run.
type env struct {
	client *github.Client
	owner  string
	repo   string
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	run func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"list":     {run: runList},
	"get":      {run: runGet},
	"create":   {run: runCreate},
	"edit":     {run: runEdit},
	"close":    {run: setState("closed")},
	"reopen":   {run: setState("open")},
	"comment":  {run: runComment},
	"comments": {run: runComments},
	"label":    {run: runLabel},
	"unlabel":  {run: runUnlabel},
}

func runList(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("list", e)
	state := fs.String("state", "open", "open, closed or all")
	labels := fs.String("labels", "", "comma separated label names")
	assignee := fs.String("assignee", "", "login, none or *")
	sort := fs.String("sort", "", "created, updated or comments")
	direction := fs.String("direction", "", "asc or desc")
	page := fs.Int("page", 0, "page number")
	perPage := fs.Int("per-page", 0, "results per page, at most 100")

	if err := parse(fs, args, 0); err != nil {
		return err
	}

	params := github.Params{"state": *state}
	setIf(params, "labels", *labels)
	setIf(params, "assignee", *assignee)
	setIf(params, "sort", *sort)
	setIf(params, "direction", *direction)

	var opts *github.ListOptions
	if *page > 0 || *perPage > 0 {
		opts = &github.ListOptions{Page: *page, PerPage: *perPage}
	}

	issues, err := e.client.Issues.ListForRepo(ctx, e.owner, e.repo, params, opts)
	if err != nil {
		return err
	}

	return writeJSON(e.stdout, issues)
}

// runGet prints one issue, or a list when several numbers are given.
func runGet(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("get", e)
	if err := parse(fs, args, -1); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: get needs at least one issue number", errUsage)
	}

	numbers := make([]int64, 0, fs.NArg())
	for _, arg := range fs.Args() {
		number, err := issueNumber(arg)
		if err != nil {
			return err
		}
		numbers = append(numbers, number)
	}

	if len(numbers) == 1 {
		issue, err := e.client.Issues.Get(ctx, e.owner, e.repo, numbers[0])
		if err != nil {
			return err
		}
		return writeJSON(e.stdout, issue)
	}

	issues, err := e.client.Issues.GetMany(ctx, e.owner, e.repo, numbers...)
	if err != nil {
		return err
	}

	return writeJSON(e.stdout, issues)
}

func runCreate(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("create", e)
	fields := addIssueFlags(fs)
	if err := parse(fs, args, 0); err != nil {
		return err
	}

	issue, err := e.client.Issues.Create(ctx, e.owner, e.repo, fields.params(fs))
	if err != nil {
		return err
	}

	return writeJSON(e.stdout, issue)
}

func runEdit(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("edit", e)
	fields := addIssueFlags(fs)
	state := fs.String("state", "", "open or closed")
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	number, err := issueNumber(fs.Arg(0))
	if err != nil {
		return err
	}

	params := fields.params(fs)
	setIf(params, "state", *state)

	issue, err := e.client.Issues.Edit(ctx, e.owner, e.repo, number, params)
	if err != nil {
		return err
	}

	return writeJSON(e.stdout, issue)
}

func setState(state string) func(context.Context, *env, []string) error {
	return func(ctx context.Context, e *env, args []string) error {
		fs := newFlagSet(state, e)
		if err := parse(fs, args, 1); err != nil {
			return err
		}

		number, err := issueNumber(fs.Arg(0))
		if err != nil {
			return err
		}

		issue, err := e.client.Issues.Edit(ctx, e.owner, e.repo, number, github.Params{"state": state})
		if err != nil {
			return err
		}

		return writeJSON(e.stdout, issue)
	}
}

func runComment(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("comment", e)
	body := fs.StringP("body", "b", "", "comment text")
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	number, err := issueNumber(fs.Arg(0))
	if err != nil {
		return err
	}

	params := github.Params{}
	setIf(params, "body", *body)

	comment, err := e.client.Issues.Comments.Create(ctx, e.owner, e.repo, number, params)
	if err != nil {
		return err
	}

	return writeJSON(e.stdout, comment)
}

func runComments(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("comments", e)
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	number, err := issueNumber(fs.Arg(0))
	if err != nil {
		return err
	}

	comments, err := e.client.Issues.Comments.List(ctx, e.owner, e.repo, number, nil)
	if err != nil {
		return err
	}

	return writeJSON(e.stdout, comments)
}

func runLabel(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("label", e)
	if err := parse(fs, args, -1); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("%w: label needs an issue number and at least one label", errUsage)
	}

	number, err := issueNumber(fs.Arg(0))
	if err != nil {
		return err
	}

	labels, err := e.client.Issues.Labels.AddToIssue(ctx, e.owner, e.repo, number, fs.Args()[1:]...)
	if err != nil {
		return err
	}

	return writeJSON(e.stdout, labels)
}

func runUnlabel(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("unlabel", e)
	if err := parse(fs, args, 2); err != nil {
		return err
	}

	number, err := issueNumber(fs.Arg(0))
	if err != nil {
		return err
	}

	labels, err := e.client.Issues.Labels.RemoveFromIssue(ctx, e.owner, e.repo, number, fs.Arg(1))
	if err != nil {
		return err
	}

	return writeJSON(e.stdout, labels)
}

// issueFlags are shared by create and edit.
type issueFlags struct {
	title     *string
	body      *string
	milestone *int64
	labels    *[]string
	assignees *[]string
}

func addIssueFlags(fs *pflag.FlagSet) *issueFlags {
	return &issueFlags{
		title:     fs.StringP("title", "t", "", "issue title"),
		body:      fs.StringP("body", "b", "", "issue body"),
		milestone: fs.Int64("milestone", 0, "milestone number"),
		labels:    fs.StringSliceP("label", "l", nil, "label name, repeatable"),
		assignees: fs.StringSliceP("assignee", "a", nil, "assignee login, repeatable"),
	}
}

// params includes only flags that were given, so edit leaves the rest alone.
func (f *issueFlags) params(fs *pflag.FlagSet) github.Params {
	params := github.Params{}

	if fs.Changed("title") {
		params["title"] = *f.title
	}
	if fs.Changed("body") {
		params["body"] = *f.body
	}
	if fs.Changed("milestone") {
		params["milestone"] = *f.milestone
	}
	if fs.Changed("label") {
		params["labels"] = *f.labels
	}
	if fs.Changed("assignee") {
		params["assignees"] = *f.assignees
	}

	return params
}

func newFlagSet(name string, e *env) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// parse parses args and checks the positional count; -1 skips the check.
func parse(fs *pflag.FlagSet, args []string, positional int) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %w", errUsage, fs.Name(), err)
	}
	if positional >= 0 && fs.NArg() != positional {
		return fmt.Errorf("%w: %s takes %d argument(s), got %d", errUsage, fs.Name(), positional, fs.NArg())
	}
	return nil
}

func issueNumber(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: invalid issue number %q", errUsage, s)
	}
	return n, nil
}

func setIf(params github.Params, key, value string) {
	if value != "" {
		params[key] = value
	}
}

// writeJSON writes v indented. Records keep the key order of the API response.
func writeJSON(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	out.WriteByte('\n')

	_, err = out.WriteTo(w)
	return err
}
