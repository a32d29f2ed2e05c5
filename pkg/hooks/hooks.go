// Package hooks runs the lifecycle commands declared by data files through
// the success, fail and done directives.
//
// A command containing template syntax is rendered with go-template before
// it is split into words. The variables are data_file, outputs, failed and
// error:
//
//	# ymlgen:success prettier --write {{ outputs|join:" " }}
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	gotemplate "github.com/goliatone/go-template"
	"github.com/mattn/go-shellwords"

	"github.com/goliatone/go-ymlgen/internal/ctxlog"
	"github.com/goliatone/go-ymlgen/pkg/directive"
)

// ErrEmptyCommand is returned when a hook parses to no words.
var ErrEmptyCommand = errors.New("hooks: empty command")

// Executor starts one command. The default runs it with os/exec.
type Executor func(ctx context.Context, cmd Command) error

// Command is a parsed hook ready to execute.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// Option customises a Runner.
type Option func(*Runner)

// WithDir sets the working directory for hook commands.
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithOutput redirects command output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithEnv adds KEY=VALUE pairs to the command environment. They are also
// visible to $VAR expansion inside hook commands.
func WithEnv(env ...string) Option {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// WithExecutor replaces the process launcher.
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		r.exec = exec
	}
}

// Result is what hook templates see about the processed data file.
type Result struct {
	DataFile string   `json:"data_file"`
	Outputs  []string `json:"outputs"`
	Failed   bool     `json:"failed"`
	Error    string   `json:"error"`
}

// Runner executes hook commands.
type Runner struct {
	dir    string
	env    []string
	stdout io.Writer
	stderr io.Writer
	exec   Executor

	engineOnce sync.Once
	engine     *gotemplate.Engine
	engineErr  error
}

// New constructs a Runner.
func New(options ...Option) *Runner {
	r := &Runner{
		stdout: os.Stdout,
		stderr: os.Stderr,
		exec:   execCommand,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Parse splits a hook into words using shell quoting rules, then expands
// $VAR references in each word from the runner's env, falling back to the
// process env. Expanded values never split into further words.
func (r *Runner) Parse(command string) (Command, error) {
	words, err := shellwords.Parse(command)
	if err != nil {
		return Command{}, fmt.Errorf("hooks: parse %q: %w", command, err)
	}
	if len(words) == 0 {
		return Command{}, ErrEmptyCommand
	}
	for i, word := range words {
		words[i] = os.Expand(word, r.getenv)
	}
	return Command{
		Name:   words[0],
		Args:   words[1:],
		Dir:    r.dir,
		Env:    append(os.Environ(), r.env...),
		Stdout: r.stdout,
		Stderr: r.stderr,
	}, nil
}

// Run executes a single hook. An empty command does nothing.
func (r *Runner) Run(ctx context.Context, command string) error {
	if strings.TrimSpace(command) == "" {
		return nil
	}
	cmd, err := r.Parse(command)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("running hook", "command", cmd.Name, "args", cmd.Args)
	if err := r.exec(ctx, cmd); err != nil {
		return fmt.Errorf("hooks: %s: %w", cmd.Name, err)
	}
	return nil
}

// Render expands template syntax in command against res. Commands without
// "{{" or "{%" are returned as is. Output is never HTML escaped.
func (r *Runner) Render(command string, res Result) (string, error) {
	if !strings.Contains(command, "{{") && !strings.Contains(command, "{%") {
		return command, nil
	}
	r.engineOnce.Do(func() {
		dir := r.dir
		if dir == "" {
			dir = "."
		}
		r.engine, r.engineErr = gotemplate.NewRenderer(gotemplate.WithFS(os.DirFS(dir)))
	})
	if r.engineErr != nil {
		return "", fmt.Errorf("hooks: template engine: %w", r.engineErr)
	}
	out, err := r.engine.RenderString("{% autoescape off %}"+command+"{% endautoescape %}", res)
	if err != nil {
		return "", fmt.Errorf("hooks: render %q: %w", command, err)
	}
	return out, nil
}

// RunOutcome runs OnSuccess or OnFail depending on res.Failed, then OnDone.
// The done hook runs even when the first one fails; both errors are
// returned.
func (r *Runner) RunOutcome(ctx context.Context, hooks directive.Hooks, res Result) error {
	first := hooks.OnSuccess
	if res.Failed {
		first = hooks.OnFail
	}
	return errors.Join(r.runRendered(ctx, first, res), r.runRendered(ctx, hooks.OnDone, res))
}

func (r *Runner) runRendered(ctx context.Context, command string, res Result) error {
	command, err := r.Render(command, res)
	if err != nil {
		return err
	}
	return r.Run(ctx, command)
}

func (r *Runner) getenv(key string) string {
	prefix := key + "="
	for i := len(r.env) - 1; i >= 0; i-- {
		if strings.HasPrefix(r.env[i], prefix) {
			return strings.TrimPrefix(r.env[i], prefix)
		}
	}
	return os.Getenv(key)
}

func execCommand(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	return cmd.Run()
}
