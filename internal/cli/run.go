package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-ymlgen"
	"github.com/goliatone/go-ymlgen/internal/ctxlog"
	"github.com/goliatone/go-ymlgen/internal/prompt"
	"github.com/goliatone/go-ymlgen/pkg/directive"
	"github.com/goliatone/go-ymlgen/pkg/hooks"
	"github.com/goliatone/go-ymlgen/pkg/orchestrator"
	"github.com/goliatone/go-ymlgen/pkg/render"
	"github.com/goliatone/go-ymlgen/pkg/source"
	"github.com/goliatone/go-ymlgen/pkg/writer"
)

// RunOption customises Run, mostly for tests.
type RunOption func(*runner)

// WithPrompt replaces the terminal prompt driver used in interactive mode.
func WithPrompt(driver prompt.Driver) RunOption {
	return func(r *runner) {
		r.prompt = driver
	}
}

// WithRegistry replaces the built-in generator registry.
func WithRegistry(registry *render.Registry) RunOption {
	return func(r *runner) {
		r.registry = registry
	}
}

// WithHookOptions adds options to every hook runner.
func WithHookOptions(options ...hooks.Option) RunOption {
	return func(r *runner) {
		r.hookOptions = append(r.hookOptions, options...)
	}
}

type runner struct {
	cfg         *Config
	logger      *slog.Logger
	prompt      prompt.Driver
	registry    *render.Registry
	hookOptions []hooks.Option
	orch        *orchestrator.Orchestrator
}

// Run processes every data file matched by cfg.Patterns. Files are handled
// concurrently and independently; the returned ExitError reports how many
// failed.
func Run(ctx context.Context, cfg *Config, logger *slog.Logger, options ...RunOption) error {
	r := &runner{cfg: cfg, logger: logger}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.registry == nil {
		r.registry = ymlgen.BuiltinGenerators()
	}
	if r.prompt == nil && cfg.Interactive {
		r.prompt = prompt.NewSurvey()
	}
	ctx = ctxlog.WithLogger(ctx, r.logger)

	files, err := Expand(cfg.Patterns)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if cfg.Interactive {
		files, err = prompt.SelectFiles(ctx, r.prompt, files)
		if err != nil {
			return &ExitError{Code: 130, Message: err.Error()}
		}
	}
	if len(files) == 0 {
		r.logger.Warn("no files matched", "patterns", cfg.Patterns)
		return nil
	}

	if err := r.buildOrchestrator(); err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	var processed, failed atomic.Int32
	var group errgroup.Group
	limit := cfg.Concurrency
	if cfg.Interactive {
		limit = 1
	}
	group.SetLimit(max(limit, 1))
	for _, file := range files {
		group.Go(func() error {
			ok, ran := r.processFile(ctx, file)
			if ran {
				processed.Add(1)
			}
			if !ok {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = group.Wait()

	r.logger.Info("done", "files", processed.Load(), "failed", failed.Load())
	if n := failed.Load(); n > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%d of %d data files failed", n, processed.Load())}
	}
	return nil
}

func (r *runner) buildOrchestrator() error {
	resolver, err := ymlgen.NewResolver(r.registry, r.cfg.GeneratorsDir)
	if err != nil {
		return err
	}

	var loaderOpts []source.LoaderOption
	if r.cfg.AllowHTTP {
		loaderOpts = append(loaderOpts, source.WithHTTPFallback(r.cfg.HTTPTimeout))
	}

	fsWriter := writer.New(
		writer.WithUnchangedSkip(true),
		writer.WithOnSkipped(func(path string) {
			r.logger.Info("output unchanged or kept", "path", path)
		}),
	)

	r.orch = orchestrator.New(
		orchestrator.WithResolver(resolver),
		orchestrator.WithMergeReader(ymlgen.NewMergeReader(loaderOpts...)),
		orchestrator.WithWriter(fsWriter),
		orchestrator.WithLogger(r.logger),
	)
	return nil
}

// processFile reports whether the file succeeded and whether it was a data
// file at all.
func (r *runner) processFile(ctx context.Context, file string) (ok, ran bool) {
	logger := r.logger.With("data_file", file)

	content, err := os.ReadFile(file)
	if err != nil {
		logger.Error("read failed", "error", err)
		return false, true
	}
	if !r.orch.IsDataFile(string(content)) {
		logger.Debug("not a data file, skipping")
		return true, false
	}

	outcome := r.orch.Process(ctx, orchestrator.Request{
		DataFile: file,
		FileName: ymlgen.BaseName(file),
		Content:  string(content),
	})
	if outcome.Failed() {
		logger.Error("generation failed", "error", outcome.Err)
	}

	if err := r.runHooks(ctx, file, outcome); err != nil {
		logger.Error("hook failed", "error", err)
		return false, true
	}
	return !outcome.Failed(), true
}

func (r *runner) runHooks(ctx context.Context, file string, outcome orchestrator.Outcome) error {
	if r.cfg.NoHooks || outcome.Hooks == (directive.Hooks{}) {
		return nil
	}
	if r.cfg.Interactive {
		run, err := prompt.ConfirmHooks(ctx, r.prompt, file, hookCommands(outcome))
		if err != nil || !run {
			return err
		}
	}

	res := hooks.Result{
		DataFile: file,
		Outputs:  outcome.Outputs,
		Failed:   outcome.Failed(),
	}
	if outcome.Err != nil {
		res.Error = outcome.Err.Error()
	}
	options := append([]hooks.Option{
		hooks.WithDir(filepath.Dir(file)),
		hooks.WithEnv("YMLGEN_DATA_FILE=" + file),
	}, r.hookOptions...)
	return hooks.New(options...).RunOutcome(ctx, outcome.Hooks, res)
}

// hookCommands lists the hooks that will run for outcome, in run order.
func hookCommands(outcome orchestrator.Outcome) []string {
	first := outcome.OnSuccess
	if outcome.Failed() {
		first = outcome.OnFail
	}
	var commands []string
	for _, command := range []string{first, outcome.OnDone} {
		if strings.TrimSpace(command) != "" {
			commands = append(commands, command)
		}
	}
	return commands
}
