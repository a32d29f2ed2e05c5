// Package prompt holds the interactive parts of the ymlgen CLI: choosing
// which matched data files to process and confirming hook commands before
// they run. The terminal side is survey; tests substitute a Driver.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the user interrupts a prompt with Ctrl+C.
var ErrAborted = errors.New("prompt: aborted")

// Question is a yes/no prompt.
type Question struct {
	Message string
	Help    string
	Default bool
}

// Choice is a multi-select prompt over Options. Selected holds the indices
// checked when the prompt opens.
type Choice struct {
	Message  string
	Help     string
	Options  []string
	Selected []int
	PageSize int
}

// Driver asks questions. The CLI uses NewSurvey; tests use stubs.
type Driver interface {
	Confirm(ctx context.Context, q Question) (bool, error)
	MultiSelect(ctx context.Context, c Choice) ([]int, error)
}

// NewSurvey returns a Driver on the terminal. opts reach every survey.AskOne
// call, e.g. survey.WithStdio in tests.
func NewSurvey(opts ...survey.AskOpt) Driver {
	return &surveyDriver{opts: opts}
}

type surveyDriver struct {
	opts []survey.AskOpt
}

func (d *surveyDriver) Confirm(ctx context.Context, q Question) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	answer := q.Default
	err := survey.AskOne(&survey.Confirm{Message: q.Message, Help: q.Help, Default: q.Default}, &answer, d.opts...)
	if err != nil {
		return false, interrupted(err)
	}
	return answer, nil
}

func (d *surveyDriver) MultiSelect(ctx context.Context, c Choice) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(c.Options) == 0 {
		return nil, nil
	}
	ms := &survey.MultiSelect{
		Message:  c.Message,
		Help:     c.Help,
		Options:  c.Options,
		PageSize: c.PageSize,
	}
	if len(c.Selected) > 0 {
		ms.Default = pick(c.Options, c.Selected)
	}
	var answer []int
	if err := survey.AskOne(ms, &answer, d.opts...); err != nil {
		return nil, interrupted(err)
	}
	return answer, nil
}

// SelectFiles asks which of files to process, all of them checked by
// default, and returns the chosen ones in the order the driver reported.
func SelectFiles(ctx context.Context, driver Driver, files []string) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	all := make([]int, len(files))
	for i := range files {
		all[i] = i
	}
	chosen, err := driver.MultiSelect(ctx, Choice{
		Message:  "Data files to process",
		Help:     "Unchecked files are left alone; their outputs are not regenerated.",
		Options:  files,
		Selected: all,
		PageSize: 15,
	})
	if err != nil {
		return nil, err
	}
	return pick(files, chosen), nil
}

// ConfirmHooks asks whether the hook commands of dataFile may run. No
// commands means nothing to confirm.
func ConfirmHooks(ctx context.Context, driver Driver, dataFile string, commands []string) (bool, error) {
	if len(commands) == 0 {
		return true, nil
	}
	return driver.Confirm(ctx, Question{
		Message: fmt.Sprintf("Run hooks for %s?", dataFile),
		Help:    strings.Join(commands, "\n"),
		Default: true,
	})
}

func interrupted(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// pick returns values[i] for every in-range index, in index order given.
func pick(values []string, indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(values) {
			out = append(out, values[i])
		}
	}
	return out
}
