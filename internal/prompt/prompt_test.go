package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/go-cmp/cmp"
)

type stubDriver struct {
	picked    []int
	confirm   bool
	err       error
	choice    Choice
	question  Question
	questions int
}

func (s *stubDriver) Confirm(_ context.Context, q Question) (bool, error) {
	s.question = q
	s.questions++
	return s.confirm, s.err
}

func (s *stubDriver) MultiSelect(_ context.Context, c Choice) ([]int, error) {
	s.choice = c
	return s.picked, s.err
}

func TestSelectFiles(t *testing.T) {
	driver := &stubDriver{picked: []int{2, 0, 7}}
	files := []string{"a.yml", "b.yml", "c.yml"}

	got, err := SelectFiles(context.Background(), driver, files)
	if err != nil {
		t.Fatalf("SelectFiles: %v", err)
	}
	if diff := cmp.Diff([]string{"c.yml", "a.yml"}, got); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, driver.choice.Selected); diff != "" {
		t.Fatalf("preselection mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(files, driver.choice.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectFilesErrors(t *testing.T) {
	driver := &stubDriver{err: ErrAborted}
	if _, err := SelectFiles(context.Background(), driver, []string{"a.yml"}); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if got, err := SelectFiles(context.Background(), driver, nil); got != nil || err != nil {
		t.Fatalf("expected no prompt for empty input, got %v %v", got, err)
	}
}

func TestConfirmHooks(t *testing.T) {
	t.Run("asks with the commands as help", func(t *testing.T) {
		driver := &stubDriver{confirm: false}
		run, err := ConfirmHooks(context.Background(), driver, "conf/app.yml", []string{"make build", "echo done"})
		if err != nil {
			t.Fatalf("ConfirmHooks: %v", err)
		}
		if run {
			t.Fatalf("declined confirmation must not run hooks")
		}
		want := Question{
			Message: "Run hooks for conf/app.yml?",
			Help:    "make build\necho done",
			Default: true,
		}
		if diff := cmp.Diff(want, driver.question); diff != "" {
			t.Fatalf("question mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nothing to confirm", func(t *testing.T) {
		driver := &stubDriver{}
		run, err := ConfirmHooks(context.Background(), driver, "app.yml", nil)
		if err != nil || !run {
			t.Fatalf("expected run without asking, got %v %v", run, err)
		}
		if driver.questions != 0 {
			t.Fatalf("driver must not be asked, got %d questions", driver.questions)
		}
	})

	t.Run("abort", func(t *testing.T) {
		driver := &stubDriver{err: ErrAborted}
		if _, err := ConfirmHooks(context.Background(), driver, "app.yml", []string{"x"}); !errors.Is(err, ErrAborted) {
			t.Fatalf("expected ErrAborted, got %v", err)
		}
	})
}

func TestSurveyDriverHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	driver := NewSurvey()
	if _, err := driver.Confirm(ctx, Question{Message: "ok?"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Confirm: expected context.Canceled, got %v", err)
	}
	if _, err := driver.MultiSelect(ctx, Choice{Options: []string{"a"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("MultiSelect: expected context.Canceled, got %v", err)
	}
}

func TestInterrupted(t *testing.T) {
	if !errors.Is(interrupted(terminal.InterruptErr), ErrAborted) {
		t.Fatalf("interrupt must map to ErrAborted")
	}
	other := errors.New("other")
	if interrupted(other) != other {
		t.Fatalf("other errors must pass through")
	}
}

func TestPick(t *testing.T) {
	options := []string{"a", "b", "c"}
	if diff := cmp.Diff([]string{"b", "a"}, pick(options, []int{1, 9, -1, 0})); diff != "" {
		t.Fatalf("pick mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{}, pick(options, nil)); diff != "" {
		t.Fatalf("pick of nothing mismatch (-want +got):\n%s", diff)
	}
}
