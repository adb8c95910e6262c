package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// SpinnerProgressReporter prints one line per execution stage and a spinner
// for the step in flight
type SpinnerProgressReporter struct {
	out     io.Writer
	spinner *spinner.Spinner

	mu     sync.Mutex
	stages []stageInfo
}

type stageInfo struct {
	Stage     usecase.ExecutionStage
	StartTime time.Time
	EndTime   time.Time
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter() *SpinnerProgressReporter {
	return newSpinnerProgressReporter(os.Stdout)
}

func newSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:     out,
		spinner: s,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Stage == usecase.StageFailed {
		r.stopSpinner()
		if len(r.stages) > 0 && r.currentStage() != usecase.StageFailed {
			r.enterStage(event.Stage)
			fmt.Fprintln(r.out, r.trail())
		}
		return
	}

	if r.currentStage() != event.Stage {
		r.stopSpinner()
		r.enterStage(event.Stage)
		if event.Stage == usecase.StageDone {
			fmt.Fprintln(r.out, r.trail())
			return
		}
		if !event.Spinner {
			fmt.Fprintf(r.out, "%s %s\n", color.New(color.FgCyan, color.Bold).Sprint(stageTitle(event.Stage)), event.Message)
			return
		}
	}

	if event.Spinner {
		r.spinner.Suffix = " " + stepMessage(event)
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	} else {
		r.stopSpinner()
		if event.Message != "" {
			fmt.Fprintf(r.out, "  %s\n", event.Message)
		}
	}
}

// Info prints a notice, pausing the spinner around it
func (r *SpinnerProgressReporter) Info(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	color.New(color.FgCyan).Fprintf(r.out, "  %s\n", message)
	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerProgressReporter) stopSpinner() {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

func (r *SpinnerProgressReporter) currentStage() usecase.ExecutionStage {
	if len(r.stages) == 0 {
		return ""
	}
	return r.stages[len(r.stages)-1].Stage
}

func (r *SpinnerProgressReporter) enterStage(stage usecase.ExecutionStage) {
	now := time.Now()
	if n := len(r.stages); n > 0 {
		r.stages[n-1].EndTime = now
	}
	r.stages = append(r.stages, stageInfo{Stage: stage, StartTime: now})
}

// trail renders the completed stages, e.g. "✓ Declare (1.2s) → ✓ Deploy (3s)".
// The stage that was running when a run failed is marked with ✗.
func (r *SpinnerProgressReporter) trail() string {
	done := color.New(color.FgGreen)
	failed := color.New(color.FgRed)
	parts := make([]string, 0, len(r.stages))
	for i, stage := range r.stages {
		switch stage.Stage {
		case usecase.StageDone, usecase.StageFailed, usecase.StageConfigure:
			continue
		}
		duration := ""
		if !stage.EndTime.IsZero() {
			duration = fmt.Sprintf(" (%s)", stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond))
		}
		if i+1 < len(r.stages) && r.stages[i+1].Stage == usecase.StageFailed {
			parts = append(parts, fmt.Sprintf("✗ %s%s", failed.Sprint(stageTitle(stage.Stage)), duration))
			continue
		}
		parts = append(parts, fmt.Sprintf("✓ %s%s", done.Sprint(stageTitle(stage.Stage)), duration))
	}
	return strings.Join(parts, " → ")
}

func stageTitle(stage usecase.ExecutionStage) string {
	switch stage {
	case usecase.StageConfigure:
		return "Configure"
	case usecase.StageDeclare:
		return "Declare"
	case usecase.StageDeploy:
		return "Deploy"
	case usecase.StageBootstrap:
		return "Bootstrap"
	case usecase.StageSwap:
		return "Swap"
	case usecase.StageDone:
		return "Done"
	case usecase.StageFailed:
		return "Failed"
	default:
		return string(stage)
	}
}

func stepMessage(event usecase.ProgressEvent) string {
	if event.Total > 0 {
		return fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Message)
	}
	return event.Message
}

var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
