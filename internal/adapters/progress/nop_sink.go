package progress

import (
	"context"

	"github.com/fatih/color"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// NopSink is a no-op implementation of ProgressSink
type NopSink struct{}

// NewNopSink creates a new no-op progress sink
func NewNopSink() usecase.ProgressSink {
	return &NopSink{}
}

func (n *NopSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {}

func (n *NopSink) Info(message string) {}

// NewProgressSink picks the spinner for interactive terminals and stays
// silent for --json output or when stdout is not a terminal
func NewProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.JSON || cfg.NonInteractive || color.NoColor {
		return NewNopSink()
	}
	return NewSpinnerProgressReporter()
}

var _ usecase.ProgressSink = (*NopSink)(nil)
