package interactive

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
	"github.com/trebuchet-org/starkswap/internal/usecase"
)

// ConfirmAdapter asks yes/no questions on the terminal
type ConfirmAdapter struct {
	config *config.RuntimeConfig
	prompt func(label string) (string, error)
}

// NewConfirmAdapter creates a new confirm adapter
func NewConfirmAdapter(cfg *config.RuntimeConfig) *ConfirmAdapter {
	return &ConfirmAdapter{
		config: cfg,
		prompt: func(label string) (string, error) {
			p := promptui.Prompt{
				Label:     label,
				IsConfirm: true,
			}
			return p.Run()
		},
	}
}

// Confirm returns true when the user accepts. Non-interactive runs are
// always confirmed.
func (c *ConfirmAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.config.NonInteractive {
		return true, nil
	}

	_, err := c.prompt(prompt)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	case errors.Is(err, promptui.ErrInterrupt):
		return false, fmt.Errorf("confirmation interrupted: %w", err)
	default:
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
}

var _ usecase.Confirmer = (*ConfirmAdapter)(nil)
