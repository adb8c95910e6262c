package interactive

import (
	"context"
	"errors"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starkswap/internal/domain/config"
)

func TestConfirmAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("non-interactive never prompts", func(t *testing.T) {
		c := NewConfirmAdapter(&config.RuntimeConfig{NonInteractive: true})
		c.prompt = func(string) (string, error) {
			t.Fatal("prompted in non-interactive mode")
			return "", nil
		}
		ok, err := c.Confirm(ctx, "Deploy to sharingan?")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	tests := []struct {
		name    string
		err     error
		want    bool
		wantErr bool
	}{
		{name: "accepted", err: nil, want: true},
		{name: "declined", err: promptui.ErrAbort, want: false},
		{name: "interrupted", err: promptui.ErrInterrupt, wantErr: true},
		{name: "broken terminal", err: errors.New("EOF"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfirmAdapter(&config.RuntimeConfig{})
			var label string
			c.prompt = func(l string) (string, error) {
				label = l
				return "", tt.err
			}

			ok, err := c.Confirm(ctx, "Deploy to sharingan?")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, "Deploy to sharingan?", label)
		})
	}
}
