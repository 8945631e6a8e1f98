package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huntline/huntline/internal/common"
)

func TestRetryPolicyRetriesOnlyTransientErrors(t *testing.T) {
	p := NewRetryPolicy(3)
	attempts := 0

	err := p.Run(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return common.Transient("test", errors.New("timeout"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryPolicyGivesUpOnNonTransientError(t *testing.T) {
	p := NewRetryPolicy(3)
	attempts := 0

	err := p.Run(context.Background(), func() error {
		attempts++
		return common.AdapterDrift("test", errors.New("selector rot"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryPolicyExhaustsMaxAttempts(t *testing.T) {
	p := NewRetryPolicy(2)
	p.InitialBackoff = 0
	attempts := 0

	err := p.Run(context.Background(), func() error {
		attempts++
		return common.Transient("test", errors.New("still down"))
	})

	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}
