package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffSucceedsFirstTry(t *testing.T) {
	bo := NewBackoff(time.Millisecond, 3)
	attempts := 0
	err := bo.Do(context.Background(), func(int) error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestBackoffRetriesUntilSuccess(t *testing.T) {
	bo := NewBackoff(time.Millisecond, 3)
	attempts := 0
	err := bo.Do(context.Background(), func(int) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestBackoffExhaustsRetries(t *testing.T) {
	bo := NewBackoff(time.Millisecond, 2)
	boom := errors.New("boom")
	attempts := 0
	err := bo.Do(context.Background(), func(int) error {
		attempts++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
}

func TestBackoffHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bo := NewBackoff(time.Second, 5)
	attempts := 0
	err := bo.Do(ctx, func(int) error {
		attempts++
		return errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestNewBackoffClampsArguments(t *testing.T) {
	bo := NewBackoff(-1, -1)
	// still runs exactly once
	attempts := 0
	_ = bo.Do(context.Background(), func(int) error {
		attempts++
		return errors.New("x")
	})
	assert.Equal(t, 1, attempts)
}
