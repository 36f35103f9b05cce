package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextBackoff(t *testing.T) {
	tests := []struct {
		current  time.Duration
		ceiling  time.Duration
		expected time.Duration
	}{
		{200 * time.Millisecond, 5 * time.Second, 400 * time.Millisecond},
		{3 * time.Second, 5 * time.Second, 5 * time.Second},
		{5 * time.Second, 5 * time.Second, 5 * time.Second},
		{200 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.current.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, nextBackoff(tt.current, tt.ceiling))
		})
	}
}

func TestSleepWithContext(t *testing.T) {
	assert.True(t, sleepWithContext(context.Background(), time.Millisecond))
	assert.True(t, sleepWithContext(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleepWithContext(ctx, time.Hour))
	assert.False(t, sleepWithContext(ctx, 0))
}
