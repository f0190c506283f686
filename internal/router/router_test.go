package router

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierForItem_Classification(t *testing.T) {
	assert.Equal(t, TierSimple, TierForItem(5))
	assert.Equal(t, TierSimple, TierForItem(6))
	assert.Equal(t, TierSimple, TierForItem(7))
	assert.Equal(t, TierComplex, TierForItem(19))
	assert.Equal(t, TierComplex, TierForItem(21))
	assert.Equal(t, TierMedium, TierForItem(20))
	assert.Equal(t, TierMedium, TierForItem(1))
}

func TestFallbackChain_SimpleItemPrefersLocalFirst(t *testing.T) {
	r := NewRouter(DefaultConfig(), nil)
	chain := r.FallbackChain(5)
	require.Len(t, chain, 3)
	assert.Equal(t, HandleLocal, chain[0])
}

func TestFallbackChain_ComplexItemPrefersHostedAFirst(t *testing.T) {
	r := NewRouter(DefaultConfig(), nil)
	chain := r.FallbackChain(19)
	require.Len(t, chain, 3)
	assert.Equal(t, HandleHostedA, chain[0])
}

func TestFallbackChain_SkipsUnavailableHandle(t *testing.T) {
	r := NewRouter(DefaultConfig(), map[ModelHandle]bool{HandleHostedB: false})
	chain := r.FallbackChain(20)
	assert.NotContains(t, chain, HandleHostedB)
	assert.Len(t, chain, 2)
}

func TestFallbackChain_SkipsHandleWithOpenBreaker(t *testing.T) {
	cfg := Config{MaxConcurrent: 5, CircuitBreaker: CircuitBreakerConfig{FailureThreshold: 1, CoolOff: time.Hour}}
	r := NewRouter(cfg, nil)
	r.RecordFailure(HandleLocal)

	chain := r.FallbackChain(5)
	assert.NotContains(t, chain, HandleLocal)
}

func TestFallbackChain_BreakerRecoversAfterSuccess(t *testing.T) {
	cfg := Config{MaxConcurrent: 5, CircuitBreaker: CircuitBreakerConfig{FailureThreshold: 1, CoolOff: time.Hour}}
	r := NewRouter(cfg, nil)
	r.RecordFailure(HandleLocal)
	r.RecordSuccess(HandleLocal)

	chain := r.FallbackChain(5)
	assert.Contains(t, chain, HandleLocal)
}

func TestAcquireRelease_GatesConcurrency(t *testing.T) {
	r := NewRouter(Config{MaxConcurrent: 1, CircuitBreaker: DefaultCircuitBreakerConfig()}, nil)
	ctx := context.Background()

	require.NoError(t, r.Acquire(ctx))

	ctx2, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := r.Acquire(ctx2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	r.Release()
	require.NoError(t, r.Acquire(ctx))
	r.Release()
}

func TestSetAvailability_RemovesAndRestoresHandle(t *testing.T) {
	r := NewRouter(DefaultConfig(), nil)
	r.SetAvailability(HandleHostedA, false)
	assert.NotContains(t, r.FallbackChain(19), HandleHostedA)

	r.SetAvailability(HandleHostedA, true)
	assert.Contains(t, r.FallbackChain(19), HandleHostedA)
}
