/*
Copyright The Arret Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package arret

import (
	"context"
	"fmt"
	"time"
)

// tokenBucketScript implements the step-refill token bucket
// algorithm: a bucket starts full and refills by a fixed amount every
// fixed interval, in discrete steps rather than continuously, and a
// request succeeds when the bucket (after applying any refills due)
// holds at least the number of tokens requested.
//
// Unlike a server-clock design, now_seconds is supplied by the caller
// (ARGV[1]): correctness depends on client clocks being monotonic and
// reasonably synchronized with each other. last_refill_ts only ever
// advances by whole refill_interval_seconds steps, so fractional elapsed
// time accumulates across calls instead of being discarded.
//
// A request for zero tokens is a pure probe: it reports the bucket's
// current state without writing anything back, even if refills would
// otherwise have applied.
//
// Returns a 3-element array {accepted (0 or 1), tokens_remaining, reset}.
// Lua's `false` is returned to the client as a Redis nil bulk reply, which
// would truncate this array, so acceptance is encoded as an integer.
const tokenBucketScript = `
local key = KEYS[1]
local now_seconds = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_interval_seconds = tonumber(ARGV[3])
local refill_amount = tonumber(ARGV[4])
local requested_tokens = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ts')
local tokens = tonumber(state[1])
local last_refill_ts = tonumber(state[2])
if tokens == nil or last_refill_ts == nil then
	tokens = capacity
	last_refill_ts = now_seconds
end

local elapsed = math.max(0, now_seconds - last_refill_ts)
local steps = math.floor(elapsed / refill_interval_seconds)

local tokens_now = math.min(capacity, tokens + steps * refill_amount)
local new_last_refill_ts = last_refill_ts + steps * refill_interval_seconds
local reset = new_last_refill_ts + refill_interval_seconds

if requested_tokens == 0 then
	return {1, tokens_now, reset}
end

local ttl = refill_interval_seconds * math.max(1, math.ceil(capacity / refill_amount))

if tokens_now >= requested_tokens then
	local tokens_after = tokens_now - requested_tokens
	redis.call('HSET', key, 'tokens', tokens_after, 'last_refill_ts', new_last_refill_ts)
	redis.call('EXPIRE', key, ttl)
	return {1, tokens_after, reset}
else
	redis.call('HSET', key, 'tokens', tokens_now, 'last_refill_ts', new_last_refill_ts)
	redis.call('EXPIRE', key, ttl)
	return {0, tokens_now, reset}
end
`

// TokenBucket is the step-refill rate-limiting algorithm: a bucket
// starts full with Capacity tokens and refills by RefillAmount every
// RefillInterval, in discrete steps rather than continuously.
type TokenBucket struct {
	capacity       uint64
	refillInterval Interval
	refillAmount   uint64
}

// NewTokenBucket creates a TokenBucket rule.
//
// capacity may be zero, meaning the rule always throttles. Returns
// InvalidRuleError if refillAmount is zero.
func NewTokenBucket(capacity uint64, refillInterval Interval, refillAmount uint64) (TokenBucket, error) {
	if refillAmount == 0 {
		return TokenBucket{}, &InvalidRuleError{Reason: "refill amount must be greater than zero"}
	}
	return TokenBucket{
		capacity:       capacity,
		refillInterval: refillInterval,
		refillAmount:   refillAmount,
	}, nil
}

// Capacity returns the bucket's maximum token count.
func (t TokenBucket) Capacity() uint64 { return t.capacity }

// RefillInterval returns the interval between refill steps.
func (t TokenBucket) RefillInterval() Interval { return t.refillInterval }

// RefillAmount returns the number of tokens added per refill step.
func (t TokenBucket) RefillAmount() uint64 { return t.refillAmount }

// Acquire attempts to debit tokens from resource's bucket.
//
// A request for zero tokens succeeds without any state change, except on
// a zero-capacity bucket, which throttles every request without
// contacting the store. A request for more tokens than Capacity always
// throttles, even against a full bucket.
func (t TokenBucket) Acquire(ctx context.Context, resource string, tokens uint64, conn Conn) (AcquireResult, error) {
	if t.capacity == 0 {
		return throttledResult(newQuota(0, 0, uint64(time.Now().Unix()))), nil
	}

	key := fmt.Sprintf("token_bucket:%s", resource)
	now := uint64(time.Now().Unix())

	cmd := conn.Eval(ctx, tokenBucketScript, []string{key},
		now, t.capacity, t.refillInterval.Seconds(), t.refillAmount, tokens)

	result, err := parseTokenBucketResult(cmd)
	if err != nil {
		return AcquireResult{}, newInternalError("token bucket script evaluation failed", err)
	}

	q := newQuota(t.capacity, result.tokensRemaining, result.reset)
	if result.accepted {
		return acceptedResult(q), nil
	}
	return throttledResult(q), nil
}

type tokenBucketResult struct {
	accepted        bool
	tokensRemaining uint64
	reset           uint64
}

func parseTokenBucketResult(cmd interface {
	Result() (interface{}, error)
}) (tokenBucketResult, error) {
	raw, err := cmd.Result()
	if err != nil {
		return tokenBucketResult{}, err
	}

	items, ok := raw.([]interface{})
	if !ok || len(items) != 3 {
		return tokenBucketResult{}, fmt.Errorf("arret: unexpected token bucket script result shape: %#v", raw)
	}

	accepted, err := toInt64(items[0])
	if err != nil {
		return tokenBucketResult{}, fmt.Errorf("arret: unexpected token bucket accepted flag: %w", err)
	}
	tokensRemaining, err := toInt64(items[1])
	if err != nil {
		return tokenBucketResult{}, fmt.Errorf("arret: unexpected token bucket remaining tokens: %w", err)
	}
	reset, err := toInt64(items[2])
	if err != nil {
		return tokenBucketResult{}, fmt.Errorf("arret: unexpected token bucket reset: %w", err)
	}

	return tokenBucketResult{
		accepted:        accepted == 1,
		tokensRemaining: uint64(tokensRemaining),
		reset:           uint64(reset),
	}, nil
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}
