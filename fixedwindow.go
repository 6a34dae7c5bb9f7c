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
)

// fixedWindowScript implements the discrete-window fixed window algorithm:
// each non-overlapping window admits up to capacity units total, and a
// request is accepted only if the window's running count plus the
// requested amount does not exceed capacity.
//
// The window identifier is baked into KEYS[1] by the caller using the
// store's own clock (read via a separate TIME command before this script
// runs), not the client's clock: fixed windows require every client to
// agree on window boundaries, which only the store's clock can guarantee.
//
// A request for zero tokens is a pure probe: it reports the window's
// current count without creating the window key or refreshing its TTL.
//
// Returns a 2-element array {accepted (0 or 1), remaining_in_window}.
const fixedWindowScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local window_seconds = tonumber(ARGV[2])
local requested_tokens = tonumber(ARGV[3])

local current = tonumber(redis.call('GET', key)) or 0

if requested_tokens == 0 then
	return {1, capacity - current}
end

local new_count = current + requested_tokens

if new_count <= capacity then
	redis.call('SET', key, new_count, 'EX', window_seconds)
	return {1, capacity - new_count}
else
	return {0, capacity - current}
end
`

// FixedWindow is the discrete-window rate-limiting algorithm: each
// non-overlapping window of Window seconds admits up to Capacity units
// total, regardless of how requests are spaced within it.
type FixedWindow struct {
	capacity uint64
	window   Interval
}

// NewFixedWindow creates a FixedWindow rule. capacity may be zero, meaning
// the rule always throttles.
func NewFixedWindow(capacity uint64, window Interval) (FixedWindow, error) {
	return FixedWindow{capacity: capacity, window: window}, nil
}

// Capacity returns the window's maximum admitted units.
func (f FixedWindow) Capacity() uint64 { return f.capacity }

// Window returns the window length.
func (f FixedWindow) Window() Interval { return f.window }

// Acquire attempts to debit tokens from resource's current window.
//
// A request for zero tokens always succeeds without any state change.
// A request for more tokens than Capacity always throttles, even in a
// fresh window.
func (f FixedWindow) Acquire(ctx context.Context, resource string, tokens uint64, conn Conn) (AcquireResult, error) {
	windowSeconds := f.window.Seconds()

	serverNow, err := conn.Time(ctx).Result()
	if err != nil {
		return AcquireResult{}, newInternalError("failed to read store time", err)
	}

	windowID := uint64(serverNow.Unix()) / windowSeconds
	reset := (windowID + 1) * windowSeconds
	key := fmt.Sprintf("fixed_window:%s:%d", resource, windowID)

	cmd := conn.Eval(ctx, fixedWindowScript, []string{key}, f.capacity, windowSeconds, tokens)

	result, err := parseFixedWindowResult(cmd)
	if err != nil {
		return AcquireResult{}, newInternalError("fixed window script evaluation failed", err)
	}

	q := newQuota(f.capacity, result.remaining, reset)
	if result.accepted {
		return acceptedResult(q), nil
	}
	return throttledResult(q), nil
}

type fixedWindowResult struct {
	accepted  bool
	remaining uint64
}

func parseFixedWindowResult(cmd interface {
	Result() (interface{}, error)
}) (fixedWindowResult, error) {
	raw, err := cmd.Result()
	if err != nil {
		return fixedWindowResult{}, err
	}

	items, ok := raw.([]interface{})
	if !ok || len(items) != 2 {
		return fixedWindowResult{}, fmt.Errorf("arret: unexpected fixed window script result shape: %#v", raw)
	}

	accepted, err := toInt64(items[0])
	if err != nil {
		return fixedWindowResult{}, fmt.Errorf("arret: unexpected fixed window accepted flag: %w", err)
	}
	remaining, err := toInt64(items[1])
	if err != nil {
		return fixedWindowResult{}, fmt.Errorf("arret: unexpected fixed window remaining: %w", err)
	}

	return fixedWindowResult{
		accepted:  accepted == 1,
		remaining: uint64(remaining),
	}, nil
}
