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

import "context"

// RateLimiter is the single capability both rate-limiting algorithms
// implement: try to debit tokens from resource's budget, using conn for
// the one atomic script evaluation the decision requires.
type RateLimiter interface {
	// Acquire attempts to debit tokens from resource's budget.
	//
	// Returns an AcquireResult with Accepted true when the debit succeeded,
	// or Accepted false ("throttled") when the rule denied the request. An
	// error is returned only for InternalError (store/transport/script
	// failures); rule-construction errors never occur here.
	Acquire(ctx context.Context, resource string, tokens uint64, conn Conn) (AcquireResult, error)
}

// RuleKind identifies which algorithm a Rule wraps.
type RuleKind int

const (
	// RuleKindTokenBucket identifies a step-refill token bucket rule.
	RuleKindTokenBucket RuleKind = iota
	// RuleKindFixedWindow identifies a discrete-window fixed window rule.
	RuleKindFixedWindow
)

func (k RuleKind) String() string {
	switch k {
	case RuleKindTokenBucket:
		return "TokenBucket"
	case RuleKindFixedWindow:
		return "FixedWindow"
	default:
		return "Unknown"
	}
}

// Rule is a closed sum over {TokenBucket, FixedWindow}, for callers that
// hold a single polymorphic rule value and dispatch on policy at the call
// site rather than on interface satisfaction alone.
type Rule struct {
	kind        RuleKind
	tokenBucket TokenBucket
	fixedWindow FixedWindow
}

// NewTokenBucketRule wraps a TokenBucket rule as a polymorphic Rule.
func NewTokenBucketRule(tb TokenBucket) Rule {
	return Rule{kind: RuleKindTokenBucket, tokenBucket: tb}
}

// NewFixedWindowRule wraps a FixedWindow rule as a polymorphic Rule.
func NewFixedWindowRule(fw FixedWindow) Rule {
	return Rule{kind: RuleKindFixedWindow, fixedWindow: fw}
}

// Kind reports which algorithm this Rule wraps.
func (r Rule) Kind() RuleKind {
	return r.kind
}

// TokenBucket returns the wrapped TokenBucket rule and true, or the zero
// value and false if this Rule wraps a different algorithm.
func (r Rule) TokenBucket() (TokenBucket, bool) {
	return r.tokenBucket, r.kind == RuleKindTokenBucket
}

// FixedWindow returns the wrapped FixedWindow rule and true, or the zero
// value and false if this Rule wraps a different algorithm.
func (r Rule) FixedWindow() (FixedWindow, bool) {
	return r.fixedWindow, r.kind == RuleKindFixedWindow
}

// Acquire dispatches to the wrapped rule's own Acquire implementation.
func (r Rule) Acquire(ctx context.Context, resource string, tokens uint64, conn Conn) (AcquireResult, error) {
	switch r.kind {
	case RuleKindTokenBucket:
		return r.tokenBucket.Acquire(ctx, resource, tokens, conn)
	case RuleKindFixedWindow:
		return r.fixedWindow.Acquire(ctx, resource, tokens, conn)
	default:
		return AcquireResult{}, newInternalError("rule has no algorithm set", nil)
	}
}

var (
	_ RateLimiter = Rule{}
	_ RateLimiter = TokenBucket{}
	_ RateLimiter = FixedWindow{}
)
