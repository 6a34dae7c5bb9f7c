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

// Package arret is a distributed rate-limiting library backed by a
// Redis-compatible store with server-side Lua scripting.
//
// Two algorithms are provided, TokenBucket and FixedWindow, both
// implementing the single-method RateLimiter interface:
//
//	tb, err := arret.NewTokenBucket(10, refillInterval, 10)
//	result, err := tb.Acquire(ctx, "user:42", 1, redisClient)
//
// Every call to Acquire performs at most one atomic script evaluation
// against the store; the library holds no client-side cache of remaining
// tokens and never retries on its own. *redis.Client from
// github.com/go-redis/redis/v8 satisfies the Conn capability directly.
//
// Correctness depends on the store evaluating each script atomically.
// TokenBucket trusts the caller's clock (passed as a script argument) and
// tolerates drift by clamping to capacity; FixedWindow instead reads the
// store's own clock via a TIME command before each script evaluation, so
// window boundaries agree across every client regardless of local clock
// skew.
package arret
