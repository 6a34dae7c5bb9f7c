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

// AsyncAcquireResult is delivered on the channel returned by AcquireAsync:
// exactly one of Result or Err is meaningful, matching the (AcquireResult,
// error) pair Acquire returns synchronously.
type AsyncAcquireResult struct {
	Result AcquireResult
	Err    error
}

// AcquireAsync runs limiter.Acquire on a separate goroutine and delivers
// its outcome over the returned channel, which is always sent to exactly
// once and then closed.
//
// Go has a single concurrency paradigm rather than a distinct async/await
// coloring, so this is the idiomatic equivalent of a non-blocking
// acquire: the calling goroutine is free to do other work, or to select
// on the channel alongside ctx.Done(), while the round-trip happens on
// the spawned goroutine. Because it delegates to the same Acquire call a
// blocking caller would make, the two are interchangeable by
// construction: same rule, same resource, same store state, same result.
func AcquireAsync(ctx context.Context, limiter RateLimiter, resource string, tokens uint64, conn Conn) <-chan AsyncAcquireResult {
	ch := make(chan AsyncAcquireResult, 1)
	go func() {
		defer close(ch)
		result, err := limiter.Acquire(ctx, resource, tokens, conn)
		ch <- AsyncAcquireResult{Result: result, Err: err}
	}()
	return ch
}
