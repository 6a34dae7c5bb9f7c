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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireAsync_MatchesSyncResult(t *testing.T) {
	interval, err := NewInterval(10)
	require.NoError(t, err)
	tb, err := NewTokenBucket(10, interval, 10)
	require.NoError(t, err)

	conn := &fakeConn{evalResult: []interface{}{int64(1), int64(9), int64(1234)}}

	syncResult, err := tb.Acquire(context.Background(), "res:async", 1, conn)
	require.NoError(t, err)

	ch := AcquireAsync(context.Background(), tb, "res:async", 1, conn)
	asyncOutcome := <-ch

	require.NoError(t, asyncOutcome.Err)
	assert.Equal(t, syncResult, asyncOutcome.Result)
}

func TestAcquireAsync_ChannelClosedAfterDelivery(t *testing.T) {
	interval, err := NewInterval(10)
	require.NoError(t, err)
	tb, err := NewTokenBucket(10, interval, 10)
	require.NoError(t, err)

	conn := &fakeConn{evalResult: []interface{}{int64(1), int64(9), int64(1234)}}

	ch := AcquireAsync(context.Background(), tb, "res:close", 1, conn)
	<-ch

	_, open := <-ch
	assert.False(t, open, "channel must be closed after delivering its single result")
}

func TestAcquireAsync_PropagatesError(t *testing.T) {
	interval, err := NewInterval(10)
	require.NoError(t, err)
	tb, err := NewTokenBucket(10, interval, 10)
	require.NoError(t, err)

	conn := &fakeConn{evalErr: errors.New("boom")}

	ch := AcquireAsync(context.Background(), tb, "res:err", 1, conn)
	outcome := <-ch

	var internalErr *InternalError
	assert.ErrorAs(t, outcome.Err, &internalErr)
}
