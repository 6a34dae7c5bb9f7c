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
	"time"

	"github.com/go-redis/redis/v8"
)

// fakeConn is a hand-rolled Conn test double used for plumbing tests that
// don't need a real Lua interpreter: error propagation, key/argument
// formatting, and Quota arithmetic. Algorithm correctness itself is
// exercised against miniredis in integration_test.go, which runs the
// actual Lua scripts.
type fakeConn struct {
	evalResult interface{}
	evalErr    error

	timeResult time.Time
	timeErr    error

	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
}

func (f *fakeConn) Eval(_ context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	f.lastScript = script
	f.lastKeys = keys
	f.lastArgs = args

	cmd := redis.NewCmd(context.Background())
	if f.evalErr != nil {
		cmd.SetErr(f.evalErr)
	} else {
		cmd.SetVal(f.evalResult)
	}
	return cmd
}

func (f *fakeConn) Time(_ context.Context) *redis.TimeCmd {
	cmd := redis.NewTimeCmd(context.Background())
	if f.timeErr != nil {
		cmd.SetErr(f.timeErr)
	} else {
		cmd.SetVal(f.timeResult)
	}
	return cmd
}

var _ Conn = (*fakeConn)(nil)
