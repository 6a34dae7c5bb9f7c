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

	"github.com/go-redis/redis/v8"
)

// Conn is the narrow capability a caller must provide to Acquire: evaluate
// a Lua script against a key with positional arguments, and read the
// store's wall clock.
//
// *redis.Client and *redis.ClusterClient from github.com/go-redis/redis/v8
// already satisfy this interface, so no adapter is required to pass a real
// connection. Test doubles need only implement these two methods.
type Conn interface {
	// Eval evaluates a Lua script against keys with the given arguments and
	// returns the script's typed return value.
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd

	// Time returns the store's wall-clock time, used by FixedWindow to
	// anchor window boundaries on a clock shared by all clients.
	Time(ctx context.Context) *redis.TimeCmd
}
