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

import "time"

// Interval is a validated, strictly positive whole number of seconds.
//
// Sub-second precision is deliberately unsupported: durations passed to
// NewIntervalFromDuration are floor-rounded down to the nearest second.
type Interval struct {
	seconds uint64
}

// NewInterval creates an Interval from a whole number of seconds.
//
// Returns ErrZeroTimeInterval if seconds is zero.
func NewInterval(seconds uint64) (Interval, error) {
	if seconds == 0 {
		return Interval{}, ErrZeroTimeInterval
	}
	return Interval{seconds: seconds}, nil
}

// NewIntervalFromDuration creates an Interval from a time.Duration, rounding
// down to the nearest second.
//
// Returns ErrZeroTimeInterval if the duration rounds down to zero.
func NewIntervalFromDuration(d time.Duration) (Interval, error) {
	return NewInterval(uint64(d / time.Second))
}

// Seconds returns the number of seconds in the interval.
func (i Interval) Seconds() uint64 {
	return i.seconds
}

// Duration returns the interval as a time.Duration.
func (i Interval) Duration() time.Duration {
	return time.Duration(i.seconds) * time.Second
}

func (i Interval) String() string {
	return i.Duration().String()
}
