package testutil

import (
	"strconv"
	"sync/atomic"
	"time"
)

// FixedTime is the instant FixedClock starts at: 2016-03-20 12:00:00 UTC.
var FixedTime = time.Date(2016, 3, 20, 12, 0, 0, 0, time.UTC)

// StubClock is a feed.Clock that only moves when Advance is called.
type StubClock struct {
	nanos atomic.Int64
}

func NewStubClock(start time.Time) *StubClock {
	c := &StubClock{}
	c.nanos.Store(start.UnixNano())
	return c
}

// FixedClock returns a StubClock at FixedTime, so post dates in tests are predictable.
func FixedClock() *StubClock {
	return NewStubClock(FixedTime)
}

func (c *StubClock) Now() time.Time {
	return time.Unix(0, c.nanos.Load()).UTC()
}

func (c *StubClock) Advance(d time.Duration) {
	c.nanos.Add(int64(d))
}

// StubIDGenerator is a feed.IDGenerator handing out "req-1", "req-2", ...
type StubIDGenerator struct {
	n atomic.Int64
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	return "req-" + strconv.FormatInt(g.n.Add(1), 10)
}
