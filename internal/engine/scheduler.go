package engine

import "time"

// Scheduler runs f after d without blocking the caller.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// RealScheduler uses wall-clock timers.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// ImmediateScheduler runs f right away. Used where the delays are rendered
// by the client, as in the HTTP API.
type ImmediateScheduler struct{}

func (ImmediateScheduler) AfterFunc(_ time.Duration, f func()) { f() }
