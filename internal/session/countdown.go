package session

import (
	"fmt"
	"sync"
	"time"
)

// Countdown is the exam timer: a recurring 1-second tick that decrements
// the remaining seconds and fires an expiry callback exactly once at
// zero. Each tick schedules the next only after the tick callback has
// run, so ticks never overlap. Stop cancels cleanly; an attempt that
// ends early (successful submission) must not keep ticking.
type Countdown struct {
	interval time.Duration
	onTick   func(remaining int)
	onExpire func()

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// StartCountdown launches the timer with the given duration in seconds.
// onTick runs once immediately with the full duration (the initial
// render) and then once per elapsed second. onExpire runs exactly once
// when the remaining time reaches zero, after the final tick render.
func StartCountdown(seconds int, interval time.Duration, onTick func(remaining int), onExpire func()) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	c := &Countdown{
		interval: interval,
		onTick:   onTick,
		onExpire: onExpire,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go c.run(seconds)
	return c
}

func (c *Countdown) run(remaining int) {
	defer close(c.done)

	c.onTick(remaining)
	if remaining <= 0 {
		c.onExpire()
		return
	}

	timer := time.NewTimer(c.interval)
	defer timer.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-timer.C:
			remaining--
			c.onTick(remaining)
			if remaining <= 0 {
				c.onExpire()
				return
			}
			timer.Reset(c.interval)
		}
	}
}

// Stop cancels the countdown. It is safe to call more than once and
// after expiry. It does not wait for an in-progress tick callback.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Wait blocks until the countdown goroutine has exited.
func (c *Countdown) Wait() { <-c.done }

// FormatClock renders remaining seconds as a zero-padded "mm:ss" string.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
