package present

import (
	"math"
	"sync"
	"time"
)

// FrameInterval is the delay between animation frames.
const FrameInterval = 50 * time.Millisecond

// DefaultDuration is the animation length used when none is configured.
const DefaultDuration = time.Second

// Animation steps a counter from its current value toward a target with a
// constant increment per frame, clamping once the target is reached or passed.
type Animation struct {
	value     float64
	target    float64
	increment float64
	done      bool
}

// NewAnimation prepares an animation from current to target over duration.
func NewAnimation(current int64, target float64, duration time.Duration) *Animation {
	a := &Animation{value: float64(current), target: target}
	frames := float64(duration) / float64(FrameInterval)
	if frames > 0 {
		a.increment = (target - a.value) / frames
	}
	return a
}

// Step advances one frame and returns the value to display. done is true on
// the frame that lands on the target.
func (a *Animation) Step() (display int64, done bool) {
	if a.done {
		return Floor(a.target), true
	}
	a.value += a.increment
	if a.increment == 0 ||
		(a.increment > 0 && a.value >= a.target) ||
		(a.increment < 0 && a.value <= a.target) {
		a.value = a.target
		a.done = true
	}
	return Floor(a.value), a.done
}

// Frames runs the animation to completion and returns every displayed value.
func (a *Animation) Frames() []int64 {
	var out []int64
	for {
		v, done := a.Step()
		out = append(out, v)
		if done {
			return out
		}
	}
}

// Floor rounds v down to an int64, saturating at the int64 range. NaN maps
// to zero.
func Floor(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(math.Floor(v))
}

// Animator drives animations on counters, one at a time per counter. A new
// animation on a counter replaces the one in flight.
type Animator struct {
	duration time.Duration

	mu      sync.Mutex
	running map[*Counter]chan struct{}
}

// NewAnimator creates an Animator with the given duration per animation.
func NewAnimator(duration time.Duration) *Animator {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Animator{duration: duration, running: make(map[*Counter]chan struct{})}
}

// Duration returns the animation length.
func (an *Animator) Duration() time.Duration {
	return an.duration
}

// Animate moves c toward target, calling onFrame after each displayed value.
// onFrame may be nil.
func (an *Animator) Animate(c *Counter, target float64, onFrame func(value int64, done bool)) {
	stop := make(chan struct{})

	an.mu.Lock()
	if prev, ok := an.running[c]; ok {
		close(prev)
	}
	an.running[c] = stop
	// Read the start value only once the previous animation can no longer
	// write.
	anim := NewAnimation(c.Value(), target, an.duration)
	an.mu.Unlock()

	go func() {
		ticker := time.NewTicker(FrameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}

			v, done := anim.Step()

			// Re-check under the lock so a superseded animation never writes.
			an.mu.Lock()
			if an.running[c] != stop {
				an.mu.Unlock()
				return
			}
			c.Set(v)
			if done {
				delete(an.running, c)
			}
			an.mu.Unlock()

			if onFrame != nil {
				onFrame(v, done)
			}
			if done {
				return
			}
		}
	}()
}

// Active reports how many counters are animating.
func (an *Animator) Active() int {
	an.mu.Lock()
	defer an.mu.Unlock()
	return len(an.running)
}
