package host

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTimersFireAtDeadline(t *testing.T) {
	clock := NewManualClock(epoch)
	loop := NewLoop(clock)

	fired := 0
	loop.AfterFunc(700*time.Millisecond, func() { fired++ })

	loop.RunFrame(clock.Advance(699 * time.Millisecond))
	if fired != 0 {
		t.Fatal("timer fired early")
	}
	loop.RunFrame(clock.Advance(1 * time.Millisecond))
	if fired != 1 {
		t.Fatalf("timer fired %d times at deadline, want 1", fired)
	}
	loop.RunFrame(clock.Advance(time.Second))
	if fired != 1 {
		t.Errorf("timer fired again: %d", fired)
	}
}

func TestTimersRunInDeadlineOrder(t *testing.T) {
	clock := NewManualClock(epoch)
	loop := NewLoop(clock)

	var order []string
	loop.AfterFunc(300*time.Millisecond, func() { order = append(order, "late") })
	loop.AfterFunc(100*time.Millisecond, func() { order = append(order, "early") })

	loop.RunFrame(clock.Advance(time.Second))

	if len(order) != 2 || order[0] != "early" || order[1] != "late" {
		t.Errorf("order = %v, want [early late]", order)
	}
}

func TestCancelTimerFromEarlierCallback(t *testing.T) {
	clock := NewManualClock(epoch)
	loop := NewLoop(clock)

	var second TimerID
	ran := false
	loop.AfterFunc(10*time.Millisecond, func() { loop.CancelTimer(second) })
	second = loop.AfterFunc(20*time.Millisecond, func() { ran = true })

	loop.RunFrame(clock.Advance(time.Second))

	if ran {
		t.Error("cancelled timer ran")
	}
}

func TestFramesRequestedDuringFrameRunNext(t *testing.T) {
	clock := NewManualClock(epoch)
	loop := NewLoop(clock)

	count := 0
	var tick func(time.Time)
	tick = func(time.Time) {
		count++
		loop.RequestFrame(tick)
	}
	loop.RequestFrame(tick)

	loop.RunFrame(clock.Now())
	loop.RunFrame(clock.Now())
	loop.RunFrame(clock.Now())

	if count != 3 {
		t.Errorf("frame ran %d times, want 3", count)
	}
	if _, _, frames := loop.Pending(); frames != 1 {
		t.Errorf("pending frames = %d, want 1", frames)
	}
}

func TestCancelFrame(t *testing.T) {
	loop := NewLoop(NewManualClock(epoch))

	ran := false
	id := loop.RequestFrame(func(time.Time) { ran = true })
	loop.CancelFrame(id)
	loop.RunFrame(epoch)

	if ran {
		t.Error("cancelled frame ran")
	}
}

func TestPostFromGoroutine(t *testing.T) {
	loop := NewLoop(NewManualClock(epoch))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loop.Post(func() {})
		}()
	}
	wg.Wait()

	if posted, _, _ := loop.Pending(); posted != 8 {
		t.Fatalf("posted = %d, want 8", posted)
	}
	loop.RunFrame(epoch)
	if posted, _, _ := loop.Pending(); posted != 0 {
		t.Errorf("posted after frame = %d, want 0", posted)
	}
}

type recorder struct {
	moves  int
	leaves int
	lastX  float32
	lastY  float32
}

func (r *recorder) PointerMove(x, y float32) {
	r.moves++
	r.lastX, r.lastY = x, y
}

func (r *recorder) PointerLeave() { r.leaves++ }

func TestRegionPointerDispatch(t *testing.T) {
	region := NewRegion(NewManualClock(epoch), 200, 100)
	rec := &recorder{}
	remove := region.AddPointerListener(rec)

	region.PointerMove(50, 50)
	region.PointerMove(500, 50) // outside -> leave
	region.PointerMove(600, 50) // still outside, nothing

	if rec.moves != 1 || rec.leaves != 1 {
		t.Errorf("moves=%d leaves=%d, want 1 and 1", rec.moves, rec.leaves)
	}

	remove()
	region.PointerMove(10, 10)
	if rec.moves != 1 {
		t.Error("removed listener still receives events")
	}
	if l, _, _ := region.Subscribers(); l != 0 {
		t.Errorf("listeners = %d, want 0", l)
	}
}

func TestRegionResizeNotifiesOnChange(t *testing.T) {
	region := NewRegion(NewManualClock(epoch), 200, 100)
	calls := 0
	disconnect := region.ObserveResize(func() { calls++ })

	region.Resize(200, 100)
	region.Resize(300, 150)

	if calls != 1 {
		t.Errorf("observer called %d times, want 1", calls)
	}
	if b := region.Bounds(); b.Width != 300 || b.Height != 150 {
		t.Errorf("bounds = %+v", b)
	}

	disconnect()
	region.Resize(10, 10)
	if calls != 1 {
		t.Error("disconnected observer still called")
	}
}

type countingOutput struct{ presents int }

func (o *countingOutput) Present() { o.presents++ }

func TestRegionPresentsAttachedOutputs(t *testing.T) {
	region := NewRegion(NewManualClock(epoch), 10, 10)
	out := &countingOutput{}

	region.Attach(out)
	region.Attach(out)
	region.Frame(epoch)
	region.Detach(out)
	region.Frame(epoch)

	if out.presents != 1 {
		t.Errorf("presents = %d, want 1", out.presents)
	}
}
