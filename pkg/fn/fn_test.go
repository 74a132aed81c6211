package fn

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResult(t *testing.T) {
	ok := Ok(42)
	if !ok.IsOk() || ok.IsErr() {
		t.Fatal("Ok should be ok")
	}
	v, err := ok.Unwrap()
	if v != 42 || err != nil {
		t.Fatalf("Unwrap = (%v, %v)", v, err)
	}

	bad := Err[int](errors.New("boom"))
	if bad.IsOk() || !bad.IsErr() {
		t.Fatal("Err should be err")
	}
	if bad.UnwrapOr(7) != 7 {
		t.Fatal("UnwrapOr should return fallback")
	}
	if Errf[int]("code %d", 5).IsOk() {
		t.Fatal("Errf should be err")
	}
}

func TestFromPair(t *testing.T) {
	if FromPair(1, nil).IsErr() {
		t.Fatal("nil error is ok")
	}
	if FromPair(1, errors.New("x")).IsOk() {
		t.Fatal("non-nil error is err")
	}
}

func TestCollect(t *testing.T) {
	all := Collect([]Result[int]{Ok(1), Ok(2)})
	vs, err := all.Unwrap()
	if err != nil || len(vs) != 2 || vs[1] != 2 {
		t.Fatalf("Collect = (%v, %v)", vs, err)
	}
	if Collect([]Result[int]{Ok(1), Err[int](errors.New("bad"))}).IsOk() {
		t.Fatal("Collect should surface the first error")
	}
}

func TestThenShortCircuits(t *testing.T) {
	double := func(_ context.Context, n int) Result[int] { return Ok(n * 2) }
	fail := func(_ context.Context, _ int) Result[int] { return Err[int](errors.New("stop")) }
	called := false
	spy := func(_ context.Context, n int) Result[int] { called = true; return Ok(n) }

	r := Then(double, double)(context.Background(), 3)
	if v, _ := r.Unwrap(); v != 12 {
		t.Fatalf("Then = %v", v)
	}

	r = Then[int, int, int](fail, spy)(context.Background(), 3)
	if r.IsOk() || called {
		t.Fatal("second stage must not run after failure")
	}
}

func TestPipeline(t *testing.T) {
	inc := func(_ context.Context, n int) Result[int] { return Ok(n + 1) }
	p := Pipeline(inc, inc, inc)
	if v, _ := p(context.Background(), 0).Unwrap(); v != 3 {
		t.Fatalf("Pipeline = %v", v)
	}
}

func TestMapStage(t *testing.T) {
	up := MapStage(func(s string) int { return len(s) })
	if v, _ := up(context.Background(), "four").Unwrap(); v != 4 {
		t.Fatalf("MapStage = %v", v)
	}
}

func TestTracedStagePassesThrough(t *testing.T) {
	stage := TracedStage("ok", func(_ context.Context, n int) Result[int] { return Ok(n) })
	if v, _ := stage(context.Background(), 9).Unwrap(); v != 9 {
		t.Fatalf("TracedStage = %v", v)
	}

	failing := TracedStage("fail", func(_ context.Context, _ int) Result[int] {
		return Err[int](errors.New("recorded"))
	})
	if failing(context.Background(), 1).IsOk() {
		t.Fatal("TracedStage must preserve errors")
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	opts := RetryOpts{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	r := Retry(context.Background(), opts, func(_ context.Context) Result[int] {
		attempts++
		if attempts < 3 {
			return Err[int](errors.New("transient"))
		}
		return Ok(attempts)
	})
	v, err := r.Unwrap()
	if err != nil || v != 3 {
		t.Fatalf("Retry = (%v, %v)", v, err)
	}
}

func TestRetryExhausts(t *testing.T) {
	attempts := 0
	opts := RetryOpts{MaxAttempts: 2, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	r := Retry(context.Background(), opts, func(_ context.Context) Result[int] {
		attempts++
		return Err[int](errors.New("always"))
	})
	if r.IsOk() || attempts != 2 {
		t.Fatalf("expected 2 failed attempts, got %d, ok=%v", attempts, r.IsOk())
	}
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := RetryOpts{MaxAttempts: 5, InitialWait: time.Minute, MaxWait: time.Minute}
	r := Retry(ctx, opts, func(_ context.Context) Result[int] {
		return Err[int](errors.New("transient"))
	})
	_, err := r.Unwrap()
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestSliceHelpers(t *testing.T) {
	doubled := Map([]int{1, 2, 3}, func(n int) int { return n * 2 })
	if doubled[2] != 6 {
		t.Fatalf("Map = %v", doubled)
	}

	evens := Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	if len(evens) != 2 {
		t.Fatalf("Filter = %v", evens)
	}

	parsed := FilterMap([]string{"1", "x", "3"}, func(s string) (int, bool) {
		if s == "x" {
			return 0, false
		}
		return len(s), true
	})
	if len(parsed) != 2 {
		t.Fatalf("FilterMap = %v", parsed)
	}

	groups := GroupBy([]string{"aa", "b", "cc"}, func(s string) int { return len(s) })
	if len(groups[2]) != 2 || len(groups[1]) != 1 {
		t.Fatalf("GroupBy = %v", groups)
	}
}
