package workerpool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

func TestSubmitAndWaitSuccess(t *testing.T) {
	p := New(2)
	defer p.Shutdown(time.Second)

	f := Submit(p, func(ctx context.Context) (int, error) {
		return 42, nil
	})

	v, err := f.Wait(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %d", v)
	}
}

func TestSubmitAndWaitError(t *testing.T) {
	p := New(2)
	defer p.Shutdown(time.Second)

	wantErr := errors.New("boom")
	f := Submit(p, func(ctx context.Context) (int, error) {
		return 0, wantErr
	})

	_, err := f.Wait(context.Background(), time.Second)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped boom error, got %v", err)
	}
}

func TestWaitTimeoutDoesNotBlockForever(t *testing.T) {
	p := New(2)
	defer p.Shutdown(2 * time.Second)

	release := make(chan struct{})
	f := Submit(p, func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})

	start := time.Now()
	_, err := f.Wait(context.Background(), 50*time.Millisecond)
	elapsed := time.Since(start)

	var verr *volinfo.Error
	if !errors.As(err, &verr) || verr.Kind != volinfo.KindTimeout {
		t.Fatalf("expected a timeout error, got %v", err)
	}
	if elapsed > 500*time.Millisecond {
		t.Fatalf("Wait took too long to time out: %s", elapsed)
	}

	close(release) // let the orphaned job finish so the pool can shut down cleanly
	time.Sleep(20 * time.Millisecond)
}

func TestFutureIDUnique(t *testing.T) {
	p := New(1)
	defer p.Shutdown(time.Second)

	f1 := Submit(p, func(ctx context.Context) (int, error) { return 1, nil })
	f2 := Submit(p, func(ctx context.Context) (int, error) { return 2, nil })

	f1.Wait(context.Background(), time.Second)
	f2.Wait(context.Background(), time.Second)

	if f1.ID() == f2.ID() {
		t.Fatal("expected distinct future correlation IDs")
	}
}

func TestDoneReportsWithoutBlocking(t *testing.T) {
	p := New(1)
	defer p.Shutdown(time.Second)

	release := make(chan struct{})
	f := Submit(p, func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})

	if f.Done() {
		t.Fatal("expected Done() to report false before the job completes")
	}
	close(release)
	f.Wait(context.Background(), time.Second)
	if !f.Done() {
		t.Fatal("expected Done() to report true after Wait resolves")
	}
}

func TestShutdownDrainsQueuedWork(t *testing.T) {
	p := New(1)

	ran := make(chan struct{}, 1)
	Submit(p, func(ctx context.Context) (int, error) {
		ran <- struct{}{}
		return 0, nil
	})

	p.Shutdown(time.Second)

	select {
	case <-ran:
	default:
		t.Fatal("expected queued job to run during shutdown drain")
	}
}

func TestDefaultSizePositive(t *testing.T) {
	if DefaultSize() <= 0 {
		t.Fatal("expected a positive default pool size")
	}
}
