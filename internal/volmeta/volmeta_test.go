package volmeta

import (
	"errors"
	"math"
	"testing"

	"github.com/photostructure/fs-metadata-engine/internal/volinfo"
)

func TestBlockCapacityNormal(t *testing.T) {
	got, err := blockCapacity("test", 4096, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4096*1000 {
		t.Fatalf("got %d, want %d", got, 4096*1000)
	}
}

func TestBlockCapacityZero(t *testing.T) {
	got, err := blockCapacity("test", 0, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestBlockCapacityOverflow(t *testing.T) {
	_, err := blockCapacity("test", math.MaxUint64, 2)
	if err == nil {
		t.Fatal("expected overflow error")
	}
	var verr *volinfo.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *volinfo.Error, got %T", err)
	}
	if verr.Kind != volinfo.KindOverflow {
		t.Fatalf("expected KindOverflow, got %s", verr.Kind)
	}
}
