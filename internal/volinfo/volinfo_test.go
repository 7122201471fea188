package volinfo

import "testing"

func TestNormalizeDefaultTimeout(t *testing.T) {
	o := Options{}.Normalize()
	if o.TimeoutMs != 7000 {
		t.Fatalf("expected default timeout 7000ms, got %d", o.TimeoutMs)
	}
}

func TestNormalizeKeepsExplicitTimeout(t *testing.T) {
	o := Options{TimeoutMs: 1500}.Normalize()
	if o.TimeoutMs != 1500 {
		t.Fatalf("expected 1500ms, got %d", o.TimeoutMs)
	}
}

func TestNormalizeRejectsNonPositiveTimeout(t *testing.T) {
	for _, ms := range []int{0, -1, -100} {
		o := Options{TimeoutMs: ms}.Normalize()
		if o.TimeoutMs != 7000 {
			t.Fatalf("timeout %d: expected fallback to 7000ms, got %d", ms, o.TimeoutMs)
		}
	}
}

func TestExcludesFSType(t *testing.T) {
	o := Options{ExcludedFileSystemTypes: map[string]struct{}{"proc": {}, "sysfs": {}}}
	if !o.ExcludesFSType("proc") {
		t.Fatal("expected proc to be excluded")
	}
	if o.ExcludesFSType("ext4") {
		t.Fatal("expected ext4 to not be excluded")
	}
}

func TestExcludesFSTypeIncludeSystemVolumesOverride(t *testing.T) {
	o := Options{
		IncludeSystemVolumes:    true,
		ExcludedFileSystemTypes: map[string]struct{}{"proc": {}},
	}
	if o.ExcludesFSType("proc") {
		t.Fatal("IncludeSystemVolumes should override the exclusion list")
	}
}

func TestParseStatusUnknownFallback(t *testing.T) {
	if got := ParseStatus("bogus"); got != StatusUnknown {
		t.Fatalf("expected StatusUnknown, got %s", got)
	}
	if got := ParseStatus("healthy"); got != StatusHealthy {
		t.Fatalf("expected StatusHealthy, got %s", got)
	}
}

func TestCheckInvariants(t *testing.T) {
	v := VolumeMetadata{
		VolumeMountPoint: VolumeMountPoint{Status: StatusHealthy},
		Size:             100,
		Used:             60,
		Available:        50,
	}
	if err := v.CheckInvariants(20); err != nil {
		t.Fatalf("expected invariant to hold within slack: %v", err)
	}
	if err := v.CheckInvariants(5); err == nil {
		t.Fatal("expected invariant violation without enough slack")
	}
}

func TestCheckInvariantsSkippedWhenNotTerminalSuccess(t *testing.T) {
	v := VolumeMetadata{
		VolumeMountPoint: VolumeMountPoint{Status: StatusError},
		Size:             0,
		Used:             9999,
		Available:        9999,
	}
	if err := v.CheckInvariants(0); err != nil {
		t.Fatalf("expected no invariant check on non-success status, got %v", err)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := &Error{Kind: KindNotFound, Op: "inner"}
	wrapped := Wrap("outer", KindPlatformError, cause)
	if wrapped.Unwrap() != cause {
		t.Fatal("expected Unwrap to return the wrapped cause")
	}
}
