package volinfo

import "fmt"

// VolumeMountPoint describes one mounted filesystem as reported by a
// mount enumerator.
type VolumeMountPoint struct {
	MountPoint     string
	FSType         string
	Status         Status
	IsSystemVolume bool
	Error          string
}

func (m VolumeMountPoint) String() string {
	if m.Error != "" {
		return fmt.Sprintf("%s [%s] %s: %s", m.MountPoint, m.FSType, m.Status, m.Error)
	}
	return fmt.Sprintf("%s [%s] %s", m.MountPoint, m.FSType, m.Status)
}

// VolumeMetadata extends VolumeMountPoint with capacity and identity
// fields filled in by a metadata probe.
type VolumeMetadata struct {
	VolumeMountPoint

	MountFrom string
	Size      uint64
	Used      uint64
	Available uint64
	Label     string
	UUID      string
	Remote    bool
	URI       string

	// systemVolumeSignal records which is_system_volume heuristic(s)
	// fired, for diagnostics only; never part of the wire contract.
	systemVolumeSignal string
}

// SetSystemVolumeSignal records the heuristic(s) that set IsSystemVolume,
// for diagnostic String() output. Safe to call multiple times; signals
// accumulate in the order observed.
func (v *VolumeMetadata) SetSystemVolumeSignal(signal string) {
	if v.systemVolumeSignal == "" {
		v.systemVolumeSignal = signal
		return
	}
	v.systemVolumeSignal += "+" + signal
}

func (v VolumeMetadata) String() string {
	s := fmt.Sprintf("%s label=%q uuid=%q size=%d used=%d available=%d remote=%t",
		v.VolumeMountPoint, v.Label, v.UUID, v.Size, v.Used, v.Available, v.Remote)
	if v.systemVolumeSignal != "" {
		s += " system_signal=" + v.systemVolumeSignal
	}
	return s
}

// CheckInvariants validates that size >= used + available, modulo a
// small slack for reserved blocks. It is a no-op unless Status is a
// terminal-success status, since capacity fields are permitted to be
// zero otherwise.
func (v VolumeMetadata) CheckInvariants(reservedBlocksSlack uint64) error {
	if !v.Status.IsTerminalSuccess() {
		return nil
	}
	sum := v.Used + v.Available
	if sum > v.Size+reservedBlocksSlack {
		return fmt.Errorf("volinfo: invariant violated for %s: used(%d)+available(%d) > size(%d)+slack(%d)",
			v.MountPoint, v.Used, v.Available, v.Size, reservedBlocksSlack)
	}
	return nil
}
