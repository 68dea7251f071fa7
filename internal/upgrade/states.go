package upgrade

// State identifies where an upgrade run currently is. A run starts in
// CheckNeeded and ends in Installed, Idle or Failed; Fetching and
// Verifying are entered together because the download streams through
// the digest in a single pass.
type State int

const (
	StateCheckNeeded State = iota
	StateFetching
	StateVerifying
	StateExtracting
	StateInstalled
	StateIdle
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCheckNeeded:
		return "check-needed"
	case StateFetching:
		return "fetching"
	case StateVerifying:
		return "verifying"
	case StateExtracting:
		return "extracting"
	case StateInstalled:
		return "installed"
	case StateIdle:
		return "idle"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
