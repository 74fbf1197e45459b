package targeting

import "github.com/1broseidon/curtain/internal/platform"

// Lock pins a window so it stays excluded regardless of focus.
type Lock struct {
	Window platform.WindowID
	Set    bool
}

// LockWindow returns a lock on id.
func LockWindow(id platform.WindowID) Lock {
	return Lock{Window: id, Set: true}
}

// Source reports how a resolution was reached.
type Source int

const (
	SourceNone Source = iota
	SourceLocked
	SourceFrontmost
)

func (s Source) String() string {
	switch s {
	case SourceLocked:
		return "locked"
	case SourceFrontmost:
		return "frontmost"
	default:
		return "none"
	}
}

// Resolution is the outcome of one resolve pass.
type Resolution struct {
	// Rect is the exclusion rectangle in global coordinates; valid when HasRect.
	Rect    platform.Rect
	HasRect bool
	Window  platform.WindowID
	Source  Source
	// ClearLock is set when the locked window has disappeared.
	ClearLock bool
}

// Lister provides window snapshots.
type Lister interface {
	ListCandidateWindows() []platform.Window
}

// Resolver computes the exclusion rectangle for a refresh tick.
type Resolver struct {
	dir    Lister
	policy Policy
}

// NewResolver creates a resolver over dir using policy for frontmost selection.
func NewResolver(dir Lister, policy Policy) *Resolver {
	return &Resolver{dir: dir, policy: policy}
}

// SetPolicy replaces the selector policy.
func (r *Resolver) SetPolicy(policy Policy) {
	r.policy = policy
}

// Policy returns the active selector policy.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// Resolve picks the exclusion target. A present lock wins; a vanished lock
// is reported via ClearLock and resolution falls back to the best window of
// frontmostPID. frontmostPID <= 0 means no frontmost process. The directory
// is queried exactly once.
func (r *Resolver) Resolve(lock Lock, frontmostPID int) Resolution {
	windows := r.dir.ListCandidateWindows()

	var res Resolution
	if lock.Set {
		for _, w := range windows {
			if w.ID == lock.Window {
				return Resolution{
					Rect:    w.Bounds,
					HasRect: true,
					Window:  w.ID,
					Source:  SourceLocked,
				}
			}
		}
		res.ClearLock = true
	}

	if frontmostPID > 0 {
		if sel, ok := SelectBestWindow(windows, frontmostPID, r.policy); ok {
			res.Rect = sel.Bounds
			res.HasRect = true
			res.Window = sel.ID
			res.Source = SourceFrontmost
		}
	}
	return res
}

// SelectForProcess returns the best window of pid from a fresh snapshot.
func (r *Resolver) SelectForProcess(pid int) (Selection, bool) {
	if pid <= 0 {
		return Selection{}, false
	}
	return SelectBestWindow(r.dir.ListCandidateWindows(), pid, r.policy)
}
