package entity

// LockResult is the outcome of an acquire or takeover attempt, returned as a
// plain value so the caller can render inline messaging instead of handling
// thrown errors. Conflict is a normal outcome, not a failure: the caller is
// warned and may retry once the lock frees.
type LockResult struct {
	Success bool  `json:"success"`
	Lock    *Lock `json:"lock,omitempty"`
	// Holder is the current non-stale holder when the attempt conflicted
	Holder *Lock `json:"holder,omitempty"`
}

// AcquiredResult builds the result for a successful acquire or refresh
func AcquiredResult(lock *Lock) *LockResult {
	return &LockResult{Success: true, Lock: lock}
}

// ConflictResult builds the result for an attempt blocked by another holder
func ConflictResult(holder *Lock) *LockResult {
	return &LockResult{Success: false, Holder: holder}
}
