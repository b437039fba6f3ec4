package enums

import "fmt"

// CreativeStatus is the approval-queue filter derived from a creative's
// approval record: pending (not deployed), approved (both approvals granted,
// not yet deployed) or deployed.
type CreativeStatus string

const (
	CreativeStatusPending  CreativeStatus = "pending"
	CreativeStatusApproved CreativeStatus = "approved"
	CreativeStatusDeployed CreativeStatus = "deployed"
)

var validCreativeStatuses = []CreativeStatus{
	CreativeStatusPending,
	CreativeStatusApproved,
	CreativeStatusDeployed,
}

// String returns the literal status.
func (s CreativeStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s CreativeStatus) IsValid() bool {
	for _, candidate := range validCreativeStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCreativeStatus converts raw input into a CreativeStatus.
func ParseCreativeStatus(value string) (CreativeStatus, error) {
	for _, candidate := range validCreativeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid creative status %q", value)
}
