package enums

import "fmt"

// RecordStatus implements soft deletion: disabled rows stay in the table but
// are excluded from every active read.
type RecordStatus string

const (
	RecordStatusActive   RecordStatus = "active"
	RecordStatusDisabled RecordStatus = "disabled"
)

var validRecordStatuses = []RecordStatus{
	RecordStatusActive,
	RecordStatusDisabled,
}

// String returns the literal string for the status.
func (s RecordStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s RecordStatus) IsValid() bool {
	for _, candidate := range validRecordStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRecordStatus converts raw input into a RecordStatus.
func ParseRecordStatus(value string) (RecordStatus, error) {
	for _, candidate := range validRecordStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid record status %q", value)
}
