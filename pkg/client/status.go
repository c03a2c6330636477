package client

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStatus is returned when the API reports a proposal status
// this SDK does not know. Callers must surface this instead of falling
// back to a default rendering.
var ErrUnknownStatus = errors.New("unknown proposal status")

// Status is the review status of a project proposal.
type Status string

const (
	StatusPending     Status = "Pending"
	StatusViewed      Status = "Viewed"
	StatusAmend       Status = "Amend"
	StatusResubmitted Status = "Resubmitted"
	StatusApproved    Status = "Approved"
	StatusRejected    Status = "Rejected"
)

// Statuses lists all valid proposal statuses.
var Statuses = []Status{
	StatusPending,
	StatusViewed,
	StatusAmend,
	StatusResubmitted,
	StatusApproved,
	StatusRejected,
}

// StatusStyle is the display mapping for a status.
type StatusStyle struct {
	Label string
	Color string // Hex color
}

// Style returns the display mapping for a status. The mapping is
// exhaustive, an unknown status returns ErrUnknownStatus rather than a
// silent default.
func (s Status) Style() (StatusStyle, error) {
	switch s {
	case StatusPending:
		return StatusStyle{Label: "Pending", Color: "#F59E0B"}, nil
	case StatusViewed:
		return StatusStyle{Label: "Viewed", Color: "#3B82F6"}, nil
	case StatusAmend:
		return StatusStyle{Label: "For amendment", Color: "#8B5CF6"}, nil
	case StatusResubmitted:
		return StatusStyle{Label: "Resubmitted", Color: "#06B6D4"}, nil
	case StatusApproved:
		return StatusStyle{Label: "Approved", Color: "#22C55E"}, nil
	case StatusRejected:
		return StatusStyle{Label: "Rejected", Color: "#EF4444"}, nil
	}

	return StatusStyle{}, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
}

// ParseStatus parses a status string case-insensitively.
func ParseStatus(value string) (Status, error) {
	for _, status := range Statuses {
		if strings.EqualFold(string(status), value) {
			return status, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
}
