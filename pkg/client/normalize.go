package client

import (
	"encoding/json"
	"fmt"
	"time"
)

// NormalizeProposal maps a raw API payload into the canonical Proposal
// record. Older deployments of the API use snake_case keys and prefixed
// field names (gprl_status, is_archived), newer ones use camelCase.
// This is the only place where key variants are tolerated, all other
// code works on the canonical record.
func NormalizeProposal(raw map[string]any) (Proposal, error) {
	var proposal Proposal

	id, err := pickUint(raw, "id", "gprl_id")
	if err != nil {
		return Proposal{}, err
	}
	proposal.ID = id

	if planID, err := pickUint(raw, "planId", "plan_id", "gad_plan_id"); err == nil && planID != 0 {
		proposal.PlanID = &planID
	}

	proposal.Title, _ = pickString(raw, "title", "gprl_title", "project_title")
	proposal.Location, _ = pickString(raw, "location", "gprl_location")
	proposal.Reason, _ = pickString(raw, "reason", "gprl_reason")
	proposal.Archived = pickBool(raw, "archived", "is_archived")

	statusValue, ok := pickString(raw, "status", "gprl_status")
	if !ok {
		return Proposal{}, fmt.Errorf("payload carries no status field")
	}

	status, err := ParseStatus(statusValue)
	if err != nil {
		return Proposal{}, err
	}
	proposal.Status = status

	if dateValue, ok := pickString(raw, "date", "gprl_date"); ok {
		date, err := parseDate(dateValue)
		if err != nil {
			return Proposal{}, fmt.Errorf("invalid date %q: %w", dateValue, err)
		}
		proposal.Date = date
	}

	return proposal, nil
}

// pickString returns the first present string value among the keys.
func pickString(raw map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := raw[key].(string); ok {
			return value, true
		}
	}

	return "", false
}

// pickBool returns the first present bool value among the keys.
func pickBool(raw map[string]any, keys ...string) bool {
	for _, key := range keys {
		if value, ok := raw[key].(bool); ok {
			return value
		}
	}

	return false
}

// pickUint returns the first present numeric value among the keys.
// JSON numbers arrive as float64, older deployments send IDs as
// strings.
func pickUint(raw map[string]any, keys ...string) (uint, error) {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}

		switch v := value.(type) {
		case float64:
			if v < 0 {
				return 0, fmt.Errorf("%s must not be negative", key)
			}
			return uint(v), nil
		case json.Number:
			parsed, err := v.Int64()
			if err != nil || parsed < 0 {
				return 0, fmt.Errorf("%s is not a valid ID", key)
			}
			return uint(parsed), nil
		case string:
			var parsed uint
			if _, err := fmt.Sscanf(v, "%d", &parsed); err != nil {
				return 0, fmt.Errorf("%s is not a valid ID", key)
			}
			return parsed, nil
		}
	}

	return 0, fmt.Errorf("none of %v is present", keys)
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(value string) (time.Time, error) {
	if date, err := time.Parse(time.RFC3339, value); err == nil {
		return date, nil
	}

	return time.Parse("2006-01-02", value)
}
