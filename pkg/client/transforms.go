package client

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrAllocationQuantityInvalid is returned when an allocation quantity
// is below 1 or above the available stock.
var ErrAllocationQuantityInvalid = errors.New("the allocated quantity must be at least 1 and at most the available stock quantity")

// ParsePaxCount extracts the numeric prefix of a pax string. When the
// string has no numeric prefix, the count defaults to 1, so "5 pax"
// yields 5, "" yields 1 and "0 pax" yields 0.
func ParsePaxCount(pax string) int {
	trimmed := strings.TrimSpace(pax)

	end := 0
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}

	if end == 0 {
		return 1
	}

	count, err := strconv.Atoi(trimmed[:end])
	if err != nil {
		return 1
	}

	return count
}

// BudgetTotal returns the total cost of a budget item list, summing
// amount times pax count per item.
func BudgetTotal(items []BudgetItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		pax := decimal.NewFromInt(int64(ParsePaxCount(item.Pax)))
		total = total.Add(item.Amount.Mul(pax))
	}

	return total
}

// ViewMode selects which proposals a list view shows.
type ViewMode string

const (
	ViewModeActive   ViewMode = "active"
	ViewModeArchived ViewMode = "archived"
)

// FilterProposals filters a proposal list for a view mode: active
// excludes archived proposals, archived keeps only archived ones.
func FilterProposals(proposals []Proposal, mode ViewMode) []Proposal {
	filtered := make([]Proposal, 0, len(proposals))
	for _, proposal := range proposals {
		if proposal.Archived == (mode == ViewModeArchived) {
			filtered = append(filtered, proposal)
		}
	}

	return filtered
}

// ValidateAllocationQuantity checks that an allocation quantity is
// within 1 and the available stock.
func ValidateAllocationQuantity(requested, available int) error {
	if requested < 1 || requested > available {
		return ErrAllocationQuantityInvalid
	}

	return nil
}

// CalendarDates joins plans, proposals and resolutions into the dates
// that carry a GAD event. A plan counts when it is mandated or has an
// approved proposal that is backed by a resolution. The result is
// sorted by date.
func CalendarDates(plans []Plan, proposals []Proposal, resolutions []Resolution) []CalendarEntry {
	backedProposals := make(map[uint]bool, len(resolutions))
	for _, resolution := range resolutions {
		backedProposals[resolution.ProposalID] = true
	}

	backedPlans := make(map[uint]bool)
	for _, proposal := range proposals {
		if proposal.Status == StatusApproved && proposal.PlanID != nil && backedProposals[proposal.ID] {
			backedPlans[*proposal.PlanID] = true
		}
	}

	entries := make(map[time.Time]*CalendarEntry)
	for _, plan := range plans {
		if plan.Archived {
			continue
		}
		if !plan.Mandated && !backedPlans[plan.ID] {
			continue
		}

		date := time.Date(plan.Date.Year(), plan.Date.Month(), plan.Date.Day(), 0, 0, 0, 0, time.UTC)
		entry, ok := entries[date]
		if !ok {
			entry = &CalendarEntry{Date: date}
			entries[date] = entry
		}

		entry.PlanIDs = append(entry.PlanIDs, plan.ID)
		entry.Mandated = entry.Mandated || plan.Mandated
	}

	dates := make([]CalendarEntry, 0, len(entries))
	for _, entry := range entries {
		dates = append(dates, *entry)
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Date.Before(dates[j].Date)
	})

	return dates
}
