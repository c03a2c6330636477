package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// GAD errors
var (
	ErrProposalReasonRequired    = errors.New("a reason is required when a proposal is amended or rejected")
	ErrProposalStatusInvalid     = errors.New("the specified proposal status is invalid")
	ErrResolutionNumberNotUnique = errors.New("the resolution number is already in use")
	ErrPlanBudgetAmountNegative  = errors.New("budget item amounts must not be negative")
)

// Medicine errors
var (
	ErrInventoryItemNotUnique     = errors.New("an inventory entry for this medicine and dosage already exists")
	ErrInventoryQuantityNegative  = errors.New("the available quantity of an inventory entry must not be negative")
	ErrRequestItemNotPending      = errors.New("only pending request items can be updated")
	ErrRequestItemReasonRequired  = errors.New("a reason is required when rejecting or referring a prescription item")
	ErrAllocationQuantityInvalid  = errors.New("the allocated quantity must be at least 1 and at most the available stock quantity")
	ErrAllocationStockMismatch    = errors.New("the selected stock entry does not match the requested medicine")
	ErrAllocationRequestCompleted = errors.New("the request has already been completed")
)

// Waste collection errors
var (
	ErrScheduleCrewIncomplete = errors.New("a waste collection assignment needs a driver and a truck")
)
