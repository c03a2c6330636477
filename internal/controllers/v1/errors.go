package v1

import (
	"errors"
	"net/http"

	"github.com/munisuite/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"there is no annual dev plan matching your query"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Cleanup errors
var (
	errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")
)

// GAD errors
var (
	errCalendarYearNotSet = errors.New("the year query parameter must be set")
	errBulkIDsEmpty       = errors.New("the list of IDs must not be empty")
)

// Waste collection errors
var (
	errScheduleAlreadyAssigned = errors.New("the schedule already has a crew assigned, use PUT to replace it")
)

// Medicine errors
var (
	errRequestStageInvalid      = errors.New("the specified request stage is invalid")
	errItemStatusInvalid        = errors.New("the specified item status is invalid")
	errNoMedicinesSelected      = errors.New("at least one medicine must be selected for an allocation")
	errAllocationItemForeign    = errors.New("all request items of an allocation must belong to the specified request")
	errAllocationItemNotPending = errors.New("only pending request items can be allocated")
)
