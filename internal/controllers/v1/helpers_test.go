package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/munisuite/backend/internal/controllers/v1"
	"github.com/munisuite/backend/test"
)

func createTestPlan(t *testing.T, editable v1.PlanEditable) v1.PlanResponse {
	if editable.Date.IsZero() {
		editable.Date = time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	}
	if editable.Client == "" {
		editable.Client = "Women and children"
	}
	if editable.Responsible == "" {
		editable.Responsible = "MSWDO"
	}

	recorder := test.Request(t, http.MethodPost, "http://example.com/v1/gad/annual-dev-plans", editable)
	test.AssertHTTPStatus(t, &recorder, http.StatusCreated)

	var response v1.PlanResponse
	test.DecodeResponse(t, &recorder, &response)
	return response
}

func createTestProposal(t *testing.T, editable v1.ProposalEditable) v1.ProposalResponse {
	if editable.Date.IsZero() {
		editable.Date = time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	}
	if editable.Title == "" {
		editable.Title = "GBV awareness seminar"
	}

	recorder := test.Request(t, http.MethodPost, "http://example.com/v1/gad/project-proposals", editable)
	test.AssertHTTPStatus(t, &recorder, http.StatusCreated)

	var response v1.ProposalResponse
	test.DecodeResponse(t, &recorder, &response)
	return response
}

func createTestResolution(t *testing.T, editable v1.ResolutionEditable) v1.ResolutionResponse {
	if editable.ApprovedOn.IsZero() {
		editable.ApprovedOn = time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	}

	recorder := test.Request(t, http.MethodPost, "http://example.com/v1/gad/resolutions", editable)
	test.AssertHTTPStatus(t, &recorder, http.StatusCreated)

	var response v1.ResolutionResponse
	test.DecodeResponse(t, &recorder, &response)
	return response
}

func createTestSupportDoc(t *testing.T, proposalID uint, editable v1.SupportDocEditable) v1.SupportDocResponse {
	if editable.Name == "" {
		editable.Name = "Barangay endorsement letter"
	}

	url := fmt.Sprintf("http://example.com/v1/gad/project-proposals/%d/support-docs", proposalID)
	recorder := test.Request(t, http.MethodPost, url, editable)
	test.AssertHTTPStatus(t, &recorder, http.StatusCreated)

	var response v1.SupportDocResponse
	test.DecodeResponse(t, &recorder, &response)
	return response
}

func createTestInventory(t *testing.T, editable v1.InventoryEditable) v1.InventoryResponse {
	if editable.Name == "" {
		editable.Name = "Paracetamol"
	}
	if editable.Dosage == "" {
		editable.Dosage = "500mg"
	}
	if editable.ExpiresOn.IsZero() {
		editable.ExpiresOn = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	}

	recorder := test.Request(t, http.MethodPost, "http://example.com/v1/medicine/inventory", editable)
	test.AssertHTTPStatus(t, &recorder, http.StatusCreated)

	var response v1.InventoryResponse
	test.DecodeResponse(t, &recorder, &response)
	return response
}

func createTestRequest(t *testing.T, editable v1.RequestEditable) v1.RequestResponse {
	if editable.PatientName == "" {
		editable.PatientName = "Ana Reyes"
	}

	recorder := test.Request(t, http.MethodPost, "http://example.com/v1/medicine/requests", editable)
	test.AssertHTTPStatus(t, &recorder, http.StatusCreated)

	var response v1.RequestResponse
	test.DecodeResponse(t, &recorder, &response)
	return response
}

func createTestSchedule(t *testing.T, editable v1.ScheduleEditable) v1.ScheduleResponse {
	if editable.Date.IsZero() {
		editable.Date = time.Now().In(time.UTC).AddDate(0, 0, 7)
	}
	if editable.Time == "" {
		editable.Time = "07:30"
	}
	if editable.Sitio == "" {
		editable.Sitio = "Sitio Looban"
	}

	recorder := test.Request(t, http.MethodPost, "http://example.com/v1/waste/schedules", editable)
	test.AssertHTTPStatus(t, &recorder, http.StatusCreated)

	var response v1.ScheduleResponse
	test.DecodeResponse(t, &recorder, &response)
	return response
}
