package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/munisuite/backend/internal/controllers/v1"
	"github.com/munisuite/backend/internal/metrics"
	"github.com/munisuite/backend/internal/models"
	"github.com/munisuite/backend/test"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestCreateInventory() {
	entry := createTestInventory(suite.T(), v1.InventoryEditable{
		Name:      "Amoxicillin",
		Dosage:    "250mg",
		Form:      "capsule",
		Available: 80,
	})

	assert.Equal(suite.T(), "Amoxicillin", entry.Data.Name)
	assert.Equal(suite.T(), 80, entry.Data.Available)
}

func (suite *TestSuiteStandard) TestCreateInventoryDuplicate() {
	_ = createTestInventory(suite.T(), v1.InventoryEditable{Name: "Paracetamol", Dosage: "500mg"})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/medicine/inventory",
		v1.InventoryEditable{Name: "Paracetamol", Dosage: "500mg"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.InventoryResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), models.ErrInventoryItemNotUnique.Error(), *response.Error)
}

func (suite *TestSuiteStandard) TestGetInventorySearch() {
	_ = createTestInventory(suite.T(), v1.InventoryEditable{Name: "Paracetamol", Dosage: "500mg"})
	_ = createTestInventory(suite.T(), v1.InventoryEditable{Name: "Amoxicillin", Dosage: "250mg"})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/medicine/inventory?search=para", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.InventoryListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), "Paracetamol", response.Data[0].Name)
}

func (suite *TestSuiteStandard) TestCreateRequest() {
	stock := createTestInventory(suite.T(), v1.InventoryEditable{Available: 200})

	request := createTestRequest(suite.T(), v1.RequestEditable{
		PatientName: "Ana Reyes",
		Items: []v1.RequestItemEditable{
			{InventoryID: stock.Data.ID, Quantity: 3},
		},
	})

	assert.Equal(suite.T(), models.RequestStatusPending, request.Data.Status)
	require.Len(suite.T(), request.Data.Items, 1)
	assert.Equal(suite.T(), models.ItemStatusPending, request.Data.Items[0].Status)
	assert.Equal(suite.T(), 200, request.Data.Items[0].Available, "items carry a stock snapshot")
	assert.Equal(suite.T(), "Paracetamol 500mg", request.Data.Items[0].Medicine)
}

func (suite *TestSuiteStandard) TestGetRequestsFilterStage() {
	stock := createTestInventory(suite.T(), v1.InventoryEditable{Available: 10})
	_ = createTestRequest(suite.T(), v1.RequestEditable{Items: []v1.RequestItemEditable{{InventoryID: stock.Data.ID, Quantity: 1}}})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/medicine/requests?stage=pending", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.RequestListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Len(suite.T(), response.Data, 1)

	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/medicine/requests?stage=completed", "")
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Empty(suite.T(), response.Data)
}

func (suite *TestSuiteStandard) TestGetRequestsInvalidStage() {
	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/medicine/requests?stage=archived", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdateRequestItemTransitions() {
	stock := createTestInventory(suite.T(), v1.InventoryEditable{Available: 10})
	request := createTestRequest(suite.T(), v1.RequestEditable{Items: []v1.RequestItemEditable{{InventoryID: stock.Data.ID, Quantity: 1}}})
	item := request.Data.Items[0]

	recorder := test.Request(suite.T(), http.MethodPatch,
		fmt.Sprintf("http://example.com/v1/medicine/request-items/%d", item.ID),
		v1.RequestItemUpdate{Status: models.ItemStatusReferred, ArchiveReason: "Out of stock, referred to RHU"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.RequestItemResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), models.ItemStatusReferred, response.Data.Status)

	// Acknowledging the referral is the only move left.
	recorder = test.Request(suite.T(), http.MethodPatch,
		fmt.Sprintf("http://example.com/v1/medicine/request-items/%d", item.ID),
		v1.RequestItemUpdate{Status: models.ItemStatusOnReferred})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
}

func (suite *TestSuiteStandard) TestUpdateRequestItemInvalidTransitions() {
	stock := createTestInventory(suite.T(), v1.InventoryEditable{Available: 10})
	request := createTestRequest(suite.T(), v1.RequestEditable{Items: []v1.RequestItemEditable{{InventoryID: stock.Data.ID, Quantity: 1}}})
	item := request.Data.Items[0]

	tests := []struct {
		name   string
		status models.ItemStatus
	}{
		{"confirm via item update", models.ItemStatusConfirmed},
		{"skip to acknowledged", models.ItemStatusOnReferred},
		{"back to pending", models.ItemStatusPending},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodPatch,
				fmt.Sprintf("http://example.com/v1/medicine/request-items/%d", item.ID),
				v1.RequestItemUpdate{Status: tt.status})
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestUpdateRequestItemUnknownStatus() {
	stock := createTestInventory(suite.T(), v1.InventoryEditable{Available: 10})
	request := createTestRequest(suite.T(), v1.RequestEditable{Items: []v1.RequestItemEditable{{InventoryID: stock.Data.ID, Quantity: 1}}})

	recorder := test.Request(suite.T(), http.MethodPatch,
		fmt.Sprintf("http://example.com/v1/medicine/request-items/%d", request.Data.Items[0].ID),
		map[string]any{"status": "lost"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestUpdatePrescriptionItemReasonRequired() {
	stock := createTestInventory(suite.T(), v1.InventoryEditable{Available: 10})
	request := createTestRequest(suite.T(), v1.RequestEditable{
		Items: []v1.RequestItemEditable{{InventoryID: stock.Data.ID, Quantity: 1, Prescription: true}},
	})

	recorder := test.Request(suite.T(), http.MethodPatch,
		fmt.Sprintf("http://example.com/v1/medicine/request-items/%d", request.Data.Items[0].ID),
		v1.RequestItemUpdate{Status: models.ItemStatusRejected})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.RequestItemResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), models.ErrRequestItemReasonRequired.Error(), *response.Error)
}

func (suite *TestSuiteStandard) TestRejectLastItemCompletesRequest() {
	stock := createTestInventory(suite.T(), v1.InventoryEditable{Available: 10})
	request := createTestRequest(suite.T(), v1.RequestEditable{Items: []v1.RequestItemEditable{{InventoryID: stock.Data.ID, Quantity: 1}}})

	recorder := test.Request(suite.T(), http.MethodPatch,
		fmt.Sprintf("http://example.com/v1/medicine/request-items/%d", request.Data.Items[0].ID),
		v1.RequestItemUpdate{Status: models.ItemStatusRejected, ArchiveReason: "Duplicate entry"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/medicine/requests/%d", request.Data.ID), "")
	var response v1.RequestResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), models.RequestStatusCompleted, response.Data.Status)
}

func (suite *TestSuiteStandard) TestAllocation() {
	stock := createTestInventory(suite.T(), v1.InventoryEditable{Available: 200})
	other := createTestInventory(suite.T(), v1.InventoryEditable{Name: "Amoxicillin", Dosage: "250mg", Available: 80})
	request := createTestRequest(suite.T(), v1.RequestEditable{
		Items: []v1.RequestItemEditable{
			{InventoryID: stock.Data.ID, Quantity: 3},
			{InventoryID: other.Data.ID, Quantity: 2},
		},
	})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/medicine/allocations",
		v1.AllocationSubmission{
			RequestID: request.Data.ID,
			SelectedMedicines: []v1.SelectedMedicine{
				{InventoryID: stock.Data.ID, Quantity: 3, RequestItemID: request.Data.Items[0].ID, Reason: "headache"},
			},
			StaffID:   "mho-0143",
			Signature: "data:image/png;base64,iVBORw0KGgo=",
		})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), 3, response.Data[0].Quantity)
	assert.Equal(suite.T(), "mho-0143", response.Data[0].StaffID)
	assert.Equal(suite.T(), "data:image/png;base64,iVBORw0KGgo=", response.Data[0].Signature)

	var stored models.MedicineAllocation
	require.Nil(suite.T(), models.DB.First(&stored, response.Data[0].ID).Error)
	assert.Equal(suite.T(), "data:image/png;base64,iVBORw0KGgo=", stored.Signature, "the signature image must be persisted as-is")

	// One item remains pending, the request is processing.
	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/medicine/requests/%d", request.Data.ID), "")
	var updated v1.RequestResponse
	test.DecodeResponse(suite.T(), &recorder, &updated)
	assert.Equal(suite.T(), models.RequestStatusProcessing, updated.Data.Status)
	assert.Equal(suite.T(), models.ItemStatusConfirmed, updated.Data.Items[0].Status)
	assert.Equal(suite.T(), 197, updated.Data.Items[0].Available, "stock must be decremented")

	// Serving the second item completes the request.
	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/medicine/allocations",
		v1.AllocationSubmission{
			RequestID: request.Data.ID,
			SelectedMedicines: []v1.SelectedMedicine{
				{InventoryID: other.Data.ID, Quantity: 2, RequestItemID: request.Data.Items[1].ID},
			},
		})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/medicine/requests/%d", request.Data.ID), "")
	test.DecodeResponse(suite.T(), &recorder, &updated)
	assert.Equal(suite.T(), models.RequestStatusCompleted, updated.Data.Status)
}

func (suite *TestSuiteStandard) TestAllocationQuantityInvalid() {
	stock := createTestInventory(suite.T(), v1.InventoryEditable{Available: 5})
	request := createTestRequest(suite.T(), v1.RequestEditable{Items: []v1.RequestItemEditable{{InventoryID: stock.Data.ID, Quantity: 3}}})

	for _, quantity := range []int{0, 6} {
		suite.T().Run(fmt.Sprintf("quantity %d", quantity), func(t *testing.T) {
			recorder := test.Request(t, http.MethodPost, "http://example.com/v1/medicine/allocations",
				v1.AllocationSubmission{
					RequestID: request.Data.ID,
					SelectedMedicines: []v1.SelectedMedicine{
						{InventoryID: stock.Data.ID, Quantity: quantity, RequestItemID: request.Data.Items[0].ID},
					},
				})
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)

			var response v1.AllocationResponse
			test.DecodeResponse(t, &recorder, &response)
			assert.Equal(t, models.ErrAllocationQuantityInvalid.Error(), *response.Error)
		})
	}

	// The failed allocations must not have touched the stock.
	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/medicine/requests/%d", request.Data.ID), "")
	var response v1.RequestResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), 5, response.Data.Items[0].Available)
	assert.Equal(suite.T(), models.RequestStatusPending, response.Data.Status)
}

func (suite *TestSuiteStandard) TestAllocationStockMismatch() {
	stock := createTestInventory(suite.T(), v1.InventoryEditable{Available: 5})
	other := createTestInventory(suite.T(), v1.InventoryEditable{Name: "Amoxicillin", Dosage: "250mg", Available: 80})
	request := createTestRequest(suite.T(), v1.RequestEditable{Items: []v1.RequestItemEditable{{InventoryID: stock.Data.ID, Quantity: 1}}})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/medicine/allocations",
		v1.AllocationSubmission{
			RequestID: request.Data.ID,
			SelectedMedicines: []v1.SelectedMedicine{
				{InventoryID: other.Data.ID, Quantity: 1, RequestItemID: request.Data.Items[0].ID},
			},
		})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), models.ErrAllocationStockMismatch.Error(), *response.Error)
}

func (suite *TestSuiteStandard) TestAllocationForeignItem() {
	stock := createTestInventory(suite.T(), v1.InventoryEditable{Available: 5})
	first := createTestRequest(suite.T(), v1.RequestEditable{Items: []v1.RequestItemEditable{{InventoryID: stock.Data.ID, Quantity: 1}}})
	second := createTestRequest(suite.T(), v1.RequestEditable{Items: []v1.RequestItemEditable{{InventoryID: stock.Data.ID, Quantity: 1}}})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/medicine/allocations",
		v1.AllocationSubmission{
			RequestID: first.Data.ID,
			SelectedMedicines: []v1.SelectedMedicine{
				{InventoryID: stock.Data.ID, Quantity: 1, RequestItemID: second.Data.Items[0].ID},
			},
		})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAllocationEmptySelection() {
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/medicine/allocations",
		v1.AllocationSubmission{RequestID: 1})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAllocationRequestCompleted() {
	stock := createTestInventory(suite.T(), v1.InventoryEditable{Available: 5})
	request := createTestRequest(suite.T(), v1.RequestEditable{Items: []v1.RequestItemEditable{{InventoryID: stock.Data.ID, Quantity: 1}}})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/medicine/allocations",
		v1.AllocationSubmission{
			RequestID: request.Data.ID,
			SelectedMedicines: []v1.SelectedMedicine{
				{InventoryID: stock.Data.ID, Quantity: 1, RequestItemID: request.Data.Items[0].ID},
			},
		})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/medicine/allocations",
		v1.AllocationSubmission{
			RequestID: request.Data.ID,
			SelectedMedicines: []v1.SelectedMedicine{
				{InventoryID: stock.Data.ID, Quantity: 1, RequestItemID: request.Data.Items[0].ID},
			},
		})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), models.ErrAllocationRequestCompleted.Error(), *response.Error)
}

func (suite *TestSuiteStandard) TestItemClosedMetric() {
	stock := createTestInventory(suite.T(), v1.InventoryEditable{Available: 10})
	request := createTestRequest(suite.T(), v1.RequestEditable{Items: []v1.RequestItemEditable{{InventoryID: stock.Data.ID, Quantity: 1}}})
	item := request.Data.Items[0]

	referred := testutil.ToFloat64(metrics.ItemsRejected.WithLabelValues(string(models.ItemStatusReferred)))
	acknowledged := testutil.ToFloat64(metrics.ItemsRejected.WithLabelValues(string(models.ItemStatusOnReferred)))

	recorder := test.Request(suite.T(), http.MethodPatch,
		fmt.Sprintf("http://example.com/v1/medicine/request-items/%d", item.ID),
		v1.RequestItemUpdate{Status: models.ItemStatusReferred, ArchiveReason: "Out of stock"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	assert.Equal(suite.T(), referred+1, testutil.ToFloat64(metrics.ItemsRejected.WithLabelValues(string(models.ItemStatusReferred))))

	recorder = test.Request(suite.T(), http.MethodPatch,
		fmt.Sprintf("http://example.com/v1/medicine/request-items/%d", item.ID),
		v1.RequestItemUpdate{Status: models.ItemStatusOnReferred})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	assert.Equal(suite.T(), acknowledged, testutil.ToFloat64(metrics.ItemsRejected.WithLabelValues(string(models.ItemStatusOnReferred))),
		"acknowledging a referral does not close the item")
}

func (suite *TestSuiteStandard) TestMedicineDBError() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/medicine/requests", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}
