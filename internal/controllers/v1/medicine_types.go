package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/munisuite/backend/internal/models"
)

type InventoryEditable struct {
	Name      string    `json:"name" example:"Paracetamol"`
	Dosage    string    `json:"dosage" example:"500mg"`
	Form      string    `json:"form" example:"tablet"`
	Available int       `json:"available" example:"200" minimum:"0"` // Quantity on stock
	ExpiresOn time.Time `json:"expiresOn" example:"2026-08-01T00:00:00Z"`
}

func (editable InventoryEditable) model() models.MedicineInventory {
	return models.MedicineInventory{
		Name:      editable.Name,
		Dosage:    editable.Dosage,
		Form:      editable.Form,
		Available: editable.Available,
		ExpiresOn: editable.ExpiresOn,
	}
}

// Inventory is the API representation of a stock entry.
type Inventory struct {
	models.Model
	InventoryEditable
}

func newInventory(model models.MedicineInventory) Inventory {
	return Inventory{
		Model: model.Model,
		InventoryEditable: InventoryEditable{
			Name:      model.Name,
			Dosage:    model.Dosage,
			Form:      model.Form,
			Available: model.Available,
			ExpiresOn: model.ExpiresOn,
		},
	}
}

type InventoryResponse struct {
	Data  *Inventory `json:"data"`
	Error *string    `json:"error" example:"an inventory entry for this medicine and dosage already exists"`
}

type InventoryListResponse struct {
	Data  []Inventory `json:"data"`
	Error *string     `json:"error"`
}

type RequestItemEditable struct {
	InventoryID  uint `json:"inventoryId" example:"7"`                   // ID of the requested medicine's stock entry
	Quantity     int  `json:"quantity" example:"3" minimum:"1"`          // Requested quantity
	Prescription bool `json:"prescription" example:"true" default:"false"` // Does the item need a prescription?
}

type RequestEditable struct {
	PatientName string                `json:"patientName" example:"Ana Reyes"`
	Items       []RequestItemEditable `json:"items"`
}

func (editable RequestEditable) model() models.MedicineRequest {
	request := models.MedicineRequest{
		PatientName: editable.PatientName,
	}

	for _, item := range editable.Items {
		request.Items = append(request.Items, models.MedicineRequestItem{
			MedicineInventoryID: item.InventoryID,
			Quantity:            item.Quantity,
			Prescription:        item.Prescription,
		})
	}

	return request
}

// RequestItem is the API representation of a request line item. It
// carries a snapshot of the available stock quantity so operators can
// validate allocations without another round-trip.
type RequestItem struct {
	models.Model
	RequestID     uint              `json:"requestId"`
	InventoryID   uint              `json:"inventoryId"`
	Medicine      string            `json:"medicine" example:"Paracetamol 500mg"`
	Quantity      int               `json:"quantity"`
	Available     int               `json:"available"` // Stock available at the time of the query
	Status        models.ItemStatus `json:"status"`
	Prescription  bool              `json:"prescription"`
	ArchiveReason string            `json:"archiveReason"`
	Archived      bool              `json:"archived"`
}

func newRequestItem(model models.MedicineRequestItem) RequestItem {
	medicine := model.MedicineInventory.Name
	if model.MedicineInventory.Dosage != "" {
		medicine = fmt.Sprintf("%s %s", model.MedicineInventory.Name, model.MedicineInventory.Dosage)
	}

	return RequestItem{
		Model:         model.Model,
		RequestID:     model.MedicineRequestID,
		InventoryID:   model.MedicineInventoryID,
		Medicine:      medicine,
		Quantity:      model.Quantity,
		Available:     model.MedicineInventory.Available,
		Status:        model.Status,
		Prescription:  model.Prescription,
		ArchiveReason: model.ArchiveReason,
		Archived:      model.Archived,
	}
}

type RequestLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/medicine/requests/12"`
}

// Request is the API representation of a medicine request.
type Request struct {
	models.Model
	PatientName string               `json:"patientName"`
	Status      models.RequestStatus `json:"status"`
	Items       []RequestItem        `json:"items"`
	Links       RequestLinks         `json:"links"`
}

func newRequest(c *gin.Context, model models.MedicineRequest) Request {
	url := c.GetString(string(models.ContextKeyBaseURL))

	items := make([]RequestItem, 0, len(model.Items))
	for _, item := range model.Items {
		items = append(items, newRequestItem(item))
	}

	return Request{
		Model:       model.Model,
		PatientName: model.PatientName,
		Status:      model.Status,
		Items:       items,
		Links: RequestLinks{
			Self: fmt.Sprintf("%s/v1/medicine/requests/%d", url, model.ID),
		},
	}
}

type RequestResponse struct {
	Data  *Request `json:"data"`
	Error *string  `json:"error" example:"there is no medicine request matching your query"`
}

type RequestListResponse struct {
	Data       []Request   `json:"data"`
	Error      *string     `json:"error"`
	Pagination *Pagination `json:"pagination"`
}

type RequestQueryFilter struct {
	Stage  models.RequestStatus `form:"stage" filterField:"false"`  // Workflow stage: pending, processing or completed
	Offset uint                 `form:"offset" filterField:"false"` // The offset of the first request returned. Defaults to 0.
	Limit  int                  `form:"limit" filterField:"false"`  // Maximum number of requests to return. Defaults to 50.
}

// RequestItemUpdate is the request body to reject or refer a line item.
type RequestItemUpdate struct {
	Status        models.ItemStatus `json:"status" example:"referred"`
	ArchiveReason string            `json:"archiveReason" example:"Out of stock, referred to RHU" default:""`
	Archived      bool              `json:"archived" example:"true" default:"false"`
}

type RequestItemResponse struct {
	Data  *RequestItem `json:"data"`
	Error *string      `json:"error" example:"only pending request items can be updated"`
}

// SelectedMedicine is one line of an allocation submission.
type SelectedMedicine struct {
	InventoryID   uint   `json:"inventoryId" example:"7"`   // ID of the stock entry to allocate from
	Quantity      int    `json:"quantity" example:"3"`      // Quantity to allocate
	RequestItemID uint   `json:"requestItemId" example:"42"` // ID of the request item being served
	Reason        string `json:"reason" example:"headache" default:""`
}

// AllocationSubmission is the request body for a bulk allocation.
type AllocationSubmission struct {
	RequestID         uint               `json:"requestId" example:"12"`
	SelectedMedicines []SelectedMedicine `json:"selectedMedicines"`
	StaffID           string             `json:"staffId" example:"mho-0143" default:""`
	Signature         string             `json:"signature" default:""` // Base64 signature image, stored as-is
}

// Allocation is the API representation of a single created allocation.
type Allocation struct {
	models.Model
	RequestItemID uint   `json:"requestItemId"`
	InventoryID   uint   `json:"inventoryId"`
	Quantity      int    `json:"quantity"`
	Reason        string `json:"reason"`
	StaffID       string `json:"staffId"`
	Signature     string `json:"signature"` // Base64 signature image, stored as-is
}

func newAllocation(model models.MedicineAllocation) Allocation {
	return Allocation{
		Model:         model.Model,
		RequestItemID: model.MedicineRequestItemID,
		InventoryID:   model.MedicineInventoryID,
		Quantity:      model.Quantity,
		Reason:        model.Reason,
		StaffID:       model.StaffID,
		Signature:     model.Signature,
	}
}

type AllocationResponse struct {
	Data  []Allocation `json:"data"`
	Error *string      `json:"error" example:"the allocated quantity must be at least 1 and at most the available stock quantity"`
}
