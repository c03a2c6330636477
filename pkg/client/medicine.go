package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Requests returns the medicine requests of a workflow stage. An empty
// stage returns all requests.
func (c *Client) Requests(ctx context.Context, stage string) ([]Request, error) {
	values := url.Values{}
	if stage != "" {
		values.Set("stage", stage)
	}

	var requests []Request
	err := c.do(ctx, http.MethodGet, "/v1/medicine/requests", values, nil, &requests)
	return requests, err
}

// MedicineRequest returns a single medicine request with its items.
func (c *Client) MedicineRequest(ctx context.Context, id uint) (Request, error) {
	var request Request
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/medicine/requests/%d", id), nil, nil, &request)
	return request, err
}

// RequestedItem is one line of a new medicine request.
type RequestedItem struct {
	InventoryID  uint `json:"inventoryId"`
	Quantity     int  `json:"quantity"`
	Prescription bool `json:"prescription"`
}

// CreateRequest files a medicine request for a patient.
func (c *Client) CreateRequest(ctx context.Context, patientName string, items []RequestedItem) (Request, error) {
	body := map[string]any{"patientName": patientName, "items": items}

	var created Request
	err := c.do(ctx, http.MethodPost, "/v1/medicine/requests", nil, body, &created)
	return created, err
}

// UpdateRequestItem rejects or refers a pending line item. Referring or
// rejecting a prescription item requires a reason.
func (c *Client) UpdateRequestItem(ctx context.Context, id uint, status, archiveReason string, archived bool) (RequestItem, error) {
	body := map[string]any{
		"status":        status,
		"archiveReason": archiveReason,
		"archived":      archived,
	}

	var updated RequestItem
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/medicine/request-items/%d", id), nil, body, &updated)
	return updated, err
}

// SubmitAllocation dispenses the selected medicines for a request in
// one transaction. Every selected item must be a pending line of the
// request and within the available stock.
func (c *Client) SubmitAllocation(ctx context.Context, requestID uint, selected []SelectedMedicine, staffID, signature string) ([]Allocation, error) {
	body := map[string]any{
		"requestId":         requestID,
		"selectedMedicines": selected,
		"staffId":           staffID,
		"signature":         signature,
	}

	var allocations []Allocation
	err := c.do(ctx, http.MethodPost, "/v1/medicine/allocations", nil, body, &allocations)
	return allocations, err
}

// MedicineInventory returns the medicine stock entries.
func (c *Client) MedicineInventory(ctx context.Context) ([]Inventory, error) {
	var inventory []Inventory
	err := c.do(ctx, http.MethodGet, "/v1/medicine/inventory", nil, nil, &inventory)
	return inventory, err
}

// CreateInventory creates a medicine stock entry. Medicine and dosage
// must be unique together.
func (c *Client) CreateInventory(ctx context.Context, entry Inventory) (Inventory, error) {
	var created Inventory
	err := c.do(ctx, http.MethodPost, "/v1/medicine/inventory", nil, entry, &created)
	return created, err
}

// AllocationDraft collects the operator's selections before submission.
// Add validates each selection against the stock snapshot so invalid
// quantities are caught before the request is sent.
type AllocationDraft struct {
	RequestID uint
	StaffID   string
	Signature string

	selected []SelectedMedicine
}

// NewAllocationDraft starts an empty draft for a request.
func NewAllocationDraft(requestID uint) *AllocationDraft {
	return &AllocationDraft{RequestID: requestID}
}

// ItemStatusPending marks request items that have not been served,
// rejected or referred yet.
const ItemStatusPending = "pending"

// DraftFromRequest starts a draft pre-filled from a request: every
// pending item is mapped to its stock entry, with the allocated
// quantity defaulting to the requested quantity. Operators adjust
// individual lines with SetQuantity before submitting.
func DraftFromRequest(request Request) *AllocationDraft {
	draft := &AllocationDraft{RequestID: request.ID}

	for _, item := range request.Items {
		if item.Status != ItemStatusPending {
			continue
		}

		draft.selected = append(draft.selected, SelectedMedicine{
			InventoryID:   item.InventoryID,
			Quantity:      item.Quantity,
			RequestItemID: item.ID,
		})
	}

	return draft
}

// SetQuantity adjusts the quantity of a drafted line after validating
// it against the item's stock snapshot.
func (d *AllocationDraft) SetQuantity(item RequestItem, quantity int) error {
	if err := ValidateAllocationQuantity(quantity, item.Available); err != nil {
		return err
	}

	for i := range d.selected {
		if d.selected[i].RequestItemID == item.ID {
			d.selected[i].Quantity = quantity
			return nil
		}
	}

	return &Error{Message: "the item is not part of this draft"}
}

// Add validates the quantity against the item's stock snapshot and adds
// the selection to the draft.
func (d *AllocationDraft) Add(item RequestItem, quantity int, reason string) error {
	if err := ValidateAllocationQuantity(quantity, item.Available); err != nil {
		return err
	}

	d.selected = append(d.selected, SelectedMedicine{
		InventoryID:   item.InventoryID,
		Quantity:      quantity,
		RequestItemID: item.ID,
		Reason:        reason,
	})

	return nil
}

// Selected returns the selections added so far.
func (d *AllocationDraft) Selected() []SelectedMedicine {
	return d.selected
}

// Submit sends the draft to the API.
func (d *AllocationDraft) Submit(ctx context.Context, c *Client) ([]Allocation, error) {
	if len(d.selected) == 0 {
		return nil, &Error{Status: 0, Message: "no medicines selected"}
	}

	return c.SubmitAllocation(ctx, d.RequestID, d.selected, d.StaffID, d.Signature)
}

// InventoryOption is an inventory entry shaped for a selection widget,
// with the display name joined from medicine and dosage.
type InventoryOption struct {
	ID        uint
	Label     string
	Available int
}

// InventoryOptions shapes stock entries for display, skipping entries
// that are out of stock.
func InventoryOptions(entries []Inventory) []InventoryOption {
	options := make([]InventoryOption, 0, len(entries))
	for _, entry := range entries {
		if entry.Available < 1 {
			continue
		}

		label := entry.Name
		if entry.Dosage != "" {
			label = fmt.Sprintf("%s %s", entry.Name, entry.Dosage)
		}

		options = append(options, InventoryOption{
			ID:        entry.ID,
			Label:     label,
			Available: entry.Available,
		})
	}

	return options
}

func requestStageValues(stage string, offset uint, limit int) url.Values {
	values := url.Values{}
	if stage != "" {
		values.Set("stage", stage)
	}
	if offset != 0 {
		values.Set("offset", strconv.FormatUint(uint64(offset), 10))
	}
	if limit != 0 {
		values.Set("limit", strconv.Itoa(limit))
	}

	return values
}

// RequestsPage returns one page of medicine requests for a stage.
func (c *Client) RequestsPage(ctx context.Context, stage string, offset uint, limit int) ([]Request, error) {
	var requests []Request
	err := c.do(ctx, http.MethodGet, "/v1/medicine/requests", requestStageValues(stage, offset, limit), nil, &requests)
	return requests, err
}
