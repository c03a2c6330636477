package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/munisuite/backend/internal/httputil"
	"github.com/munisuite/backend/internal/metrics"
	"github.com/munisuite/backend/internal/models"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// RegisterMedicineRoutes registers the routes for the medicine
// request workflow with the RouterGroup that is passed.
func RegisterMedicineRoutes(r *gin.RouterGroup) {
	// Requests
	requests := r.Group("/requests")
	{
		requests.OPTIONS("", OptionsRequests)
		requests.GET("", GetRequests)
		requests.POST("", CreateRequest)
		requests.OPTIONS("/:id", OptionsRequestDetail)
		requests.GET("/:id", GetRequest)
	}

	// Request line items
	items := r.Group("/request-items")
	{
		items.OPTIONS("/:id", OptionsRequestItem)
		items.PATCH("/:id", UpdateRequestItem)
	}

	// Allocations
	allocations := r.Group("/allocations")
	{
		allocations.OPTIONS("", OptionsAllocations)
		allocations.POST("", CreateAllocation)
	}

	// Inventory
	inventory := r.Group("/inventory")
	{
		inventory.OPTIONS("", OptionsInventory)
		inventory.GET("", GetInventory)
		inventory.POST("", CreateInventory)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Medicine
// @Success		204
// @Router			/v1/medicine/requests [options]
func OptionsRequests(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Medicine
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint	true	"ID of the request"
// @Router			/v1/medicine/requests/{id} [options]
func OptionsRequestDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.MedicineRequest{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Medicine
// @Success		204
// @Param			id	path	uint	true	"ID of the request item"
// @Router			/v1/medicine/request-items/{id} [options]
func OptionsRequestItem(c *gin.Context) {
	httputil.OptionsPatch(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Medicine
// @Success		204
// @Router			/v1/medicine/allocations [options]
func OptionsAllocations(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Medicine
// @Success		204
// @Router			/v1/medicine/inventory [options]
func OptionsInventory(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Get medicine requests
// @Description	Returns a list of medicine requests with stock annotations on their items
// @Tags			Medicine
// @Produce		json
// @Success		200	{object}	RequestListResponse
// @Failure		400	{object}	RequestListResponse
// @Failure		500	{object}	RequestListResponse
// @Router			/v1/medicine/requests [get]
// @Param			stage	query	string	false	"Workflow stage: pending, processing or completed"
// @Param			offset	query	uint	false	"The offset of the first request returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of requests to return. Defaults to 50."
func GetRequests(c *gin.Context) {
	var filter RequestQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, RequestListResponse{Error: &s})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Preload("Items").
		Preload("Items.MedicineInventory").
		Order("medicine_requests.created_at ASC")

	if filter.Stage != "" {
		if !slices.Contains([]models.RequestStatus{models.RequestStatusPending, models.RequestStatusProcessing, models.RequestStatusCompleted}, filter.Stage) {
			s := errRequestStageInvalid.Error()
			c.JSON(http.StatusBadRequest, RequestListResponse{Error: &s})
			return
		}

		q = q.Where("medicine_requests.status = ?", filter.Stage)
	}

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var requests []models.MedicineRequest
	err := q.Find(&requests).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RequestListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RequestListResponse{Error: &e})
		return
	}

	data := make([]Request, 0)
	for _, request := range requests {
		data = append(data, newRequest(c, request))
	}

	c.JSON(http.StatusOK, RequestListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get medicine request
// @Description	Returns a specific medicine request
// @Tags			Medicine
// @Produce		json
// @Success		200	{object}	RequestResponse
// @Failure		400	{object}	RequestResponse
// @Failure		404	{object}	RequestResponse
// @Failure		500	{object}	RequestResponse
// @Param			id	path		uint	true	"ID of the request"
// @Router			/v1/medicine/requests/{id} [get]
func GetRequest(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RequestResponse{Error: &e})
		return
	}

	var request models.MedicineRequest
	err = models.DB.
		Preload("Items").
		Preload("Items.MedicineInventory").
		First(&request, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RequestResponse{Error: &e})
		return
	}

	data := newRequest(c, request)
	c.JSON(http.StatusOK, RequestResponse{Data: &data})
}

// @Summary		Create medicine request
// @Description	Creates a new medicine request with its line items
// @Tags			Medicine
// @Produce		json
// @Success		201		{object}	RequestResponse
// @Failure		400		{object}	RequestResponse
// @Failure		500		{object}	RequestResponse
// @Param			request	body		RequestEditable	true	"Request"
// @Router			/v1/medicine/requests [post]
func CreateRequest(c *gin.Context) {
	var editable RequestEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RequestResponse{Error: &e})
		return
	}

	request := editable.model()
	err = models.DB.Create(&request).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RequestResponse{Error: &e})
		return
	}

	err = models.DB.
		Preload("Items").
		Preload("Items.MedicineInventory").
		First(&request, request.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RequestResponse{Error: &e})
		return
	}

	data := newRequest(c, request)
	c.JSON(http.StatusCreated, RequestResponse{Data: &data})
}

// itemTransitionAllowed reports whether a request item may move from
// its current status to the target status.
func itemTransitionAllowed(current, target models.ItemStatus) bool {
	if current == models.ItemStatusPending {
		return target == models.ItemStatusReferred || target == models.ItemStatusRejected
	}

	// Acknowledging a referral
	if current == models.ItemStatusReferred {
		return target == models.ItemStatusOnReferred
	}

	return false
}

// @Summary		Update request item
// @Description	Rejects or refers a request line item. A reason is required for prescription items. Confirmation happens through the allocation endpoint, not here.
// @Tags			Medicine
// @Accept			json
// @Produce		json
// @Success		200		{object}	RequestItemResponse
// @Failure		400		{object}	RequestItemResponse
// @Failure		404		{object}	RequestItemResponse
// @Failure		500		{object}	RequestItemResponse
// @Param			id		path		uint				true	"ID of the request item"
// @Param			update	body		RequestItemUpdate	true	"Update"
// @Router			/v1/medicine/request-items/{id} [patch]
func UpdateRequestItem(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RequestItemResponse{Error: &e})
		return
	}

	var item models.MedicineRequestItem
	err = models.DB.Preload("MedicineInventory").First(&item, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RequestItemResponse{Error: &e})
		return
	}

	var update RequestItemUpdate
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RequestItemResponse{Error: &e})
		return
	}

	if !slices.Contains(models.ItemStatuses, update.Status) {
		e := errItemStatusInvalid.Error()
		c.JSON(http.StatusBadRequest, RequestItemResponse{Error: &e})
		return
	}

	if !itemTransitionAllowed(item.Status, update.Status) {
		e := models.ErrRequestItemNotPending.Error()
		c.JSON(http.StatusBadRequest, RequestItemResponse{Error: &e})
		return
	}

	closing := update.Status == models.ItemStatusReferred || update.Status == models.ItemStatusRejected
	if closing && item.Prescription && strings.TrimSpace(update.ArchiveReason) == "" {
		e := models.ErrRequestItemReasonRequired.Error()
		c.JSON(http.StatusBadRequest, RequestItemResponse{Error: &e})
		return
	}

	tx := models.DB.Begin()

	err = tx.Model(&item).Select("Status", "ArchiveReason", "Archived").Updates(models.MedicineRequestItem{
		Status:        update.Status,
		ArchiveReason: update.ArchiveReason,
		Archived:      update.Archived,
	}).Error
	if err == nil {
		err = settleRequestStatus(tx, item.MedicineRequestID)
	}

	if err != nil {
		tx.Rollback()
		e := err.Error()
		c.JSON(status(err), RequestItemResponse{Error: &e})
		return
	}

	tx.Commit()
	if closing {
		metrics.ItemsRejected.WithLabelValues(string(update.Status)).Inc()
	}

	data := newRequestItem(item)
	c.JSON(http.StatusOK, RequestItemResponse{Data: &data})
}

// @Summary		Submit allocation
// @Description	Allocates stock to the pending items of a request in one call. Each selected medicine must reference a stock entry for the requested medicine, and the quantity must be between 1 and the available stock. Stock is decremented and the request moves to processing or completed.
// @Tags			Medicine
// @Accept			json
// @Produce		json
// @Success		201			{object}	AllocationResponse
// @Failure		400			{object}	AllocationResponse
// @Failure		404			{object}	AllocationResponse
// @Failure		500			{object}	AllocationResponse
// @Param			allocation	body		AllocationSubmission	true	"Allocation"
// @Router			/v1/medicine/allocations [post]
func CreateAllocation(c *gin.Context) {
	var submission AllocationSubmission

	err := httputil.BindData(c, &submission)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	if len(submission.SelectedMedicines) == 0 {
		e := errNoMedicinesSelected.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{Error: &e})
		return
	}

	var request models.MedicineRequest
	err = models.DB.First(&request, submission.RequestID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	if request.Status == models.RequestStatusCompleted {
		e := models.ErrAllocationRequestCompleted.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{Error: &e})
		return
	}

	tx := models.DB.Begin()

	created := make([]Allocation, 0, len(submission.SelectedMedicines))
	for _, selected := range submission.SelectedMedicines {
		allocation, err := allocate(tx, request.ID, selected, submission.StaffID, submission.Signature)
		if err != nil {
			tx.Rollback()
			e := err.Error()
			c.JSON(status(err), AllocationResponse{Error: &e})
			return
		}

		created = append(created, newAllocation(allocation))
	}

	err = settleRequestStatus(tx, request.ID)
	if err != nil {
		tx.Rollback()
		e := err.Error()
		c.JSON(status(err), AllocationResponse{Error: &e})
		return
	}

	tx.Commit()
	metrics.AllocationsSubmitted.Inc()

	c.JSON(http.StatusCreated, AllocationResponse{Data: created})
}

// allocate serves one selected medicine: it verifies the request item,
// checks the quantity against the stock snapshot, decrements the stock
// and records the allocation.
func allocate(tx *gorm.DB, requestID uint, selected SelectedMedicine, staffID, signature string) (models.MedicineAllocation, error) {
	var item models.MedicineRequestItem
	err := tx.First(&item, selected.RequestItemID).Error
	if err != nil {
		return models.MedicineAllocation{}, err
	}

	if item.MedicineRequestID != requestID {
		return models.MedicineAllocation{}, errAllocationItemForeign
	}

	if item.Status != models.ItemStatusPending {
		return models.MedicineAllocation{}, errAllocationItemNotPending
	}

	var stock models.MedicineInventory
	err = tx.First(&stock, selected.InventoryID).Error
	if err != nil {
		return models.MedicineAllocation{}, err
	}

	if stock.ID != item.MedicineInventoryID {
		return models.MedicineAllocation{}, models.ErrAllocationStockMismatch
	}

	if selected.Quantity < 1 || selected.Quantity > stock.Available {
		return models.MedicineAllocation{}, models.ErrAllocationQuantityInvalid
	}

	err = tx.Model(&stock).Select("Available").Updates(map[string]any{"available": stock.Available - selected.Quantity}).Error
	if err != nil {
		return models.MedicineAllocation{}, err
	}

	err = tx.Model(&item).Select("Status").Updates(models.MedicineRequestItem{Status: models.ItemStatusConfirmed}).Error
	if err != nil {
		return models.MedicineAllocation{}, err
	}

	allocation := models.MedicineAllocation{
		MedicineRequestItemID: item.ID,
		MedicineInventoryID:   stock.ID,
		Quantity:              selected.Quantity,
		Reason:                selected.Reason,
		StaffID:               staffID,
		Signature:             signature,
	}
	err = tx.Create(&allocation).Error
	if err != nil {
		return models.MedicineAllocation{}, err
	}

	return allocation, nil
}

// settleRequestStatus recomputes the workflow stage of a request from
// its items: no pending items left means completed, any confirmed item
// means at least processing.
func settleRequestStatus(tx *gorm.DB, requestID uint) error {
	var items []models.MedicineRequestItem
	err := tx.Where(&models.MedicineRequestItem{MedicineRequestID: requestID}).Find(&items).Error
	if err != nil {
		return err
	}

	pending := 0
	touched := 0
	for _, item := range items {
		if item.Status == models.ItemStatusPending {
			pending++
		} else {
			touched++
		}
	}

	target := models.RequestStatusPending
	if pending == 0 && len(items) > 0 {
		target = models.RequestStatusCompleted
	} else if touched > 0 {
		target = models.RequestStatusProcessing
	}

	return tx.Model(&models.MedicineRequest{}).
		Where("id = ?", requestID).
		Select("Status").
		Updates(models.MedicineRequest{Status: target}).Error
}

// @Summary		Get inventory
// @Description	Returns the medicine inventory
// @Tags			Medicine
// @Produce		json
// @Success		200	{object}	InventoryListResponse
// @Failure		500	{object}	InventoryListResponse
// @Router			/v1/medicine/inventory [get]
// @Param			search	query	string	false	"Search in medicine names"
func GetInventory(c *gin.Context) {
	var filter struct {
		Search string `form:"search"`
	}
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, InventoryListResponse{Error: &e})
		return
	}

	q := models.DB.Order("medicine_inventories.name ASC")
	if filter.Search != "" {
		q = q.Where("medicine_inventories.name LIKE ?", "%"+filter.Search+"%")
	}

	var inventory []models.MedicineInventory
	err := q.Find(&inventory).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InventoryListResponse{Error: &e})
		return
	}

	data := make([]Inventory, 0, len(inventory))
	for _, entry := range inventory {
		data = append(data, newInventory(entry))
	}

	c.JSON(http.StatusOK, InventoryListResponse{Data: data})
}

// @Summary		Create inventory entry
// @Description	Creates a new stock entry
// @Tags			Medicine
// @Produce		json
// @Success		201		{object}	InventoryResponse
// @Failure		400		{object}	InventoryResponse
// @Failure		500		{object}	InventoryResponse
// @Param			entry	body		InventoryEditable	true	"Stock entry"
// @Router			/v1/medicine/inventory [post]
func CreateInventory(c *gin.Context) {
	var editable InventoryEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InventoryResponse{Error: &e})
		return
	}

	entry := editable.model()
	err = models.DB.Create(&entry).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InventoryResponse{Error: &e})
		return
	}

	data := newInventory(entry)
	c.JSON(http.StatusCreated, InventoryResponse{Data: &data})
}
