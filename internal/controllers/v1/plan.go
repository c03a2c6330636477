package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/munisuite/backend/internal/httputil"
	"github.com/munisuite/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterPlanRoutes registers the routes for annual dev plans with
// the RouterGroup that is passed.
func RegisterPlanRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPlans)
		r.GET("", GetPlans)
		r.POST("", CreatePlan)
	}

	// Bulk operations
	{
		r.OPTIONS("/bulk-archive", OptionsPlanBulkArchive)
		r.PATCH("/bulk-archive", BulkArchivePlans)
		r.OPTIONS("/bulk-delete", OptionsPlanBulkDelete)
		r.DELETE("/bulk-delete", BulkDeletePlans)
	}

	// Plan with ID
	{
		r.OPTIONS("/:id", OptionsPlanDetail)
		r.GET("/:id", GetPlan)
		r.PATCH("/:id", UpdatePlan)
		r.DELETE("/:id", DeletePlan)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			GAD
// @Success		204
// @Router			/v1/gad/annual-dev-plans [options]
func OptionsPlans(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			GAD
// @Success		204
// @Router			/v1/gad/annual-dev-plans/bulk-archive [options]
func OptionsPlanBulkArchive(c *gin.Context) {
	httputil.OptionsPatch(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			GAD
// @Success		204
// @Router			/v1/gad/annual-dev-plans/bulk-delete [options]
func OptionsPlanBulkDelete(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			GAD
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint	true	"ID of the plan"
// @Router			/v1/gad/annual-dev-plans/{id} [options]
func OptionsPlanDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.AnnualDevPlan{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Get annual dev plans
// @Description	Returns a list of annual dev plans
// @Tags			GAD
// @Produce		json
// @Success		200	{object}	PlanListResponse
// @Failure		400	{object}	PlanListResponse
// @Failure		500	{object}	PlanListResponse
// @Router			/v1/gad/annual-dev-plans [get]
// @Param			year		query	int		false	"Only plans for this year"
// @Param			client		query	string	false	"Filter by client group"
// @Param			responsible	query	string	false	"Filter by responsible person"
// @Param			mandated	query	bool	false	"Is the plan mandated?"
// @Param			archived	query	bool	false	"Is the plan archived?"
// @Param			search		query	string	false	"Search in client, issue and responsible"
// @Param			offset		query	uint	false	"The offset of the first plan returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of plans to return. Defaults to 50."
func GetPlans(c *gin.Context) {
	var filter PlanQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, PlanListResponse{Error: &s})
		return
	}

	// Get the fields set in the filter
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	model := filter.model()

	q := models.DB.
		Preload("BudgetItems").
		Order("annual_dev_plans.date ASC").
		Where(&model, queryFields...)

	if filter.Year != 0 {
		start := time.Date(filter.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		q = q.Where("annual_dev_plans.date >= date(?)", start).Where("annual_dev_plans.date < date(?)", start.AddDate(1, 0, 0))
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		q = q.Where(
			models.DB.Where("annual_dev_plans.client LIKE ?", like).
				Or("annual_dev_plans.issue LIKE ?", like).
				Or("annual_dev_plans.responsible LIKE ?", like),
		)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 plans and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var plans []models.AnnualDevPlan
	err := q.Find(&plans).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PlanListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PlanListResponse{Error: &e})
		return
	}

	data := make([]Plan, 0)
	for _, plan := range plans {
		data = append(data, newPlan(c, plan))
	}

	c.JSON(http.StatusOK, PlanListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get annual dev plan
// @Description	Returns a specific annual dev plan
// @Tags			GAD
// @Produce		json
// @Success		200	{object}	PlanResponse
// @Failure		400	{object}	PlanResponse
// @Failure		404	{object}	PlanResponse
// @Failure		500	{object}	PlanResponse
// @Param			id	path		uint	true	"ID of the plan"
// @Router			/v1/gad/annual-dev-plans/{id} [get]
func GetPlan(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PlanResponse{Error: &e})
		return
	}

	var plan models.AnnualDevPlan
	err = models.DB.Preload("BudgetItems").First(&plan, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PlanResponse{Error: &e})
		return
	}

	data := newPlan(c, plan)
	c.JSON(http.StatusOK, PlanResponse{Data: &data})
}

// @Summary		Create annual dev plan
// @Description	Creates a new annual dev plan
// @Tags			GAD
// @Produce		json
// @Success		201		{object}	PlanResponse
// @Failure		400		{object}	PlanResponse
// @Failure		500		{object}	PlanResponse
// @Param			plan	body		PlanEditable	true	"Plan"
// @Router			/v1/gad/annual-dev-plans [post]
func CreatePlan(c *gin.Context) {
	var editable PlanEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PlanResponse{Error: &e})
		return
	}

	plan := editable.model()
	err = models.DB.Create(&plan).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PlanResponse{Error: &e})
		return
	}

	data := newPlan(c, plan)
	c.JSON(http.StatusCreated, PlanResponse{Data: &data})
}

// @Summary		Update annual dev plan
// @Description	Updates an existing annual dev plan. Only values to be updated need to be specified.
// @Tags			GAD
// @Accept			json
// @Produce		json
// @Success		200		{object}	PlanResponse
// @Failure		400		{object}	PlanResponse
// @Failure		404		{object}	PlanResponse
// @Failure		500		{object}	PlanResponse
// @Param			id		path		uint			true	"ID of the plan"
// @Param			plan	body		PlanEditable	true	"Plan"
// @Router			/v1/gad/annual-dev-plans/{id} [patch]
func UpdatePlan(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PlanResponse{Error: &e})
		return
	}

	var plan models.AnnualDevPlan
	err = models.DB.First(&plan, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PlanResponse{Error: &e})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, PlanEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PlanResponse{Error: &e})
		return
	}

	var update PlanEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PlanResponse{Error: &e})
		return
	}

	// Budget items are replaced as a whole when they are part of the
	// request, scalar fields are updated individually
	replaceItems := slices.Contains(updateFields, any("BudgetItems"))
	updateFields = slices.DeleteFunc(updateFields, func(f any) bool { return f == any("BudgetItems") })

	tx := models.DB.Begin()

	if len(updateFields) > 0 {
		err = tx.Model(&plan).Select("", updateFields...).Updates(update.model()).Error
		if err != nil {
			tx.Rollback()
			e := err.Error()
			c.JSON(status(err), PlanResponse{Error: &e})
			return
		}
	}

	if replaceItems {
		err = tx.Where(&models.PlanBudgetItem{AnnualDevPlanID: plan.ID}).Delete(&models.PlanBudgetItem{}).Error
		if err == nil {
			for _, item := range update.BudgetItems {
				budgetItem := item.model()
				budgetItem.AnnualDevPlanID = plan.ID
				err = tx.Create(&budgetItem).Error
				if err != nil {
					break
				}
			}
		}

		if err != nil {
			tx.Rollback()
			e := err.Error()
			c.JSON(status(err), PlanResponse{Error: &e})
			return
		}
	}

	tx.Commit()

	err = models.DB.Preload("BudgetItems").First(&plan, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PlanResponse{Error: &e})
		return
	}

	data := newPlan(c, plan)
	c.JSON(http.StatusOK, PlanResponse{Data: &data})
}

// @Summary		Delete annual dev plan
// @Description	Deletes an annual dev plan
// @Tags			GAD
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		uint	true	"ID of the plan"
// @Router			/v1/gad/annual-dev-plans/{id} [delete]
func DeletePlan(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var plan models.AnnualDevPlan
	err = models.DB.First(&plan, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&plan).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Archive or restore plans
// @Description	Sets the archived flag on all plans in the list of IDs. Restoring an already active plan is a no-op.
// @Tags			GAD
// @Produce		json
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			update	body		BulkPlanUpdate	true	"Plans to update"
// @Router			/v1/gad/annual-dev-plans/bulk-archive [patch]
func BulkArchivePlans(c *gin.Context) {
	var update BulkPlanUpdate
	err := httputil.BindData(c, &update)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if len(update.IDs) == 0 {
		c.JSON(http.StatusBadRequest, httpError{Error: errBulkIDsEmpty.Error()})
		return
	}

	tx := models.DB.Begin()
	for _, id := range update.IDs {
		var plan models.AnnualDevPlan
		err = tx.First(&plan, id).Error
		if err == nil {
			err = tx.Model(&plan).Select("Archived").Updates(models.AnnualDevPlan{Archived: update.Archived}).Error
		}

		if err != nil {
			tx.Rollback()
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}
	}

	tx.Commit()
	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Delete plans
// @Description	Permanently deletes all plans in the list of IDs
// @Tags			GAD
// @Produce		json
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			delete	body		BulkPlanDelete	true	"Plans to delete"
// @Router			/v1/gad/annual-dev-plans/bulk-delete [delete]
func BulkDeletePlans(c *gin.Context) {
	var request BulkPlanDelete
	err := httputil.BindData(c, &request)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	if len(request.IDs) == 0 {
		c.JSON(http.StatusBadRequest, httpError{Error: errBulkIDsEmpty.Error()})
		return
	}

	tx := models.DB.Begin()
	for _, id := range request.IDs {
		var plan models.AnnualDevPlan
		err = tx.First(&plan, id).Error
		if err == nil {
			err = tx.Where(&models.PlanBudgetItem{AnnualDevPlanID: plan.ID}).Delete(&models.PlanBudgetItem{}).Error
		}
		if err == nil {
			err = tx.Unscoped().Delete(&plan).Error
		}

		if err != nil {
			tx.Rollback()
			c.JSON(status(err), httpError{Error: err.Error()})
			return
		}
	}

	tx.Commit()
	c.JSON(http.StatusNoContent, nil)
}
