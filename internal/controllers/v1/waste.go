package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/munisuite/backend/internal/httputil"
	"github.com/munisuite/backend/internal/metrics"
	"github.com/munisuite/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterWasteRoutes registers the routes for waste collection
// schedules with the RouterGroup that is passed.
func RegisterWasteRoutes(r *gin.RouterGroup) {
	schedules := r.Group("/schedules")
	{
		schedules.OPTIONS("", OptionsSchedules)
		schedules.GET("", GetSchedules)
		schedules.POST("", CreateSchedule)
		schedules.OPTIONS("/:id", OptionsScheduleDetail)
		schedules.GET("/:id", GetSchedule)
		schedules.PATCH("/:id", UpdateSchedule)
		schedules.DELETE("/:id", DeleteSchedule)
		schedules.PATCH("/:id/archive", ArchiveSchedule)
		schedules.PATCH("/:id/restore", RestoreSchedule)
	}

	assignments := r.Group("/assignments")
	{
		assignments.OPTIONS("", OptionsAssignments)
		assignments.POST("", CreateAssignment)
		assignments.OPTIONS("/:id", OptionsAssignmentDetail)
		assignments.PUT("/:id", ReplaceAssignment)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Waste
// @Success		204
// @Router			/v1/waste/schedules [options]
func OptionsSchedules(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Waste
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint	true	"ID of the schedule"
// @Router			/v1/waste/schedules/{id} [options]
func OptionsScheduleDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.WasteCollectionSchedule{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// autoArchivePastSchedules archives schedules whose date is before
// today. Runs on every list call so stale schedules never show up as
// active.
func autoArchivePastSchedules() error {
	now := time.Now().In(time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	result := models.DB.Model(&models.WasteCollectionSchedule{}).
		Where("archived = false").
		Where("date < date(?)", today).
		Update("archived", true)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		metrics.SchedulesAutoArchived.Add(float64(result.RowsAffected))
	}

	return nil
}

// @Summary		Get waste collection schedules
// @Description	Returns a list of waste collection schedules. Schedules with a past date are archived automatically.
// @Tags			Waste
// @Produce		json
// @Success		200	{object}	ScheduleListResponse
// @Failure		400	{object}	ScheduleListResponse
// @Failure		500	{object}	ScheduleListResponse
// @Router			/v1/waste/schedules [get]
// @Param			sitio		query	string	false	"Filter by sitio"
// @Param			archived	query	bool	false	"Is the schedule archived?"
// @Param			offset		query	uint	false	"The offset of the first schedule returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of schedules to return. Defaults to 50."
func GetSchedules(c *gin.Context) {
	var filter ScheduleQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ScheduleListResponse{Error: &s})
		return
	}

	if err := autoArchivePastSchedules(); err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleListResponse{Error: &e})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	model := filter.model()

	q := models.DB.
		Preload("Assignment").
		Preload("Assignment.Collectors").
		Order("waste_collection_schedules.date ASC").
		Where(&model, queryFields...)

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var schedules []models.WasteCollectionSchedule
	err := q.Find(&schedules).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleListResponse{Error: &e})
		return
	}

	data := make([]Schedule, 0)
	for _, schedule := range schedules {
		data = append(data, newSchedule(c, schedule))
	}

	c.JSON(http.StatusOK, ScheduleListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get waste collection schedule
// @Description	Returns a specific waste collection schedule
// @Tags			Waste
// @Produce		json
// @Success		200	{object}	ScheduleResponse
// @Failure		400	{object}	ScheduleResponse
// @Failure		404	{object}	ScheduleResponse
// @Failure		500	{object}	ScheduleResponse
// @Param			id	path		uint	true	"ID of the schedule"
// @Router			/v1/waste/schedules/{id} [get]
func GetSchedule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleResponse{Error: &e})
		return
	}

	var schedule models.WasteCollectionSchedule
	err = models.DB.
		Preload("Assignment").
		Preload("Assignment.Collectors").
		First(&schedule, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleResponse{Error: &e})
		return
	}

	data := newSchedule(c, schedule)
	c.JSON(http.StatusOK, ScheduleResponse{Data: &data})
}

// @Summary		Create waste collection schedule
// @Description	Creates a new waste collection schedule, optionally with its crew assignment
// @Tags			Waste
// @Produce		json
// @Success		201			{object}	ScheduleResponse
// @Failure		400			{object}	ScheduleResponse
// @Failure		500			{object}	ScheduleResponse
// @Param			schedule	body		ScheduleEditable	true	"Schedule"
// @Router			/v1/waste/schedules [post]
func CreateSchedule(c *gin.Context) {
	var editable ScheduleEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleResponse{Error: &e})
		return
	}

	schedule := editable.model()
	err = models.DB.Create(&schedule).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleResponse{Error: &e})
		return
	}

	data := newSchedule(c, schedule)
	c.JSON(http.StatusCreated, ScheduleResponse{Data: &data})
}

// @Summary		Update waste collection schedule
// @Description	Updates an existing schedule. Only values to be updated need to be specified. A supplied assignment replaces the current crew.
// @Tags			Waste
// @Accept			json
// @Produce		json
// @Success		200			{object}	ScheduleResponse
// @Failure		400			{object}	ScheduleResponse
// @Failure		404			{object}	ScheduleResponse
// @Failure		500			{object}	ScheduleResponse
// @Param			id			path		uint				true	"ID of the schedule"
// @Param			schedule	body		ScheduleEditable	true	"Schedule"
// @Router			/v1/waste/schedules/{id} [patch]
func UpdateSchedule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleResponse{Error: &e})
		return
	}

	var schedule models.WasteCollectionSchedule
	err = models.DB.First(&schedule, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ScheduleEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleResponse{Error: &e})
		return
	}

	var update ScheduleEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleResponse{Error: &e})
		return
	}

	replaceAssignment := slices.Contains(updateFields, any("Assignment"))
	updateFields = slices.DeleteFunc(updateFields, func(f any) bool { return f == any("Assignment") })

	tx := models.DB.Begin()

	if len(updateFields) > 0 {
		err = tx.Model(&schedule).Select("", updateFields...).Updates(update.model()).Error
		if err != nil {
			tx.Rollback()
			e := err.Error()
			c.JSON(status(err), ScheduleResponse{Error: &e})
			return
		}
	}

	if replaceAssignment {
		var assignments []models.WasteAssignment
		err = tx.Where(&models.WasteAssignment{WasteCollectionScheduleID: schedule.ID}).Find(&assignments).Error
		if err == nil {
			for _, assignment := range assignments {
				err = tx.Where(&models.WasteCollector{WasteAssignmentID: assignment.ID}).Delete(&models.WasteCollector{}).Error
				if err != nil {
					break
				}
			}
		}
		if err == nil {
			err = tx.Where(&models.WasteAssignment{WasteCollectionScheduleID: schedule.ID}).Delete(&models.WasteAssignment{}).Error
		}
		if err == nil && update.Assignment != nil {
			updated := update.model()
			updated.Assignment.WasteCollectionScheduleID = schedule.ID
			err = tx.Create(updated.Assignment).Error
		}

		if err != nil {
			tx.Rollback()
			e := err.Error()
			c.JSON(status(err), ScheduleResponse{Error: &e})
			return
		}
	}

	tx.Commit()

	err = models.DB.
		Preload("Assignment").
		Preload("Assignment.Collectors").
		First(&schedule, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleResponse{Error: &e})
		return
	}

	data := newSchedule(c, schedule)
	c.JSON(http.StatusOK, ScheduleResponse{Data: &data})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Waste
// @Success		204
// @Router			/v1/waste/assignments [options]
func OptionsAssignments(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Waste
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint	true	"ID of the assignment"
// @Router			/v1/waste/assignments/{id} [options]
func OptionsAssignmentDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.WasteAssignment{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.Header("allow", "PUT")
	c.Status(http.StatusNoContent)
}

// @Summary		Assign crew
// @Description	Assigns a crew to a schedule that does not have one yet
// @Tags			Waste
// @Produce		json
// @Success		201			{object}	AssignmentResponse
// @Failure		400			{object}	AssignmentResponse
// @Failure		404			{object}	AssignmentResponse
// @Failure		500			{object}	AssignmentResponse
// @Param			assignment	body		AssignmentEditable	true	"Assignment"
// @Router			/v1/waste/assignments [post]
func CreateAssignment(c *gin.Context) {
	var editable AssignmentEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssignmentResponse{Error: &e})
		return
	}

	err = models.DB.First(&models.WasteCollectionSchedule{}, editable.ScheduleID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssignmentResponse{Error: &e})
		return
	}

	var count int64
	err = models.DB.Model(&models.WasteAssignment{}).
		Where("waste_collection_schedule_id = ?", editable.ScheduleID).
		Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssignmentResponse{Error: &e})
		return
	}

	if count > 0 {
		e := errScheduleAlreadyAssigned.Error()
		c.JSON(http.StatusBadRequest, AssignmentResponse{Error: &e})
		return
	}

	assignment := editable.model()
	err = models.DB.Create(&assignment).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssignmentResponse{Error: &e})
		return
	}

	data := newAssignment(assignment)
	c.JSON(http.StatusCreated, AssignmentResponse{Data: &data})
}

// @Summary		Replace crew
// @Description	Replaces the crew of an existing assignment as a whole
// @Tags			Waste
// @Accept			json
// @Produce		json
// @Success		200			{object}	AssignmentResponse
// @Failure		400			{object}	AssignmentResponse
// @Failure		404			{object}	AssignmentResponse
// @Failure		500			{object}	AssignmentResponse
// @Param			id			path		uint				true	"ID of the assignment"
// @Param			assignment	body		AssignmentEditable	true	"Assignment"
// @Router			/v1/waste/assignments/{id} [put]
func ReplaceAssignment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssignmentResponse{Error: &e})
		return
	}

	var assignment models.WasteAssignment
	err = models.DB.First(&assignment, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssignmentResponse{Error: &e})
		return
	}

	var editable AssignmentEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssignmentResponse{Error: &e})
		return
	}

	tx := models.DB.Begin()

	err = tx.Model(&assignment).Select("Driver", "TruckPlate").Updates(models.WasteAssignment{
		Driver:     editable.Driver,
		TruckPlate: editable.TruckPlate,
	}).Error
	if err == nil {
		err = tx.Where(&models.WasteCollector{WasteAssignmentID: assignment.ID}).Delete(&models.WasteCollector{}).Error
	}
	if err == nil {
		for _, collector := range editable.Collectors {
			err = tx.Create(&models.WasteCollector{WasteAssignmentID: assignment.ID, Name: collector.Name}).Error
			if err != nil {
				break
			}
		}
	}

	if err != nil {
		tx.Rollback()
		e := err.Error()
		c.JSON(status(err), AssignmentResponse{Error: &e})
		return
	}

	tx.Commit()

	err = models.DB.Preload("Collectors").First(&assignment, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AssignmentResponse{Error: &e})
		return
	}

	data := newAssignment(assignment)
	c.JSON(http.StatusOK, AssignmentResponse{Data: &data})
}

// setScheduleArchived loads a schedule and sets its archived flag.
func setScheduleArchived(c *gin.Context, archived bool) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleResponse{Error: &e})
		return
	}

	var schedule models.WasteCollectionSchedule
	err = models.DB.First(&schedule, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleResponse{Error: &e})
		return
	}

	err = models.DB.Model(&schedule).Select("Archived").Updates(models.WasteCollectionSchedule{Archived: archived}).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ScheduleResponse{Error: &e})
		return
	}

	data := newSchedule(c, schedule)
	c.JSON(http.StatusOK, ScheduleResponse{Data: &data})
}

// @Summary		Archive schedule
// @Description	Archives a waste collection schedule
// @Tags			Waste
// @Produce		json
// @Success		200	{object}	ScheduleResponse
// @Failure		400	{object}	ScheduleResponse
// @Failure		404	{object}	ScheduleResponse
// @Failure		500	{object}	ScheduleResponse
// @Param			id	path		uint	true	"ID of the schedule"
// @Router			/v1/waste/schedules/{id}/archive [patch]
func ArchiveSchedule(c *gin.Context) {
	setScheduleArchived(c, true)
}

// @Summary		Restore schedule
// @Description	Restores an archived waste collection schedule
// @Tags			Waste
// @Produce		json
// @Success		200	{object}	ScheduleResponse
// @Failure		400	{object}	ScheduleResponse
// @Failure		404	{object}	ScheduleResponse
// @Failure		500	{object}	ScheduleResponse
// @Param			id	path		uint	true	"ID of the schedule"
// @Router			/v1/waste/schedules/{id}/restore [patch]
func RestoreSchedule(c *gin.Context) {
	setScheduleArchived(c, false)
}

// @Summary		Delete schedule
// @Description	Permanently deletes a waste collection schedule with its crew assignment
// @Tags			Waste
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		uint	true	"ID of the schedule"
// @Router			/v1/waste/schedules/{id} [delete]
func DeleteSchedule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var schedule models.WasteCollectionSchedule
	err = models.DB.First(&schedule, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&schedule).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
