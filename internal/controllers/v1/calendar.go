package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/munisuite/backend/internal/httputil"
	"github.com/munisuite/backend/internal/models"
	"golang.org/x/exp/slices"
)

// RegisterCalendarRoutes registers the GAD calendar route with the
// RouterGroup that is passed.
func RegisterCalendarRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsCalendar)
	r.GET("", GetCalendar)
}

// CalendarEntry is a single date with at least one GAD event.
type CalendarEntry struct {
	Date     time.Time `json:"date" example:"2025-03-08T00:00:00Z"`
	PlanIDs  []uint    `json:"planIds"`  // Plans with an activity on this date
	Mandated bool      `json:"mandated"` // Does the date carry a mandated activity?
}

type CalendarResponse struct {
	Data  []CalendarEntry `json:"data"`
	Error *string         `json:"error" example:"the year query parameter must be set"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			GAD
// @Success		204
// @Router			/v1/gad/calendar [options]
func OptionsCalendar(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		GAD calendar
// @Description	Returns the dates of a year that carry GAD events. A plan is an event when it is mandated or has an approved proposal backed by a resolution.
// @Tags			GAD
// @Produce		json
// @Success		200		{object}	CalendarResponse
// @Failure		400		{object}	CalendarResponse
// @Failure		500		{object}	CalendarResponse
// @Param			year	query		int	true	"The year to return the calendar for"
// @Router			/v1/gad/calendar [get]
func GetCalendar(c *gin.Context) {
	var filter struct {
		Year int `form:"year"`
	}
	if err := c.Bind(&filter); err != nil || filter.Year == 0 {
		e := errCalendarYearNotSet.Error()
		c.JSON(http.StatusBadRequest, CalendarResponse{Error: &e})
		return
	}

	start := time.Date(filter.Year, 1, 1, 0, 0, 0, 0, time.UTC)

	var plans []models.AnnualDevPlan
	err := models.DB.
		Where("annual_dev_plans.archived = false").
		Where("annual_dev_plans.date >= date(?)", start).
		Where("annual_dev_plans.date < date(?)", start.AddDate(1, 0, 0)).
		Find(&plans).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CalendarResponse{Error: &e})
		return
	}

	// Plans with an approved proposal that is backed by a resolution
	var backedIDs []uint
	err = models.DB.
		Model(&models.ProjectProposal{}).
		Joins("JOIN resolutions ON resolutions.project_proposal_id = project_proposals.id").
		Where("project_proposals.status = ?", models.ProposalStatusApproved).
		Where("project_proposals.annual_dev_plan_id IS NOT NULL").
		Distinct().
		Pluck("project_proposals.annual_dev_plan_id", &backedIDs).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CalendarResponse{Error: &e})
		return
	}

	backed := make(map[uint]bool, len(backedIDs))
	for _, id := range backedIDs {
		backed[id] = true
	}

	entries := make(map[time.Time]*CalendarEntry)
	for _, plan := range plans {
		if !plan.Mandated && !backed[plan.ID] {
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

	data := make([]CalendarEntry, 0, len(entries))
	for _, entry := range entries {
		data = append(data, *entry)
	}

	// Deterministic order for clients rendering the calendar
	slices.SortFunc(data, func(a, b CalendarEntry) int {
		return a.Date.Compare(b.Date)
	})

	c.JSON(http.StatusOK, CalendarResponse{Data: data})
}
