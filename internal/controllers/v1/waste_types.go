package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/munisuite/backend/internal/models"
)

type WasteCollectorEditable struct {
	Name string `json:"name" example:"Rodel Cruz"`
}

type WasteAssignmentEditable struct {
	Driver     string                   `json:"driver" example:"Efren Dizon"`
	TruckPlate string                   `json:"truckPlate" example:"SKT-1234"`
	Collectors []WasteCollectorEditable `json:"collectors"`
}

type ScheduleEditable struct {
	Date       time.Time                `json:"date" example:"2025-06-02T00:00:00Z"` // Collection date
	Time       string                   `json:"time" example:"07:30"`                // Collection time of day
	Sitio      string                   `json:"sitio" example:"Sitio Looban"`
	Archived   bool                     `json:"archived" example:"false" default:"false"`
	Assignment *WasteAssignmentEditable `json:"assignment"` // The crew assigned to this schedule
}

// model returns the database resource for the API representation of the editable fields
func (editable ScheduleEditable) model() models.WasteCollectionSchedule {
	schedule := models.WasteCollectionSchedule{
		Date:     editable.Date,
		Time:     editable.Time,
		Sitio:    editable.Sitio,
		Archived: editable.Archived,
	}

	if editable.Assignment != nil {
		assignment := &models.WasteAssignment{
			Driver:     editable.Assignment.Driver,
			TruckPlate: editable.Assignment.TruckPlate,
		}
		for _, collector := range editable.Assignment.Collectors {
			assignment.Collectors = append(assignment.Collectors, models.WasteCollector{Name: collector.Name})
		}
		schedule.Assignment = assignment
	}

	return schedule
}

// AssignmentEditable is the request body to assign a crew to a schedule.
type AssignmentEditable struct {
	ScheduleID uint                     `json:"scheduleId" example:"9"` // ID of the schedule the crew works
	Driver     string                   `json:"driver" example:"Efren Dizon"`
	TruckPlate string                   `json:"truckPlate" example:"SKT-1234"`
	Collectors []WasteCollectorEditable `json:"collectors"`
}

func (editable AssignmentEditable) model() models.WasteAssignment {
	assignment := models.WasteAssignment{
		WasteCollectionScheduleID: editable.ScheduleID,
		Driver:                    editable.Driver,
		TruckPlate:                editable.TruckPlate,
	}

	for _, collector := range editable.Collectors {
		assignment.Collectors = append(assignment.Collectors, models.WasteCollector{Name: collector.Name})
	}

	return assignment
}

// AssignmentData is the API representation of a crew assignment.
type AssignmentData struct {
	models.Model
	AssignmentEditable
}

func newAssignment(model models.WasteAssignment) AssignmentData {
	editable := AssignmentEditable{
		ScheduleID: model.WasteCollectionScheduleID,
		Driver:     model.Driver,
		TruckPlate: model.TruckPlate,
	}

	for _, collector := range model.Collectors {
		editable.Collectors = append(editable.Collectors, WasteCollectorEditable{Name: collector.Name})
	}

	return AssignmentData{
		Model:              model.Model,
		AssignmentEditable: editable,
	}
}

type AssignmentResponse struct {
	Data  *AssignmentData `json:"data"`
	Error *string         `json:"error" example:"the schedule already has a crew assigned, use PUT to replace it"`
}

type ScheduleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/waste/schedules/9"`
}

// Schedule is the API representation of a waste collection schedule.
type Schedule struct {
	models.Model
	ScheduleEditable
	Links ScheduleLinks `json:"links"`
}

func newSchedule(c *gin.Context, model models.WasteCollectionSchedule) Schedule {
	url := c.GetString(string(models.ContextKeyBaseURL))

	editable := ScheduleEditable{
		Date:     model.Date,
		Time:     model.Time,
		Sitio:    model.Sitio,
		Archived: model.Archived,
	}

	if model.Assignment != nil {
		assignment := &WasteAssignmentEditable{
			Driver:     model.Assignment.Driver,
			TruckPlate: model.Assignment.TruckPlate,
		}
		for _, collector := range model.Assignment.Collectors {
			assignment.Collectors = append(assignment.Collectors, WasteCollectorEditable{Name: collector.Name})
		}
		editable.Assignment = assignment
	}

	return Schedule{
		Model:            model.Model,
		ScheduleEditable: editable,
		Links: ScheduleLinks{
			Self: fmt.Sprintf("%s/v1/waste/schedules/%d", url, model.ID),
		},
	}
}

type ScheduleResponse struct {
	Data  *Schedule `json:"data"`
	Error *string   `json:"error" example:"there is no waste collection schedule matching your query"`
}

type ScheduleListResponse struct {
	Data       []Schedule  `json:"data"`
	Error      *string     `json:"error"`
	Pagination *Pagination `json:"pagination"`
}

type ScheduleQueryFilter struct {
	Sitio    string `form:"sitio"`                      // Filter by sitio
	Archived bool   `form:"archived"`                   // Is the schedule archived?
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first schedule returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of schedules to return. Defaults to 50.
}

func (f ScheduleQueryFilter) model() models.WasteCollectionSchedule {
	return models.WasteCollectionSchedule{
		Sitio:    f.Sitio,
		Archived: f.Archived,
	}
}
