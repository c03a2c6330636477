package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// WasteCollectionSchedule is a scheduled waste collection event for
// one sitio.
type WasteCollectionSchedule struct {
	Model
	Date       time.Time        `json:"date"`
	Time       string           `json:"time" example:"07:30"`
	Sitio      string           `json:"sitio"`
	Archived   bool             `json:"archived" gorm:"default:false"`
	Assignment *WasteAssignment `json:"assignment"`
}

func (s *WasteCollectionSchedule) BeforeSave(_ *gorm.DB) error {
	s.Sitio = strings.TrimSpace(s.Sitio)
	return nil
}

// WasteAssignment is the crew assigned to a collection schedule.
type WasteAssignment struct {
	Model
	WasteCollectionScheduleID uint             `json:"scheduleId"`
	Driver                    string           `json:"driver"`
	TruckPlate                string           `json:"truckPlate"`
	Collectors                []WasteCollector `json:"collectors"`
}

func (a *WasteAssignment) AfterSave(_ *gorm.DB) error {
	if strings.TrimSpace(a.Driver) == "" || strings.TrimSpace(a.TruckPlate) == "" {
		return ErrScheduleCrewIncomplete
	}

	return nil
}

type WasteCollector struct {
	Model
	WasteAssignmentID uint   `json:"assignmentId"`
	Name              string `json:"name"`
}
