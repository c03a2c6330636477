package models

import (
	"time"

	"gorm.io/gorm"
)

// Model is the base model for all other models in the backend.
//
// IDs are plain integers since they are exposed to clients as numeric
// references (e.g. in allocation submissions).
type Model struct {
	ID        uint           `json:"id"`
	CreatedAt time.Time      `json:"createdAt" example:"2024-04-02T19:28:44.491514Z"`
	UpdatedAt time.Time      `json:"updatedAt" example:"2024-04-17T20:14:01.048145Z"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index" swaggertype:"primitive,string"`
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000.
//
// We already store them in UTC, but reading them back
// from the database returns them as +0000.
func (m *Model) AfterFind(_ *gorm.DB) (err error) {
	m.CreatedAt = m.CreatedAt.In(time.UTC)
	m.UpdatedAt = m.UpdatedAt.In(time.UTC)

	return nil
}
