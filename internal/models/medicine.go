package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// MedicineInventory is a stock entry for a single medicine and dosage.
type MedicineInventory struct {
	Model
	Name      string    `json:"name" gorm:"uniqueIndex:medicine_inventory_name_dosage"`
	Dosage    string    `json:"dosage" gorm:"uniqueIndex:medicine_inventory_name_dosage"`
	Form      string    `json:"form"`
	Available int       `json:"available"`
	ExpiresOn time.Time `json:"expiresOn"`
}

func (m *MedicineInventory) BeforeSave(_ *gorm.DB) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Dosage = strings.TrimSpace(m.Dosage)

	return nil
}

func (m *MedicineInventory) AfterSave(_ *gorm.DB) error {
	if m.Available < 0 {
		return ErrInventoryQuantityNegative
	}

	return nil
}

// RequestStatus is the workflow stage of a medicine request.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusProcessing RequestStatus = "processing"
	RequestStatusCompleted  RequestStatus = "completed"
)

// ItemStatus is the status of a single medicine request line item.
//
// Items start out pending. Confirmation happens implicitly through
// allocation. Referred items move to "on_referred" once the referral
// has been acknowledged.
type ItemStatus string

const (
	ItemStatusPending    ItemStatus = "pending"
	ItemStatusConfirmed  ItemStatus = "confirmed"
	ItemStatusReferred   ItemStatus = "referred"
	ItemStatusOnReferred ItemStatus = "on_referred"
	ItemStatusRejected   ItemStatus = "rejected"
)

// ItemStatuses lists all valid request item statuses.
var ItemStatuses = []ItemStatus{
	ItemStatusPending,
	ItemStatusConfirmed,
	ItemStatusReferred,
	ItemStatusOnReferred,
	ItemStatusRejected,
}

// MedicineRequest is a patient's request for medicines.
type MedicineRequest struct {
	Model
	PatientName string                `json:"patientName"`
	Status      RequestStatus         `json:"status" gorm:"default:pending"`
	Items       []MedicineRequestItem `json:"items"`
}

func (r *MedicineRequest) BeforeSave(_ *gorm.DB) error {
	r.PatientName = strings.TrimSpace(r.PatientName)

	if r.Status == "" {
		r.Status = RequestStatusPending
	}

	return nil
}

// MedicineRequestItem is a single line item of a medicine request.
type MedicineRequestItem struct {
	Model
	MedicineRequestID   uint              `json:"requestId"`
	MedicineInventoryID uint              `json:"inventoryId"`
	MedicineInventory   MedicineInventory `json:"-"`
	Quantity            int               `json:"quantity"`
	Status              ItemStatus        `json:"status" gorm:"default:pending"`
	Prescription        bool              `json:"prescription" gorm:"default:false"`
	ArchiveReason       string            `json:"archiveReason"`
	Archived            bool              `json:"archived" gorm:"default:false"`
}

func (i *MedicineRequestItem) BeforeCreate(tx *gorm.DB) error {
	return tx.First(&MedicineInventory{}, i.MedicineInventoryID).Error
}

// MedicineAllocation links a confirmed request item to the stock entry
// it was served from.
type MedicineAllocation struct {
	Model
	MedicineRequestItemID uint   `json:"requestItemId"`
	MedicineInventoryID   uint   `json:"inventoryId"`
	Quantity              int    `json:"quantity"`
	Reason                string `json:"reason"`
	StaffID               string `json:"staffId"`
	Signature             string `json:"signature"` // Base64 signature image, stored as-is
}
