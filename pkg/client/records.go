package client

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetItem is a single budgeted expense of a plan or proposal.
type BudgetItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Pax         string          `json:"pax"` // Free text with a numeric prefix, e.g. "25 pax"
}

// Plan is an annual development plan.
type Plan struct {
	ID          uint         `json:"id"`
	Date        time.Time    `json:"date"`
	Client      string       `json:"client"`
	Issue       string       `json:"issue"`
	Responsible string       `json:"responsible"`
	Mandated    bool         `json:"mandated"`
	Archived    bool         `json:"archived"`
	BudgetItems []BudgetItem `json:"budgetItems"`
}

// Objective is a measurable goal of a proposal.
type Objective struct {
	Text string `json:"text"`
}

// Participant takes part in a proposed activity.
type Participant struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Signatory signs off a proposal.
type Signatory struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

// SupportDoc is a document attached to a proposal.
type SupportDoc struct {
	ID         uint   `json:"id"`
	ProposalID uint   `json:"proposalId"`
	Name       string `json:"name"`
	FileID     string `json:"fileId"`
	Archived   bool   `json:"archived"`
}

// Proposal is a GAD project proposal.
type Proposal struct {
	ID           uint          `json:"id"`
	PlanID       *uint         `json:"planId"`
	Title        string        `json:"title"`
	Location     string        `json:"location"`
	Date         time.Time     `json:"date"`
	Status       Status        `json:"status"`
	Reason       string        `json:"reason"`
	Archived     bool          `json:"archived"`
	BudgetItems  []BudgetItem  `json:"budgetItems"`
	Objectives   []Objective   `json:"objectives"`
	Participants []Participant `json:"participants"`
	Signatories  []Signatory   `json:"signatories"`
	SupportDocs  []SupportDoc  `json:"supportDocs"`
}

// Resolution is a council resolution backing a proposal.
type Resolution struct {
	ID         uint      `json:"id"`
	ProposalID uint      `json:"proposalId"`
	Number     string    `json:"number"`
	ApprovedOn time.Time `json:"approvedOn"`
}

// CalendarEntry is a single date of the GAD calendar.
type CalendarEntry struct {
	Date     time.Time `json:"date"`
	PlanIDs  []uint    `json:"planIds"`
	Mandated bool      `json:"mandated"`
}

// Inventory is a medicine stock entry.
type Inventory struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Form      string    `json:"form"`
	Available int       `json:"available"`
	ExpiresOn time.Time `json:"expiresOn"`
}

// RequestItem is a single line of a medicine request.
type RequestItem struct {
	ID            uint   `json:"id"`
	RequestID     uint   `json:"requestId"`
	InventoryID   uint   `json:"inventoryId"`
	Medicine      string `json:"medicine"`
	Quantity      int    `json:"quantity"`
	Available     int    `json:"available"` // Stock available at the time of the query
	Status        string `json:"status"`
	Prescription  bool   `json:"prescription"`
	ArchiveReason string `json:"archiveReason"`
	Archived      bool   `json:"archived"`
}

// Request is a patient's medicine request.
type Request struct {
	ID          uint          `json:"id"`
	PatientName string        `json:"patientName"`
	Status      string        `json:"status"`
	Items       []RequestItem `json:"items"`
}

// Allocation is a dispensed medicine allocation.
type Allocation struct {
	ID            uint   `json:"id"`
	RequestItemID uint   `json:"requestItemId"`
	InventoryID   uint   `json:"inventoryId"`
	Quantity      int    `json:"quantity"`
	Reason        string `json:"reason"`
	StaffID       string `json:"staffId"`
	Signature     string `json:"signature"` // Base64 signature image
}

// SelectedMedicine is one line of an allocation submission.
type SelectedMedicine struct {
	InventoryID   uint   `json:"inventoryId"`
	Quantity      int    `json:"quantity"`
	RequestItemID uint   `json:"requestItemId"`
	Reason        string `json:"reason"`
}

// Collector is a member of a waste collection crew.
type Collector struct {
	Name string `json:"name"`
}

// Assignment is the crew assigned to a collection schedule.
type Assignment struct {
	Driver     string      `json:"driver"`
	TruckPlate string      `json:"truckPlate"`
	Collectors []Collector `json:"collectors"`
}

// Schedule is a waste collection schedule.
type Schedule struct {
	ID         uint        `json:"id"`
	Date       time.Time   `json:"date"`
	Time       string      `json:"time"`
	Sitio      string      `json:"sitio"`
	Archived   bool        `json:"archived"`
	Assignment *Assignment `json:"assignment"`
}
