package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AnnualDevPlan is a yearly planned GAD activity with budget and
// mandate metadata.
type AnnualDevPlan struct {
	Model
	Date        time.Time        `json:"date"`
	Client      string           `json:"client"`
	Issue       string           `json:"issue"`
	Responsible string           `json:"responsible"`
	Mandated    bool             `json:"mandated" gorm:"default:false"`
	Archived    bool             `json:"archived" gorm:"default:false"`
	BudgetItems []PlanBudgetItem `json:"budgetItems"`
}

// PlanBudgetItem is a single budgeted expense of an annual dev plan.
//
// Pax is free text in the upstream data ("5 pax", "all barangays"), the
// numeric prefix is what counts for totals.
type PlanBudgetItem struct {
	Model
	AnnualDevPlanID uint            `json:"planId"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	Pax             string          `json:"pax"`
}

func (b *PlanBudgetItem) AfterSave(_ *gorm.DB) error {
	if b.Amount.IsNegative() {
		return ErrPlanBudgetAmountNegative
	}

	return nil
}

// ProposalStatus is the review status of a project proposal.
type ProposalStatus string

const (
	ProposalStatusPending     ProposalStatus = "Pending"
	ProposalStatusViewed      ProposalStatus = "Viewed"
	ProposalStatusAmend       ProposalStatus = "Amend"
	ProposalStatusResubmitted ProposalStatus = "Resubmitted"
	ProposalStatusApproved    ProposalStatus = "Approved"
	ProposalStatusRejected    ProposalStatus = "Rejected"
)

// ProposalStatuses lists all valid proposal statuses.
var ProposalStatuses = []ProposalStatus{
	ProposalStatusPending,
	ProposalStatusViewed,
	ProposalStatusAmend,
	ProposalStatusResubmitted,
	ProposalStatusApproved,
	ProposalStatusRejected,
}

// ReasonRequired reports whether a status change to this status
// needs a stated reason.
func (s ProposalStatus) ReasonRequired() bool {
	return s == ProposalStatusAmend || s == ProposalStatusRejected
}

// ProjectProposal is a GAD project proposal under review.
type ProjectProposal struct {
	Model
	AnnualDevPlanID *uint                `json:"planId"`
	Title           string               `json:"title"`
	Location        string               `json:"location"`
	Date            time.Time            `json:"date"`
	Status          ProposalStatus       `json:"status" gorm:"default:Pending"`
	Reason          string               `json:"reason"`
	Archived        bool                 `json:"archived" gorm:"default:false"`
	BudgetItems     []ProposalBudgetItem `json:"budgetItems"`
	Objectives      []ProposalObjective  `json:"objectives"`
	Participants    []Participant        `json:"participants"`
	Signatories     []Signatory          `json:"signatories"`
	SupportDocs     []SupportDoc         `json:"supportDocs"`
}

func (p *ProjectProposal) BeforeSave(_ *gorm.DB) error {
	p.Title = strings.TrimSpace(p.Title)

	if p.Status == "" {
		p.Status = ProposalStatusPending
	}

	return nil
}

type ProposalBudgetItem struct {
	Model
	ProjectProposalID uint            `json:"proposalId"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"`
	Pax               string          `json:"pax"`
}

type ProposalObjective struct {
	Model
	ProjectProposalID uint   `json:"proposalId"`
	Text              string `json:"text"`
}

type Participant struct {
	Model
	ProjectProposalID uint   `json:"proposalId"`
	Name              string `json:"name"`
	Role              string `json:"role"`
}

type Signatory struct {
	Model
	ProjectProposalID uint   `json:"proposalId"`
	Name              string `json:"name"`
	Position          string `json:"position"`
}

// SupportDoc is a file attached to a proposal. Only the metadata is
// stored, the file itself lives in the upload store and is referenced
// by its UUID.
type SupportDoc struct {
	Model
	ProjectProposalID uint   `json:"proposalId"`
	Name              string `json:"name"`
	FileID            string `json:"fileId"`
	Archived          bool   `json:"archived" gorm:"default:false"`
}

// Resolution backs an approved proposal with a council resolution.
type Resolution struct {
	Model
	ProjectProposalID uint      `json:"proposalId"`
	Number            string    `json:"number" gorm:"uniqueIndex:resolution_number"`
	ApprovedOn        time.Time `json:"approvedOn"`
}

func (r *Resolution) BeforeSave(_ *gorm.DB) error {
	r.Number = strings.TrimSpace(r.Number)
	return nil
}
