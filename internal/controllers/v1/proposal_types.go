package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/munisuite/backend/internal/models"
	"github.com/shopspring/decimal"
)

type ProposalBudgetItemEditable struct {
	Description string          `json:"description" example:"Venue rental"`
	Amount      decimal.Decimal `json:"amount" example:"5000.00"`
	Pax         string          `json:"pax" example:"40 pax" default:""`
}

type ProposalObjectiveEditable struct {
	Text string `json:"text" example:"Increase attendance of GBV seminars by 20%"`
}

type ParticipantEditable struct {
	Name string `json:"name" example:"Maria Santos"`
	Role string `json:"role" example:"Facilitator"`
}

type SignatoryEditable struct {
	Name     string `json:"name" example:"Jose Ramirez"`
	Position string `json:"position" example:"Municipal Mayor"`
}

type ProposalEditable struct {
	PlanID       *uint                        `json:"planId" example:"4"` // ID of the annual dev plan this proposal implements
	Title        string                       `json:"title" example:"GBV awareness seminar"`
	Location     string                       `json:"location" example:"Barangay hall, Poblacion"`
	Date         time.Time                    `json:"date" example:"2025-03-08T00:00:00Z"`
	Archived     bool                         `json:"archived" example:"false" default:"false"`
	BudgetItems  []ProposalBudgetItemEditable `json:"budgetItems"`
	Objectives   []ProposalObjectiveEditable  `json:"objectives"`
	Participants []ParticipantEditable        `json:"participants"`
	Signatories  []SignatoryEditable          `json:"signatories"`
}

// model returns the database resource for the API representation of the editable fields
func (editable ProposalEditable) model() models.ProjectProposal {
	proposal := models.ProjectProposal{
		AnnualDevPlanID: editable.PlanID,
		Title:           editable.Title,
		Location:        editable.Location,
		Date:            editable.Date,
		Archived:        editable.Archived,
	}

	for _, item := range editable.BudgetItems {
		proposal.BudgetItems = append(proposal.BudgetItems, models.ProposalBudgetItem{
			Description: item.Description,
			Amount:      item.Amount,
			Pax:         item.Pax,
		})
	}

	for _, objective := range editable.Objectives {
		proposal.Objectives = append(proposal.Objectives, models.ProposalObjective{Text: objective.Text})
	}

	for _, participant := range editable.Participants {
		proposal.Participants = append(proposal.Participants, models.Participant{Name: participant.Name, Role: participant.Role})
	}

	for _, signatory := range editable.Signatories {
		proposal.Signatories = append(proposal.Signatories, models.Signatory{Name: signatory.Name, Position: signatory.Position})
	}

	return proposal
}

// ProposalReview is the request body for a status update of a proposal.
type ProposalReview struct {
	Status models.ProposalStatus `json:"status" example:"Approved"`
	Reason string                `json:"reason" example:"Budget exceeds the yearly allocation" default:""` // Required when the status is Amend or Rejected
}

type ProposalLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/gad/project-proposals/3"`
	SupportDocs string `json:"supportDocs" example:"https://example.com/api/v1/gad/project-proposals/3/support-docs"`
}

// Proposal is the API representation of a project proposal.
type Proposal struct {
	models.Model
	ProposalEditable
	Status      models.ProposalStatus `json:"status" example:"Pending"`
	Reason      string                `json:"reason"`
	SupportDocs []SupportDocData      `json:"supportDocs"`
	Links       ProposalLinks         `json:"links"`
}

func newProposal(c *gin.Context, model models.ProjectProposal) Proposal {
	url := c.GetString(string(models.ContextKeyBaseURL))

	editable := ProposalEditable{
		PlanID:   model.AnnualDevPlanID,
		Title:    model.Title,
		Location: model.Location,
		Date:     model.Date,
		Archived: model.Archived,
	}

	for _, item := range model.BudgetItems {
		editable.BudgetItems = append(editable.BudgetItems, ProposalBudgetItemEditable{
			Description: item.Description,
			Amount:      item.Amount,
			Pax:         item.Pax,
		})
	}

	for _, objective := range model.Objectives {
		editable.Objectives = append(editable.Objectives, ProposalObjectiveEditable{Text: objective.Text})
	}

	for _, participant := range model.Participants {
		editable.Participants = append(editable.Participants, ParticipantEditable{Name: participant.Name, Role: participant.Role})
	}

	for _, signatory := range model.Signatories {
		editable.Signatories = append(editable.Signatories, SignatoryEditable{Name: signatory.Name, Position: signatory.Position})
	}

	docs := make([]SupportDocData, 0, len(model.SupportDocs))
	for _, doc := range model.SupportDocs {
		docs = append(docs, newSupportDoc(doc))
	}

	return Proposal{
		Model:            model.Model,
		ProposalEditable: editable,
		Status:           model.Status,
		Reason:           model.Reason,
		SupportDocs:      docs,
		Links: ProposalLinks{
			Self:        fmt.Sprintf("%s/v1/gad/project-proposals/%d", url, model.ID),
			SupportDocs: fmt.Sprintf("%s/v1/gad/project-proposals/%d/support-docs", url, model.ID),
		},
	}
}

type ProposalResponse struct {
	Data  *Proposal `json:"data"`
	Error *string   `json:"error" example:"there is no project proposal matching your query"`
}

type ProposalListResponse struct {
	Data       []Proposal  `json:"data"`
	Error      *string     `json:"error"`
	Pagination *Pagination `json:"pagination"`
}

type ProposalQueryFilter struct {
	Status   models.ProposalStatus `form:"status"`                     // Filter by review status
	Archived bool                  `form:"archived"`                   // Is the proposal archived?
	PlanID   uint                  `form:"plan" filterField:"false"`   // ID of the annual dev plan
	Search   string                `form:"search" filterField:"false"` // Search in title and location
	Offset   uint                  `form:"offset" filterField:"false"` // The offset of the first proposal returned. Defaults to 0.
	Limit    int                   `form:"limit" filterField:"false"`  // Maximum number of proposals to return. Defaults to 50.
}

func (f ProposalQueryFilter) model() models.ProjectProposal {
	return models.ProjectProposal{
		Status:   f.Status,
		Archived: f.Archived,
	}
}

// SupportDocEditable is the request body to attach a document to a proposal.
type SupportDocEditable struct {
	Name   string `json:"name" example:"Barangay endorsement letter"`
	FileID string `json:"fileId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"` // Upload store reference. Generated when empty.
}

// SupportDocData is the API representation of a support document.
type SupportDocData struct {
	models.Model
	ProposalID uint   `json:"proposalId"`
	Name       string `json:"name"`
	FileID     string `json:"fileId"`
	Archived   bool   `json:"archived"`
}

func newSupportDoc(model models.SupportDoc) SupportDocData {
	return SupportDocData{
		Model:      model.Model,
		ProposalID: model.ProjectProposalID,
		Name:       model.Name,
		FileID:     model.FileID,
		Archived:   model.Archived,
	}
}

type SupportDocResponse struct {
	Data  *SupportDocData `json:"data"`
	Error *string         `json:"error"`
}

type SupportDocListResponse struct {
	Data  []SupportDocData `json:"data"`
	Error *string          `json:"error"`
}
