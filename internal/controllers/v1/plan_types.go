package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/munisuite/backend/internal/models"
	"github.com/shopspring/decimal"
)

type PlanBudgetItemEditable struct {
	Description string          `json:"description" example:"Meals and snacks"`
	Amount      decimal.Decimal `json:"amount" example:"1500.00" minimum:"0.00" multipleOf:"0.01"` // The amount for this budget item
	Pax         string          `json:"pax" example:"25 pax" default:""`                           // Number of participants, free text with a numeric prefix
}

func (editable PlanBudgetItemEditable) model() models.PlanBudgetItem {
	return models.PlanBudgetItem{
		Description: editable.Description,
		Amount:      editable.Amount,
		Pax:         editable.Pax,
	}
}

type PlanEditable struct {
	Date        time.Time                `json:"date" example:"2025-03-08T00:00:00Z"`        // Date of the planned activity
	Client      string                   `json:"client" example:"Women and children"`        // The client group of the activity
	Issue       string                   `json:"issue" example:"GBV awareness" default:""`   // The GAD issue the activity addresses
	Responsible string                   `json:"responsible" example:"MSWDO"`                // Person or office responsible
	Mandated    bool                     `json:"mandated" example:"true" default:"false"`    // Is this a mandated activity?
	Archived    bool                     `json:"archived" example:"false" default:"false"`   // Is the plan archived?
	BudgetItems []PlanBudgetItemEditable `json:"budgetItems"`                                // Budgeted expenses of the activity
}

// model returns the database resource for the API representation of the editable fields
func (editable PlanEditable) model() models.AnnualDevPlan {
	items := make([]models.PlanBudgetItem, 0, len(editable.BudgetItems))
	for _, item := range editable.BudgetItems {
		items = append(items, item.model())
	}

	return models.AnnualDevPlan{
		Date:        editable.Date,
		Client:      editable.Client,
		Issue:       editable.Issue,
		Responsible: editable.Responsible,
		Mandated:    editable.Mandated,
		Archived:    editable.Archived,
		BudgetItems: items,
	}
}

// planBudgetTotal sums the amounts of all budget items of a plan.
func planBudgetTotal(plan models.AnnualDevPlan) decimal.Decimal {
	total := decimal.Zero
	for _, item := range plan.BudgetItems {
		total = total.Add(item.Amount)
	}

	return total
}

type PlanLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/gad/annual-dev-plans/17"` // The plan itself
}

// Plan is the API representation of an annual dev plan.
type Plan struct {
	models.Model
	PlanEditable
	Links PlanLinks `json:"links"`
}

// newPlan returns the API representation of the resource
func newPlan(c *gin.Context, model models.AnnualDevPlan) Plan {
	url := c.GetString(string(models.ContextKeyBaseURL))

	items := make([]PlanBudgetItemEditable, 0, len(model.BudgetItems))
	for _, item := range model.BudgetItems {
		items = append(items, PlanBudgetItemEditable{
			Description: item.Description,
			Amount:      item.Amount,
			Pax:         item.Pax,
		})
	}

	return Plan{
		Model: model.Model,
		PlanEditable: PlanEditable{
			Date:        model.Date,
			Client:      model.Client,
			Issue:       model.Issue,
			Responsible: model.Responsible,
			Mandated:    model.Mandated,
			Archived:    model.Archived,
			BudgetItems: items,
		},
		Links: PlanLinks{
			Self: fmt.Sprintf("%s/v1/gad/annual-dev-plans/%d", url, model.ID),
		},
	}
}

type PlanResponse struct {
	Data  *Plan   `json:"data"`                                                   // The plan data, if the request was successful
	Error *string `json:"error" example:"there is no annual dev plan matching your query"` // The error, if any occurred
}

type PlanListResponse struct {
	Data       []Plan      `json:"data"`       // List of plans
	Error      *string     `json:"error"`      // The error, if any occurred
	Pagination *Pagination `json:"pagination"` // Pagination information
}

type PlanQueryFilter struct {
	Year        int    `form:"year" filterField:"false"`   // Only plans for this year
	Client      string `form:"client"`                     // Filter by client group
	Responsible string `form:"responsible"`                // Filter by responsible person
	Mandated    bool   `form:"mandated"`                   // Is the plan mandated?
	Archived    bool   `form:"archived"`                   // Is the plan archived?
	Search      string `form:"search" filterField:"false"` // Search in client, issue and responsible
	Offset      uint   `form:"offset" filterField:"false"` // The offset of the first plan returned. Defaults to 0.
	Limit       int    `form:"limit" filterField:"false"`  // Maximum number of plans to return. Defaults to 50.
}

func (f PlanQueryFilter) model() models.AnnualDevPlan {
	return models.AnnualDevPlan{
		Client:      f.Client,
		Responsible: f.Responsible,
		Mandated:    f.Mandated,
		Archived:    f.Archived,
	}
}

// BulkPlanUpdate is the request body for archiving or restoring
// multiple plans in one call.
type BulkPlanUpdate struct {
	IDs      []uint `json:"ids" example:"4,8,23"` // IDs of the plans to update
	Archived bool   `json:"archived" example:"true"`
}

// BulkPlanDelete is the request body for permanently deleting
// multiple plans in one call.
type BulkPlanDelete struct {
	IDs []uint `json:"ids" example:"4,8,23"` // IDs of the plans to delete
}
