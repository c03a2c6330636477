package models_test

import (
	"time"

	"github.com/munisuite/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestPlanBudgetItemAmountNegative() {
	plan := models.AnnualDevPlan{
		Date:   time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		Client: "Solo parents",
		BudgetItems: []models.PlanBudgetItem{
			{Description: "Meals", Amount: decimal.NewFromInt(-100)},
		},
	}

	err := models.DB.Create(&plan).Error
	assert.ErrorIs(suite.T(), err, models.ErrPlanBudgetAmountNegative)
}

func (suite *TestSuiteStandard) TestProposalDefaults() {
	proposal := models.ProjectProposal{
		Title: "  GBV awareness seminar  ",
	}

	require.Nil(suite.T(), models.DB.Create(&proposal).Error)

	assert.Equal(suite.T(), models.ProposalStatusPending, proposal.Status)
	assert.Equal(suite.T(), "GBV awareness seminar", proposal.Title, "the title must be trimmed")
}

func (suite *TestSuiteStandard) TestProposalStatusReasonRequired() {
	tests := []struct {
		status   models.ProposalStatus
		required bool
	}{
		{models.ProposalStatusPending, false},
		{models.ProposalStatusViewed, false},
		{models.ProposalStatusAmend, true},
		{models.ProposalStatusResubmitted, false},
		{models.ProposalStatusApproved, false},
		{models.ProposalStatusRejected, true},
	}

	for _, tt := range tests {
		assert.Equal(suite.T(), tt.required, tt.status.ReasonRequired(), "status %s", tt.status)
	}
}

func (suite *TestSuiteStandard) TestResolutionNumberUnique() {
	proposal := models.ProjectProposal{Title: "Coastal cleanup"}
	require.Nil(suite.T(), models.DB.Create(&proposal).Error)

	first := models.Resolution{ProjectProposalID: proposal.ID, Number: "2025-017"}
	require.Nil(suite.T(), models.DB.Create(&first).Error)

	// The number is trimmed before the uniqueness check.
	second := models.Resolution{ProjectProposalID: proposal.ID, Number: "  2025-017  "}
	err := models.DB.Create(&second).Error
	assert.ErrorIs(suite.T(), err, models.ErrResolutionNumberNotUnique)
}
