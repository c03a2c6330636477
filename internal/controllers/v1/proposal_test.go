package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/munisuite/backend/internal/controllers/v1"
	"github.com/munisuite/backend/internal/models"
	"github.com/munisuite/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestCreateProposal() {
	plan := createTestPlan(suite.T(), v1.PlanEditable{})

	proposal := createTestProposal(suite.T(), v1.ProposalEditable{
		PlanID:   &plan.Data.ID,
		Title:    "GBV awareness seminar",
		Location: "Barangay hall, Poblacion",
		BudgetItems: []v1.ProposalBudgetItemEditable{
			{Description: "Venue rental", Amount: decimal.NewFromInt(5000), Pax: "40 pax"},
		},
		Objectives:   []v1.ProposalObjectiveEditable{{Text: "Increase attendance of GBV seminars by 20%"}},
		Participants: []v1.ParticipantEditable{{Name: "Maria Santos", Role: "Facilitator"}},
		Signatories:  []v1.SignatoryEditable{{Name: "Jose Ramirez", Position: "Municipal Mayor"}},
	})

	assert.Equal(suite.T(), models.ProposalStatusPending, proposal.Data.Status, "new proposals start as Pending")
	assert.Equal(suite.T(), plan.Data.ID, *proposal.Data.PlanID)
	assert.Len(suite.T(), proposal.Data.Objectives, 1)
	assert.Len(suite.T(), proposal.Data.Signatories, 1)
	assert.Contains(suite.T(), proposal.Data.Links.SupportDocs, fmt.Sprintf("/v1/gad/project-proposals/%d/support-docs", proposal.Data.ID))
}

func (suite *TestSuiteStandard) TestGetProposalsFilterStatus() {
	approved := createTestProposal(suite.T(), v1.ProposalEditable{})
	_ = createTestProposal(suite.T(), v1.ProposalEditable{})

	recorder := test.Request(suite.T(), http.MethodPatch,
		fmt.Sprintf("http://example.com/v1/gad/project-proposals/%d/review", approved.Data.ID),
		v1.ProposalReview{Status: models.ProposalStatusApproved})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/gad/project-proposals?status=Approved", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ProposalListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), approved.Data.ID, response.Data[0].ID)
}

func (suite *TestSuiteStandard) TestGetProposalsInvalidStatusFilter() {
	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/gad/project-proposals?status=Cancelled", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetProposalsFilterPlan() {
	plan := createTestPlan(suite.T(), v1.PlanEditable{})
	linked := createTestProposal(suite.T(), v1.ProposalEditable{PlanID: &plan.Data.ID})
	_ = createTestProposal(suite.T(), v1.ProposalEditable{})

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/gad/project-proposals?plan=%d", plan.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ProposalListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), linked.Data.ID, response.Data[0].ID)
}

func (suite *TestSuiteStandard) TestGetProposalsSearch() {
	_ = createTestProposal(suite.T(), v1.ProposalEditable{Title: "Coastal cleanup drive"})
	_ = createTestProposal(suite.T(), v1.ProposalEditable{Title: "Livelihood training", Location: "Sitio Looban"})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/gad/project-proposals?search=looban", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ProposalListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), "Livelihood training", response.Data[0].Title)
}

func (suite *TestSuiteStandard) TestGetProposalNotFound() {
	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/gad/project-proposals/4711", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestUpdateProposalReplacesAssociations() {
	proposal := createTestProposal(suite.T(), v1.ProposalEditable{
		Objectives: []v1.ProposalObjectiveEditable{
			{Text: "First objective"},
			{Text: "Second objective"},
		},
		Participants: []v1.ParticipantEditable{{Name: "Maria Santos", Role: "Facilitator"}},
	})

	recorder := test.Request(suite.T(), http.MethodPatch,
		fmt.Sprintf("http://example.com/v1/gad/project-proposals/%d", proposal.Data.ID),
		map[string]any{"objectives": []map[string]any{{"text": "Only objective"}}})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ProposalResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data.Objectives, 1)
	assert.Equal(suite.T(), "Only objective", response.Data.Objectives[0].Text)
	assert.Len(suite.T(), response.Data.Participants, 1, "associations not in the body must be untouched")
}

func (suite *TestSuiteStandard) TestReviewProposalTransitions() {
	tests := []struct {
		status models.ProposalStatus
		reason string
	}{
		{models.ProposalStatusViewed, ""},
		{models.ProposalStatusAmend, "Attach the barangay endorsement"},
		{models.ProposalStatusResubmitted, ""},
		{models.ProposalStatusApproved, ""},
	}

	proposal := createTestProposal(suite.T(), v1.ProposalEditable{})

	for _, tt := range tests {
		suite.T().Run(string(tt.status), func(t *testing.T) {
			recorder := test.Request(t, http.MethodPatch,
				fmt.Sprintf("http://example.com/v1/gad/project-proposals/%d/review", proposal.Data.ID),
				v1.ProposalReview{Status: tt.status, Reason: tt.reason})
			test.AssertHTTPStatus(t, &recorder, http.StatusOK)

			var response v1.ProposalResponse
			test.DecodeResponse(t, &recorder, &response)
			assert.Equal(t, tt.status, response.Data.Status)
		})
	}
}

func (suite *TestSuiteStandard) TestReviewProposalReasonRequired() {
	proposal := createTestProposal(suite.T(), v1.ProposalEditable{})

	for _, status := range []models.ProposalStatus{models.ProposalStatusAmend, models.ProposalStatusRejected} {
		suite.T().Run(string(status), func(t *testing.T) {
			recorder := test.Request(t, http.MethodPatch,
				fmt.Sprintf("http://example.com/v1/gad/project-proposals/%d/review", proposal.Data.ID),
				v1.ProposalReview{Status: status, Reason: "   "})
			test.AssertHTTPStatus(t, &recorder, http.StatusBadRequest)

			var response v1.ProposalResponse
			test.DecodeResponse(t, &recorder, &response)
			assert.Equal(t, models.ErrProposalReasonRequired.Error(), *response.Error)
		})
	}
}

func (suite *TestSuiteStandard) TestReviewProposalInvalidStatus() {
	proposal := createTestProposal(suite.T(), v1.ProposalEditable{})

	recorder := test.Request(suite.T(), http.MethodPatch,
		fmt.Sprintf("http://example.com/v1/gad/project-proposals/%d/review", proposal.Data.ID),
		map[string]any{"status": "Cancelled"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestDeleteProposal() {
	proposal := createTestProposal(suite.T(), v1.ProposalEditable{})

	recorder := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/gad/project-proposals/%d", proposal.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/gad/project-proposals/%d", proposal.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCreateSupportDocGeneratesFileID() {
	proposal := createTestProposal(suite.T(), v1.ProposalEditable{})

	doc := createTestSupportDoc(suite.T(), proposal.Data.ID, v1.SupportDocEditable{Name: "Attendance sheet"})

	assert.Equal(suite.T(), proposal.Data.ID, doc.Data.ProposalID)
	assert.NotEmpty(suite.T(), doc.Data.FileID, "a file ID is generated when none is sent")
}

func (suite *TestSuiteStandard) TestCreateSupportDocProposalNotFound() {
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/gad/project-proposals/4711/support-docs",
		v1.SupportDocEditable{Name: "Attendance sheet"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestSupportDocArchiveRestore() {
	proposal := createTestProposal(suite.T(), v1.ProposalEditable{})
	doc := createTestSupportDoc(suite.T(), proposal.Data.ID, v1.SupportDocEditable{})

	// Archiving twice succeeds, the flag just stays set.
	for i := 0; i < 2; i++ {
		recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/gad/support-docs/%d/archive", doc.Data.ID), "")
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	}

	recorder := test.Request(suite.T(), http.MethodGet,
		fmt.Sprintf("http://example.com/v1/gad/project-proposals/%d/support-docs?archived=true", proposal.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var list v1.SupportDocListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	require.Len(suite.T(), list.Data, 1)

	recorder = test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/gad/support-docs/%d/restore", doc.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	recorder = test.Request(suite.T(), http.MethodGet,
		fmt.Sprintf("http://example.com/v1/gad/project-proposals/%d/support-docs", proposal.Data.ID), "")
	test.DecodeResponse(suite.T(), &recorder, &list)
	require.Len(suite.T(), list.Data, 1)
	assert.False(suite.T(), list.Data[0].Archived)
}

func (suite *TestSuiteStandard) TestDeleteSupportDoc() {
	proposal := createTestProposal(suite.T(), v1.ProposalEditable{})
	doc := createTestSupportDoc(suite.T(), proposal.Data.ID, v1.SupportDocEditable{})

	recorder := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/gad/support-docs/%d", doc.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet,
		fmt.Sprintf("http://example.com/v1/gad/project-proposals/%d/support-docs", proposal.Data.ID), "")
	var list v1.SupportDocListResponse
	test.DecodeResponse(suite.T(), &recorder, &list)
	assert.Empty(suite.T(), list.Data)
}

func (suite *TestSuiteStandard) TestProposalDBError() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/gad/project-proposals", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}
