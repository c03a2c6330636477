package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// PlanFilter narrows down the plan list.
type PlanFilter struct {
	Year        int
	Client      string
	Responsible string
	Archived    *bool
	Search      string
	Offset      uint
	Limit       int
}

func (f PlanFilter) values() url.Values {
	values := url.Values{}
	if f.Year != 0 {
		values.Set("year", strconv.Itoa(f.Year))
	}
	if f.Client != "" {
		values.Set("client", f.Client)
	}
	if f.Responsible != "" {
		values.Set("responsible", f.Responsible)
	}
	if f.Archived != nil {
		values.Set("archived", strconv.FormatBool(*f.Archived))
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.Offset != 0 {
		values.Set("offset", strconv.FormatUint(uint64(f.Offset), 10))
	}
	if f.Limit != 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}

	return values
}

// Plans returns the annual dev plans matching the filter.
func (c *Client) Plans(ctx context.Context, filter PlanFilter) ([]Plan, error) {
	var plans []Plan
	err := c.do(ctx, http.MethodGet, "/v1/gad/annual-dev-plans", filter.values(), nil, &plans)
	return plans, err
}

// PlansForYears fetches the plans of a year range with per-year failure
// isolation: one year's failure does not abort the batch. The failed
// years are reported alongside the merged result.
func (c *Client) PlansForYears(ctx context.Context, from, until int) ([]Plan, map[int]error) {
	var plans []Plan
	failures := make(map[int]error)

	for year := from; year <= until; year++ {
		yearPlans, err := c.Plans(ctx, PlanFilter{Year: year})
		if err != nil {
			failures[year] = err
			continue
		}

		plans = append(plans, yearPlans...)
	}

	return plans, failures
}

// Plan returns a single plan.
func (c *Client) Plan(ctx context.Context, id uint) (Plan, error) {
	var plan Plan
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/gad/annual-dev-plans/%d", id), nil, nil, &plan)
	return plan, err
}

// CreatePlan creates an annual dev plan.
func (c *Client) CreatePlan(ctx context.Context, plan Plan) (Plan, error) {
	var created Plan
	err := c.do(ctx, http.MethodPost, "/v1/gad/annual-dev-plans", nil, plan, &created)
	return created, err
}

// UpdatePlan patches a plan. Only the fields present in the body are
// updated.
func (c *Client) UpdatePlan(ctx context.Context, id uint, fields map[string]any) (Plan, error) {
	var updated Plan
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/gad/annual-dev-plans/%d", id), nil, fields, &updated)
	return updated, err
}

// DeletePlan permanently deletes a plan.
func (c *Client) DeletePlan(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/gad/annual-dev-plans/%d", id), nil, nil, nil)
}

// BulkArchivePlans archives or restores multiple plans in one call.
func (c *Client) BulkArchivePlans(ctx context.Context, ids []uint, archived bool) error {
	body := map[string]any{"ids": ids, "archived": archived}
	return c.do(ctx, http.MethodPatch, "/v1/gad/annual-dev-plans/bulk-archive", nil, body, nil)
}

// BulkDeletePlans permanently deletes multiple plans in one call.
func (c *Client) BulkDeletePlans(ctx context.Context, ids []uint) error {
	body := map[string]any{"ids": ids}
	return c.do(ctx, http.MethodDelete, "/v1/gad/annual-dev-plans/bulk-delete", nil, body, nil)
}

// ProposalFilter narrows down the proposal list.
type ProposalFilter struct {
	Status   Status
	Archived *bool
	PlanID   uint
	Search   string
	Offset   uint
	Limit    int
}

func (f ProposalFilter) values() url.Values {
	values := url.Values{}
	if f.Status != "" {
		values.Set("status", string(f.Status))
	}
	if f.Archived != nil {
		values.Set("archived", strconv.FormatBool(*f.Archived))
	}
	if f.PlanID != 0 {
		values.Set("plan", strconv.FormatUint(uint64(f.PlanID), 10))
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.Offset != 0 {
		values.Set("offset", strconv.FormatUint(uint64(f.Offset), 10))
	}
	if f.Limit != 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}

	return values
}

// Proposals returns the project proposals matching the filter.
func (c *Client) Proposals(ctx context.Context, filter ProposalFilter) ([]Proposal, error) {
	var proposals []Proposal
	err := c.do(ctx, http.MethodGet, "/v1/gad/project-proposals", filter.values(), nil, &proposals)
	return proposals, err
}

// Proposal returns a single proposal.
func (c *Client) Proposal(ctx context.Context, id uint) (Proposal, error) {
	var proposal Proposal
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/gad/project-proposals/%d", id), nil, nil, &proposal)
	return proposal, err
}

// CreateProposal creates a project proposal.
func (c *Client) CreateProposal(ctx context.Context, proposal Proposal) (Proposal, error) {
	var created Proposal
	err := c.do(ctx, http.MethodPost, "/v1/gad/project-proposals", nil, proposal, &created)
	return created, err
}

// UpdateProposal patches a proposal.
func (c *Client) UpdateProposal(ctx context.Context, id uint, fields map[string]any) (Proposal, error) {
	var updated Proposal
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/gad/project-proposals/%d", id), nil, fields, &updated)
	return updated, err
}

// DeleteProposal permanently deletes a proposal.
func (c *Client) DeleteProposal(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/gad/project-proposals/%d", id), nil, nil, nil)
}

// ReviewProposal updates the review status of a proposal. A reason is
// required when the status is Amend or Rejected.
func (c *Client) ReviewProposal(ctx context.Context, id uint, status Status, reason string) (Proposal, error) {
	body := map[string]any{"status": status, "reason": reason}

	var reviewed Proposal
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/gad/project-proposals/%d/review", id), nil, body, &reviewed)
	return reviewed, err
}

// SupportDocs returns the support documents of a proposal.
func (c *Client) SupportDocs(ctx context.Context, proposalID uint) ([]SupportDoc, error) {
	var docs []SupportDoc
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/gad/project-proposals/%d/support-docs", proposalID), nil, nil, &docs)
	return docs, err
}

// AttachSupportDoc attaches a document to a proposal. An empty fileID
// is generated by the server.
func (c *Client) AttachSupportDoc(ctx context.Context, proposalID uint, name, fileID string) (SupportDoc, error) {
	body := map[string]any{"name": name, "fileId": fileID}

	var doc SupportDoc
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/gad/project-proposals/%d/support-docs", proposalID), nil, body, &doc)
	return doc, err
}

// ArchiveSupportDoc archives a support document. Archiving an archived
// document is a no-op.
func (c *Client) ArchiveSupportDoc(ctx context.Context, id uint) (SupportDoc, error) {
	var doc SupportDoc
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/gad/support-docs/%d/archive", id), nil, nil, &doc)
	return doc, err
}

// RestoreSupportDoc restores an archived support document.
func (c *Client) RestoreSupportDoc(ctx context.Context, id uint) (SupportDoc, error) {
	var doc SupportDoc
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/gad/support-docs/%d/restore", id), nil, nil, &doc)
	return doc, err
}

// DeleteSupportDoc permanently deletes a support document.
func (c *Client) DeleteSupportDoc(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/gad/support-docs/%d", id), nil, nil, nil)
}

// Resolutions returns resolutions, optionally filtered by proposal.
func (c *Client) Resolutions(ctx context.Context, proposalID uint) ([]Resolution, error) {
	values := url.Values{}
	if proposalID != 0 {
		values.Set("proposal", strconv.FormatUint(uint64(proposalID), 10))
	}

	var resolutions []Resolution
	err := c.do(ctx, http.MethodGet, "/v1/gad/resolutions", values, nil, &resolutions)
	return resolutions, err
}

// CreateResolution records a council resolution backing a proposal.
func (c *Client) CreateResolution(ctx context.Context, resolution Resolution) (Resolution, error) {
	var created Resolution
	err := c.do(ctx, http.MethodPost, "/v1/gad/resolutions", nil, resolution, &created)
	return created, err
}

// Calendar returns the GAD calendar of a year.
func (c *Client) Calendar(ctx context.Context, year int) ([]CalendarEntry, error) {
	values := url.Values{}
	values.Set("year", strconv.Itoa(year))

	var entries []CalendarEntry
	err := c.do(ctx, http.MethodGet, "/v1/gad/calendar", values, nil, &entries)
	return entries, err
}
