package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ScheduleFilter narrows down the schedule list.
type ScheduleFilter struct {
	Sitio    string
	Archived *bool
	Offset   uint
	Limit    int
}

func (f ScheduleFilter) values() url.Values {
	values := url.Values{}
	if f.Sitio != "" {
		values.Set("sitio", f.Sitio)
	}
	if f.Archived != nil {
		values.Set("archived", strconv.FormatBool(*f.Archived))
	}
	if f.Offset != 0 {
		values.Set("offset", strconv.FormatUint(uint64(f.Offset), 10))
	}
	if f.Limit != 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}

	return values
}

// Schedules returns the waste collection schedules matching the filter.
// Schedules whose date has passed are archived by the server before the
// list is built.
func (c *Client) Schedules(ctx context.Context, filter ScheduleFilter) ([]Schedule, error) {
	var schedules []Schedule
	err := c.do(ctx, http.MethodGet, "/v1/waste/schedules", filter.values(), nil, &schedules)
	return schedules, err
}

// Schedule returns a single schedule.
func (c *Client) Schedule(ctx context.Context, id uint) (Schedule, error) {
	var schedule Schedule
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/waste/schedules/%d", id), nil, nil, &schedule)
	return schedule, err
}

// CreateSchedule creates a waste collection schedule.
func (c *Client) CreateSchedule(ctx context.Context, schedule Schedule) (Schedule, error) {
	var created Schedule
	err := c.do(ctx, http.MethodPost, "/v1/waste/schedules", nil, schedule, &created)
	return created, err
}

// UpdateSchedule patches a schedule. An assignment in the body replaces
// the whole crew.
func (c *Client) UpdateSchedule(ctx context.Context, id uint, fields map[string]any) (Schedule, error) {
	var updated Schedule
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/waste/schedules/%d", id), nil, fields, &updated)
	return updated, err
}

// ArchiveSchedule archives a schedule. Archiving an archived schedule
// is a no-op.
func (c *Client) ArchiveSchedule(ctx context.Context, id uint) (Schedule, error) {
	var schedule Schedule
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/waste/schedules/%d/archive", id), nil, nil, &schedule)
	return schedule, err
}

// RestoreSchedule restores an archived schedule.
func (c *Client) RestoreSchedule(ctx context.Context, id uint) (Schedule, error) {
	var schedule Schedule
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/waste/schedules/%d/restore", id), nil, nil, &schedule)
	return schedule, err
}

// DeleteSchedule permanently deletes a schedule.
func (c *Client) DeleteSchedule(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/waste/schedules/%d", id), nil, nil, nil)
}

// CreateAssignment assigns a crew to a schedule that does not have one
// yet. Use ReplaceAssignment to change an existing crew.
func (c *Client) CreateAssignment(ctx context.Context, scheduleID uint, assignment Assignment) (Assignment, error) {
	body := struct {
		ScheduleID uint `json:"scheduleId"`
		Assignment
	}{ScheduleID: scheduleID, Assignment: assignment}

	var created Assignment
	err := c.do(ctx, http.MethodPost, "/v1/waste/assignments", nil, body, &created)
	return created, err
}

// ReplaceAssignment replaces the crew of an assignment as a whole.
func (c *Client) ReplaceAssignment(ctx context.Context, id uint, assignment Assignment) (Assignment, error) {
	var replaced Assignment
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/waste/assignments/%d", id), nil, assignment, &replaced)
	return replaced, err
}
