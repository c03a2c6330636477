package v1_test

import (
	"fmt"
	"net/http"
	"time"

	v1 "github.com/munisuite/backend/internal/controllers/v1"
	"github.com/munisuite/backend/internal/models"
	"github.com/munisuite/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestCreateSchedule() {
	schedule := createTestSchedule(suite.T(), v1.ScheduleEditable{
		Sitio: "Sitio Looban",
		Time:  "07:30",
		Assignment: &v1.WasteAssignmentEditable{
			Driver:     "Efren Dizon",
			TruckPlate: "SKT-1234",
			Collectors: []v1.WasteCollectorEditable{{Name: "Rodel Cruz"}},
		},
	})

	assert.Equal(suite.T(), "Sitio Looban", schedule.Data.Sitio)
	require.NotNil(suite.T(), schedule.Data.Assignment)
	assert.Equal(suite.T(), "Efren Dizon", schedule.Data.Assignment.Driver)
	assert.Contains(suite.T(), schedule.Data.Links.Self, fmt.Sprintf("/v1/waste/schedules/%d", schedule.Data.ID))
}

func (suite *TestSuiteStandard) TestCreateScheduleCrewIncomplete() {
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/waste/schedules",
		v1.ScheduleEditable{
			Date:  time.Now().In(time.UTC).AddDate(0, 0, 7),
			Time:  "07:30",
			Sitio: "Sitio Looban",
			Assignment: &v1.WasteAssignmentEditable{
				Driver: "Efren Dizon",
			},
		})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.ScheduleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), models.ErrScheduleCrewIncomplete.Error(), *response.Error)
}

func (suite *TestSuiteStandard) TestGetSchedulesFilterSitio() {
	_ = createTestSchedule(suite.T(), v1.ScheduleEditable{Sitio: "Sitio Looban"})
	_ = createTestSchedule(suite.T(), v1.ScheduleEditable{Sitio: "Sitio Ibaba"})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/waste/schedules?sitio=Sitio+Ibaba", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ScheduleListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), "Sitio Ibaba", response.Data[0].Sitio)
}

func (suite *TestSuiteStandard) TestGetSchedulesAutoArchivesPastDates() {
	past := createTestSchedule(suite.T(), v1.ScheduleEditable{
		Date: time.Now().In(time.UTC).AddDate(0, 0, -3),
	})
	upcoming := createTestSchedule(suite.T(), v1.ScheduleEditable{})

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/waste/schedules", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ScheduleListResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), upcoming.Data.ID, response.Data[0].ID)

	recorder = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/waste/schedules?archived=true", "")
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), past.Data.ID, response.Data[0].ID)
}

func (suite *TestSuiteStandard) TestGetScheduleNotFound() {
	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/waste/schedules/4711", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestUpdateScheduleScalar() {
	schedule := createTestSchedule(suite.T(), v1.ScheduleEditable{Time: "07:30"})

	recorder := test.Request(suite.T(), http.MethodPatch,
		fmt.Sprintf("http://example.com/v1/waste/schedules/%d", schedule.Data.ID),
		map[string]any{"time": "13:00"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ScheduleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	assert.Equal(suite.T(), "13:00", response.Data.Time)
	assert.Equal(suite.T(), schedule.Data.Sitio, response.Data.Sitio, "fields not in the body must be untouched")
}

func (suite *TestSuiteStandard) TestUpdateScheduleReplacesAssignment() {
	schedule := createTestSchedule(suite.T(), v1.ScheduleEditable{
		Assignment: &v1.WasteAssignmentEditable{
			Driver:     "Efren Dizon",
			TruckPlate: "SKT-1234",
			Collectors: []v1.WasteCollectorEditable{{Name: "Rodel Cruz"}, {Name: "Marco Villanueva"}},
		},
	})

	recorder := test.Request(suite.T(), http.MethodPatch,
		fmt.Sprintf("http://example.com/v1/waste/schedules/%d", schedule.Data.ID),
		map[string]any{"assignment": map[string]any{
			"driver":     "Larry Aquino",
			"truckPlate": "NAB-5678",
			"collectors": []map[string]any{{"name": "Rodel Cruz"}},
		}})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ScheduleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	require.NotNil(suite.T(), response.Data.Assignment)
	assert.Equal(suite.T(), "Larry Aquino", response.Data.Assignment.Driver)
	assert.Len(suite.T(), response.Data.Assignment.Collectors, 1, "the crew must be replaced as a whole")
}

func (suite *TestSuiteStandard) TestUpdateScheduleRemovesAssignment() {
	schedule := createTestSchedule(suite.T(), v1.ScheduleEditable{
		Assignment: &v1.WasteAssignmentEditable{Driver: "Efren Dizon", TruckPlate: "SKT-1234"},
	})

	recorder := test.Request(suite.T(), http.MethodPatch,
		fmt.Sprintf("http://example.com/v1/waste/schedules/%d", schedule.Data.ID),
		map[string]any{"assignment": nil})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ScheduleResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Nil(suite.T(), response.Data.Assignment)
}

func (suite *TestSuiteStandard) TestScheduleArchiveRestoreIdempotent() {
	schedule := createTestSchedule(suite.T(), v1.ScheduleEditable{})

	for i := 0; i < 2; i++ {
		recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/waste/schedules/%d/archive", schedule.Data.ID), "")
		test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	}

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/waste/schedules/%d/restore", schedule.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ScheduleResponse
	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/waste/schedules/%d", schedule.Data.ID), "")
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.False(suite.T(), response.Data.Archived)
}

func (suite *TestSuiteStandard) TestDeleteSchedule() {
	schedule := createTestSchedule(suite.T(), v1.ScheduleEditable{
		Assignment: &v1.WasteAssignmentEditable{Driver: "Efren Dizon", TruckPlate: "SKT-1234"},
	})

	recorder := test.Request(suite.T(), http.MethodDelete, fmt.Sprintf("http://example.com/v1/waste/schedules/%d", schedule.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/waste/schedules/%d", schedule.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestCreateAssignment() {
	schedule := createTestSchedule(suite.T(), v1.ScheduleEditable{})

	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/waste/assignments",
		v1.AssignmentEditable{
			ScheduleID: schedule.Data.ID,
			Driver:     "Efren Dizon",
			TruckPlate: "SKT-1234",
			Collectors: []v1.WasteCollectorEditable{{Name: "Rodel Cruz"}},
		})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.AssignmentResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), schedule.Data.ID, response.Data.ScheduleID)
	assert.Len(suite.T(), response.Data.Collectors, 1)

	// A schedule carries at most one crew.
	recorder = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/waste/assignments",
		v1.AssignmentEditable{ScheduleID: schedule.Data.ID, Driver: "Larry Aquino", TruckPlate: "NAB-5678"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCreateAssignmentScheduleNotFound() {
	recorder := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/waste/assignments",
		v1.AssignmentEditable{ScheduleID: 4711, Driver: "Efren Dizon", TruckPlate: "SKT-1234"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestReplaceAssignment() {
	schedule := createTestSchedule(suite.T(), v1.ScheduleEditable{
		Assignment: &v1.WasteAssignmentEditable{
			Driver:     "Efren Dizon",
			TruckPlate: "SKT-1234",
			Collectors: []v1.WasteCollectorEditable{{Name: "Rodel Cruz"}, {Name: "Marco Villanueva"}},
		},
	})

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/waste/schedules/%d", schedule.Data.ID), "")
	var detail v1.ScheduleResponse
	test.DecodeResponse(suite.T(), &recorder, &detail)
	require.NotNil(suite.T(), detail.Data.Assignment)

	// The assignment ID is not part of the schedule representation, a
	// fresh schedule's crew is its first and only assignment.
	recorder = test.Request(suite.T(), http.MethodPut, "http://example.com/v1/waste/assignments/1",
		v1.AssignmentEditable{
			Driver:     "Larry Aquino",
			TruckPlate: "NAB-5678",
			Collectors: []v1.WasteCollectorEditable{{Name: "Rodel Cruz"}},
		})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.AssignmentResponse
	test.DecodeResponse(suite.T(), &recorder, &response)
	assert.Equal(suite.T(), "Larry Aquino", response.Data.Driver)
	assert.Len(suite.T(), response.Data.Collectors, 1, "the crew must be replaced as a whole")
}

func (suite *TestSuiteStandard) TestReplaceAssignmentCrewIncomplete() {
	_ = createTestSchedule(suite.T(), v1.ScheduleEditable{
		Assignment: &v1.WasteAssignmentEditable{Driver: "Efren Dizon", TruckPlate: "SKT-1234"},
	})

	recorder := test.Request(suite.T(), http.MethodPut, "http://example.com/v1/waste/assignments/1",
		v1.AssignmentEditable{Driver: "", TruckPlate: "NAB-5678"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestReplaceAssignmentNotFound() {
	recorder := test.Request(suite.T(), http.MethodPut, "http://example.com/v1/waste/assignments/4711",
		v1.AssignmentEditable{Driver: "Efren Dizon", TruckPlate: "SKT-1234"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestScheduleDBError() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/waste/schedules", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}
