package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/munisuite/backend/internal/httputil"
	"github.com/munisuite/backend/internal/models"
)

// RegisterResolutionRoutes registers the routes for resolutions with
// the RouterGroup that is passed.
func RegisterResolutionRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsResolutions)
	r.GET("", GetResolutions)
	r.POST("", CreateResolution)
}

// ResolutionEditable is the request body to record a resolution.
type ResolutionEditable struct {
	ProposalID uint      `json:"proposalId" example:"3"`            // ID of the proposal the resolution backs
	Number     string    `json:"number" example:"2025-017"`         // The resolution number
	ApprovedOn time.Time `json:"approvedOn" example:"2025-02-14T00:00:00Z"`
}

func (editable ResolutionEditable) model() models.Resolution {
	return models.Resolution{
		ProjectProposalID: editable.ProposalID,
		Number:            editable.Number,
		ApprovedOn:        editable.ApprovedOn,
	}
}

// ResolutionData is the API representation of a resolution.
type ResolutionData struct {
	models.Model
	ResolutionEditable
}

func newResolution(model models.Resolution) ResolutionData {
	return ResolutionData{
		Model: model.Model,
		ResolutionEditable: ResolutionEditable{
			ProposalID: model.ProjectProposalID,
			Number:     model.Number,
			ApprovedOn: model.ApprovedOn,
		},
	}
}

type ResolutionResponse struct {
	Data  *ResolutionData `json:"data"`
	Error *string         `json:"error" example:"the resolution number is already in use"`
}

type ResolutionListResponse struct {
	Data  []ResolutionData `json:"data"`
	Error *string          `json:"error"`
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			GAD
// @Success		204
// @Router			/v1/gad/resolutions [options]
func OptionsResolutions(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Get resolutions
// @Description	Returns a list of resolutions
// @Tags			GAD
// @Produce		json
// @Success		200	{object}	ResolutionListResponse
// @Failure		500	{object}	ResolutionListResponse
// @Router			/v1/gad/resolutions [get]
// @Param			proposal	query	uint	false	"Filter by proposal ID"
func GetResolutions(c *gin.Context) {
	var filter struct {
		ProposalID uint `form:"proposal"`
	}
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, ResolutionListResponse{Error: &e})
		return
	}

	q := models.DB.Order("resolutions.approved_on ASC")
	if filter.ProposalID != 0 {
		q = q.Where("resolutions.project_proposal_id = ?", filter.ProposalID)
	}

	var resolutions []models.Resolution
	err := q.Find(&resolutions).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ResolutionListResponse{Error: &e})
		return
	}

	data := make([]ResolutionData, 0, len(resolutions))
	for _, resolution := range resolutions {
		data = append(data, newResolution(resolution))
	}

	c.JSON(http.StatusOK, ResolutionListResponse{Data: data})
}

// @Summary		Record resolution
// @Description	Records a council resolution backing a proposal
// @Tags			GAD
// @Produce		json
// @Success		201			{object}	ResolutionResponse
// @Failure		400			{object}	ResolutionResponse
// @Failure		404			{object}	ResolutionResponse
// @Failure		500			{object}	ResolutionResponse
// @Param			resolution	body		ResolutionEditable	true	"Resolution"
// @Router			/v1/gad/resolutions [post]
func CreateResolution(c *gin.Context) {
	var editable ResolutionEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ResolutionResponse{Error: &e})
		return
	}

	err = models.DB.First(&models.ProjectProposal{}, editable.ProposalID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ResolutionResponse{Error: &e})
		return
	}

	resolution := editable.model()
	err = models.DB.Create(&resolution).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ResolutionResponse{Error: &e})
		return
	}

	data := newResolution(resolution)
	c.JSON(http.StatusCreated, ResolutionResponse{Data: &data})
}
