package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/munisuite/backend/internal/httputil"
	"github.com/munisuite/backend/internal/models"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// proposalAssociations are preloaded whenever a full proposal is returned.
var proposalAssociations = []string{"BudgetItems", "Objectives", "Participants", "Signatories", "SupportDocs"}

// RegisterProposalRoutes registers the routes for project proposals with
// the RouterGroup that is passed.
func RegisterProposalRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsProposals)
		r.GET("", GetProposals)
		r.POST("", CreateProposal)
	}

	// Proposal with ID
	{
		r.OPTIONS("/:id", OptionsProposalDetail)
		r.GET("/:id", GetProposal)
		r.PATCH("/:id", UpdateProposal)
		r.DELETE("/:id", DeleteProposal)
	}

	// Review workflow
	{
		r.OPTIONS("/:id/review", OptionsProposalReview)
		r.PATCH("/:id/review", ReviewProposal)
	}

	// Support documents
	{
		r.OPTIONS("/:id/support-docs", OptionsSupportDocs)
		r.GET("/:id/support-docs", GetSupportDocs)
		r.POST("/:id/support-docs", CreateSupportDoc)
	}
}

// RegisterSupportDocRoutes registers the routes for support documents
// that are addressed by their own ID.
func RegisterSupportDocRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:id", OptionsSupportDocDetail)
	r.PATCH("/:id/archive", ArchiveSupportDoc)
	r.PATCH("/:id/restore", RestoreSupportDoc)
	r.DELETE("/:id", DeleteSupportDoc)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			GAD
// @Success		204
// @Router			/v1/gad/project-proposals [options]
func OptionsProposals(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			GAD
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		uint	true	"ID of the proposal"
// @Router			/v1/gad/project-proposals/{id} [options]
func OptionsProposalDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.First(&models.ProjectProposal{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			GAD
// @Success		204
// @Param			id	path	uint	true	"ID of the proposal"
// @Router			/v1/gad/project-proposals/{id}/review [options]
func OptionsProposalReview(c *gin.Context) {
	httputil.OptionsPatch(c)
}

// @Summary		Get project proposals
// @Description	Returns a list of project proposals
// @Tags			GAD
// @Produce		json
// @Success		200	{object}	ProposalListResponse
// @Failure		400	{object}	ProposalListResponse
// @Failure		500	{object}	ProposalListResponse
// @Router			/v1/gad/project-proposals [get]
// @Param			status		query	string	false	"Filter by review status"
// @Param			archived	query	bool	false	"Is the proposal archived?"
// @Param			plan		query	uint	false	"ID of the annual dev plan"
// @Param			search		query	string	false	"Search in title and location"
// @Param			offset		query	uint	false	"The offset of the first proposal returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of proposals to return. Defaults to 50."
func GetProposals(c *gin.Context) {
	var filter ProposalQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ProposalListResponse{Error: &s})
		return
	}

	if filter.Status != "" && !slices.Contains(models.ProposalStatuses, filter.Status) {
		s := models.ErrProposalStatusInvalid.Error()
		c.JSON(http.StatusBadRequest, ProposalListResponse{Error: &s})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	model := filter.model()

	q := models.DB.Order("project_proposals.date ASC").Where(&model, queryFields...)
	for _, association := range proposalAssociations {
		q = q.Preload(association)
	}

	if filter.PlanID != 0 {
		q = q.Where("project_proposals.annual_dev_plan_id = ?", filter.PlanID)
	}

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		q = q.Where(
			models.DB.Where("project_proposals.title LIKE ?", like).
				Or("project_proposals.location LIKE ?", like),
		)
	}

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var proposals []models.ProjectProposal
	err := q.Find(&proposals).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalListResponse{Error: &e})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalListResponse{Error: &e})
		return
	}

	data := make([]Proposal, 0)
	for _, proposal := range proposals {
		data = append(data, newProposal(c, proposal))
	}

	c.JSON(http.StatusOK, ProposalListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get project proposal
// @Description	Returns a specific project proposal
// @Tags			GAD
// @Produce		json
// @Success		200	{object}	ProposalResponse
// @Failure		400	{object}	ProposalResponse
// @Failure		404	{object}	ProposalResponse
// @Failure		500	{object}	ProposalResponse
// @Param			id	path		uint	true	"ID of the proposal"
// @Router			/v1/gad/project-proposals/{id} [get]
func GetProposal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	q := models.DB
	for _, association := range proposalAssociations {
		q = q.Preload(association)
	}

	var proposal models.ProjectProposal
	err = q.First(&proposal, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	data := newProposal(c, proposal)
	c.JSON(http.StatusOK, ProposalResponse{Data: &data})
}

// @Summary		Create project proposal
// @Description	Creates a new project proposal with status Pending
// @Tags			GAD
// @Produce		json
// @Success		201			{object}	ProposalResponse
// @Failure		400			{object}	ProposalResponse
// @Failure		500			{object}	ProposalResponse
// @Param			proposal	body		ProposalEditable	true	"Proposal"
// @Router			/v1/gad/project-proposals [post]
func CreateProposal(c *gin.Context) {
	var editable ProposalEditable

	err := httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	proposal := editable.model()
	err = models.DB.Create(&proposal).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	data := newProposal(c, proposal)
	c.JSON(http.StatusCreated, ProposalResponse{Data: &data})
}

// @Summary		Update project proposal
// @Description	Updates an existing project proposal. Only values to be updated need to be specified. A resubmission after an amend request is a PATCH like any other, the review endpoint moves the status.
// @Tags			GAD
// @Accept			json
// @Produce		json
// @Success		200			{object}	ProposalResponse
// @Failure		400			{object}	ProposalResponse
// @Failure		404			{object}	ProposalResponse
// @Failure		500			{object}	ProposalResponse
// @Param			id			path		uint				true	"ID of the proposal"
// @Param			proposal	body		ProposalEditable	true	"Proposal"
// @Router			/v1/gad/project-proposals/{id} [patch]
func UpdateProposal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	var proposal models.ProjectProposal
	err = models.DB.First(&proposal, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ProposalEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	var update ProposalEditable
	err = httputil.BindData(c, &update)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	// Associations are replaced as a whole when part of the request
	replace := make(map[string]bool, len(proposalAssociations))
	updateFields = slices.DeleteFunc(updateFields, func(f any) bool {
		name, ok := f.(string)
		if ok && name != "SupportDocs" && slices.Contains(proposalAssociations, name) {
			replace[name] = true
			return true
		}
		return false
	})

	tx := models.DB.Begin()

	if len(updateFields) > 0 {
		err = tx.Model(&proposal).Select("", updateFields...).Updates(update.model()).Error
		if err != nil {
			tx.Rollback()
			e := err.Error()
			c.JSON(status(err), ProposalResponse{Error: &e})
			return
		}
	}

	if len(replace) > 0 {
		err = replaceProposalAssociations(tx, &proposal, update, replace)
		if err != nil {
			tx.Rollback()
			e := err.Error()
			c.JSON(status(err), ProposalResponse{Error: &e})
			return
		}
	}

	tx.Commit()

	q := models.DB
	for _, association := range proposalAssociations {
		q = q.Preload(association)
	}
	err = q.First(&proposal, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	data := newProposal(c, proposal)
	c.JSON(http.StatusOK, ProposalResponse{Data: &data})
}

// @Summary		Review project proposal
// @Description	Updates the review status of a proposal. A reason is required when the status is set to Amend or Rejected.
// @Tags			GAD
// @Accept			json
// @Produce		json
// @Success		200		{object}	ProposalResponse
// @Failure		400		{object}	ProposalResponse
// @Failure		404		{object}	ProposalResponse
// @Failure		500		{object}	ProposalResponse
// @Param			id		path		uint			true	"ID of the proposal"
// @Param			review	body		ProposalReview	true	"Review"
// @Router			/v1/gad/project-proposals/{id}/review [patch]
func ReviewProposal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	var proposal models.ProjectProposal
	err = models.DB.First(&proposal, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	var review ProposalReview
	err = httputil.BindData(c, &review)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	if !slices.Contains(models.ProposalStatuses, review.Status) {
		e := models.ErrProposalStatusInvalid.Error()
		c.JSON(http.StatusBadRequest, ProposalResponse{Error: &e})
		return
	}

	if review.Status.ReasonRequired() && strings.TrimSpace(review.Reason) == "" {
		e := models.ErrProposalReasonRequired.Error()
		c.JSON(http.StatusBadRequest, ProposalResponse{Error: &e})
		return
	}

	err = models.DB.Model(&proposal).Select("Status", "Reason").Updates(models.ProjectProposal{
		Status: review.Status,
		Reason: review.Reason,
	}).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProposalResponse{Error: &e})
		return
	}

	data := newProposal(c, proposal)
	c.JSON(http.StatusOK, ProposalResponse{Data: &data})
}

// @Summary		Delete project proposal
// @Description	Deletes a project proposal and all attached resources
// @Tags			GAD
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		uint	true	"ID of the proposal"
// @Router			/v1/gad/project-proposals/{id} [delete]
func DeleteProposal(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var proposal models.ProjectProposal
	err = models.DB.First(&proposal, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Delete(&proposal).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// replaceProposalAssociations deletes and recreates the associations
// named in replace from the update payload.
func replaceProposalAssociations(tx *gorm.DB, proposal *models.ProjectProposal, update ProposalEditable, replace map[string]bool) error {
	updated := update.model()
	updated.ID = proposal.ID

	if replace["BudgetItems"] {
		err := tx.Where(&models.ProposalBudgetItem{ProjectProposalID: proposal.ID}).Delete(&models.ProposalBudgetItem{}).Error
		if err != nil {
			return err
		}
		for i := range updated.BudgetItems {
			updated.BudgetItems[i].ProjectProposalID = proposal.ID
			if err := tx.Create(&updated.BudgetItems[i]).Error; err != nil {
				return err
			}
		}
	}

	if replace["Objectives"] {
		err := tx.Where(&models.ProposalObjective{ProjectProposalID: proposal.ID}).Delete(&models.ProposalObjective{}).Error
		if err != nil {
			return err
		}
		for i := range updated.Objectives {
			updated.Objectives[i].ProjectProposalID = proposal.ID
			if err := tx.Create(&updated.Objectives[i]).Error; err != nil {
				return err
			}
		}
	}

	if replace["Participants"] {
		err := tx.Where(&models.Participant{ProjectProposalID: proposal.ID}).Delete(&models.Participant{}).Error
		if err != nil {
			return err
		}
		for i := range updated.Participants {
			updated.Participants[i].ProjectProposalID = proposal.ID
			if err := tx.Create(&updated.Participants[i]).Error; err != nil {
				return err
			}
		}
	}

	if replace["Signatories"] {
		err := tx.Where(&models.Signatory{ProjectProposalID: proposal.ID}).Delete(&models.Signatory{}).Error
		if err != nil {
			return err
		}
		for i := range updated.Signatories {
			updated.Signatories[i].ProjectProposalID = proposal.ID
			if err := tx.Create(&updated.Signatories[i]).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			GAD
// @Success		204
// @Param			id	path	uint	true	"ID of the proposal"
// @Router			/v1/gad/project-proposals/{id}/support-docs [options]
func OptionsSupportDocs(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			GAD
// @Success		204
// @Param			id	path	uint	true	"ID of the support document"
// @Router			/v1/gad/support-docs/{id} [options]
func OptionsSupportDocDetail(c *gin.Context) {
	httputil.OptionsDelete(c)
}

// @Summary		Get support documents
// @Description	Returns the support documents of a proposal
// @Tags			GAD
// @Produce		json
// @Success		200	{object}	SupportDocListResponse
// @Failure		400	{object}	SupportDocListResponse
// @Failure		404	{object}	SupportDocListResponse
// @Failure		500	{object}	SupportDocListResponse
// @Param			id	path		uint	true	"ID of the proposal"
// @Param			archived	query	bool	false	"Is the document archived?"
// @Router			/v1/gad/project-proposals/{id}/support-docs [get]
func GetSupportDocs(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupportDocListResponse{Error: &e})
		return
	}

	err = models.DB.First(&models.ProjectProposal{}, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupportDocListResponse{Error: &e})
		return
	}

	var filter struct {
		Archived bool `form:"archived"`
	}
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, SupportDocListResponse{Error: &e})
		return
	}

	queryFields, _ := httputil.GetURLFields(c.Request.URL, filter)

	var docs []models.SupportDoc
	err = models.DB.
		Where(&models.SupportDoc{ProjectProposalID: uri.ID, Archived: filter.Archived}, append(queryFields, "ProjectProposalID")...).
		Find(&docs).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupportDocListResponse{Error: &e})
		return
	}

	data := make([]SupportDocData, 0, len(docs))
	for _, doc := range docs {
		data = append(data, newSupportDoc(doc))
	}

	c.JSON(http.StatusOK, SupportDocListResponse{Data: data})
}

// @Summary		Attach support document
// @Description	Attaches a support document to a proposal
// @Tags			GAD
// @Produce		json
// @Success		201	{object}	SupportDocResponse
// @Failure		400	{object}	SupportDocResponse
// @Failure		404	{object}	SupportDocResponse
// @Failure		500	{object}	SupportDocResponse
// @Param			id	path		uint				true	"ID of the proposal"
// @Param			doc	body		SupportDocEditable	true	"Document"
// @Router			/v1/gad/project-proposals/{id}/support-docs [post]
func CreateSupportDoc(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupportDocResponse{Error: &e})
		return
	}

	err = models.DB.First(&models.ProjectProposal{}, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupportDocResponse{Error: &e})
		return
	}

	var editable SupportDocEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupportDocResponse{Error: &e})
		return
	}

	if editable.FileID == "" {
		editable.FileID = uuid.NewString()
	}

	doc := models.SupportDoc{
		ProjectProposalID: uri.ID,
		Name:              editable.Name,
		FileID:            editable.FileID,
	}
	err = models.DB.Create(&doc).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupportDocResponse{Error: &e})
		return
	}

	data := newSupportDoc(doc)
	c.JSON(http.StatusCreated, SupportDocResponse{Data: &data})
}

// setSupportDocArchived loads a support document and sets its archived flag.
func setSupportDocArchived(c *gin.Context, archived bool) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupportDocResponse{Error: &e})
		return
	}

	var doc models.SupportDoc
	err = models.DB.First(&doc, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupportDocResponse{Error: &e})
		return
	}

	err = models.DB.Model(&doc).Select("Archived").Updates(models.SupportDoc{Archived: archived}).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SupportDocResponse{Error: &e})
		return
	}

	data := newSupportDoc(doc)
	c.JSON(http.StatusOK, SupportDocResponse{Data: &data})
}

// @Summary		Archive support document
// @Description	Archives a support document
// @Tags			GAD
// @Produce		json
// @Success		200	{object}	SupportDocResponse
// @Failure		400	{object}	SupportDocResponse
// @Failure		404	{object}	SupportDocResponse
// @Failure		500	{object}	SupportDocResponse
// @Param			id	path		uint	true	"ID of the support document"
// @Router			/v1/gad/support-docs/{id}/archive [patch]
func ArchiveSupportDoc(c *gin.Context) {
	setSupportDocArchived(c, true)
}

// @Summary		Restore support document
// @Description	Restores an archived support document
// @Tags			GAD
// @Produce		json
// @Success		200	{object}	SupportDocResponse
// @Failure		400	{object}	SupportDocResponse
// @Failure		404	{object}	SupportDocResponse
// @Failure		500	{object}	SupportDocResponse
// @Param			id	path		uint	true	"ID of the support document"
// @Router			/v1/gad/support-docs/{id}/restore [patch]
func RestoreSupportDoc(c *gin.Context) {
	setSupportDocArchived(c, false)
}

// @Summary		Delete support document
// @Description	Permanently deletes a support document
// @Tags			GAD
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		uint	true	"ID of the support document"
// @Router			/v1/gad/support-docs/{id} [delete]
func DeleteSupportDoc(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var doc models.SupportDoc
	err = models.DB.First(&doc, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = models.DB.Unscoped().Delete(&doc).Error
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
