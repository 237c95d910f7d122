package v1

import (
	"net/http"

	"go-dreamjob-backend/internal/delivery/http/response"
	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const candidateNotFound = "Candidate with the given id was not found"

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
	exportUC    domain.ExportUsecase
	uploads     *uploadReader
}

func NewCandidateHandler(r *gin.RouterGroup, upload gin.HandlerFunc, candidateUC domain.CandidateUsecase, exportUC domain.ExportUsecase, uploads *uploadReader) {
	handler := &CandidateHandler{candidateUC: candidateUC, exportUC: exportUC, uploads: uploads}

	candidates := r.Group("/candidates")
	{
		candidates.GET("", handler.List)
		candidates.GET("/export", handler.Export)
		candidates.GET("/:id", handler.Get)
		candidates.POST("", upload, handler.Create)
		candidates.PUT("/:id", upload, handler.Update)
		candidates.DELETE("/:id", handler.Delete)
	}
}

type CandidateRequest struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
	CityID      int    `form:"city_id" json:"city_id"`
}

// List godoc
// @Summary      List candidates
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Candidate}
// @Failure      401  {object}  response.Response
// @Router       /candidates [get]
// @Security     BearerAuth
func (h *CandidateHandler) List(c *gin.Context) {
	candidates, err := h.candidateUC.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidates", candidates)
}

// Get godoc
// @Summary      Get a candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [get]
// @Security     BearerAuth
func (h *CandidateHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	candidate, err := h.candidateUC.FindByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if candidate == nil {
		_ = c.Error(apperror.NotFound(candidateNotFound))
		return
	}
	response.Success(c, http.StatusOK, "Candidate", candidate)
}

// Create godoc
// @Summary      Create a candidate
// @Description  Fields as multipart form, with an optional "file" attachment
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Param        name         formData  string  true   "Full name"
// @Param        description  formData  string  false  "Description"
// @Param        city_id      formData  int     false  "City ID"
// @Param        file         formData  file    false  "Attachment"
// @Success      201  {object}  response.Response{data=domain.Candidate}
// @Failure      400  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Router       /candidates [post]
// @Security     BearerAuth
func (h *CandidateHandler) Create(c *gin.Context) {
	var req CandidateRequest
	if err := h.uploads.bind(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	file, err := h.uploads.read(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	saved, err := h.candidateUC.Save(c.Request.Context(), domain.Candidate{
		Name:        req.Name,
		Description: req.Description,
		CityID:      req.CityID,
	}, file)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Candidate created", saved)
}

// Update godoc
// @Summary      Update a candidate
// @Description  Replaces the fields; a new "file" replaces the attachment, no file keeps it
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           path      int     true   "Candidate ID"
// @Param        name         formData  string  true   "Full name"
// @Param        description  formData  string  false  "Description"
// @Param        city_id      formData  int     false  "City ID"
// @Param        file         formData  file    false  "Attachment"
// @Success      200  {object}  response.Response{data=domain.Candidate}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [put]
// @Security     BearerAuth
func (h *CandidateHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req CandidateRequest
	if err := h.uploads.bind(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	file, err := h.uploads.read(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	current, err := h.candidateUC.FindByID(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if current == nil {
		_ = c.Error(apperror.NotFound(candidateNotFound))
		return
	}

	updated, err := h.candidateUC.Update(ctx, domain.Candidate{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		CreationDate: current.CreationDate,
		CityID:       req.CityID,
	}, file)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !updated {
		_ = c.Error(apperror.NotFound(candidateNotFound))
		return
	}

	candidate, err := h.candidateUC.FindByID(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate updated", candidate)
}

// Delete godoc
// @Summary      Delete a candidate and its attachment
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [delete]
// @Security     BearerAuth
func (h *CandidateHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	deleted, err := h.candidateUC.DeleteByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !deleted {
		_ = c.Error(apperror.NotFound(candidateNotFound))
		return
	}
	response.Success(c, http.StatusOK, "Candidate deleted", nil)
}

// Export godoc
// @Summary      Export candidates as XLSX
// @Tags         candidates
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /candidates/export [get]
// @Security     BearerAuth
func (h *CandidateHandler) Export(c *gin.Context) {
	data, err := h.exportUC.CandidatesXLSX(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Attachment(c, "candidates.xlsx", xlsxContentType, data)
}
