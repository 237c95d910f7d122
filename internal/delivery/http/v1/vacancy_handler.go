package v1

import (
	"net/http"

	"go-dreamjob-backend/internal/delivery/http/response"
	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const vacancyNotFound = "Vacancy with the given id was not found"

type VacancyHandler struct {
	vacancyUC domain.VacancyUsecase
	exportUC  domain.ExportUsecase
	uploads   *uploadReader
}

func NewVacancyHandler(r *gin.RouterGroup, upload gin.HandlerFunc, vacancyUC domain.VacancyUsecase, exportUC domain.ExportUsecase, uploads *uploadReader) {
	handler := &VacancyHandler{vacancyUC: vacancyUC, exportUC: exportUC, uploads: uploads}

	vacancies := r.Group("/vacancies")
	{
		vacancies.GET("", handler.List)
		vacancies.GET("/export", handler.Export)
		vacancies.GET("/:id", handler.Get)
		vacancies.POST("", upload, handler.Create)
		vacancies.PUT("/:id", upload, handler.Update)
		vacancies.DELETE("/:id", handler.Delete)
	}
}

type VacancyRequest struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Visible     bool   `form:"visible" json:"visible"`
	CityID      int    `form:"city_id" json:"city_id"`
}

// List godoc
// @Summary      List vacancies
// @Tags         vacancies
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Vacancy}
// @Failure      401  {object}  response.Response
// @Router       /vacancies [get]
// @Security     BearerAuth
func (h *VacancyHandler) List(c *gin.Context) {
	vacancies, err := h.vacancyUC.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Vacancies", vacancies)
}

// Get godoc
// @Summary      Get a vacancy
// @Tags         vacancies
// @Produce      json
// @Param        id   path      int  true  "Vacancy ID"
// @Success      200  {object}  response.Response{data=domain.Vacancy}
// @Failure      404  {object}  response.Response
// @Router       /vacancies/{id} [get]
// @Security     BearerAuth
func (h *VacancyHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	vacancy, err := h.vacancyUC.FindByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if vacancy == nil {
		_ = c.Error(apperror.NotFound(vacancyNotFound))
		return
	}
	response.Success(c, http.StatusOK, "Vacancy", vacancy)
}

// Create godoc
// @Summary      Create a vacancy
// @Description  Fields as multipart form, with an optional "file" attachment
// @Tags         vacancies
// @Accept       multipart/form-data
// @Produce      json
// @Param        title        formData  string  true   "Title"
// @Param        description  formData  string  false  "Description"
// @Param        visible      formData  bool    false  "Published"
// @Param        city_id      formData  int     false  "City ID"
// @Param        file         formData  file    false  "Attachment"
// @Success      201  {object}  response.Response{data=domain.Vacancy}
// @Failure      400  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Router       /vacancies [post]
// @Security     BearerAuth
func (h *VacancyHandler) Create(c *gin.Context) {
	var req VacancyRequest
	if err := h.uploads.bind(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	file, err := h.uploads.read(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	saved, err := h.vacancyUC.Save(c.Request.Context(), domain.Vacancy{
		Title:       req.Title,
		Description: req.Description,
		Visible:     req.Visible,
		CityID:      req.CityID,
	}, file)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Vacancy created", saved)
}

// Update godoc
// @Summary      Update a vacancy
// @Description  Replaces the fields; a new "file" replaces the attachment, no file keeps it
// @Tags         vacancies
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           path      int     true   "Vacancy ID"
// @Param        title        formData  string  true   "Title"
// @Param        description  formData  string  false  "Description"
// @Param        visible      formData  bool    false  "Published"
// @Param        city_id      formData  int     false  "City ID"
// @Param        file         formData  file    false  "Attachment"
// @Success      200  {object}  response.Response{data=domain.Vacancy}
// @Failure      404  {object}  response.Response
// @Router       /vacancies/{id} [put]
// @Security     BearerAuth
func (h *VacancyHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var req VacancyRequest
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
	current, err := h.vacancyUC.FindByID(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if current == nil {
		_ = c.Error(apperror.NotFound(vacancyNotFound))
		return
	}

	updated, err := h.vacancyUC.Update(ctx, domain.Vacancy{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		CreationDate: current.CreationDate,
		Visible:      req.Visible,
		CityID:       req.CityID,
	}, file)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !updated {
		_ = c.Error(apperror.NotFound(vacancyNotFound))
		return
	}

	vacancy, err := h.vacancyUC.FindByID(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Vacancy updated", vacancy)
}

// Delete godoc
// @Summary      Delete a vacancy and its attachment
// @Tags         vacancies
// @Produce      json
// @Param        id   path      int  true  "Vacancy ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /vacancies/{id} [delete]
// @Security     BearerAuth
func (h *VacancyHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	deleted, err := h.vacancyUC.DeleteByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if !deleted {
		_ = c.Error(apperror.NotFound(vacancyNotFound))
		return
	}
	response.Success(c, http.StatusOK, "Vacancy deleted", nil)
}

// Export godoc
// @Summary      Export vacancies as XLSX
// @Tags         vacancies
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /vacancies/export [get]
// @Security     BearerAuth
func (h *VacancyHandler) Export(c *gin.Context) {
	data, err := h.exportUC.VacanciesXLSX(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Attachment(c, "vacancies.xlsx", xlsxContentType, data)
}
