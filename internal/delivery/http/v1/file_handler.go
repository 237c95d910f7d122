package v1

import (
	"net/http"

	"go-dreamjob-backend/internal/delivery/http/response"
	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/pkg/apperror"
	"go-dreamjob-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	files domain.FileStore
}

func NewFileHandler(r *gin.RouterGroup, files domain.FileStore) {
	handler := &FileHandler{files: files}

	r.GET("/files/:id", handler.Download)
}

// Download godoc
// @Summary      Download an attachment
// @Tags         files
// @Produce      octet-stream
// @Param        id   path      int  true  "File ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Router       /files/{id} [get]
// @Security     BearerAuth
func (h *FileHandler) Download(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	file, err := h.files.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if file == nil {
		_ = c.Error(apperror.NotFound("File not found"))
		return
	}

	response.Attachment(c, security.SanitizeFilename(file.Name), http.DetectContentType(file.Content), file.Content)
}
