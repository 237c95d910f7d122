package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go-dreamjob-backend/internal/delivery/http/response"
	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/pkg/apperror"
	"go-dreamjob-backend/pkg/metrics"
	"go-dreamjob-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	// multipart framing allowance on top of the attachment limit
	formOverhead    = 1 << 20
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// uploadReader extracts the optional "file" part of a multipart request
type uploadReader struct {
	maxBytes int64
	secLog   *security.SecurityLogger
	metrics  *metrics.Metrics
}

func newUploadReader(maxBytes int64, secLog *security.SecurityLogger, m *metrics.Metrics) *uploadReader {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &uploadReader{maxBytes: maxBytes, secLog: secLog, metrics: m}
}

// limitBody caps the request body before gin parses the form
func (u *uploadReader) limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, u.maxBytes+formOverhead)
}

// bind caps the body and binds form or JSON fields into dst
func (u *uploadReader) bind(c *gin.Context, dst interface{}) error {
	u.limitBody(c)
	if err := c.ShouldBind(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return u.reject(c, "", "body_too_large",
				apperror.RequestTooLarge(fmt.Sprintf("File exceeds the %d byte limit", u.maxBytes)))
		}
		return apperror.BadRequest("Invalid form data")
	}
	return nil
}

// read returns an empty FileDto when the request carries no file or an
// empty one.
func (u *uploadReader) read(c *gin.Context) (domain.FileDto, error) {
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return domain.FileDto{}, nil
		case errors.As(err, &tooLarge):
			return domain.FileDto{}, u.reject(c, "", "body_too_large",
				apperror.RequestTooLarge(fmt.Sprintf("File exceeds the %d byte limit", u.maxBytes)))
		default:
			return domain.FileDto{}, apperror.BadRequest("Malformed multipart form")
		}
	}

	if header.Size == 0 {
		return domain.FileDto{}, nil
	}
	if header.Size > u.maxBytes {
		return domain.FileDto{}, u.reject(c, header.Filename, "file_too_large",
			apperror.RequestTooLarge(fmt.Sprintf("File exceeds the %d byte limit", u.maxBytes)))
	}

	src, err := header.Open()
	if err != nil {
		return domain.FileDto{}, apperror.Internal(fmt.Errorf("open upload: %w", err))
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, u.maxBytes+1))
	if err != nil {
		return domain.FileDto{}, apperror.Internal(fmt.Errorf("read upload: %w", err))
	}

	result := security.ValidateFile(header.Filename, data, u.maxBytes)
	if !result.Valid {
		if int64(len(data)) > u.maxBytes {
			return domain.FileDto{}, u.reject(c, header.Filename, result.Error, apperror.RequestTooLarge(result.Error))
		}
		return domain.FileDto{}, u.reject(c, header.Filename, result.Error, apperror.BadRequest(result.Error))
	}

	u.metrics.ObserveUpload(len(data))
	return domain.FileDto{Name: header.Filename, Content: data}, nil
}

func (u *uploadReader) reject(c *gin.Context, filename, reason string, err *apperror.AppError) error {
	if u.secLog != nil {
		u.secLog.LogUploadRejected(c.Request.Context(), c.ClientIP(), response.RequestID(c), filename, reason)
	}
	return err
}

func parseID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid id")
	}
	return id, nil
}
