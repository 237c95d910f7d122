package v1

import (
	"net/http"

	"go-dreamjob-backend/internal/delivery/http/response"
	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CityHandler struct {
	cityUC domain.CityUsecase
}

func NewCityHandler(r *gin.RouterGroup, cityUC domain.CityUsecase) {
	handler := &CityHandler{cityUC: cityUC}

	cities := r.Group("/cities")
	{
		cities.GET("", handler.List)
		cities.GET("/:id", handler.Get)
	}
}

// List godoc
// @Summary      List cities
// @Tags         cities
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.City}
// @Router       /cities [get]
// @Security     BearerAuth
func (h *CityHandler) List(c *gin.Context) {
	cities, err := h.cityUC.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Cities", cities)
}

// Get godoc
// @Summary      Get a city
// @Tags         cities
// @Produce      json
// @Param        id   path      int  true  "City ID"
// @Success      200  {object}  response.Response{data=domain.City}
// @Failure      404  {object}  response.Response
// @Router       /cities/{id} [get]
// @Security     BearerAuth
func (h *CityHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	city, err := h.cityUC.FindByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if city == nil {
		_ = c.Error(apperror.NotFound("City with the given id was not found"))
		return
	}
	response.Success(c, http.StatusOK, "City", city)
}
