package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/country-explorer/internal/pkg/utils"
	"github.com/country-explorer/internal/usecase"
)

// CountryHandler - caching proxy over the public country directory.
type CountryHandler struct {
	directoryUC *usecase.DirectoryUseCase
	logger      *zap.Logger
}

func NewCountryHandler(directoryUC *usecase.DirectoryUseCase, logger *zap.Logger) *CountryHandler {
	return &CountryHandler{
		directoryUC: directoryUC,
		logger:      logger,
	}
}

// List godoc
// @Summary Full country collection
// @Description Returns every country, sorted by common name. Served from cache when warm.
// @Tags Countries
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/countries [get]
func (h *CountryHandler) List(c *fiber.Ctx) error {
	countries, err := h.directoryUC.GetCountries(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, countries, &utils.Meta{
		Total: len(countries),
	})
}

// Detail godoc
// @Summary One country with borders and boundary polygon
// @Tags Countries
// @Produce json
// @Param code path string true "ISO alpha-3 country code"
// @Success 200 {object} utils.SuccessResponse{data=dto.CountryDetailResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/countries/{code} [get]
func (h *CountryHandler) Detail(c *fiber.Ctx) error {
	detail, err := h.directoryUC.GetDetail(c.Context(), c.Params("code"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, detail, nil)
}

// Geometry godoc
// @Summary Shared GeoJSON boundary dataset
// @Tags Countries
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/geometry [get]
func (h *CountryHandler) Geometry(c *fiber.Ctx) error {
	fc, err := h.directoryUC.GetGeometry(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fc, nil)
}
