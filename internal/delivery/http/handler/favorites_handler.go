package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/country-explorer/internal/delivery/http/middleware"
	"github.com/country-explorer/internal/pkg/utils"
	"github.com/country-explorer/internal/usecase"
	"github.com/country-explorer/internal/usecase/dto"
)

// FavoritesHandler - per-user favorite codes, bearer-protected.
type FavoritesHandler struct {
	favoritesUC *usecase.FavoritesUseCase
	logger      *zap.Logger
}

func NewFavoritesHandler(favoritesUC *usecase.FavoritesUseCase, logger *zap.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		favoritesUC: favoritesUC,
		logger:      logger,
	}
}

// List godoc
// @Summary List favorite country codes
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.FavoritesResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/favorites [get]
func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	codes, err := h.favoritesUC.List(c.Context(), userID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(dto.FavoritesResponse{Data: codes})
}

// Add godoc
// @Summary Mark a country as favorite
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param code path string true "ISO alpha-3 country code"
// @Success 201 {object} map[string]string
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/favorites/{code} [post]
func (h *FavoritesHandler) Add(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	if err := h.favoritesUC.Add(c.Context(), userID, c.Params("code")); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendMessage(c, http.StatusCreated, "Added to favorites")
}

// Remove godoc
// @Summary Remove a country from favorites
// @Tags Favorites
// @Produce json
// @Security BearerAuth
// @Param code path string true "ISO alpha-3 country code"
// @Success 200 {object} map[string]string
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/favorites/{code} [delete]
func (h *FavoritesHandler) Remove(c *fiber.Ctx) error {
	userID := c.Locals(middleware.UserIDKey).(string)

	if err := h.favoritesUC.Remove(c.Context(), userID, c.Params("code")); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendMessage(c, http.StatusOK, "Removed from favorites")
}
