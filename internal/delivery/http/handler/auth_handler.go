package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/country-explorer/internal/pkg/errors"
	"github.com/country-explorer/internal/pkg/utils"
	"github.com/country-explorer/internal/pkg/validator"
	"github.com/country-explorer/internal/usecase"
	"github.com/country-explorer/internal/usecase/dto"
)

// AuthHandler - register/login endpoints. These keep the original wire
// contract: success bodies are bare {token, user}, failures bare {message}.
type AuthHandler struct {
	authUC *usecase.AuthUseCase
	logger *zap.Logger
}

func NewAuthHandler(authUC *usecase.AuthUseCase, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authUC: authUC,
		logger: logger,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Creates an account and returns an immediately usable bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} map[string]string
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendMessage(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendMessage(c, http.StatusBadRequest, "All fields are required")
	}

	session, err := h.authUC.Register(c.Context(), req)
	if err != nil {
		if stderrors.Is(err, errors.ErrDuplicateAccount) {
			return utils.SendMessage(c, http.StatusBadRequest, "User already exists")
		}
		return utils.SendError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		Token: session.Token,
		User:  session.User,
	})
}

// Login godoc
// @Summary Log in
// @Description Verifies credentials and returns a bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} map[string]string
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendMessage(c, http.StatusBadRequest, "Invalid request body")
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendMessage(c, http.StatusBadRequest, "All fields are required")
	}

	session, err := h.authUC.Login(c.Context(), req)
	if err != nil {
		if stderrors.Is(err, errors.ErrInvalidCredentials) {
			return utils.SendMessage(c, http.StatusBadRequest, "Invalid credentials")
		}
		return utils.SendError(c, err)
	}

	return c.JSON(dto.AuthResponse{
		Token: session.Token,
		User:  session.User,
	})
}
