package handlers

import (
	"clinicdesk-backend/internal/api/middleware"
	"clinicdesk-backend/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var dto struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.auth.Register(c.UserContext(), dto.FullName, dto.Email, dto.Password)
	if err != nil {
		return respondError(c, err, errorMessages{Duplicate: "Email already in use."})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful!",
		"user":    user,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var dto struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}

	session, ok, err := h.auth.Login(c.UserContext(), dto.Email, dto.Password)
	if err != nil {
		return respondError(c, err, errorMessages{Internal: "Internal server error during login"})
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Login successful",
		"token":    session.Token,
		"role":     session.Role,
		"fullName": session.FullName,
	})
}

// GET /auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	id, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token userId",
		})
	}

	user, err := h.auth.Me(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, errorMessages{NotFound: "User not found"})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": user,
	})
}
