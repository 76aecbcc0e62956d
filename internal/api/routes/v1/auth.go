package v1

import (
	"clinicdesk-backend/internal/handlers"
	"clinicdesk-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

func registerAuth(r fiber.Router, auth *services.AuthService, protected fiber.Handler) {
	authHandler := handlers.NewAuthHandler(auth)

	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Get("/auth/me", protected, authHandler.Me)
}
