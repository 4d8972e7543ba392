package routers

import (
	"telemed-service/internal/app/delivery/http/controllers"
	"telemed-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachSubscriptionRoutes(router chi.Router, middlewares *middlewares.Middlewares, onboardingController *controllers.OnboardingController) {
	router.With(middlewares.PublicRateLimit.Limit).Post("/", onboardingController.Subscribe)
	router.Get("/status", onboardingController.GetSubscriptionStatus)
}
