package routers

import (
	"telemed-service/internal/app/delivery/http/controllers"
	"telemed-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAdminRoutes(router chi.Router, middlewares *middlewares.Middlewares, onboardingController *controllers.OnboardingController, planController *controllers.PlanController) {
	router.Use(middlewares.RequireSuperadminAPIKey)
	router.Use(middlewares.Authorize)

	router.Post("/criar-usuario-completo", onboardingController.CreateCompleteUser)
	router.Post("/onboarding/{nationalId}/resume", onboardingController.Resume)
	router.Get("/onboarding/{nationalId}", onboardingController.GetStatus)
	router.Post("/planos", planController.CreatePlan)
}
