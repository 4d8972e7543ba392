package routers

import (
	"fmt"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/delivery/http/controllers"
	mw "telemed-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Controllers struct {
	Onboarding  *controllers.OnboardingController
	Plan        *controllers.PlanController
	Appointment *controllers.AppointmentController
	Webhook     *controllers.WebhookController
}

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *mw.Middlewares,
	ctrls Controllers,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-ID", mw.HeaderAPIKey},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if internalConfig.App.FrontendDomain != "" {
		corsOptions.AllowedOrigins = []string{internalConfig.App.FrontendDomain}
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.APIKeyAuth)
	router.Use(middlewares.ConditionalRateLimit(middlewares.CreateRateLimiters()))

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/admin", func(r chi.Router) {
				attachAdminRoutes(r, middlewares, ctrls.Onboarding, ctrls.Plan)
			})

			r.Route("/assinaturas", func(r chi.Router) {
				attachSubscriptionRoutes(r, middlewares, ctrls.Onboarding)
			})

			r.Route("/webhooks", func(r chi.Router) {
				attachWebhookRoutes(r, ctrls.Webhook)
			})

			r.Route("/agendamentos", func(r chi.Router) {
				attachAppointmentRoutes(r, middlewares, ctrls.Appointment)
			})
		})
	})
}
