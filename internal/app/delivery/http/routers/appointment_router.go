package routers

import (
	"telemed-service/internal/app/delivery/http/controllers"
	"telemed-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, appointmentController *controllers.AppointmentController) {
	router.Use(middlewares.SessionRequired)
	router.Use(middlewares.Authorize)

	router.Post("/", appointmentController.CreateAppointment)
	router.Get("/", appointmentController.ListAppointments)
	router.Get("/disponibilidade", appointmentController.GetAvailability)
	router.Get("/encaminhamentos", appointmentController.ListReferrals)
	router.Delete("/{uuid}", appointmentController.CancelAppointment)

	router.Post("/imediato", appointmentController.CreateImmediateRequest)
	router.Get("/imediato/{id}", appointmentController.GetImmediateRequest)
	router.Delete("/imediato/{id}", appointmentController.CancelImmediateRequest)
}
