package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/dto/responses"
	"telemed-service/internal/pkg/exceptions"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type fakeAppointmentUsecase struct {
	contracts.AppointmentUsecase
	identities map[string]string
	created    *requests.CreateAppointment
	createErr  error
	canceled   []string
	cancelErr  error
}

func (f *fakeAppointmentUsecase) NationalIDForIdentityUser(ctx context.Context, identityUserID string) (string, error) {
	nationalID, ok := f.identities[identityUserID]
	if !ok {
		return "", exceptions.ErrSubscriberNotFound(nil)
	}
	return nationalID, nil
}

func (f *fakeAppointmentUsecase) CreateAppointment(ctx context.Context, request *requests.CreateAppointment) (*responses.Appointment, error) {
	f.created = request
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &responses.Appointment{UUID: "apt-1", SpecialtyUUID: request.SpecialtyID, Status: constvars.AppointmentStatusScheduled}, nil
}

func (f *fakeAppointmentUsecase) CancelAppointment(ctx context.Context, nationalID, appointmentUUID string) error {
	f.canceled = append(f.canceled, nationalID+"/"+appointmentUUID)
	return f.cancelErr
}

func newTestAppointmentRouter(usecase contracts.AppointmentUsecase, ctxValues map[constvars.ContextKey]interface{}) http.Handler {
	ctrl := NewAppointmentController(zap.NewNop(), &config.InternalConfig{}, usecase)
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			for key, value := range ctxValues {
				ctx = context.WithValue(ctx, key, value)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.Post("/agendamentos", ctrl.CreateAppointment)
	router.Delete("/agendamentos/{uuid}", ctrl.CancelAppointment)
	return router
}

func sessionCaller(uid string) map[constvars.ContextKey]interface{} {
	return map[constvars.ContextKey]interface{}{constvars.CONTEXT_UID_KEY: uid}
}

func apiKeyCaller() map[constvars.ContextKey]interface{} {
	return map[constvars.ContextKey]interface{}{
		constvars.CONTEXT_API_KEY_AUTH: true,
		constvars.CONTEXT_UID_KEY:      constvars.APIKeySuperadminUID,
	}
}

func TestAppointmentControllerCreateAppointment(t *testing.T) {
	const body = `{"cpf":"999.888.777-66","date":"2024-05-10","from":"09:00","to":"09:30","specialtyId":" sp-x "}`

	t.Run("Session caller books for its own subscriber", func(t *testing.T) {
		usecase := &fakeAppointmentUsecase{identities: map[string]string{"user-1": "11122233344"}}
		rr := httptest.NewRecorder()
		newTestAppointmentRouter(usecase, sessionCaller("user-1")).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/agendamentos", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "apt-1", gjson.Get(rr.Body.String(), "data.uuid").String())
		require.NotNil(t, usecase.created)
		assert.Equal(t, "11122233344", usecase.created.NationalID)
		assert.Equal(t, "sp-x", usecase.created.SpecialtyID)
	})

	t.Run("Unknown specialty answers 422 with the submitted body", func(t *testing.T) {
		usecase := &fakeAppointmentUsecase{}
		usecase.createErr = exceptions.ErrUnknownSpecialty("sp-x", map[string]interface{}{"cpf": "99988877766", "specialtyId": "sp-x"})
		rr := httptest.NewRecorder()
		newTestAppointmentRouter(usecase, apiKeyCaller()).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/agendamentos", strings.NewReader(body)))

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		response := rr.Body.String()
		assert.Equal(t, constvars.ErrorKindCompatibility, gjson.Get(response, "kind").String())
		assert.Equal(t, "sp-x", gjson.Get(response, "details."+exceptions.DetailSpecialtyID).String())
		assert.Equal(t, "sp-x", gjson.Get(response, "details."+exceptions.DetailSubmittedBody+".specialtyId").String())
		assert.Equal(t, "99988877766", usecase.created.NationalID)
	})

	t.Run("Session without subscriber", func(t *testing.T) {
		usecase := &fakeAppointmentUsecase{identities: map[string]string{}}
		rr := httptest.NewRecorder()
		newTestAppointmentRouter(usecase, sessionCaller("user-2")).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/agendamentos", strings.NewReader(body)))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Nil(t, usecase.created)
	})
}

func TestAppointmentControllerCancelAppointment(t *testing.T) {
	t.Run("Canceled", func(t *testing.T) {
		usecase := &fakeAppointmentUsecase{identities: map[string]string{"user-1": "11122233344"}}
		rr := httptest.NewRecorder()
		newTestAppointmentRouter(usecase, sessionCaller("user-1")).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/agendamentos/apt-1", nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Body.String())
		assert.Equal(t, []string{"11122233344/apt-1"}, usecase.canceled)
	})

	t.Run("API key caller names the subscriber", func(t *testing.T) {
		usecase := &fakeAppointmentUsecase{}
		rr := httptest.NewRecorder()
		newTestAppointmentRouter(usecase, apiKeyCaller()).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/agendamentos/apt-1?cpf=111.222.333-44", nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, []string{"11122233344/apt-1"}, usecase.canceled)
	})

	t.Run("Unknown appointment", func(t *testing.T) {
		usecase := &fakeAppointmentUsecase{
			identities: map[string]string{"user-1": "11122233344"},
			cancelErr:  exceptions.ErrAppointmentNotFound(nil),
		}
		rr := httptest.NewRecorder()
		newTestAppointmentRouter(usecase, sessionCaller("user-1")).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/agendamentos/missing", nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, constvars.ErrorKindNotFound, gjson.Get(rr.Body.String(), "kind").String())
	})
}
