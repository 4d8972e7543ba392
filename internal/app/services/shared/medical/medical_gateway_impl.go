package medical

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"telemed-service/internal/app/config"
	"telemed-service/internal/app/contracts"
	"telemed-service/internal/app/models"
	"telemed-service/internal/pkg/constvars"
	"telemed-service/internal/pkg/dto/requests"
	"telemed-service/internal/pkg/exceptions"
	"telemed-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	medicalGatewayInstance contracts.MedicalGateway
	onceMedicalGateway     sync.Once
)

type medicalGateway struct {
	BaseUrl        string
	ClientID       string
	Token          string
	RequestTimeout time.Duration
	HTTPClient     *http.Client
	Breaker        *gobreaker.CircuitBreaker[[]byte]
	Limiter        *rate.Limiter
	Adapter        *payloadAdapter
	Log            *zap.Logger
}

// NewMedicalGateway builds the shared client. Calls are bounded per request by
// context deadlines instead of a client wide timeout, so the referral listing
// can run on its own longer deadline.
func NewMedicalGateway(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.MedicalGateway {
	onceMedicalGateway.Do(func() {
		medicalGatewayInstance = newMedicalGateway(internalConfig, &http.Client{}, logger)
	})
	return medicalGatewayInstance
}

func newMedicalGateway(internalConfig *config.InternalConfig, httpClient *http.Client, logger *zap.Logger) *medicalGateway {
	cfg := internalConfig.Medical

	limit := rate.Inf
	if cfg.RateLimitPerSecond > 0 {
		limit = rate.Limit(cfg.RateLimitPerSecond)
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	loc, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		logger.Warn("medicalGateway unknown timezone, using UTC",
			zap.String("timezone", internalConfig.App.Timezone),
			zap.Error(err),
		)
		loc = time.UTC
	}

	return &medicalGateway{
		BaseUrl:        strings.TrimRight(cfg.BaseUrl, "/"),
		ClientID:       cfg.ClientID,
		Token:          cfg.Token,
		RequestTimeout: cfg.RequestTimeout(),
		HTTPClient:     httpClient,
		Breaker:        newCircuitBreaker(cfg, logger),
		Limiter:        rate.NewLimiter(limit, burst),
		Adapter:        newPayloadAdapter(loc),
		Log:            logger,
	}
}

func newCircuitBreaker(cfg config.AppMedical, logger *zap.Logger) *gobreaker.CircuitBreaker[[]byte] {
	threshold := uint32(cfg.CircuitBreakerFailureThreshold)
	if threshold == 0 {
		threshold = 5
	}

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        constvars.ProviderMedical,
		MaxRequests: uint32(cfg.CircuitBreakerMaxRequests),
		Interval:    time.Duration(cfg.CircuitBreakerIntervalInSeconds) * time.Second,
		Timeout:     time.Duration(cfg.CircuitBreakerTimeoutInSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("medicalGateway circuit breaker state changed",
				zap.String(constvars.LoggingCircuitBreakerName, name),
				zap.String(constvars.LoggingCircuitBreakerFrom, from.String()),
				zap.String(constvars.LoggingCircuitBreakerTo, to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !tripsBreaker(err)
		},
	})
}

// tripsBreaker reports whether err counts as a provider outage: transport failures,
// provider timeouts and 5xx. Client errors and the caller's own deadline or
// cancellation leave the breaker closed.
func tripsBreaker(err error) bool {
	if exceptions.IsKind(err, constvars.ErrorKindTimeout) {
		return exceptions.UpstreamProvider(err) != ""
	}
	if !exceptions.IsKind(err, constvars.ErrorKindUpstreamFatal) {
		return false
	}
	status, ok := exceptions.UpstreamStatus(err)
	return !ok || status >= constvars.StatusInternalServerError
}

func (g *medicalGateway) GetBeneficiaryByNationalID(ctx context.Context, nationalID string) (*models.Beneficiary, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.GetBeneficiaryByNationalID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, nationalID),
	)

	body, err := g.do(ctx, constvars.MethodGet, constvars.MedicalPathBeneficiaries+"/"+url.PathEscape(nationalID), nil)
	if err != nil {
		g.Log.Info("medicalGateway.GetBeneficiaryByNationalID error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	beneficiary := g.Adapter.beneficiary(body)
	if beneficiary == nil || beneficiary.UUID == "" {
		return nil, exceptions.ErrUpstreamNotConsistent(constvars.ProviderMedical, constvars.StatusNotFound, string(body))
	}

	g.Log.Info("medicalGateway.GetBeneficiaryByNationalID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBeneficiaryUUIDKey, beneficiary.UUID),
		zap.String(constvars.LoggingServiceTypeKey, beneficiary.ServiceType),
	)
	return beneficiary, nil
}

func (g *medicalGateway) CreateBeneficiary(ctx context.Context, request *requests.MedicalBeneficiary) (*models.Beneficiary, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.CreateBeneficiary called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, request.Cpf),
	)

	body, err := g.do(ctx, constvars.MethodPost, constvars.MedicalPathBeneficiaries, request)
	if err != nil {
		g.Log.Error("medicalGateway.CreateBeneficiary error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	beneficiary := g.Adapter.beneficiary(body)
	if beneficiary == nil {
		beneficiary = &models.Beneficiary{}
	}
	if beneficiary.NationalID == "" {
		beneficiary.NationalID = request.Cpf
	}

	g.Log.Info("medicalGateway.CreateBeneficiary succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBeneficiaryUUIDKey, beneficiary.UUID),
	)
	return beneficiary, nil
}

func (g *medicalGateway) UpdateBeneficiary(ctx context.Context, beneficiaryUUID string, request *requests.MedicalBeneficiaryUpdate) error {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.UpdateBeneficiary called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBeneficiaryUUIDKey, beneficiaryUUID),
		zap.String(constvars.LoggingServiceTypeKey, request.ServiceType),
	)

	_, err := g.do(ctx, constvars.MethodPut, constvars.MedicalPathBeneficiaries+"/"+url.PathEscape(beneficiaryUUID), request)
	if err != nil {
		g.Log.Error("medicalGateway.UpdateBeneficiary error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	g.Log.Info("medicalGateway.UpdateBeneficiary succeeded", zap.String(constvars.LoggingRequestIDKey, requestID))
	return nil
}

func (g *medicalGateway) GetMedicalPlan(ctx context.Context, medicalPlanUUID string) (*models.MedicalPlan, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.GetMedicalPlan called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPlanIDKey, medicalPlanUUID),
	)

	body, err := g.do(ctx, constvars.MethodGet, constvars.MedicalPathPlans+"/"+url.PathEscape(medicalPlanUUID), nil)
	if err != nil {
		g.Log.Error("medicalGateway.GetMedicalPlan error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	plan := g.Adapter.medicalPlan(body)
	if plan.UUID == "" {
		plan.UUID = medicalPlanUUID
	}
	return plan, nil
}

func (g *medicalGateway) ListSpecialties(ctx context.Context) ([]models.Specialty, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.ListSpecialties called", zap.String(constvars.LoggingRequestIDKey, requestID))

	body, err := g.do(ctx, constvars.MethodGet, constvars.MedicalPathSpecialties, nil)
	if err != nil {
		g.Log.Error("medicalGateway.ListSpecialties error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return g.Adapter.specialties(body), nil
}

func (g *medicalGateway) ListReferrals(ctx context.Context, beneficiaryUUID string) ([]models.Referral, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.ListReferrals called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBeneficiaryUUIDKey, beneficiaryUUID),
	)

	// bounded by the caller's referral deadline rather than the per call timeout
	body, err := g.doWithin(ctx, 0, constvars.MethodGet, fmt.Sprintf(constvars.MedicalPathReferralsFormat, url.PathEscape(beneficiaryUUID)), nil)
	if err != nil {
		// a beneficiary without referrals may be answered with 404
		if exceptions.IsUpstreamStatus(err, constvars.StatusNotFound) {
			return []models.Referral{}, nil
		}
		g.Log.Error("medicalGateway.ListReferrals error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	referrals := g.Adapter.referrals(body)
	g.Log.Info("medicalGateway.ListReferrals succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingReferralCountKey, len(referrals)),
	)
	return referrals, nil
}

func (g *medicalGateway) GetAvailability(ctx context.Context, request *requests.MedicalAvailability) ([]models.AvailabilitySlot, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.GetAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSpecialtyIDKey, request.SpecialtyUUID),
	)

	query := url.Values{}
	query.Set("specialtyUuid", request.SpecialtyUUID)
	query.Set("dateInitial", request.DateInitial)
	query.Set("dateFinal", request.DateFinal)
	if request.BeneficiaryUUID != "" {
		query.Set("beneficiaryUuid", request.BeneficiaryUUID)
	}

	body, err := g.do(ctx, constvars.MethodGet, constvars.MedicalPathAvailability+"?"+query.Encode(), nil)
	if err != nil {
		g.Log.Error("medicalGateway.GetAvailability error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return g.Adapter.availability(body, request.SpecialtyUUID), nil
}

func (g *medicalGateway) CreateAppointment(ctx context.Context, request *requests.MedicalAppointment) (*models.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.CreateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBeneficiaryUUIDKey, request.BeneficiaryUUID),
		zap.String(constvars.LoggingSpecialtyIDKey, request.SpecialtyUUID),
		zap.String(constvars.LoggingReferralUUIDKey, request.ReferralUUID),
	)

	body, err := g.do(ctx, constvars.MethodPost, constvars.MedicalPathAppointments, request)
	if err != nil {
		g.Log.Error("medicalGateway.CreateAppointment error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	appointment := g.Adapter.appointment(body)
	if appointment.BeneficiaryUUID == "" {
		appointment.BeneficiaryUUID = request.BeneficiaryUUID
	}
	if appointment.SpecialtyUUID == "" {
		appointment.SpecialtyUUID = request.SpecialtyUUID
	}
	if appointment.ReferralUUID == "" {
		appointment.ReferralUUID = request.ReferralUUID
	}
	if appointment.Start.IsZero() {
		appointment.Start = g.Adapter.parseDateTime(request.Date, request.From)
		appointment.End = g.Adapter.parseDateTime(request.Date, request.To)
	}

	g.Log.Info("medicalGateway.CreateAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentUUIDKey, appointment.UUID),
	)
	return appointment, nil
}

func (g *medicalGateway) GetAppointment(ctx context.Context, appointmentUUID string) (*models.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.GetAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentUUIDKey, appointmentUUID),
	)

	body, err := g.do(ctx, constvars.MethodGet, constvars.MedicalPathAppointments+"/"+url.PathEscape(appointmentUUID), nil)
	if err != nil {
		if exceptions.IsUpstreamStatus(err, constvars.StatusNotFound) {
			return nil, exceptions.ErrAppointmentNotFound(err)
		}
		g.Log.Error("medicalGateway.GetAppointment error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return g.Adapter.appointment(body), nil
}

func (g *medicalGateway) ListAppointments(ctx context.Context, beneficiaryUUID string) ([]models.Appointment, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.ListAppointments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBeneficiaryUUIDKey, beneficiaryUUID),
	)

	body, err := g.do(ctx, constvars.MethodGet, fmt.Sprintf(constvars.MedicalPathBeneficiaryAppts, url.PathEscape(beneficiaryUUID)), nil)
	if err != nil {
		if exceptions.IsUpstreamStatus(err, constvars.StatusNotFound) {
			return []models.Appointment{}, nil
		}
		g.Log.Error("medicalGateway.ListAppointments error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	appointments := g.Adapter.appointments(body)
	g.Log.Info("medicalGateway.ListAppointments succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingAppointmentCountKey, len(appointments)),
	)
	return appointments, nil
}

func (g *medicalGateway) CancelAppointment(ctx context.Context, appointmentUUID string) error {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.CancelAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentUUIDKey, appointmentUUID),
	)

	_, err := g.do(ctx, constvars.MethodDelete, constvars.MedicalPathAppointments+"/"+url.PathEscape(appointmentUUID), nil)
	if err != nil {
		if exceptions.IsUpstreamStatus(err, constvars.StatusNotFound) {
			return exceptions.ErrAppointmentNotFound(err)
		}
		g.Log.Error("medicalGateway.CancelAppointment error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}

	g.Log.Info("medicalGateway.CancelAppointment succeeded", zap.String(constvars.LoggingRequestIDKey, requestID))
	return nil
}

func (g *medicalGateway) CreateImmediateRequest(ctx context.Context, beneficiaryUUID string, request *requests.MedicalImmediateRequest) (*models.ProviderImmediateRequest, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.CreateImmediateRequest called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBeneficiaryUUIDKey, beneficiaryUUID),
	)

	body, err := g.do(ctx, constvars.MethodPost, fmt.Sprintf(constvars.MedicalPathImmediateFormat, url.PathEscape(beneficiaryUUID)), request)
	if err != nil {
		g.Log.Error("medicalGateway.CreateImmediateRequest error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return g.Adapter.immediateRequest(body), nil
}

func (g *medicalGateway) GetImmediateRequest(ctx context.Context, beneficiaryUUID, requestUUID string) (*models.ProviderImmediateRequest, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.GetImmediateRequest called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingImmediateRequestKey, requestUUID),
	)

	body, err := g.do(ctx, constvars.MethodGet, fmt.Sprintf(constvars.MedicalPathImmediateReqFormat, url.PathEscape(beneficiaryUUID), url.PathEscape(requestUUID)), nil)
	if err != nil {
		if exceptions.IsUpstreamStatus(err, constvars.StatusNotFound) {
			return nil, exceptions.ErrImmediateRequestNotFound(err)
		}
		g.Log.Error("medicalGateway.GetImmediateRequest error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return g.Adapter.immediateRequest(body), nil
}

func (g *medicalGateway) CancelImmediateRequest(ctx context.Context, beneficiaryUUID, requestUUID string) error {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("medicalGateway.CancelImmediateRequest called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingImmediateRequestKey, requestUUID),
	)

	_, err := g.do(ctx, constvars.MethodDelete, fmt.Sprintf(constvars.MedicalPathImmediateReqFormat, url.PathEscape(beneficiaryUUID), url.PathEscape(requestUUID)), nil)
	if err != nil {
		// already gone on the network side
		if exceptions.IsUpstreamStatus(err, constvars.StatusNotFound) {
			return nil
		}
		g.Log.Error("medicalGateway.CancelImmediateRequest error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (g *medicalGateway) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	return g.doWithin(ctx, g.RequestTimeout, method, path, body)
}

// doWithin waits for the rate limiter, then runs the request through the circuit
// breaker under timeout. A zero timeout leaves the call bounded by ctx alone.
// 403 and 404 are reported as eventual consistency errors so callers may retry them.
func (g *medicalGateway) doWithin(ctx context.Context, timeout time.Duration, method, path string, body interface{}) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, exceptions.ErrCannotMarshalJSON(err)
		}
	}

	if err := g.Limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrServerDeadlineExceeded(err)
	}

	respBody, err := g.Breaker.Execute(func() ([]byte, error) {
		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		defer cancel()
		return g.send(ctx, callCtx, method, path, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, exceptions.ErrUpstreamCircuitOpen(err, constvars.ProviderMedical)
	}
	return respBody, err
}

// send performs one exchange under callCtx. ctx is the caller's context, used to
// tell the caller giving up apart from the provider being slow.
func (g *medicalGateway) send(ctx, callCtx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(callCtx, method, g.BaseUrl+path, reader)
	if err != nil {
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MedicalMIMEApplication)
	req.Header.Set(constvars.HeaderAccept, constvars.MedicalMIMEApplication)
	req.Header.Set(constvars.MedicalHeaderClientID, g.ClientID)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+g.Token)
	if requestID := utils.GetRequestID(ctx); requestID != "" {
		req.Header.Set(constvars.HeaderXRequestID, requestID)
	}

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return nil, transportError(ctx, callCtx, err, exceptions.ErrSendHTTPRequest)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, callCtx, err, exceptions.ErrDecodeUpstreamResponse)
	}

	switch {
	case resp.StatusCode >= constvars.StatusOK && resp.StatusCode < constvars.StatusMultipleChoices:
		return respBody, nil
	case resp.StatusCode == constvars.StatusForbidden || resp.StatusCode == constvars.StatusNotFound:
		return nil, exceptions.ErrUpstreamNotConsistent(constvars.ProviderMedical, resp.StatusCode, string(respBody))
	default:
		return nil, exceptions.ErrUpstreamFatal(constvars.ProviderMedical, resp.StatusCode, string(respBody))
	}
}

// transportError classifies a failed exchange. The caller's deadline or
// cancellation is reported as such; a call deadline or network timeout while the
// caller still waits is a provider timeout.
func transportError(ctx, callCtx context.Context, err error, fallback func(error, string) *exceptions.CustomError) error {
	if ctx.Err() != nil {
		return exceptions.ErrServerDeadlineExceeded(err)
	}
	var netErr net.Error
	if callCtx.Err() != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
		return exceptions.ErrUpstreamTimeout(err, constvars.ProviderMedical)
	}
	return fallback(err, constvars.ProviderMedical)
}
