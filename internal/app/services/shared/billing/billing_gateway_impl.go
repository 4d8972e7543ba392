package billing

import (
	"bytes"
	"context"
	"fmt"
	"io"
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
	"go.uber.org/zap"
)

var (
	billingGatewayInstance contracts.BillingGateway
	onceBillingGateway     sync.Once
)

type billingGateway struct {
	BaseUrl    string
	ApiKey     string
	HTTPClient *http.Client
	Log        *zap.Logger
}

type customerPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CpfCnpj string `json:"cpfCnpj"`
	Email   string `json:"email"`
}

type subscriptionPayload struct {
	ID                string  `json:"id"`
	Customer          string  `json:"customer"`
	Value             float64 `json:"value"`
	Cycle             string  `json:"cycle"`
	BillingType       string  `json:"billingType"`
	NextDueDate       string  `json:"nextDueDate"`
	Status            string  `json:"status"`
	ExternalReference string  `json:"externalReference"`
}

type paymentPayload struct {
	ID           string  `json:"id"`
	Subscription string  `json:"subscription"`
	Status       string  `json:"status"`
	Value        float64 `json:"value"`
	DueDate      string  `json:"dueDate"`
}

type listPayload[T any] struct {
	Data []T `json:"data"`
}

func NewBillingGateway(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.BillingGateway {
	onceBillingGateway.Do(func() {
		billingGatewayInstance = newBillingGateway(internalConfig, &http.Client{
			Timeout: time.Duration(internalConfig.Billing.RequestTimeoutInSeconds) * time.Second,
		}, logger)
	})
	return billingGatewayInstance
}

func newBillingGateway(internalConfig *config.InternalConfig, httpClient *http.Client, logger *zap.Logger) *billingGateway {
	return &billingGateway{
		BaseUrl:    strings.TrimRight(internalConfig.Billing.BaseUrl, "/"),
		ApiKey:     internalConfig.Billing.ApiKey,
		HTTPClient: httpClient,
		Log:        logger,
	}
}

func (g *billingGateway) FindCustomerByNationalID(ctx context.Context, nationalID string) (*models.BillingCustomer, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("billingGateway.FindCustomerByNationalID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, nationalID),
	)

	query := url.Values{}
	query.Set("cpfCnpj", nationalID)

	var result listPayload[customerPayload]
	err := g.do(ctx, constvars.MethodGet, constvars.BillingPathCustomers+"?"+query.Encode(), nil, &result)
	if err != nil {
		g.Log.Error("billingGateway.FindCustomerByNationalID error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if len(result.Data) == 0 {
		g.Log.Info("billingGateway.FindCustomerByNationalID no customer found",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return nil, nil
	}

	customer := toCustomerModel(result.Data[0])
	g.Log.Info("billingGateway.FindCustomerByNationalID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCustomerIDKey, customer.ID),
	)
	return customer, nil
}

func (g *billingGateway) CreateCustomer(ctx context.Context, request *requests.BillingCustomer) (*models.BillingCustomer, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("billingGateway.CreateCustomer called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingNationalIDKey, request.CpfCnpj),
	)

	var result customerPayload
	err := g.do(ctx, constvars.MethodPost, constvars.BillingPathCustomers, request, &result)
	if err != nil {
		g.Log.Error("billingGateway.CreateCustomer error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	customer := toCustomerModel(result)
	g.Log.Info("billingGateway.CreateCustomer succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCustomerIDKey, customer.ID),
	)
	return customer, nil
}

func (g *billingGateway) CreateSubscription(ctx context.Context, request *requests.BillingSubscription) (*models.BillingSubscription, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("billingGateway.CreateSubscription called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCustomerIDKey, request.Customer),
	)

	var result subscriptionPayload
	err := g.do(ctx, constvars.MethodPost, constvars.BillingPathSubscriptions, request, &result)
	if err != nil {
		g.Log.Error("billingGateway.CreateSubscription error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	subscription := &models.BillingSubscription{
		ID:                result.ID,
		CustomerID:        result.Customer,
		Value:             result.Value,
		Cycle:             result.Cycle,
		BillingMethod:     result.BillingType,
		NextDueDate:       result.NextDueDate,
		Status:            result.Status,
		ExternalReference: result.ExternalReference,
	}
	g.Log.Info("billingGateway.CreateSubscription succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubscriptionIDKey, subscription.ID),
	)
	return subscription, nil
}

func (g *billingGateway) ListSubscriptionPayments(ctx context.Context, subscriptionID string) ([]models.BillingPayment, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("billingGateway.ListSubscriptionPayments called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubscriptionIDKey, subscriptionID),
	)

	var result listPayload[paymentPayload]
	path := fmt.Sprintf(constvars.BillingPathSubscriptionPayments, url.PathEscape(subscriptionID))
	err := g.do(ctx, constvars.MethodGet, path, nil, &result)
	if err != nil {
		g.Log.Error("billingGateway.ListSubscriptionPayments error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	payments := make([]models.BillingPayment, 0, len(result.Data))
	for _, p := range result.Data {
		payments = append(payments, models.BillingPayment{
			ID:             p.ID,
			SubscriptionID: p.Subscription,
			Status:         p.Status,
			Value:          p.Value,
			DueDate:        p.DueDate,
		})
	}

	g.Log.Info("billingGateway.ListSubscriptionPayments succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingPaymentCountKey, len(payments)),
	)
	return payments, nil
}

// do sends a JSON request and decodes a 2xx body into out. Any other status is fatal and
// carries the provider status and body.
func (g *billingGateway) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return exceptions.ErrCannotMarshalJSON(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.BaseUrl+path, reader)
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.BillingHeaderAccessToken, g.ApiKey)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return exceptions.ErrServerDeadlineExceeded(err)
		}
		return exceptions.ErrSendHTTPRequest(err, constvars.ProviderBilling)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return exceptions.ErrDecodeUpstreamResponse(err, constvars.ProviderBilling)
	}

	if resp.StatusCode < constvars.StatusOK || resp.StatusCode >= constvars.StatusMultipleChoices {
		return exceptions.ErrUpstreamFatal(constvars.ProviderBilling, resp.StatusCode, string(respBody))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return exceptions.ErrDecodeUpstreamResponse(err, constvars.ProviderBilling)
	}
	return nil
}

func toCustomerModel(p customerPayload) *models.BillingCustomer {
	return &models.BillingCustomer{
		ID:         p.ID,
		Name:       p.Name,
		NationalID: p.CpfCnpj,
		Email:      p.Email,
	}
}
