package paymentservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/BH-BookingService/internal/domain"
)

// quoteTolerance допуск на округление при сравнении сумм
const quoteTolerance = 0.005

// Client клиент для работы с PaymentService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PaymentService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetQuote запрашивает платежный план бронирования
func (c *Client) GetQuote(ctx context.Context, quoteReq QuoteRequest) (*domain.PaymentQuote, error) {
	url := fmt.Sprintf("%s/internal/quotes", c.baseURL)

	body, err := json.Marshal(quoteReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var quote Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	result := toDomain(quote)
	if err := validateQuote(result, quoteReq.TotalPrice); err != nil {
		return nil, err
	}

	return result, nil
}

// GetQuoteWithGracefulDegradation получает платежный план с graceful degradation.
// Любая ошибка, включая некорректный план, превращается в ErrServiceDegraded:
// бронирование создается без финансовых полей.
func (c *Client) GetQuoteWithGracefulDegradation(ctx context.Context, quoteReq QuoteRequest) (*domain.PaymentQuote, error) {
	c.log.Info("Fetching payment quote for request_id=%d", quoteReq.RequestID)

	quote, err := c.GetQuote(ctx, quoteReq)
	if err != nil {
		if errors.Is(err, ErrInvalidQuote) {
			c.log.Warn("PaymentService returned invalid quote for request_id=%d: %v", quoteReq.RequestID, err)
		} else {
			c.log.Error("PaymentService unavailable, applying graceful degradation for request_id=%d: %v", quoteReq.RequestID, err)
		}
		return nil, fmt.Errorf("%w: request_id=%d, error=%v", ErrServiceDegraded, quoteReq.RequestID, err)
	}

	c.log.Info("Successfully fetched payment quote for request_id=%d", quoteReq.RequestID)
	return quote, nil
}

func toDomain(q Quote) *domain.PaymentQuote {
	return &domain.PaymentQuote{
		DepositAmount:         q.DepositAmount,
		DepositDueDate:        q.DepositDueDate,
		FinalPaymentAmount:    q.FinalPaymentAmount,
		FinalPaymentDueDate:   q.FinalPaymentDueDate,
		PlatformFeePercentage: q.PlatformFeePercentage,
		PlatformFeeAmount:     q.PlatformFeeAmount,
		ProviderPayoutAmount:  q.ProviderPayoutAmount,
	}
}

// validateQuote отклоняет план, где задаток и финальный платеж вместе больше стоимости,
// а также отрицательные суммы
func validateQuote(q *domain.PaymentQuote, totalPrice float64) error {
	for _, amount := range []*float64{q.DepositAmount, q.FinalPaymentAmount, q.PlatformFeeAmount, q.ProviderPayoutAmount} {
		if amount != nil && *amount < 0 {
			return fmt.Errorf("%w: negative amount %.2f", ErrInvalidQuote, *amount)
		}
	}
	if scheduled := q.ScheduledTotal(); scheduled > totalPrice+quoteTolerance {
		return fmt.Errorf("%w: %.2f > %.2f", ErrInvalidQuote, scheduled, totalPrice)
	}
	return nil
}
