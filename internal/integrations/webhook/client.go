package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultMaxAttempts число попыток доставки по умолчанию
	DefaultMaxAttempts = 3

	// DefaultTimeout таймаут одной попытки
	DefaultTimeout = 10 * time.Second

	// DefaultBackoffStep шаг линейной задержки: после попытки N ждем N*step
	DefaultBackoffStep = time.Second

	userAgent    = "TurneroSaaS/1.0"
	secretHeader = "X-Webhook-Secret"
)

// Client отправляет вебхуки с повторными попытками
type Client struct {
	httpClient  *http.Client
	maxAttempts int
	backoffStep time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	log         Logger
}

// NewClient создает новый экземпляр клиента вебхуков.
// Нулевые значения параметров заменяются значениями по умолчанию.
func NewClient(timeout time.Duration, maxAttempts int, backoffStep time.Duration, log Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if backoffStep < 0 {
		backoffStep = DefaultBackoffStep
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxAttempts: maxAttempts,
		backoffStep: backoffStep,
		sleep:       sleepContext,
		log:         log,
	}
}

// MaxAttempts возвращает число попыток доставки
func (c *Client) MaxAttempts() int {
	return c.maxAttempts
}

// Send отправляет payload POST запросом на url.
// Ответ 2xx завершает доставку успешно. Любой другой ответ или сетевая ошибка считается неудачной попыткой,
// после попытки N (если попытки остались) выполняется пауза N*backoffStep.
// Ошибки никогда не возвращаются наружу: итог описывается DeliveryResult.
func (c *Client) Send(ctx context.Context, url string, payload interface{}, secret string) *DeliveryResult {
	body, err := json.Marshal(payload)
	if err != nil {
		c.log.Error("Webhook: %v: %v", ErrMarshalPayload, err)
		return &DeliveryResult{Error: fmt.Sprintf("%v: %v", ErrMarshalPayload, err)}
	}

	result := &DeliveryResult{}

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		result.Attempts = attempt

		status, err := c.post(ctx, url, body, secret)
		if status != 0 {
			result.StatusCode = &status
		}
		if err == nil {
			c.log.Info("Webhook: delivered to %s on attempt %d, status=%d", url, attempt, status)
			result.Success = true
			result.Error = ""
			return result
		}

		result.Error = err.Error()
		c.log.Warn("Webhook: attempt %d/%d to %s failed: %v", attempt, c.maxAttempts, url, err)

		if attempt < c.maxAttempts {
			if err := c.sleep(ctx, time.Duration(attempt)*c.backoffStep); err != nil {
				c.log.Warn("Webhook: retries to %s aborted: %v", url, err)
				return result
			}
		}
	}

	c.log.Error("Webhook: delivery to %s failed after %d attempts: %s", url, result.Attempts, result.Error)
	return result
}

// post выполняет одну попытку. Возвращает статус ответа (0 если ответа не было)
func (c *Client) post(ctx context.Context, url string, body []byte, secret string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(secretHeader, secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// Дочитываем тело, чтобы соединение вернулось в пул
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("%w: HTTP %d: %s", ErrUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return resp.StatusCode, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
