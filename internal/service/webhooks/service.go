package webhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	"github.com/m04kA/SMC-TurneroService/internal/integrations/webhook"
)

// Service оркестрирует доставку вебхуков: проверка настроек магазина, сборка payload,
// подпись секретом, отправка, метрики и запись в журнал.
// Ошибки доставки никогда не влияют на операцию, вызвавшую уведомление.
type Service struct {
	client       WebhookClient
	logRepo      DeliveryLogRepository
	metrics      Metrics
	masterSecret string
	baseURL      string
	timeProvider TimeProvider
	logger       Logger

	wg sync.WaitGroup
}

// NewService создает новый экземпляр сервиса вебхуков
func NewService(
	client WebhookClient,
	logRepo DeliveryLogRepository,
	metrics Metrics,
	masterSecret string,
	baseURL string,
	logger Logger,
) *Service {
	return &Service{
		client:       client,
		logRepo:      logRepo,
		metrics:      metrics,
		masterSecret: masterSecret,
		baseURL:      baseURL,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// NotifyCreated асинхронно отправляет appointment.created, если у магазина включены вебхуки
func (s *Service) NotifyCreated(details *domain.AppointmentDetails, cancellationToken string) {
	url, ok := details.Shop.WebhookTarget()
	if !ok {
		return
	}
	payload := webhook.BuildCreatedPayload(details, cancellationToken, s.baseURL, s.timeProvider.Now())
	s.dispatch(details.Shop.ID.String(), details, url, domain.EventAppointmentCreated, payload)
}

// NotifyCancelled асинхронно отправляет appointment.cancelled, если у магазина включены вебхуки
func (s *Service) NotifyCancelled(details *domain.AppointmentDetails, cancelledBy domain.CancelledBy) {
	url, ok := details.Shop.WebhookTarget()
	if !ok {
		return
	}
	payload := webhook.BuildCancelledPayload(details, cancelledBy, s.timeProvider.Now())
	s.dispatch(details.Shop.ID.String(), details, url, domain.EventAppointmentCancelled, payload)
}

// SendTest синхронно отправляет webhook.test на URL магазина.
// Флаг webhook_enabled не проверяется: тест нужен как раз до включения.
func (s *Service) SendTest(ctx context.Context, shop *domain.Shop) (*webhook.DeliveryResult, error) {
	if shop.WebhookURL == nil || *shop.WebhookURL == "" {
		s.logger.Warn("SendTest: shop=%s has no webhook url", shop.ID)
		return nil, ErrWebhookNotConfigured
	}

	payload := webhook.BuildTestPayload(shop, s.timeProvider.Now())
	result := s.deliver(ctx, shop, *shop.WebhookURL, domain.EventWebhookTest, payload)

	s.logger.Info("SendTest: shop=%s success=%t attempts=%d", shop.ID, result.Success, result.Attempts)
	return result, nil
}

// Wait дожидается завершения фоновых доставок или отмены ctx
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: pending webhook deliveries: %v", ErrInternal, ctx.Err())
	}
}

func (s *Service) dispatch(shopID string, details *domain.AppointmentDetails, url string, event domain.WebhookEvent, payload *webhook.Payload) {
	s.logger.Info("Webhook: scheduling %s for shop=%s appointment=%s", event, shopID, details.Appointment.ID)

	shop := details.Shop
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Контекст запроса к этому моменту уже может быть отменен
		s.deliver(context.Background(), &shop, url, event, payload)
	}()
}

func (s *Service) deliver(ctx context.Context, shop *domain.Shop, url string, event domain.WebhookEvent, payload *webhook.Payload) *webhook.DeliveryResult {
	secret := webhook.GenerateSecret(shop.ID, s.masterSecret)
	result := s.client.Send(ctx, url, payload, secret)

	s.metrics.ObserveWebhookDelivery(string(event), result.Success, result.Attempts)
	s.logDelivery(ctx, shop, url, event, payload, result)

	return result
}

// logDelivery сохраняет результат в журнал; ошибки только логируются
func (s *Service) logDelivery(ctx context.Context, shop *domain.Shop, url string, event domain.WebhookEvent, payload *webhook.Payload, result *webhook.DeliveryResult) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Webhook: failed to marshal payload for log, shop=%s event=%s: %v", shop.ID, event, err)
		return
	}

	delivery := &domain.WebhookDelivery{
		ShopID:     shop.ID,
		EventType:  event,
		Payload:    raw,
		URL:        url,
		StatusCode: result.StatusCode,
		Success:    result.Success,
		Attempts:   result.Attempts,
	}
	if result.Error != "" {
		msg := result.Error
		delivery.ErrorMessage = &msg
	}

	if err := s.logRepo.Create(ctx, delivery); err != nil {
		s.logger.Error("Webhook: failed to persist delivery log, shop=%s event=%s: %v", shop.ID, event, err)
	}
}
