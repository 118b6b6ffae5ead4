package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/domain"
	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout = 5 * time.Second
	retryCount     = 2
)

// Message тело запроса к шлюзу уведомлений.
type Message struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	Text    string `json:"text"`
}

// WebhookNotifier отправляет уведомления администраторам через HTTP шлюз (WhatsApp).
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	client := resty.New().
		SetTimeout(defaultTimeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Content-Type", "application/json")
	return &WebhookNotifier{client: client, url: url}
}

// NotifyRecharge сообщает администратору о новой заявке на пополнение.
func (n *WebhookNotifier) NotifyRecharge(ctx context.Context, recharge *domain.Recharge, to string) error {
	text := fmt.Sprintf("Nueva recarga #%d: %s USD via %s (ref. %s)",
		recharge.ID, recharge.Amount.StringFixed(2), recharge.PaymentMethod, recharge.PaymentReference)
	if recharge.User != nil {
		text += fmt.Sprintf(" de %s <%s>", recharge.User.Name, recharge.User.Email)
	}
	return n.send(ctx, Message{Channel: "whatsapp", To: to, Text: text})
}

func (n *WebhookNotifier) send(ctx context.Context, msg Message) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("notify webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("notify webhook: unexpected status %d", resp.StatusCode())
	}
	return nil
}
