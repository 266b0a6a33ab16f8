// internal/pkg/notify/discord.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spicebazaar/marketplace-backend/internal/config"
)

// OrderItemPayload describes one order line in the outbound notification
type OrderItemPayload struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

// OrderPayload is the full order description posted to the webhook
type OrderPayload struct {
	OrderNumber      string             `json:"order_number"`
	CustomerEmail    string             `json:"customer_email"`
	CustomerWhatsApp string             `json:"customer_whatsapp"`
	TotalAmount      int64              `json:"total_amount"`
	Items            []OrderItemPayload `json:"order_items"`
}

// Notifier delivers order notifications to an external channel
type Notifier interface {
	OrderPlaced(ctx context.Context, payload OrderPayload) error
}

// DiscordNotifier posts order notifications as Discord embeds. The response
// body is never parsed; only the HTTP status matters.
type DiscordNotifier struct {
	webhookURL string
	siteName   string
	client     *http.Client
}

// NewDiscordNotifier creates a Discord webhook notifier
func NewDiscordNotifier(cfg *config.Config) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: cfg.Webhook.DiscordURL,
		siteName:   cfg.App.Name,
		client: &http.Client{
			Timeout: cfg.Webhook.Timeout,
		},
	}
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbed struct {
	Title     string              `json:"title"`
	Color     int                 `json:"color"`
	Fields    []discordEmbedField `json:"fields"`
	Timestamp string              `json:"timestamp"`
	Footer    struct {
		Text string `json:"text"`
	} `json:"footer"`
}

type discordMessage struct {
	Embeds []discordEmbed `json:"embeds"`
}

// OrderPlaced posts a new-order embed to the configured webhook
func (n *DiscordNotifier) OrderPlaced(ctx context.Context, payload OrderPayload) error {
	if n.webhookURL == "" {
		return fmt.Errorf("discord webhook URL not configured")
	}

	embed := discordEmbed{
		Title:     "🛒 New Order Received",
		Color:     0x00ff00,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Fields: []discordEmbedField{
			{Name: "📧 Customer Email", Value: payload.CustomerEmail, Inline: true},
			{Name: "📱 WhatsApp Number", Value: payload.CustomerWhatsApp, Inline: true},
			{Name: "💰 Total Amount", Value: formatAmount(payload.TotalAmount), Inline: true},
			{Name: "📦 Order Items", Value: formatItems(payload.Items), Inline: false},
		},
	}
	embed.Footer.Text = n.siteName

	body, err := json.Marshal(discordMessage{Embeds: []discordEmbed{embed}})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}

func formatAmount(amount int64) string {
	return fmt.Sprintf("₸%.2f", float64(amount)/100)
}

func formatItems(items []OrderItemPayload) string {
	if len(items) == 0 {
		return "-"
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("**%s** x%d - %s",
			item.ProductName, item.Quantity, formatAmount(item.Price*int64(item.Quantity))))
	}
	return strings.Join(lines, "\n")
}
