package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spicebazaar/marketplace-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notifierFor(url string) *DiscordNotifier {
	cfg := &config.Config{}
	cfg.App.Name = "Spice Bazaar"
	cfg.Webhook.DiscordURL = url
	cfg.Webhook.Timeout = 5 * time.Second
	return NewDiscordNotifier(cfg)
}

func samplePayload() OrderPayload {
	return OrderPayload{
		OrderNumber:      "ORD-20260828-00001",
		CustomerEmail:    "shopper@example.com",
		CustomerWhatsApp: "+77011234567",
		TotalAmount:      25000,
		Items: []OrderItemPayload{
			{ProductName: "Smoked Paprika", Quantity: 2, Price: 10000},
			{ProductName: "Sumac", Quantity: 1, Price: 5000},
		},
	}
}

func TestOrderPlacedPostsEmbed(t *testing.T) {
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		captured, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := notifierFor(srv.URL).OrderPlaced(context.Background(), samplePayload())
	require.NoError(t, err)

	var msg struct {
		Embeds []struct {
			Title  string `json:"title"`
			Fields []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"fields"`
		} `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(captured, &msg))
	require.Len(t, msg.Embeds, 1)
	require.Len(t, msg.Embeds[0].Fields, 4)
	assert.Contains(t, msg.Embeds[0].Fields[3].Value, "Smoked Paprika")
	assert.Contains(t, msg.Embeds[0].Fields[3].Value, "x2")
}

func TestOrderPlacedReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := notifierFor(srv.URL).OrderPlaced(context.Background(), samplePayload())
	assert.ErrorContains(t, err, "status 500")
}

func TestOrderPlacedRequiresWebhookURL(t *testing.T) {
	err := notifierFor("").OrderPlaced(context.Background(), samplePayload())
	assert.Error(t, err)
}
