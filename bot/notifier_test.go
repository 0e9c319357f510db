package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"food-console/config"
	"food-console/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	chatID string
	text   string
}

// fakeTelegram answers getMe and sendMessage the way the Bot API does.
func fakeTelegram(t *testing.T) (*httptest.Server, func() []sentMessage) {
	t.Helper()
	var mu sync.Mutex
	var sent []sentMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"nom","username":"nom_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			_ = r.ParseForm()
			mu.Lock()
			sent = append(sent, sentMessage{chatID: r.PostForm.Get("chat_id"), text: r.PostForm.Get("text")})
			mu.Unlock()
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []sentMessage {
		mu.Lock()
		defer mu.Unlock()
		return append([]sentMessage(nil), sent...)
	}
}

func sampleRecord() models.SavedOrder {
	return models.SavedOrder{
		Ref:          "0b8f3c1e-0000-4000-8000-000000000001",
		CustomerName: "Ada",
		IsDelivery:   true,
		Address:      "1 Mill Lane",
		ItemsTotal:   600,
		DeliveryFee:  200,
		GrandTotal:   800,
		Summary:      "Order for Ada\nPizza: Margherita, Price: £6.00\nDelivery Charge: £2.00\nTotal: £8.00",
		SavedAt:      time.Date(2026, 10, 18, 12, 30, 0, 0, time.UTC),
	}
}

func TestNotifyOrderSaved(t *testing.T) {
	srv, sent := fakeTelegram(t)
	n, err := newNotifier("123:abc", srv.URL+"/bot%s/%s", 42)
	require.NoError(t, err)

	require.NoError(t, n.NotifyOrderSaved(context.Background(), sampleRecord()))

	msgs := sent()
	require.Len(t, msgs, 1)
	assert.Equal(t, "42", msgs[0].chatID)
	assert.Contains(t, msgs[0].text, "New order saved")
	assert.Contains(t, msgs[0].text, "Total: £8.00")
	assert.Contains(t, msgs[0].text, "Deliver to: 1 Mill Lane")
}

func TestNotifyOrderSaved_NilNotifier(t *testing.T) {
	var n *Notifier
	assert.NoError(t, n.NotifyOrderSaved(context.Background(), sampleRecord()))
}

func TestNotifyOrderSaved_CanceledContext(t *testing.T) {
	srv, sent := fakeTelegram(t)
	n, err := newNotifier("123:abc", srv.URL+"/bot%s/%s", 42)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.NotifyOrderSaved(ctx, sampleRecord()), context.Canceled)
	assert.Empty(t, sent())
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(config.TelegramConfig{AdminChatID: 42})
	assert.Error(t, err)
	_, err = New(config.TelegramConfig{Token: "123:abc"})
	assert.Error(t, err)
}

func TestOrderMessage_Truncates(t *testing.T) {
	rec := sampleRecord()
	rec.IsDelivery = false
	rec.Summary = strings.Repeat("x", 5000)
	msg := OrderMessage(rec)
	assert.Equal(t, maxMessageRunes, len([]rune(msg)))
	assert.True(t, strings.HasSuffix(msg, "…"))
}
