package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	t.Run("posts chat id and text", func(t *testing.T) {
		var got map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		c := NewBotClient("test-token")
		c.apiBase = srv.URL

		require.NoError(t, c.SendMessage(context.Background(), "2001", "Order #7 assigned to you"))
		assert.Equal(t, "2001", got["chat_id"])
		assert.Equal(t, "Order #7 assigned to you", got["text"])
	})

	t.Run("surfaces api errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
		}))
		defer srv.Close()

		c := NewBotClient("test-token")
		c.apiBase = srv.URL

		err := c.SendMessage(context.Background(), "0", "hi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chat not found")
	})

	t.Run("nil client is a no-op", func(t *testing.T) {
		var c *BotClient
		assert.NoError(t, c.SendMessage(context.Background(), "2001", "hi"))
	})
}
