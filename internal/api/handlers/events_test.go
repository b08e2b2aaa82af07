package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/finhealth/internal/queue"
	"github.com/wonny/finhealth/pkg/logger"
)

func TestEventHub_Broadcast(t *testing.T) {
	hub := NewEventHub(logger.Nop())
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	e := queue.Event{
		Type:         queue.EventAssessmentCompleted,
		BusinessID:   3,
		FiscalYear:   2024,
		AssessmentID: 11,
		CreditScore:  72,
		CreditRating: "A",
	}
	require.NoError(t, hub.Publish(context.Background(), e))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got queue.Event
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, e.Type, got.Type)
	assert.Equal(t, int64(11), got.AssessmentID)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestEventHub_PublishWithoutClients(t *testing.T) {
	hub := NewEventHub(logger.Nop())
	assert.NoError(t, hub.Publish(context.Background(), queue.Event{Type: queue.EventAssessmentCompleted}))
}
