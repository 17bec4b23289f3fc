package portal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portalsync/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListEvents(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/events", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"Opening Ceremony","url":"https://portal.test/e/1","start":"2025-06-01T10:00:00Z","end":"2025-06-01T11:00:00Z"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "tok-123")
	events, err := client.ListEvents(context.Background())
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].ID)
	assert.Equal(t, "Opening Ceremony", events[0].Name)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), events[0].Start)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_ListEvents_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "portal down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "tok")
	_, err := client.ListEvents(context.Background())

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
	assert.Equal(t, "portal down", upstream.Body)
}

func TestClient_FindEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/events/1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":1,"name":"Opening Ceremony","url":"https://portal.test/e/1","start":"2025-06-01T10:00:00Z","end":"2025-06-01T11:00:00Z"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.Client(), server.URL, "tok")

	event, err := client.FindEvent(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Opening Ceremony", event.Name)

	_, err = client.FindEvent(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
