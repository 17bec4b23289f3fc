package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger so tests don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeSyncService implements domain.SyncService for handler tests.
type fakeSyncService struct {
	syncAllErr error
	syncOneErr error
	deleteErr  error
	syncAlls   int
	syncOneIDs []int
	deletedIDs []int
}

func (f *fakeSyncService) SyncAll(ctx context.Context) error {
	f.syncAlls++
	return f.syncAllErr
}

func (f *fakeSyncService) SyncOne(ctx context.Context, portalID int) error {
	f.syncOneIDs = append(f.syncOneIDs, portalID)
	return f.syncOneErr
}

func (f *fakeSyncService) Delete(ctx context.Context, portalID int) error {
	f.deletedIDs = append(f.deletedIDs, portalID)
	return f.deleteErr
}

func TestWebhookController_EventUpdated(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantIDs    []int
	}{
		{
			name:       "success",
			body:       `{"event_id":42}`,
			wantStatus: http.StatusAccepted,
			wantIDs:    []int{42},
		},
		{
			name:       "missing event_id",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{"event_id":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"event_id":42,"extra":true}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "service error",
			body:       `{"event_id":42}`,
			serviceErr: errors.New("portal unreachable"),
			wantStatus: http.StatusInternalServerError,
			wantIDs:    []int{42},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeSyncService{syncOneErr: tt.serviceErr}
			controller := NewWebhookController(testLogger, svc)

			req := httptest.NewRequest(http.MethodPost, "/webhooks/events/updated", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			controller.EventUpdated(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantIDs, svc.syncOneIDs)
		})
	}
}

func TestWebhookController_EventDeleted(t *testing.T) {
	svc := &fakeSyncService{}
	controller := NewWebhookController(testLogger, svc)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/events/deleted", strings.NewReader(`{"event_id":7}`))
	rec := httptest.NewRecorder()
	controller.EventDeleted(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []int{7}, svc.deletedIDs)
	assert.Empty(t, svc.syncOneIDs)
}
