package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncRouter(svc *fakeSyncService) http.Handler {
	controller := NewSyncController(testLogger, svc)
	r := chi.NewRouter()
	r.Post("/sync", controller.SyncAll)
	r.Post("/sync/{portalID}", controller.SyncOne)
	return r
}

func TestSyncController_SyncAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeSyncService{}
		rec := httptest.NewRecorder()
		newSyncRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sync", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, svc.syncAlls)
	})

	t.Run("service error", func(t *testing.T) {
		svc := &fakeSyncService{syncAllErr: errors.New("portal unreachable")}
		rec := httptest.NewRecorder()
		newSyncRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sync", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestSyncController_SyncOne(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantIDs    []int
	}{
		{
			name:       "success",
			path:       "/sync/42",
			wantStatus: http.StatusOK,
			wantIDs:    []int{42},
		},
		{
			name:       "non-numeric id",
			path:       "/sync/abc",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero id",
			path:       "/sync/0",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeSyncService{}
			rec := httptest.NewRecorder()
			newSyncRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantIDs, svc.syncOneIDs)
		})
	}
}
