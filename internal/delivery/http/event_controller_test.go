package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portalsync/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePortal implements domain.PortalClient for handler tests.
type fakePortal struct {
	events []domain.EventDetails
	err    error
}

func (f *fakePortal) ListEvents(ctx context.Context) ([]domain.EventDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakePortal) FindEvent(ctx context.Context, id int) (*domain.EventDetails, error) {
	for _, e := range f.events {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func scheduleFixture() []domain.EventDetails {
	return []domain.EventDetails{
		{ID: 2, Name: "Closing Ceremony", Start: time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC)},
		{ID: 1, Name: "Opening Ceremony", Start: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		{ID: 3, Name: "Intro Workshop", Start: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func TestEventController_ListEvents(t *testing.T) {
	controller := NewEventController(testLogger, &fakePortal{events: scheduleFixture()})

	rec := httptest.NewRecorder()
	controller.ListEvents(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []domain.EventDetails `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	// Soonest first.
	assert.Equal(t, []int{1, 3, 2}, []int{resp.Data[0].ID, resp.Data[1].ID, resp.Data[2].ID})
}

func TestEventController_NextEvent(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantStatus int
		wantID     int
	}{
		{
			name:       "before the hackathon",
			now:        time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC),
			wantStatus: http.StatusOK,
			wantID:     1,
		},
		{
			name:       "mid-hackathon skips started events",
			now:        time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
			wantStatus: http.StatusOK,
			wantID:     3,
		},
		{
			name:       "after the last event",
			now:        time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller := NewEventController(testLogger, &fakePortal{events: scheduleFixture()})
			controller.now = func() time.Time { return tt.now }

			rec := httptest.NewRecorder()
			controller.NextEvent(rec, httptest.NewRequest(http.MethodGet, "/events/next", nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp struct {
				Data domain.EventDetails `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantID, resp.Data.ID)
		})
	}
}

func TestEventController_PortalError(t *testing.T) {
	controller := NewEventController(testLogger, &fakePortal{err: &domain.UpstreamError{StatusCode: 502}})

	rec := httptest.NewRecorder()
	controller.ListEvents(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
