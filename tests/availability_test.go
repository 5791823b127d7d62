package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type availabilityResp struct {
	Days []struct {
		Date  string `json:"date"`
		Slots []struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		} `json:"slots"`
	} `json:"days"`
}

func TestAvailabilityEndpoint(t *testing.T) {
	clearTables(t)

	token := registerOperator(t, "owner@example.com")
	orgID := createOrganization(t, token, "Locked In Ltd")
	roomID := createRoom(t, token, orgID, false)

	t.Run("open day exposes hourly slots", func(t *testing.T) {
		w := executeRequest("GET", "/api/v1/rooms/"+roomID+"/availability?from=2030-01-07&to=2030-01-07", nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp availabilityResp
		decodeBody(t, w, &resp)
		require.Len(t, resp.Days, 1)
		assert.Equal(t, "2030-01-07", resp.Days[0].Date)
		assert.Len(t, resp.Days[0].Slots, 8, "[9,17) in 60-minute steps")
	})

	t.Run("accepted booking removes its slot", func(t *testing.T) {
		w := executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", bookingBody(10, ""), "")
		require.Equal(t, http.StatusCreated, w.Code)
		var b bookingResp
		decodeBody(t, w, &b)

		// Pending bookings do not block availability.
		w = executeRequest("GET", "/api/v1/rooms/"+roomID+"/availability?from=2030-01-07&to=2030-01-07", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp availabilityResp
		decodeBody(t, w, &resp)
		require.Len(t, resp.Days, 1)
		assert.Len(t, resp.Days[0].Slots, 8)

		w = executeRequest("PUT", "/api/v1/bookings/"+b.ID+"/accept", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = executeRequest("GET", "/api/v1/rooms/"+roomID+"/availability?from=2030-01-07&to=2030-01-07", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		resp = availabilityResp{}
		decodeBody(t, w, &resp)
		require.Len(t, resp.Days, 1)
		assert.Len(t, resp.Days[0].Slots, 7)

		taken := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
		for _, s := range resp.Days[0].Slots {
			assert.False(t, s.Start.Equal(taken))
		}
	})

	t.Run("past window comes back empty", func(t *testing.T) {
		w := executeRequest("GET", "/api/v1/rooms/"+roomID+"/availability?from=2020-01-06&to=2020-01-07", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp availabilityResp
		decodeBody(t, w, &resp)
		assert.Empty(t, resp.Days)
	})

	t.Run("range too large", func(t *testing.T) {
		w := executeRequest("GET", "/api/v1/rooms/"+roomID+"/availability?from=2030-01-01&to=2030-03-01", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("inverted range", func(t *testing.T) {
		w := executeRequest("GET", "/api/v1/rooms/"+roomID+"/availability?from=2030-01-07&to=2030-01-01", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown room", func(t *testing.T) {
		w := executeRequest("GET", "/api/v1/rooms/00000000-0000-0000-0000-000000000000/availability?from=2030-01-07&to=2030-01-07", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
