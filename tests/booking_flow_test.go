package tests

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingResp struct {
	ID              string `json:"id"`
	RoomID          string `json:"room_id"`
	Status          string `json:"status"`
	PriceMinorUnits int64  `json:"price_minor_units"`
	Currency        string `json:"currency"`
}

func TestBookingLifecycle(t *testing.T) {
	clearTables(t)

	token := registerOperator(t, "owner@example.com")
	orgID := createOrganization(t, token, "Locked In Ltd")
	roomID := createRoom(t, token, orgID, false)

	// Guest books without authentication.
	w := executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", bookingBody(10, ""), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created bookingResp
	decodeBody(t, w, &created)
	assert.Equal(t, "PENDING", created.Status)
	assert.Equal(t, int64(6000), created.PriceMinorUnits, "per-person pricing: 1500 x 4")
	assert.Equal(t, "usd", created.Currency)

	// The guest can fetch their booking by id, no token needed.
	w = executeRequest("GET", "/api/v1/bookings/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Status actions require operator auth.
	w = executeRequest("PUT", "/api/v1/bookings/"+created.ID+"/accept", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A stranger with a valid account but no membership is rejected.
	strangerToken := registerOperator(t, "stranger@example.com")
	w = executeRequest("PUT", "/api/v1/bookings/"+created.ID+"/accept", nil, strangerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The operator accepts.
	w = executeRequest("PUT", "/api/v1/bookings/"+created.ID+"/accept", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var accepted bookingResp
	decodeBody(t, w, &accepted)
	assert.Equal(t, "ACCEPTED", accepted.Status)

	// Accepting twice is a state error.
	w = executeRequest("PUT", "/api/v1/bookings/"+created.ID+"/accept", nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Cancel frees the slot again.
	w = executeRequest("PUT", "/api/v1/bookings/"+created.ID+"/cancel", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var canceled bookingResp
	decodeBody(t, w, &canceled)
	assert.Equal(t, "CANCELED", canceled.Status)
}

func TestBookingConflicts(t *testing.T) {
	clearTables(t)

	token := registerOperator(t, "owner@example.com")
	orgID := createOrganization(t, token, "Locked In Ltd")
	roomID := createRoom(t, token, orgID, false)

	// Two guests want the same slot; both may sit pending.
	w := executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", bookingBody(10, ""), "")
	require.Equal(t, http.StatusCreated, w.Code)
	var first bookingResp
	decodeBody(t, w, &first)

	w = executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", bookingBody(10, ""), "")
	require.Equal(t, http.StatusCreated, w.Code, "overlapping pending bookings are allowed")
	var second bookingResp
	decodeBody(t, w, &second)

	// Only one of them can be accepted.
	w = executeRequest("PUT", "/api/v1/bookings/"+first.ID+"/accept", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = executeRequest("PUT", "/api/v1/bookings/"+second.ID+"/accept", nil, token)
	assert.Equal(t, http.StatusConflict, w.Code, "the slot is already taken")

	// A new guest request for the taken slot is refused outright once an
	// accepted booking holds it.
	w = executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", bookingBody(10, ""), "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// The neighboring slot is unaffected.
	w = executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", bookingBody(11, ""), "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBookingValidation(t *testing.T) {
	clearTables(t)

	token := registerOperator(t, "owner@example.com")
	orgID := createOrganization(t, token, "Locked In Ltd")
	roomID := createRoom(t, token, orgID, false)

	t.Run("wrong duration", func(t *testing.T) {
		body := bookingBody(10, "")
		body["end_time"] = body["start_time"]
		w := executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("participants out of range", func(t *testing.T) {
		body := bookingBody(10, "")
		body["participants"] = 12
		w := executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown room", func(t *testing.T) {
		w := executeRequest("POST", "/api/v1/rooms/00000000-0000-0000-0000-000000000000/bookings", bookingBody(10, ""), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPaidBookingFlow(t *testing.T) {
	clearTables(t)

	token := registerOperator(t, "owner@example.com")
	orgID := createOrganization(t, token, "Locked In Ltd")
	roomID := createRoom(t, token, orgID, true)

	t.Run("missing token is rejected", func(t *testing.T) {
		w := executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", bookingBody(9, ""), "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("org without credentials is rejected", func(t *testing.T) {
		w := executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", bookingBody(9, "tok_visa"), "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, gateway.chargeCount())
	})

	// Configure payment credentials on the organization.
	w := executeRequest("PUT", "/api/v1/organizations/"+orgID+"/payment-details", map[string]string{
		"payment_client_key": "pk_test",
		"payment_secret_key": "sk_test",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("declined charge persists nothing", func(t *testing.T) {
		gateway.reset(true)
		w := executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", bookingBody(9, "tok_visa"), "")
		assert.Equal(t, http.StatusPaymentRequired, w.Code)

		// The slot must still be bookable.
		gateway.reset(false)
		w = executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", bookingBody(9, "tok_visa"), "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var b bookingResp
		decodeBody(t, w, &b)
		assert.Equal(t, "ACCEPTED", b.Status, "a paid booking skips the pending state")
		assert.Equal(t, 1, gateway.chargeCount())
	})
}

// Parallel guests race for a single paid slot through the full HTTP stack:
// the per-room advisory lock and the commit-time recheck must let exactly one
// booking through, and every charge captured by a loser must be reversed.
func TestBookingRaceForSlot(t *testing.T) {
	clearTables(t)

	token := registerOperator(t, "owner@example.com")
	orgID := createOrganization(t, token, "Locked In Ltd")
	paidRoomID := createRoom(t, token, orgID, true)

	w := executeRequest("PUT", "/api/v1/organizations/"+orgID+"/payment-details", map[string]string{
		"payment_client_key": "pk_test",
		"payment_secret_key": "sk_test",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	t.Run("concurrent paid creates", func(t *testing.T) {
		const guests = 6
		codes := make([]int, guests)

		var wg sync.WaitGroup
		for i := 0; i < guests; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				w := executeRequest("POST", "/api/v1/rooms/"+paidRoomID+"/bookings", bookingBody(10, "tok_visa"), "")
				codes[i] = w.Code
			}(i)
		}
		wg.Wait()

		var created, conflicted int
		for _, code := range codes {
			switch code {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicted++
			}
		}
		assert.Equal(t, 1, created, "exactly one guest may win the slot")
		assert.Equal(t, guests-1, conflicted)
		assert.Equal(t, gateway.chargeCount(), 1+gateway.refundCount(),
			"every losing charge must be reversed")
	})

	t.Run("concurrent accepts of overlapping pendings", func(t *testing.T) {
		freeRoomID := createRoom(t, token, orgID, false)

		ids := make([]string, 3)
		for i := range ids {
			w := executeRequest("POST", "/api/v1/rooms/"+freeRoomID+"/bookings", bookingBody(14, ""), "")
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			var b bookingResp
			decodeBody(t, w, &b)
			ids[i] = b.ID
		}

		codes := make([]int, len(ids))
		var wg sync.WaitGroup
		for i, id := range ids {
			wg.Add(1)
			go func(i int, id string) {
				defer wg.Done()
				w := executeRequest("PUT", "/api/v1/bookings/"+id+"/accept", nil, token)
				codes[i] = w.Code
			}(i, id)
		}
		wg.Wait()

		var accepted, conflicted int
		for _, code := range codes {
			switch code {
			case http.StatusOK:
				accepted++
			case http.StatusConflict:
				conflicted++
			}
		}
		assert.Equal(t, 1, accepted, "only one overlapping pending booking may be accepted")
		assert.Equal(t, len(ids)-1, conflicted)
	})
}

func TestBookingListings(t *testing.T) {
	clearTables(t)

	token := registerOperator(t, "owner@example.com")
	orgID := createOrganization(t, token, "Locked In Ltd")
	roomID := createRoom(t, token, orgID, false)

	for _, hour := range []int{9, 11, 13} {
		w := executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", bookingBody(hour, ""), "")
		require.Equal(t, http.StatusCreated, w.Code)
	}

	type page struct {
		Items []bookingResp `json:"items"`
		Total int           `json:"total"`
	}

	t.Run("per-room listing", func(t *testing.T) {
		w := executeRequest("GET", "/api/v1/rooms/"+roomID+"/bookings?from=2030-01-01&to=2030-01-31", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var p page
		decodeBody(t, w, &p)
		assert.Equal(t, 3, p.Total)
	})

	t.Run("organization-wide listing", func(t *testing.T) {
		w := executeRequest("GET", "/api/v1/organizations/"+orgID+"/bookings?from=2030-01-01&to=2030-02-01&select=upcoming", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var p page
		decodeBody(t, w, &p)
		assert.Equal(t, 3, p.Total)
	})

	t.Run("range guard", func(t *testing.T) {
		w := executeRequest("GET", "/api/v1/rooms/"+roomID+"/bookings?from=2030-01-01&to=2030-03-01", nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code, "35-day cap on per-room listings")
	})

	t.Run("membership required", func(t *testing.T) {
		strangerToken := registerOperator(t, "stranger@example.com")
		w := executeRequest("GET", "/api/v1/rooms/"+roomID+"/bookings?from=2030-01-01&to=2030-01-31", nil, strangerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
