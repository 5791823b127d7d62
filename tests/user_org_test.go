package tests

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	clearTables(t)

	w := executeRequest("POST", "/api/v1/auth/register", gin.H{
		"email":    "owner@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("duplicate email", func(t *testing.T) {
		w := executeRequest("POST", "/api/v1/auth/register", gin.H{
			"email":    "owner@example.com",
			"password": "password123",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := executeRequest("POST", "/api/v1/auth/login", gin.H{
			"email":    "owner@example.com",
			"password": "wrong-password",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me requires token", func(t *testing.T) {
		w := executeRequest("GET", "/api/v1/users/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me returns the account", func(t *testing.T) {
		token := registerOperator(t, "second@example.com")
		w := executeRequest("GET", "/api/v1/users/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Email string `json:"email"`
		}
		decodeBody(t, w, &resp)
		assert.Equal(t, "second@example.com", resp.Email)
	})
}

func TestOrganizationMembership(t *testing.T) {
	clearTables(t)

	ownerToken := registerOperator(t, "owner@example.com")
	memberToken := registerOperator(t, "member@example.com")
	orgID := createOrganization(t, ownerToken, "Locked In Ltd")

	t.Run("creator is the owner", func(t *testing.T) {
		w := executeRequest("GET", "/api/v1/organizations/"+orgID+"/members", nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Items []struct {
				Email string `json:"email"`
				Role  string `json:"role"`
			} `json:"items"`
		}
		decodeBody(t, w, &resp)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "owner", resp.Items[0].Role)
	})

	t.Run("owner adds a member by email", func(t *testing.T) {
		w := executeRequest("POST", "/api/v1/organizations/"+orgID+"/members", gin.H{
			"email": "member@example.com",
		}, ownerToken)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		// The member can now see the organization's bookings surface.
		w = executeRequest("GET", "/api/v1/organizations/"+orgID+"/bookings?from=2030-01-01&to=2030-01-31", nil, memberToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("member cannot add members", func(t *testing.T) {
		registerOperator(t, "third@example.com")
		w := executeRequest("POST", "/api/v1/organizations/"+orgID+"/members", gin.H{
			"email": "third@example.com",
		}, memberToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("payment details are owner-only and never echoed", func(t *testing.T) {
		w := executeRequest("PUT", "/api/v1/organizations/"+orgID+"/payment-details", gin.H{
			"payment_client_key": "pk_test",
			"payment_secret_key": "sk_test",
		}, memberToken)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = executeRequest("PUT", "/api/v1/organizations/"+orgID+"/payment-details", gin.H{
			"payment_client_key": "pk_test",
			"payment_secret_key": "sk_test",
		}, ownerToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "sk_test", "the secret key must never leave the server")
	})
}

func TestRoomManagement(t *testing.T) {
	clearTables(t)

	token := registerOperator(t, "owner@example.com")
	orgID := createOrganization(t, token, "Locked In Ltd")
	roomID := createRoom(t, token, orgID, false)

	t.Run("public room browsing", func(t *testing.T) {
		w := executeRequest("GET", "/api/v1/rooms/"+roomID, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		w = executeRequest("GET", "/api/v1/organizations/"+orgID+"/rooms", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("duplicate weekday is rejected", func(t *testing.T) {
		w := executeRequest("POST", "/api/v1/organizations/"+orgID+"/rooms", gin.H{
			"name":              "Broken Hours",
			"difficulty":        2,
			"interval_minutes":  60,
			"min_participants":  2,
			"max_participants":  4,
			"pricing_mode":      "flat",
			"price_minor_units": 4000,
			"currency":          "usd",
			"timezone":          "UTC",
			"business_hours": []gin.H{
				{"weekday": 1, "open": 9, "close": 17},
				{"weekday": 1, "open": 10, "close": 18},
			},
		}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update adjusts pricing", func(t *testing.T) {
		w := executeRequest("PATCH", "/api/v1/rooms/"+roomID, gin.H{
			"pricing_mode":      "flat",
			"price_minor_units": 9000,
		}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			PricingMode     string `json:"pricing_mode"`
			PriceMinorUnits int64  `json:"price_minor_units"`
		}
		decodeBody(t, w, &resp)
		assert.Equal(t, "flat", resp.PricingMode)
		assert.Equal(t, int64(9000), resp.PriceMinorUnits)
	})

	t.Run("soft delete hides the room", func(t *testing.T) {
		w := executeRequest("DELETE", "/api/v1/rooms/"+roomID, nil, token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		w = executeRequest("GET", "/api/v1/rooms/"+roomID, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = executeRequest("POST", "/api/v1/rooms/"+roomID+"/bookings", bookingBody(10, ""), "")
		assert.Equal(t, http.StatusNotFound, w.Code, "deleted rooms take no bookings")
	})
}
