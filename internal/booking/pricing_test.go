package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nekogravitycat/escape-room-backend/internal/room"
)

func TestPrice(t *testing.T) {
	t.Run("flat price ignores group size", func(t *testing.T) {
		rm := &room.Room{PricingMode: room.PricingFlat, PriceMinorUnits: 5000, Currency: "usd"}

		amount, currency := Price(rm, 3)
		assert.Equal(t, int64(5000), amount)
		assert.Equal(t, "usd", currency)

		amount, _ = Price(rm, 6)
		assert.Equal(t, int64(5000), amount)
	})

	t.Run("per-person price scales", func(t *testing.T) {
		rm := &room.Room{PricingMode: room.PricingPerPerson, PriceMinorUnits: 1000, Currency: "eur"}

		amount, currency := Price(rm, 3)
		assert.Equal(t, int64(3000), amount)
		assert.Equal(t, "eur", currency)
	})
}
