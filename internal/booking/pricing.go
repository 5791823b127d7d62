package booking

import "github.com/nekogravitycat/escape-room-backend/internal/room"

// Price returns the amount to charge for a booking, in the currency's minor
// units, together with the currency code. A flat-priced room costs the same
// regardless of group size; a per-person room scales linearly.
func Price(rm *room.Room, participants int) (int64, string) {
	switch rm.PricingMode {
	case room.PricingPerPerson:
		return rm.PriceMinorUnits * int64(participants), rm.Currency
	default:
		return rm.PriceMinorUnits, rm.Currency
	}
}
