package session

// The walk-in catalog: fixed durations with fixed prices.
var priceByDuration = map[int]float64{
	30:  5,
	60:  8,
	120: 15,
}

// PriceFor returns the price for a catalog duration in minutes.
func PriceFor(minutes int) (float64, bool) {
	price, ok := priceByDuration[minutes]
	return price, ok
}
