package models

// RateTable maps a currency code to its exchange factor relative to a fixed
// reference unit. It is supplied externally and read-only to the engine.
type RateTable map[string]float64

// DefaultRates returns the built-in table used when no external source is
// configured.
func DefaultRates() RateTable {
	return RateTable{"USD": 1.0, "INR": 83.0, "EUR": 0.92}
}

// Rate returns the factor for code, defaulting to 1.0 for unknown codes so
// they act as identity conversions.
func (r RateTable) Rate(code string) float64 {
	if v, ok := r[code]; ok {
		return v
	}
	return 1.0
}

// Convert converts value from one currency to another:
// value / rate(from) * rate(to). A zero from-rate means "no rate information
// available": conversion is skipped and the raw value returned rather than
// dividing by zero.
func (r RateTable) Convert(value float64, from, to string) float64 {
	rateFrom := r.Rate(from)
	if rateFrom == 0 {
		return value
	}
	return value / rateFrom * r.Rate(to)
}
