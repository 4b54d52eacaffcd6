package analytics

import "math"

// ratio returns part/whole as a percentage, or nil when the denominator
// is zero. Undefined is not 0: a month with no income has no investment
// rate at all. No clamping is applied, so rates above 100 or negative
// rates pass through as computed.
func ratio(part, whole float64) *float64 {
	if whole == 0 {
		return nil
	}
	v := part / whole * 100
	return &v
}

// growthRate returns the percentage change from prev to current, using
// |prev| as the denominator so a swing across zero keeps its sign. A
// zero base has no meaningful percentage change and yields nil.
func growthRate(current, prev float64) *float64 {
	if prev == 0 {
		return nil
	}
	v := (current - prev) / math.Abs(prev) * 100
	return &v
}

// allocationShares computes each instrument's share of the investment
// total. With a zero total every share is nil simultaneously.
func allocationShares(breakdown map[Instrument]float64, total float64) map[Instrument]*float64 {
	shares := make(map[Instrument]*float64, len(Instruments))
	for _, instrument := range Instruments {
		shares[instrument] = ratio(breakdown[instrument], total)
	}
	return shares
}
