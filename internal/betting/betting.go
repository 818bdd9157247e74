// Package betting computes expected value and Kelly stakes for money-line bets
// quoted in American odds.
package betting

import "math"

// Payout returns the profit of a winning 100-unit stake at americanOdds.
func Payout(americanOdds float64) float64 {
	if americanOdds > 0 {
		return americanOdds
	}
	return 100 / -americanOdds * 100
}

// ExpectedValue returns the expected profit of a 100-unit stake that wins with
// probability p, rounded to cents. A zero price has no value.
func ExpectedValue(p, americanOdds float64) float64 {
	if americanOdds == 0 {
		return 0
	}
	return round2(p*Payout(americanOdds) - (1-p)*100)
}

// NetOdds converts American odds to the net fractional return per unit staked.
func NetOdds(americanOdds float64) float64 {
	if americanOdds >= 100 {
		return round2(americanOdds / 100)
	}
	return round2(100 / math.Abs(americanOdds))
}

// KellyFraction returns the Kelly stake as a percentage of bankroll, rounded to
// two decimals. Bets without an edge return 0.
func KellyFraction(americanOdds, p float64) float64 {
	if americanOdds == 0 {
		return 0
	}
	b := NetOdds(americanOdds)
	f := round2(100 * (b*p - (1 - p)) / b)
	if f <= 0 {
		return 0
	}
	return f
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
