package market

import (
	"fmt"

	"github.com/google/uuid"
)

// PlaceBet stakes money on a company's price direction over the next
// resolution window. The stake is debited immediately; a win pays
// stake x 1.8 when the next non-neutral snapshot matches the call.
func (m *Market) PlaceBet(companyID string, direction Trend, stake float64) (string, error) {
	if direction != TrendUp && direction != TrendDown {
		return "", ErrInvalidDirection
	}
	if stake <= 0 {
		return "", ErrInvalidStake
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.companyLocked(companyID)
	if err != nil {
		return "", err
	}
	if !m.debitLocked(stake) {
		return "", fmt.Errorf("%w: need $%.2f, have $%.2f", ErrInsufficientFunds, stake, m.balance)
	}

	bet := Bet{
		ID:               uuid.NewString(),
		CompanyID:        c.ID,
		Direction:        direction,
		Stake:            stake,
		PriceAtPlacement: c.CurrentPrice,
		PlacedTick:       m.tickCount,
	}
	m.appendBetLocked(c, bet)

	if direction == TrendUp {
		c.UpBets++
		c.BuyPressure += betPressureNudge
	} else {
		c.DownBets++
		c.SellPressure += betPressureNudge
	}
	return bet.ID, nil
}

// appendBetLocked bounds the bet history without ever evicting an
// unresolved bet.
func (m *Market) appendBetLocked(c *Company, bet Bet) {
	c.BetHistory = append(c.BetHistory, bet)
	if len(c.BetHistory) <= betHistoryCap {
		return
	}
	for i, b := range c.BetHistory {
		if b.Resolved {
			c.BetHistory = append(c.BetHistory[:i], c.BetHistory[i+1:]...)
			return
		}
	}
}

// resolveBetsLocked runs the 30-tick snapshot cycle: classify each
// company's direction since its last recorded price, settle every
// outstanding bet when the direction is non-neutral, and refresh the
// snapshot state for the next window. A neutral window leaves bets
// outstanding.
func (m *Market) resolveBetsLocked() {
	for _, c := range m.companies {
		direction := TrendNeutral
		if c.CurrentPrice > c.LastRecordedPrice {
			direction = TrendUp
		} else if c.CurrentPrice < c.LastRecordedPrice {
			direction = TrendDown
		}

		if direction != TrendNeutral && (c.UpBets > 0 || c.DownBets > 0) {
			for i := range c.BetHistory {
				b := &c.BetHistory[i]
				if b.Resolved {
					continue
				}
				b.Resolved = true
				b.Won = b.Direction == direction
				if b.Won {
					payout := b.Stake * betPayoutMultiplier
					m.creditLocked(payout)
					m.log.Info("bet won", "company", c.ID, "direction", direction, "payout", payout)
					m.pushNewsLocked(NewsItem{
						Headline:  fmt.Sprintf("You won $%.2f on your %s price direction bet", payout, c.ID),
						Content:   fmt.Sprintf("%s moved %s; your $%.2f stake paid out.", c.Name, direction, b.Stake),
						Impact:    "positive",
						CompanyID: c.ID,
						Personal:  true,
					})
				}
			}
			c.UpBets = 0
			c.DownBets = 0
		}

		c.LastRecordedPrice = c.CurrentPrice
		c.PriceDirection = direction
		c.PriceChangeTick = m.tickCount
	}
}
