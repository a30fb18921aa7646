package market

import (
	"fmt"
	"math"
)

// Tick advances the simulation by one market minute. While the market
// is closed only the clock moves; while open, every company price,
// index, the NOW Average, the market mood, and any due bet resolution
// are applied as one state transition under the mutex.
func (m *Market) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tickCount++
	if m.clock.Open {
		sectorDeltas := m.sectorDeltasLocked()
		for _, c := range m.companies {
			m.updateCompanyLocked(c, sectorDeltas[c.Sector])
		}
		m.updateIndicesLocked()
		m.updateAverageLocked()
		m.updateMoodLocked()

		if m.tickCount-m.lastBetTick >= int64(m.cfg.BetResolveTicks) {
			m.resolveBetsLocked()
			m.lastBetTick = m.tickCount
		}
	}
	m.clock.advance()
}

// Clock returns a copy of the simulated clock.
func (m *Market) Clock() Clock {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock
}

func (m *Market) uniform(r valueRange) float64 {
	return r.Min + m.rand.Float64()*(r.Max-r.Min)
}

// sectorDeltasLocked draws the market-wide sentiment, blends it with
// momentum, optionally fires one scripted market news event, and
// composes the per-sector base delta for this tick.
func (m *Market) sectorDeltasLocked() map[Sector]float64 {
	sentiment := m.uniform(marketSentimentRange)
	trendFactor := 0.7*sentiment + 0.3*(m.mood/100)

	var event *marketNewsEvent
	if m.rand.Float64() < 0.05 {
		event = &marketNewsEvents[m.rand.Intn(len(marketNewsEvents))]
	}

	deltas := make(map[Sector]float64, len(sectorOrder))
	for _, sector := range sectorOrder {
		delta := 0.6*trendFactor + 0.4*m.uniform(sectorTrendRanges[sector])
		if event != nil && containsSector(event.Sectors, sector) {
			direction := 1.0
			switch event.Impact {
			case "negative":
				direction = -1.0
			case "mixed":
				if m.rand.Float64() < 0.5 {
					direction = -1.0
				}
			}
			delta += direction * event.Magnitude
		}
		deltas[sector] = delta
	}

	if event != nil {
		impact := event.Impact
		if impact == "mixed" {
			impact = "neutral"
		}
		m.pushNewsLocked(NewsItem{
			Headline: event.Headline,
			Content:  fmt.Sprintf("Event affecting the %s sector(s).", sectorList(event.Sectors)),
			Impact:   impact,
		})
	}
	return deltas
}

func (m *Market) updateCompanyLocked(c *Company, sectorDelta float64) {
	delta := sectorDelta

	// Company-specific random walk scaled by volatility and beta.
	delta += (m.rand.Float64()*2 - 1) * c.Volatility * c.Beta * 0.4

	// Momentum: blend with the running trend, then decay the trend
	// itself toward the fresh delta.
	fresh := delta
	delta = 0.6*fresh + 0.4*c.PriceTrend
	c.PriceTrend = clamp(0.95*c.PriceTrend+0.05*fresh, -0.5, 0.5)

	// Order-flow imbalance feedback.
	delta += (c.BuyPressure - c.SellPressure) * 0.1

	delta += m.companyNewsLocked(c)
	delta += m.calendarEventsLocked(c)

	// Circuit breaker: no single tick moves a price more than 9%.
	delta = clamp(delta, -maxTickDelta, maxTickDelta)
	if !isFiniteDelta(delta) {
		delta = 0
	}

	prev := c.CurrentPrice
	next := prev * (1 + delta)
	if next < priceFloor {
		next = priceFloor
	}
	c.PreviousPrice = prev
	c.CurrentPrice = next
	c.PercentChange = (next/prev - 1) * 100
	c.PriceHistory = boundHistory(append(c.PriceHistory, next), m.cfg.HistoryCap)
	c.DayHigh = math.Max(c.DayHigh, next)
	c.DayLow = math.Min(c.DayLow, next)
	c.WeekHigh = math.Max(c.WeekHigh, next)
	c.WeekLow = math.Min(c.WeekLow, next)
	c.Trending = trendFromDelta(delta, 0.0025)
	c.Volume += int64(math.Abs(delta) * float64(c.TotalShares) * 0.05 * (0.75 + m.rand.Float64()*0.5))
	c.BuyPressure *= pressureDecay
	c.SellPressure *= pressureDecay
}

// companyNewsLocked gives each company a 1% shot per tick at one of its
// scripted headlines, each gated by its own acceptance probability.
func (m *Market) companyNewsLocked(c *Company) float64 {
	if len(c.Scripted) == 0 || m.rand.Float64() >= 0.01 {
		return 0
	}
	item := c.Scripted[m.rand.Intn(len(c.Scripted))]
	if m.rand.Float64() >= item.Probability {
		return 0
	}
	impact := "positive"
	if item.Impact < 0 {
		impact = "negative"
	}
	m.pushNewsLocked(NewsItem{
		Headline:  item.Headline,
		Content:   fmt.Sprintf("News specific to %s.", c.Name),
		Impact:    impact,
		CompanyID: c.ID,
	})
	return item.Impact
}

// calendarEventsLocked fires earnings and dividend effects when the
// simulated calendar reaches a company's scheduled dates. Each event
// fires at most once per simulated day.
func (m *Market) calendarEventsLocked(c *Company) float64 {
	month, dayOfMonth := m.clock.calendarDate()
	var delta float64

	if e := c.Events.Earnings; e != nil && e.Day == dayOfMonth &&
		containsInt(e.Months, month) && c.lastEarningsDay != m.clock.Day {
		c.lastEarningsDay = m.clock.Day
		delta += m.earningsImpactLocked(c)
	}

	if d := c.Events.Dividend; d != nil && d.Day == dayOfMonth &&
		containsInt(d.Months, month) && c.lastDividendDay != m.clock.Day {
		c.lastDividendDay = m.clock.Day
		delta += 0.005
		m.pushNewsLocked(NewsItem{
			Headline:  fmt.Sprintf("%s pays quarterly dividend of $%.2f per share", c.Name, d.Amount),
			Content:   "Shareholders of record received dividends today.",
			Impact:    "positive",
			CompanyID: c.ID,
		})
		if c.Owned > 0 {
			payout := float64(c.Owned) * d.Amount
			m.creditLocked(payout)
			m.pushNewsLocked(NewsItem{
				Headline:  fmt.Sprintf("You received $%.2f in dividends from %s", payout, c.Name),
				Content:   fmt.Sprintf("Dividend payment for %d shares at $%.2f per share.", c.Owned, d.Amount),
				Impact:    "positive",
				CompanyID: c.ID,
				Personal:  true,
			})
		}
	}
	return delta
}

// earningsImpactLocked rolls beat/meet/miss (40/35/25). Beats scale
// directly with the valuation multiplier, misses inversely.
func (m *Market) earningsImpactLocked(c *Company) float64 {
	mult := valuationMultiplier(c.PERatio)
	roll := m.rand.Float64()
	var impact float64
	var headline string
	switch {
	case roll > 0.6:
		impact = (m.rand.Float64()*0.08 + 0.02) * mult
		headline = fmt.Sprintf("%s beats earnings expectations", c.Name)
	case roll > 0.25:
		impact = m.rand.Float64()*0.02 - 0.01
		headline = fmt.Sprintf("%s meets earnings expectations", c.Name)
	default:
		impact = -(m.rand.Float64()*0.08 + 0.02) / mult
		headline = fmt.Sprintf("%s misses earnings expectations", c.Name)
	}
	tone := "neutral"
	if impact > 0 {
		tone = "positive"
	} else if impact < 0 {
		tone = "negative"
	}
	m.pushNewsLocked(NewsItem{
		Headline:  headline,
		Content:   fmt.Sprintf("%s reported quarterly earnings.", c.Name),
		Impact:    tone,
		CompanyID: c.ID,
	})
	return impact
}

func (m *Market) updateIndicesLocked() {
	for _, idx := range m.indices {
		var curSum, prevSum float64
		var n int
		for _, id := range idx.Constituents {
			c, ok := m.byID[id]
			if !ok {
				continue
			}
			curSum += c.CurrentPrice
			prevSum += c.PreviousPrice
			n++
		}
		if n == 0 {
			continue
		}
		newValue := curSum / float64(n) * idx.BaseValue / 100
		prevValue := prevSum / float64(n) * idx.BaseValue / 100

		idx.PreviousValue = idx.CurrentValue
		idx.CurrentValue = newValue
		if idx.PreviousValue > 0 {
			idx.PercentChange = (newValue/idx.PreviousValue - 1) * 100
		}
		idx.ValueHistory = boundHistory(append(idx.ValueHistory, newValue), m.cfg.HistoryCap)
		if prevValue > 0 {
			idx.Trending = trendFromDelta(newValue/prevValue-1, 0.001)
		}
	}
}

// capWeightedAverageLocked computes the NOW Average: the share-count
// weighted mean of all current prices (total market cap over total
// shares outstanding) scaled by 100.
func (m *Market) capWeightedAverageLocked() float64 {
	var capSum, shareSum float64
	for _, c := range m.companies {
		capSum += c.CurrentPrice * float64(c.TotalShares)
		shareSum += float64(c.TotalShares)
	}
	if shareSum == 0 {
		return 0
	}
	return capSum / shareSum * 100
}

func (m *Market) updateAverageLocked() {
	avg := m.average
	newValue := m.capWeightedAverageLocked()
	avg.PreviousValue = avg.CurrentValue
	avg.CurrentValue = newValue
	if avg.PreviousValue > 0 {
		avg.PercentChange = (newValue/avg.PreviousValue - 1) * 100
	}
	avg.ValueHistory = boundHistory(append(avg.ValueHistory, newValue), m.cfg.HistoryCap)
	avg.Trending = trendFromDelta(avg.PercentChange/100, 0.0008)
	avg.Description = statusMessage(avg.PercentChange)
}

func (m *Market) updateMoodLocked() {
	change := m.average.PercentChange
	switch {
	case change > 0.5:
		m.mood += 0.5
	case change > 0.1:
		m.mood += 0.2
	case change < -0.5:
		m.mood -= 0.5
	case change < -0.1:
		m.mood -= 0.2
	}
	m.mood *= 0.95 // mean reversion toward zero
	m.mood = clamp(m.mood, -10, 10)
	m.moodLabel = moodLabel(m.mood)
	m.status = m.average.Description

	if math.Abs(change) > 1.5 {
		headline := "Markets swing sharply higher"
		impact := "positive"
		if change < 0 {
			headline = "Markets swing sharply lower"
			impact = "negative"
		}
		m.pushNewsLocked(NewsItem{
			Headline: headline,
			Content:  fmt.Sprintf("The NOW Average moved %.2f%% in a single session minute.", change),
			Impact:   impact,
		})
	}
}

func containsSector(sectors []Sector, s Sector) bool {
	for _, v := range sectors {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(vals []int, v int) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}

func sectorList(sectors []Sector) string {
	out := ""
	for i, s := range sectors {
		if i > 0 {
			out += ", "
		}
		out += string(s)
	}
	return out
}
