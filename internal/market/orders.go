package market

import (
	"fmt"
	"math"
	"time"
)

// Receipt describes an executed order.
type Receipt struct {
	CompanyID string  `json:"company_id"`
	Side      string  `json:"side"`
	Shares    int64   `json:"shares"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
	Balance   float64 `json:"balance"`
}

// Buy executes a market buy at the current price. There are no partial
// fills: either the full order clears or nothing changes.
func (m *Market) Buy(companyID string, shares int64) (Receipt, error) {
	if shares <= 0 {
		return Receipt{}, ErrInvalidShares
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.companyLocked(companyID)
	if err != nil {
		return Receipt{}, err
	}
	price := c.CurrentPrice
	total := price * float64(shares)
	if !m.debitLocked(total) {
		return Receipt{}, fmt.Errorf("%w: need $%.2f, have $%.2f", ErrInsufficientFunds, total, m.balance)
	}

	c.Owned += shares
	m.appendTransactionLocked(c, "buy", shares, price, total)

	h := m.holdings[c.ID]
	if h == nil {
		m.holdings[c.ID] = &Holding{
			CompanyID:     c.ID,
			Shares:        shares,
			AveragePrice:  price,
			TotalInvested: total,
		}
	} else {
		h.Shares += shares
		h.TotalInvested += total
		h.AveragePrice = h.TotalInvested / float64(h.Shares)
	}

	frac := float64(shares) / float64(c.TotalShares)
	c.BuyPressure += frac * 5
	c.SellPressure = math.Max(0, c.SellPressure-frac*2)
	c.CompanyOwned = float64(c.Owned) > float64(c.TotalShares)*controlThreshold

	return Receipt{
		CompanyID: c.ID,
		Side:      "buy",
		Shares:    shares,
		Price:     price,
		Total:     total,
		Balance:   m.balance,
	}, nil
}

// Sell executes a market sell at the current price. The average cost
// basis of the remaining holding is unchanged; the invested total drops
// proportionally.
func (m *Market) Sell(companyID string, shares int64) (Receipt, error) {
	if shares <= 0 {
		return Receipt{}, ErrInvalidShares
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.companyLocked(companyID)
	if err != nil {
		return Receipt{}, err
	}
	if shares > c.Owned {
		return Receipt{}, fmt.Errorf("%w: own %d shares of %s", ErrInsufficientShares, c.Owned, c.ID)
	}
	price := c.CurrentPrice
	total := price * float64(shares)

	m.creditLocked(total)
	c.Owned -= shares
	m.appendTransactionLocked(c, "sell", shares, price, total)

	if h := m.holdings[c.ID]; h != nil {
		h.Shares -= shares
		h.TotalInvested -= h.AveragePrice * float64(shares)
		if h.Shares <= 0 {
			delete(m.holdings, c.ID)
		}
	}

	frac := float64(shares) / float64(c.TotalShares)
	c.SellPressure += frac * 5
	c.BuyPressure = math.Max(0, c.BuyPressure-frac*2)
	c.CompanyOwned = float64(c.Owned) > float64(c.TotalShares)*controlThreshold

	return Receipt{
		CompanyID: c.ID,
		Side:      "sell",
		Shares:    shares,
		Price:     price,
		Total:     total,
		Balance:   m.balance,
	}, nil
}

func (m *Market) appendTransactionLocked(c *Company, side string, shares int64, price, total float64) {
	c.Transactions = append(c.Transactions, Transaction{
		Type:   side,
		Shares: shares,
		Price:  price,
		Total:  total,
		Tick:   m.tickCount,
		At:     time.Now(),
	})
	if len(c.Transactions) > transactionCap {
		c.Transactions = c.Transactions[len(c.Transactions)-transactionCap:]
	}
}

// CompanyAction lets a controlling shareholder trigger a corporate
// action with an immediate scripted price impact.
func (m *Market) CompanyAction(companyID string) (NewsItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.companyLocked(companyID)
	if err != nil {
		return NewsItem{}, err
	}
	if !c.CompanyOwned {
		return NewsItem{}, ErrNotController
	}

	action := companyActions[m.rand.Intn(len(companyActions))]
	prev := c.CurrentPrice
	next := prev * (1 + action.Impact)
	if next < priceFloor {
		next = priceFloor
	}
	c.PreviousPrice = prev
	c.CurrentPrice = next
	c.PercentChange = (next/prev - 1) * 100
	c.PriceHistory = boundHistory(append(c.PriceHistory, next), m.cfg.HistoryCap)
	if action.Impact > 0 {
		c.Trending = TrendUp
	} else {
		c.Trending = TrendDown
	}

	impact := "positive"
	if action.Impact < 0 {
		impact = "negative"
	}
	item := NewsItem{
		Headline:  fmt.Sprintf("%s %s", c.Name, action.Action),
		Content:   action.Description,
		Impact:    impact,
		CompanyID: c.ID,
	}
	m.pushNewsLocked(item)
	return item, nil
}
