package market

import (
	"errors"
	"math"
	"testing"
)

func TestBuySellRoundTrip(t *testing.T) {
	m := testMarket(t, 17)
	start := m.Balance()

	buy, err := m.Buy("NOVA", 10)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if buy.Total != buy.Price*10 {
		t.Fatalf("buy total %v, want %v", buy.Total, buy.Price*10)
	}
	if got := m.Balance(); math.Abs(got-(start-buy.Total)) > 1e-9 {
		t.Fatalf("balance after buy %v, want %v", got, start-buy.Total)
	}

	sell, err := m.Sell("NOVA", 10)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	// No tick between the trades, so the round trip restores the balance.
	if got := m.Balance(); math.Abs(got-start) > 1e-9 {
		t.Fatalf("balance after round trip %v, want %v", got, start)
	}
	if sell.Shares != 10 {
		t.Fatalf("sell receipt shares %d", sell.Shares)
	}
	if _, ok := m.holdings["NOVA"]; ok {
		t.Fatalf("holding should be removed when fully sold")
	}
}

func TestBuyValidation(t *testing.T) {
	m := testMarket(t, 17)

	if _, err := m.Buy("NOVA", 0); !errors.Is(err, ErrInvalidShares) {
		t.Fatalf("zero shares: got %v", err)
	}
	if _, err := m.Buy("NOVA", -5); !errors.Is(err, ErrInvalidShares) {
		t.Fatalf("negative shares: got %v", err)
	}
	if _, err := m.Buy("NOPE", 1); !errors.Is(err, ErrUnknownCompany) {
		t.Fatalf("unknown company: got %v", err)
	}
	if _, err := m.Buy("NOVA", 1_000_000_000); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("oversized order: got %v", err)
	}
	if got := m.Balance(); got != m.cfg.StartingBalance {
		t.Fatalf("failed orders must not move the balance: %v", got)
	}
}

func TestSellMoreThanOwned(t *testing.T) {
	m := testMarket(t, 17)
	if _, err := m.Buy("BYTE", 3); err != nil {
		t.Fatalf("buy: %v", err)
	}
	if _, err := m.Sell("BYTE", 4); !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("overselling: got %v", err)
	}
}

func TestHoldingAveragePrice(t *testing.T) {
	m := testMarket(t, 17)
	c := m.byID["NOVA"]

	c.CurrentPrice = 100
	if _, err := m.Buy("NOVA", 10); err != nil {
		t.Fatalf("buy 1: %v", err)
	}
	c.CurrentPrice = 50
	if _, err := m.Buy("NOVA", 10); err != nil {
		t.Fatalf("buy 2: %v", err)
	}

	h := m.holdings["NOVA"]
	if h == nil {
		t.Fatalf("missing holding")
	}
	if math.Abs(h.AveragePrice-75) > 1e-9 {
		t.Fatalf("average price %v, want 75", h.AveragePrice)
	}

	// Selling does not change the cost basis of the rest.
	c.CurrentPrice = 200
	if _, err := m.Sell("NOVA", 5); err != nil {
		t.Fatalf("sell: %v", err)
	}
	h = m.holdings["NOVA"]
	if math.Abs(h.AveragePrice-75) > 1e-9 {
		t.Fatalf("average price after sell %v, want 75", h.AveragePrice)
	}
	if h.Shares != 15 {
		t.Fatalf("shares %d, want 15", h.Shares)
	}
}

func TestBuyMovesPressure(t *testing.T) {
	m := testMarket(t, 17)
	c := m.byID["NOVA"]
	c.SellPressure = 1.0

	shares := c.TotalShares / 10
	if _, err := m.Buy("NOVA", shares); err != nil {
		t.Fatalf("buy: %v", err)
	}
	frac := float64(shares) / float64(c.TotalShares)
	if want := frac * 5; math.Abs(c.BuyPressure-want) > 1e-9 {
		t.Fatalf("buy pressure %v, want %v", c.BuyPressure, want)
	}
	if want := 1.0 - frac*2; math.Abs(c.SellPressure-want) > 1e-9 {
		t.Fatalf("sell pressure %v, want %v", c.SellPressure, want)
	}
}

func TestControlThreshold(t *testing.T) {
	m := testMarket(t, 17)
	c := m.byID["FZZY"]
	c.CurrentPrice = 0.05
	m.balance = float64(c.TotalShares) // plenty at this price

	half := c.TotalShares / 2
	if _, err := m.Buy("FZZY", half); err != nil {
		t.Fatalf("buy half: %v", err)
	}
	if c.CompanyOwned {
		t.Fatalf("50%% must not grant control")
	}
	if _, err := m.CompanyAction("FZZY"); !errors.Is(err, ErrNotController) {
		t.Fatalf("action without control: got %v", err)
	}

	if _, err := m.Buy("FZZY", c.TotalShares/50); err != nil {
		t.Fatalf("buy to 52%%: %v", err)
	}
	if !c.CompanyOwned {
		t.Fatalf("52%% should grant control")
	}

	item, err := m.CompanyAction("FZZY")
	if err != nil {
		t.Fatalf("action: %v", err)
	}
	if item.CompanyID != "FZZY" {
		t.Fatalf("action news for %q", item.CompanyID)
	}
	if c.CurrentPrice == c.PreviousPrice {
		t.Fatalf("company action should move the price")
	}
}

func TestTransactionLogBounded(t *testing.T) {
	m := testMarket(t, 17)
	c := m.byID["NOVA"]
	c.CurrentPrice = 0.05

	for i := 0; i < transactionCap+20; i++ {
		if _, err := m.Buy("NOVA", 1); err != nil {
			t.Fatalf("buy %d: %v", i, err)
		}
	}
	if len(c.Transactions) != transactionCap {
		t.Fatalf("transaction log length %d, want %d", len(c.Transactions), transactionCap)
	}
}
