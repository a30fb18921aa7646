package market

import (
	"errors"
	"math"
	"testing"
)

func TestPlaceBetValidation(t *testing.T) {
	m := testMarket(t, 31)

	if _, err := m.PlaceBet("NOVA", TrendNeutral, 100); !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("neutral direction: got %v", err)
	}
	if _, err := m.PlaceBet("NOVA", TrendUp, 0); !errors.Is(err, ErrInvalidStake) {
		t.Fatalf("zero stake: got %v", err)
	}
	if _, err := m.PlaceBet("NOPE", TrendUp, 100); !errors.Is(err, ErrUnknownCompany) {
		t.Fatalf("unknown company: got %v", err)
	}
	if _, err := m.PlaceBet("NOVA", TrendUp, 1e12); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("oversized stake: got %v", err)
	}
	if got := m.Balance(); got != m.cfg.StartingBalance {
		t.Fatalf("failed bets must not move the balance: %v", got)
	}
}

func TestBetWinPaysMultiplier(t *testing.T) {
	m := testMarket(t, 31)
	c := m.byID["NOVA"]

	id, err := m.PlaceBet("NOVA", TrendUp, 100)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if id == "" {
		t.Fatalf("bet id is empty")
	}
	afterStake := m.Balance()

	c.CurrentPrice = c.LastRecordedPrice * 1.02
	m.resolveBetsLocked()

	want := afterStake + 100*betPayoutMultiplier
	if got := m.Balance(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("balance after win %v, want %v", got, want)
	}
	b := c.BetHistory[len(c.BetHistory)-1]
	if !b.Resolved || !b.Won {
		t.Fatalf("bet not marked won: %+v", b)
	}
	if c.UpBets != 0 || c.DownBets != 0 {
		t.Fatalf("bet counters not reset: up=%d down=%d", c.UpBets, c.DownBets)
	}
}

func TestBetLossForfeitsStake(t *testing.T) {
	m := testMarket(t, 31)
	c := m.byID["NOVA"]

	if _, err := m.PlaceBet("NOVA", TrendUp, 100); err != nil {
		t.Fatalf("place: %v", err)
	}
	afterStake := m.Balance()

	c.CurrentPrice = c.LastRecordedPrice * 0.98
	m.resolveBetsLocked()

	if got := m.Balance(); got != afterStake {
		t.Fatalf("losing bet changed balance: %v vs %v", got, afterStake)
	}
	b := c.BetHistory[len(c.BetHistory)-1]
	if !b.Resolved || b.Won {
		t.Fatalf("bet not marked lost: %+v", b)
	}
}

func TestNeutralWindowLeavesBetOutstanding(t *testing.T) {
	m := testMarket(t, 31)
	c := m.byID["NOVA"]

	if _, err := m.PlaceBet("NOVA", TrendUp, 100); err != nil {
		t.Fatalf("place: %v", err)
	}

	// Price exactly at the snapshot: neutral window, nothing settles.
	c.CurrentPrice = c.LastRecordedPrice
	m.resolveBetsLocked()

	b := c.BetHistory[len(c.BetHistory)-1]
	if b.Resolved {
		t.Fatalf("bet resolved during a neutral window: %+v", b)
	}
	if c.UpBets != 1 {
		t.Fatalf("counter cleared during a neutral window: %d", c.UpBets)
	}

	// The next moving window settles it.
	c.CurrentPrice = c.LastRecordedPrice * 1.01
	m.resolveBetsLocked()
	b = c.BetHistory[len(c.BetHistory)-1]
	if !b.Resolved || !b.Won {
		t.Fatalf("bet should settle after the neutral window: %+v", b)
	}
}

func TestResolveRefreshesSnapshotForAllCompanies(t *testing.T) {
	m := testMarket(t, 31)
	for _, c := range m.companies {
		c.CurrentPrice = c.LastRecordedPrice * 1.05
	}
	m.tickCount = 77
	m.resolveBetsLocked()
	for _, c := range m.companies {
		if c.LastRecordedPrice != c.CurrentPrice {
			t.Fatalf("%s snapshot price not refreshed", c.ID)
		}
		if c.PriceDirection != TrendUp {
			t.Fatalf("%s direction %q, want up", c.ID, c.PriceDirection)
		}
		if c.PriceChangeTick != 77 {
			t.Fatalf("%s snapshot tick %d", c.ID, c.PriceChangeTick)
		}
	}
}

func TestBetHistoryNeverEvictsUnresolved(t *testing.T) {
	m := testMarket(t, 31)
	c := m.byID["NOVA"]
	m.balance = 1e9

	for i := 0; i < betHistoryCap+10; i++ {
		if _, err := m.PlaceBet("NOVA", TrendUp, 1); err != nil {
			t.Fatalf("place %d: %v", i, err)
		}
	}
	// Every bet is still unresolved, so the history may exceed the cap.
	if len(c.BetHistory) != betHistoryCap+10 {
		t.Fatalf("history length %d", len(c.BetHistory))
	}

	c.CurrentPrice = c.LastRecordedPrice * 1.01
	m.resolveBetsLocked()

	if _, err := m.PlaceBet("NOVA", TrendDown, 1); err != nil {
		t.Fatalf("place after resolve: %v", err)
	}
	if len(c.BetHistory) != betHistoryCap+10 {
		t.Fatalf("resolved bet not evicted: %d", len(c.BetHistory))
	}
	for _, b := range c.BetHistory {
		if !b.Resolved {
			return // the fresh unresolved bet survived
		}
	}
	t.Fatalf("unresolved bet was evicted")
}
