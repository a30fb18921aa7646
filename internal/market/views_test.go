package market

import (
	"errors"
	"testing"
)

func TestSnapshotIsDetached(t *testing.T) {
	m := testMarket(t, 61)
	if _, err := m.Buy("NOVA", 5); err != nil {
		t.Fatalf("buy: %v", err)
	}
	snap := m.Snapshot()

	if len(snap.Companies) != len(companyDefs) {
		t.Fatalf("snapshot has %d companies", len(snap.Companies))
	}
	if len(snap.Holdings) != 1 || snap.Holdings[0].CompanyID != "NOVA" {
		t.Fatalf("holdings %+v", snap.Holdings)
	}
	wantWorth := snap.Balance + 5*m.byID["NOVA"].CurrentPrice
	if snap.NetWorth != wantWorth {
		t.Fatalf("net worth %v, want %v", snap.NetWorth, wantWorth)
	}

	// Mutating the live market must not show through the copy.
	before := snap.NowAverage.ValueHistory[0]
	m.Tick()
	if snap.NowAverage.ValueHistory[0] != before {
		t.Fatalf("snapshot history aliases live state")
	}
}

func TestDetail(t *testing.T) {
	m := testMarket(t, 61)
	if _, err := m.Detail("NOPE"); !errors.Is(err, ErrUnknownCompany) {
		t.Fatalf("unknown company: got nil error")
	}

	d, err := m.Detail("GENO")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if d.ID != "GENO" || d.Volatility == 0 || d.Beta == 0 {
		t.Fatalf("detail missing fields: %+v", d.CompanyView)
	}
	if len(d.PriceHistory) != m.cfg.HistoryCap {
		t.Fatalf("history length %d", len(d.PriceHistory))
	}
}

func TestToggleWatchlist(t *testing.T) {
	m := testMarket(t, 61)
	on, err := m.ToggleWatchlist("BYTE")
	if err != nil || !on {
		t.Fatalf("first toggle: on=%v err=%v", on, err)
	}
	snap := m.Snapshot()
	if len(snap.Watchlist) != 1 || snap.Watchlist[0] != "BYTE" {
		t.Fatalf("watchlist %+v", snap.Watchlist)
	}
	on, err = m.ToggleWatchlist("BYTE")
	if err != nil || on {
		t.Fatalf("second toggle: on=%v err=%v", on, err)
	}
	if _, err := m.ToggleWatchlist("NOPE"); !errors.Is(err, ErrUnknownCompany) {
		t.Fatalf("unknown company: got %v", err)
	}
}
