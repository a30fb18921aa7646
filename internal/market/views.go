package market

import "sort"

// View structs are value copies handed across the API boundary; the UI
// layer never sees live simulation state.

type Snapshot struct {
	Tick       int64         `json:"tick"`
	Clock      Clock         `json:"clock"`
	Mood       float64       `json:"mood"`
	MoodLabel  string        `json:"mood_label"`
	Status     string        `json:"status"`
	Balance    float64       `json:"balance"`
	NetWorth   float64       `json:"net_worth"`
	Companies  []CompanyView `json:"companies"`
	Indices    []IndexView   `json:"indices"`
	NowAverage AverageView   `json:"now_average"`
	Holdings   []Holding     `json:"holdings"`
	Watchlist  []string      `json:"watchlist"`
	News       []NewsItem    `json:"news"`
}

type CompanyView struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Sector        Sector  `json:"sector"`
	CurrentPrice  float64 `json:"current_price"`
	PreviousPrice float64 `json:"previous_price"`
	PercentChange float64 `json:"percent_change"`
	Trending      Trend   `json:"trending"`
	Volume        int64   `json:"volume"`
	DayHigh       float64 `json:"day_high"`
	DayLow        float64 `json:"day_low"`
	WeekHigh      float64 `json:"week_high"`
	WeekLow       float64 `json:"week_low"`
	TotalShares   int64   `json:"total_shares"`
	Owned         int64   `json:"owned"`
	CompanyOwned  bool    `json:"company_owned"`
	UpBets        int     `json:"up_bets"`
	DownBets      int     `json:"down_bets"`
}

type CompanyDetail struct {
	CompanyView
	Volatility      float64       `json:"volatility"`
	Beta            float64       `json:"beta"`
	PERatio         float64       `json:"pe_ratio,omitempty"`
	PriceHistory    []float64     `json:"price_history"`
	Transactions    []Transaction `json:"transactions"`
	BetHistory      []Bet         `json:"bet_history"`
	ReferenceSeries []float64     `json:"reference_series,omitempty"`
	LastRecorded    float64       `json:"last_recorded_price"`
	PriceDirection  Trend         `json:"price_direction"`
}

type IndexView struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CurrentValue  float64   `json:"current_value"`
	PreviousValue float64   `json:"previous_value"`
	PercentChange float64   `json:"percent_change"`
	Trending      Trend     `json:"trending"`
	ValueHistory  []float64 `json:"value_history"`
}

type AverageView struct {
	CurrentValue  float64   `json:"current_value"`
	PreviousValue float64   `json:"previous_value"`
	PercentChange float64   `json:"percent_change"`
	Trending      Trend     `json:"trending"`
	Description   string    `json:"description"`
	ValueHistory  []float64 `json:"value_history"`
}

// Snapshot returns a read-only copy of the full market state.
func (m *Market) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := Snapshot{
		Tick:      m.tickCount,
		Clock:     m.clock,
		Mood:      m.mood,
		MoodLabel: m.moodLabel,
		Status:    m.status,
		Balance:   m.balance,
	}

	holdingsValue := 0.0
	for _, c := range m.companies {
		out.Companies = append(out.Companies, companyView(c))
		if c.Owned > 0 {
			holdingsValue += float64(c.Owned) * c.CurrentPrice
		}
	}
	out.NetWorth = m.balance + holdingsValue

	for _, idx := range m.indices {
		out.Indices = append(out.Indices, IndexView{
			ID:            idx.ID,
			Name:          idx.Name,
			CurrentValue:  idx.CurrentValue,
			PreviousValue: idx.PreviousValue,
			PercentChange: idx.PercentChange,
			Trending:      idx.Trending,
			ValueHistory:  copyFloats(idx.ValueHistory),
		})
	}

	out.NowAverage = AverageView{
		CurrentValue:  m.average.CurrentValue,
		PreviousValue: m.average.PreviousValue,
		PercentChange: m.average.PercentChange,
		Trending:      m.average.Trending,
		Description:   m.average.Description,
		ValueHistory:  copyFloats(m.average.ValueHistory),
	}

	for _, h := range m.holdings {
		out.Holdings = append(out.Holdings, *h)
	}
	sort.Slice(out.Holdings, func(i, j int) bool {
		return out.Holdings[i].CompanyID < out.Holdings[j].CompanyID
	})

	for id := range m.watchlist {
		out.Watchlist = append(out.Watchlist, id)
	}
	sort.Strings(out.Watchlist)

	out.News = make([]NewsItem, len(m.news))
	copy(out.News, m.news)
	return out
}

// Detail returns the deep view of one company.
func (m *Market) Detail(companyID string) (CompanyDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.companyLocked(companyID)
	if err != nil {
		return CompanyDetail{}, err
	}
	detail := CompanyDetail{
		CompanyView:     companyView(c),
		Volatility:      c.Volatility,
		Beta:            c.Beta,
		PERatio:         c.PERatio,
		PriceHistory:    copyFloats(c.PriceHistory),
		Transactions:    make([]Transaction, len(c.Transactions)),
		BetHistory:      make([]Bet, len(c.BetHistory)),
		ReferenceSeries: copyFloats(c.ReferenceSeries),
		LastRecorded:    c.LastRecordedPrice,
		PriceDirection:  c.PriceDirection,
	}
	copy(detail.Transactions, c.Transactions)
	copy(detail.BetHistory, c.BetHistory)
	return detail, nil
}

func companyView(c *Company) CompanyView {
	return CompanyView{
		ID:            c.ID,
		Name:          c.Name,
		Sector:        c.Sector,
		CurrentPrice:  c.CurrentPrice,
		PreviousPrice: c.PreviousPrice,
		PercentChange: c.PercentChange,
		Trending:      c.Trending,
		Volume:        c.Volume,
		DayHigh:       c.DayHigh,
		DayLow:        c.DayLow,
		WeekHigh:      c.WeekHigh,
		WeekLow:       c.WeekLow,
		TotalShares:   c.TotalShares,
		Owned:         c.Owned,
		CompanyOwned:  c.CompanyOwned,
		UpBets:        c.UpBets,
		DownBets:      c.DownBets,
	}
}

func copyFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
