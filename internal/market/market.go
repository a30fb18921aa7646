package market

import (
	"log/slog"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Config tunes a market session. Zero values fall back to defaults so
// tests can construct a Market with only the fields they care about.
type Config struct {
	Seed            int64
	HistoryCap      int
	NewsCap         int
	StartingBalance float64
	BetResolveTicks int
}

func DefaultConfig() Config {
	return Config{
		HistoryCap:      50,
		NewsCap:         15,
		StartingBalance: 10_000,
		BetResolveTicks: 30,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.HistoryCap <= 0 {
		c.HistoryCap = d.HistoryCap
	}
	if c.NewsCap <= 0 {
		c.NewsCap = d.NewsCap
	}
	if c.StartingBalance <= 0 {
		c.StartingBalance = d.StartingBalance
	}
	if c.BetResolveTicks <= 0 {
		c.BetResolveTicks = d.BetResolveTicks
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// Market owns all simulation state. Every mutation goes through its
// mutex: the tick loop, order and bet entry points, and the reference
// fetcher all serialize here, so a buy can never interleave with a
// tick's price update.
type Market struct {
	cfg Config
	log *slog.Logger

	mu   sync.Mutex
	rand *mathrand.Rand

	companies []*Company
	byID      map[string]*Company
	indices   []*Index
	average   *Average
	clock     Clock

	mood      float64
	moodLabel string
	status    string

	balance   float64
	holdings  map[string]*Holding
	watchlist map[string]bool

	news        []NewsItem
	subscribers map[int]chan NewsItem
	nextSubID   int

	tickCount   int64
	lastBetTick int64
}

func New(cfg Config, logger *slog.Logger) *Market {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	m := &Market{
		cfg:         cfg,
		log:         logger,
		rand:        mathrand.New(mathrand.NewSource(cfg.Seed)),
		byID:        make(map[string]*Company),
		holdings:    make(map[string]*Holding),
		watchlist:   make(map[string]bool),
		subscribers: make(map[int]chan NewsItem),
		clock:       newClock(),
		balance:     cfg.StartingBalance,
		status:      "Market opening: trading begins for the day",
		moodLabel:   "neutral",
	}
	m.seedCompanies()
	m.seedIndices()
	m.seedAverage()
	return m
}

func (m *Market) seedCompanies() {
	for _, def := range companyDefs {
		c := &Company{
			ID:                def.ID,
			Name:              def.Name,
			Sector:            def.Sector,
			TotalShares:       def.TotalShares,
			BasePrice:         def.BasePrice,
			CurrentPrice:      def.BasePrice,
			PreviousPrice:     def.BasePrice,
			Volatility:        def.Volatility,
			Beta:              def.Beta,
			PERatio:           def.PERatio,
			DayHigh:           def.BasePrice * 1.01,
			DayLow:            def.BasePrice * 0.99,
			WeekHigh:          def.BasePrice * 1.05,
			WeekLow:           def.BasePrice * 0.95,
			Trending:          TrendNeutral,
			Volume:            int64(m.rand.Float64() * 10_000_000),
			LastRecordedPrice: def.BasePrice,
			PriceDirection:    TrendNeutral,
			Events:            def.Events,
			Scripted:          def.Scripted,
			RefTicker:         def.RefTicker,
		}
		c.PriceHistory = make([]float64, 0, m.cfg.HistoryCap)
		for i := 0; i < m.cfg.HistoryCap; i++ {
			c.PriceHistory = append(c.PriceHistory, def.BasePrice*(1+(m.rand.Float64()*0.1-0.05)))
		}
		m.companies = append(m.companies, c)
		m.byID[c.ID] = c
	}
}

func (m *Market) seedIndices() {
	for _, def := range indexDefs {
		idx := &Index{
			ID:            def.ID,
			Name:          def.Name,
			Constituents:  def.Constituents,
			BaseValue:     def.BaseValue,
			CurrentValue:  def.BaseValue,
			PreviousValue: def.BaseValue,
			Trending:      TrendNeutral,
		}
		idx.ValueHistory = make([]float64, 0, m.cfg.HistoryCap)
		for i := 0; i < m.cfg.HistoryCap; i++ {
			idx.ValueHistory = append(idx.ValueHistory, def.BaseValue*(1+(m.rand.Float64()*0.08-0.04)))
		}
		m.indices = append(m.indices, idx)
	}
}

func (m *Market) seedAverage() {
	initial := m.capWeightedAverageLocked()
	avg := &Average{
		CurrentValue:  initial,
		PreviousValue: initial,
		Trending:      TrendNeutral,
		Description:   statusMessage(0),
	}
	avg.ValueHistory = make([]float64, 0, m.cfg.HistoryCap)
	for i := 0; i < m.cfg.HistoryCap; i++ {
		avg.ValueHistory = append(avg.ValueHistory, initial*(1+(m.rand.Float64()*0.08-0.04)))
	}
	m.average = avg
}

func (m *Market) companyLocked(id string) (*Company, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, ErrUnknownCompany
	}
	return c, nil
}

// Balance returns the player's cash balance.
func (m *Market) Balance() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance
}

// debitLocked checks funds before applying; the balance can never go
// negative through it.
func (m *Market) debitLocked(amount float64) bool {
	if amount > m.balance {
		return false
	}
	m.balance -= amount
	return true
}

func (m *Market) creditLocked(amount float64) {
	m.balance += amount
}

// ToggleWatchlist adds or removes a company from the watchlist and
// reports whether it is now on it.
func (m *Market) ToggleWatchlist(companyID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.companyLocked(companyID); err != nil {
		return false, err
	}
	if m.watchlist[companyID] {
		delete(m.watchlist, companyID)
		return false, nil
	}
	m.watchlist[companyID] = true
	return true, nil
}

// SubscribeNews returns a channel that receives every news item pushed
// after the call, plus a cancel func. Slow consumers drop items rather
// than stalling the tick loop.
func (m *Market) SubscribeNews() (<-chan NewsItem, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	ch := make(chan NewsItem, 32)
	m.subscribers[id] = ch
	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if c, ok := m.subscribers[id]; ok {
			delete(m.subscribers, id)
			close(c)
		}
	}
	return ch, cancel
}

func (m *Market) pushNewsLocked(item NewsItem) {
	item.ID = uuid.NewString()
	item.Tick = m.tickCount
	m.news = append([]NewsItem{item}, m.news...)
	if len(m.news) > m.cfg.NewsCap {
		m.news = m.news[:m.cfg.NewsCap]
	}
	for _, ch := range m.subscribers {
		select {
		case ch <- item:
		default:
		}
	}
}

// News returns the bounded feed, newest first.
func (m *Market) News() []NewsItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]NewsItem, len(m.news))
	copy(out, m.news)
	return out
}

// RefTarget names a company whose external reference series is stale.
type RefTarget struct {
	CompanyID string
	Ticker    string
}

// StaleReferences lists companies whose reference series is older than
// maxAge (or missing). Used by the refdata fetcher.
func (m *Market) StaleReferences(maxAge time.Duration) []RefTarget {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []RefTarget
	now := time.Now()
	for _, c := range m.companies {
		if c.RefFetchedAt.IsZero() || now.Sub(c.RefFetchedAt) > maxAge {
			out = append(out, RefTarget{CompanyID: c.ID, Ticker: c.RefTicker})
		}
	}
	return out
}

// SetReferenceSeries stores a fetched (or synthesized) chart-seed
// series. It touches nothing the tick engine reads.
func (m *Market) SetReferenceSeries(companyID string, series []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[companyID]
	if !ok {
		return
	}
	c.ReferenceSeries = series
	c.RefFetchedAt = time.Now()
}
