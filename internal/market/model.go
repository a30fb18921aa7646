package market

import (
	"errors"
	"math"
	"time"
)

const (
	// priceFloor is the epsilon below which no price may ever fall.
	priceFloor = 0.01

	// maxTickDelta is the per-tick circuit breaker on a company's
	// fractional price move.
	maxTickDelta = 0.09

	// controlThreshold is the owned-share fraction above which the
	// player controls a company.
	controlThreshold = 0.51

	// betPayoutMultiplier is paid on a winning direction bet.
	betPayoutMultiplier = 1.8

	// betPressureNudge is the order-flow bump a placed bet applies.
	betPressureNudge = 0.05

	// pressureDecay shrinks buy/sell pressure every tick.
	pressureDecay = 0.995

	transactionCap = 100
	betHistoryCap  = 50
)

var (
	ErrUnknownCompany     = errors.New("unknown company id")
	ErrInvalidShares      = errors.New("share count must be a positive integer")
	ErrInvalidStake       = errors.New("stake must be > 0")
	ErrInvalidDirection   = errors.New("bet direction must be up or down")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrNotController      = errors.New("company is not player-controlled")
)

// Trend is a coarse direction indicator derived from a dead-zone
// threshold on a percent change.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Sector groups companies that share a correlated random trend range.
type Sector string

const (
	SectorTech       Sector = "technology"
	SectorFinance    Sector = "finance"
	SectorEnergy     Sector = "energy"
	SectorConsumer   Sector = "consumer"
	SectorHealthcare Sector = "healthcare"
)

// Company is the full mutable per-ticker state. It lives behind the
// market mutex; exported fields are copied into view structs for
// snapshots, never handed out directly.
type Company struct {
	ID          string
	Name        string
	Sector      Sector
	TotalShares int64

	BasePrice     float64
	CurrentPrice  float64
	PreviousPrice float64
	Volatility    float64
	Beta          float64
	PERatio       float64

	PriceHistory  []float64
	DayHigh       float64
	DayLow        float64
	WeekHigh      float64
	WeekLow       float64
	PercentChange float64
	Trending      Trend
	Volume        int64

	Owned        int64
	Transactions []Transaction
	CompanyOwned bool

	BuyPressure  float64
	SellPressure float64
	PriceTrend   float64

	// Betting snapshot state, written only at the resolver cadence.
	LastRecordedPrice float64
	PriceDirection    Trend
	PriceChangeTick   int64
	UpBets            int
	DownBets          int
	BetHistory        []Bet

	Events   EventCalendar
	Scripted []CompanyNews

	// Supplementary chart seed from the external fetcher; never read
	// by the tick engine.
	ReferenceSeries []float64
	RefTicker       string
	RefFetchedAt    time.Time

	lastEarningsDay int
	lastDividendDay int
}

// EventCalendar holds optional earnings and dividend schedules keyed to
// the simulated market calendar.
type EventCalendar struct {
	Earnings *EarningsEvent
	Dividend *DividendEvent
}

type EarningsEvent struct {
	Day    int
	Months []int
}

type DividendEvent struct {
	Day    int
	Months []int
	Amount float64
}

// CompanyNews is a scripted company-specific headline with a
// probabilistic acceptance gate and a fractional price impact.
type CompanyNews struct {
	Headline    string
	Impact      float64
	Probability float64
}

// Transaction is an entry in a company's bounded trade log.
type Transaction struct {
	Type   string    `json:"type"`
	Shares int64     `json:"shares"`
	Price  float64   `json:"price"`
	Total  float64   `json:"total"`
	Tick   int64     `json:"tick"`
	At     time.Time `json:"at"`
}

// Bet is an individual price-direction wager. Each bet is resolved
// independently against the next non-neutral snapshot.
type Bet struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"company_id"`
	Direction        Trend   `json:"direction"`
	Stake            float64 `json:"stake"`
	PriceAtPlacement float64 `json:"price_at_placement"`
	PlacedTick       int64   `json:"placed_tick"`
	Resolved         bool    `json:"resolved"`
	Won              bool    `json:"won"`
}

// Holding is one line of the player's per-company ledger with a
// volume-weighted average cost basis.
type Holding struct {
	CompanyID     string  `json:"company_id"`
	Shares        int64   `json:"shares"`
	AveragePrice  float64 `json:"average_price"`
	TotalInvested float64 `json:"total_invested"`
}

// Index is a composite of constituent companies scaled against a base
// value.
type Index struct {
	ID            string
	Name          string
	Constituents  []string
	BaseValue     float64
	CurrentValue  float64
	PreviousValue float64
	ValueHistory  []float64
	PercentChange float64
	Trending      Trend
}

// Average is the market-cap-weighted composite across all companies
// (the "NOW Average").
type Average struct {
	CurrentValue  float64
	PreviousValue float64
	ValueHistory  []float64
	PercentChange float64
	Trending      Trend
	Description   string
}

// NewsItem is one entry in the bounded market news feed.
type NewsItem struct {
	ID        string `json:"id"`
	Headline  string `json:"headline"`
	Content   string `json:"content"`
	Impact    string `json:"impact"`
	Tick      int64  `json:"tick"`
	Sector    Sector `json:"sector,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
	Personal  bool   `json:"personal,omitempty"`
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func trendFromDelta(delta, deadZone float64) Trend {
	switch {
	case delta > deadZone:
		return TrendUp
	case delta < -deadZone:
		return TrendDown
	default:
		return TrendNeutral
	}
}

// valuationMultiplier derives an earnings-sensitivity factor from a
// price/earnings ratio. Richly valued companies swing harder on
// results; companies without a P/E get the neutral factor.
func valuationMultiplier(pe float64) float64 {
	if pe <= 0 {
		return 1.0
	}
	return clamp(pe/20, 0.5, 2.0)
}

func boundHistory(h []float64, limit int) []float64 {
	if len(h) <= limit {
		return h
	}
	return h[len(h)-limit:]
}

func isFiniteDelta(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
