package market

// Static market catalog: sector trend ranges, market-wide sentiment
// range, company definitions, indices, scripted news, and the actions
// available to a controlling shareholder. Everything here is read-only
// after process start; per-session state is built from it in New.

type valueRange struct {
	Min float64
	Max float64
}

var marketSentimentRange = valueRange{Min: -0.016, Max: 0.018}

// sectorOrder fixes iteration order so a seeded run is reproducible.
var sectorOrder = []Sector{
	SectorTech,
	SectorFinance,
	SectorEnergy,
	SectorConsumer,
	SectorHealthcare,
}

var sectorTrendRanges = map[Sector]valueRange{
	SectorTech:       {Min: -0.012, Max: 0.016},
	SectorFinance:    {Min: -0.009, Max: 0.010},
	SectorEnergy:     {Min: -0.014, Max: 0.014},
	SectorConsumer:   {Min: -0.007, Max: 0.008},
	SectorHealthcare: {Min: -0.008, Max: 0.011},
}

type companyDef struct {
	ID          string
	Name        string
	Sector      Sector
	BasePrice   float64
	Volatility  float64
	Beta        float64
	PERatio     float64
	TotalShares int64
	RefTicker   string
	Events      EventCalendar
	Scripted    []CompanyNews
}

var companyDefs = []companyDef{
	{
		ID: "NOVA", Name: "Novatek Systems", Sector: SectorTech,
		BasePrice: 187.50, Volatility: 0.022, Beta: 1.45, PERatio: 38,
		TotalShares: 120_000_000, RefTicker: "NVDA",
		Events: EventCalendar{
			Earnings: &EarningsEvent{Day: 18, Months: []int{2, 5, 8, 11}},
		},
		Scripted: []CompanyNews{
			{Headline: "Novatek unveils next-gen accelerator chip", Impact: 0.035, Probability: 0.55},
			{Headline: "Novatek fab hit by supply shortage", Impact: -0.028, Probability: 0.45},
		},
	},
	{
		ID: "BYTE", Name: "ByteWorks Software", Sector: SectorTech,
		BasePrice: 94.20, Volatility: 0.018, Beta: 1.20, PERatio: 29,
		TotalShares: 250_000_000, RefTicker: "MSFT",
		Events: EventCalendar{
			Earnings: &EarningsEvent{Day: 24, Months: []int{1, 4, 7, 10}},
			Dividend: &DividendEvent{Day: 10, Months: []int{3, 6, 9, 12}, Amount: 0.68},
		},
		Scripted: []CompanyNews{
			{Headline: "ByteWorks lands major cloud contract", Impact: 0.026, Probability: 0.6},
			{Headline: "ByteWorks patches critical security flaw", Impact: -0.015, Probability: 0.5},
		},
	},
	{
		ID: "QNTM", Name: "Quantum Dynamics", Sector: SectorTech,
		BasePrice: 42.75, Volatility: 0.031, Beta: 1.80, PERatio: 0,
		TotalShares: 60_000_000, RefTicker: "IONQ",
		Events: EventCalendar{
			Earnings: &EarningsEvent{Day: 6, Months: []int{3, 6, 9, 12}},
		},
		Scripted: []CompanyNews{
			{Headline: "Quantum Dynamics demos 1,000-qubit prototype", Impact: 0.08, Probability: 0.3},
			{Headline: "Quantum Dynamics research lead departs", Impact: -0.05, Probability: 0.35},
		},
	},
	{
		ID: "FNCL", Name: "First National Capital", Sector: SectorFinance,
		BasePrice: 68.90, Volatility: 0.011, Beta: 0.95, PERatio: 12,
		TotalShares: 400_000_000, RefTicker: "JPM",
		Events: EventCalendar{
			Earnings: &EarningsEvent{Day: 14, Months: []int{1, 4, 7, 10}},
			Dividend: &DividendEvent{Day: 28, Months: []int{1, 4, 7, 10}, Amount: 1.05},
		},
		Scripted: []CompanyNews{
			{Headline: "First National raises loan-loss provisions", Impact: -0.02, Probability: 0.4},
			{Headline: "First National announces share buyback", Impact: 0.022, Probability: 0.5},
		},
	},
	{
		ID: "SLVR", Name: "Silverline Insurance", Sector: SectorFinance,
		BasePrice: 112.40, Volatility: 0.009, Beta: 0.70, PERatio: 15,
		TotalShares: 180_000_000, RefTicker: "AIG",
		Events: EventCalendar{
			Earnings: &EarningsEvent{Day: 9, Months: []int{2, 5, 8, 11}},
			Dividend: &DividendEvent{Day: 20, Months: []int{3, 6, 9, 12}, Amount: 1.40},
		},
		Scripted: []CompanyNews{
			{Headline: "Silverline settles class-action suit", Impact: -0.018, Probability: 0.4},
			{Headline: "Silverline expands into commercial lines", Impact: 0.014, Probability: 0.55},
		},
	},
	{
		ID: "PETRO", Name: "Petrova Energy", Sector: SectorEnergy,
		BasePrice: 55.30, Volatility: 0.017, Beta: 1.10, PERatio: 9,
		TotalShares: 500_000_000, RefTicker: "XOM",
		Events: EventCalendar{
			Earnings: &EarningsEvent{Day: 27, Months: []int{2, 5, 8, 11}},
			Dividend: &DividendEvent{Day: 15, Months: []int{1, 4, 7, 10}, Amount: 0.91},
		},
		Scripted: []CompanyNews{
			{Headline: "Petrova strikes new offshore field", Impact: 0.04, Probability: 0.35},
			{Headline: "Petrova refinery outage extends", Impact: -0.03, Probability: 0.4},
		},
	},
	{
		ID: "VOLT", Name: "Voltaic Grid", Sector: SectorEnergy,
		BasePrice: 31.85, Volatility: 0.024, Beta: 1.35, PERatio: 52,
		TotalShares: 90_000_000, RefTicker: "ENPH",
		Events: EventCalendar{
			Earnings: &EarningsEvent{Day: 4, Months: []int{2, 5, 8, 11}},
		},
		Scripted: []CompanyNews{
			{Headline: "Voltaic wins national storage tender", Impact: 0.05, Probability: 0.4},
			{Headline: "Voltaic subsidy program under review", Impact: -0.035, Probability: 0.45},
		},
	},
	{
		ID: "MEGA", Name: "MegaMart Retail", Sector: SectorConsumer,
		BasePrice: 149.60, Volatility: 0.008, Beta: 0.65, PERatio: 24,
		TotalShares: 350_000_000, RefTicker: "WMT",
		Events: EventCalendar{
			Earnings: &EarningsEvent{Day: 21, Months: []int{3, 6, 9, 12}},
			Dividend: &DividendEvent{Day: 5, Months: []int{2, 5, 8, 11}, Amount: 0.57},
		},
		Scripted: []CompanyNews{
			{Headline: "MegaMart holiday sales beat forecasts", Impact: 0.02, Probability: 0.5},
			{Headline: "MegaMart warehouse workers strike", Impact: -0.022, Probability: 0.35},
		},
	},
	{
		ID: "FZZY", Name: "Fizzy Beverages", Sector: SectorConsumer,
		BasePrice: 76.10, Volatility: 0.007, Beta: 0.55, PERatio: 21,
		TotalShares: 300_000_000, RefTicker: "KO",
		Events: EventCalendar{
			Earnings: &EarningsEvent{Day: 12, Months: []int{1, 4, 7, 10}},
			Dividend: &DividendEvent{Day: 26, Months: []int{3, 6, 9, 12}, Amount: 0.49},
		},
		Scripted: []CompanyNews{
			{Headline: "Fizzy launches zero-sugar line", Impact: 0.016, Probability: 0.6},
			{Headline: "Fizzy recalls batch over labeling error", Impact: -0.012, Probability: 0.3},
		},
	},
	{
		ID: "GENO", Name: "Genomix Therapeutics", Sector: SectorHealthcare,
		BasePrice: 213.25, Volatility: 0.026, Beta: 1.25, PERatio: 45,
		TotalShares: 70_000_000, RefTicker: "VRTX",
		Events: EventCalendar{
			Earnings: &EarningsEvent{Day: 16, Months: []int{2, 5, 8, 11}},
		},
		Scripted: []CompanyNews{
			{Headline: "Genomix trial clears phase three", Impact: 0.09, Probability: 0.25},
			{Headline: "Genomix drug faces regulator questions", Impact: -0.06, Probability: 0.3},
		},
	},
}

type indexDef struct {
	ID           string
	Name         string
	BaseValue    float64
	Constituents []string
}

var indexDefs = []indexDef{
	{
		ID: "NOWC", Name: "NOW Composite", BaseValue: 4200,
		Constituents: []string{"NOVA", "BYTE", "QNTM", "FNCL", "SLVR", "PETRO", "VOLT", "MEGA", "FZZY", "GENO"},
	},
	{
		ID: "NOWT", Name: "NOW Tech 3", BaseValue: 1850,
		Constituents: []string{"NOVA", "BYTE", "QNTM"},
	},
	{
		ID: "NOWD", Name: "NOW Dividend", BaseValue: 990,
		Constituents: []string{"BYTE", "FNCL", "SLVR", "PETRO", "MEGA", "FZZY"},
	},
}

type marketNewsEvent struct {
	Headline  string
	Sectors   []Sector
	Impact    string // positive, negative, or mixed
	Magnitude float64
}

var marketNewsEvents = []marketNewsEvent{
	{
		Headline:  "Central bank signals rate cut",
		Sectors:   []Sector{SectorFinance, SectorConsumer},
		Impact:    "positive",
		Magnitude: 0.015,
	},
	{
		Headline:  "Inflation print comes in hot",
		Sectors:   []Sector{SectorFinance, SectorConsumer, SectorTech},
		Impact:    "negative",
		Magnitude: 0.018,
	},
	{
		Headline:  "Breakthrough in battery chemistry announced",
		Sectors:   []Sector{SectorEnergy, SectorTech},
		Impact:    "positive",
		Magnitude: 0.02,
	},
	{
		Headline:  "Oil supply disruption in major producing region",
		Sectors:   []Sector{SectorEnergy},
		Impact:    "mixed",
		Magnitude: 0.025,
	},
	{
		Headline:  "New data privacy regulation passes",
		Sectors:   []Sector{SectorTech},
		Impact:    "negative",
		Magnitude: 0.016,
	},
	{
		Headline:  "Landmark drug pricing agreement reached",
		Sectors:   []Sector{SectorHealthcare},
		Impact:    "mixed",
		Magnitude: 0.02,
	},
	{
		Headline:  "Consumer confidence hits multi-year high",
		Sectors:   []Sector{SectorConsumer, SectorFinance},
		Impact:    "positive",
		Magnitude: 0.012,
	},
}

// companyAction is a move available to a controlling shareholder.
type companyAction struct {
	Action      string
	Description string
	Impact      float64
}

var companyActions = []companyAction{
	{
		Action:      "announces a share buyback program",
		Description: "The board approved repurchasing outstanding shares.",
		Impact:      0.03,
	},
	{
		Action:      "launches a flagship product",
		Description: "A new flagship product line was revealed to strong reviews.",
		Impact:      0.045,
	},
	{
		Action:      "restructures management",
		Description: "Several executives were replaced in a shake-up.",
		Impact:      -0.02,
	},
	{
		Action:      "issues new shares to fund expansion",
		Description: "A secondary offering dilutes existing shareholders.",
		Impact:      -0.03,
	},
	{
		Action:      "announces a special dividend",
		Description: "A one-time payout was declared for shareholders.",
		Impact:      0.025,
	},
}

// statusMessage maps the NOW Average percent change onto the ticker-tape
// description shown in the snapshot.
func statusMessage(changePct float64) string {
	switch {
	case changePct > 2.0:
		return "Markets surging: broad strong rally underway"
	case changePct > 0.8:
		return "Markets rallying: buyers firmly in control"
	case changePct > 0.08:
		return "Markets edging higher in quiet trade"
	case changePct < -2.0:
		return "Markets plunging: heavy selling across the board"
	case changePct < -0.8:
		return "Markets selling off: risk appetite fading"
	case changePct < -0.08:
		return "Markets drifting lower in quiet trade"
	default:
		return "Markets flat: little conviction either way"
	}
}

// moodLabel maps the slow-moving market mood onto a trend label.
func moodLabel(mood float64) string {
	switch {
	case mood > 3:
		return "bullish"
	case mood > 1:
		return "positive"
	case mood < -3:
		return "bearish"
	case mood < -1:
		return "negative"
	default:
		return "neutral"
	}
}
