package market

// Clock is the simulated market calendar. One tick advances one
// simulated minute. Trading runs 09:30-16:00; outside that window the
// clock keeps rolling until it crosses midnight and reopens the next
// day at 09:30.
type Clock struct {
	Day    int  `json:"day"`
	Hour   int  `json:"hour"`
	Minute int  `json:"minute"`
	Open   bool `json:"open"`
}

func newClock() Clock {
	return Clock{Day: 1, Hour: 9, Minute: 30, Open: true}
}

func (c *Clock) advance() {
	c.Minute++
	if c.Minute >= 60 {
		c.Minute = 0
		c.Hour++
	}
	if c.Hour >= 24 {
		c.Hour = 9
		c.Minute = 30
		c.Day++
		c.Open = true
		return
	}
	c.Open = !c.beforeOpen() && c.Hour < 16
}

func (c *Clock) beforeOpen() bool {
	return c.Hour < 9 || (c.Hour == 9 && c.Minute < 30)
}

// calendarDate folds the running day counter into a 30-day-month,
// 12-month simulated calendar for the earnings/dividend schedule.
func (c Clock) calendarDate() (month, dayOfMonth int) {
	month = ((c.Day-1)/30)%12 + 1
	dayOfMonth = (c.Day-1)%30 + 1
	return month, dayOfMonth
}
