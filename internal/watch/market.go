package watch

import (
	"fmt"
	"time"
)

// MarketSchedule is the regular session in US Eastern Time
type MarketSchedule struct {
	OpenHour  int
	OpenMin   int
	CloseHour int
	CloseMin  int
}

// DefaultMarketSchedule is the NYSE/NASDAQ regular session
func DefaultMarketSchedule() MarketSchedule {
	return MarketSchedule{
		OpenHour:  9,
		OpenMin:   30,
		CloseHour: 16,
		CloseMin:  0,
	}
}

// MarketStatus describes the session at a point in time
type MarketStatus struct {
	IsOpen        bool
	CurrentTimeET time.Time
	TimeToOpen    time.Duration
	TimeToClose   time.Duration
	Reason        string // open, weekend, holiday, pre-market, after-hours
}

// ETLocation returns US Eastern Time, falling back to a fixed EST zone
func ETLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// Status reports the market session at now
func (s MarketSchedule) Status(now time.Time) MarketStatus {
	loc := ETLocation()
	now = now.In(loc)
	status := MarketStatus{CurrentTimeET: now}

	if !isTradingDay(now) {
		status.Reason = "weekend"
		if IsUSHoliday(now) {
			status.Reason = "holiday"
		}
		status.TimeToOpen = s.nextOpen(now).Sub(now)
		return status
	}

	open := s.openAt(now)
	closeAt := time.Date(now.Year(), now.Month(), now.Day(), s.CloseHour, s.CloseMin, 0, 0, loc)

	switch {
	case now.Before(open):
		status.Reason = "pre-market"
		status.TimeToOpen = open.Sub(now)
	case !now.Before(closeAt):
		status.Reason = "after-hours"
		status.TimeToOpen = s.nextOpen(now).Sub(now)
	default:
		status.IsOpen = true
		status.Reason = "open"
		status.TimeToClose = closeAt.Sub(now)
	}
	return status
}

func (s MarketSchedule) openAt(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), s.OpenHour, s.OpenMin, 0, 0, day.Location())
}

// nextOpen is the opening bell of the next trading day after now's date
func (s MarketSchedule) nextOpen(now time.Time) time.Time {
	day := now.AddDate(0, 0, 1)
	for !isTradingDay(day) {
		day = day.AddDate(0, 0, 1)
	}
	return s.openAt(day)
}

func isTradingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday && !IsUSHoliday(t)
}

// FormatDuration renders a wait such as "2h 5m"
func FormatDuration(d time.Duration) string {
	if d < 0 {
		return "0s"
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// IsUSHoliday reports whether t's calendar date is a full-day NYSE holiday
func IsUSHoliday(t time.Time) bool {
	y, m, d := t.Date()
	for _, h := range NYSEHolidays(y) {
		if h.Month() == m && h.Day() == d {
			return true
		}
	}
	return false
}

// NYSEHolidays returns the full-day market holidays for a year, as observed.
// Fixed-date holidays on a Saturday move to Friday and on a Sunday to
// Monday, except New Year's Day which is not made up on the prior Friday.
func NYSEHolidays(year int) []time.Time {
	date := func(m time.Month, d int) time.Time {
		return time.Date(year, m, d, 0, 0, 0, 0, time.UTC)
	}

	var days []time.Time
	if newYear := date(time.January, 1); newYear.Weekday() != time.Saturday {
		days = append(days, observed(newYear))
	}
	days = append(days,
		nthWeekday(year, time.January, time.Monday, 3),  // MLK Day
		nthWeekday(year, time.February, time.Monday, 3), // Presidents Day
		easter(year).AddDate(0, 0, -2),                  // Good Friday
		lastWeekday(year, time.May, time.Monday),        // Memorial Day
	)
	if year >= 2022 {
		days = append(days, observed(date(time.June, 19))) // Juneteenth
	}
	days = append(days,
		observed(date(time.July, 4)),
		nthWeekday(year, time.September, time.Monday, 1),  // Labor Day
		nthWeekday(year, time.November, time.Thursday, 4), // Thanksgiving
		observed(date(time.December, 25)),
	)
	return days
}

func observed(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, -1)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	}
	return t
}

func nthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(wd) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset+7*(n-1))
}

func lastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	t := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	offset := (int(t.Weekday()) - int(wd) + 7) % 7
	return t.AddDate(0, 0, -offset)
}

// easter returns Easter Sunday (anonymous Gregorian algorithm)
func easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
