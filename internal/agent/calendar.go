package agent

import "time"

// Holiday is a fixed calendar entry the code generator issues a gift code
// for. Key becomes part of the deterministic code text.
type Holiday struct {
	Key      string
	Name     string
	Month    time.Month
	Day      int
	Points   int
	Greeting string
}

var holidays = []Holiday{
	{Key: "NEWYEAR", Name: "New Year's Day", Month: time.January, Day: 1, Points: 888, Greeting: "Happy New Year! Redeem this code for bonus points."},
	{Key: "VALENTINE", Name: "Valentine's Day", Month: time.February, Day: 14, Points: 214, Greeting: "Happy Valentine's Day! A little gift for you."},
	{Key: "LABOR", Name: "Labor Day", Month: time.May, Day: 1, Points: 500, Greeting: "Happy Labor Day! Enjoy some well-earned points."},
	{Key: "CHILDREN", Name: "Children's Day", Month: time.June, Day: 1, Points: 600, Greeting: "Happy Children's Day! Points for the young at heart."},
	{Key: "NATIONAL", Name: "National Day", Month: time.October, Day: 1, Points: 1000, Greeting: "Happy National Day! Celebrate with bonus points."},
	{Key: "CHRISTMAS", Name: "Christmas Day", Month: time.December, Day: 25, Points: 1225, Greeting: "Merry Christmas! Unwrap your bonus points."},
}

// holidayOn returns the holiday falling on the given date, if any.
func holidayOn(t time.Time) (Holiday, bool) {
	for _, h := range holidays {
		if t.Month() == h.Month && t.Day() == h.Day {
			return h, true
		}
	}
	return Holiday{}, false
}
