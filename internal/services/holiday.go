package services

import (
	"time"

	"github.com/6tail/lunar-go/HolidayUtil"
	"github.com/6tail/lunar-go/calendar"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/au"
	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/jp"
	"github.com/rickar/cal/v2/us"
)

// HolidayService answers whether a date is a working day in an account's
// country. Used by the planner for accounts that only deploy on workdays.
// China needs special handling: statutory holidays and make-up workdays
// come from the lunar calendar tables.
type HolidayService struct {
	calendars map[string]*cal.BusinessCalendar
}

func NewHolidayService() *HolidayService {
	s := &HolidayService{
		calendars: make(map[string]*cal.BusinessCalendar),
	}
	s.addCalendar("US", "United States", us.Holidays)
	s.addCalendar("GB", "United Kingdom", gb.Holidays)
	s.addCalendar("DE", "Germany", de.Holidays)
	s.addCalendar("FR", "France", fr.Holidays)
	s.addCalendar("JP", "Japan", jp.Holidays)
	s.addCalendar("CA", "Canada", ca.Holidays)
	s.addCalendar("AU", "Australia", au.HolidaysNSW)
	return s
}

func (s *HolidayService) addCalendar(code, name string, holidays []*cal.Holiday) {
	c := cal.NewBusinessCalendar()
	c.Name = name
	c.AddHoliday(holidays...)
	s.calendars[code] = c
}

// IsWorkday reports whether t is a working day for the given country code.
// Unknown codes and "NONE" fall back to a plain weekday check.
func (s *HolidayService) IsWorkday(t time.Time, countryCode string) bool {
	if countryCode == "CN" {
		return s.isWorkdayChina(t)
	}

	c, ok := s.calendars[countryCode]
	if !ok {
		return !cal.IsWeekend(t)
	}
	return c.IsWorkday(t)
}

func (s *HolidayService) isWorkdayChina(t time.Time) bool {
	solar := calendar.NewSolarFromDate(t)
	holiday := HolidayUtil.GetHolidayByYmd(solar.GetYear(), solar.GetMonth(), solar.GetDay())
	if holiday != nil {
		return holiday.IsWork()
	}

	weekday := t.Weekday()
	return weekday != time.Saturday && weekday != time.Sunday
}
