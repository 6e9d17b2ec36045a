package rates

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ─── Holiday calendar ───────────────────────────────────────

// HolidayCalendar answers whether a pickup date is a surcharge holiday.
// The engine consumes this as injected collaborator data — holiday rules are
// never hard-coded into the pipeline itself.
type HolidayCalendar interface {
	// Holiday returns the holiday name for t's calendar date, if any.
	Holiday(t time.Time) (string, bool)
}

// HolidayDef is one calendar entry. Fixed-date holidays set Month/Day;
// floating holidays name a Rule instead. The only recognized rule today is
// "fourth-thursday-november" (Thanksgiving).
type HolidayDef struct {
	Name  string `mapstructure:"name"`
	Month int    `mapstructure:"month"`
	Day   int    `mapstructure:"day"`
	Rule  string `mapstructure:"rule"`
}

// Calendar is the standard HolidayCalendar implementation: a small list of
// defs checked against the pickup date.
type Calendar struct {
	defs []HolidayDef
}

// NewCalendar builds a calendar from explicit defs.
func NewCalendar(defs []HolidayDef) *Calendar {
	return &Calendar{defs: defs}
}

// DefaultCalendar returns the built-in surcharge holidays.
func DefaultCalendar() *Calendar {
	return NewCalendar([]HolidayDef{
		{Name: "New Year's Day", Month: 1, Day: 1},
		{Name: "Independence Day", Month: 7, Day: 4},
		{Name: "Thanksgiving", Rule: "fourth-thursday-november"},
		{Name: "Christmas Eve", Month: 12, Day: 24},
		{Name: "Christmas Day", Month: 12, Day: 25},
		{Name: "New Year's Eve", Month: 12, Day: 31},
	})
}

// LoadCalendar reads a holiday calendar from a YAML file:
//
//	holidays:
//	  - name: New Year's Day
//	    month: 1
//	    day: 1
//	  - name: Thanksgiving
//	    rule: fourth-thursday-november
//
// The file fully replaces the built-in defaults, so operators can trim the
// list as well as extend it.
func LoadCalendar(path string) (*Calendar, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("holidays: read %s: %w", path, err)
	}

	var defs []HolidayDef
	if err := v.UnmarshalKey("holidays", &defs); err != nil {
		return nil, fmt.Errorf("holidays: parse %s: %w", path, err)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("holidays: %s contains no holiday entries", path)
	}

	for _, d := range defs {
		if d.Rule == "" && (d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31) {
			return nil, fmt.Errorf("holidays: %q has no valid date or rule", d.Name)
		}
		if d.Rule != "" && d.Rule != "fourth-thursday-november" {
			return nil, fmt.Errorf("holidays: %q uses unknown rule %q", d.Name, d.Rule)
		}
	}

	log.Printf("[rates] Loaded %d holidays from %s", len(defs), path)
	return NewCalendar(defs), nil
}

// Holiday implements HolidayCalendar. Comparison is by calendar date in t's
// own location.
func (c *Calendar) Holiday(t time.Time) (string, bool) {
	for _, d := range c.defs {
		if d.Rule != "" {
			if strings.EqualFold(d.Rule, "fourth-thursday-november") && isFourthThursdayOfNovember(t) {
				return d.Name, true
			}
			continue
		}
		if int(t.Month()) == d.Month && t.Day() == d.Day {
			return d.Name, true
		}
	}
	return "", false
}

// isFourthThursdayOfNovember reports whether t is Thanksgiving.
func isFourthThursdayOfNovember(t time.Time) bool {
	if t.Month() != time.November || t.Weekday() != time.Thursday {
		return false
	}
	// The fourth Thursday falls on days 22-28.
	return t.Day() >= 22 && t.Day() <= 28
}
