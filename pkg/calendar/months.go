package calendar

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/agentstation/amjd/pkg/errors"
)

var westernMonths = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7, "aug": 8,
	"sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

// monthNames maps lower-cased month names to month numbers per system.
var monthNames = map[System]map[string]int{
	Gregorian: westernMonths,
	Julian:    westernMonths,
	Islamic: {
		"muharram": 1, "safar": 2,
		"rabi al-awwal": 3, "rabi al awwal": 3, "rabi i": 3,
		"rabi al-thani": 4, "rabi al thani": 4, "rabi ii": 4,
		"jumada al-awwal": 5, "jumada al awwal": 5, "jumada i": 5,
		"jumada al-thani": 6, "jumada al thani": 6, "jumada ii": 6,
		"rajab": 7, "shaban": 8, "sha'ban": 8, "ramadan": 9, "shawwal": 10,
		"dhu al-qadah": 11, "dhu al qadah": 11,
		"dhu al-hijjah": 12, "dhu al hijjah": 12,
	},
	Persian: {
		"farvardin": 1, "ordibehesht": 2, "khordad": 3, "tir": 4, "mordad": 5, "shahrivar": 6,
		"mehr": 7, "aban": 8, "azar": 9, "dey": 10, "bahman": 11, "esfand": 12,
	},
	FrenchRev: {
		"vendemiaire": 1, "brumaire": 2, "frimaire": 3, "nivose": 4, "pluviose": 5, "ventose": 6,
		"germinal": 7, "floreal": 8, "prairial": 9, "messidor": 10, "thermidor": 11, "fructidor": 12,
	},
	Coptic: {
		"thout": 1, "paopi": 2, "hathor": 3, "koiak": 4, "tobi": 5, "meshir": 6, "pamenot": 7,
		"parmouti": 8, "pashons": 9, "paoni": 10, "epip": 11, "mesori": 12, "nasie": 13,
	},
	Ethiopian: {
		"meskerem": 1, "tikimt": 2, "hidar": 3, "tahsas": 4, "tir": 5, "yekatit": 6, "megabit": 7,
		"miyazya": 8, "genbot": 9, "sene": 10, "hamle": 11, "nehase": 12, "pagume": 13,
	},
}

var (
	isoLike    = regexp.MustCompile(`^([+-]?\d{1,6})-(\d{1,2})-(\d{1,2}(?:\.\d+)?)$`)
	tokenSplit = regexp.MustCompile(`[\s/,]+`)
)

// fold lower-cases for lookup. A Caser keeps state, so one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// MonthNumber looks up a month name for the system, ignoring case.
func MonthNumber(system System, name string) (int, bool) {
	names, ok := monthNames[system]
	if !ok {
		return 0, false
	}
	n, ok := names[fold(strings.TrimSpace(name))]
	return n, ok
}

// ParseTextDate reads a date typed by a person: ISO-like "2025-10-09",
// "14 rajab 1447" or "rajab 14 1447". Month names are looked up in the
// system's table. The day may carry a fraction in the ISO form.
func ParseTextDate(system System, text string) (year, month int, day float64, err error) {
	s := fold(strings.TrimSpace(normalizeMinus(text)))

	if m := isoLike.FindStringSubmatch(s); m != nil {
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.ParseFloat(m[3], 64)
		return year, month, day, nil
	}

	parts := tokenSplit.Split(s, -1)
	if len(parts) >= 3 {
		last := len(parts) - 1
		if y, yErr := strconv.Atoi(parts[last]); yErr == nil {
			// "14 nisan 3790"
			if d, dErr := strconv.Atoi(parts[0]); dErr == nil {
				if mo, ok := MonthNumber(system, strings.Join(parts[1:last], " ")); ok {
					return y, mo, float64(d), nil
				}
			}
			// "nisan 14 3790"
			if d, dErr := strconv.Atoi(parts[last-1]); dErr == nil {
				if mo, ok := MonthNumber(system, strings.Join(parts[:last-1], " ")); ok {
					return y, mo, float64(d), nil
				}
			}
		}
	}

	return 0, 0, 0, errors.NewDateParseError(text, "unrecognized date for calendar "+string(system))
}
