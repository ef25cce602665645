package card

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

var dateLayouts = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, "1/2/2006"},
	{language.BritishEnglish, "02/01/2006"},
	{language.German, "2.1.2006"},
	{language.French, "02/01/2006"},
	{language.Spanish, "2/1/2006"},
	{language.Italian, "2/1/2006"},
	{language.Dutch, "2-1-2006"},
	{language.BrazilianPortuguese, "02/01/2006"},
	{language.Swedish, "2006-01-02"},
	{language.Polish, "2.01.2006"},
	{language.Japanese, "2006/1/2"},
	{language.Chinese, "2006/1/2"},
	{language.Korean, "2006. 1. 2."},
}

var dateMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(dateLayouts))
	for i, l := range dateLayouts {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

var inputLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{time.DateOnly, false},
}

// DateFormatter renders a post's raw publication date the way the reader's
// locale writes short dates.
type DateFormatter struct {
	Layout   string
	Location *time.Location
}

func DefaultDateFormatter() DateFormatter {
	return NewDateFormatter(language.AmericanEnglish, time.Local)
}

// NewDateFormatter picks the closest known short-date layout for tag.
// Unknown locales fall back to US English.
func NewDateFormatter(tag language.Tag, loc *time.Location) DateFormatter {
	_, idx, conf := dateMatcher.Match(tag)
	if conf == language.No {
		idx = 0
	}
	if loc == nil {
		loc = time.Local
	}
	return DateFormatter{Layout: dateLayouts[idx].layout, Location: loc}
}

func (f DateFormatter) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

// Parse reads raw with zone-less datetimes taken as wall time in the
// formatter's location.
func (f DateFormatter) Parse(raw string) (time.Time, bool) {
	return ParseDateIn(raw, f.location())
}

// Format returns "" for a missing or unparsable date.
func (f DateFormatter) Format(raw string) string {
	t, ok := f.Parse(raw)
	if !ok {
		return ""
	}
	loc := f.location()
	layout := f.Layout
	if layout == "" {
		layout = dateLayouts[0].layout
	}
	return t.In(loc).Format(layout)
}

// ParseDate accepts the date shapes the content store emits, reading
// zone-less datetimes as local time.
func ParseDate(raw string) (time.Time, bool) {
	return ParseDateIn(raw, time.Local)
}

// ParseDateIn is ParseDate with zone-less datetimes read in loc. Offsets in
// raw win, and a bare date is midnight UTC.
func ParseDateIn(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, in := range inputLayouts {
		var (
			t   time.Time
			err error
		)
		if in.local {
			t, err = time.ParseInLocation(in.layout, raw, loc)
		} else {
			t, err = time.Parse(in.layout, raw)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
