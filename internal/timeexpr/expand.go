// Package timeexpr rewrites symbolic time aliases in sensor templates into
// expressions the template renderer understands.
package timeexpr

import (
	"regexp"
	"strings"
)

// Alias substitutions, applied in order. Each pass runs on the output of the
// previous one, so _THIS_YEAR_ expands transitively down to now().
var aliases = []struct {
	token       string
	replacement string
}{
	{"_THIS_YEAR_", "_THIS_MONTH_.replace(month=1)"},
	{"_THIS_MONTH_", "_TODAY_.replace(day=1)"},
	{"_TODAY_", "_THIS_HOUR_.replace(hour=0)"},
	{"_THIS_HOUR_", "_THIS_MINUTE_.replace(minute=0)"},
	{"_THIS_MINUTE_", "_NOW_.replace(second=0)"},
	{"_NOW_", "now()"},
}

// nowChain matches a now() call optionally followed by .replace(field=int) calls.
var nowChain = regexp.MustCompile(`now\(\)(\.replace\([a-z]+=[0-9]+\))*`)

// Expand rewrites the time aliases in raw and wraps every now()-rooted moment
// expression in as_timestamp(...). Strings without aliases or now() calls pass
// through unchanged. Expand is run once per configured template at setup time.
func Expand(raw string) string {
	s := raw
	for _, a := range aliases {
		s = strings.ReplaceAll(s, a.token, a.replacement)
	}
	return nowChain.ReplaceAllString(s, "as_timestamp(${0})")
}
