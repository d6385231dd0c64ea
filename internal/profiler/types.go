package profiler

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cleansight/cleansight/pkg/models"
)

// typeAcceptRatio is the share of non-missing values that must parse for a
// type hypothesis to be accepted.
const typeAcceptRatio = 0.90

var (
	integerPattern = regexp.MustCompile(`^[+-]?\d+$`)
	emailPattern   = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	phoneStrip     = regexp.MustCompile(`[\s().\-]`)
	phoneDigits    = regexp.MustCompile(`^\+?\d{7,15}$`)
	currencyPrefix = regexp.MustCompile(`^[$€£¥]\s?-?[\d,]+(\.\d+)?$`)
	currencySuffix = regexp.MustCompile(`^-?[\d,]+(\.\d+)?\s?(USD|EUR|GBP|[$€£¥])$`)
)

// dateLayouts is the fixed list of date patterns tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"Jan 2, 2006",
	"2 Jan 2006",
}

var booleanTokens = map[string]bool{
	"true": true, "false": true,
	"yes": true, "no": true,
	"t": true, "f": true,
	"y": true, "n": true,
}

// hypothesis is one entry of the ordered type-inference table: a tagged
// predicate evaluated per value. Earlier entries are more specific and win
// ties by position.
type hypothesis struct {
	columnType models.ColumnType
	parses     func(string) bool
}

// hypotheses is the fixed priority order: integer, float, boolean, date,
// email, phone, currency. Categorical and free_text are cardinality-based
// fallbacks handled after the parse table.
var hypotheses = []hypothesis{
	{models.TypeInteger, parsesInteger},
	{models.TypeFloat, parsesFloat},
	{models.TypeBoolean, parsesBoolean},
	{models.TypeDate, parsesDate},
	{models.TypeEmail, parsesEmail},
	{models.TypePhone, parsesPhone},
	{models.TypeCurrency, parsesCurrency},
}

func parsesInteger(s string) bool {
	return integerPattern.MatchString(s)
}

func parsesFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func parsesBoolean(s string) bool {
	return booleanTokens[strings.ToLower(s)]
}

func parsesDate(s string) bool {
	_, ok := parseDate(s)
	return ok
}

func parsesEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// parsesPhone is a country-agnostic heuristic: strip separators, require
// 7-15 digits with an optional leading plus.
func parsesPhone(s string) bool {
	stripped := phoneStrip.ReplaceAllString(s, "")
	return phoneDigits.MatchString(stripped)
}

func parsesCurrency(s string) bool {
	return currencyPrefix.MatchString(s) || currencySuffix.MatchString(s)
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// Parses reports whether a value parses under the given inferred type.
// Categorical and free_text accept everything: they are shape-free fallbacks.
func Parses(t models.ColumnType, s string) bool {
	switch t {
	case models.TypeInteger:
		return parsesInteger(s)
	case models.TypeFloat:
		return parsesFloat(s)
	case models.TypeBoolean:
		return parsesBoolean(s)
	case models.TypeDate:
		return parsesDate(s)
	case models.TypeEmail:
		return parsesEmail(s)
	case models.TypePhone:
		return parsesPhone(s)
	case models.TypeCurrency:
		return parsesCurrency(s)
	}
	return true
}

// NumericValue extracts the numeric interpretation of a cell for numeric
// column types. Currency symbols and thousands separators are stripped.
func NumericValue(t models.ColumnType, s string) (float64, bool) {
	switch t {
	case models.TypeInteger, models.TypeFloat:
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	case models.TypeCurrency:
		cleaned := strings.NewReplacer("$", "", "€", "", "£", "", "¥", "",
			",", "", " ", "", "USD", "", "EUR", "", "GBP", "").Replace(s)
		v, err := strconv.ParseFloat(cleaned, 64)
		return v, err == nil
	}
	return 0, false
}

// CanonicalValue rewrites a parseable value into the canonical string form of
// its type. Used by the cast_type cleaning operation.
func CanonicalValue(t models.ColumnType, s string) (string, bool) {
	switch t {
	case models.TypeInteger:
		if !parsesInteger(s) {
			return "", false
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return "", false
		}
		return strconv.FormatInt(v, 10), true
	case models.TypeFloat, models.TypeCurrency:
		v, ok := NumericValue(t, s)
		if !ok {
			return "", false
		}
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case models.TypeBoolean:
		switch strings.ToLower(s) {
		case "true", "yes", "t", "y":
			return "true", true
		case "false", "no", "f", "n":
			return "false", true
		}
		return "", false
	case models.TypeDate:
		d, ok := parseDate(s)
		if !ok {
			return "", false
		}
		return d.Format("2006-01-02"), true
	case models.TypeEmail:
		if !parsesEmail(s) {
			return "", false
		}
		return strings.ToLower(s), true
	case models.TypePhone:
		if !parsesPhone(s) {
			return "", false
		}
		return phoneStrip.ReplaceAllString(s, ""), true
	}
	return s, true
}
