// Package format renders prices, ratings, counts and labels for display.
package format

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fantravel1/realitytvtravel/internal/catalog"
)

const (
	defaultCurrency = "USD"
	ellipsis        = "…"
	fullStar        = "★"
	halfStar        = "½"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Number groups thousands the en-US way: 12500 => "12,500".
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// PriceAmount formats priceRange.min as whole currency units, e.g. "$500".
// It returns "" when the location has no price.
func PriceAmount(pr *catalog.PriceRange) string {
	if pr == nil {
		return ""
	}
	amount := Number(int(math.Round(pr.Min)))
	code := strings.ToUpper(strings.TrimSpace(pr.Currency))
	if code == "" {
		code = defaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code + " " + amount
	}
	return printer.Sprint(currency.Symbol(unit)) + amount
}

// Price formats the minimum price with its unit: "$500/night".
func Price(pr *catalog.PriceRange) string {
	amount := PriceAmount(pr)
	if amount == "" || pr.Unit == "" {
		return amount
	}
	return amount + "/" + pr.Unit
}

// Stars renders floor(rating) full stars plus a half star when the fraction is at least 0.5.
func Stars(rating float64) string {
	if rating <= 0 || math.IsNaN(rating) {
		return ""
	}
	if rating > 5 {
		rating = 5
	}
	whole := math.Floor(rating)
	out := strings.Repeat(fullStar, int(whole))
	if rating-whole >= 0.5 {
		out += halfStar
	}
	return out
}

// Rating prints a rating with one decimal place.
func Rating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', 1, 64)
}

// Truncate shortens s to at most limit runes and appends an ellipsis when it cut anything.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace) + ellipsis
}

// TitleFromSlug turns "beach-access" into "Beach Access".
func TitleFromSlug(slug string) string {
	parts := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, p := range parts {
		r, size := utf8.DecodeRuneInString(p)
		parts[i] = string(unicode.ToUpper(r)) + p[size:]
	}
	return strings.Join(parts, " ")
}

// Seasons labels a season list: "Season 3" or "Seasons 1, 2".
func Seasons(seasons []int) string {
	if len(seasons) == 0 {
		return ""
	}
	nums := make([]string, len(seasons))
	for i, s := range seasons {
		nums[i] = strconv.Itoa(s)
	}
	label := "Seasons "
	if len(seasons) == 1 {
		label = "Season "
	}
	return label + strings.Join(nums, ", ")
}

// Count pairs a number with a noun, pluralising with a trailing s.
func Count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return Number(n) + " " + noun + "s"
}
