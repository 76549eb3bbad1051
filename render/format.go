package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/message"
)

// NotAvailable is shown for missing values.
const NotAvailable = "N/A"

// Placeholder sizes per surface.
const (
	PosterSize    = "300x450"
	TrendingSize  = "200x300"
	ThumbnailSize = "50x75"
	BackdropSize  = "1200x600"
)

// Placeholder returns the stand-in image URL of the given size.
func Placeholder(size string) string {
	return "https://via.placeholder.com/" + size + "?text=No+Image"
}

// FormatRating renders v with one decimal, rounding half up on the decimal
// representation of v, so 8.95 becomes "9.0" even though the nearest
// float64 is slightly below 8.95.
func FormatRating(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) <= 1 {
		if frac == "" {
			frac = "0"
		}
		return sign + whole + "." + frac
	}

	n, err := strconv.ParseInt(whole+frac[:1], 10, 64)
	if err != nil {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	if frac[1] >= '5' {
		n++
	}
	return fmt.Sprintf("%s%d.%d", sign, n/10, n%10)
}

// FormatYear returns the year of an ISO date such as "2010-07-16".
func FormatYear(date string) string {
	if len(date) < 4 {
		return NotAvailable
	}
	year := date[:4]
	for i := 0; i < len(year); i++ {
		if year[i] < '0' || year[i] > '9' {
			return NotAvailable
		}
	}
	if len(date) > 4 && date[4] != '-' {
		return NotAvailable
	}
	return year
}

// FormatRuntime renders minutes as "148 min".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return NotAvailable
	}
	return strconv.Itoa(minutes) + " min"
}

// FormatMoney renders whole dollars with locale grouping, e.g. "$160,000,000".
func FormatMoney(p *message.Printer, amount int64) string {
	if amount <= 0 {
		return NotAvailable
	}
	return p.Sprintf("$%d", amount)
}

// Images resolves provider image paths.
type Images struct {
	// Base is prefixed to provider paths, e.g. "https://image.tmdb.org/t/p/w500".
	Base string
	// Proxy routes images through the local /img endpoint instead.
	Proxy bool
}

// URL returns the image URL of path, or the placeholder of size when path is empty.
func (im Images) URL(path, size string) string {
	if path == "" {
		return Placeholder(size)
	}
	if im.Proxy {
		return "/img/" + im.size() + path
	}
	return strings.TrimRight(im.Base, "/") + path
}

// size is the provider size segment of Base ("w500").
func (im Images) size() string {
	base := strings.TrimRight(im.Base, "/")
	if i := strings.LastIndex(base, "/"); i >= 0 && i < len(base)-1 {
		return base[i+1:]
	}
	return "original"
}
