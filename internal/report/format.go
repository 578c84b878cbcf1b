package report

import (
	"strconv"

	"github.com/verte-zerg/channelsim/internal/model"
)

// Placeholder marks a result field the backend did not provide.
const Placeholder = "-"

// Fixed formats n with prec decimals, treating a missing value as zero.
func Fixed(n model.Number, prec int) string {
	return strconv.FormatFloat(n.Or(0), 'f', prec, 64)
}

// FixedOrPlaceholder formats n with prec decimals, or Placeholder when missing.
func FixedOrPlaceholder(n model.Number, prec int) string {
	if !n.Valid {
		return Placeholder
	}
	return strconv.FormatFloat(n.Value, 'f', prec, 64)
}

// AsGiven formats n in its shortest exact decimal form, or Placeholder.
func AsGiven(n model.Number) string {
	if !n.Valid {
		return Placeholder
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// TextOrPlaceholder returns t's value, or Placeholder when missing.
func TextOrPlaceholder(t model.Text) string {
	return t.Or(Placeholder)
}
