package notifications

import (
	"math"

	"github.com/Rhymond/go-money"
)

// FormatTRY renders a lira amount for user-facing messages, e.g.
// "₺1.234,56".
func FormatTRY(amount float64) string {
	return money.New(int64(math.Round(amount*100)), money.TRY).Display()
}
