package service

import (
	"fmt"
	"strings"

	"github.com/bigtree-pos/till/internal/domain/cart"
	"github.com/bigtree-pos/till/internal/domain/money"
)

// ChangeDirection labels the sign of the change amount for the presentation
// layer. Collapsing the sign into a bare magnitude is not allowed; a shortfall
// and change due must render differently.
type ChangeDirection string

const (
	// DirectionChangeDue means the tendered cash covers the total.
	DirectionChangeDue ChangeDirection = "change_due"
	// DirectionAmountOwed means the tendered cash falls short of the total.
	DirectionAmountOwed ChangeDirection = "amount_owed"
	// DirectionNone means no tender has been entered yet.
	DirectionNone ChangeDirection = "none"
)

// Total sums the given line item prices exactly. An empty list totals zero.
func Total(items []cart.LineItem) money.Money {
	var total money.Money
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}

// Change derives tendered minus total. With no tender entered it reports
// DirectionNone and no amount, the neutral state the UI renders before cash
// is counted.
func Change(total money.Money, tendered *money.Money) (*money.Money, ChangeDirection) {
	if tendered == nil {
		return nil, DirectionNone
	}
	diff := tendered.Sub(total)
	if diff.IsNegative() {
		return &diff, DirectionAmountOwed
	}
	return &diff, DirectionChangeDue
}

// SpokenSummary builds the transaction announcement read aloud by the
// presentation layer.
func SpokenSummary(items []cart.LineItem, total money.Money, tendered *money.Money) string {
	if len(items) == 0 {
		return "Your cart is empty. Please add some items first."
	}

	var b strings.Builder
	noun := "items"
	if len(items) == 1 {
		noun = "item"
	}
	fmt.Fprintf(&b, "You have %d %s in your cart. ", len(items), noun)
	for _, item := range items {
		fmt.Fprintf(&b, "%s at %s rand. ", item.Name, item.Price)
	}
	fmt.Fprintf(&b, "Total is %s rands.", total)

	if change, direction := Change(total, tendered); direction != DirectionNone {
		fmt.Fprintf(&b, " Cash given %s rands.", *tendered)
		if direction == DirectionAmountOwed {
			fmt.Fprintf(&b, " Amount still owed is %s rands.", change.Abs())
		} else {
			fmt.Fprintf(&b, " Change is %s rands.", *change)
		}
	}
	return b.String()
}
