package checkout

import (
	"regexp"
	"strings"
	"time"

	"github.com/dineflow/ordering-api/models"
)

// Fulfillment is the context accompanying a checkout attempt: order type,
// delivery destination and payment selection.
type Fulfillment struct {
	OrderType     models.OrderType `json:"order_type"`
	AddressID     string           `json:"address_id,omitempty"` // saved address label
	Address       *models.Address  `json:"address,omitempty"`    // freshly entered
	PaymentMethod string           `json:"payment_method"`
	CardID        string           `json:"card_id,omitempty"` // saved card
	Card          *CardDetails     `json:"card,omitempty"`    // freshly entered
}

// CardDetails are inline card fields, format-checked locally and never
// persisted beyond a masked SavedCard.
type CardDetails struct {
	Number string `json:"number"`
	Holder string `json:"holder"`
	Expiry string `json:"expiry"` // MM/YY
	CVV    string `json:"cvv"`
}

var (
	cardNumberRe = regexp.MustCompile(`^\d{13,19}$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
)

// Validate checks card field formats. Expiry must parse as MM/YY and not be
// in the past.
func (c *CardDetails) Validate(now time.Time) *ValidationError {
	number := strings.ReplaceAll(c.Number, " ", "")
	if !cardNumberRe.MatchString(number) {
		return invalid("card.number", "card number must be 13-19 digits")
	}
	if strings.TrimSpace(c.Holder) == "" {
		return invalid("card.holder", "card holder is required")
	}
	exp, err := time.Parse("01/06", c.Expiry)
	if err != nil {
		return invalid("card.expiry", "expiry must be MM/YY")
	}
	// Valid through the end of the expiry month.
	endOfMonth := exp.AddDate(0, 1, 0)
	if !now.Before(endOfMonth) {
		return invalid("card.expiry", "card is expired")
	}
	if !cvvRe.MatchString(c.CVV) {
		return invalid("card.cvv", "cvv must be 3-4 digits")
	}
	return nil
}
