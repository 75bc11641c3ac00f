package notifications

import (
	"fmt"
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/catalog"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// Alert is an inbox entry produced by a listing edit a user subscribed to.
type Alert struct {
	ID           string                 `json:"id"`
	ProductID    string                 `json:"productId"`
	ProductTitle string                 `json:"productTitle"`
	Type         enums.SubscriptionType `json:"type"`
	Message      string                 `json:"message"`
	CreatedAt    time.Time              `json:"createdAt"`
	Read         bool                   `json:"read"`
}

type changeMessage struct {
	typ  enums.SubscriptionType
	text string
}

// changeMessages returns one message per alert type triggered by the edit,
// price before stock: a price drop fires price alerts, a restock fires stock
// alerts.
func changeMessages(before, after catalog.Product) []changeMessage {
	var out []changeMessage
	if after.Price.LessThan(before.Price) {
		text := fmt.Sprintf("%s dropped in price from %s to %s.",
			after.Title, before.Price.StringFixed(2), after.Price.StringFixed(2))
		out = append(out, changeMessage{typ: enums.SubscriptionTypePrice, text: text})
	}
	if after.StockQty > before.StockQty {
		out = append(out, changeMessage{
			typ:  enums.SubscriptionTypeStock,
			text: fmt.Sprintf("%s was restocked: %d units available.", after.Title, after.StockQty),
		})
	}
	return out
}
