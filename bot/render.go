package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"bikefood/services"
)

// screenContent is the text and inline keyboard for one rendered screen.
type screenContent struct {
	Text    string
	Buttons [][]tgbotapi.InlineKeyboardButton
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func btn(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func statusLine(status string) string {
	switch status {
	case services.OrderStatusFindingCourier:
		return "🔍 Finding you a biker..."
	case services.OrderStatusAssigned:
		return "🚴 Biker found"
	case services.OrderStatusEnRoutePickup:
		return "🏪 Biker is heading to the restaurant"
	case services.OrderStatusPickedUp, services.OrderStatusDelivering:
		return "📦 Your order is on the way"
	case services.OrderStatusDelivered:
		return "✅ Delivered. Enjoy your meal!"
	case services.OrderStatusCancelled:
		return "❌ Order cancelled"
	default:
		return status
	}
}

// renderScreen builds the message for the session's active screen. It
// reads only the snapshot and the read-only collaborators.
func (b *Bot) renderScreen(u *userSession, snap services.Snapshot) screenContent {
	switch snap.Screen.Kind {
	case services.ScreenSplash:
		return screenContent{Text: "🚴 BikeFood\n\nFast food delivery, customer or biker."}

	case services.ScreenLogin:
		return screenContent{
			Text:    "Welcome back!\nSign in to continue.",
			Buttons: [][]tgbotapi.InlineKeyboardButton{{btn("🔑 Sign in", "login")}},
		}

	case services.ScreenCustomerHome:
		text := "🍽 Restaurants near you\n"
		var rows [][]tgbotapi.InlineKeyboardButton
		for _, r := range b.catalog.Restaurants() {
			label := fmt.Sprintf("%s · %.1f★ · %s", r.Name, r.Rating, r.Distance)
			rows = append(rows, []tgbotapi.InlineKeyboardButton{btn(label, "rest:"+r.ID)})
		}
		nav := []tgbotapi.InlineKeyboardButton{btn("📋 Orders", "nav:orders"), btn("👤 Profile", "nav:profile")}
		if len(snap.CartLines) > 0 {
			nav = append([]tgbotapi.InlineKeyboardButton{btn("🛒 Cart", "nav:cart")}, nav...)
		}
		if snap.Order != nil && !services.IsTerminalStatus(snap.Order.Status) {
			nav = append(nav, btn("🛵 Tracking", "nav:tracking"))
		}
		rows = append(rows, nav)
		return screenContent{Text: text, Buttons: rows}

	case services.ScreenRestaurantMenu:
		r, err := b.catalog.Restaurant(snap.Screen.RestaurantID)
		if err != nil {
			return screenContent{Text: "Restaurant not found.", Buttons: [][]tgbotapi.InlineKeyboardButton{{btn("⬅️ Home", "nav:home")}}}
		}
		text := fmt.Sprintf("%s\n%s · %.1f★\n\nTap a dish to add it to your cart.", r.Name, r.Category, r.Rating)
		var rows [][]tgbotapi.InlineKeyboardButton
		for _, m := range b.catalog.Menu(r.ID) {
			rows = append(rows, []tgbotapi.InlineKeyboardButton{btn(fmt.Sprintf("%s — %s", m.Name, money(m.Price)), "add:"+m.ID)})
		}
		nav := []tgbotapi.InlineKeyboardButton{btn("⬅️ Home", "nav:home")}
		if len(snap.CartLines) > 0 {
			nav = append(nav, btn(fmt.Sprintf("🛒 Cart (%d)", len(snap.CartLines)), "nav:cart"))
		}
		rows = append(rows, nav)
		return screenContent{Text: text, Buttons: rows}

	case services.ScreenCart:
		text := "🛒 Your cart\n"
		var rows [][]tgbotapi.InlineKeyboardButton
		for _, l := range snap.CartLines {
			text += fmt.Sprintf("\n%s ×%d — %s", l.Name, l.Qty, money(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Qty)))))
			rows = append(rows, []tgbotapi.InlineKeyboardButton{
				btn("➖", fmt.Sprintf("qty:%s:%d", l.ItemID, l.Qty-1)),
				btn(fmt.Sprintf("%d", l.Qty), "noop"),
				btn("➕", fmt.Sprintf("qty:%s:%d", l.ItemID, l.Qty+1)),
			})
		}
		text += fmt.Sprintf("\n\nSubtotal: %s\nDelivery: %s\nTotal: %s",
			money(snap.CartSubtotal), money(snap.CartTotal.Sub(snap.CartSubtotal)), money(snap.CartTotal))
		rows = append(rows,
			[]tgbotapi.InlineKeyboardButton{btn("🚴 Find a biker", "checkout")},
			[]tgbotapi.InlineKeyboardButton{btn("⬅️ Menu", "nav:menu")},
		)
		return screenContent{Text: text, Buttons: rows}

	case services.ScreenFindBiker:
		text := "🔍 Finding you a biker...\n\nWe're searching for the best delivery drivers in your area."
		return screenContent{
			Text:    text,
			Buttons: [][]tgbotapi.InlineKeyboardButton{{btn("❌ Cancel order", "cancel")}},
		}

	case services.ScreenOrderTracking:
		if snap.Order == nil {
			return screenContent{Text: "No active order.", Buttons: [][]tgbotapi.InlineKeyboardButton{{btn("⬅️ Home", "nav:home")}}}
		}
		o := snap.Order
		text := fmt.Sprintf("Order %.8s\n%s\n\nTotal: %s", o.OrderID, statusLine(o.Status), money(o.GrandTotal))
		var rows [][]tgbotapi.InlineKeyboardButton
		if o.Courier != nil {
			text += fmt.Sprintf("\nBiker: %s (%.1f★)", o.Courier.Name, o.Courier.Rating)
			rows = append(rows, []tgbotapi.InlineKeyboardButton{btn("💬 Chat with "+o.Courier.Name, "chat:"+o.Courier.ID)})
		}
		if o.Status == services.OrderStatusDelivering {
			rows = append(rows, []tgbotapi.InlineKeyboardButton{btn("✅ I received my order", "received")})
		}
		if !services.IsTerminalStatus(o.Status) {
			rows = append(rows, []tgbotapi.InlineKeyboardButton{btn("❌ Cancel order", "cancel")})
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{btn("⬅️ Home", "nav:home")})
		return screenContent{Text: text, Buttons: rows}

	case services.ScreenOrders:
		text := "📋 Your orders\n"
		ctx, cancelFn := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancelFn()
		recent, err := b.archive.Recent(ctx, 10)
		if err != nil || len(recent) == 0 {
			text += "\nNothing here yet."
		}
		for _, o := range recent {
			r, _ := b.catalog.Restaurant(o.RestaurantID)
			text += fmt.Sprintf("\n%s — %s — %s", r.Name, o.Status, money(o.GrandTotal))
		}
		return screenContent{Text: text, Buttons: [][]tgbotapi.InlineKeyboardButton{{btn("⬅️ Home", "nav:home")}}}

	case services.ScreenBikerHome:
		if snap.Delivery != nil && snap.Delivery.Status == services.DeliveryStatusOffered {
			t := snap.Delivery
			text := fmt.Sprintf("🛵 New delivery request\n\nPickup: %s, %s\nDropoff: %s\nPayment: %s",
				t.Pickup.Label, t.Pickup.Line, t.Dropoff.Line, money(t.Payment))
			return screenContent{
				Text: text,
				Buttons: [][]tgbotapi.InlineKeyboardButton{
					{btn("✅ Accept", "accept"), btn("🙅 Decline", "decline")},
					{btn("👤 Profile", "nav:profile")},
				},
			}
		}
		return screenContent{
			Text: "🛵 You're online.\n\nWaiting for delivery requests...",
			Buttons: [][]tgbotapi.InlineKeyboardButton{
				{btn("📦 Active delivery", "nav:delivery"), btn("👤 Profile", "nav:profile")},
			},
		}

	case services.ScreenActiveDelivery:
		if snap.Delivery == nil {
			return screenContent{Text: "No active delivery.", Buttons: [][]tgbotapi.InlineKeyboardButton{{btn("⬅️ Home", "nav:home")}}}
		}
		t := snap.Delivery
		text := fmt.Sprintf("📦 Delivery %.8s\n\nPickup: %s, %s\nDropoff: %s\nPayment: %s\nStatus: %s",
			t.OrderID, t.Pickup.Label, t.Pickup.Line, t.Dropoff.Line, money(t.Payment), t.Status)
		var rows [][]tgbotapi.InlineKeyboardButton
		switch t.Status {
		case services.DeliveryStatusAwaitingPickup:
			rows = append(rows, []tgbotapi.InlineKeyboardButton{btn("🍔 Confirm pickup", "pickup")})
		case services.DeliveryStatusInTransit:
			text += "\n\nWaiting for the customer to confirm receipt."
		}
		rows = append(rows,
			[]tgbotapi.InlineKeyboardButton{btn("💬 Chat with customer", "chat:customer")},
			[]tgbotapi.InlineKeyboardButton{btn("⬅️ Home", "nav:home")},
		)
		return screenContent{Text: text, Buttons: rows}

	case services.ScreenChat:
		text := "💬 Chat\n"
		for _, m := range u.chat.Transcript(snap.Screen.PeerID) {
			who := "Them"
			if m.Sent {
				who = "You"
			}
			text += fmt.Sprintf("\n%s: %s", who, m.Text)
		}
		text += "\n\nReply to this message to send."
		return screenContent{Text: text, Buttons: [][]tgbotapi.InlineKeyboardButton{{btn("⬅️ Back", "chat_back")}}}

	case services.ScreenProfile:
		other := services.ModeBiker
		label := "🛵 Switch to biker mode"
		if snap.Mode == services.ModeBiker {
			other = services.ModeCustomer
			label = "🍽 Switch to customer mode"
		}
		return screenContent{
			Text: fmt.Sprintf("👤 Profile\n\nMode: %s", snap.Mode),
			Buttons: [][]tgbotapi.InlineKeyboardButton{
				{btn(label, "mode:"+other)},
				{btn("🚪 Log out", "logout")},
				{btn("⬅️ Home", "nav:home")},
			},
		}
	}
	return screenContent{Text: "…"}
}
