package bot

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bikefood/config"
	"bikefood/models"
	"bikefood/services"
)

// Bot is the presentation shell: it renders each screen of the app as a
// Telegram message with inline buttons and translates taps back into
// coordinator intents. It holds no domain state of its own; every chat id
// gets its own session coordinator.
type Bot struct {
	api     *tgbotapi.BotAPI
	cfg     *config.Config
	catalog *services.Catalog
	archive services.OrderArchive

	sessions   map[int64]*userSession
	sessionsMu sync.RWMutex
}

type userSession struct {
	coord   *services.Coordinator
	matcher *services.Matcher
	chat    *services.ChatLog
}

func New(cfg *config.Config, archive services.OrderArchive) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:      api,
		cfg:      cfg,
		catalog:  services.DemoCatalog(),
		archive:  archive,
		sessions: make(map[int64]*userSession),
	}, nil
}

func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
		if update.Message == nil {
			continue
		}
		b.handleMessage(update.Message)
	}
}

// session returns the chat's session, creating it on first contact. A new
// session starts on the splash screen with the auto-advance armed.
func (b *Bot) session(chatID int64) *userSession {
	b.sessionsMu.RLock()
	u, ok := b.sessions[chatID]
	b.sessionsMu.RUnlock()
	if ok {
		return u
	}

	b.sessionsMu.Lock()
	defer b.sessionsMu.Unlock()
	if u, ok = b.sessions[chatID]; ok {
		return u
	}

	chat := services.NewChatLog()
	chat.SetAutoReply(cannedReply)
	coord := services.NewCoordinator(b.catalog, chat, b.archive, b.cfg.App.DeliveryFee, b.cfg.App.SplashDelay)
	coord.SetDropoff(models.Address{Label: "Home", Line: b.cfg.App.DropoffLine})
	u = &userSession{coord: coord, chat: chat}

	u.matcher = services.NewMatcher(services.DemoCouriers(), b.cfg.App.CourierDelay, coord.DispatchEvent)
	coord.SetOnOrderPlaced(u.matcher.OfferOrder)
	coord.SetOnChange(func(snap services.Snapshot) {
		b.render(chatID, u, snap)
	})

	b.sessions[chatID] = u
	return u
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if text == "/start" {
		b.sessionsMu.Lock()
		delete(b.sessions, chatID) // fresh session per /start
		b.sessionsMu.Unlock()
		u := b.session(chatID)
		b.render(chatID, u, u.coord.Snapshot())
		u.coord.Start()
		return
	}

	u := b.session(chatID)
	snap := u.coord.Snapshot()
	if snap.Screen.Kind == services.ScreenChat && text != "" {
		if _, err := u.coord.Dispatch(services.IntentSendMessage, services.Payload{Text: text}); err != nil {
			b.send(chatID, "Could not send: "+err.Error())
		}
		return
	}
	b.send(chatID, "Please use the buttons.")
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	u := b.session(chatID)

	intent, payload, handled := b.parseCallback(u, cq.Data)
	if !handled {
		b.answer(cq.ID, "")
		return
	}

	if _, err := u.coord.Dispatch(intent, payload); err != nil {
		b.answer(cq.ID, friendlyError(err))
		return
	}
	b.answer(cq.ID, "")
}

// parseCallback maps button data onto a coordinator intent. The format is
// "verb" or "verb:arg", mirroring how screens name their actions.
func (b *Bot) parseCallback(u *userSession, data string) (services.Intent, services.Payload, bool) {
	verb, arg, _ := strings.Cut(data, ":")
	switch verb {
	case "login":
		return services.IntentLogin, services.Payload{}, true
	case "logout":
		return services.IntentLogout, services.Payload{}, true
	case "mode":
		return services.IntentSwitchMode, services.Payload{Mode: arg}, true
	case "nav":
		switch arg {
		case "home":
			return services.IntentGoHome, services.Payload{}, true
		case "profile":
			return services.IntentOpenProfile, services.Payload{}, true
		case "orders":
			return services.IntentOpenOrders, services.Payload{}, true
		case "tracking":
			return services.IntentOpenTracking, services.Payload{}, true
		case "delivery":
			return services.IntentOpenDelivery, services.Payload{}, true
		case "cart":
			return services.IntentOpenCart, services.Payload{}, true
		case "menu":
			return services.IntentOpenMenu, services.Payload{}, true
		}
	case "rest":
		return services.IntentSelectRestaurant, services.Payload{RestaurantID: arg}, true
	case "add":
		return services.IntentAddItem, services.Payload{ItemID: arg}, true
	case "qty":
		itemID, qtyStr, _ := strings.Cut(arg, ":")
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			return "", services.Payload{}, false
		}
		return services.IntentSetQuantity, services.Payload{ItemID: itemID, Quantity: qty}, true
	case "checkout":
		return services.IntentRequestCourier, services.Payload{}, true
	case "cancel":
		return services.IntentCancelOrder, services.Payload{}, true
	case "received":
		return services.IntentConfirmReceipt, services.Payload{}, true
	case "accept":
		return services.IntentAcceptOffer, services.Payload{}, true
	case "decline":
		b.decline(u)
		return services.IntentDeclineOffer, services.Payload{}, true
	case "pickup":
		return services.IntentConfirmPickup, services.Payload{}, true
	case "chat":
		return services.IntentOpenChat, services.Payload{PeerID: arg}, true
	case "chat_back":
		return services.IntentCloseChat, services.Payload{}, true
	}
	return "", services.Payload{}, false
}

// decline tells the matcher the offered courier turned the job down; the
// matcher re-offers and the order itself is untouched.
func (b *Bot) decline(u *userSession) {
	snap := u.coord.Snapshot()
	if snap.Delivery == nil {
		return
	}
	if c, ok := u.matcher.Pending(snap.Delivery.OrderID); ok {
		u.matcher.Decline(snap.Delivery.OrderID, c.ID)
	}
}

func (b *Bot) render(chatID int64, u *userSession, snap services.Snapshot) {
	content := b.renderScreen(u, snap)
	msg := tgbotapi.NewMessage(chatID, content.Text)
	if len(content.Buttons) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(content.Buttons...)
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("render %d: %v", chatID, err)
	}
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("send error: %v", err)
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("callback answer: %v", err)
	}
}

func friendlyError(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		return "That doesn't work here."
	case errors.Is(err, services.ErrInvalidTransition):
		return "That action isn't available right now."
	case errors.Is(err, services.ErrMissingPayload):
		return "Pick something first."
	case errors.Is(err, services.ErrNotFound):
		return "Not found."
	default:
		return "Something went wrong."
	}
}

// cannedReply is the demo courier's side of the conversation.
func cannedReply(peerID, text string) string {
	switch {
	case strings.Contains(strings.ToLower(text), "long"):
		return "About 10-15 minutes. Traffic is light today."
	case strings.Contains(strings.ToLower(text), "thank"):
		return "You're welcome!"
	default:
		return "Hi! I'm on my way to pick up your order."
	}
}
