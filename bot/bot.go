package bot

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"foodify/config"
	"foodify/models"
	"foodify/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

// Checkout conversation steps, keyed by chat.
const (
	stepName    = "name"
	stepAddress = "address"
	stepPhone   = "phone"
	stepEmail   = "email"
)

// Bot is the Telegram storefront. It renders session state and forwards user
// actions to the store; all ordering logic lives in services.
type Bot struct {
	api   *tgbotapi.BotAPI
	store *services.Store

	checkoutStep   map[int64]string
	checkoutStepMu sync.Mutex

	// chat waiting for the in-flight submission to finish. The store allows a
	// single in-flight order, so one slot is enough.
	pendingChat   int64
	pendingSet    bool
	pendingChatMu sync.Mutex
}

func New(cfg *config.Config, store *services.Store) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	b := &Bot{
		api:          api,
		store:        store,
		checkoutStep: make(map[int64]string),
	}
	store.OnOrderPlaced(b.notifyOrderPlaced)
	return b, nil
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "start", Description: "Welcome"},
			{Command: "menu", Description: "Browse the menu"},
			{Command: "popular", Description: "Popular items"},
			{Command: "cart", Description: "Your cart"},
			{Command: "orders", Description: "Order history"},
			{Command: "reset", Description: "Reset filters"},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

func (b *Bot) Start() {
	_ = b.setBotCommands()
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
		msg := update.Message
		chatID := msg.Chat.ID
		text := strings.TrimSpace(msg.Text)

		if msg.Contact != nil && b.getStep(chatID) == stepPhone {
			b.handleCheckoutInput(chatID, msg.Contact.PhoneNumber)
			continue
		}

		switch {
		case text == "/start":
			b.handleStart(chatID)
		case text == "/menu":
			b.sendMenu(chatID)
		case text == "/popular":
			b.sendPopular(chatID)
		case text == "/cart":
			b.sendCart(chatID)
		case text == "/orders":
			b.sendOrders(chatID)
		case text == "/reset":
			b.store.ResetFilters()
			b.sendMenu(chatID)
		case text != "" && !strings.HasPrefix(text, "/"):
			if b.getStep(chatID) != "" {
				b.handleCheckoutInput(chatID, text)
			} else {
				// Free text is a search query.
				b.store.SetSearchTerm(text)
				b.sendMenu(chatID)
			}
		}
	}
}

// --- conversation state ---

func (b *Bot) getStep(chatID int64) string {
	b.checkoutStepMu.Lock()
	defer b.checkoutStepMu.Unlock()
	return b.checkoutStep[chatID]
}

func (b *Bot) setStep(chatID int64, step string) {
	b.checkoutStepMu.Lock()
	defer b.checkoutStepMu.Unlock()
	if step == "" {
		delete(b.checkoutStep, chatID)
	} else {
		b.checkoutStep[chatID] = step
	}
}

// --- send helpers ---

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

func (b *Bot) sendWithInline(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

func currency(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// --- screens ---

func (b *Bot) handleStart(chatID int64) {
	var sb strings.Builder
	sb.WriteString("🍽 Welcome to Foodify!\n\nPopular right now:\n")
	for _, it := range b.store.PopularItems() {
		fmt.Fprintf(&sb, "• %s — %s (⭐ %.1f)\n", it.Name, currency(it.Price), it.Rating)
	}
	sb.WriteString("\nUse /menu to browse, or just type to search.")
	b.send(chatID, sb.String())
}

func (b *Bot) sendPopular(chatID int64) {
	items := b.store.PopularItems()
	var sb strings.Builder
	sb.WriteString("⭐ Popular items:\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range items {
		fmt.Fprintf(&sb, "• %s — %s (⭐ %.1f)\n", it.Name, currency(it.Price), it.Rating)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ "+it.Name, "add:"+strconv.FormatInt(it.ID, 10)),
		))
	}
	b.sendWithInline(chatID, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) menuText() string {
	f := b.store.Filters()
	items := b.store.VisibleItems()

	var sb strings.Builder
	sb.WriteString("📋 Menu")
	if strings.TrimSpace(f.SearchTerm) != "" {
		fmt.Fprintf(&sb, " — search %q", f.SearchTerm)
	}
	if f.Category != "" {
		fmt.Fprintf(&sb, " — %s", f.Category)
	}
	if f.PriceBand != services.PriceBandAll {
		fmt.Fprintf(&sb, " — price: %s", f.PriceBand)
	}
	sb.WriteString("\n\n")
	if len(items) == 0 {
		sb.WriteString("Nothing matches. Try /reset.")
	}
	for _, it := range items {
		fmt.Fprintf(&sb, "%s — %s (⭐ %.1f)\n%s\n\n", it.Name, currency(it.Price), it.Rating, it.Description)
	}
	if n := b.store.CartCount(); n > 0 {
		fmt.Fprintf(&sb, "🛒 %d item(s), total %s", n, currency(b.store.CartTotal()))
	}
	return sb.String()
}

func (b *Bot) menuKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range b.store.VisibleItems() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("➕ %s — %s", it.Name, currency(it.Price)),
				"add:"+strconv.FormatInt(it.ID, 10),
			),
		))
	}

	var catRow []tgbotapi.InlineKeyboardButton
	catRow = append(catRow, tgbotapi.NewInlineKeyboardButtonData("All", "cat:"))
	for _, c := range b.store.Categories() {
		catRow = append(catRow, tgbotapi.NewInlineKeyboardButtonData(c.Icon, "cat:"+c.Name))
		if len(catRow) == 4 {
			rows = append(rows, catRow)
			catRow = nil
		}
	}
	if len(catRow) > 0 {
		rows = append(rows, catRow)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("A-Z", "sort:"+services.SortName),
		tgbotapi.NewInlineKeyboardButtonData("$↑", "sort:"+services.SortPriceLow),
		tgbotapi.NewInlineKeyboardButtonData("$↓", "sort:"+services.SortPriceHigh),
		tgbotapi.NewInlineKeyboardButtonData("⭐", "sort:"+services.SortRating),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("all", "band:"+services.PriceBandAll),
		tgbotapi.NewInlineKeyboardButtonData("≤$10", "band:"+services.PriceBandLow),
		tgbotapi.NewInlineKeyboardButtonData("$10-15", "band:"+services.PriceBandMedium),
		tgbotapi.NewInlineKeyboardButtonData(">$15", "band:"+services.PriceBandHigh),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🛒 Cart (%d)", b.store.CartCount()), "cart"),
		tgbotapi.NewInlineKeyboardButtonData("♻️ Reset filters", "filters:reset"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) sendMenu(chatID int64) {
	b.sendWithInline(chatID, b.menuText(), b.menuKeyboard())
}

func (b *Bot) editMenu(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, b.menuText(), b.menuKeyboard())
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("edit error: %v", err)
	}
}

func (b *Bot) cartText() string {
	lines := b.store.CartLines()
	if len(lines) == 0 {
		return "🛒 Your cart is empty."
	}
	var sb strings.Builder
	sb.WriteString("🛒 Your cart:\n\n")
	for _, l := range lines {
		fmt.Fprintf(&sb, "%s × %d — %s\n", l.Item.Name, l.Quantity, currency(l.Subtotal()))
	}
	fmt.Fprintf(&sb, "\nTotal: %s", currency(b.store.CartTotal()))
	return sb.String()
}

func (b *Bot) cartKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, l := range b.store.CartLines() {
		id := strconv.FormatInt(l.Item.ID, 10)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖", "dec:"+id),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s × %d", l.Item.Name, l.Quantity), "cart"),
			tgbotapi.NewInlineKeyboardButtonData("➕", "inc:"+id),
			tgbotapi.NewInlineKeyboardButtonData("✖️", "rm:"+id),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Checkout", "checkout"),
		tgbotapi.NewInlineKeyboardButtonData("📋 Menu", "menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) sendCart(chatID int64) {
	b.sendWithInline(chatID, b.cartText(), b.cartKeyboard())
}

func (b *Bot) editCart(chatID int64, messageID int) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, b.cartText(), b.cartKeyboard())
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("edit error: %v", err)
	}
}

func (b *Bot) sendOrders(chatID int64) {
	orders := b.store.Orders()
	if len(orders) == 0 {
		b.send(chatID, "No orders yet.")
		return
	}
	var sb strings.Builder
	sb.WriteString("📦 Your orders:\n")
	for _, o := range orders {
		fmt.Fprintf(&sb, "\n%s — %s — %s (%s)\n", o.ID, currency(o.Total), o.Status, o.Date.Format("2006-01-02"))
		for _, it := range o.Items {
			fmt.Fprintf(&sb, "  • %s × %d — %s\n", it.Name, it.Quantity, currency(it.UnitPrice))
		}
	}
	b.send(chatID, sb.String())
}

// --- checkout conversation ---

func (b *Bot) startCheckout(chatID int64) {
	if len(b.store.CartLines()) == 0 {
		b.send(chatID, "Your cart is empty. Add something from /menu first.")
		return
	}
	b.setStep(chatID, stepName)
	b.send(chatID, "Checkout 🧾\n\nWhat is your name?")
}

func (b *Bot) handleCheckoutInput(chatID int64, text string) {
	switch b.getStep(chatID) {
	case stepName:
		b.store.SetCustomerName(text)
		b.setStep(chatID, stepAddress)
		b.send(chatID, "Delivery address?")
	case stepAddress:
		b.store.SetAddress(text)
		b.setStep(chatID, stepPhone)
		b.send(chatID, "Phone number?")
	case stepPhone:
		b.store.SetPhone(text)
		b.setStep(chatID, stepEmail)
		b.send(chatID, "Email? (optional — send \"-\" to skip)")
	case stepEmail:
		if text != "-" {
			b.store.SetEmail(text)
		}
		b.setStep(chatID, "")
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("💳 Card", "pay:"+models.PaymentCard),
				tgbotapi.NewInlineKeyboardButtonData("💵 Cash", "pay:"+models.PaymentCash),
			),
		)
		b.sendWithInline(chatID, "How would you like to pay?", kb)
	}
}

func (b *Bot) sendConfirmation(chatID int64) {
	form := b.store.Form()
	var sb strings.Builder
	sb.WriteString(b.cartText())
	fmt.Fprintf(&sb, "\n\nDeliver to %s, %s (%s), pay by %s.", form.Name, form.Address, form.Phone, form.PaymentMethod)
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Place order", "submit"),
		),
	)
	b.sendWithInline(chatID, sb.String(), kb)
}

func (b *Bot) handleSubmit(chatID int64) {
	// Holding the lock across SubmitOrder keeps the completion hook from
	// reading pendingChat before it is set.
	b.pendingChatMu.Lock()
	err := b.store.SubmitOrder()
	if err == nil {
		b.pendingChat = chatID
		b.pendingSet = true
	}
	b.pendingChatMu.Unlock()

	switch {
	case err == nil:
		b.send(chatID, "⏳ Placing your order...")
	case errors.Is(err, services.ErrSubmitInFlight):
		b.send(chatID, "Your order is already being placed, one moment.")
	default:
		if ve, ok := services.AsValidationError(err); ok {
			b.send(chatID, "⚠️ "+ve.Reason)
			if ve.Field != "cart" {
				b.startCheckout(chatID)
			}
			return
		}
		log.Printf("submit error: %v", err)
		b.send(chatID, "Something went wrong, please try again.")
	}
}

// notifyOrderPlaced runs as a Store hook once the simulated submission
// completes.
func (b *Bot) notifyOrderPlaced(o models.Order) {
	b.pendingChatMu.Lock()
	chatID, ok := b.pendingChat, b.pendingSet
	b.pendingChat = 0
	b.pendingSet = false
	b.pendingChatMu.Unlock()
	if !ok {
		return
	}
	b.send(chatID, fmt.Sprintf("✅ Order placed!\n\n%s — total %s.\nTrack it with /orders.", o.ID, currency(o.Total)))
}

// --- callbacks ---

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	msgID := cq.Message.MessageID
	data := cq.Data

	ack := ""
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, ack)); err != nil {
			log.Printf("callback ack error: %v", err)
		}
	}()

	switch {
	case strings.HasPrefix(data, "add:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "add:"), 10, 64)
		if err != nil {
			return
		}
		if err := b.store.AddToCart(id); err != nil {
			log.Printf("add to cart: %v", err)
			return
		}
		ack = "Added to cart"
		b.editMenu(chatID, msgID)
	case strings.HasPrefix(data, "cat:"):
		b.store.SetCategory(strings.TrimPrefix(data, "cat:"))
		b.editMenu(chatID, msgID)
	case strings.HasPrefix(data, "sort:"):
		b.store.SetSortKey(strings.TrimPrefix(data, "sort:"))
		b.editMenu(chatID, msgID)
	case strings.HasPrefix(data, "band:"):
		b.store.SetPriceBand(strings.TrimPrefix(data, "band:"))
		b.editMenu(chatID, msgID)
	case data == "filters:reset":
		b.store.ResetFilters()
		ack = "Filters reset"
		b.editMenu(chatID, msgID)
	case strings.HasPrefix(data, "inc:"):
		if id, err := strconv.ParseInt(strings.TrimPrefix(data, "inc:"), 10, 64); err == nil {
			b.store.IncreaseQty(id)
			b.editCart(chatID, msgID)
		}
	case strings.HasPrefix(data, "dec:"):
		if id, err := strconv.ParseInt(strings.TrimPrefix(data, "dec:"), 10, 64); err == nil {
			b.store.DecreaseQty(id)
			b.editCart(chatID, msgID)
		}
	case strings.HasPrefix(data, "rm:"):
		if id, err := strconv.ParseInt(strings.TrimPrefix(data, "rm:"), 10, 64); err == nil {
			b.store.RemoveFromCart(id)
			b.editCart(chatID, msgID)
		}
	case data == "cart":
		b.sendCart(chatID)
	case data == "menu":
		b.sendMenu(chatID)
	case data == "checkout":
		b.startCheckout(chatID)
	case strings.HasPrefix(data, "pay:"):
		if err := b.store.SetPaymentMethod(strings.TrimPrefix(data, "pay:")); err != nil {
			log.Printf("payment method: %v", err)
			return
		}
		b.sendConfirmation(chatID)
	case data == "submit":
		b.handleSubmit(chatID)
	}
}
