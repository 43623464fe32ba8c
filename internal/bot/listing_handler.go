package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/arilahde/comicscan-bot/internal/listing"
)

// handleListing generates a marketplace listing from the last scan. An
// optional argument overrides the asking price, which otherwise defaults
// to the looked-up average.
func (b *Bot) handleListing(ctx context.Context, msg *tgbotapi.Message, args string) {
	result := b.lastScan(msg.From.ID)
	if result == nil {
		b.reply(msg.Chat.ID, "Nothing scanned yet. Send a cover photo or use /scan first.")
		return
	}

	price := result.Pricing.AveragePrice
	if args != "" {
		p, err := strconv.ParseFloat(strings.TrimPrefix(args, "$"), 64)
		if err != nil || p <= 0 {
			b.reply(msg.Chat.ID, "Usage: /listing [asking price], e.g. /listing 150")
			return
		}
		price = p
	}

	b.reply(msg.Chat.ID, listing.Generate(result.Comic, result.Condition.Grade, price))
}
