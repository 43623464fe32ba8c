package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// APIKeyServicePriceCharting names the pricing service whose stored key
// the bot reads at startup.
const APIKeyServicePriceCharting = "pricecharting"

// handleSetKey stores a pricing-service API key, encrypted at rest.
// Without arguments it reports which services have a key. The message
// carrying the token is deleted afterwards so the key does not stay
// visible in the chat.
func (b *Bot) handleSetKey(ctx context.Context, msg *tgbotapi.Message, args string) {
	if args == "" {
		b.replyKeyStatus(msg.Chat.ID)
		return
	}

	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.reply(msg.Chat.ID, "Usage: /setkey "+APIKeyServicePriceCharting+" <token>")
		return
	}
	service := strings.ToLower(fields[0])
	if service != APIKeyServicePriceCharting {
		b.reply(msg.Chat.ID, fmt.Sprintf("Unknown service %q. Supported: %s.", fields[0], APIKeyServicePriceCharting))
		return
	}

	if err := b.store.SetAPIKey(service, fields[1]); err != nil {
		log.Error().Err(err).Str("service", service).Msg("failed to store API key")
		b.reply(msg.Chat.ID, "Couldn't store that key.")
		return
	}

	// Best effort; the bot may lack delete rights in this chat.
	if _, err := b.tg.Request(tgbotapi.NewDeleteMessage(msg.Chat.ID, msg.MessageID)); err != nil {
		log.Warn().Err(err).Msg("failed to delete message containing API key")
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"Stored the %s API key. It takes effect the next time the bot starts.", service))
}

func (b *Bot) replyKeyStatus(chatID int64) {
	key, err := b.store.GetAPIKey(APIKeyServicePriceCharting)
	if err != nil {
		log.Error().Err(err).Msg("failed to read API key")
		b.reply(chatID, "Couldn't read stored keys.")
		return
	}
	if key == "" {
		b.reply(chatID, "No API keys stored. Set one with /setkey "+APIKeyServicePriceCharting+" <token>.")
		return
	}
	b.reply(chatID, "A "+APIKeyServicePriceCharting+" API key is stored.")
}
