package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/arilahde/comicscan-bot/internal/comics"
)

// handleWant manages the want list. Without arguments it lists the
// entries; "found <n>" and "remove <n>" act on a listed entry; anything
// else is added as a new wanted title.
func (b *Bot) handleWant(ctx context.Context, msg *tgbotapi.Message, args string) {
	if args == "" {
		b.listWantList(msg.Chat.ID)
		return
	}

	fields := strings.Fields(args)
	if len(fields) == 2 {
		if pos, err := strconv.Atoi(fields[1]); err == nil {
			switch fields[0] {
			case "found":
				b.markWantFound(msg.Chat.ID, pos)
				return
			case "remove":
				b.removeWantItem(msg.Chat.ID, pos)
				return
			}
		}
	}

	// Everything else is a title, with an optional trailing target price.
	title, targetPrice := splitTrailingPrice(args)
	item, err := b.store.AddWantListItem(title, targetPrice, "")
	if err != nil {
		log.Error().Err(err).Msg("failed to add want list item")
		b.reply(msg.Chat.ID, "Couldn't add that to your want list.")
		return
	}
	if item.TargetPrice > 0 {
		b.reply(msg.Chat.ID, fmt.Sprintf("Added %s to your want list, target $%.2f.", item.Title, item.TargetPrice))
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Added %s to your want list.", item.Title))
}

// splitTrailingPrice peels a trailing dollar amount off a want list entry,
// so "/want Hulk #181 $300" wants "Hulk #181" at a $300 target. The "$"
// prefix is required: a bare trailing number like "/want Hulk 181" is an
// issue number, not a price.
func splitTrailingPrice(s string) (title string, price float64) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return s, 0
	}
	last := fields[len(fields)-1]
	if !strings.HasPrefix(last, "$") {
		return s, 0
	}
	p, err := strconv.ParseFloat(strings.TrimPrefix(last, "$"), 64)
	if err != nil || p <= 0 {
		return s, 0
	}
	return strings.Join(fields[:len(fields)-1], " "), p
}

func (b *Bot) listWantList(chatID int64) {
	items, err := b.store.GetWantList()
	if err != nil {
		log.Error().Err(err).Msg("failed to load want list")
		b.reply(chatID, "Couldn't load your want list.")
		return
	}
	if len(items) == 0 {
		b.reply(chatID, "Your want list is empty. Add with /want <title>, optionally ending in a $target price.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Want list:\n")
	for i, item := range items {
		line := fmt.Sprintf("%d. %s", i+1, item.Title)
		if item.TargetPrice > 0 {
			line += fmt.Sprintf(" (target $%.2f)", item.TargetPrice)
		}
		if item.Found {
			line += " ✓ found"
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\nMark with /want found <n>, drop with /want remove <n>.")
	b.reply(chatID, sb.String())
}

func (b *Bot) markWantFound(chatID int64, pos int) {
	item, ok := b.wantItemAt(chatID, pos)
	if !ok {
		return
	}
	if err := b.store.SetWantListFound(item.ID, true); err != nil {
		log.Error().Err(err).Msg("failed to update want list item")
		b.reply(chatID, "Couldn't update that entry.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Marked %s as found. Congrats!", item.Title))
}

func (b *Bot) removeWantItem(chatID int64, pos int) {
	item, ok := b.wantItemAt(chatID, pos)
	if !ok {
		return
	}
	if err := b.store.RemoveWantListItem(item.ID); err != nil {
		log.Error().Err(err).Msg("failed to remove want list item")
		b.reply(chatID, "Couldn't remove that entry.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Removed %s from your want list.", item.Title))
}

// wantItemAt resolves a 1-based /want list position. Replies to the user
// itself when the position is invalid.
func (b *Bot) wantItemAt(chatID int64, pos int) (comics.WantListItem, bool) {
	items, err := b.store.GetWantList()
	if err != nil {
		log.Error().Err(err).Msg("failed to load want list")
		b.reply(chatID, "Couldn't load your want list.")
		return comics.WantListItem{}, false
	}
	if pos < 1 || pos > len(items) {
		b.reply(chatID, fmt.Sprintf("No want list entry number %d, see /want.", pos))
		return comics.WantListItem{}, false
	}
	return items[pos-1], true
}

// handleAlert sets a price alert: /alert <title> #<issue> <target price>.
func (b *Bot) handleAlert(ctx context.Context, msg *tgbotapi.Message, args string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		b.reply(msg.Chat.ID, "Usage: /alert <title> #<issue> <target price>, e.g. /alert Amazing Spider-Man #300 100")
		return
	}

	target, err := strconv.ParseFloat(strings.TrimPrefix(fields[len(fields)-1], "$"), 64)
	if err != nil || target <= 0 {
		b.reply(msg.Chat.ID, "The last argument must be the target price.")
		return
	}
	title, issueNumber := parseTitleIssue(strings.Join(fields[:len(fields)-1], " "))

	alert, err := b.store.AddPriceAlert(title, issueNumber, target)
	if err != nil {
		log.Error().Err(err).Msg("failed to add price alert")
		b.reply(msg.Chat.ID, "Couldn't set that alert.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf(
		"Watching %s #%s. I'll tell you when the average price drops to $%.2f.",
		alert.Title, alert.IssueNumber, alert.TargetPrice))
}
