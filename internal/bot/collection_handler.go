package bot

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/arilahde/comicscan-bot/internal/comics"
	"github.com/arilahde/comicscan-bot/internal/scanner"
	"github.com/arilahde/comicscan-bot/internal/stats"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	settings, err := b.store.GetSettings()
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		settings = comics.DefaultSettings()
	}

	b.reply(msg.Chat.ID, formatReplyText(`
		Welcome to ComicScan. Send me a cover photo or use
		/scan <title> #<issue> and I'll identify the comic, estimate its
		condition and look up what it's worth.

		You're in %s mode. Collectors track a collection, dealers track
		inventory, costs and sales. Switch with /mode collector or
		/mode dealer.
	`, settings.UserMode))
}

func (b *Bot) handleMode(ctx context.Context, msg *tgbotapi.Message, args string) {
	mode := strings.ToLower(args)
	if mode != "collector" && mode != "dealer" {
		b.reply(msg.Chat.ID, "Usage: /mode collector or /mode dealer")
		return
	}

	settings, err := b.store.GetSettings()
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		settings = comics.DefaultSettings()
	}
	settings.UserMode = mode
	if err := b.store.SaveSettings(settings); err != nil {
		log.Error().Err(err).Msg("failed to save settings")
		b.reply(msg.Chat.ID, "Couldn't save the mode change.")
		return
	}
	b.reply(msg.Chat.ID, "Switched to "+mode+" mode.")
}

// handleAdd saves the user's last scan to the collection or, in dealer
// mode, to the sales inventory.
func (b *Bot) handleAdd(ctx context.Context, msg *tgbotapi.Message) {
	result := b.lastScan(msg.From.ID)
	if result == nil {
		b.reply(msg.Chat.ID, "Nothing scanned yet. Send a cover photo or use /scan first.")
		return
	}

	settings, err := b.store.GetSettings()
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		settings = comics.DefaultSettings()
	}

	if err := b.saveScan(result, settings.UserMode); err != nil {
		log.Error().Err(err).Msg("failed to save scan")
		b.reply(msg.Chat.ID, "Couldn't save that comic.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Added %s #%s to your %s.",
		result.Comic.Title, result.Comic.IssueNumber, savedDestination(settings.UserMode)))
}

// saveScan persists a scan result according to the user mode.
func (b *Bot) saveScan(result *scanner.Result, userMode string) error {
	item := collectionItemFromScan(result)
	if userMode == "dealer" {
		return b.store.AddInventoryItem(comics.DealerInventoryItem{
			CollectionItem: item,
			Cost:           result.Pricing.AveragePrice,
			ListingPrice:   result.Pricing.AveragePrice,
		})
	}
	return b.store.AddToCollection(item)
}

func savedDestination(userMode string) string {
	if userMode == "dealer" {
		return "inventory"
	}
	return "collection"
}

func collectionItemFromScan(result *scanner.Result) comics.CollectionItem {
	comic := *result.Comic
	comic.ID = uuid.NewString()
	return comics.CollectionItem{
		Comic:          comic,
		ConditionGrade: string(result.Condition.Grade),
		PurchasePrice:  result.Pricing.AveragePrice,
		CurrentValue:   result.Pricing.AveragePrice,
		AddedDate:      time.Now(),
	}
}

func (b *Bot) handleCollection(ctx context.Context, msg *tgbotapi.Message) {
	items, err := b.store.GetCollection()
	if err != nil {
		log.Error().Err(err).Msg("failed to load collection")
		b.reply(msg.Chat.ID, "Couldn't load your collection.")
		return
	}
	if len(items) == 0 {
		b.reply(msg.Chat.ID, "Your collection is empty. Scan a comic and /add it.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Your collection (%d):\n", len(items)))
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("%d. %s #%s, %s, $%.2f\n",
			i+1, item.Title, item.IssueNumber, item.ConditionGrade, item.CurrentValue))
	}
	b.reply(msg.Chat.ID, strings.TrimRight(sb.String(), "\n"))
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	items, err := b.store.GetCollection()
	if err != nil {
		log.Error().Err(err).Msg("failed to load collection")
		b.reply(msg.Chat.ID, "Couldn't load your collection.")
		return
	}

	s := stats.Collection(items)
	var sb strings.Builder
	sb.WriteString(formatReplyText(`
		Collection stats

		Items: %d
		Total value: $%.2f
		Average value: $%.2f
	`, s.TotalItems, s.TotalValue, s.AverageValue))

	if len(s.Publishers) > 0 {
		sb.WriteString("\n\nBy publisher:\n")
		sb.WriteString(countLines(s.Publishers))
	}
	if len(s.Conditions) > 0 {
		sb.WriteString("\nBy condition:\n")
		sb.WriteString(countLines(s.Conditions))
	}
	b.reply(msg.Chat.ID, strings.TrimRight(sb.String(), "\n"))
}

// countLines renders a count map as sorted "name: n" lines.
func countLines(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("  %s: %d\n", k, counts[k]))
	}
	return sb.String()
}

// handleDealer shows sales stats and the numbered unsold inventory the
// /sold command refers to.
func (b *Bot) handleDealer(ctx context.Context, msg *tgbotapi.Message) {
	items, err := b.store.GetInventory()
	if err != nil {
		log.Error().Err(err).Msg("failed to load inventory")
		b.reply(msg.Chat.ID, "Couldn't load your inventory.")
		return
	}

	s := stats.Dealer(items)
	var sb strings.Builder
	sb.WriteString(formatReplyText(`
		Dealer stats

		In stock: %d (cost $%.2f, listed $%.2f, potential profit $%.2f)
		Sold: %d for $%.2f
	`, s.InventoryCount, s.TotalCost, s.TotalListingValue, s.PotentialProfit, s.SoldCount, s.TotalRevenue))

	unsold := unsoldItems(items)
	if len(unsold) > 0 {
		sb.WriteString("\n\nIn stock:\n")
		for i, item := range unsold {
			sb.WriteString(fmt.Sprintf("%d. %s #%s, %s, listed $%.2f\n",
				i+1, item.Title, item.IssueNumber, item.ConditionGrade, item.ListingPrice))
		}
		sb.WriteString("\nMark a sale with /sold <number> <price>.")
	}
	b.reply(msg.Chat.ID, strings.TrimRight(sb.String(), "\n"))
}

func unsoldItems(items []comics.DealerInventoryItem) []comics.DealerInventoryItem {
	var unsold []comics.DealerInventoryItem
	for _, item := range items {
		if !item.Sold {
			unsold = append(unsold, item)
		}
	}
	return unsold
}

// handleSold marks an in-stock item sold by its /dealer list number.
func (b *Bot) handleSold(ctx context.Context, msg *tgbotapi.Message, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.reply(msg.Chat.ID, "Usage: /sold <number> <price>, with a number from /dealer")
		return
	}
	pos, err := strconv.Atoi(fields[0])
	if err != nil {
		b.reply(msg.Chat.ID, "Usage: /sold <number> <price>, with a number from /dealer")
		return
	}
	price, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || price < 0 {
		b.reply(msg.Chat.ID, "That doesn't look like a price.")
		return
	}

	items, err := b.store.GetInventory()
	if err != nil {
		log.Error().Err(err).Msg("failed to load inventory")
		b.reply(msg.Chat.ID, "Couldn't load your inventory.")
		return
	}
	unsold := unsoldItems(items)
	if pos < 1 || pos > len(unsold) {
		b.reply(msg.Chat.ID, fmt.Sprintf("No in-stock item number %d, see /dealer.", pos))
		return
	}

	item := unsold[pos-1]
	if err := b.store.MarkSold(item.ID, price, time.Now()); err != nil {
		log.Error().Err(err).Msg("failed to mark item sold")
		b.reply(msg.Chat.ID, "Couldn't record the sale.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Sold %s #%s for $%.2f.", item.Title, item.IssueNumber, price))
}

func (b *Bot) handleSettings(ctx context.Context, msg *tgbotapi.Message) {
	settings, err := b.store.GetSettings()
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		b.reply(msg.Chat.ID, "Couldn't load settings.")
		return
	}

	b.reply(msg.Chat.ID, formatReplyText(`
		Settings

		Mode: %s
		Notifications: %s
		Auto-save scans: %s
	`, settings.UserMode, onOff(settings.Notifications), onOff(settings.AutoSave)))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// handleReset wipes all saved data.
func (b *Bot) handleReset(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.store.ClearAll(); err != nil {
		log.Error().Err(err).Msg("failed to clear data")
		b.reply(msg.Chat.ID, "Couldn't erase your data.")
		return
	}
	b.reply(msg.Chat.ID, "All saved data erased. Settings are back to defaults.")
}
