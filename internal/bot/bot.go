// Package bot exposes the scan pipeline, the local collection and the
// listing generator as a Telegram bot.
package bot

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/arilahde/comicscan-bot/internal/metron"
	"github.com/arilahde/comicscan-bot/internal/pricing"
	"github.com/arilahde/comicscan-bot/internal/scanner"
	"github.com/arilahde/comicscan-bot/internal/storage"
)

// BotAPI defines the interface for Telegram bot API operations.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Searcher is the metadata search surface the bot needs beyond scanning.
type Searcher interface {
	SearchComics(ctx context.Context, query string) ([]metron.IssueSummary, error)
	FunFacts(ctx context.Context, comicID int) []string
}

// Bot routes Telegram updates to the scan, collection and listing flows.
type Bot struct {
	tg        BotAPI
	store     storage.Store
	scanner   *scanner.Scanner
	search    Searcher
	synthetic *pricing.Synthetic

	mu        sync.Mutex
	lastScans map[int64]*scanner.Result // per-user last completed scan
}

// New creates a Bot instance.
func New(tg BotAPI, store storage.Store, sc *scanner.Scanner, search Searcher, synthetic *pricing.Synthetic) *Bot {
	return &Bot{
		tg:        tg,
		store:     store,
		scanner:   sc,
		search:    search,
		synthetic: synthetic,
		lastScans: make(map[int64]*scanner.Result),
	}
}

// HandleUpdate is the main message router.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	switch {
	case len(msg.Photo) > 0:
		b.handlePhoto(ctx, msg)
	case msg.IsCommand():
		b.handleCommand(ctx, msg)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "mode":
		b.handleMode(ctx, msg, args)
	case "scan":
		b.handleScan(ctx, msg, args)
	case "search":
		b.handleSearch(ctx, msg, args)
	case "facts":
		b.handleFacts(ctx, msg, args)
	case "add":
		b.handleAdd(ctx, msg)
	case "collection":
		b.handleCollection(ctx, msg)
	case "stats":
		b.handleStats(ctx, msg)
	case "dealer":
		b.handleDealer(ctx, msg)
	case "sold":
		b.handleSold(ctx, msg, args)
	case "listing":
		b.handleListing(ctx, msg, args)
	case "want":
		b.handleWant(ctx, msg, args)
	case "alert":
		b.handleAlert(ctx, msg, args)
	case "history":
		b.handleHistory(ctx, msg, args)
	case "recent":
		b.handleRecent(ctx, msg)
	case "settings":
		b.handleSettings(ctx, msg)
	case "setkey":
		b.handleSetKey(ctx, msg, args)
	case "reset":
		b.handleReset(ctx, msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. See the command menu for what I can do.")
	}
}

// setLastScan stashes the most recent scan result for a user so /add and
// /listing can refer back to it.
func (b *Bot) setLastScan(userID int64, result *scanner.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastScans[userID] = result
}

func (b *Bot) lastScan(userID int64) *scanner.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastScans[userID]
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.tg.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}
