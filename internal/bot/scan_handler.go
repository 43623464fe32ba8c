package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/arilahde/comicscan-bot/internal/grading"
	"github.com/arilahde/comicscan-bot/internal/metron"
	"github.com/arilahde/comicscan-bot/internal/scanner"
	"github.com/arilahde/comicscan-bot/internal/storage"
)

// handleScan looks up a comic by title and issue number without a photo.
func (b *Bot) handleScan(ctx context.Context, msg *tgbotapi.Message, args string) {
	if args == "" {
		b.reply(msg.Chat.ID, "Usage: /scan <title> #<issue>, e.g. /scan Amazing Spider-Man #300")
		return
	}

	title, issueNumber := parseTitleIssue(args)
	result, err := b.scanner.ScanIssue(ctx, title, issueNumber, nil)
	if err != nil {
		b.replyScanError(msg.Chat.ID, err)
		return
	}

	b.finishScan(msg, result)
}

// handlePhoto runs the full scan pipeline on a cover photo.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	image, err := b.downloadLargestPhoto(msg.Photo)
	if err != nil {
		log.Error().Err(err).Msg("photo download failed")
		b.reply(msg.Chat.ID, "Couldn't download that photo, please try again.")
		return
	}

	result, err := b.scanner.ScanImage(ctx, image)
	if err != nil {
		b.replyScanError(msg.Chat.ID, err)
		return
	}

	b.finishScan(msg, result)
}

// finishScan stashes the result for /add and /listing, records it in
// recent scans, auto-saves it when the user has opted in, and replies
// with the scan summary.
func (b *Bot) finishScan(msg *tgbotapi.Message, result *scanner.Result) {
	b.setLastScan(msg.From.ID, result)

	if err := b.store.AddRecentScan(recentScanFromResult(result)); err != nil {
		log.Error().Err(err).Msg("failed to record recent scan")
	}

	settings, err := b.store.GetSettings()
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
	}
	autoSaved := false
	if settings.AutoSave {
		if err := b.saveScan(result, settings.UserMode); err != nil {
			log.Error().Err(err).Msg("auto-save failed")
		} else {
			autoSaved = true
		}
	}

	text := scanSummary(result)
	if autoSaved {
		text += "\n\nAuto-saved to your " + savedDestination(settings.UserMode) + "."
	} else {
		text += "\n\nUse /add to save it or /listing to create a seller listing."
	}
	b.reply(msg.Chat.ID, text)
}

func (b *Bot) replyScanError(chatID int64, err error) {
	var notFound *metron.NotFoundError
	if errors.As(err, &notFound) {
		b.reply(chatID, formatReplyText(`
			Couldn't find %s #%s in the comic database.
			Try /search <title> to browse matching issues.
		`, notFound.Title, notFound.IssueNumber))
		return
	}
	log.Error().Err(err).Msg("scan failed")
	b.reply(chatID, "Scan failed: "+err.Error())
}

func scanSummary(result *scanner.Result) string {
	c := result.Comic
	p := result.Pricing
	cond := result.Condition
	return formatReplyText(`
		%s #%s
		%s, %s

		Condition: %s (score %.1f)
		%s

		Value: $%.2f avg ($%.2f to $%.2f)
		Pricing source: %s
	`,
		c.Title, c.IssueNumber,
		c.Publisher, c.PublishDate,
		cond.Grade, cond.Score,
		grading.DescriptionFor(cond.Grade),
		p.AveragePrice, p.LowestPrice, p.HighestPrice,
		p.Source,
	)
}

func recentScanFromResult(result *scanner.Result) storage.RecentScan {
	return storage.RecentScan{
		Title:        result.Comic.Title,
		IssueNumber:  result.Comic.IssueNumber,
		CoverImage:   result.Comic.CoverImage,
		Grade:        string(result.Condition.Grade),
		AveragePrice: result.Pricing.AveragePrice,
		Source:       result.Pricing.Source,
		ScannedAt:    result.ScannedAt,
	}
}

// handleSearch lists issues matching a free-text query.
func (b *Bot) handleSearch(ctx context.Context, msg *tgbotapi.Message, args string) {
	if args == "" {
		b.reply(msg.Chat.ID, "Usage: /search <title>")
		return
	}

	results, err := b.search.SearchComics(ctx, args)
	if err != nil {
		log.Error().Err(err).Str("query", args).Msg("search failed")
		b.reply(msg.Chat.ID, "Search failed: "+err.Error())
		return
	}
	if len(results) == 0 {
		b.reply(msg.Chat.ID, fmt.Sprintf("No issues matching %q.", args))
		return
	}

	const maxResults = 10
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d issues:\n", len(results)))
	for i, r := range results {
		if i == maxResults {
			sb.WriteString(fmt.Sprintf("...and %d more\n", len(results)-maxResults))
			break
		}
		sb.WriteString(fmt.Sprintf("%s #%s (%s, %s) [id %d]\n", r.Title, r.IssueNumber, r.Publisher, r.CoverDate, r.ID))
	}
	sb.WriteString("\nUse /facts <id> for details.")
	b.reply(msg.Chat.ID, sb.String())
}

// handleFacts replies with fun facts about an issue by its database id.
func (b *Bot) handleFacts(ctx context.Context, msg *tgbotapi.Message, args string) {
	id, err := strconv.Atoi(args)
	if err != nil {
		b.reply(msg.Chat.ID, "Usage: /facts <id>, with an id from /search results")
		return
	}

	facts := b.search.FunFacts(ctx, id)
	if len(facts) == 0 {
		b.reply(msg.Chat.ID, "No interesting facts found for that issue.")
		return
	}

	var sb strings.Builder
	for _, fact := range facts {
		sb.WriteString("• ")
		sb.WriteString(fact)
		sb.WriteString("\n")
	}
	b.reply(msg.Chat.ID, strings.TrimRight(sb.String(), "\n"))
}

// handleHistory replies with a price-trend summary for an issue.
func (b *Bot) handleHistory(ctx context.Context, msg *tgbotapi.Message, args string) {
	if args == "" {
		b.reply(msg.Chat.ID, "Usage: /history <title> #<issue>")
		return
	}

	title, issueNumber := parseTitleIssue(args)
	const days = 90
	points := b.synthetic.History(title, issueNumber, days)
	if len(points) == 0 {
		b.reply(msg.Chat.ID, "No price history available.")
		return
	}

	first := points[0]
	last := points[len(points)-1]
	change := (last.Price - first.Price) / first.Price * 100
	b.reply(msg.Chat.ID, formatReplyText(`
		%s #%s, last %d days (mock data)

		%s: $%.2f
		%s: $%.2f
		Change: %+.1f%%
	`, title, issueNumber, days, first.Date, first.Price, last.Date, last.Price, change))
}

// handleRecent lists the most recent scans, newest first.
func (b *Bot) handleRecent(ctx context.Context, msg *tgbotapi.Message) {
	scans, err := b.store.GetRecentScans()
	if err != nil {
		log.Error().Err(err).Msg("failed to load recent scans")
		b.reply(msg.Chat.ID, "Couldn't load recent scans.")
		return
	}
	if len(scans) == 0 {
		b.reply(msg.Chat.ID, "No scans yet. Send a cover photo or use /scan to get started.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Recent scans:\n")
	for i, s := range scans {
		sb.WriteString(fmt.Sprintf("%d. %s #%s, %s, $%.2f avg (%s)\n",
			i+1, s.Title, s.IssueNumber, s.Grade, s.AveragePrice, s.ScannedAt.Format("2006-01-02")))
	}
	b.reply(msg.Chat.ID, strings.TrimRight(sb.String(), "\n"))
}
