// Package watcher polls market pricing for active price alerts and
// notifies the user when a comic drops to its target price.
package watcher

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/arilahde/comicscan-bot/internal/pricing"
	"github.com/arilahde/comicscan-bot/internal/storage"
)

const (
	// PollInterval is the time between polling cycles.
	PollInterval = 1 * time.Hour

	// DelayBetweenLookups spaces out pricing requests within a cycle.
	DelayBetweenLookups = 2 * time.Second
)

// BotSender abstracts the Telegram bot API for sending messages.
type BotSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Service is the background price-alert poller.
type Service struct {
	store  storage.Store
	prices pricing.Source
	bot    BotSender
	chatID int64
}

// NewService creates a watcher that reports to the given chat.
func NewService(store storage.Store, prices pricing.Source, bot BotSender, chatID int64) *Service {
	return &Service{store: store, prices: prices, bot: bot, chatID: chatID}
}

// Run starts the polling loop. It blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	log.Info().Dur("interval", PollInterval).Msg("starting price alert watcher")

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("price alert watcher stopped")
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// poll executes one polling cycle over all active alerts.
func (s *Service) poll(ctx context.Context) {
	alerts, err := s.store.GetActivePriceAlerts()
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch price alerts")
		return
	}
	if len(alerts) == 0 {
		log.Debug().Msg("no active price alerts")
		return
	}

	log.Debug().Int("alerts", len(alerts)).Msg("polling price alerts")

	for i, alert := range alerts {
		if ctx.Err() != nil {
			return
		}
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(DelayBetweenLookups):
			}
		}
		s.checkAlert(ctx, alert.ID, alert.Title, alert.IssueNumber, alert.TargetPrice)
	}
}

// checkAlert looks up current pricing for one alert and fires it when the
// average market price has dropped to the target.
func (s *Service) checkAlert(ctx context.Context, id, title, issueNumber string, targetPrice float64) {
	record := s.prices.LookupPricing(ctx, title, issueNumber)

	if err := s.store.UpdateAlertPrice(id, record.AveragePrice); err != nil {
		log.Error().Err(err).Str("alert_id", id).Msg("failed to update alert price")
	}

	// Synthetic prices would fire alerts at random
	if record.Source == pricing.SourceMock {
		log.Debug().Str("alert_id", id).Msg("skipping alert check, only synthetic pricing available")
		return
	}
	if record.AveragePrice > targetPrice {
		return
	}

	text := fmt.Sprintf(
		"Price alert: %s #%s is now averaging $%.2f (target $%.2f, source %s)",
		title, issueNumber, record.AveragePrice, targetPrice, record.Source,
	)
	if _, err := s.bot.Send(tgbotapi.NewMessage(s.chatID, text)); err != nil {
		log.Error().Err(err).Str("alert_id", id).Msg("failed to send price alert")
		return
	}

	if err := s.store.DeactivatePriceAlert(id); err != nil {
		log.Error().Err(err).Str("alert_id", id).Msg("failed to deactivate fired alert")
	}

	log.Info().
		Str("title", title).
		Str("issue", issueNumber).
		Float64("price", record.AveragePrice).
		Msg("price alert fired")
}
