package main

import (
	"context"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/arilahde/comicscan-bot/config"
	"github.com/arilahde/comicscan-bot/internal/bot"
	"github.com/arilahde/comicscan-bot/internal/grading"
	"github.com/arilahde/comicscan-bot/internal/metron"
	"github.com/arilahde/comicscan-bot/internal/pricing"
	"github.com/arilahde/comicscan-bot/internal/scanner"
	"github.com/arilahde/comicscan-bot/internal/storage"
	"github.com/arilahde/comicscan-bot/internal/vision"
	"github.com/arilahde/comicscan-bot/internal/watcher"
)

const logFileName = "comicscan-bot.log"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	config.LoadEnvFile()

	// JOURNAL_STREAM is set by systemd when running as a service. Skip
	// file logging there, journald handles it.
	if _, underSystemd := os.LookupEnv("JOURNAL_STREAM"); underSystemd {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open log file")
		}
		defer logFile.Close()

		consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}
		fileWriter := zerolog.ConsoleWriter{Out: logFile, NoColor: true}
		log.Logger = log.Output(io.MultiWriter(consoleWriter, fileWriter))

		log.Info().Str("logFile", logFileName).Msg("logging to file")
	}

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		log.Fatal().Msg("BOT_TOKEN is not set")
	}

	dbKey := os.Getenv("COMICSCAN_DB_KEY")
	if dbKey == "" {
		log.Fatal().Msg("COMICSCAN_DB_KEY is not set")
	}

	dbPath := os.Getenv("COMICSCAN_DB_PATH")
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}

	tg, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}
	tg.Debug = false
	log.Info().Str("username", tg.Self.UserName).Msg("authorized on account")

	bot.RegisterCommands(tg)

	encryptionKey, err := storage.DeriveKey(dbKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to derive encryption key")
	}

	store, err := storage.NewSQLiteStore(dbPath, encryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer store.Close()
	log.Info().Str("dbPath", dbPath).Msg("store initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Separate sources: the pricing fallback and the condition estimator
	// run in concurrent lookups and rand.Rand is not goroutine safe.
	synthetic := pricing.NewSynthetic(rand.New(rand.NewSource(time.Now().UnixNano())))
	grader := grading.NewStubEstimator(rand.New(rand.NewSource(time.Now().UnixNano() + 1)))

	// Env takes precedence; otherwise use the key stored via /setkey.
	pcToken := os.Getenv("PRICECHARTING_TOKEN")
	if pcToken == "" {
		stored, err := store.GetAPIKey(bot.APIKeyServicePriceCharting)
		if err != nil {
			log.Warn().Err(err).Msg("failed to read stored pricecharting key")
		} else if stored != "" {
			log.Info().Msg("using stored pricecharting API key")
			pcToken = stored
		}
	}
	prices := pricing.NewPriceChartingClient(pricing.PriceChartingOpts{Token: pcToken}, synthetic)
	metadata := metron.NewClient(metron.ClientOpts{Auth: os.Getenv("METRON_AUTH")})

	var recognizer vision.Recognizer
	if os.Getenv("GEMINI_API_KEY") != "" {
		gemini, err := vision.NewGeminiRecognizer(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize cover recognizer")
		}
		recognizer = gemini
	} else {
		log.Info().Msg("GEMINI_API_KEY not set, photo scanning disabled")
	}

	sc := scanner.New(recognizer, metadata, prices, grader)
	b := bot.New(tg, store, sc, metadata, synthetic)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := tg.GetUpdatesChan(u)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				tg.StopReceivingUpdates()
				return nil
			case update := <-updates:
				b.HandleUpdate(gctx, update)
			}
		}
	})

	if chatIDStr := os.Getenv("ALERT_CHAT_ID"); chatIDStr != "" {
		chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			log.Fatal().Err(err).Msg("ALERT_CHAT_ID must be a valid integer")
		}
		w := watcher.NewService(store, prices, tg, chatID)
		g.Go(func() error {
			w.Run(gctx)
			return nil
		})
		log.Info().Int64("chatID", chatID).Msg("price alert watcher started")
	} else {
		log.Info().Msg("ALERT_CHAT_ID not set, price alert watcher disabled")
	}

	log.Info().Msg("bot started")
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("bot stopped with error")
	}
	log.Info().Msg("bot stopped")
}
