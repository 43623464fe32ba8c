package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// Command defines a bot command with its Telegram menu description.
type Command struct {
	Name        string // Command name without slash (e.g., "scan")
	Description string // Description shown in Telegram command menu
}

// botCommands defines all available bot commands.
// This is the single source of truth for command definitions.
var botCommands = []Command{
	{Name: "start", Description: "Welcome and mode selection"},
	{Name: "mode", Description: "Switch between collector and dealer mode"},
	{Name: "scan", Description: "Look up a comic, e.g. /scan Amazing Spider-Man #300"},
	{Name: "search", Description: "Search the comic database"},
	{Name: "facts", Description: "Fun facts about an issue by database id"},
	{Name: "add", Description: "Save the last scanned comic"},
	{Name: "collection", Description: "Show your collection"},
	{Name: "stats", Description: "Collection statistics"},
	{Name: "dealer", Description: "Dealer inventory and sales statistics"},
	{Name: "sold", Description: "Mark an inventory item sold, e.g. /sold 2 180"},
	{Name: "listing", Description: "Generate a seller listing for the last scan"},
	{Name: "want", Description: "Manage your want list"},
	{Name: "alert", Description: "Set a price alert, e.g. /alert Amazing Spider-Man #300 100"},
	{Name: "history", Description: "Price history for an issue"},
	{Name: "recent", Description: "Recent scans"},
	{Name: "settings", Description: "Show settings"},
	{Name: "setkey", Description: "Store a pricing service API key"},
	{Name: "reset", Description: "Erase all saved data"},
}

// RegisterCommands sets the bot's command menu in Telegram.
// This should be called once at startup.
func RegisterCommands(tg *tgbotapi.BotAPI) {
	commands := make([]tgbotapi.BotCommand, len(botCommands))
	for i, cmd := range botCommands {
		commands[i] = tgbotapi.BotCommand{
			Command:     cmd.Name,
			Description: cmd.Description,
		}
	}

	config := tgbotapi.NewSetMyCommands(commands...)
	if _, err := tg.Request(config); err != nil {
		log.Error().Err(err).Msg("failed to set bot commands")
	} else {
		log.Info().Int("count", len(commands)).Msg("registered bot commands")
	}
}
