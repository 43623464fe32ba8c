package bot

import (
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxPhotoBytes caps cover photo downloads.
const maxPhotoBytes = 20 * 1024 * 1024

// downloadLargestPhoto fetches the highest-resolution variant of a photo
// message from Telegram's file servers.
func (b *Bot) downloadLargestPhoto(photos []tgbotapi.PhotoSize) ([]byte, error) {
	if len(photos) == 0 {
		return nil, fmt.Errorf("no photo sizes in message")
	}
	// Telegram orders photo sizes smallest first
	largest := photos[len(photos)-1]

	url, err := b.tg.GetFileDirectURL(largest.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file URL: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photo download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	return data, nil
}
