package bot

import (
	"net/http"
	"net/http/httptest"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileServerBotAPI struct {
	fakeBotAPI
	baseURL string
}

func (f *fileServerBotAPI) GetFileDirectURL(fileID string) (string, error) {
	return f.baseURL + "/" + fileID + ".jpg", nil
}

func TestDownloadLargestPhoto(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/big.jpg", r.URL.Path, "should fetch the largest photo size")
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer ts.Close()

	b := &Bot{tg: &fileServerBotAPI{baseURL: ts.URL}}
	photos := []tgbotapi.PhotoSize{
		{FileID: "small", Width: 90, Height: 120},
		{FileID: "big", Width: 720, Height: 960},
	}

	data, err := b.downloadLargestPhoto(photos)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestDownloadLargestPhotoEmpty(t *testing.T) {
	b := &Bot{tg: &fakeBotAPI{}}
	_, err := b.downloadLargestPhoto(nil)
	assert.Error(t, err)
}

func TestDownloadLargestPhotoBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	b := &Bot{tg: &fileServerBotAPI{baseURL: ts.URL}}
	_, err := b.downloadLargestPhoto([]tgbotapi.PhotoSize{{FileID: "gone"}})
	assert.ErrorContains(t, err, "status 404")
}
