// Package telegram adapts the platform wire API: the Poller turns
// Telegram updates into model events, the Client delivers outbound
// commands. Nothing outside this package touches wire types.
package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avoronin/photobattle/internal/model"
)

// Client wraps the Telegram Bot API as the outbound message sink and
// profile photo source
type Client struct {
	api *tgbotapi.BotAPI
}

// NewClient creates a client over an authorized bot API
func NewClient(api *tgbotapi.BotAPI) *Client {
	return &Client{api: api}
}

// BotID returns this bot's own user id
func (c *Client) BotID() model.PlayerID {
	return model.PlayerID(c.api.Self.ID)
}

// SendText sends a text message, optionally with an inline keyboard
func (c *Client) SendText(_ context.Context, chatID model.ChatID, text string, kb *model.Keyboard) error {
	msg := tgbotapi.NewMessage(int64(chatID), text)
	msg.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		msg.ReplyMarkup = toMarkup(kb)
	}
	_, err := c.api.Send(msg)
	return err
}

// EditText replaces the text (and keyboard) of an existing message
func (c *Client) EditText(_ context.Context, chatID model.ChatID, messageID int, text string, kb *model.Keyboard) error {
	var edit tgbotapi.EditMessageTextConfig
	if kb != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(int64(chatID), messageID, text, toMarkup(kb))
	} else {
		edit = tgbotapi.NewEditMessageText(int64(chatID), messageID, text)
	}
	edit.ParseMode = tgbotapi.ModeHTML
	_, err := c.api.Send(edit)
	return err
}

// SendPhoto sends a photo by its platform file reference
func (c *Client) SendPhoto(_ context.Context, chatID model.ChatID, photoRef string, kb *model.Keyboard) error {
	photo := tgbotapi.NewPhoto(int64(chatID), tgbotapi.FileID(photoRef))
	if kb != nil {
		photo.ReplyMarkup = toMarkup(kb)
	}
	_, err := c.api.Send(photo)
	return err
}

// AnswerCallback acknowledges a callback query
func (c *Client) AnswerCallback(_ context.Context, callbackID, text string, alert bool) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	cb.ShowAlert = alert
	_, err := c.api.Request(cb)
	return err
}

// UserProfilePhoto returns the file id of the user's first profile
// photo, or an empty string when the user has none
func (c *Client) UserProfilePhoto(_ context.Context, id model.PlayerID) (string, error) {
	photos, err := c.api.GetUserProfilePhotos(tgbotapi.NewUserProfilePhotos(int64(id)))
	if err != nil {
		return "", err
	}
	if len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return "", nil
	}
	return photos.Photos[0][0].FileID, nil
}

// toMarkup converts a model keyboard to the wire format
func toMarkup(kb *model.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Action))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
