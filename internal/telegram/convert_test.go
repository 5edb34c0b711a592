package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/avoronin/photobattle/internal/model"
)

func TestConvertMembershipUpdate(t *testing.T) {
	u := tgbotapi.Update{
		UpdateID: 10,
		MyChatMember: &tgbotapi.ChatMemberUpdated{
			Chat: tgbotapi.Chat{ID: -100},
			From: tgbotapi.User{ID: 7, UserName: "admin"},
			NewChatMember: tgbotapi.ChatMember{
				User:   &tgbotapi.User{ID: 42},
				Status: "member",
			},
		},
	}

	ev := ConvertUpdate(u)

	assert.Equal(t, int64(10), ev.Seq)
	assert.Equal(t, model.ChatID(-100), ev.ChatID)
	assert.Equal(t, model.EventMembership, ev.Kind)
	assert.Equal(t, model.PlayerID(7), ev.Actor.ID)
	assert.Equal(t, "admin", ev.Actor.Username)
	if assert.NotNil(t, ev.Membership) {
		assert.Equal(t, model.PlayerID(42), ev.Membership.SubjectID)
		assert.Equal(t, model.MemberStatusMember, ev.Membership.NewStatus)
	}
}

func TestConvertCallbackUpdate(t *testing.T) {
	u := tgbotapi.Update{
		UpdateID: 11,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-1",
			From: &tgbotapi.User{ID: 5, FirstName: "Ann"},
			Message: &tgbotapi.Message{
				MessageID: 99,
				Chat:      &tgbotapi.Chat{ID: -100},
			},
			Data: "register",
		},
	}

	ev := ConvertUpdate(u)

	assert.Equal(t, model.EventCallback, ev.Kind)
	assert.Equal(t, model.ChatID(-100), ev.ChatID)
	assert.Equal(t, model.PlayerID(5), ev.Actor.ID)
	if assert.NotNil(t, ev.Callback) {
		assert.Equal(t, "cb-1", ev.Callback.ID)
		assert.Equal(t, 99, ev.Callback.MessageID)
		assert.Equal(t, "register", ev.Callback.Action)
	}
}

func TestConvertCallbackWithoutMessageIsUnknown(t *testing.T) {
	u := tgbotapi.Update{
		UpdateID: 12,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-2",
			From: &tgbotapi.User{ID: 5},
		},
	}

	ev := ConvertUpdate(u)
	assert.Equal(t, model.EventUnknown, ev.Kind)
}

func TestConvertTextUpdate(t *testing.T) {
	u := tgbotapi.Update{
		UpdateID: 13,
		Message: &tgbotapi.Message{
			MessageID: 1,
			Chat:      &tgbotapi.Chat{ID: -100},
			From:      &tgbotapi.User{ID: 9, UserName: "ann"},
			Text:      "/start",
		},
	}

	ev := ConvertUpdate(u)

	assert.Equal(t, model.EventText, ev.Kind)
	assert.Equal(t, model.ChatID(-100), ev.ChatID)
	assert.Equal(t, model.PlayerID(9), ev.Actor.ID)
	if assert.NotNil(t, ev.Text) {
		assert.Equal(t, "/start", ev.Text.Text)
	}
}

func TestConvertTextWithoutSenderHasEmptyActor(t *testing.T) {
	u := tgbotapi.Update{
		UpdateID: 14,
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: -100},
			Text: "channel post",
		},
	}

	ev := ConvertUpdate(u)
	assert.Equal(t, model.EventText, ev.Kind)
	assert.Equal(t, model.Actor{}, ev.Actor)
}

func TestConvertUninterestingUpdate(t *testing.T) {
	ev := ConvertUpdate(tgbotapi.Update{UpdateID: 15})
	assert.Equal(t, model.EventUnknown, ev.Kind)
	assert.Equal(t, int64(15), ev.Seq)
}
