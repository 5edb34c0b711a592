package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/avoronin/photobattle/internal/model"
)

// ConvertUpdate maps one Telegram update to a model event. Updates the
// bot does not care about become EventUnknown and are dropped by the
// router.
func ConvertUpdate(u tgbotapi.Update) model.Event {
	switch {
	case u.MyChatMember != nil:
		return model.Event{
			Seq:    int64(u.UpdateID),
			ChatID: model.ChatID(u.MyChatMember.Chat.ID),
			Kind:   model.EventMembership,
			Actor:  convertActor(&u.MyChatMember.From),
			Membership: &model.MembershipChange{
				SubjectID: model.PlayerID(u.MyChatMember.NewChatMember.User.ID),
				NewStatus: model.MemberStatus(u.MyChatMember.NewChatMember.Status),
			},
		}

	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil:
		cb := u.CallbackQuery
		return model.Event{
			Seq:    int64(u.UpdateID),
			ChatID: model.ChatID(cb.Message.Chat.ID),
			Kind:   model.EventCallback,
			Actor:  convertActor(cb.From),
			Callback: &model.CallbackAction{
				ID:        cb.ID,
				MessageID: cb.Message.MessageID,
				Action:    cb.Data,
			},
		}

	case u.Message != nil:
		return model.Event{
			Seq:    int64(u.UpdateID),
			ChatID: model.ChatID(u.Message.Chat.ID),
			Kind:   model.EventText,
			Actor:  convertActor(u.Message.From),
			Text:   &model.TextMessage{Text: u.Message.Text},
		}
	}

	return model.Event{Seq: int64(u.UpdateID), Kind: model.EventUnknown}
}

func convertActor(user *tgbotapi.User) model.Actor {
	if user == nil {
		return model.Actor{}
	}
	return model.Actor{
		ID:        model.PlayerID(user.ID),
		Username:  user.UserName,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
