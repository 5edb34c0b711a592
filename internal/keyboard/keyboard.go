// Package keyboard defines the callback action tags and the inline
// keyboards attached to outbound messages.
package keyboard

import "github.com/avoronin/photobattle/internal/model"

// Callback action tags. The router maps these to handlers; changing a
// tag invalidates buttons already posted to chats.
const (
	ActionStartRegistration  = "start_registration"
	ActionStatistics         = "statistics"
	ActionRegister           = "register"
	ActionFinishRegistration = "finish_registration"
	ActionPlayRound          = "play_round"
	ActionFirstPhoto         = "first_photo"
	ActionSecondPhoto        = "second_photo"
	ActionFinishRound        = "finish_round"
	ActionNextRound          = "next_round"
	ActionExit               = "exit"
)

var (
	startRegistrationButton  = model.Button{Text: "Start registration", Action: ActionStartRegistration}
	statisticsButton         = model.Button{Text: "Statistics", Action: ActionStatistics}
	registerButton           = model.Button{Text: "Join the battle", Action: ActionRegister}
	finishRegistrationButton = model.Button{Text: "Finish registration", Action: ActionFinishRegistration}
	playRoundButton          = model.Button{Text: "Play a round", Action: ActionPlayRound}
	firstPhotoButton         = model.Button{Text: "Vote for this photo", Action: ActionFirstPhoto}
	secondPhotoButton        = model.Button{Text: "Vote for this photo", Action: ActionSecondPhoto}
	finishRoundButton        = model.Button{Text: "Finish the round", Action: ActionFinishRound}
	nextRoundButton          = model.Button{Text: "Next round", Action: ActionNextRound}
	exitButton               = model.Button{Text: "Exit the game", Action: ActionExit}
)

// Keyboards for each stage of the game
var (
	Beginning    = rows(row(startRegistrationButton), row(statisticsButton))
	Registration = rows(row(registerButton), row(finishRegistrationButton), row(exitButton))
	Gameplay     = rows(row(playRoundButton), row(exitButton))
	FirstPhoto   = rows(row(firstPhotoButton))
	SecondPhoto  = rows(row(secondPhotoButton))
	FinishRound  = rows(row(finishRoundButton))
	NextRound    = rows(row(nextRoundButton), row(exitButton))
	FinishGame   = rows(row(exitButton))
)

func row(buttons ...model.Button) []model.Button {
	return buttons
}

func rows(r ...[]model.Button) *model.Keyboard {
	return &model.Keyboard{Rows: r}
}
