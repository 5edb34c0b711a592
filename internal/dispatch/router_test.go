package dispatch

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/avoronin/photobattle/internal/keyboard"
	"github.com/avoronin/photobattle/internal/model"
)

const stubBotID = model.PlayerID(42)

// stubHandlers records which handler was invoked; behavior can be
// overridden per test through fn
type stubHandlers struct {
	mu    sync.Mutex
	calls []string
	fn    func(name string, ev model.Event) error
}

func (s *stubHandlers) record(name string, ev model.Event) error {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		return fn(name, ev)
	}
	return nil
}

func (s *stubHandlers) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubHandlers) BotJoined(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("BotJoined", ev)
}

func (s *stubHandlers) BotLeft(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("BotLeft", ev)
}

func (s *stubHandlers) PromptBeginning(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("PromptBeginning", ev)
}

func (s *stubHandlers) PromptRegistration(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("PromptRegistration", ev)
}

func (s *stubHandlers) PromptGameplay(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("PromptGameplay", ev)
}

func (s *stubHandlers) PromptStartRound(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("PromptStartRound", ev)
}

func (s *stubHandlers) PromptFinishRound(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("PromptFinishRound", ev)
}

func (s *stubHandlers) Help(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("Help", ev)
}

func (s *stubHandlers) StartRegistration(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("StartRegistration", ev)
}

func (s *stubHandlers) ShowStatistics(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("ShowStatistics", ev)
}

func (s *stubHandlers) RegisterPlayer(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("RegisterPlayer", ev)
}

func (s *stubHandlers) FinishRegistration(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("FinishRegistration", ev)
}

func (s *stubHandlers) PlayRound(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("PlayRound", ev)
}

func (s *stubHandlers) VoteFirst(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("VoteFirst", ev)
}

func (s *stubHandlers) VoteSecond(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("VoteSecond", ev)
}

func (s *stubHandlers) FinishRound(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("FinishRound", ev)
}

func (s *stubHandlers) NextRound(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("NextRound", ev)
}

func (s *stubHandlers) Exit(_ context.Context, ev model.Event, _ *model.Game) error {
	return s.record("Exit", ev)
}

type RouterSuite struct {
	suite.Suite
	handlers *stubHandlers
	router   *Router
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.handlers = &stubHandlers{}
	s.router = NewRouter(stubBotID, s.handlers)
}

// routed resolves the event and returns the invoked handler name, or
// "" when the event was dropped
func (s *RouterSuite) routed(ev model.Event, g *model.Game) string {
	h := s.router.Route(ev, g)
	if h == nil {
		return ""
	}
	s.Require().NoError(h(context.Background(), ev, g))
	calls := s.handlers.recorded()
	s.Require().NotEmpty(calls)
	return calls[len(calls)-1]
}

func membership(subject model.PlayerID, status model.MemberStatus) model.Event {
	return model.Event{
		Kind: model.EventMembership,
		Membership: &model.MembershipChange{
			SubjectID: subject,
			NewStatus: status,
		},
	}
}

func callback(action string) model.Event {
	return model.Event{
		Kind:     model.EventCallback,
		Callback: &model.CallbackAction{ID: "cb", Action: action},
	}
}

func textMessage(body string) model.Event {
	return model.Event{
		Kind: model.EventText,
		Text: &model.TextMessage{Text: body},
	}
}

func (s *RouterSuite) TestBotMembershipRoutes() {
	s.Equal("BotJoined", s.routed(membership(stubBotID, model.MemberStatusMember), nil))
	s.Equal("BotLeft", s.routed(membership(stubBotID, model.MemberStatusLeft), nil))
}

func (s *RouterSuite) TestOtherUsersMembershipDropped() {
	s.Empty(s.routed(membership(stubBotID+1, model.MemberStatusMember), nil))
}

func (s *RouterSuite) TestUnknownMemberStatusDropped() {
	s.Empty(s.routed(membership(stubBotID, model.MemberStatus("administrator")), nil))
}

func (s *RouterSuite) TestCallbackActionsRoute() {
	expected := map[string]string{
		keyboard.ActionStartRegistration:  "StartRegistration",
		keyboard.ActionStatistics:         "ShowStatistics",
		keyboard.ActionRegister:           "RegisterPlayer",
		keyboard.ActionFinishRegistration: "FinishRegistration",
		keyboard.ActionPlayRound:          "PlayRound",
		keyboard.ActionFirstPhoto:         "VoteFirst",
		keyboard.ActionSecondPhoto:        "VoteSecond",
		keyboard.ActionFinishRound:        "FinishRound",
		keyboard.ActionNextRound:          "NextRound",
		keyboard.ActionExit:               "Exit",
	}
	for action, want := range expected {
		s.Equal(want, s.routed(callback(action), nil), "action %q", action)
	}
}

func (s *RouterSuite) TestUnknownCallbackActionDropped() {
	s.Empty(s.routed(callback("no_such_action"), nil))
}

func (s *RouterSuite) TestStartRoutesByGameState() {
	expected := map[model.GameState]string{
		model.GameStateBeginning:    "PromptBeginning",
		model.GameStateRegistration: "PromptRegistration",
		model.GameStateGameplay:     "PromptGameplay",
		model.GameStateStartRound:   "PromptStartRound",
		model.GameStateFinishRound:  "PromptFinishRound",
	}
	for state, want := range expected {
		g := &model.Game{State: state}
		s.Equal(want, s.routed(textMessage("/start"), g), "state %q", state)
	}
}

func (s *RouterSuite) TestStartWithBotMentionRoutes() {
	g := &model.Game{State: model.GameStateBeginning}
	s.Equal("PromptBeginning", s.routed(textMessage("/start@photobattlebot"), g))
}

func (s *RouterSuite) TestStartWithoutGameDropped() {
	s.Empty(s.routed(textMessage("/start"), nil))
}

func (s *RouterSuite) TestStartInRemovedStateDropped() {
	g := &model.Game{State: model.GameStateRemoved}
	s.Empty(s.routed(textMessage("/start"), g))
}

func (s *RouterSuite) TestHelpRoutesWithoutGame() {
	s.Empty(s.handlers.recorded())
	s.Equal("Help", s.routed(textMessage("/help"), nil))
}

func (s *RouterSuite) TestPlainTextDropped() {
	s.Empty(s.routed(textMessage("hello there"), nil))
}

func (s *RouterSuite) TestUnknownEventKindDropped() {
	s.Empty(s.routed(model.Event{Kind: model.EventUnknown}, nil))
}
