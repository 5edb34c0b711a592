package sender

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/avoronin/photobattle/internal/model"
	"github.com/avoronin/photobattle/internal/queue"
	"github.com/avoronin/photobattle/internal/testutil"
)

// recordedCall is one sink invocation flattened for assertions
type recordedCall struct {
	op     string
	chatID model.ChatID
	text   string
}

type recordingSink struct {
	mu    sync.Mutex
	calls []recordedCall
	// failOn makes the named op return an error
	failOn string
}

func (r *recordingSink) record(op string, chatID model.ChatID, text string) error {
	r.mu.Lock()
	r.calls = append(r.calls, recordedCall{op: op, chatID: chatID, text: text})
	r.mu.Unlock()
	if r.failOn == op {
		return errors.New("platform unavailable")
	}
	return nil
}

func (r *recordingSink) recorded() []recordedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedCall(nil), r.calls...)
}

func (r *recordingSink) SendText(_ context.Context, chatID model.ChatID, text string, _ *model.Keyboard) error {
	return r.record("send_text", chatID, text)
}

func (r *recordingSink) EditText(_ context.Context, chatID model.ChatID, _ int, text string, _ *model.Keyboard) error {
	return r.record("edit_text", chatID, text)
}

func (r *recordingSink) SendPhoto(_ context.Context, chatID model.ChatID, photoRef string, _ *model.Keyboard) error {
	return r.record("send_photo", chatID, photoRef)
}

func (r *recordingSink) AnswerCallback(_ context.Context, callbackID, text string, _ bool) error {
	return r.record("answer_callback", 0, text)
}

type SenderSuite struct {
	suite.Suite
	outbound *queue.Queue[model.Command]
	sink     *recordingSink
	sender   *Sender
}

func TestSenderSuite(t *testing.T) {
	suite.Run(t, new(SenderSuite))
}

func (s *SenderSuite) SetupTest() {
	s.outbound = queue.New[model.Command]()
	s.sink = &recordingSink{}
	s.sender = New(s.outbound, s.sink, testutil.NopLogger())
}

func (s *SenderSuite) TestDeliversInOrder() {
	cmds := []model.Command{
		model.SendText(1, "one", nil),
		model.SendPhoto(1, "photo-ref", nil),
		model.EditText(2, 10, "two", nil),
		model.AnswerCallback("cb", "three", false),
	}
	for _, cmd := range cmds {
		s.Require().True(s.outbound.Put(cmd))
	}

	s.sender.Start(context.Background())
	s.sender.Stop()

	calls := s.sink.recorded()
	s.Require().Len(calls, 4)
	s.Equal(recordedCall{op: "send_text", chatID: 1, text: "one"}, calls[0])
	s.Equal(recordedCall{op: "send_photo", chatID: 1, text: "photo-ref"}, calls[1])
	s.Equal(recordedCall{op: "edit_text", chatID: 2, text: "two"}, calls[2])
	s.Equal(recordedCall{op: "answer_callback", text: "three"}, calls[3])
}

func (s *SenderSuite) TestUnknownKindDropped() {
	s.Require().True(s.outbound.Put(model.Command{Kind: model.CommandKind("bogus")}))
	s.Require().True(s.outbound.Put(model.SendText(1, "after", nil)))

	s.sender.Start(context.Background())
	s.sender.Stop()

	calls := s.sink.recorded()
	s.Require().Len(calls, 1)
	s.Equal("after", calls[0].text)
}

func (s *SenderSuite) TestDeliveryErrorDoesNotStopLoop() {
	s.sink.failOn = "send_photo"

	s.Require().True(s.outbound.Put(model.SendPhoto(1, "broken", nil)))
	s.Require().True(s.outbound.Put(model.SendText(1, "still delivered", nil)))

	s.sender.Start(context.Background())
	s.sender.Stop()

	calls := s.sink.recorded()
	s.Require().Len(calls, 2)
	s.Equal("still delivered", calls[1].text)
}

func (s *SenderSuite) TestStopDrainsPendingCommands() {
	s.sender.Start(context.Background())
	for i := 0; i < 100; i++ {
		s.Require().True(s.outbound.Put(model.SendText(model.ChatID(i), "msg", nil)))
	}
	s.sender.Stop()

	s.Len(s.sink.recorded(), 100)
	s.False(s.outbound.Put(model.SendText(1, "late", nil)), "outbound must be closed after Stop")
}
