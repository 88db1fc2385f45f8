package usecase_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"marketchat/internal/pkg/chat/application/usecase"
	chat "marketchat/internal/pkg/chat/domain"
)

var _ = Describe("SendMessageUseCase", func() {
	var (
		repo *mockChatRepo
		uc   *usecase.SendMessageUseCase
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockChatRepo{}
		uc = usecase.NewSendMessageUseCase(repo)
	})

	Context("with a bound conversation", func() {
		It("persists the message unread with a generated id", func() {
			var saved chat.Message
			repo.saveFn = func(_ context.Context, m chat.Message) error {
				saved = m
				return nil
			}

			msg, err := uc.Execute(ctx, usecase.SendMessageInput{
				ConversationID: 42,
				SenderID:       "alice",
				ReceiverID:     "bob",
				Content:        "hello",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(msg.ID).NotTo(BeZero())
			Expect(saved.ID).To(Equal(msg.ID))
			Expect(saved.Read).To(BeFalse())
			Expect(saved.Content).To(Equal("hello"))
			Expect(saved.CreatedAt).NotTo(BeZero())
		})
	})

	Context("without an initiated conversation", func() {
		It("signals the protocol violation without persisting", func() {
			_, err := uc.Execute(ctx, usecase.SendMessageInput{
				SenderID:   "alice",
				ReceiverID: "bob",
				Content:    "hello",
			})

			Expect(err).To(MatchError(chat.ErrConversationNotInitiated))
			Expect(repo.calls).To(BeEmpty())
		})
	})

	Context("with empty content", func() {
		It("rejects without persisting", func() {
			_, err := uc.Execute(ctx, usecase.SendMessageInput{
				ConversationID: 42,
				SenderID:       "alice",
				ReceiverID:     "bob",
				Content:        "   ",
			})

			Expect(err).To(MatchError(chat.ErrEmptyMessage))
			Expect(repo.calls).To(BeEmpty())
		})
	})

	Context("when persistence fails", func() {
		It("wraps the failure so the gateway reports an error event", func() {
			repo.saveFn = func(_ context.Context, _ chat.Message) error {
				return errors.New("write rejected")
			}

			_, err := uc.Execute(ctx, usecase.SendMessageInput{
				ConversationID: 42,
				SenderID:       "alice",
				ReceiverID:     "bob",
				Content:        "hello",
			})

			Expect(err).To(MatchError(usecase.ErrPersistence))
		})
	})
})
