package usecase_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"marketchat/internal/pkg/chat/application/usecase"
	chat "marketchat/internal/pkg/chat/domain"
)

var _ = Describe("ResolveConversationUseCase", func() {
	var (
		repo *mockChatRepo
		uc   *usecase.ResolveConversationUseCase
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockChatRepo{}
		uc = usecase.NewResolveConversationUseCase(repo)
	})

	Context("when the pair is valid", func() {
		It("normalizes the pair and assigns a candidate id", func() {
			var captured chat.Conversation
			repo.findOrCreateFn = func(_ context.Context, candidate chat.Conversation) (chat.Conversation, error) {
				captured = candidate
				return candidate, nil
			}

			conv, err := uc.Execute(ctx, usecase.ResolveConversationInput{SenderID: "bob", ReceiverID: "alice"})

			Expect(err).NotTo(HaveOccurred())
			Expect(conv).NotTo(BeNil())
			Expect(captured.ParticipantLow).To(Equal("alice"))
			Expect(captured.ParticipantHigh).To(Equal("bob"))
			Expect(captured.ID).NotTo(BeZero())
		})

		It("returns the store's surviving record, not the candidate", func() {
			existing := chat.Conversation{ID: 7, ParticipantLow: "alice", ParticipantHigh: "bob"}
			repo.findOrCreateFn = func(_ context.Context, _ chat.Conversation) (chat.Conversation, error) {
				return existing, nil
			}

			conv, err := uc.Execute(ctx, usecase.ResolveConversationInput{SenderID: "alice", ReceiverID: "bob"})

			Expect(err).NotTo(HaveOccurred())
			Expect(conv.ID).To(Equal(int64(7)))
		})
	})

	Context("when the pair is invalid", func() {
		It("rejects a self pair before touching the store", func() {
			_, err := uc.Execute(ctx, usecase.ResolveConversationInput{SenderID: "alice", ReceiverID: "alice"})

			Expect(err).To(MatchError(chat.ErrInvalidParticipantPair))
			Expect(repo.calls).To(BeEmpty())
		})

		It("rejects an empty counterpart", func() {
			_, err := uc.Execute(ctx, usecase.ResolveConversationInput{SenderID: "alice", ReceiverID: ""})

			Expect(err).To(MatchError(chat.ErrInvalidParticipantPair))
			Expect(repo.calls).To(BeEmpty())
		})
	})

	Context("when the store fails", func() {
		It("wraps the failure as a persistence error", func() {
			repo.findOrCreateFn = func(_ context.Context, _ chat.Conversation) (chat.Conversation, error) {
				return chat.Conversation{}, errors.New("connection refused")
			}

			_, err := uc.Execute(ctx, usecase.ResolveConversationInput{SenderID: "alice", ReceiverID: "bob"})

			Expect(err).To(MatchError(usecase.ErrPersistence))
		})
	})
})
