package usecase_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"marketchat/internal/infrastructure/eventbus"
	"marketchat/internal/pkg/chat/application/usecase"
	chat "marketchat/internal/pkg/chat/domain"
)

var _ = Describe("UnreadTrackerUseCase", func() {
	var (
		repo      *mockChatRepo
		bus       *eventbus.InMemoryBus
		uc        *usecase.UnreadTrackerUseCase
		ctx       context.Context
		published []eventbus.UnreadChanged
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockChatRepo{}
		bus = eventbus.NewInMemoryBus()
		published = nil
		bus.Subscribe(eventbus.TopicNewChatMessage, func(p any) {
			if change, ok := p.(eventbus.UnreadChanged); ok {
				published = append(published, change)
			}
		})
		uc = usecase.NewUnreadTrackerUseCase(repo, bus)
	})

	Describe("HasUnread", func() {
		It("reflects the store's existence predicate", func() {
			repo.hasUnreadFn = func(_ context.Context, userID string) (bool, error) {
				return userID == "bob", nil
			}

			Expect(uc.HasUnread(ctx, "bob")).To(BeTrue())
			Expect(uc.HasUnread(ctx, "alice")).To(BeFalse())
		})

		It("rejects a malformed id before any store access", func() {
			_, err := uc.HasUnread(ctx, "")

			Expect(err).To(MatchError(chat.ErrInvalidIdentifier))
			Expect(repo.calls).To(BeEmpty())
		})
	})

	Describe("MarkRead", func() {
		It("flips in bulk and publishes the unread-changed notification", func() {
			repo.markReadFn = func(_ context.Context, conversationID int64, userID string) (int64, error) {
				Expect(conversationID).To(Equal(int64(42)))
				Expect(userID).To(Equal("bob"))
				return 3, nil
			}

			Expect(uc.MarkRead(ctx, 42, "bob")).To(Succeed())
			Expect(published).To(HaveLen(1))
			Expect(published[0].UserID).To(Equal("bob"))
		})

		It("still succeeds and notifies when nothing was left to flip", func() {
			repo.markReadFn = func(_ context.Context, _ int64, _ string) (int64, error) {
				return 0, nil
			}

			Expect(uc.MarkRead(ctx, 42, "bob")).To(Succeed())
			Expect(published).To(HaveLen(1))
		})

		It("rejects malformed identifiers before any store access", func() {
			Expect(uc.MarkRead(ctx, 0, "bob")).To(MatchError(chat.ErrInvalidIdentifier))
			Expect(uc.MarkRead(ctx, 42, "")).To(MatchError(chat.ErrInvalidIdentifier))
			Expect(repo.calls).To(BeEmpty())
			Expect(published).To(BeEmpty())
		})

		It("does not notify when the bulk update fails", func() {
			repo.markReadFn = func(_ context.Context, _ int64, _ string) (int64, error) {
				return 0, errors.New("store unavailable")
			}

			err := uc.MarkRead(ctx, 42, "bob")

			Expect(err).To(MatchError(usecase.ErrPersistence))
			Expect(published).To(BeEmpty())
		})
	})
})
