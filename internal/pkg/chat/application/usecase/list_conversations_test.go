package usecase_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"marketchat/internal/pkg/chat/application/usecase"
	chat "marketchat/internal/pkg/chat/domain"
)

var _ = Describe("ListConversationsUseCase", func() {
	var (
		repo *mockChatRepo
		uc   *usecase.ListConversationsUseCase
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockChatRepo{}
		dir := &mockDirectory{names: map[string]string{"bob": "Bob the Seller"}}
		uc = usecase.NewListConversationsUseCase(repo, dir)
	})

	It("annotates each conversation with the counterpart's display name", func() {
		repo.listFn = func(_ context.Context, _ string) ([]chat.Conversation, error) {
			return []chat.Conversation{
				{ID: 1, ParticipantLow: "alice", ParticipantHigh: "bob"},
			}, nil
		}

		views, err := uc.Execute(ctx, "alice")

		Expect(err).NotTo(HaveOccurred())
		Expect(views).To(HaveLen(1))
		Expect(views[0].CounterpartID).To(Equal("bob"))
		Expect(views[0].CounterpartName).To(Equal("Bob the Seller"))
	})

	It("leaves the name empty when the profile is unknown", func() {
		repo.listFn = func(_ context.Context, _ string) ([]chat.Conversation, error) {
			return []chat.Conversation{
				{ID: 1, ParticipantLow: "alice", ParticipantHigh: "ghost"},
			}, nil
		}

		views, err := uc.Execute(ctx, "alice")

		Expect(err).NotTo(HaveOccurred())
		Expect(views[0].CounterpartName).To(BeEmpty())
	})

	It("rejects an empty caller id", func() {
		_, err := uc.Execute(ctx, "")

		Expect(err).To(MatchError(chat.ErrInvalidIdentifier))
		Expect(repo.calls).To(BeEmpty())
	})
})
