package service

import (
	"context"
	"errors"
	"testing"

	"tush00nka/bbbab_chats/internal/model"
)

func newReactionServiceFixture() (ReactionService, *fakeMembershipRepo, *fakeReactionRepo) {
	members := &fakeMembershipRepo{active: map[memberKey]bool{}}
	messages := &fakeMessageRepo{messages: []model.Message{
		{ID: 1, ChatID: 5, SenderID: 7, Content: "привет", MessageType: model.MessageTypeText},
	}}
	reactions := &fakeReactionRepo{}
	return NewReactionService(reactions, messages, members), members, reactions
}

func TestRepeatReactionCountsOnce(t *testing.T) {
	service, members, _ := newReactionServiceFixture()
	members.active[memberKey{5, 7}] = true
	members.active[memberKey{5, 9}] = true

	for i := 0; i < 3; i++ {
		if err := service.React(context.Background(), 1, 9, "👍"); err != nil {
			t.Fatalf("React() error = %v", err)
		}
	}
	if err := service.React(context.Background(), 1, 7, "👍"); err != nil {
		t.Fatalf("React() error = %v", err)
	}
	if err := service.React(context.Background(), 1, 9, "🔥"); err != nil {
		t.Fatalf("React() error = %v", err)
	}

	counts, err := service.Summarize(context.Background(), 1, 9)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("Summarize() = %v, want 2 emoji", counts)
	}
	if counts[0].Emoji != "👍" || counts[0].Count != 2 {
		t.Errorf("counts[0] = %+v, want 👍 from two users", counts[0])
	}
	if counts[1].Emoji != "🔥" || counts[1].Count != 1 {
		t.Errorf("counts[1] = %+v, want 🔥 once", counts[1])
	}
}

func TestReactRequiresActiveMembership(t *testing.T) {
	service, _, reactions := newReactionServiceFixture()

	err := service.React(context.Background(), 1, 9, "👍")

	if !errors.Is(err, ErrNotMember) {
		t.Fatalf("React() error = %v, want ErrNotMember", err)
	}
	if len(reactions.rows) != 0 {
		t.Errorf("reactions = %v, want none", reactions.rows)
	}
}

func TestReactUnknownMessage(t *testing.T) {
	service, members, _ := newReactionServiceFixture()
	members.active[memberKey{5, 9}] = true

	if err := service.React(context.Background(), 42, 9, "👍"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("React() error = %v, want ErrNotFound", err)
	}
}
