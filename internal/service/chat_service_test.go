package service

import (
	"context"
	"testing"

	"tush00nka/bbbab_chats/internal/model"
)

func TestListForUserResolvesMembershipFirst(t *testing.T) {
	members := &fakeMembershipRepo{active: map[memberKey]bool{
		{5, 9}:  true,
		{6, 9}:  false, // заблокированное членство в сводки не попадает
		{5, 7}:  true,
		{11, 7}: true,
	}}
	chats := &fakeChatRepo{chats: map[uint]*model.Chat{
		5:  {ID: 5, Type: model.ChatTypeGroup, Name: "работа"},
		6:  {ID: 6, Type: model.ChatTypeDirect},
		11: {ID: 11, Type: model.ChatTypeDirect},
	}}
	service := NewChatService(chats, members)

	summaries, err := service.ListForUser(context.Background(), 9)
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}

	if len(summaries) != 1 || summaries[0].ID != 5 {
		t.Fatalf("ListForUser() = %+v, want only chat 5", summaries)
	}
	if chats.summariesViewer != 9 {
		t.Errorf("summaries viewer = %d, want 9", chats.summariesViewer)
	}
	if len(chats.summariesFor) != 1 || chats.summariesFor[0] != 5 {
		t.Errorf("summaries requested for %v, want [5]", chats.summariesFor)
	}
}
