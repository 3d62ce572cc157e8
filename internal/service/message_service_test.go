package service

import (
	"context"
	"errors"
	"testing"

	"tush00nka/bbbab_chats/internal/model"

	"gorm.io/gorm"
)

// Фейковые репозитории держат контракт хранилища в памяти, чтобы
// проверять сервисный слой без Postgres.

type memberKey struct {
	chatID uint
	userID uint
}

type fakeMembershipRepo struct {
	active map[memberKey]bool
}

func (f *fakeMembershipRepo) Add(ctx context.Context, member *model.ChatMember) error {
	key := memberKey{member.ChatID, member.UserID}
	if _, exists := f.active[key]; exists {
		// повтор пары — no-op, заблокированная строка остается заблокированной
		return nil
	}
	f.active[key] = true
	return nil
}

func (f *fakeMembershipRepo) IsActiveMember(ctx context.Context, chatID, userID uint) (bool, error) {
	return f.active[memberKey{chatID, userID}], nil
}

func (f *fakeMembershipRepo) ListChatIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	for key, isActive := range f.active {
		if isActive && key.userID == userID {
			ids = append(ids, key.chatID)
		}
	}
	return ids, nil
}

type fakeChatRepo struct {
	chats           map[uint]*model.Chat
	summariesViewer uint
	summariesFor    []uint
}

func (f *fakeChatRepo) Create(ctx context.Context, chat *model.Chat, memberIDs []uint) error {
	chat.ID = uint(len(f.chats) + 1)
	f.chats[chat.ID] = chat
	return nil
}

func (f *fakeChatRepo) GetByID(ctx context.Context, chatID uint) (*model.Chat, error) {
	chat, ok := f.chats[chatID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return chat, nil
}

func (f *fakeChatRepo) FindSavedForUser(ctx context.Context, userID uint) (*model.Chat, error) {
	return nil, nil
}

func (f *fakeChatRepo) Summaries(ctx context.Context, viewerID uint, chatIDs []uint) ([]model.ChatSummary, error) {
	f.summariesViewer = viewerID
	f.summariesFor = chatIDs
	summaries := make([]model.ChatSummary, 0, len(chatIDs))
	for _, id := range chatIDs {
		summaries = append(summaries, model.ChatSummary{ID: id})
	}
	return summaries, nil
}

type fakeMessageRepo struct {
	messages []model.Message
	patches  map[uint]map[string]any
	lastMark int
}

func (f *fakeMessageRepo) Append(ctx context.Context, msg *model.Message) error {
	msg.ID = uint(len(f.messages) + 1)
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeMessageRepo) ListAndMarkRead(ctx context.Context, chatID, readerID uint) ([]model.Message, error) {
	snapshot := []model.Message{}
	for _, msg := range f.messages {
		if msg.ChatID == chatID {
			snapshot = append(snapshot, msg)
		}
	}

	f.lastMark = 0
	if len(snapshot) == 0 {
		return snapshot, nil
	}

	lastID := snapshot[len(snapshot)-1].ID
	for i := range f.messages {
		msg := &f.messages[i]
		if msg.ChatID == chatID && msg.SenderID != readerID && !msg.IsRead && msg.ID <= lastID {
			msg.IsRead = true
			f.lastMark++
		}
	}
	return snapshot, nil
}

func (f *fakeMessageRepo) GetByID(ctx context.Context, messageID uint) (*model.Message, error) {
	for _, msg := range f.messages {
		if msg.ID == messageID {
			found := msg
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMessageRepo) ExistsInChat(ctx context.Context, messageID, chatID uint) (bool, error) {
	for _, msg := range f.messages {
		if msg.ID == messageID && msg.ChatID == chatID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMessageRepo) ClearBySender(ctx context.Context, chatID, senderID uint) error {
	for i := range f.messages {
		msg := &f.messages[i]
		if msg.ChatID == chatID && msg.SenderID == senderID {
			msg.Content = ""
			msg.MessageType = model.MessageTypeText
		}
	}
	return nil
}

func (f *fakeMessageRepo) ApplyPatch(ctx context.Context, messageID uint, assignments map[string]any) error {
	if f.patches == nil {
		f.patches = map[uint]map[string]any{}
	}
	f.patches[messageID] = assignments
	return nil
}

type fakeReactionRepo struct {
	rows []model.MessageReaction
}

func (f *fakeReactionRepo) Add(ctx context.Context, reaction *model.MessageReaction) error {
	for _, row := range f.rows {
		if row.MessageID == reaction.MessageID && row.UserID == reaction.UserID && row.Emoji == reaction.Emoji {
			// дубликат тройки — no-op
			return nil
		}
	}
	f.rows = append(f.rows, *reaction)
	return nil
}

func (f *fakeReactionRepo) Summarize(ctx context.Context, messageID uint) ([]model.ReactionCount, error) {
	counts := []model.ReactionCount{}
	for _, row := range f.rows {
		if row.MessageID != messageID {
			continue
		}
		found := false
		for i := range counts {
			if counts[i].Emoji == row.Emoji {
				counts[i].Count++
				found = true
				break
			}
		}
		if !found {
			counts = append(counts, model.ReactionCount{Emoji: row.Emoji, Count: 1})
		}
	}
	return counts, nil
}

func (f *fakeReactionRepo) SummarizeByChat(ctx context.Context, chatID uint) (map[uint][]model.ReactionCount, error) {
	return map[uint][]model.ReactionCount{}, nil
}

type fakeUserRepo struct {
	users map[uint]model.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []uint) (map[uint]model.User, error) {
	result := map[uint]model.User{}
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			user.EnsureDisplayName()
			result[id] = user
		}
	}
	return result, nil
}

type fakeAttachmentService struct {
	url    string
	err    error
	stored int
}

func (f *fakeAttachmentService) Store(ctx context.Context, data []byte, mimeType string) (string, error) {
	f.stored++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type messageServiceFixture struct {
	members  *fakeMembershipRepo
	chats    *fakeChatRepo
	messages *fakeMessageRepo
	users    *fakeUserRepo
	files    *fakeAttachmentService

	service MessageService
}

// newMessageServiceFixture собирает сервис вокруг чата 5 с владельцем 7.
func newMessageServiceFixture() *messageServiceFixture {
	members := &fakeMembershipRepo{active: map[memberKey]bool{}}
	chats := &fakeChatRepo{chats: map[uint]*model.Chat{
		5: {ID: 5, Type: model.ChatTypeGroup, Name: "работа", CreatedBy: 7},
	}}
	messages := &fakeMessageRepo{}
	users := &fakeUserRepo{users: map[uint]model.User{
		7: {ID: 7, Username: "ivan"},
		9: {ID: 9, Username: "olga"},
	}}
	files := &fakeAttachmentService{url: "https://cdn.example.com/uploads/2026/8/x.jpg"}

	return &messageServiceFixture{
		members:  members,
		chats:    chats,
		messages: messages,
		users:    users,
		files:    files,
		service:  NewMessageService(messages, members, chats, &fakeReactionRepo{}, users, files),
	}
}

func TestEditRequiresActiveMembership(t *testing.T) {
	f := newMessageServiceFixture()
	f.messages.messages = []model.Message{
		{ID: 1, ChatID: 5, SenderID: 7, Content: "привет", MessageType: model.MessageTypeText},
	}
	// членства у отправителя больше нет

	content := "изменено"
	err := f.service.Edit(context.Background(), 1, 7, MessagePatch{Content: &content})

	if !errors.Is(err, ErrNotMember) {
		t.Fatalf("Edit() error = %v, want ErrNotMember", err)
	}
	if len(f.messages.patches) != 0 {
		t.Errorf("patches = %v, want none", f.messages.patches)
	}
}

func TestEditOnlySender(t *testing.T) {
	f := newMessageServiceFixture()
	f.members.active[memberKey{5, 7}] = true
	f.members.active[memberKey{5, 9}] = true
	f.messages.messages = []model.Message{
		{ID: 1, ChatID: 5, SenderID: 7, Content: "привет", MessageType: model.MessageTypeText},
	}

	content := "чужое"
	err := f.service.Edit(context.Background(), 1, 9, MessagePatch{Content: &content})

	if !errors.Is(err, ErrNotMember) {
		t.Fatalf("Edit() error = %v, want ErrNotMember", err)
	}
	if len(f.messages.patches) != 0 {
		t.Errorf("patches = %v, want none", f.messages.patches)
	}
}

func TestEditBySenderSetsEditedFlag(t *testing.T) {
	f := newMessageServiceFixture()
	f.members.active[memberKey{5, 7}] = true
	f.messages.messages = []model.Message{
		{ID: 1, ChatID: 5, SenderID: 7, Content: "привет", MessageType: model.MessageTypeText},
	}

	content := "изменено"
	if err := f.service.Edit(context.Background(), 1, 7, MessagePatch{Content: &content}); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}

	patch := f.messages.patches[1]
	if patch["content"] != "изменено" {
		t.Errorf("patch content = %v, want %q", patch["content"], "изменено")
	}
	if patch["is_edited"] != true {
		t.Errorf("patch is_edited = %v, want true", patch["is_edited"])
	}
	if _, ok := patch["duration"]; ok {
		t.Errorf("patch = %v, duration was not in the request", patch)
	}
}

func TestEditUnknownMessage(t *testing.T) {
	f := newMessageServiceFixture()
	f.members.active[memberKey{5, 7}] = true

	content := "изменено"
	err := f.service.Edit(context.Background(), 42, 7, MessagePatch{Content: &content})

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Edit() error = %v, want ErrNotFound", err)
	}
}

func TestSendRequiresActiveMembership(t *testing.T) {
	f := newMessageServiceFixture()

	_, err := f.service.Send(context.Background(), 5, 9, SendMessageInput{
		Content:  "привет",
		FileData: []byte("payload"),
		FileType: "image/jpeg",
	})

	if !errors.Is(err, ErrNotMember) {
		t.Fatalf("Send() error = %v, want ErrNotMember", err)
	}
	if len(f.messages.messages) != 0 {
		t.Errorf("messages = %v, want none", f.messages.messages)
	}
	if f.files.stored != 0 {
		t.Errorf("attachment stored %d times, want 0", f.files.stored)
	}
}

func TestClearTouchesOnlyRequestersMessages(t *testing.T) {
	f := newMessageServiceFixture()
	f.members.active[memberKey{5, 7}] = true
	f.members.active[memberKey{5, 9}] = true
	f.messages.messages = []model.Message{
		{ID: 1, ChatID: 5, SenderID: 7, Content: "мое", MessageType: model.MessageTypeText},
		{ID: 2, ChatID: 5, SenderID: 9, Content: "чужое", MessageType: model.MessageTypeText},
	}

	if err := f.service.Clear(context.Background(), 5, 7); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if f.messages.messages[0].Content != "" {
		t.Errorf("own message content = %q, want empty", f.messages.messages[0].Content)
	}
	if f.messages.messages[1].Content != "чужое" {
		t.Errorf("other message content = %q, want untouched", f.messages.messages[1].Content)
	}
}

func TestListSnapshotPrecedesMarkRead(t *testing.T) {
	f := newMessageServiceFixture()
	f.members.active[memberKey{5, 9}] = true
	f.messages.messages = []model.Message{
		{ID: 1, ChatID: 5, SenderID: 7, Content: "привет", MessageType: model.MessageTypeText},
		{ID: 2, ChatID: 5, SenderID: 9, Content: "ответ", MessageType: model.MessageTypeText},
	}

	views, err := f.service.List(context.Background(), 5, 9)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("List() returned %d views, want 2", len(views))
	}
	// первый срез отражает состояние до пометки
	if views[0].IsRead {
		t.Errorf("first snapshot is_read = true, want false")
	}
	if f.messages.lastMark != 1 {
		t.Errorf("first mark touched %d rows, want 1", f.messages.lastMark)
	}

	views, err = f.service.List(context.Background(), 5, 9)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !views[0].IsRead {
		t.Errorf("second snapshot is_read = false, want true")
	}
	// повторная пометка ничего не трогает
	if f.messages.lastMark != 0 {
		t.Errorf("second mark touched %d rows, want 0", f.messages.lastMark)
	}
}
