package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/realtime"
	"github.com/AnshRaj112/coffeemates-backend/internal/storage"
	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

const (
	// HQWelcomeText opens every HQ conversation.
	HQWelcomeText = "Welcome to Coffeemates ☕️ Let’s discover cozy cafés together."
	// HQName is shown when the HQ profile cannot be loaded.
	HQName = "Coffeemates HQ"
)

// MessageInput is a message to send. Image may be nil.
type MessageInput struct {
	Text  string
	Image io.Reader
}

// ChatService manages conversations and their messages.
type ChatService struct {
	chats    storage.Chats
	users    storage.Users
	settings *SettingsService
	uploader Uploader
	notifier Notifier
	log      logrus.FieldLogger

	now func() time.Time
}

func NewChatService(chats storage.Chats, users storage.Users, settings *SettingsService, uploader Uploader, notifier Notifier) *ChatService {
	return &ChatService{
		chats:    chats,
		users:    users,
		settings: settings,
		uploader: uploader,
		notifier: notifier,
		log:      logrus.WithField("service", "chat"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func memberInfo(u *models.User) models.ChatMember {
	return models.ChatMember{Name: u.Name, AvatarURL: u.AvatarURL}
}

// EnsureHQChat makes sure viewer has its HQ conversation. The existence check,
// the conversation write and the welcome message are separate writes; a crash
// in between leaves a conversation without a welcome message.
func (s *ChatService) EnsureHQChat(ctx context.Context, viewer *models.User) (*models.Chat, error) {
	id := models.HQChatID(viewer.ID)

	c, err := s.chats.GetChat(ctx, id)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check hq chat: %w", err)
	}

	hq := models.ChatMember{Name: HQName}
	if u, err := s.users.GetUser(ctx, models.HQUserID); err == nil {
		hq = memberInfo(u)
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.log.WithError(err).Warn("failed to load hq profile")
	}

	now := s.now()
	c = &models.Chat{
		ID:      id,
		Members: []string{viewer.ID, models.HQUserID},
		MemberInfo: map[string]models.ChatMember{
			viewer.ID:       memberInfo(viewer),
			models.HQUserID: hq,
		},
		LastMessage:   HQWelcomeText,
		LastMessageAt: now,
		Unread:        map[string]int{viewer.ID: 0, models.HQUserID: 0},
		IsSystem:      true,
		CreatedAt:     now,
	}

	err = s.chats.CreateChat(ctx, c)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return s.chats.GetChat(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create hq chat: %w", err)
	}

	welcome := &models.Message{
		ID:        uuid.NewString(),
		ChatID:    id,
		SenderID:  models.HQUserID,
		Text:      HQWelcomeText,
		CreatedAt: now,
		ReadBy:    []string{},
	}
	if err := s.chats.AddMessage(ctx, welcome); err != nil {
		return nil, fmt.Errorf("failed to add welcome message: %w", err)
	}

	s.notifier.PublishAll(ctx, realtime.ChatsTopic(viewer.ID))
	return c, nil
}

// OpenDirectChat returns the conversation between viewer and peerID, creating
// it when the peer's privacy setting allows.
func (s *ChatService) OpenDirectChat(ctx context.Context, viewer *models.User, peerID string) (*models.Chat, error) {
	if peerID == "" || peerID == viewer.ID {
		return nil, &utils.ValidationError{Field: "userId", Message: "Pick someone else to chat with"}
	}
	if peerID == models.HQUserID {
		return s.EnsureHQChat(ctx, viewer)
	}

	id := models.DirectChatID(viewer.ID, peerID)
	c, err := s.chats.GetChat(ctx, id)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	peer, err := s.users.GetUser(ctx, peerID)
	if err != nil {
		return nil, err
	}

	ok, err := s.settings.AcceptsMessagesFrom(ctx, peer, viewer.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	now := s.now()
	c = &models.Chat{
		ID:      id,
		Members: []string{viewer.ID, peer.ID},
		MemberInfo: map[string]models.ChatMember{
			viewer.ID: memberInfo(viewer),
			peer.ID:   memberInfo(peer),
		},
		LastMessageAt: now,
		Unread:        map[string]int{viewer.ID: 0, peer.ID: 0},
		CreatedAt:     now,
	}

	err = s.chats.CreateChat(ctx, c)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return s.chats.GetChat(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	s.notifier.PublishAll(ctx, realtime.ChatsTopic(viewer.ID), realtime.ChatsTopic(peer.ID))
	return c, nil
}

// ListChats returns viewerID's conversations, system conversations first and
// then by recent activity. A non-empty search keeps conversations whose peer
// name contains it.
func (s *ChatService) ListChats(ctx context.Context, viewerID, search string) ([]*models.Chat, error) {
	chats, err := s.chats.ListChats(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(search))
	if q != "" {
		filtered := chats[:0]
		for _, c := range chats {
			peer := c.MemberInfo[c.Peer(viewerID)]
			if strings.Contains(strings.ToLower(peer.Name), q) {
				filtered = append(filtered, c)
			}
		}
		chats = filtered
	}

	models.SortChats(chats)
	return chats, nil
}

func (s *ChatService) memberChat(ctx context.Context, chatID, viewerID string) (*models.Chat, error) {
	c, err := s.chats.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !c.HasMember(viewerID) {
		return nil, ErrForbidden
	}
	return c, nil
}

// Messages returns the messages of chatID, oldest first.
func (s *ChatService) Messages(ctx context.Context, chatID, viewerID string) ([]*models.Message, error) {
	if _, err := s.memberChat(ctx, chatID, viewerID); err != nil {
		return nil, err
	}
	return s.chats.ListMessages(ctx, chatID)
}

// SendMessage stores a message from senderID and updates the conversation summary.
func (s *ChatService) SendMessage(ctx context.Context, chatID, senderID string, in MessageInput) (*models.Message, *models.Chat, error) {
	if strings.TrimSpace(in.Text) == "" && in.Image == nil {
		return nil, nil, &utils.ValidationError{Field: "text", Message: "A message needs text or an image"}
	}

	c, err := s.memberChat(ctx, chatID, senderID)
	if err != nil {
		return nil, nil, err
	}

	m := &models.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      in.Text,
		CreatedAt: s.now(),
		ReadBy:    []string{senderID},
	}

	if in.Image != nil {
		url, err := s.uploader.Upload(ctx, in.Image, FolderChat)
		if err != nil {
			return nil, nil, err
		}
		m.ImageURL = url
	}

	if err := models.ValidateMessage(m); err != nil {
		return nil, nil, err
	}

	if err := s.chats.AddMessage(ctx, m); err != nil {
		return nil, nil, fmt.Errorf("failed to store message: %w", err)
	}

	preview := m.Preview()
	if err := s.chats.ApplyMessage(ctx, c, senderID, preview, m.CreatedAt); err != nil {
		return nil, nil, fmt.Errorf("failed to update chat summary: %w", err)
	}
	c.ApplyMessage(senderID, preview, m.CreatedAt)
	messagesSent.WithLabelValues(string(m.Kind())).Inc()

	topics := []string{realtime.MessagesTopic(chatID)}
	for _, member := range c.Members {
		topics = append(topics, realtime.ChatsTopic(member))
	}
	s.notifier.PublishAll(ctx, topics...)

	return m, c, nil
}

// MarkRead records that viewerID has read every message of chatID.
func (s *ChatService) MarkRead(ctx context.Context, chatID, viewerID string) error {
	if _, err := s.memberChat(ctx, chatID, viewerID); err != nil {
		return err
	}

	if err := s.chats.MarkMessagesRead(ctx, chatID, viewerID); err != nil {
		return err
	}
	if err := s.chats.ResetUnread(ctx, chatID, viewerID); err != nil {
		return err
	}

	s.notifier.PublishAll(ctx, realtime.MessagesTopic(chatID), realtime.ChatsTopic(viewerID))
	return nil
}
