package models

import (
	"sort"
	"strings"
	"time"

	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

// HQUserID is the fixed system account every user gets a conversation with.
const HQUserID = "user_hq"

// ChatMember is the denormalized display info of one member.
type ChatMember struct {
	Name      string `bson:"name" json:"name"`
	AvatarURL string `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
}

// Chat is a two-member conversation in the chats collection.
type Chat struct {
	ID            string                `bson:"_id" json:"id"`
	Members       []string              `bson:"members" json:"members"`
	MemberInfo    map[string]ChatMember `bson:"memberInfo" json:"memberInfo"`
	LastMessage   string                `bson:"lastMessage" json:"lastMessage"`
	LastMessageAt time.Time             `bson:"lastMessageAt" json:"lastMessageAt"`
	Unread        map[string]int        `bson:"unread" json:"unread"`
	IsSystem      bool                  `bson:"isSystem" json:"isSystem"`
	CreatedAt     time.Time             `bson:"createdAt" json:"createdAt"`
}

// HasMember reports whether userID takes part in the chat.
func (c *Chat) HasMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// Peer returns the other member of the conversation.
func (c *Chat) Peer(userID string) string {
	for _, m := range c.Members {
		if m != userID {
			return m
		}
	}
	return ""
}

// ApplyMessage updates the conversation summary for a new message: the preview
// and timestamp move forward, the sender's unread counter is reset and every
// other member's counter grows by one.
func (c *Chat) ApplyMessage(senderID, preview string, at time.Time) {
	c.LastMessage = preview
	c.LastMessageAt = at
	if c.Unread == nil {
		c.Unread = make(map[string]int, len(c.Members))
	}
	for _, m := range c.Members {
		if m == senderID {
			c.Unread[m] = 0
			continue
		}
		c.Unread[m]++
	}
}

// DirectChatID derives the conversation id for two members, independent of order.
func DirectChatID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return "dm_" + ids[0] + "_" + ids[1]
}

// HQChatID derives the HQ conversation id for a user.
func HQChatID(userID string) string {
	return "hq_" + userID
}

// SortChats orders a conversation list: system conversations first, then the
// most recent activity first.
func SortChats(chats []*Chat) {
	sort.SliceStable(chats, func(i, j int) bool {
		if chats[i].IsSystem != chats[j].IsSystem {
			return chats[i].IsSystem
		}
		return chats[i].LastMessageAt.After(chats[j].LastMessageAt)
	})
}

// MessageKind tells which optional parts a message carries.
type MessageKind string

const (
	MessageKindText         MessageKind = "text"
	MessageKindImage        MessageKind = "image"
	MessageKindTextAndImage MessageKind = "text_image"
)

// Message is stored in the messages collection, one document per message.
type Message struct {
	ID        string    `bson:"_id" json:"id"`
	ChatID    string    `bson:"chatId" json:"chatId"`
	SenderID  string    `bson:"senderId" json:"senderId"`
	Text      string    `bson:"text,omitempty" json:"text,omitempty"`
	ImageURL  string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	ReadBy    []string  `bson:"readBy" json:"readBy"`
}

// Kind returns the message shape. Validated messages always have one.
func (m *Message) Kind() MessageKind {
	switch {
	case m.Text != "" && m.ImageURL != "":
		return MessageKindTextAndImage
	case m.ImageURL != "":
		return MessageKindImage
	default:
		return MessageKindText
	}
}

// Preview is the text shown in the conversation list for the message.
func (m *Message) Preview() string {
	if m.Kind() == MessageKindImage {
		return "📷 Photo"
	}
	return m.Text
}

// ValidateMessage trims the text and rejects messages with neither text nor image.
func ValidateMessage(m *Message) error {
	m.Text = strings.TrimSpace(m.Text)
	m.ImageURL = strings.TrimSpace(m.ImageURL)
	if m.Text == "" && m.ImageURL == "" {
		return &utils.ValidationError{Field: "text", Message: "A message needs text or an image"}
	}
	return nil
}
