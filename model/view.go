package model

import "time"

// Read-side projections. They join display data onto the core records and are
// never written back.

type ConversationView struct {
	Conversation

	User1Name      string  `gorm:"column:user1_name" json:"user1_name"`
	User1Firstname string  `gorm:"column:user1_firstname" json:"user1_firstname"`
	User1Phone     string  `gorm:"column:user1_phone" json:"user1_phone,omitempty"`
	User2Name      string  `gorm:"column:user2_name" json:"user2_name"`
	User2Firstname string  `gorm:"column:user2_firstname" json:"user2_firstname"`
	User2Phone     string  `gorm:"column:user2_phone" json:"user2_phone,omitempty"`
	CarTitle       string  `gorm:"column:car_title" json:"car_title"`
	CarPhoto       *string `gorm:"column:car_photo" json:"car_photos"`
}

// ConversationSummary is a list-view row seen from one participant.
type ConversationSummary struct {
	ConversationView

	OtherUserID        int64      `gorm:"-" json:"other_user_id"`
	OtherUserName      string     `gorm:"-" json:"other_user_name"`
	OtherUserFirstname string     `gorm:"-" json:"other_user_firstname"`
	LastMessage        *string    `gorm:"column:last_message" json:"last_message"`
	LastMessageTime    *time.Time `gorm:"column:last_message_time" json:"last_message_time"`
	LastMessageSender  *int64     `gorm:"column:last_message_sender_id" json:"last_message_sender_id"`
}

type MessageView struct {
	Message

	SenderName        string `gorm:"column:sender_name" json:"sender_name"`
	SenderFirstname   string `gorm:"column:sender_firstname" json:"sender_firstname"`
	ReceiverName      string `gorm:"column:receiver_name" json:"receiver_name"`
	ReceiverFirstname string `gorm:"column:receiver_firstname" json:"receiver_firstname"`
}
