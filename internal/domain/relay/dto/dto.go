// Package dto contains data transfer objects for the relay domain
package dto

import (
	"time"

	"github.com/bhhshwXD/HDTokster/internal/domain/relay/entities"
)

// RelayStatus is the final state of one handled link
type RelayStatus string

const (
	// RelayStatusRejected means the message carried no link
	RelayStatusRejected RelayStatus = "rejected"
	// RelayStatusFailed means extraction produced no media
	RelayStatusFailed RelayStatus = "failed"
	// RelayStatusCompleted means every file was delivered
	RelayStatusCompleted RelayStatus = "completed"
	// RelayStatusPartial means at least one file could not be delivered
	RelayStatusPartial RelayStatus = "partial"
)

// StartCommandRequest represents a request to handle /start command
type StartCommandRequest struct {
	ChatID   int64  `json:"chatId"`
	Username string `json:"username"`
}

// CommandResponse represents a response for bot commands
type CommandResponse struct {
	Message string `json:"message"`
}

// LinkRequest is one incoming text message to relay
type LinkRequest struct {
	RequestID    string                `json:"requestId"`
	Conversation entities.Conversation `json:"-"`
	Text         string                `json:"text"`
}

// RelayReport summarizes how a link request was handled
type RelayReport struct {
	RequestID string        `json:"requestId"`
	Status    RelayStatus   `json:"status"`
	Files     int           `json:"files"`
	Sent      int           `json:"sent"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
	Cause     error         `json:"-"` // why a request was rejected or failed
}

// RelayCompletedEvent is published to Kafka after a link was handled
type RelayCompletedEvent struct {
	RequestID  string `json:"request_id"`
	ChatID     int64  `json:"chat_id"`
	Status     string `json:"status"`
	Files      int    `json:"files"`
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
	Reason     string `json:"reason,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	HandledAt  string `json:"handled_at"`
}
