package models

import "encoding/json"

// ErrorResponse is a standardized error response for API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Profile is the user profile object owned by the message store. Only the
// fields the relay reads are modeled; everything else stays in Raw so the
// store can evolve its schema without breaking us.
type Profile struct {
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`

	Raw json.RawMessage `json:"-"`
}

/** -------------------- DTOs -------------------- */

// Request
type ProfileRequest struct {
	UserID int64 `json:"user_id"`
}

type SendMessageRequest struct {
	InitData  string `json:"init_data"`
	Text      string `json:"text"`
	ReplyToID *int64 `json:"reply_to_id,omitempty"`
}

// Response
type SendMessageResponse struct {
	Success bool            `json:"success"`
	Message json.RawMessage `json:"message"`
}

type OnlineCountResponse struct {
	Count int `json:"count"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	OnlineUsers int    `json:"online_users"`
	Timestamp   string `json:"timestamp"`
}

// MessagesPage is the history listing returned by the store. Messages are
// store-owned objects passed through verbatim.
type MessagesPage struct {
	Messages []json.RawMessage `json:"messages"`
	HasMore  bool              `json:"has_more"`
}
