package ws

import "encoding/json"

const (
	EventNewMessage  = "new_message"
	EventUserJoined  = "user_joined"
	EventUserLeft    = "user_left"
	EventOnlineCount = "online_count"
)

// MessageEvent carries a canonical store-persisted message.
type MessageEvent struct {
	Type    string          `json:"type"`
	Message json.RawMessage `json:"message"`
}

// PresenceEvent announces a user joining or leaving.
type PresenceEvent struct {
	Type     string `json:"type"`
	UserID   int64  `json:"user_id"`
	Nickname string `json:"nickname"`
}

// CountEvent carries the online user count at the time of the broadcast.
type CountEvent struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

func NewMessage(message json.RawMessage) MessageEvent {
	return MessageEvent{Type: EventNewMessage, Message: message}
}

func UserJoined(userID int64, nickname string) PresenceEvent {
	return PresenceEvent{Type: EventUserJoined, UserID: userID, Nickname: nickname}
}

func UserLeft(userID int64, nickname string) PresenceEvent {
	return PresenceEvent{Type: EventUserLeft, UserID: userID, Nickname: nickname}
}

func OnlineCount(count int) CountEvent {
	return CountEvent{Type: EventOnlineCount, Count: count}
}
