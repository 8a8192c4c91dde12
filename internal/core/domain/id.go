package domain

import (
	"github.com/google/uuid"
)

func NewMessageID() string {
	return uuid.New().String()
}

func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}
