package model

import (
	"strconv"
	"strings"

	"tg-config-bot/internal/domain"
)

// ChatRef identifies a chat either by numeric id or by public @username.
type ChatRef struct {
	ID       int64
	Username string
}

// ParseChatRef accepts "-100123456789" or "@channel".
func ParseChatRef(s string) (ChatRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ChatRef{}, domain.ErrInvalidArgument
	}
	if strings.HasPrefix(s, "@") {
		if len(s) == 1 {
			return ChatRef{}, domain.ErrInvalidArgument
		}
		return ChatRef{Username: s}, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id == 0 {
		return ChatRef{}, domain.ErrInvalidArgument
	}
	return ChatRef{ID: id}, nil
}

func (c ChatRef) IsZero() bool { return c.ID == 0 && c.Username == "" }

func (c ChatRef) String() string {
	if c.Username != "" {
		return c.Username
	}
	return strconv.FormatInt(c.ID, 10)
}
