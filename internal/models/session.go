package models

import (
	"time"
)

// Session is an opaque server side session
// The token is the primary identity, users may hold several sessions at once
type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
}
