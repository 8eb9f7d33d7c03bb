package model

import "time"

// Staff describes a control-panel account.
type Staff struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
