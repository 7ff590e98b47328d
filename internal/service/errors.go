package service

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyOwned      = errors.New("item already owned")
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrNoActiveSession   = errors.New("no active session")
	ErrAlreadyClaimed    = errors.New("quest already claimed this period")
	ErrQuestIncomplete   = errors.New("quest target not reached")
)
