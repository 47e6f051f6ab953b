package notification

import "errors"

var (
	ErrFailedCreateNotification = errors.New("failed to create notifications")
	ErrFailedResolveRecipients  = errors.New("failed to resolve notification recipients")
)
