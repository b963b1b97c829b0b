// Package types contains shared type definitions for notification packages.
package types

import "context"

// NotifierType identifies a notification provider
type NotifierType string

const (
	NotifierDiscord   NotifierType = "discord"
	NotifierNotifiarr NotifierType = "notifiarr"
)

// Message is the run summary handed to every notifier. Color is carried in
// both the decimal form Discord embeds want and the HTML form Notifiarr
// wants.
type Message struct {
	Title        string
	Description  string
	ColorDecimal int
	ColorHTML    string
	ThumbnailURL string
}

// Notifier is the interface all notification providers must implement.
// Delivery is best-effort; a failed send never affects the run outcome.
type Notifier interface {
	Type() NotifierType
	Name() string
	Test(ctx context.Context) error
	Send(ctx context.Context, msg Message) error
}
