// Package notifications defines the notification service interface used to
// reach buyers, sellers and stewards over email and SMS.
package notifications

import "context"

// Notification carries everything a service needs to deliver one message.
// Email services use ToAddress, Subject, Body and PlainBody; SMS services use
// ToNumber and Body.
type Notification struct {
	ToName    string
	ToAddress string
	ToNumber  string
	Subject   string
	Body      string
	PlainBody string
}

// NotificationService is implemented by each delivery channel. New receives a
// channel-specific configuration struct.
type NotificationService interface {
	New(conf any) error
	SendNotification(context.Context, *Notification) error
}
