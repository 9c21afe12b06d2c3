// Package mail defines the contracts for sending email messages.
//
// Use cases work with the Mail interface and the Message payload so they stay
// independent from a specific provider. SendGrid is the implementation shipped
// in this package; it speaks the SendGrid v3 "mail send" HTTP API.
package mail
