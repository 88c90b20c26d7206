// Package notification defines the outbound message contract for trainee
// notifications and composes the incident and reminder messages. Mail-backed
// senders live under integration/email; DevSender and LogSender cover local
// development and transportless deployments.
package notification
