// Package postmark delivers trainee notifications through the Postmark
// transactional email API, as an alternative to direct SMTP when the trainer
// has no mailbox credentials to hand out.
package postmark
