package email

import (
	"fmt"
	"html"
)

// SendWelcome sends the post-registration greeting. Errors are the
// caller's to decide on; registration never fails because of mail.
// The username is user-controlled and gets escaped for the HTML part.
func SendWelcome(s Sender, to, username string) error {
	if s == nil {
		return nil
	}
	subject := "Welcome to Ideas"
	textBody := fmt.Sprintf("Hi %s,\n\nYour account is ready. Start writing down your ideas.\n", username)
	htmlBody := fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. Start writing down your ideas.</p>",
		html.EscapeString(username))
	return s.Send(to, subject, htmlBody, textBody)
}
