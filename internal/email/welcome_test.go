package email

import (
	"strings"
	"testing"
)

type captureSender struct {
	to, subject, htmlBody, textBody string
}

func (c *captureSender) Send(to, subject, htmlBody, textBody string) error {
	c.to, c.subject, c.htmlBody, c.textBody = to, subject, htmlBody, textBody
	return nil
}

func TestSendWelcome(t *testing.T) {
	t.Parallel()
	s := &captureSender{}
	if err := SendWelcome(s, "casey@example.com", "casey"); err != nil {
		t.Fatal(err)
	}
	if s.to != "casey@example.com" {
		t.Fatalf("to=%q", s.to)
	}
	if !strings.Contains(s.htmlBody, "Hi casey,") || !strings.Contains(s.textBody, "Hi casey,") {
		t.Fatalf("greeting missing: html=%q text=%q", s.htmlBody, s.textBody)
	}
}

func TestSendWelcome_EscapesUsernameInHTML(t *testing.T) {
	t.Parallel()
	s := &captureSender{}
	if err := SendWelcome(s, "x@example.com", `<script>alert("x")</script>`); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(s.htmlBody, "<script>") {
		t.Fatalf("raw markup leaked into HTML body: %q", s.htmlBody)
	}
	if !strings.Contains(s.htmlBody, "&lt;script&gt;") {
		t.Fatalf("username not escaped: %q", s.htmlBody)
	}
}

func TestSendWelcome_NilSender(t *testing.T) {
	t.Parallel()
	if err := SendWelcome(nil, "x@example.com", "x"); err != nil {
		t.Fatal(err)
	}
}
