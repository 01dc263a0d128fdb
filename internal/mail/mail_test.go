package mail

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestBuildMessage_StripsHeaderInjection(t *testing.T) {
	msg := buildMessage("shop@localhost", "victim@example.com\r\nBcc: evil@example.com", "Reset", "hello")
	if strings.Contains(msg, "\r\nBcc:") {
		t.Fatalf("header injection not stripped:\n%s", msg)
	}
	if !strings.HasPrefix(msg, "From: shop@localhost\r\n") {
		t.Fatalf("unexpected message start:\n%s", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\nhello\r\n") {
		t.Fatalf("body not separated from headers:\n%s", msg)
	}
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(log.New(&buf, "", 0))
	if err := m.Send("a@example.com", "Hi", "body text"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(buf.String(), "to=a@example.com") || !strings.Contains(buf.String(), "body text") {
		t.Fatalf("unexpected log output %q", buf.String())
	}
}
