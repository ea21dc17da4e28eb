package plantapi

import (
	"context"
	"testing"
)

// MockTransport is a test double that satisfies the Transport interface.
type MockTransport struct {
	SendFunc func(ctx context.Context, parts []Part) (*Reply, error)
}

func (m *MockTransport) Send(ctx context.Context, parts []Part) (*Reply, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, parts)
	}
	return &Reply{Message: "mock reply", SessionID: "mock-session"}, nil
}

func TestTransportInterface(t *testing.T) {
	var transport Transport = &MockTransport{}
	reply, err := transport.Send(context.Background(), []Part{TextPart(FieldMessage, "hi")})
	if err != nil {
		t.Fatal(err)
	}
	if reply.Message == "" || reply.SessionID == "" {
		t.Errorf("expected populated reply, got %+v", reply)
	}

	var _ Transport = (*Client)(nil)
}

func TestAPIErrorText(t *testing.T) {
	if got := (&APIError{Status: 500}).Error(); got != "api error (status 500)" {
		t.Errorf("unexpected error text %q", got)
	}
	if got := (&APIError{Status: 400, Message: "bad image"}).Error(); got != "api error (status 400): bad image" {
		t.Errorf("unexpected error text %q", got)
	}
}

func TestPartKinds(t *testing.T) {
	if TextPart(FieldMessage, "x").IsFile() {
		t.Error("text part reported as file")
	}
	if !FilePart(FieldImages, "a.png", "image/png", nil).IsFile() {
		t.Error("file part not reported as file")
	}
}
