package messenger

import (
	"context"
	"testing"
	"time"
)

func TestParseAddressRejectsWrongScheme(t *testing.T) {
	t.Parallel()
	if _, err := ParseAddress("http://localhost:5555", nil); err == nil {
		t.Error("ParseAddress() should reject a non-kiro scheme")
	}
}

func TestParseAddressWarnsOnNonNumericHost(t *testing.T) {
	t.Parallel()
	var warned bool
	_, err := ParseAddress("kiro://localhost:5555", func(string, ...interface{}) { warned = true })
	if err != nil {
		t.Fatalf("ParseAddress() error = %v", err)
	}
	if !warned {
		t.Error("ParseAddress() should warn about a non-numeric host")
	}
}

func TestParseAddressAcceptsWildcardHost(t *testing.T) {
	t.Parallel()
	var warned bool
	addr, err := ParseAddress("kiro://*:5555", func(string, ...interface{}) { warned = true })
	if err != nil {
		t.Fatalf("ParseAddress() error = %v", err)
	}
	if warned {
		t.Error("ParseAddress() should not warn about the wildcard host")
	}
	if addr.Port != 5555 {
		t.Errorf("Port = %d, want 5555", addr.Port)
	}
}

func TestLoopbackSendBlockingRoundTrips(t *testing.T) {
	t.Parallel()
	server, client := NewLoopbackPair("kiro://127.0.0.1:5555")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := server.Connect(ctx, "kiro://127.0.0.1:5555", RoleServer); err != nil {
		t.Fatalf("server.Connect() error = %v", err)
	}
	if err := client.Connect(ctx, "kiro://127.0.0.1:5555", RoleClient); err != nil {
		t.Fatalf("client.Connect() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		req, err := server.RecvBlocking(ctx)
		if err != nil {
			done <- err
			return
		}
		done <- server.Respond(ctx, req.ID, NewMessage(KindGetData, []byte("pong")))
	}()

	resp, err := client.SendBlocking(ctx, NewMessage(KindGetData, []byte("ping")))
	if err != nil {
		t.Fatalf("client.SendBlocking() error = %v", err)
	}
	if string(resp.Payload) != "pong" {
		t.Errorf("resp.Payload = %q, want %q", resp.Payload, "pong")
	}
	if err := <-done; err != nil {
		t.Fatalf("server goroutine error = %v", err)
	}
}

func TestLoopbackAckGetsNoResponse(t *testing.T) {
	t.Parallel()
	server, client := NewLoopbackPair("kiro://127.0.0.1:5556")
	ctx := context.Background()
	server.Connect(ctx, "kiro://127.0.0.1:5556", RoleServer)
	client.Connect(ctx, "kiro://127.0.0.1:5556", RoleClient)

	if _, err := client.SendBlocking(ctx, NewMessage(KindAck, nil)); err == nil {
		t.Error("a client sending an ACK should be rejected")
	}

	resp, err := server.SendBlocking(ctx, NewMessage(KindAck, nil))
	if err != nil {
		t.Fatalf("server.SendBlocking(ack) error = %v", err)
	}
	if resp != (Message{}) {
		t.Errorf("resp = %+v, want zero value for an ACK send", resp)
	}
}

func TestLoopbackSendBlockingFailsWhenNotConnected(t *testing.T) {
	t.Parallel()
	_, client := NewLoopbackPair("kiro://127.0.0.1:5557")
	if _, err := client.SendBlocking(context.Background(), NewMessage(KindGetData, nil)); err == nil {
		t.Error("SendBlocking() before Connect() should fail")
	}
}
