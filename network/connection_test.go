package network

import (
	"bytes"
	"testing"
)

func TestFrameAndParse(t *testing.T) {
	payload := []byte(`{"roomId":"ABC23"}`)
	packet, err := Parse(Frame(MsgTypeJoinRoom, payload))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if packet.MsgID != MsgTypeJoinRoom {
		t.Errorf("Expected msg ID %d, got %d", MsgTypeJoinRoom, packet.MsgID)
	}
	if packet.Length != uint16(len(payload)) {
		t.Errorf("Expected length %d, got %d", len(payload), packet.Length)
	}
	if !bytes.Equal(packet.Data, payload) {
		t.Errorf("Payload mismatch: %q", packet.Data)
	}
}

func TestFrameEmptyPayload(t *testing.T) {
	packet, err := Parse(Frame(MsgTypeRollDice, nil))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if packet.MsgID != MsgTypeRollDice || packet.Length != 0 {
		t.Errorf("Unexpected packet: %+v", packet)
	}
}

func TestParseRejectsShortBuffers(t *testing.T) {
	if _, err := Parse([]byte{0, 1}); err == nil {
		t.Error("Parse should reject a truncated header")
	}

	// 头部声明的长度超过实际数据
	frame := Frame(MsgTypeHeartbeat, []byte("abcd"))
	if _, err := Parse(frame[:6]); err == nil {
		t.Error("Parse should reject a truncated payload")
	}
}
