package protocol

import "testing"

func TestHandshakeRequestRoundTrip(t *testing.T) {
	want := HandshakeRequest{Name: "alice"}
	got, err := ParseHandshakeRequest(want.Marshal())
	if err != nil {
		t.Fatalf("ParseHandshakeRequest: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestHandshakeRequestInvalidUTF8(t *testing.T) {
	payload := HandshakeRequest{Name: "ok"}.Marshal()
	// corrupt a name byte into an invalid UTF-8 sequence.
	payload[4] = 0xFF
	if _, err := ParseHandshakeRequest(payload); err != ErrInvalidUTF8 {
		t.Fatalf("err = %v, want ErrInvalidUTF8", err)
	}
}

func TestHandshakeRequestShortPayload(t *testing.T) {
	if _, err := ParseHandshakeRequest([]byte{1, 2}); err != ErrShortPayload {
		t.Fatalf("err = %v, want ErrShortPayload", err)
	}
}

func TestFileTransferDataRoundTrip(t *testing.T) {
	want := FileTransferData{SegmentIdx: 3, ChunkSize: 4, Data: []byte("abcd")}
	got, err := ParseFileTransferData(want.Marshal())
	if err != nil {
		t.Fatalf("ParseFileTransferData: %v", err)
	}
	if got.SegmentIdx != want.SegmentIdx || got.ChunkSize != want.ChunkSize || string(got.Data) != string(want.Data) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestFileTransferDataTerminal(t *testing.T) {
	want := FileTransferData{SegmentIdx: 9, ChunkSize: 0, Data: nil}
	got, err := ParseFileTransferData(want.Marshal())
	if err != nil {
		t.Fatalf("ParseFileTransferData: %v", err)
	}
	if got.ChunkSize != 0 || len(got.Data) != 0 {
		t.Fatalf("got %+v, want empty terminal frame", got)
	}
}

func TestFileTransferAckRoundTrip(t *testing.T) {
	want := FileTransferAck{SegmentIdx: 9}
	got, err := ParseFileTransferAck(want.Marshal())
	if err != nil {
		t.Fatalf("ParseFileTransferAck: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
