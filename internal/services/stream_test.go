package services

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

type trackingBody struct {
	io.Reader
	closed int
}

func (b *trackingBody) Close() error {
	b.closed++
	return nil
}

func TestAudioStream_ChunksPreserveOrderAndSize(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789"), 250)
	body := &trackingBody{Reader: bytes.NewReader(payload)}
	stream := NewAudioStream(body, 1024)

	var got bytes.Buffer
	chunks := 0
	for chunk, err := range stream.Chunks() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chunk) > 1024 {
			t.Fatalf("chunk larger than chunk size: %d", len(chunk))
		}
		got.Write(chunk)
		chunks++
	}

	if !bytes.Equal(got.Bytes(), payload) {
		t.Fatal("concatenated chunks differ from upstream payload")
	}
	if chunks != 3 {
		t.Fatalf("expected 3 chunks for 2500 bytes, got %d", chunks)
	}
	if body.closed != 1 {
		t.Fatalf("expected body closed once, got %d", body.closed)
	}
}

func TestAudioStream_IsSingleUse(t *testing.T) {
	stream := NewAudioStream(&trackingBody{Reader: strings.NewReader("abc")}, 2)
	for range stream.Chunks() {
	}

	var gotErr error
	for _, err := range stream.Chunks() {
		gotErr = err
	}
	if !errors.Is(gotErr, ErrStreamConsumed) {
		t.Fatalf("expected ErrStreamConsumed, got %v", gotErr)
	}
}

func TestAudioStream_BreakClosesBody(t *testing.T) {
	body := &trackingBody{Reader: strings.NewReader(strings.Repeat("x", 100))}
	stream := NewAudioStream(body, 10)

	for range stream.Chunks() {
		break
	}
	if body.closed != 1 {
		t.Fatalf("expected body closed after early break, got %d", body.closed)
	}

	if err := stream.Close(); err != nil {
		t.Fatalf("second close returned error: %v", err)
	}
	if body.closed != 1 {
		t.Fatalf("Close must be idempotent, body closed %d times", body.closed)
	}
}

func TestAudioStream_ReadError(t *testing.T) {
	boom := errors.New("connection reset by peer")
	body := &trackingBody{Reader: io.MultiReader(strings.NewReader("ok"), iotestErrReader{boom})}
	stream := NewAudioStream(body, 8)

	var data []byte
	var gotErr error
	for chunk, err := range stream.Chunks() {
		if err != nil {
			gotErr = err
			continue
		}
		data = append(data, chunk...)
	}
	if string(data) != "ok" {
		t.Fatalf("expected bytes before the error to be yielded, got %q", data)
	}
	if !errors.Is(gotErr, boom) {
		t.Fatalf("expected wrapped read error, got %v", gotErr)
	}
	if body.closed != 1 {
		t.Fatalf("expected body closed after error")
	}
}

type iotestErrReader struct{ err error }

func (r iotestErrReader) Read([]byte) (int, error) { return 0, r.err }
