package services

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"sync"
	"sync/atomic"
)

// ErrStreamConsumed is yielded when an AudioStream is iterated a second time.
var ErrStreamConsumed = errors.New("audio stream already consumed")

// AudioStream is a finite, single-use sequence of audio chunks read lazily
// from an upstream response body.
type AudioStream struct {
	body      io.ReadCloser
	chunkSize int

	consumed  atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func NewAudioStream(body io.ReadCloser, chunkSize int) *AudioStream {
	if chunkSize <= 0 {
		chunkSize = 1024
	}
	return &AudioStream{body: body, chunkSize: chunkSize}
}

// Chunks yields the body in reads of at most chunkSize bytes, in upstream order.
// A yielded slice is only valid until the next iteration. The body is closed
// when iteration ends for any reason.
func (s *AudioStream) Chunks() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if !s.consumed.CompareAndSwap(false, true) {
			yield(nil, ErrStreamConsumed)
			return
		}
		defer s.Close()

		buf := make([]byte, s.chunkSize)
		for {
			n, err := s.body.Read(buf)
			if n > 0 && !yield(buf[:n], nil) {
				return
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("read audio stream: %w", err))
				return
			}
		}
	}
}

// Close releases the upstream body. It is safe to call more than once.
func (s *AudioStream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
