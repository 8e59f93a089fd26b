package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"callscout/core"
	"callscout/insight"
	"callscout/transcript"
)

// Session models one playback session: the canonical segment list, the
// processed set behind it, and the derived view at the latest cursor
// position. All state transitions are triggered by discrete events: the
// transcript fetch completing, a time update, or an oracle response.
type Session struct {
	mu         sync.RWMutex
	source     transcript.Source
	dispatcher *Dispatcher
	segments   []*core.Segment
	blobHash   string
	lastTime   float64
	loaded     bool
}

// Status is a point-in-time snapshot of session health.
type Status struct {
	Loaded         string  `json:"loaded"`
	TranscriptHash string  `json:"transcript_hash,omitempty"`
	SegmentCount   int     `json:"segment_count"`
	ProcessedCount int     `json:"processed_count"`
	InsightCount   int     `json:"insight_count"`
	CurrentTime    float64 `json:"current_time"`
}

func New(source transcript.Source, provider insight.Provider) *Session {
	s := &Session{source: source}
	s.dispatcher = NewDispatcher(provider, s.attachInsight)
	return s
}

// LoadTranscript fetches and parses the transcript blob, once. A fetch
// failure is a session-level error: no segments exist, so synchronization
// stays halted.
func (s *Session) LoadTranscript(ctx context.Context) error {
	blob, err := s.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("load transcript: %w", err)
	}

	segments := transcript.Parse(blob)
	hash := transcript.BlobHash(blob)

	s.mu.Lock()
	s.segments = segments
	s.blobHash = hash
	s.loaded = true
	s.mu.Unlock()

	log.Printf("Transcript loaded: %d segments, blake3=%s", len(segments), hash[:12])
	return nil
}

// UpdateTime is the time-update handler. It recomputes the derived view at
// the new cursor position and runs the completion check. The cursor may move
// backward or jump forward (seeks); the processed set is never reset.
func (s *Session) UpdateTime(t float64) View {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return View{CurrentTime: t}
	}
	s.lastTime = t
	segments := s.segments
	view := ComputeView(segments, t)
	s.mu.Unlock()

	s.dispatcher.Check(segments, t)
	return view
}

// Segments exposes the canonical ordered list. The slice itself is fixed
// after load; only insight attachment mutates its elements.
func (s *Session) Segments() []*core.Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.segments
}

func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	insights := 0
	for _, seg := range s.segments {
		if seg.Insight != nil {
			insights++
		}
	}
	loaded := "pending"
	if s.loaded {
		loaded = "ready"
	}
	return Status{
		Loaded:         loaded,
		TranscriptHash: s.blobHash,
		SegmentCount:   len(s.segments),
		ProcessedCount: s.dispatcher.ProcessedCount(),
		InsightCount:   insights,
		CurrentTime:    s.lastTime,
	}
}

// Wait drains in-flight oracle calls; used by replay mode and tests.
func (s *Session) Wait() {
	s.dispatcher.Wait()
}

// attachInsight merges an oracle response into the one segment it belongs
// to. A point mutation: every other segment is untouched.
func (s *Session) attachInsight(segmentID string, ins *core.Insight) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, seg := range s.segments {
		if seg.ID != segmentID {
			continue
		}
		if seg.Insight != nil {
			// The processed set never requests twice, so a second insight
			// means a misbehaving collaborator. Keep the first.
			log.Printf("Warning: duplicate insight %s for segment %s (kept %s)", ins.ID, segmentID, seg.Insight.ID)
			return
		}
		seg.Insight = ins
		log.Printf("Insight attached to segment %s at %s", segmentID, seg.Timestamp)
		return
	}
	log.Printf("Warning: insight %s references unknown segment %s", ins.ID, segmentID)
}
