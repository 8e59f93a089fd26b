package core

// ========== Transcript data model ==========

// Word is the atomic utterance unit of a transcript. Words are immutable
// once created.
type Word struct {
	ID          string  `json:"id"`
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	Text        string  `json:"text"`
	ParagraphID string  `json:"paragraph_id"`
	SpeakerID   string  `json:"speaker_id"`
}

// Segment groups the words of one transcript paragraph. A segment mutates in
// exactly two ways after creation: a word is appended during parsing, or an
// insight is attached by the dispatcher.
type Segment struct {
	ID        string   `json:"id"`
	Timestamp string   `json:"timestamp"`
	StartSec  float64  `json:"start_sec"`
	Words     []Word   `json:"words"`
	Insight   *Insight `json:"insight,omitempty"`
}

// Text returns the segment's words joined into a single statement.
func (s *Segment) Text() string {
	if len(s.Words) == 0 {
		return ""
	}
	n := 0
	for _, w := range s.Words {
		n += len(w.Text) + 1
	}
	buf := make([]byte, 0, n)
	for i, w := range s.Words {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, w.Text...)
	}
	return string(buf)
}

// Insight is a short AI-generated commentary attached to one segment.
type Insight struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	SegmentID string `json:"segment_id"`
	CreatedAt string `json:"created_at"`
}

// ========== Annotation oracle contract ==========

type InsightRequest struct {
	ConversationHistory string `json:"conversationHistory"`
	CurrentSentence     string `json:"currentSentence"`
	Timestamp           string `json:"timestamp"`
	SegmentID           string `json:"segmentId"`
}

type ResponseMeta struct {
	ProcessingTimeMs int64  `json:"processingTimeMs"`
	Timestamp        string `json:"timestamp"`
}

// APIResponse is the oracle's envelope. A successful response without an
// insight is the valid "no material commentary" outcome, not an error.
type APIResponse struct {
	Success bool         `json:"success"`
	Insight *Insight     `json:"insight,omitempty"`
	Error   string       `json:"error,omitempty"`
	Meta    ResponseMeta `json:"meta"`
}
