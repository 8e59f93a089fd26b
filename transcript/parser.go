package transcript

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"callscout/core"
)

// defaultWordDuration pads words whose source record omits an end time.
const defaultWordDuration = 0.5

// rawRecord is one line of the transcript feed. The feed mixes word records
// with control records; a line is a word record iff it carries a start time,
// a text token and a paragraph id, and its type marker (when present) is
// "entry". Everything else is skipped.
type rawRecord struct {
	Type      string   `json:"type"`
	Paragraph any      `json:"p"`
	Start     *float64 `json:"s"`
	End       *float64 `json:"e"`
	Text      *string  `json:"t"`
	Speaker   any      `json:"sp"`
}

func (r *rawRecord) isWordRecord() bool {
	if r.Type != "" && r.Type != "entry" {
		return false
	}
	if r.Start == nil || r.Text == nil || strings.TrimSpace(*r.Text) == "" {
		return false
	}
	_, ok := fieldKey(r.Paragraph)
	return ok
}

// fieldKey normalizes an identifier field that the feed encodes either as a
// JSON string or as a number.
func fieldKey(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case json.Number:
		return id.String(), true
	default:
		return "", false
	}
}

// accumulator threads the paragraph-indexed word collection through the line
// loop. First-seen order per paragraph fixes the segment's timestamp.
type accumulator struct {
	byParagraph map[string]*core.Segment
	order       []*core.Segment
}

func (acc *accumulator) addWord(rec rawRecord) {
	paragraphID, _ := fieldKey(rec.Paragraph)
	seg, ok := acc.byParagraph[paragraphID]
	if !ok {
		seg = &core.Segment{
			ID:        "seg_" + paragraphID,
			Timestamp: core.FormatTime(*rec.Start),
			StartSec:  *rec.Start,
		}
		acc.byParagraph[paragraphID] = seg
		acc.order = append(acc.order, seg)
	}

	end := *rec.Start + defaultWordDuration
	if rec.End != nil && *rec.End >= *rec.Start {
		end = *rec.End
	}
	speaker := "0"
	if sp, ok := fieldKey(rec.Speaker); ok {
		speaker = sp
	}

	seg.Words = append(seg.Words, core.Word{
		ID:          fmt.Sprintf("%s_w%d", seg.ID, len(seg.Words)),
		StartTime:   *rec.Start,
		EndTime:     end,
		Text:        *rec.Text,
		ParagraphID: paragraphID,
		SpeakerID:   speaker,
	})
}

// Parse turns a raw line-delimited transcript blob into the canonical ordered
// segment list. The first line is metadata and is always discarded. Parsing
// is best-effort: a malformed line is skipped, never fatal.
func Parse(blob string) []*core.Segment {
	lines := strings.Split(blob, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}

	acc := accumulator{byParagraph: make(map[string]*core.Segment)}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var rec rawRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if !rec.isWordRecord() {
			continue
		}
		acc.addWord(rec)
	}

	// Segment order is fixed here, once, for the session lifetime.
	sort.SliceStable(acc.order, func(i, j int) bool {
		return acc.order[i].StartSec < acc.order[j].StartSec
	})
	return acc.order
}
