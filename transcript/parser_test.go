package transcript

import (
	"reflect"
	"testing"
)

const basicBlob = `{"meta":"live_transcript","version":1}
{"p":"a","s":0,"t":"Hello"}
{"p":"a","s":1,"t":"world"}`

func TestParseBasicScenario(t *testing.T) {
	segments := Parse(basicBlob)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}

	seg := segments[0]
	if seg.ID != "seg_a" {
		t.Errorf("expected segment id seg_a, got %s", seg.ID)
	}
	if seg.Timestamp != "00:00" {
		t.Errorf("expected timestamp 00:00, got %s", seg.Timestamp)
	}
	if len(seg.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(seg.Words))
	}
	if seg.Words[0].Text != "Hello" || seg.Words[1].Text != "world" {
		t.Errorf("unexpected word texts: %q, %q", seg.Words[0].Text, seg.Words[1].Text)
	}
	if seg.Text() != "Hello world" {
		t.Errorf("expected segment text %q, got %q", "Hello world", seg.Text())
	}

	// Missing end times default to start + 0.5, missing speakers to "0".
	if seg.Words[0].EndTime != 0.5 {
		t.Errorf("expected default end time 0.5, got %f", seg.Words[0].EndTime)
	}
	if seg.Words[1].EndTime != 1.5 {
		t.Errorf("expected default end time 1.5, got %f", seg.Words[1].EndTime)
	}
	for _, w := range seg.Words {
		if w.SpeakerID != "0" {
			t.Errorf("expected default speaker 0, got %s", w.SpeakerID)
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	first := Parse(basicBlob)
	second := Parse(basicBlob)
	if !reflect.DeepEqual(first, second) {
		t.Error("parsing the same blob twice produced different segment lists")
	}
}

func TestParseDiscardsMetadataLine(t *testing.T) {
	// The first line is discarded even when it looks like a word record.
	blob := `{"p":"x","s":0,"t":"metadata"}
{"p":"a","s":1,"t":"real"}`
	segments := Parse(blob)
	if len(segments) != 1 || segments[0].ID != "seg_a" {
		t.Fatalf("expected only seg_a, got %d segments", len(segments))
	}
}

func TestParseSkipsMalformedAndControlLines(t *testing.T) {
	blob := "meta\n" +
		"{not json at all\n" +
		`{"type":"status","state":"running"}` + "\n" +
		"\n" +
		`{"p":"a","s":2,"t":"survives"}` + "\n" +
		`{"s":3,"t":"no paragraph"}` + "\n" +
		`{"p":"a","t":"no start"}` + "\n" +
		`{"p":"a","s":4}` + "\n" +
		`{"p":"a","s":5,"t":"last"}`

	segments := Parse(blob)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if got := segments[0].Text(); got != "survives last" {
		t.Errorf("expected only well-formed word records, got %q", got)
	}
}

func TestParseGroupingAndOrder(t *testing.T) {
	// Words of a paragraph stay together in arrival order even when
	// paragraphs interleave; segments sort by their first word's start.
	blob := "meta\n" +
		`{"p":"b","s":10,"t":"Second"}` + "\n" +
		`{"p":"a","s":1,"t":"First"}` + "\n" +
		`{"p":"b","s":11,"t":"paragraph."}` + "\n" +
		`{"p":"a","s":2,"t":"paragraph."}`

	segments := Parse(blob)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].ID != "seg_a" || segments[1].ID != "seg_b" {
		t.Fatalf("expected order seg_a, seg_b; got %s, %s", segments[0].ID, segments[1].ID)
	}
	if segments[0].Text() != "First paragraph." {
		t.Errorf("unexpected seg_a text: %q", segments[0].Text())
	}
	if segments[1].Text() != "Second paragraph." {
		t.Errorf("unexpected seg_b text: %q", segments[1].Text())
	}
	for _, seg := range segments {
		for _, w := range seg.Words {
			if w.ParagraphID != seg.ID[len("seg_"):] {
				t.Errorf("word %s landed in wrong segment %s", w.ID, seg.ID)
			}
		}
	}
}

func TestParseNumericIdentifiers(t *testing.T) {
	blob := "meta\n" +
		`{"p":3,"s":0.5,"t":"numeric","sp":7}`

	segments := Parse(blob)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].ID != "seg_3" {
		t.Errorf("expected seg_3, got %s", segments[0].ID)
	}
	if segments[0].Words[0].SpeakerID != "7" {
		t.Errorf("expected speaker 7, got %s", segments[0].Words[0].SpeakerID)
	}
}

func TestParseExplicitEndTime(t *testing.T) {
	blob := "meta\n" +
		`{"p":"a","s":1,"e":2.25,"t":"timed"}` + "\n" +
		`{"p":"a","s":3,"e":2,"t":"inverted"}`

	segments := Parse(blob)
	words := segments[0].Words
	if words[0].EndTime != 2.25 {
		t.Errorf("expected explicit end time 2.25, got %f", words[0].EndTime)
	}
	// An end time before the start is ignored in favor of the default pad.
	if words[1].EndTime != 3.5 {
		t.Errorf("expected defaulted end time 3.5, got %f", words[1].EndTime)
	}
}

func TestParseHourLongTimestamps(t *testing.T) {
	blob := "meta\n" +
		`{"p":"a","s":3725,"t":"late"}`

	segments := Parse(blob)
	if segments[0].Timestamp != "01:02:05" {
		t.Errorf("expected 01:02:05, got %s", segments[0].Timestamp)
	}
}

func TestParseEmptyBlob(t *testing.T) {
	if got := Parse(""); len(got) != 0 {
		t.Errorf("expected no segments from empty blob, got %d", len(got))
	}
	if got := Parse("metadata only"); len(got) != 0 {
		t.Errorf("expected no segments from metadata-only blob, got %d", len(got))
	}
}

func TestBlobHash(t *testing.T) {
	a := BlobHash(basicBlob)
	if a != BlobHash(basicBlob) {
		t.Error("hash of the same blob is not stable")
	}
	if a == BlobHash(basicBlob+`{"p":"b","s":9,"t":"x"}`) {
		t.Error("different blobs hashed to the same value")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}
