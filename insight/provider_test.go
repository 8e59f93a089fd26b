package insight

import (
	"context"
	"strings"
	"testing"
	"time"

	"callscout/core"
)

func TestDecodeModelResponse(t *testing.T) {
	t.Run("WithInsight", func(t *testing.T) {
		ins, err := decodeModelResponse(`{"hasInsight":true,"insight":"Margins are compressing."}`, "seg_a")
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if ins == nil {
			t.Fatal("expected an insight")
		}
		if ins.Text != "Margins are compressing." {
			t.Errorf("unexpected text: %q", ins.Text)
		}
		if ins.SegmentID != "seg_a" {
			t.Errorf("unexpected segment id: %q", ins.SegmentID)
		}
	})

	t.Run("Declined", func(t *testing.T) {
		ins, err := decodeModelResponse(`{"hasInsight":false,"insight":null}`, "seg_a")
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if ins != nil {
			t.Error("hasInsight=false must yield no insight")
		}
	})

	t.Run("ClaimedButEmpty", func(t *testing.T) {
		ins, err := decodeModelResponse(`{"hasInsight":true,"insight":"  "}`, "seg_a")
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if ins != nil {
			t.Error("blank insight text must count as declined")
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		if _, err := decodeModelResponse(`not json`, "seg_a"); err == nil {
			t.Error("expected an error for malformed model output")
		}
	})
}

func TestNewInsight(t *testing.T) {
	ins := NewInsight("seg_b", "text")
	if !strings.HasPrefix(ins.ID, "insight_") {
		t.Errorf("unexpected id format: %q", ins.ID)
	}
	if ins.SegmentID != "seg_b" || ins.Text != "text" {
		t.Errorf("unexpected fields: %+v", ins)
	}
	if _, err := time.Parse(time.RFC3339, ins.CreatedAt); err != nil {
		t.Errorf("created_at is not RFC3339: %q", ins.CreatedAt)
	}

	other := NewInsight("seg_b", "text")
	if other.ID == ins.ID {
		t.Error("insight ids must be unique")
	}
}

func TestMockProvider(t *testing.T) {
	mock := MockProvider{}

	ins, err := mock.GenerateInsight(context.Background(), core.InsightRequest{
		CurrentSentence: "Short remark.",
		Timestamp:       "00:10",
		SegmentID:       "seg_a",
	})
	if err != nil {
		t.Fatalf("mock provider errored: %v", err)
	}
	if ins != nil {
		t.Error("short statements should produce no commentary")
	}

	ins, err = mock.GenerateInsight(context.Background(), core.InsightRequest{
		CurrentSentence: "Revenue grew thirty percent year over year while operating margins expanded despite tariff pressure.",
		Timestamp:       "00:20",
		SegmentID:       "seg_b",
	})
	if err != nil {
		t.Fatalf("mock provider errored: %v", err)
	}
	if ins == nil {
		t.Fatal("expected a mock insight for a substantial statement")
	}
	if ins.SegmentID != "seg_b" {
		t.Errorf("mock insight correlates to %q, want seg_b", ins.SegmentID)
	}
}

func TestPickProviderMock(t *testing.T) {
	t.Setenv("INSIGHT_PROVIDER", "mock")
	if _, ok := PickProvider().(MockProvider); !ok {
		t.Error("INSIGHT_PROVIDER=mock must select the mock provider")
	}
}
