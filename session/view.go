package session

import "callscout/core"

// currentSegmentGraceSec keeps a segment highlighted across natural speech
// gaps after its last visible word ends.
const currentSegmentGraceSec = 2.0

// SegmentView is the derived, playback-synchronized state of one segment.
type SegmentView struct {
	Segment      *core.Segment
	VisibleWords []core.Word
	Visible      bool
	Current      bool
	Complete     bool
}

// View is the full derived state at one cursor position. It is recomputed
// from scratch on every time update; nothing in it is patched incrementally.
type View struct {
	CurrentTime   float64
	Segments      []SegmentView
	CurrentWordID string
}

// ComputeView derives visibility, currency and completion for every segment
// at the given cursor position. Pure: same segments and time always produce
// the same view.
func ComputeView(segments []*core.Segment, currentTime float64) View {
	view := View{
		CurrentTime: currentTime,
		Segments:    make([]SegmentView, 0, len(segments)),
	}

	for _, seg := range segments {
		sv := SegmentView{Segment: seg}
		for _, w := range seg.Words {
			if w.StartTime <= currentTime {
				sv.VisibleWords = append(sv.VisibleWords, w)
				if currentTime <= w.EndTime {
					view.CurrentWordID = w.ID
				}
			}
		}
		sv.Visible = len(sv.VisibleWords) > 0
		sv.Complete = len(seg.Words) > 0 && len(sv.VisibleWords) == len(seg.Words)
		if n := len(sv.VisibleWords); n > 0 {
			last := sv.VisibleWords[n-1]
			sv.Current = currentTime <= last.EndTime+currentSegmentGraceSec
		}
		view.Segments = append(view.Segments, sv)
	}
	return view
}

// Words is a convenience accessor over the underlying segment.
func (sv SegmentView) Words() []core.Word {
	return sv.Segment.Words
}

// IsComplete reports whether every word of the segment has started by time t.
// Segments with zero words are never complete.
func IsComplete(seg *core.Segment, t float64) bool {
	if len(seg.Words) == 0 {
		return false
	}
	for _, w := range seg.Words {
		if w.StartTime > t {
			return false
		}
	}
	return true
}
