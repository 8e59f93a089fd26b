package session

import (
	"context"
	"log"
	"strings"
	"sync"

	"callscout/core"
	"callscout/insight"
)

// Dispatcher watches the synchronized view for segments that have fully
// played and requests one commentary per segment from the annotation oracle.
// The processed set is the sole source of truth for the at-most-once
// guarantee: a segment id enters it before its request is issued and never
// leaves it, regardless of the request's outcome.
type Dispatcher struct {
	mu        sync.Mutex
	processed map[string]struct{}
	provider  insight.Provider
	attach    func(segmentID string, ins *core.Insight)
	wg        sync.WaitGroup
}

func NewDispatcher(provider insight.Provider, attach func(string, *core.Insight)) *Dispatcher {
	return &Dispatcher{
		processed: make(map[string]struct{}),
		provider:  provider,
		attach:    attach,
	}
}

// Check detects newly completed segments at time t and dispatches an insight
// request for each, exactly once per segment id for the session lifetime.
// The membership test and the insert are a single locked step, so redundant
// detection across rapid time updates or concurrent passes cannot double
// dispatch.
func (d *Dispatcher) Check(segments []*core.Segment, t float64) int {
	var intents []core.InsightRequest

	d.mu.Lock()
	for i, seg := range segments {
		if !IsComplete(seg, t) {
			continue
		}
		if _, done := d.processed[seg.ID]; done {
			continue
		}
		d.processed[seg.ID] = struct{}{}
		intents = append(intents, core.InsightRequest{
			ConversationHistory: historyBefore(segments, i),
			CurrentSentence:     seg.Text(),
			Timestamp:           seg.Timestamp,
			SegmentID:           seg.ID,
		})
	}
	d.mu.Unlock()

	for _, req := range intents {
		d.dispatch(req)
	}
	return len(intents)
}

// dispatch fires an independent request. No cancellation, no ordering
// guarantee; a failed or empty response leaves the segment without an
// insight permanently, since the processed set already blocks a retry.
func (d *Dispatcher) dispatch(req core.InsightRequest) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ins, err := d.provider.GenerateInsight(context.Background(), req)
		if err != nil {
			log.Printf("Warning: insight generation failed for segment %s: %v", req.SegmentID, err)
			return
		}
		if ins == nil {
			log.Printf("No material commentary for segment %s", req.SegmentID)
			return
		}
		d.attach(req.SegmentID, ins)
	}()
}

// Processed reports whether a request was already dispatched for the segment.
func (d *Dispatcher) Processed(segmentID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.processed[segmentID]
	return ok
}

func (d *Dispatcher) ProcessedCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.processed)
}

// Wait blocks until every in-flight oracle call has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// historyBefore concatenates the text of every segment sorting before index
// i. History is positional, not causal: it includes earlier segments whether
// or not they received insights of their own.
func historyBefore(segments []*core.Segment, i int) string {
	if i == 0 {
		return ""
	}
	texts := make([]string, 0, i)
	for _, seg := range segments[:i] {
		texts = append(texts, seg.Text())
	}
	return strings.Join(texts, "\n")
}
