package services

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/travoiq/callrelay/internal/models"
	dynamorepo "github.com/travoiq/callrelay/internal/repositories/dynamo"
)

// TranscriptService turns the two append-only segment tables into one
// ordered delta stream per subscription. The tables offer no change
// notification, so the stream is driven by polling; the poll interval is the
// worst-case delivery latency for a new segment.
type TranscriptService interface {
	// Stream emits newly-observed segments for callID in ascending LoggedOn
	// order until ctx is cancelled. The channel is closed on cancellation.
	// Segments already emitted on this stream are never emitted again; a
	// fresh stream starts with no history and replays the full transcript.
	Stream(ctx context.Context, callID string) <-chan models.Segment
}

type transcriptService struct {
	segments dynamorepo.SegmentRepository
	interval time.Duration
	log      *logrus.Logger
}

func NewTranscriptService(segments dynamorepo.SegmentRepository, interval time.Duration, log *logrus.Logger) TranscriptService {
	if interval <= 0 {
		interval = time.Second
	}
	return &transcriptService{segments: segments, interval: interval, log: log}
}

func (s *transcriptService) Stream(ctx context.Context, callID string) <-chan models.Segment {
	out := make(chan models.Segment)
	go s.run(ctx, callID, out)
	return out
}

func (s *transcriptService) run(ctx context.Context, callID string, out chan<- models.Segment) {
	defer close(out)

	// seen is owned by this goroutine for the life of the subscription.
	// Keys are qualified by speaker so an id reused across the two tables
	// cannot mask the other table's segment.
	seen := make(map[string]struct{})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if batch, ok := s.poll(ctx, callID); ok {
			emitted := 0
			for _, seg := range batch {
				if seg.SegmentID == "" {
					// without an id the segment cannot be deduplicated
					continue
				}
				key := string(seg.Speaker) + "/" + seg.SegmentID
				if _, dup := seen[key]; dup {
					continue
				}
				select {
				case out <- seg:
					seen[key] = struct{}{}
					emitted++
				case <-ctx.Done():
					return
				}
			}
			if emitted > 0 {
				s.log.WithFields(logrus.Fields{
					"call_id":  callID,
					"segments": emitted,
				}).Info("sent new transcript segments")
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// poll queries both tables and returns the merged, sorted batch. A query
// failure on either side skips the whole cycle; the subscription stays open
// and the next tick retries.
func (s *transcriptService) poll(ctx context.Context, callID string) ([]models.Segment, bool) {
	customer, err := s.segments.CustomerSegments(ctx, callID)
	if err != nil {
		s.log.WithError(err).WithField("call_id", callID).Warn("customer segment query failed, skipping cycle")
		return nil, false
	}
	agent, err := s.segments.AgentSegments(ctx, callID)
	if err != nil {
		s.log.WithError(err).WithField("call_id", callID).Warn("agent segment query failed, skipping cycle")
		return nil, false
	}

	for i := range customer {
		customer[i].Speaker = models.SpeakerCustomer
	}
	for i := range agent {
		agent[i].Speaker = models.SpeakerAgent
	}

	// customer-then-agent concatenation plus a stable sort keeps customer
	// segments ahead of agent segments on equal LoggedOn values; a missing
	// LoggedOn sorts as the empty string, i.e. earliest.
	all := append(customer, agent...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].LoggedOn < all[j].LoggedOn })
	return all, true
}
