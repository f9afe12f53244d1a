package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/travoiq/callrelay/internal/cache"
	"github.com/travoiq/callrelay/internal/models"
	dynamorepo "github.com/travoiq/callrelay/internal/repositories/dynamo"
	"github.com/travoiq/callrelay/internal/utils"
)

// latestSampleLimit bounds the scan behind LatestCall. The sample is taken
// in store scan order, so the result is an approximation of true recency.
const latestSampleLimit = 20

const detailsCacheTTL = 30 * time.Second

// Publisher receives the incoming-call event after a successful persist.
type Publisher interface {
	Publish(msg any)
}

type CallService interface {
	RecordIncomingCall(ctx context.Context, in models.IncomingCall) (*models.CallDetails, error)
	GetDetails(ctx context.Context, callID string) (*models.CallDetails, error)
	LatestCall(ctx context.Context) (*models.CallDetails, error)
}

type callService struct {
	details dynamorepo.DetailsRepository
	pub     Publisher
	cache   cache.Cache
	log     *logrus.Logger
}

func NewCallService(details dynamorepo.DetailsRepository, pub Publisher, c cache.Cache, log *logrus.Logger) CallService {
	return &callService{details: details, pub: pub, cache: c, log: log}
}

func detailsCacheKey(callID string) string { return "call:details:" + callID }

// RecordIncomingCall persists the record and then broadcasts it. The
// broadcast is skipped entirely when the write fails: subscribers must never
// see a call that is not in the store.
func (s *callService) RecordIncomingCall(ctx context.Context, in models.IncomingCall) (*models.CallDetails, error) {
	const op = "CallService.RecordIncomingCall"

	if in.ContactID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "contactId is required", nil)
	}

	ts := in.CallTimestamp
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}
	md := in.Metadata
	if md == nil {
		md = map[string]any{}
	}

	rec := &models.CallDetails{
		ContactID:     in.ContactID,
		CallTimestamp: ts,
		PhoneNumber:   in.PhoneNumber,
		CustomerName:  in.CustomerName,
		Metadata:      md,
	}

	if err := s.details.Put(ctx, rec); err != nil {
		s.log.WithError(err).WithField("contact_id", in.ContactID).Error("failed to store incoming call")
		return nil, utils.E(utils.CodeInternal, op, "Failed to persist incoming call", err)
	}
	s.log.WithField("contact_id", in.ContactID).Info("stored incoming call")

	_ = s.cache.Del(ctx, detailsCacheKey(in.ContactID))
	s.pub.Publish(models.Envelope{Type: "incoming_call", Data: rec})
	return rec, nil
}

func (s *callService) GetDetails(ctx context.Context, callID string) (*models.CallDetails, error) {
	const op = "CallService.GetDetails"

	if callID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "call id is required", nil)
	}

	var cached models.CallDetails
	if hit, err := s.cache.GetJSON(ctx, detailsCacheKey(callID), &cached); err == nil && hit {
		return &cached, nil
	}

	d, err := s.details.Get(ctx, callID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, fmt.Sprintf("Call ID '%s' not found.", callID), err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load call details", err)
	}

	_ = s.cache.SetJSON(ctx, detailsCacheKey(callID), d, detailsCacheTTL)
	return d, nil
}

// LatestCall samples a bounded number of detail rows and returns the one
// with the greatest callTimestamp. Not guaranteed to be the globally latest
// record when the table outgrows the sample.
func (s *callService) LatestCall(ctx context.Context) (*models.CallDetails, error) {
	const op = "CallService.LatestCall"

	ds, err := s.details.Sample(ctx, latestSampleLimit)
	if err != nil {
		s.log.WithError(err).Error("latest-call sample failed")
		return nil, utils.E(utils.CodeInternal, op, "failed to poll for latest call", err)
	}
	if len(ds) == 0 {
		return nil, utils.E(utils.CodeNotFound, op, "No recent calls found.", nil)
	}

	sort.Slice(ds, func(i, j int) bool { return ds[i].CallTimestamp > ds[j].CallTimestamp })
	latest := ds[0]
	s.log.WithField("contact_id", latest.ContactID).Info("found latest call")
	return &latest, nil
}
