package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/TrainingReg/internal/logging"
)

// Submission outcomes reported to the metrics recorder.
const (
	SubmitResultOK      = "ok"
	SubmitResultInvalid = "invalid"
	SubmitResultFailed  = "failed"
)

// SubmitRecorder observes submission outcomes. Optional.
type SubmitRecorder interface {
	ObserveSubmission(result string)
}

// Service runs the submission flow: validate, then exactly one insert.
type Service struct {
	store     Inserter
	catalog   Catalog
	publisher Publisher
	metrics   SubmitRecorder
	limiter   *WriteLimiter
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithPublisher announces every successful insert on a feed that the store
// does not drive itself.
func WithPublisher(p Publisher) ServiceOption {
	return func(s *Service) { s.publisher = p }
}

// WithSubmitRecorder records submission outcomes.
func WithSubmitRecorder(r SubmitRecorder) ServiceOption {
	return func(s *Service) { s.metrics = r }
}

// WithWriteLimiter bounds concurrent store writes.
func WithWriteLimiter(l *WriteLimiter) ServiceOption {
	return func(s *Service) { s.limiter = l }
}

// NewService creates a new Service instance.
func NewService(store Inserter, catalog Catalog, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		catalog: catalog,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// WriteStatus reports write limiter usage. ok is false when no limiter is set.
func (s *Service) WriteStatus() (status WriteLimiterStatus, ok bool) {
	if s.limiter == nil {
		return WriteLimiterStatus{}, false
	}
	return s.limiter.Status(), true
}

// WaitForWrites blocks until in-flight writes finish or ctx ends.
func (s *Service) WaitForWrites(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.WaitForDrain(ctx)
}

// Catalog returns the closed sets the form offers.
func (s *Service) Catalog() Catalog {
	return s.catalog
}

// Submit validates the form and writes it once.
//
// A ValidationErrors value is returned for invalid input. Store failures are
// logged and returned wrapped in ErrSubmitFailed; there is no retry.
func (s *Service) Submit(ctx context.Context, form SubmissionForm) (Registration, error) {
	logger := logging.FromContext(ctx)

	if err := ValidateSubmission(form, s.catalog); err != nil {
		s.observe(SubmitResultInvalid)
		return Registration{}, err
	}

	rec := NormalizeSubmission(form)
	client := ClientFromContext(ctx)

	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx); err != nil {
			s.observe(SubmitResultFailed)
			logger.Warn("no write slot for registration", "client_ip", client.IP, "error", err)
			return Registration{}, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
		}
		defer s.limiter.Release()
	}

	stored, err := s.store.Insert(ctx, rec)
	if err != nil {
		s.observe(SubmitResultFailed)
		logger.Error("save registration failed",
			"department", rec.Department,
			"client_ip", client.IP,
			"error", err,
		)
		return Registration{}, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	s.observe(SubmitResultOK)
	logger.Info("registration saved",
		"id", stored.ID,
		"department", stored.Department,
		"day", stored.ParticipationDay,
		"client_ip", client.IP,
		"user_agent", client.UserAgent,
	)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx); err != nil {
			// The row is stored; viewers catch up on the next notification.
			logger.Warn("publish change notification failed", slog.Any("error", err))
		}
	}

	return stored, nil
}

func (s *Service) observe(result string) {
	if s.metrics != nil {
		s.metrics.ObserveSubmission(result)
	}
}
