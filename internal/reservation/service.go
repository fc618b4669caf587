package reservation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/resource-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/resource-booking-backend/internal/resource"
)

type CreateRequest struct {
	Resource    string
	RequestedBy string
	StartTime   time.Time
	EndTime     time.Time
}

type Service interface {
	// Create validates req against now and the existing reservations of the
	// resource, then stores it. Conflicts are returned as *ConflictError.
	Create(ctx context.Context, req CreateRequest, now time.Time) (*Reservation, error)
	// Cancel removes the reservation with id, or returns ErrNotFound.
	Cancel(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	// Stats summarises every reservation matching filter; pagination is ignored.
	Stats(ctx context.Context, filter Filter, now time.Time) (Summary, error)
}

type service struct {
	repo       Repository
	resService resource.Service
	log        logrus.FieldLogger
	newID      func() string
}

func NewService(repo Repository, resService resource.Service, log logrus.FieldLogger) Service {
	return &service{
		repo:       repo,
		resService: resService,
		log:        log.WithField("component", "reservation"),
		newID:      uuid.NewString,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest, now time.Time) (*Reservation, error) {
	req.Resource = strings.TrimSpace(req.Resource)
	req.RequestedBy = strings.TrimSpace(req.RequestedBy)
	if req.Resource == "" || req.RequestedBy == "" || req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, ErrMissingFields
	}

	if err := Validate(req.StartTime, req.EndTime, now); err != nil {
		return nil, err
	}

	if !s.resService.Exists(ctx, req.Resource) {
		return nil, ErrUnknownResource
	}

	var created *Reservation
	err := s.repo.WithResourceLock(ctx, req.Resource, func(tx Tx) error {
		existing, err := tx.ListByResource(ctx, req.Resource)
		if err != nil {
			return s.storageFailure("list reservations by resource", err)
		}

		if result := CheckConflicts(req.Resource, req.StartTime, req.EndTime, existing, ""); result.HasConflict {
			return &ConflictError{Result: result}
		}

		r := &Reservation{
			ID:          s.newID(),
			Resource:    req.Resource,
			RequestedBy: req.RequestedBy,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			CreatedAt:   now,
		}

		created, err = tx.Insert(ctx, r)
		if err != nil {
			if errors.Is(err, ErrOverlap) {
				return &ConflictError{Result: ConflictResult{HasConflict: true, Message: ErrOverlap.Message}}
			}
			return s.storageFailure("insert reservation", err)
		}
		return nil
	})
	if err != nil {
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			// Lock or transaction failures surface here unwrapped.
			err = s.storageFailure("lock resource", err)
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"id":         created.ID,
		"resource":   created.Resource,
		"start_time": created.StartTime,
		"end_time":   created.EndTime,
	}).Info("reservation created")
	return created, nil
}

func (s *service) Cancel(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return s.storageFailure("delete reservation", err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.log.WithField("id", id).Info("reservation cancelled")
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Reservation, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.storageFailure("get reservation", err)
	}
	return r, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	rs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, s.storageFailure("list reservations", err)
	}
	return rs, total, nil
}

func (s *service) Stats(ctx context.Context, filter Filter, now time.Time) (Summary, error) {
	filter.Page, filter.PageSize = 0, 0
	rs, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return Summary{}, s.storageFailure("list reservations for stats", err)
	}
	return Summarize(rs, now), nil
}

// storageFailure logs err once and hides it behind ErrStorageFailure.
func (s *service) storageFailure(op string, err error) error {
	s.log.WithError(err).WithField("op", op).Error("reservation storage failure")
	return ErrStorageFailure.Wrap(err)
}
