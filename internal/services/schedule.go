package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"slotpoll/internal/domain"
	"slotpoll/internal/timeslot"
)

type scheduleService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	appBaseURL     string
	contextTimeout time.Duration
}

func NewScheduleService(eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	appBaseURL string,
	timeout time.Duration,
) domain.EventService {
	return &scheduleService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		appBaseURL:     strings.TrimRight(appBaseURL, "/"),
		contextTimeout: timeout,
	}
}

func (s *scheduleService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.OwnerID == "" {
		return fmt.Errorf("%w: event owner is required", domain.ErrValidation)
	}
	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if event.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", domain.ErrValidation)
	}
	start, err := time.ParseInLocation(timeslot.DateLayout, event.StartDate, time.UTC)
	if err != nil {
		return fmt.Errorf("%w: invalid start date %q", domain.ErrValidation, event.StartDate)
	}
	end, err := time.ParseInLocation(timeslot.DateLayout, event.EndDate, time.UTC)
	if err != nil {
		return fmt.Errorf("%w: invalid end date %q", domain.ErrValidation, event.EndDate)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: end date precedes start date", domain.ErrValidation)
	}
	if event.StartHour < 0 || event.EndHour > 24 || event.StartHour >= event.EndHour {
		return fmt.Errorf("%w: hour window must satisfy 0 <= start < end <= 24", domain.ErrValidation)
	}

	event.Status = domain.EventStatusActive
	event.CreatedAt = time.Now()

	return s.eventRepo.Create(ctx, event)
}

func (s *scheduleService) GetEvent(ctx context.Context, eventID string) (*domain.Event, []string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	slots, err := timeslot.GenerateForEvent(event)
	if err != nil {
		return nil, nil, fmt.Errorf("generate slots: %w", err)
	}
	return event, slots, nil
}

func (s *scheduleService) ListEventsByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.ListByOwnerID(ctx, ownerID)
}

func (s *scheduleService) DeleteEvent(ctx context.Context, eventID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *scheduleService) SendInvitations(ctx context.Context, eventID, ownerID string, emails []string) (sent int, failed []string, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil, domain.ErrNotFound
		}
		return 0, nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != ownerID {
		return 0, nil, domain.ErrForbidden
	}

	organizerName := "Event organizer"
	if owner, err := s.userRepo.GetByID(ctx, ownerID); err == nil && owner != nil {
		if name := strings.TrimSpace(owner.Name); name != "" {
			organizerName = name
		} else if owner.Email != "" {
			organizerName = owner.Email
		}
	}

	eventURL := fmt.Sprintf("%s/events/%s", s.appBaseURL, event.ID)
	for _, email := range emails {
		email = strings.TrimSpace(strings.ToLower(email))
		if email == "" {
			continue
		}
		data := &domain.EventInvitationEmailData{
			Email:         email,
			EventTitle:    event.Title,
			OrganizerName: organizerName,
			EventURL:      eventURL,
		}
		if err := s.emailService.SendEventInvitation(ctx, data); err != nil {
			failed = append(failed, email)
			continue
		}
		sent++
	}
	return sent, failed, nil
}
