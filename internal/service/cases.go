package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inspection-case-backend/internal/model"
	"github.com/iliyamo/inspection-case-backend/internal/queue"
	"github.com/iliyamo/inspection-case-backend/internal/repository"
)

// CaseStore is the Case Registry contract.  Insert assigns ID, CaseNumber
// and CreatedAt; Delete is idempotent and reports whether a case existed.
type CaseStore interface {
	Insert(ctx context.Context, c *model.Case) error
	Get(ctx context.Context, id uint64) (model.Case, error)
	List(ctx context.Context) ([]model.Case, error)
	Update(ctx context.Context, id uint64, p model.CasePatch) (model.Case, error)
	Delete(ctx context.Context, id uint64) (bool, error)
}

// NewCase is the input of Cases.Create.  Pointer fields are optional.
type NewCase struct {
	Title         *string
	Description   string
	InspectorID   uint64
	ClientID      *uint64
	Priority      string
	Status        string
	FileReference *string
	OrderDate     string
	Deadline      *string
	Location      *string
	InternalNote  *string
}

// Cases is the Case Registry.
type Cases struct {
	cases  CaseStore
	users  UserStore
	events EventPublisher
	log    *logrus.Entry
	now    func() time.Time
}

func NewCases(cases CaseStore, users UserStore, events EventPublisher, log *logrus.Entry) *Cases {
	if cases == nil || users == nil {
		panic("nil dependency passed to NewCases")
	}
	if events == nil {
		events = noopPublisher{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Cases{cases: cases, users: users, events: events, log: log.WithField("component", "cases"), now: time.Now}
}

// Create registers a case.  The inspector's current name is copied onto the
// case; an unresolvable inspector is recorded as "Unknown" rather than
// rejected.  Priority defaults to MEDIUM, status to OPEN and the order date
// to today (UTC).
func (s *Cases) Create(ctx context.Context, in NewCase) (model.Case, error) {
	if in.Description == "" || in.InspectorID == 0 {
		return model.Case{}, validation("description and inspectorId are required")
	}

	inspectorName := model.UnknownInspector
	if u, err := s.users.FindByID(ctx, in.InspectorID); err == nil {
		inspectorName = u.Name
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.log.WithError(err).WithField("inspector_id", in.InspectorID).Warn("inspector lookup failed")
	}

	c := model.Case{
		Title:         in.Title,
		Description:   in.Description,
		InspectorID:   in.InspectorID,
		InspectorName: inspectorName,
		ClientID:      in.ClientID,
		Priority:      in.Priority,
		Status:        in.Status,
		FileReference: in.FileReference,
		OrderDate:     in.OrderDate,
		Deadline:      in.Deadline,
		Location:      in.Location,
		InternalNote:  in.InternalNote,
	}
	if c.Priority == "" {
		c.Priority = model.PriorityMedium
	}
	if c.Status == "" {
		c.Status = model.StatusOpen
	}
	if c.OrderDate == "" {
		c.OrderDate = s.now().UTC().Format("2006-01-02")
	}

	if err := s.cases.Insert(ctx, &c); err != nil {
		return model.Case{}, internal("insert case", err)
	}

	publish(ctx, s.events, s.log, queue.CaseCreatedKey, queue.CaseEvent{
		CaseID:        c.ID,
		CaseNumber:    c.CaseNumber,
		InspectorID:   c.InspectorID,
		InspectorName: c.InspectorName,
		ClientID:      c.ClientID,
		Priority:      c.Priority,
		Status:        c.Status,
		OccurredAt:    nowRFC3339(),
	})
	return c, nil
}

// List returns all cases in creation order.
func (s *Cases) List(ctx context.Context) ([]model.Case, error) {
	out, err := s.cases.List(ctx)
	if err != nil {
		return nil, internal("list cases", err)
	}
	return out, nil
}

// Update overwrites title, description, status and priority where given.
// Empty strings are rejected for description and status.
func (s *Cases) Update(ctx context.Context, id uint64, p model.CasePatch) (model.Case, error) {
	if p.Description != nil && *p.Description == "" {
		return model.Case{}, validation("description must not be empty")
	}
	if p.Status != nil && *p.Status == "" {
		return model.Case{}, validation("status must not be empty")
	}
	if p.Priority != nil && *p.Priority == "" {
		return model.Case{}, validation("priority must not be empty")
	}
	c, err := s.cases.Update(ctx, id, p)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Case{}, fmt.Errorf("%w: case %d", ErrNotFound, id)
		}
		return model.Case{}, internal("update case", err)
	}
	return c, nil
}

// Delete hard-deletes a case; an unknown id is not an error.  case.deleted
// is published only when a case was actually removed.
func (s *Cases) Delete(ctx context.Context, id uint64) error {
	removed, err := s.cases.Delete(ctx, id)
	if err != nil {
		return internal("delete case", err)
	}
	if !removed {
		return nil
	}
	publish(ctx, s.events, s.log, queue.CaseDeletedKey, queue.CaseEvent{CaseID: id, OccurredAt: nowRFC3339()})
	return nil
}
