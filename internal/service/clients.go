package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inspection-case-backend/internal/model"
	"github.com/iliyamo/inspection-case-backend/internal/queue"
)

// ClientStore is the Client Registry contract.
type ClientStore interface {
	Insert(ctx context.Context, c *model.Client) error
	List(ctx context.Context) ([]model.Client, error)
	Delete(ctx context.Context, id uint64) error
}

// NewClient is the input of Clients.Create.
type NewClient struct {
	CompanyName string
	ContactName *string
	Email       *string
	Phone       *string
	Address     *string
}

// Clients is the Client Registry.
type Clients struct {
	clients ClientStore
	events  EventPublisher
	log     *logrus.Entry
}

func NewClients(clients ClientStore, events EventPublisher, log *logrus.Entry) *Clients {
	if clients == nil {
		panic("nil dependency passed to NewClients")
	}
	if events == nil {
		events = noopPublisher{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Clients{clients: clients, events: events, log: log.WithField("component", "clients")}
}

// Create registers a client company; only CompanyName is required.
func (s *Clients) Create(ctx context.Context, in NewClient) (model.Client, error) {
	if in.CompanyName == "" {
		return model.Client{}, validation("companyName is required")
	}
	c := model.Client{
		CompanyName: in.CompanyName,
		ContactName: in.ContactName,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
	}
	if err := s.clients.Insert(ctx, &c); err != nil {
		return model.Client{}, internal("insert client", err)
	}
	publish(ctx, s.events, s.log, queue.ClientCreatedKey, queue.ClientEvent{
		ClientID:    c.ID,
		CompanyName: c.CompanyName,
		OccurredAt:  nowRFC3339(),
	})
	return c, nil
}

func (s *Clients) List(ctx context.Context) ([]model.Client, error) {
	out, err := s.clients.List(ctx)
	if err != nil {
		return nil, internal("list clients", err)
	}
	return out, nil
}

// Delete hard-deletes a client.  Cases referencing it are left untouched.
func (s *Clients) Delete(ctx context.Context, id uint64) error {
	if err := s.clients.Delete(ctx, id); err != nil {
		return internal("delete client", err)
	}
	return nil
}
