package service

import (
	"context"

	"github.com/iliyamo/inspection-case-backend/internal/model"
)

// Stats is the dashboard aggregate.
type Stats struct {
	TotalCases     int `json:"totalCases"`
	PendingCases   int `json:"pendingCases"`
	CompletedCases int `json:"completedCases"`
	ActiveUsers    int `json:"activeUsers"`
}

// Reports computes dashboard aggregates across the registries.
type Reports struct {
	cases CaseStore
	users UserStore
}

func NewReports(cases CaseStore, users UserStore) *Reports {
	if cases == nil || users == nil {
		panic("nil dependency passed to NewReports")
	}
	return &Reports{cases: cases, users: users}
}

// Stats counts cases by status (OPEN is pending, RELEASED is completed) and
// users flagged active.
func (r *Reports) Stats(ctx context.Context) (Stats, error) {
	cs, err := r.cases.List(ctx)
	if err != nil {
		return Stats{}, internal("list cases", err)
	}
	us, err := r.users.List(ctx)
	if err != nil {
		return Stats{}, internal("list users", err)
	}
	st := Stats{TotalCases: len(cs)}
	for _, c := range cs {
		switch c.Status {
		case model.StatusOpen:
			st.PendingCases++
		case model.StatusReleased:
			st.CompletedCases++
		}
	}
	for _, u := range us {
		if u.IsActive {
			st.ActiveUsers++
		}
	}
	return st, nil
}
