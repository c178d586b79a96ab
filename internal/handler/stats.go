package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inspection-case-backend/internal/service"
)

// StatsHandler serves GET /api/stats.
type StatsHandler struct {
	Reports *service.Reports
	log     *logrus.Entry
}

func NewStatsHandler(reports *service.Reports, log *logrus.Entry) *StatsHandler {
	return &StatsHandler{Reports: reports, log: log.WithField("handler", "stats")}
}

func (h *StatsHandler) Get(c echo.Context) error {
	st, err := h.Reports.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, "stats", err)
	}
	return c.JSON(http.StatusOK, st)
}
