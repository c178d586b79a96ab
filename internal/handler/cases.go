package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inspection-case-backend/internal/model"
	"github.com/iliyamo/inspection-case-backend/internal/service"
)

// CaseHandler serves the case registry ("Auftragsbogen").
type CaseHandler struct {
	Cases *service.Cases
	log   *logrus.Entry
}

func NewCaseHandler(cases *service.Cases, log *logrus.Entry) *CaseHandler {
	return &CaseHandler{Cases: cases, log: log.WithField("handler", "cases")}
}

type createCaseReq struct {
	Title         *string `json:"title"`
	Description   string  `json:"description"`
	InspectorID   flexID  `json:"inspectorId"`
	ClientID      *flexID `json:"clientId"`
	Priority      string  `json:"priority"`
	Status        string  `json:"status"`
	FileReference *string `json:"fileReference"`
	OrderDate     *string `json:"orderDate"`
	Deadline      *string `json:"deadline"`
	Location      *string `json:"location"`
	InternalNote  *string `json:"internalNote"`
}

type updateCaseReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// List handles GET /api/cases.
func (h *CaseHandler) List(c echo.Context) error {
	cases, err := h.Cases.List(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, "list cases", err)
	}
	return c.JSON(http.StatusOK, cases)
}

// Create handles POST /api/cases.  description and inspectorId are
// required; everything else is optional.
func (h *CaseHandler) Create(c echo.Context) error {
	var req createCaseReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" || req.InspectorID == 0 {
		return badRequest(c, "description and inspectorId are required")
	}
	in := service.NewCase{
		Title:         optional(req.Title),
		Description:   req.Description,
		InspectorID:   uint64(req.InspectorID),
		ClientID:      req.ClientID.ptr(),
		Priority:      strings.TrimSpace(req.Priority),
		Status:        strings.TrimSpace(req.Status),
		FileReference: optional(req.FileReference),
		Deadline:      optional(req.Deadline),
		Location:      optional(req.Location),
		InternalNote:  optional(req.InternalNote),
	}
	if d := optional(req.OrderDate); d != nil {
		in.OrderDate = *d
	}
	created, err := h.Cases.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, "create case", err)
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/cases/:id.
func (h *CaseHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req updateCaseReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	updated, err := h.Cases.Update(c.Request().Context(), id, model.CasePatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		return writeError(c, h.log, "update case", err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/cases/:id; unknown ids succeed.
func (h *CaseHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Cases.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, h.log, "delete case", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
