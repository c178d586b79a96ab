package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inspection-case-backend/internal/service"
)

// ClientHandler serves the client registry ("Auftraggeber").
type ClientHandler struct {
	Clients *service.Clients
	log     *logrus.Entry
}

func NewClientHandler(clients *service.Clients, log *logrus.Entry) *ClientHandler {
	return &ClientHandler{Clients: clients, log: log.WithField("handler", "clients")}
}

type createClientReq struct {
	CompanyName string  `json:"companyName"`
	ContactName *string `json:"contactName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
}

func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.Clients.List(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, "list clients", err)
	}
	return c.JSON(http.StatusOK, clients)
}

// Create handles POST /api/clients; companyName is required.
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if req.CompanyName == "" {
		return badRequest(c, "companyName is required")
	}
	created, err := h.Clients.Create(c.Request().Context(), service.NewClient{
		CompanyName: req.CompanyName,
		ContactName: optional(req.ContactName),
		Email:       optional(req.Email),
		Phone:       optional(req.Phone),
		Address:     optional(req.Address),
	})
	if err != nil {
		return writeError(c, h.log, "create client", err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *ClientHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Clients.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, h.log, "delete client", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}
