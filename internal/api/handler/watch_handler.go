package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smmpanel/smm-client/internal/core/domain"
	"github.com/smmpanel/smm-client/internal/infrastructure/queue"
)

// WatchRegistry is the set of background payment polls.
type WatchRegistry interface {
	Watch(orderID domain.ID) (queue.Watch, error)
	Stop(orderID domain.ID) (queue.Watch, error)
	Get(orderID domain.ID) (queue.Watch, error)
	List() []queue.Watch
}

// WatchHandler starts, inspects and cancels payment watches.
type WatchHandler struct {
	watches WatchRegistry
	log     zerolog.Logger
}

func NewWatchHandler(watches WatchRegistry, log zerolog.Logger) *WatchHandler {
	return &WatchHandler{watches: watches, log: log}
}

// List handles GET /api/v1/watches.
//
// @Summary      List payment watches
// @Tags         watches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  watchListResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/watches [get]
func (h *WatchHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, watchListResponse{Watches: h.watches.List()})
}

// Start handles POST /api/v1/payments/:order_id/watch. Starting a running
// watch returns it unchanged.
//
// @Summary      Start polling a payment
// @Tags         watches
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      string  true  "Payment order id"
// @Success      202       {object}  queue.Watch
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Failure      429       {object}  errorResponse
// @Router       /api/v1/payments/{order_id}/watch [post]
func (h *WatchHandler) Start(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}
	w, err := h.watches.Watch(id)
	if err != nil {
		return err
	}
	h.log.Info().Str("actor", actor(c)).Str("order_id", id.String()).Msg("watch requested")
	return c.JSON(http.StatusAccepted, w)
}

// Get handles GET /api/v1/payments/:order_id/watch.
//
// @Summary      Show one payment watch
// @Tags         watches
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      string  true  "Payment order id"
// @Success      200       {object}  queue.Watch
// @Failure      404       {object}  errorResponse
// @Router       /api/v1/payments/{order_id}/watch [get]
func (h *WatchHandler) Get(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}
	w, err := h.watches.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w)
}

// Stop handles DELETE /api/v1/payments/:order_id/watch.
//
// @Summary      Cancel a payment watch
// @Tags         watches
// @Produce      json
// @Security     BearerAuth
// @Param        order_id  path      string  true  "Payment order id"
// @Success      200       {object}  queue.Watch
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/v1/payments/{order_id}/watch [delete]
func (h *WatchHandler) Stop(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}
	w, err := h.watches.Stop(id)
	if err != nil {
		return err
	}
	h.log.Info().Str("actor", actor(c)).Str("order_id", id.String()).Msg("watch cancelled")
	return c.JSON(http.StatusOK, w)
}

func orderID(c echo.Context) (domain.ID, error) {
	var p watchParams
	if err := c.Bind(&p); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	if err := c.Validate(p); err != nil {
		return "", err
	}
	return domain.ID(p.OrderID), nil
}
