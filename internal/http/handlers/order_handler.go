package handlers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// Place creates an order for the authenticated user.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	claims := CurrentClaims(c)

	var req services.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Please provide all required fields")
	}

	order, err := h.Orders.Place(claims.UserID, req)
	if err != nil {
		return failErr(c, err, "orders.place", "Error creating order")
	}

	applog.Audit(c, "orders.place", map[string]any{
		"order_id": order.ID,
		"total":    order.TotalAmount,
		"items":    len(order.Items),
	})
	return ok(c, fiber.StatusCreated, fiber.Map{
		"message": "Order created successfully",
		"order":   order,
	})
}

// List returns the caller's own orders, newest first.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	claims := CurrentClaims(c)
	orders, err := h.Orders.ListByUser(claims.UserID)
	if err != nil {
		return failErr(c, err, "orders.list", "Error fetching orders")
	}
	return ok(c, fiber.StatusOK, fiber.Map{"orders": orders})
}

// Get returns a single order scoped to the caller.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	claims := CurrentClaims(c)
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "Order not found")
	}

	order, err := h.Orders.GetForUser(id, claims.UserID)
	if err == sql.ErrNoRows {
		return fail(c, fiber.StatusNotFound, "Order not found")
	}
	if err != nil {
		return failErr(c, err, "orders.get", "Error fetching order")
	}
	return ok(c, fiber.StatusOK, fiber.Map{"order": order})
}

// UpdateStatus moves an order through its status machine (admin only).
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "Order not found")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return fail(c, fiber.StatusBadRequest, "Please provide a status")
	}

	if err := h.Orders.UpdateStatus(id, req.Status); err != nil {
		return failErr(c, err, "orders.status", "Error updating order")
	}
	applog.Audit(c, "orders.status", map[string]any{"order_id": id, "status": req.Status})
	return ok(c, fiber.StatusOK, fiber.Map{"message": "Order status updated"})
}
