// Package log emits one-line JSON events so auth and order activity can be
// grepped out of the server log by action name.
package log

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

type entry struct {
	TS     string         `json:"ts"`
	Level  string         `json:"level"`
	Action string         `json:"action,omitempty"`
	ReqID  string         `json:"req_id,omitempty"`
	IP     string         `json:"ip,omitempty"`
	Method string         `json:"method,omitempty"`
	Path   string         `json:"path,omitempty"`
	Status int            `json:"status,omitempty"`
	UserID string         `json:"user_id,omitempty"`
	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// fromCtx fills request-scoped fields. The user id comes from the JWT
// middleware via Locals, so audit lines carry identity without every call
// site passing it.
func (e *entry) fromCtx(c *fiber.Ctx) {
	if c == nil {
		return
	}
	e.IP = c.IP()
	e.Method = c.Method()
	e.Path = c.Path()
	e.Status = c.Response().StatusCode()
	if rid, ok := c.Locals("requestid").(string); ok {
		e.ReqID = rid
	}
	if uid, ok := c.Locals("userID").(string); ok {
		e.UserID = uid
	}
}

func emit(level string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := entry{
		TS:     time.Now().UTC().Format(time.RFC3339),
		Level:  level,
		Action: action,
		Fields: fields,
	}
	e.fromCtx(c)
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	log.Println(string(b))
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	emit("info", c, action, nil, fields)
}

// Audit marks state-changing actions (registrations, orders, inventory edits).
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	emit("audit", c, action, nil, fields)
}

// Security marks rejected access: bad credentials, missing or invalid tokens,
// rate limiting.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	emit("warn", c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	emit("error", c, action, err, fields)
}
