package api

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	domain "github.com/example/todo-api/domain/user"
	"github.com/example/todo-api/modules/auth"
	"github.com/example/todo-api/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer mono.ServiceContainer
	taskContainer mono.ServiceContainer
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer, taskContainer mono.ServiceContainer) *Handlers {
	return &Handlers{
		authContainer: authContainer,
		taskContainer: taskContainer,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.RegisterRequest{Email: req.Email, Password: req.Password}
	var resp auth.RegisterResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "register",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        resp.ID,
		Email:     resp.Email,
		CreatedAt: resp.CreatedAt,
	})
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.LoginRequest{Email: req.Email, Password: req.Password}
	var resp auth.TokenResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "login",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse(resp))
}

// Refresh handles token refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	authReq := auth.RefreshRequest{RefreshToken: req.RefreshToken}
	var resp auth.TokenResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "refresh-token",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse(resp))
}

// ListTasks handles GET /api/tasks. Query parameters pass through to the
// task module untouched; the module validates them before querying, so an
// invalid sort key or enum comes back as a 422 rather than a defaulted list.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := subjectClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	req := task.ListTasksRequest{
		OwnerID:  claims.UserID,
		Search:   c.Query("search"),
		SortBy:   c.Query("sort_by"),
		Order:    c.Query("order"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
	}
	var resp task.ListTasksResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "list",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// CreateTask handles POST /api/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := subjectClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	var req task.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return unparsableBody(c, err)
	}
	// The owner is always the verified subject, never client input.
	req.OwnerID = claims.UserID

	var resp task.TaskResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "create",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetTask handles GET /api/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, ok := subjectClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	req := task.GetTaskRequest{OwnerID: claims.UserID, ID: c.Params("id")}
	var resp task.TaskResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "get",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateTask handles PATCH /api/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := subjectClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	var req task.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return unparsableBody(c, err)
	}
	req.OwnerID = claims.UserID
	req.ID = c.Params("id")

	var resp task.TaskResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "update",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteTask handles DELETE /api/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := subjectClaims(c)
	if !ok {
		return unauthenticated(c)
	}

	req := task.DeleteTaskRequest{OwnerID: claims.UserID, ID: c.Params("id")}
	var resp task.DeleteTaskResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "delete",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// subjectClaims extracts the verified claims placed by AuthMiddleware.
func subjectClaims(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	return claims, ok
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "User not authenticated",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

// unparsableBody maps a body-parse failure to a 422, naming the offending
// field when the decoder reports one. A timestamp that fails to parse
// surfaces as a *time.ParseError rather than a type error; due_date is the
// only timestamp field in task bodies.
func unparsableBody(c *fiber.Ctx, err error) error {
	resp := ErrorResponse{
		Error:   "validation_error",
		Message: "Invalid request body",
	}
	var typeErr *json.UnmarshalTypeError
	var timeErr *time.ParseError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		resp.Field = typeErr.Field
		resp.Message = "Invalid value for field " + typeErr.Field
	case errors.As(err, &timeErr):
		resp.Field = "due_date"
		resp.Message = "Invalid value for field due_date"
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
}

// handleTaskError maps task-module failures onto the HTTP error taxonomy.
// Errors cross the service boundary as strings, so mapping matches on the
// stable message shapes the task module produces: not-found (which covers
// not-owned, indistinguishably), validation failures with their field, and
// retryable store failures.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "task not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	case strings.Contains(msg, "validation failed on"):
		field, detail := parseValidationError(msg)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: detail,
			Field:   field,
		})
	case strings.Contains(msg, "task store:"):
		log.Printf("[api] Task store error: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "store_unavailable",
			Message: "Task storage is temporarily unavailable, retry later",
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// parseValidationError splits "... validation failed on <field>: <detail>"
// into its field and detail parts.
func parseValidationError(msg string) (field, detail string) {
	const marker = "validation failed on "
	idx := strings.Index(msg, marker)
	rest := msg[idx+len(marker):]
	field, detail, ok := strings.Cut(rest, ": ")
	if !ok {
		return "", rest
	}
	return field, detail
}

// handleAuthError maps auth-module failures onto HTTP responses. Errors
// cross the service boundary as strings, so mapping matches known messages
// without exposing anything else to the client.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		})
	case strings.Contains(msg, "user with this email already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		})
	case strings.Contains(msg, "invalid email format"):
		return badRequest(c, "Invalid email format")
	case strings.Contains(msg, "password must be at least"):
		return badRequest(c, "Password must be at least 8 characters")
	case strings.Contains(msg, "password must be at most"):
		return badRequest(c, "Password must be at most 72 characters")
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
