package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhive/account-api/internal/api/metrics"
	"github.com/userhive/account-api/internal/core/ports"
)

const defaultPageLimit = 10

type UserHandler struct {
	users ports.UserService
	log   zerolog.Logger
}

func NewUserHandler(users ports.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

type userResponse struct {
	Message string         `json:"message"`
	User    userProjection `json:"user"`
}

type loginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    userProjection `json:"user"`
}

type paginationMeta struct {
	TotalUsers int64 `json:"totalUsers"`
	Limit      int64 `json:"limit"`
	Offset     int64 `json:"offset"`
	Returned   int   `json:"returned"`
}

type listResponse struct {
	Success    bool             `json:"success"`
	Pagination paginationMeta   `json:"pagination"`
	Users      []userProjection `json:"users"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /users/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// The datetime validator already guarantees this parses.
	dob, _ := time.Parse("2006-01-02", req.DOB)

	user, err := h.users.Register(c.Request().Context(), req.FullName, dob, req.Email, req.Password)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, userResponse{
		Message: "User registered successfully",
		User:    toProjection(user),
	})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   token,
		User:    toProjection(user),
	})
}

// GetByID returns a single user's public projection.
//
// @Summary      Get user by id
// @Tags         users
// @Produce      json
// @Param        id  path      int  true  "User id"
// @Success      200 {object}  userProjection
// @Failure      401 {object}  map[string]string
// @Failure      403 {object}  map[string]string
// @Failure      404 {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProjection(user))
}

// List returns a page of users, newest first. Admin only.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Param        limit   query     int  false  "Page size (default 10)"
// @Param        offset  query     int  false  "Page offset (default 0)"
// @Success      200     {object}  listResponse
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/all [get]
func (h *UserHandler) List(c echo.Context) error {
	limit := queryInt(c, "limit", defaultPageLimit)
	if limit < 1 {
		limit = 1
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	users, total, err := h.users.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listResponse{
		Success: true,
		Pagination: paginationMeta{
			TotalUsers: total,
			Limit:      limit,
			Offset:     offset,
			Returned:   len(users),
		},
		Users: toProjections(users),
	})
}

// Block marks the target account inactive and returns the updated projection.
//
// @Summary      Block a user
// @Tags         users
// @Produce      json
// @Param        id  path      int  true  "User id"
// @Success      200 {object}  userResponse
// @Failure      400 {object}  map[string]string
// @Failure      401 {object}  map[string]string
// @Failure      403 {object}  map[string]string
// @Failure      404 {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/block/{id} [put]
func (h *UserHandler) Block(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	callerID, role, err := ctxCaller(c)
	if err != nil {
		return err
	}

	user, err := h.users.Block(c.Request().Context(), id)
	if err != nil {
		return err
	}

	metrics.BlocksTotal.Inc()
	h.log.Info().
		Int64("target_id", id).
		Int64("caller_id", callerID).
		Str("caller_role", role).
		Msg("user blocked")

	return c.JSON(http.StatusOK, userResponse{
		Message: "User blocked successfully",
		User:    toProjection(user),
	})
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is missing or malformed.
func queryInt(c echo.Context, key string, def int64) int64 {
	v := c.QueryParam(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
