package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seongmin-k/festival-discovery/internal/config"
	"github.com/seongmin-k/festival-discovery/internal/model"
	"github.com/seongmin-k/festival-discovery/internal/service"
	"github.com/seongmin-k/festival-discovery/internal/utils"
)

// UserHandler serves signup, login and profile endpoints.  Login issues
// the JWT consumed by the auth middleware.
type UserHandler struct {
	Cfg   config.Config
	Users *service.UserService
}

func NewUserHandler(cfg config.Config, s *service.UserService) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: s}
}

// ----- DTOs -----

type signupReq struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Interests []string `json:"interests"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResp struct {
	UserID    uint64   `json:"userId"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Interests []string `json:"interests"`
	JoinDate  string   `json:"joinDate"`
	Admin     int      `json:"admin"`
}

func toUserResp(u model.User) userResp {
	return userResp{
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Interests: model.SplitCategories(u.Interest),
		JoinDate:  u.JoinedAt.Format(time.RFC3339),
		Admin:     u.Admin,
	}
}

type loginResp struct {
	User    userResp `json:"user"`
	Token   string   `json:"token"`
	Expires string   `json:"expires"`
}

type userPatchReq struct {
	Name      *string  `json:"name"`
	Password  *string  `json:"password"`
	Interests []string `json:"interests"`
}

// ----- Handlers -----

// Signup creates a non-admin account.
func (h *UserHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password required"})
	}
	u, err := h.Users.Signup(c.Request().Context(), service.SignupInput{
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Password:  req.Password,
		Interests: req.Interests,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toUserResp(*u))
}

// Login verifies credentials and returns the account with a signed
// access token.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password required"})
	}
	u, err := h.Users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	tok, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Admin == 1, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, loginResp{
		User:    toUserResp(*u),
		Token:   tok.Token,
		Expires: tok.Exp.Format(time.RFC3339),
	})
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	u, err := h.Users.Get(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(*u))
}

// UpdateMe patches the authenticated user's profile.  Absent fields
// keep their stored values; an empty password is ignored.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	uid, ok := authedUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req userPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	u, err := h.Users.Update(c.Request().Context(), uid, service.UserPatch{
		Name:      req.Name,
		Password:  req.Password,
		Interests: req.Interests,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(*u))
}

// ListAll returns every account (admin only).
func (h *UserHandler) ListAll(c echo.Context) error {
	list, err := h.Users.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]userResp, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResp(u))
	}
	return c.JSON(http.StatusOK, out)
}
