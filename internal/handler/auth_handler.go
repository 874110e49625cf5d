package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ahmadqo/campus-console/internal/form"
	"github.com/ahmadqo/campus-console/internal/middleware"
	"github.com/ahmadqo/campus-console/internal/model"
	"github.com/ahmadqo/campus-console/internal/response"
	"github.com/ahmadqo/campus-console/internal/service"
	"github.com/ahmadqo/campus-console/internal/utils"
)

type AuthHandler struct {
	authService  service.AuthService
	render       *Renderer
	validator    *form.Validator
	secureCookie bool
}

func NewAuthHandler(authService service.AuthService, render *Renderer, validator *form.Validator, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, render: render, validator: validator, secureCookie: secureCookie}
}

func (h *AuthHandler) checkCredentials(email, password string) utils.ValidationErrors {
	errs := utils.ValidationErrors{}
	if err := h.validator.Check(email, "Email", "required,email_basic"); err != nil {
		errs["email"] = err.Error()
	}
	if password == "" {
		errs["password"] = "Password is required"
	}
	return errs
}

// Login godoc
// @Summary      Operator login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  service.LoginRequest  true  "Credentials"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest

	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}

	req.Email = utils.SanitizeString(strings.ToLower(req.Email))
	if errs := h.checkCredentials(req.Email, req.Password); errs.HasErrors() {
		response.BadRequest(w, "Validation failed", errs)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(w, err.Error())
		case errors.Is(err, service.ErrAccountDisabled):
			response.Forbidden(w, err.Error())
		default:
			response.InternalError(w, "Internal server error")
		}
		return
	}

	response.Success(w, "Login successful", result)
}

// Register godoc
// @Summary      Create an operator account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  service.RegisterRequest  true  "New operator"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /operators [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest

	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}

	errs := utils.ValidationErrors{}
	req.Name = utils.SanitizeString(req.Name)
	req.Email = utils.SanitizeString(strings.ToLower(req.Email))

	if req.Name == "" {
		errs["name"] = "Name is required"
	}
	if err := h.validator.Check(req.Email, "Email", "required,email_basic"); err != nil {
		errs["email"] = err.Error()
	}
	if req.Password == "" {
		errs["password"] = "Password is required"
	} else if !utils.IsValidPassword(req.Password) {
		errs["password"] = "Password needs at least 8 characters with a letter and a digit"
	}

	validRoles := map[model.Role]bool{model.RoleAdmin: true, model.RoleOperator: true, model.RoleViewer: true}
	if req.Role != "" && !validRoles[req.Role] {
		errs["role"] = "Role must be admin, operator or viewer"
	}

	if errs.HasErrors() {
		response.BadRequest(w, "Validation failed", errs)
		return
	}

	result, err := h.authService.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			response.BadRequest(w, err.Error(), nil)
			return
		}
		response.InternalError(w, "Internal server error")
		return
	}

	response.Created(w, "Operator created", result)
}

// Me godoc
// @Summary      Current operator
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	if userID == "" {
		response.Unauthorized(w, "Not authenticated")
		return
	}

	op, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		response.NotFound(w, "Operator not found")
		return
	}

	response.Success(w, "Operator retrieved", op)
}

// Operators godoc
// @Summary      List operator accounts
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /operators [get]
func (h *AuthHandler) Operators(w http.ResponseWriter, r *http.Request) {
	ops, err := h.authService.Operators(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to fetch operators")
		return
	}
	response.Success(w, "Operators retrieved", ops)
}

type activeRequest struct {
	Active bool `json:"active"`
}

// SetActive godoc
// @Summary      Enable or disable an operator
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string         true  "Operator id"
// @Param        body  body  activeRequest  true  "New state"
// @Success      200  {object}  response.Response
// @Router       /operators/{id}/active [patch]
func (h *AuthHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req activeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	if id == middleware.GetUserIDFromContext(r.Context()) && !req.Active {
		response.BadRequest(w, "You cannot disable your own account", nil)
		return
	}
	if err := h.authService.SetActive(r.Context(), id, req.Active); err != nil {
		if errors.Is(err, service.ErrOperatorNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update operator")
		return
	}
	response.Success(w, "Operator updated", map[string]any{"id": id, "active": req.Active})
}

// LoginPage renders the sign-in form.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := utils.SafeRedirect(r.URL.Query().Get("next"), "/")
	h.render.Render(w, r, http.StatusOK, "login.html", view{Title: "Sign in", Data: next})
}

// LoginSubmit signs in from the HTML form and sets the session cookie.
func (h *AuthHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	next := utils.SafeRedirect(r.PostFormValue("next"), "/")
	email := utils.SanitizeString(strings.ToLower(r.PostFormValue("email")))
	password := r.PostFormValue("password")

	fail := func(status int, msg string) {
		h.render.Render(w, r, status, "login.html", view{Title: "Sign in", Error: msg, Data: next})
	}

	if errs := h.checkCredentials(email, password); errs.HasErrors() {
		fail(http.StatusBadRequest, "Enter a valid email and password")
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginRequest{Email: email, Password: password})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			fail(http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrAccountDisabled):
			fail(http.StatusForbidden, err.Error())
		default:
			fail(http.StatusInternalServerError, "Sign in is unavailable, try again later")
		}
		return
	}

	middleware.SetSessionCookie(w, result.Token.AccessToken, result.Token.ExpiresAt, h.secureCookie)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
