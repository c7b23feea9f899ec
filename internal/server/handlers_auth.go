package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/okanele/peoplebook/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// login verifies credentials and binds a fresh session to the caller's cookie.
func (h *handler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	user, err := h.authn.Authenticate(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	sess := h.sessions.Create(user.ID, user.Username)
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Login successful",
		"username": user.Username,
	})
}

// logout destroys the caller's session if one exists. Idempotent.
func (h *handler) logout(c echo.Context) error {
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		h.sessions.Destroy(cookie.Value)
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

// me reports the authenticated username, or 401 without a live session.
func (h *handler) me(c echo.Context) error {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not logged in"})
	}
	sess, ok := h.sessions.Get(cookie.Value)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not logged in"})
	}
	return c.JSON(http.StatusOK, echo.Map{"username": sess.Username})
}

// changePassword overwrites the bound user's hash unconditionally: no prior
// password verification, no strength policy, and other live sessions for the
// account stay valid.
func (h *handler) changePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error hashing password"})
	}

	if err := h.store.UpdatePassword(c.Request().Context(), principal(c).UserID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully"})
}
