package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitadesk/kitadesk-backend/internal/http/middleware"
)

// CredentialsRequest carries a username and password pair.
type CredentialsRequest struct {
	Username string `json:"username" binding:"required" example:"frontdesk"`
	Password string `json:"password" binding:"required" example:"s3cret!"`
}

// UserResponse is the public view of an account. The password hash never
// leaves the service layer.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// RegisterUser godoc
// @ID          registerUser
// @Summary     Create a staff account
// @Description Creates an account and establishes a session for it.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CredentialsRequest  true  "Credentials"
//
// @Success     201  {object}  handlers.UserResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     409  {object}  handlers.ErrorResponse  "Username taken"
// @Router      /auth/register [post]
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		failFromService(c, err)
		return
	}
	if err := middleware.EstablishSession(c, user.ID); err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, UserResponse{ID: user.ID, Username: user.Username})
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies credentials and establishes a session cookie. Unknown
// @Description usernames and wrong passwords produce the same response.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CredentialsRequest  true  "Credentials"
//
// @Success     200  {object}  handlers.UserResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	user, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		failFromService(c, err)
		return
	}
	if err := middleware.EstablishSession(c, user.ID); err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, UserResponse{ID: user.ID, Username: user.Username})
}

// Logout godoc
// @ID          logout
// @Summary     Log out
// @Description Clears the session. Succeeds whether or not a session exists.
// @Tags        Auth
//
// @Success     204  {string}  string  "No Content"
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	if err := middleware.ClearSession(c); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// CurrentUser godoc
// @ID          currentUser
// @Summary     Fetch the logged-in account
// @Tags        Auth
// @Produce     json
//
// @Success     200  {object}  handlers.UserResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthenticated"
// @Router      /auth/user [get]
func (h *Handlers) CurrentUser(c *gin.Context) {
	uid := middleware.SessionUserID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	user, err := h.authSvc.GetUser(c.Request.Context(), uid)
	if err != nil {
		// A session pointing at a deleted account is treated as logged out.
		if clearErr := middleware.ClearSession(c); clearErr != nil {
			failFromService(c, clearErr)
			return
		}
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, UserResponse{ID: user.ID, Username: user.Username})
}
