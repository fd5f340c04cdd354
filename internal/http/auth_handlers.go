package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/plateful/plateful/internal/domain"
	"github.com/plateful/plateful/internal/log"
	"github.com/plateful/plateful/internal/queue"
	"github.com/plateful/plateful/internal/repo"
	"github.com/plateful/plateful/internal/security"
)

type signupReq struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Contact  string `json:"contact"`
}

// Signup godoc
// @Summary Create account and send verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signupReq true "signup"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/v1/user/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var in signupReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Email) == "" ||
		in.Password == "" || strings.TrimSpace(in.Contact) == "" {
		fail(c, http.StatusBadRequest, "all fields are required")
		return
	}
	email := repo.NormalizeEmail(in.Email)
	if !strings.Contains(email, "@") {
		fail(c, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(in.Password) < 6 {
		fail(c, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}
	if u, _ := h.Store.FindUserByEmail(c.Request.Context(), email); u != nil {
		fail(c, http.StatusBadRequest, "user already exists with this email")
		return
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	code, err := security.NewVerificationCode()
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Contact:      strings.TrimSpace(in.Contact),
		Verification: &domain.TokenGrant{
			Token:     code,
			ExpiresAt: timeNow().Add(security.VerificationTTL),
		},
	}
	if err := h.Store.CreateUser(c.Request.Context(), u); err != nil {
		if err == repo.ErrEmailTaken {
			fail(c, http.StatusBadRequest, "user already exists with this email")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	// session and email only after the record is durably created
	tok, err := security.MakeSession(h.Cfg.JWTSecret, u.ID.Hex(), u.Email, h.sessionTTL())
	if err != nil {
		fail(c, http.StatusInternalServerError, "server configuration error")
		return
	}
	h.setSessionCookie(c, tok)

	mailErr := h.Mail.SendVerification(c.Request.Context(), u.Email, code)
	countEmail("verification", mailErr)
	if mailErr != nil {
		log.Errorf("verification email to %s: %v", u.Email, mailErr)
		fail(c, http.StatusInternalServerError, "failed to send verification email")
		return
	}

	// detached from the request context: the response does not wait on the broker
	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), queue.Exchange, "user.registered",
		queue.UserRegistered{UserID: u.ID, Email: u.Email, Name: u.FullName},
		c.GetString("X-Request-ID"))

	resp := gin.H{
		"success": true,
		"message": "Account created successfully. Please check your email for verification.",
		"user":    u,
	}
	if !h.Cfg.Production() {
		resp["verify_token_dev"] = code
	}
	c.JSON(http.StatusCreated, resp)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Authenticate and issue session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/v1/user/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" || in.Password == "" {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}
	u, err := h.Store.FindUserByEmail(c.Request.Context(), in.Email)
	// identical message for unknown email and wrong password
	if err != nil || u == nil || !security.CheckPassword(u.PasswordHash, in.Password) {
		fail(c, http.StatusBadRequest, "incorrect email or password")
		return
	}

	tok, err := security.MakeSession(h.Cfg.JWTSecret, u.ID.Hex(), u.Email, h.sessionTTL())
	if err != nil {
		fail(c, http.StatusInternalServerError, "server configuration error")
		return
	}
	h.setSessionCookie(c, tok)

	if err := h.Store.TouchLastLogin(c.Request.Context(), u.ID); err != nil {
		log.Errorf("touch last_login for %s: %v", u.ID.Hex(), err)
	}

	go h.Events.Publish(context.WithoutCancel(c.Request.Context()), queue.Exchange, "user.loggedin",
		queue.UserLoggedIn{UserID: u.ID, Email: u.Email},
		c.GetString("X-Request-ID"))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Welcome back " + u.FullName,
		"user":    u,
	})
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/user/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully."})
}

type verifyEmailReq struct {
	VerificationCode string `json:"verification_code"`
}

// VerifyEmail godoc
// @Summary Consume verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body verifyEmailReq true "verification code"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/v1/user/verify-email [post]
func (h *Handler) VerifyEmail(c *gin.Context) {
	var in verifyEmailReq
	if err := c.ShouldBindJSON(&in); err != nil || in.VerificationCode == "" {
		fail(c, http.StatusBadRequest, "verification code is required")
		return
	}
	u, err := h.Store.FindUserByVerification(c.Request.Context(), in.VerificationCode)
	if err != nil || u == nil {
		fail(c, http.StatusBadRequest, "invalid or expired verification token")
		return
	}
	if err := h.Store.MarkVerified(c.Request.Context(), u.ID); err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	u.Verified = true
	u.Verification = nil

	// welcome mail is best-effort: verification already committed
	if err := h.Mail.SendWelcome(c.Request.Context(), u.Email, u.FullName); err != nil {
		log.Errorf("welcome email to %s: %v", u.Email, err)
		countEmail("welcome", err)
	} else {
		countEmail("welcome", nil)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email verified successfully.",
		"user":    u,
	})
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}

// ForgotPassword godoc
// @Summary Issue password-reset token and email link
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body forgotPasswordReq true "email"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/v1/user/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var in forgotPasswordReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" {
		fail(c, http.StatusBadRequest, "email is required")
		return
	}
	u, err := h.Store.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if u == nil {
		// reveals account existence; kept for API compatibility
		fail(c, http.StatusNotFound, "user doesn't exist")
		return
	}

	token, err := security.NewResetToken()
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	grant := domain.TokenGrant{Token: token, ExpiresAt: timeNow().Add(security.ResetTTL)}
	if err := h.Store.SetPasswordReset(c.Request.Context(), u.ID, grant); err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	resetURL := strings.TrimRight(h.Cfg.FrontendURL, "/") + "/resetpassword/" + token
	mailErr := h.Mail.SendPasswordReset(c.Request.Context(), u.Email, resetURL)
	countEmail("password_reset", mailErr)
	if mailErr != nil {
		log.Errorf("reset email to %s: %v", u.Email, mailErr)
		fail(c, http.StatusInternalServerError, "failed to send password reset email")
		return
	}

	resp := gin.H{"success": true, "message": "Password reset link sent to your email"}
	if !h.Cfg.Production() {
		resp["reset_token_dev"] = token
	}
	c.JSON(http.StatusOK, resp)
}

type resetPasswordReq struct {
	NewPassword string `json:"new_password"`
}

// ResetPassword godoc
// @Summary Consume reset token and set a new password
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "reset token"
// @Param payload body resetPasswordReq true "new password"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/v1/user/reset-password/{token} [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	var in resetPasswordReq
	if err := c.ShouldBindJSON(&in); err != nil || len(in.NewPassword) < 6 {
		fail(c, http.StatusBadRequest, "new password must be at least 6 characters")
		return
	}
	u, err := h.Store.FindUserByReset(c.Request.Context(), token)
	if err != nil || u == nil {
		fail(c, http.StatusBadRequest, "invalid or expired reset token")
		return
	}

	hash, err := security.HashPassword(in.NewPassword)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if err := h.Store.ReplacePassword(c.Request.Context(), u.ID, hash); err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.Mail.SendResetSuccess(c.Request.Context(), u.Email); err != nil {
		log.Errorf("reset-success email to %s: %v", u.Email, err)
		countEmail("reset_success", err)
	} else {
		countEmail("reset_success", nil)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully."})
}

// CheckAuth godoc
// @Summary Return the authenticated identity
// @Tags auth
// @Security SessionCookie
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/v1/user/check-auth [get]
func (h *Handler) CheckAuth(c *gin.Context) {
	id, ok := authUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}
	u, err := h.Store.FindUserByID(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if u == nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

type updateProfileReq struct {
	FullName       string `json:"fullname"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Country        string `json:"country"`
	ProfilePicture string `json:"profile_picture"` // data URI; uploaded before fields are applied
}

// UpdateProfile godoc
// @Summary Update profile fields and picture
// @Tags auth
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param payload body updateProfileReq true "profile fields"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/v1/user/profile/update [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := authUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "user not authenticated")
		return
	}
	var in updateProfileReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid json")
		return
	}

	fields := bson.M{}
	if strings.TrimSpace(in.FullName) != "" {
		fields["fullname"] = strings.TrimSpace(in.FullName)
	}
	if strings.TrimSpace(in.Email) != "" {
		fields["email"] = repo.NormalizeEmail(in.Email)
	}
	if in.Address != "" {
		fields["address"] = in.Address
	}
	if in.City != "" {
		fields["city"] = in.City
	}
	if in.Country != "" {
		fields["country"] = in.Country
	}

	// all-or-nothing: the upload happens first and a failure aborts the
	// whole update, then fields and picture land in a single write
	if in.ProfilePicture != "" {
		url, err := h.Media.UploadImage(c.Request.Context(), in.ProfilePicture, "plateful/profiles")
		if err != nil {
			log.Errorf("profile picture upload: %v", err)
			fail(c, http.StatusBadRequest, "failed to upload profile picture")
			return
		}
		fields["profile_picture"] = url
	}

	if len(fields) == 0 {
		fail(c, http.StatusBadRequest, "nothing to update")
		return
	}

	u, err := h.Store.UpdateUserProfile(c.Request.Context(), id, fields)
	if err == repo.ErrEmailTaken {
		fail(c, http.StatusBadRequest, "user already exists with this email")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if u == nil {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    u,
	})
}
