package httpserver

import (
	"log"
	"net/http"
	"time"

	authsvc "shoplab/internal/service/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// registerRequest has no role field; any role sent by a client is dropped
// during decoding.
type registerRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userView  `json:"user"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	ResetToken  string `json:"reset_token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

const forgotPasswordMessage = "If the email is registered, a password reset link has been sent."

func registerHandler(svc AuthService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if !bindJSON(c, &req) {
			return
		}
		u, err := svc.Register(c.Request.Context(), authsvc.RegisterInput{
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			Address:   req.Address,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": toUserView(*u)})
	}
}

func loginHandler(svc AuthService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !bindJSON(c, &req) {
			return
		}
		res, err := svc.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, loginResponse{
			Token:     res.Token,
			TokenType: "Bearer",
			ExpiresAt: res.ExpiresAt,
			User:      toUserView(*res.User),
		})
	}
}

func forgotPasswordHandler(svc AuthService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req forgotPasswordRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
	}
}

func resetPasswordHandler(svc AuthService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resetPasswordRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := svc.ResetPassword(c.Request.Context(), req.ResetToken, req.NewPassword); err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// pathID reads a uuid path parameter. Malformed ids answer 404, the same as
// ids that do not exist.
func pathID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return "", false
	}
	return id, true
}
