package httpserver

import (
	"log"
	"net/http"

	usersvc "shoplab/internal/service/user"

	"github.com/gin-gonic/gin"
)

type updateUserRequest struct {
	Username   *string `json:"username"`
	Email      *string `json:"email"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	CreditCard *string `json:"credit_card"`
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func listUsersHandler(svc UserService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.List(c.Request.Context(), currentUser(c))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": toUserViews(users)})
	}
}

func meHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": toUserView(*currentUser(c))})
}

func getUserHandler(svc UserService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		u, err := svc.Get(c.Request.Context(), currentUser(c), id)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": toUserView(*u)})
	}
}

func updateUserHandler(svc UserService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req updateUserRequest
		if !bindJSON(c, &req) {
			return
		}
		u, err := svc.Update(c.Request.Context(), currentUser(c), id, usersvc.ProfileInput{
			Username:   req.Username,
			Email:      req.Email,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Phone:      req.Phone,
			Address:    req.Address,
			CreditCard: req.CreditCard,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": toUserView(*u)})
	}
}

func deleteUserHandler(svc UserService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), currentUser(c), id); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func setRoleHandler(svc UserService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req setRoleRequest
		if !bindJSON(c, &req) {
			return
		}
		u, err := svc.SetRole(c.Request.Context(), currentUser(c), id, req.Role)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": toUserView(*u)})
	}
}
