package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearhub/gearhub-backend/dto"
	"github.com/gearhub/gearhub-backend/models"
	"github.com/gearhub/gearhub-backend/store"
	"github.com/gearhub/gearhub-backend/utils"
)

// POST /admin/users
func CreateUser(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterUserDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		role := models.RoleSeller
		if strings.EqualFold(body.Role, string(models.RoleAdmin)) {
			role = models.RoleAdmin
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to hash password"})
			return
		}

		now := time.Now().UTC()
		user := models.User{
			Email:        strings.ToLower(strings.TrimSpace(body.Email)),
			PasswordHash: hash,
			Role:         role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		id, err := users.Insert(c.Request.Context(), &user)
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{"message": "A user with this email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create user"})
			return
		}
		user.ID = id

		c.JSON(http.StatusCreated, user)
	}
}

// POST /admin/users/me/password
func ChangeMyPassword(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ChangeMyPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		userID, err := bson.ObjectIDFromHex(c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid auth context"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid user"})
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.CurrentPassword); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "current password is incorrect"})
			return
		}

		newHash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to hash password"})
			return
		}

		if err := users.UpdatePassword(c.Request.Context(), userID, newHash); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update password"})
			return
		}

		_ = revokeAllRefreshTokens(c, userID)
		utils.ClearRefreshCookie(c)

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
