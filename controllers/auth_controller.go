package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearhub/gearhub-backend/database"
	"github.com/gearhub/gearhub-backend/dto"
	"github.com/gearhub/gearhub-backend/logger"
	"github.com/gearhub/gearhub-backend/models"
	"github.com/gearhub/gearhub-backend/store"
	"github.com/gearhub/gearhub-backend/utils"
)

func Login(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), body.Email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}

		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"message": "account disabled"})
			return
		}

		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role), utils.AccessTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate access token"})
			return
		}
		refreshToken, err := utils.GenerateRefreshToken(user.ID.Hex())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate refresh token"})
			return
		}

		refreshCol := database.OpenCollection("refresh_tokens")
		_, err = refreshCol.InsertOne(c.Request.Context(), models.RefreshToken{
			UserID:    user.ID,
			TokenHash: refreshToken,
			ExpiresAt: time.Now().UTC().Add(utils.RefreshTTL()),
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			logger.Get().Errorw("store refresh token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to store refresh token"})
			return
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     "refreshToken",
			Value:    refreshToken,
			Path:     "/auth/refresh",
			MaxAge:   int(utils.RefreshTTL().Seconds()),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode, // for cross-site
		})
		c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
	}
}

func Refresh(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		refreshCol := database.OpenCollection("refresh_tokens")

		hash, err := c.Cookie("refreshToken")
		if err != nil || hash == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "missing refresh token"})
			return
		}

		var rt models.RefreshToken
		err = refreshCol.FindOne(ctx, bson.M{
			"tokenHash": hash,
			"revokedAt": bson.M{"$exists": false},
			"expiresAt": bson.M{"$gt": time.Now().UTC()},
		}).Decode(&rt)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid refresh token"})
			return
		}

		user, err := users.FindByID(ctx, rt.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid user"})
			return
		}
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"message": "account disabled"})
			return
		}

		// Rotate refresh token
		newHash, err := utils.GenerateRefreshToken(user.ID.Hex())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to rotate refresh token"})
			return
		}

		now := time.Now().UTC()
		_, err = refreshCol.UpdateByID(ctx, rt.ID, bson.M{
			"$set": bson.M{
				"revokedAt":  now,
				"replacedBy": newHash,
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to revoke refresh token"})
			return
		}

		_, err = refreshCol.InsertOne(ctx, models.RefreshToken{
			UserID:    user.ID,
			TokenHash: newHash,
			ExpiresAt: now.Add(utils.RefreshTTL()),
			CreatedAt: now,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to store refresh token"})
			return
		}

		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, string(user.Role), utils.AccessTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate access token"})
			return
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     "refreshToken",
			Value:    newHash,
			Path:     "/auth/refresh",
			MaxAge:   int(utils.RefreshTTL().Seconds()),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
		})
		c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		refreshCol := database.OpenCollection("refresh_tokens")

		hash, _ := c.Cookie("refreshToken")
		utils.ClearRefreshCookie(c)

		// best effort revoke
		if hash != "" {
			now := time.Now().UTC()
			_, _ = refreshCol.UpdateOne(ctx, bson.M{
				"tokenHash": hash,
				"revokedAt": bson.M{"$exists": false},
			}, bson.M{
				"$set": bson.M{"revokedAt": now},
			})
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func revokeAllRefreshTokens(c *gin.Context, userID bson.ObjectID) error {
	refreshCol := database.OpenCollection("refresh_tokens")
	now := time.Now().UTC()
	_, err := refreshCol.UpdateMany(c.Request.Context(), bson.M{
		"userId":    userID,
		"revokedAt": bson.M{"$exists": false},
	}, bson.M{
		"$set": bson.M{"revokedAt": now},
	})
	return err
}
