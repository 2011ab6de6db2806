package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearhub/gearhub-backend/dto"
	"github.com/gearhub/gearhub-backend/services"
)

func GetCategories(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tree, err := svc.Tree(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tree)
	}
}

func GetCategory(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category id"})
			return
		}

		detail, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

func AddCategory(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateCategoryDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		created, err := svc.Create(c.Request.Context(), body)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func UpdateCategory(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category id"})
			return
		}

		var body dto.UpdateCategoryDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		updated, err := svc.Update(c.Request.Context(), id, body)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteCategory(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category id"})
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}

func CountCategories(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := svc.Count(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"totalCategories": n})
	}
}

func SearchCategories(svc *services.CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.Search(c.Request.Context(), c.Query("query"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
