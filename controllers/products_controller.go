package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/gearhub/gearhub-backend/dto"
	"github.com/gearhub/gearhub-backend/services"
)

func CreateProduct(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, err := bson.ObjectIDFromHex(c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid auth context"})
			return
		}

		var body dto.CreateProductDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		created, err := svc.Create(c.Request.Context(), sellerID, body)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func GetProducts(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func SearchProducts(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := svc.Search(c.Request.Context(), c.Query("query"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func UpdateProduct(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
			return
		}

		var body dto.UpdateProductDTO
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

func DeleteProduct(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func AdminGetProducts(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := svc.AdminList(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func UpdateProductStatus(svc *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
			return
		}

		var body dto.UpdateProductStatusDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		product, err := svc.UpdateStatus(c.Request.Context(), id, body.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Product status updated successfully",
			"product": gin.H{
				"id":     product.Id,
				"title":  product.Title,
				"status": product.Status,
			},
		})
	}
}
