package controllers

import (
	"huddle/src/db"
	"huddle/src/models"
	"huddle/src/types"
	"huddle/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func CreatePost(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	orgID := ctx.GetUint("org_id")
	var body types.CreatePostRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := utils.CreatePost(memberID, orgID, &body)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": post})
}

func UpdatePost(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var body types.UpdatePostRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !postEditable(ctx, params.ID, memberID) {
		return
	}
	post, err := utils.UpdatePost(memberID, params.ID, &body)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": post})
}

func PublishPost(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post, err := utils.PublishPost(memberID, params.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": post})
}

func DeletePost(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !postEditable(ctx, params.ID, memberID) {
		return
	}
	if err := utils.DeletePost(memberID, params.ID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func postEditable(ctx *gin.Context, postID uint, memberID uint) bool {
	conn := db.GetDb()
	var post models.Post
	if err := conn.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.AbortWithStatus(http.StatusNotFound)
		} else {
			ctx.AbortWithStatus(http.StatusInternalServerError)
		}
		return false
	}
	if !post.ViewableBy(conn, memberID) {
		ctx.AbortWithStatus(http.StatusForbidden)
		return false
	}
	return true
}
