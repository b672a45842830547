package controllers

import (
	"huddle/src/types"
	"huddle/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

func CreateComment(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var body types.CreateCommentRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := utils.CreateComment(memberID, &body)
	if err != nil {
		if err == utils.ErrUnknownSubjectType {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": comment})
}

func UpdateComment(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var body types.UpdateCommentRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := utils.UpdateComment(memberID, params.ID, &body)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": comment})
}

func DeleteComment(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.DeleteComment(memberID, params.ID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}
