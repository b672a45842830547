package controllers

import (
	"huddle/src/types"
	"huddle/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

func CreateReaction(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var body types.CreateReactionRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reaction, err := utils.CreateReaction(memberID, &body)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": reaction})
}

func DeleteReaction(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.DeleteReaction(memberID, params.ID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}
