package controllers

import (
	"huddle/src/types"
	"huddle/src/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

func CreateNote(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	orgID := ctx.GetUint("org_id")
	var body types.CreateNoteRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := utils.CreateNote(memberID, orgID, &body)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": note})
}

func UpdateNote(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var body types.UpdateNoteRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := utils.UpdateNote(memberID, params.ID, &body)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": note})
}

type shareNoteBody struct {
	UserID uint   `json:"user_id" binding:"required"`
	Action string `json:"action" binding:"required,oneof=view edit"`
}

func ShareNote(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var body shareNoteBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	permission, err := utils.GrantNotePermission(memberID, params.ID, body.UserID, types.PermissionAction(body.Action))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": permission})
}

func RevokeNotePermission(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.RevokeNotePermission(memberID, params.ID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}

func DeleteNote(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.DeleteNote(memberID, params.ID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}
