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

type addProjectMemberBody struct {
	MembershipID uint `json:"membership_id" binding:"required"`
}

func AddProjectMember(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var body addProjectMemberBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	membership, err := utils.AddProjectMember(memberID, params.ID, body.MembershipID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": membership})
}

func RemoveProjectMember(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.RemoveProjectMember(memberID, params.ID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}

type subscribeProjectBody struct {
	Cascade bool `json:"cascade"`
}

// SubscribeProject follows a project; with cascade the member is also
// auto-subscribed to each new post in it.
func SubscribeProject(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var body subscribeProjectBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := models.FindOrCreateSubscription(tx, memberID, types.SUBJECT_PROJECT, params.ID); err != nil {
			return err
		}
		if !body.Cascade {
			return nil
		}
		return tx.
			Model(&models.Subscription{}).
			Where(&models.Subscription{
				OrganizationMembershipID: memberID,
				SubscribableType:         types.SUBJECT_PROJECT,
				SubscribableID:           params.ID,
			}).
			UpdateColumn("cascade", true).
			Error
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusCreated)
}

func UnsubscribeProject(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conn := db.GetDb()
	if err := models.DestroySubscription(conn, memberID, types.SUBJECT_PROJECT, params.ID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}

type pinSubjectBody struct {
	SubjectType string `json:"subject_type" binding:"required"`
	SubjectID   uint   `json:"subject_id" binding:"required"`
}

func PinSubject(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var body pinSubjectBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	subjectType := types.SubjectType(body.SubjectType)
	if subjectType != types.SUBJECT_POST && subjectType != types.SUBJECT_NOTE {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown subject type"})
		return
	}
	pin, err := utils.PinSubject(memberID, params.ID, subjectType, body.SubjectID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": pin})
}

func UnpinSubject(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.UnpinSubject(memberID, params.ID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}
