package controllers

import (
	"huddle/src/db"
	"huddle/src/models"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gookit/goutil/arrutil"
	"gorm.io/gorm"
)

var notificationFilters = []string{"", "read", "unread", "archived"}

func ListNotifications(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	filter := ctx.Query("filter")
	if !arrutil.Contains(notificationFilters, filter) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown filter"})
		return
	}
	conn := db.GetDb()
	query := conn.
		Where(&models.Notification{OrganizationMembershipID: memberID}).
		Where("discarded_at IS NULL").
		Order("created_at DESC").
		Limit(100)
	switch filter {
	case "read":
		query = query.Where("read_at IS NOT NULL")
	case "unread":
		query = query.Where("read_at IS NULL AND archived_at IS NULL")
	case "archived":
		query = query.Where("archived_at IS NOT NULL")
	default:
		query = query.Where("archived_at IS NULL")
	}
	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		log.Printf("Error loading notifications for member [%d]: %s\n", memberID, err.Error())
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": notifications})
}

func MarkNotificationRead(ctx *gin.Context) {
	setNotificationColumn(ctx, "read_at", true)
}

func MarkNotificationUnread(ctx *gin.Context) {
	setNotificationColumn(ctx, "read_at", false)
}

func ArchiveNotification(ctx *gin.Context) {
	setNotificationColumn(ctx, "archived_at", true)
}

func UnarchiveNotification(ctx *gin.Context) {
	setNotificationColumn(ctx, "archived_at", false)
}

func setNotificationColumn(ctx *gin.Context, column string, set bool) {
	memberID := ctx.GetUint("member_id")
	publicID := ctx.Param("id")
	conn := db.GetDb()
	var notification models.Notification
	err := conn.
		Where(&models.Notification{PublicID: publicID, OrganizationMembershipID: memberID}).
		Where("discarded_at IS NULL").
		First(&notification).
		Error
	if err != nil {
		ctx.AbortWithStatus(http.StatusNotFound)
		return
	}
	var value any
	if set {
		value = time.Now().UTC()
	}
	if err := conn.
		Model(&models.Notification{}).
		Where(&models.Notification{ID: notification.ID}).
		UpdateColumn(column, value).
		Error; err != nil {
		log.Printf("Error updating notification [%s]: %s\n", publicID, err.Error())
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	notification.BroadcastStale(conn)
	ctx.Status(http.StatusNoContent)
}

func MarkAllNotificationsRead(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Notification{}).
			Where(&models.Notification{OrganizationMembershipID: memberID}).
			Where("discarded_at IS NULL AND read_at IS NULL").
			UpdateColumn("read_at", time.Now().UTC()).
			Error
	})
	if err != nil {
		log.Printf("Error marking notifications read for member [%d]: %s\n", memberID, err.Error())
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	notification := models.Notification{OrganizationMembershipID: memberID}
	notification.BroadcastStale(conn)
	ctx.Status(http.StatusNoContent)
}

func DeleteNotification(ctx *gin.Context) {
	memberID := ctx.GetUint("member_id")
	publicID := ctx.Param("id")
	conn := db.GetDb()
	err := conn.Transaction(func(tx *gorm.DB) error {
		var notification models.Notification
		err := tx.
			Where(&models.Notification{PublicID: publicID, OrganizationMembershipID: memberID}).
			Where("discarded_at IS NULL").
			First(&notification).
			Error
		if err != nil {
			return err
		}
		return notification.Discard(tx)
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			ctx.AbortWithStatus(http.StatusNotFound)
			return
		}
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	ctx.Status(http.StatusNoContent)
}
