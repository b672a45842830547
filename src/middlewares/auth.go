package middlewares

import (
	"huddle/src/db"
	"huddle/src/models"
	"huddle/src/types"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(401)
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		ctx.AbortWithStatus(401)
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatus(401)
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatus(401)
		return
	}

	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatus(401)
		return
	}
	conn := db.GetDb()
	var user models.User
	conn.Model(&models.User{}).Where(&models.User{ID: uint(uid)}).Find(&user)
	if uint(uid) != user.ID || user.ID < 1 {
		ctx.AbortWithStatus(401)
		return
	}
	ctx.Set("id", user.ID)
	ctx.Next()
}

// OrgMemberMiddleware resolves the :org slug to a kept membership of the
// authenticated user and exposes it to the handlers.
func OrgMemberMiddleware(ctx *gin.Context) {
	userID := ctx.GetUint("id")
	slug := ctx.Param("org")
	if slug == "" {
		ctx.AbortWithStatus(404)
		return
	}
	conn := db.GetDb()
	var organization models.Organization
	if err := conn.Where(&models.Organization{Slug: slug}).First(&organization).Error; err != nil {
		ctx.AbortWithStatus(404)
		return
	}
	var membership models.OrganizationMembership
	err := conn.
		Where(&models.OrganizationMembership{UserID: userID, OrganizationID: organization.ID}).
		Where("discarded_at IS NULL").
		First(&membership).
		Error
	if err != nil {
		ctx.AbortWithStatus(403)
		return
	}
	ctx.Set("org_id", organization.ID)
	ctx.Set("member_id", membership.ID)
	ctx.Next()
}
