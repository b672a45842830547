package models

import (
	"huddle/src/types"
	"log"
	"time"

	"gorm.io/gorm"
)

type Project struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	OrganizationID uint       `json:"organization_id,omitempty"`
	Name           string     `json:"name,omitempty"`
	Private        bool       `gorm:"default:false" json:"private"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`

	Organization Organization        `gorm:"foreignKey:organization_id" json:"-"`
	Memberships  []ProjectMembership `gorm:"foreignKey:project_id" json:"-"`

	types.Timestamps
}

// UpdateLastActivityAt bumps the activity timestamp without touching
// updated_at, so noisy fan-out runs don't look like content edits.
func (p *Project) UpdateLastActivityAt(tx *gorm.DB) {
	now := time.Now().UTC()
	if err := tx.
		Model(&Project{}).
		Where(&Project{ID: p.ID}).
		UpdateColumn("last_activity_at", now).
		Error; err != nil {
		log.Printf("Error updating last_activity_at for project [%d]: %s\n", p.ID, err.Error())
	}
}

// HasMember reports whether the given organization membership belongs to the
// project. Discarded rows don't count.
func (p *Project) HasMember(tx *gorm.DB, membershipID uint) bool {
	var count int64
	if err := tx.
		Model(&ProjectMembership{}).
		Where("project_id = ? AND organization_membership_id = ? AND discarded_at IS NULL", p.ID, membershipID).
		Count(&count).
		Error; err != nil {
		log.Printf("Error checking project membership: %s\n", err.Error())
		return false
	}
	return count > 0
}

// MemberAndFavoriterIDs collects the memberships interested in realtime
// refreshes for the project: project members plus anyone who favorited it,
// excluding the given membership.
func (p *Project) MemberAndFavoriterIDs(tx *gorm.DB, excludeMembershipID uint) []uint {
	ids := make(map[uint]bool)
	var memberships []ProjectMembership
	if err := tx.
		Where("project_id = ? AND discarded_at IS NULL AND organization_membership_id IS NOT NULL", p.ID).
		Find(&memberships).
		Error; err != nil {
		log.Printf("Error loading project memberships: %s\n", err.Error())
	}
	for _, pm := range memberships {
		if pm.OrganizationMembershipID != nil {
			ids[*pm.OrganizationMembershipID] = true
		}
	}
	var favorites []Favorite
	if err := tx.
		Where(&Favorite{FavoritableType: types.SUBJECT_PROJECT, FavoritableID: p.ID}).
		Find(&favorites).
		Error; err != nil {
		log.Printf("Error loading project favorites: %s\n", err.Error())
	}
	for _, fav := range favorites {
		ids[fav.OrganizationMembershipID] = true
	}
	delete(ids, excludeMembershipID)
	out := make([]uint, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	return out
}

// ProjectMembership links either an organization membership or an oauth
// application to a project. App memberships never receive notifications.
type ProjectMembership struct {
	ID                       uint       `gorm:"primarykey" json:"id"`
	ProjectID                uint       `json:"project_id,omitempty"`
	OrganizationMembershipID *uint      `json:"organization_membership_id,omitempty"`
	OauthApplicationID       *uint      `json:"oauth_application_id,omitempty"`
	DiscardedAt              *time.Time `gorm:"index" json:"-"`

	Project Project `gorm:"foreignKey:project_id" json:"-"`

	types.Timestamps
}

// ProjectPin pins a post or note to its project. Pins are discarded rather
// than destroyed so an undiscard can restore them.
type ProjectPin struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	ProjectID   uint              `json:"project_id,omitempty"`
	SubjectType types.SubjectType `json:"subject_type,omitempty"`
	SubjectID   uint              `json:"subject_id,omitempty"`
	PinnedByID  *uint             `json:"pinned_by,omitempty"`
	DiscardedAt *time.Time        `gorm:"index" json:"-"`

	types.Timestamps
}

// DiscardProjectPins soft-deletes all live pins pointing at the subject.
func DiscardProjectPins(tx *gorm.DB, subjectType types.SubjectType, subjectID uint) error {
	return tx.
		Model(&ProjectPin{}).
		Where("subject_type = ? AND subject_id = ? AND discarded_at IS NULL", subjectType, subjectID).
		Update("discarded_at", time.Now().UTC()).
		Error
}
