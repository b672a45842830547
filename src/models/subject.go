package models

import (
	"huddle/src/types"
	"log"

	"gorm.io/gorm"
)

// SubjectViewableBy resolves the polymorphic subject and delegates to its
// visibility check. Unknown subject types are visible; gating only applies
// where a model defines it.
func SubjectViewableBy(tx *gorm.DB, subjectType types.SubjectType, subjectID uint, membershipID uint) bool {
	switch subjectType {
	case types.SUBJECT_POST:
		var post Post
		if err := tx.First(&post, subjectID).Error; err != nil {
			log.Printf("Error loading post [%d]: %s\n", subjectID, err.Error())
			return false
		}
		return post.ViewableBy(tx, membershipID)
	case types.SUBJECT_NOTE:
		var note Note
		if err := tx.First(&note, subjectID).Error; err != nil {
			log.Printf("Error loading note [%d]: %s\n", subjectID, err.Error())
			return false
		}
		return note.ViewableBy(tx, membershipID)
	case types.SUBJECT_COMMENT:
		var comment Comment
		if err := tx.First(&comment, subjectID).Error; err != nil {
			log.Printf("Error loading comment [%d]: %s\n", subjectID, err.Error())
			return false
		}
		return comment.ViewableBy(tx, membershipID)
	case types.SUBJECT_PROJECT:
		var project Project
		if err := tx.First(&project, subjectID).Error; err != nil {
			log.Printf("Error loading project [%d]: %s\n", subjectID, err.Error())
			return false
		}
		if !project.Private {
			return true
		}
		return project.HasMember(tx, membershipID)
	default:
		return true
	}
}

// SubjectOrganizationID resolves which organization a subject belongs to.
func SubjectOrganizationID(tx *gorm.DB, subjectType types.SubjectType, subjectID uint) (uint, error) {
	switch subjectType {
	case types.SUBJECT_POST:
		var post Post
		if err := tx.First(&post, subjectID).Error; err != nil {
			return 0, err
		}
		return post.OrganizationID, nil
	case types.SUBJECT_NOTE:
		var note Note
		if err := tx.First(&note, subjectID).Error; err != nil {
			return 0, err
		}
		return note.OrganizationID, nil
	case types.SUBJECT_PROJECT:
		var project Project
		if err := tx.First(&project, subjectID).Error; err != nil {
			return 0, err
		}
		return project.OrganizationID, nil
	case types.SUBJECT_CALL:
		var call Call
		if err := tx.First(&call, subjectID).Error; err != nil {
			return 0, err
		}
		return call.OrganizationID, nil
	case types.SUBJECT_COMMENT:
		var comment Comment
		if err := tx.First(&comment, subjectID).Error; err != nil {
			return 0, err
		}
		return SubjectOrganizationID(tx, comment.SubjectType, comment.SubjectID)
	case types.SUBJECT_MESSAGE:
		var message Message
		if err := tx.Preload("Thread").First(&message, subjectID).Error; err != nil {
			return 0, err
		}
		return message.Thread.OrganizationID, nil
	default:
		return 0, gorm.ErrRecordNotFound
	}
}
