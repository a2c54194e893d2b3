package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionLogin  = "LOGIN"
	ActionLogout = "LOGOUT"

	ActionCreateTodo    = "CREATE_TODO"
	ActionUpdateTodo    = "UPDATE_TODO"
	ActionDeleteTodo    = "DELETE_TODO"
	ActionTodoStatus    = "CHANGE_TODO_STATUS"
	ActionTodoEvidence  = "SUBMIT_TODO_EVIDENCE"
	ActionEvaluateTodo  = "EVALUATE_TODO"
	ActionTodoNote      = "SAVE_TODO_NOTE"
	ActionCreateRequest = "CREATE_REQUEST"
	ActionUpdateRequest = "UPDATE_REQUEST"
	ActionDeleteRequest = "DELETE_REQUEST"
	ActionApproveItem   = "APPROVE_REQUEST"
	ActionRejectItem    = "REJECT_REQUEST"
	ActionRequestNote   = "SAVE_REQUEST_NOTE"
	ActionCreateMeeting = "CREATE_MEETING"
	ActionUpdateMeeting = "UPDATE_MEETING"
	ActionDeleteMeeting = "DELETE_MEETING"
	ActionMeetingStatus = "CHANGE_MEETING_STATUS"
	ActionAssetStatus   = "CHANGE_ASSET_STATUS"
	ActionCreateVisitor = "CREATE_VISITOR"
	ActionUpdateVisitor = "UPDATE_VISITOR"
	ActionCheckOut      = "CHECK_OUT_VISITOR"
	ActionDeleteVisitor = "DELETE_VISITOR"
	ActionExportVisitor = "EXPORT_VISITORS"
	ActionCreateUser    = "CREATE_USER"
	ActionUpdateUser    = "UPDATE_USER"
	ActionDeleteUser    = "DELETE_USER"
	ActionProcurement   = "RECORD_PROCUREMENT"
)

// AuditLog tracks who did what through the portal. The backend keeps the authoritative history;
// this trail only covers calls that went through the gateway.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(64);index" json:"user_id"`
	UserName   string    `gorm:"type:varchar(255)" json:"user_name"`
	Role       string    `gorm:"type:varchar(20)" json:"role"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(64);index" json:"entity_id"`
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string    `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
