package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification type tags. Each tag maps to the resource the notification
// links to via BuildNotificationURL.
const (
	NotificationTypeSchedule  = "schedule"
	NotificationTypeWorkdata  = "workdata"
	NotificationTypeFile      = "file"
	NotificationTypeDM        = "dm"
	NotificationTypeWorkspace = "workspace"
)

// Notification is a persisted, deliverable alert addressed to one recipient.
type Notification struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	RecipientID uuid.UUID  `json:"recipient_id" db:"recipient_id"`
	SenderID    uuid.UUID  `json:"sender_id" db:"sender_id"`
	SenderName  string     `json:"sender_name" db:"sender_name"`
	WorkspaceID *uuid.UUID `json:"workspace_id,omitempty" db:"workspace_id"`
	ScheduleID  *uuid.UUID `json:"schedule_id,omitempty" db:"schedule_id"`
	RecordID    *uuid.UUID `json:"record_id,omitempty" db:"record_id"`
	WorkdataID  *uuid.UUID `json:"workdata_id,omitempty" db:"workdata_id"`
	Title       string     `json:"title" db:"title"`
	Type        string     `json:"type" db:"type"`
	Body        string     `json:"body" db:"body"`
	Read        bool       `json:"read" db:"read"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	URL         string     `json:"url" db:"url"`
}

// BuildNotificationURL returns the deep link for a notification of the given
// type, pointing at the owning resource's canonical location.
func BuildNotificationURL(notificationType string, workspaceID, targetID uuid.UUID) string {
	switch notificationType {
	case NotificationTypeSchedule:
		return fmt.Sprintf("/workspaces/%s/schedules/%s", workspaceID, targetID)
	case NotificationTypeWorkdata:
		return fmt.Sprintf("/workspaces/%s/workdata/%s", workspaceID, targetID)
	case NotificationTypeFile:
		return fmt.Sprintf("/workspaces/%s/files/%s", workspaceID, targetID)
	case NotificationTypeDM:
		return fmt.Sprintf("/workspaces/%s/dms/%s", workspaceID, targetID)
	default:
		return fmt.Sprintf("/workspaces/%s", workspaceID)
	}
}
