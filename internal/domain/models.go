// Package domain defines the persistence models for the daycare register:
// children, action logs, settings, users, and the per-day counter. These
// types are mapped with GORM and form the core data layer of the
// application. JSON field names are part of the public API contract and
// must not change.
package domain

import "time"

// Child status values. A child starts active and transitions once,
// irreversibly, to picked_up. There is no delete: "archived" is a
// read-time filter on status.
const (
	StatusActive   = "active"
	StatusPickedUp = "picked_up"
)

// Action types recorded for parent notifications. The set is open to
// extension; these are the values the front desk currently triggers.
const (
	ActionEmergency   = "emergency"
	ActionChildWishes = "child_wishes"
	ActionPickupTime  = "pickup_time"
)

// Setting keys known to the application. Arbitrary keys are allowed;
// these are the ones other components read.
const (
	SettingWebhookURL          = "webhook_url"
	SettingTemplateEmergency   = "message_template_emergency"
	SettingTemplateChildWishes = "message_template_child_wishes"
	SettingTemplatePickupTime  = "message_template_pickup_time"
)

// Child is a daycare attendance record.
//
// Fields:
//   - ID: stable UUID primary key (char(36)), immutable.
//   - DailyID: human-facing sequence number, unique within the calendar
//     day the child was registered on. Values restart at 1 each day, so
//     callers must disambiguate by date, never by DailyID alone.
//   - ParentPhone2: optional secondary guardian contact (null when unset).
//   - Status: "active" or "picked_up"; the only legal transition is
//     active → picked_up.
//   - RegisteredAt: set at creation, immutable; lists order by it.
type Child struct {
	ID           string    `json:"id"           gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name"         gorm:"type:varchar(255);not null"`
	DailyID      int       `json:"dailyId"      gorm:"column:daily_id;not null"`
	ParentPhone  string    `json:"parentPhone"  gorm:"type:varchar(32);not null"`
	ParentPhone2 *string   `json:"parentPhone2" gorm:"type:varchar(32)"`
	PickupTime   string    `json:"pickupTime"   gorm:"type:varchar(8);not null"`
	Status       string    `json:"status"       gorm:"type:varchar(16);not null;default:'active';check:status IN ('active','picked_up');index"`
	RegisteredAt time.Time `json:"registeredAt" gorm:"not null;index"`
}

// TableName returns the database table name for Child.
func (Child) TableName() string { return "children" }

// ActionLog records a single parent-notification attempt. Rows are
// append-only: they are never mutated or deleted, whether or not the
// notification itself was delivered.
//
// ChildName is a denormalized snapshot taken at log time, not re-derived
// from the child row later.
type ActionLog struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	ChildID     string    `json:"childId"     gorm:"column:child_id;type:char(36);not null;index"`
	ChildName   string    `json:"childName"   gorm:"column:child_name;type:varchar(255);not null"`
	ActionType  string    `json:"actionType"  gorm:"column:action_type;type:varchar(32);not null"`
	ParentPhone string    `json:"parentPhone" gorm:"column:parent_phone;type:varchar(32);not null"`
	Message     string    `json:"message"     gorm:"type:text;not null"`
	Timestamp   time.Time `json:"timestamp"   gorm:"not null;index"`
}

// TableName returns the database table name for ActionLog.
func (ActionLog) TableName() string { return "action_logs" }

// Setting is a mutable key/value configuration entry (webhook URL,
// message templates). Writes are upserts keyed by Key.
type Setting struct {
	Key       string    `json:"key"       gorm:"type:varchar(64);primaryKey"`
	Value     string    `json:"value"     gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name for Setting.
func (Setting) TableName() string { return "settings" }

// User is an authentication principal. PasswordHash holds a bcrypt hash
// and is never serialized.
type User struct {
	ID           string    `json:"id"        gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username"  gorm:"type:varchar(64);not null;uniqueIndex:ux_users_username"`
	PasswordHash string    `json:"-"         gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// DailyCounter holds the last-allocated sequence value for one calendar
// date (formatted YYYY-MM-DD in the configured counter timezone). The
// row is owned exclusively by the sequence allocator, which only ever
// touches it through a single atomic increment-or-insert.
type DailyCounter struct {
	Date    string `gorm:"type:varchar(10);primaryKey"`
	Counter int    `gorm:"not null"`
}

// TableName returns the database table name for DailyCounter.
func (DailyCounter) TableName() string { return "daily_counters" }
