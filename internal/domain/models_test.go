package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// The JSON field names are consumed by the front desk UI; renaming one is
// a breaking API change.
func TestChild_JSONContract(t *testing.T) {
	phone2 := "+495678"
	c := Child{
		ID:           "3e9c2f0a-4f4a-4a41-9d5e-0b8f9a2d1c77",
		Name:         "Mia",
		DailyID:      3,
		ParentPhone:  "+491234",
		ParentPhone2: &phone2,
		PickupTime:   "15:30",
		Status:       StatusActive,
		RegisteredAt: time.Date(2026, 3, 2, 8, 15, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"id", "name", "dailyId", "parentPhone", "parentPhone2", "pickupTime", "status", "registeredAt"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("missing JSON field %q in %s", key, raw)
		}
	}
	if m["dailyId"] != float64(3) || m["status"] != "active" {
		t.Fatalf("unexpected values: %s", raw)
	}
}

func TestActionLog_JSONContract(t *testing.T) {
	a := ActionLog{
		ID:          "a1",
		ChildID:     "c1",
		ChildName:   "Mia",
		ActionType:  ActionPickupTime,
		ParentPhone: "+491234",
		Message:     "Please pick up Mia at 15:30.",
		Timestamp:   time.Now().UTC(),
	}

	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"id", "childId", "childName", "actionType", "parentPhone", "message", "timestamp"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("missing JSON field %q in %s", key, raw)
		}
	}
}

func TestUser_PasswordHashNeverSerialized(t *testing.T) {
	u := User{ID: "u1", Username: "frontdesk", PasswordHash: "$2a$10$secret"}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "secret") || strings.Contains(string(raw), "PasswordHash") {
		t.Fatalf("password hash leaked: %s", raw)
	}
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		Child{}.TableName():        "children",
		ActionLog{}.TableName():    "action_logs",
		Setting{}.TableName():      "settings",
		User{}.TableName():         "users",
		DailyCounter{}.TableName(): "daily_counters",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("table name %q, want %q", got, want)
		}
	}
}
