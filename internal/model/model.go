package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	DateTimeLayout = "2006-01-02 15:04:05"
	MinuteLayout   = "2006-01-02 15:04"
	DateLayout     = "2006-01-02"
)

// Field records whether a JSON key was present at all, so partial updates
// can tell "absent" from "explicitly null".
type Field[T any] struct {
	Set   bool
	Value *T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// Or returns the value when present and non-null, else def.
func (f Field[T]) Or(def T) T {
	if f.Set && f.Value != nil {
		return *f.Value
	}
	return def
}

// OptionalID accepts a number, a numeric string, "" or null. Zero and empty
// values count as "not given", matching how HTML selects post an unset
// choice.
type OptionalID struct {
	ID    int
	Valid bool
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" || s == "0" {
		*o = OptionalID{}
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*o = OptionalID{ID: n, Valid: n != 0}
	return nil
}

func (o OptionalID) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(o.ID)), nil
}

// Ptr returns nil when the id was not given.
func (o OptionalID) Ptr() *int {
	if !o.Valid {
		return nil
	}
	id := o.ID
	return &id
}

// Envelope is the {success, message} body every mutating endpoint answers
// with.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type CredentialSummary struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ApplicationView struct {
	Application
	SubmissionDate string             `json:"submission_date"`
	UserAccount    *CredentialSummary `json:"user_account"`
}

func NewApplicationView(a *Application) ApplicationView {
	v := ApplicationView{Application: *a, SubmissionDate: a.SubmissionDate.Format(DateTimeLayout)}
	if a.Account != nil {
		v.UserAccount = &CredentialSummary{Username: a.Account.Username, Password: a.Account.Password}
	}
	return v
}

type SubmissionResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	ID              int    `json:"id"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ShowCredentials bool   `json:"show_credentials"`
}

type StatusUpdateRequest struct {
	Status Field[string] `json:"status"`
}

type NewsView struct {
	News
	Date        string `json:"date"`
	ContentHTML string `json:"content_html"`
}

type NewsCreateRequest struct {
	Title    string        `json:"title"`
	Content  string        `json:"content"`
	Category Field[string] `json:"category"`
	Author   Field[string] `json:"author"`
}

type NewsUpdateRequest struct {
	Title    Field[string] `json:"title"`
	Content  Field[string] `json:"content"`
	Category Field[string] `json:"category"`
	Author   Field[string] `json:"author"`
}

// ActionTarget selects who a broadcast applies to. UserID wins over GroupID.
type ActionTarget struct {
	UserID  OptionalID `json:"user_id"`
	GroupID OptionalID `json:"group_id"`
}

type TaskRequest struct {
	ActionTarget
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      Field[string] `json:"status"`
	Priority    Field[string] `json:"priority"`
	DueDate     *string       `json:"due_date"`
}

type AssignmentRequest struct {
	ActionTarget
	Title       string        `json:"title"`
	Description string        `json:"description"`
	IssuedBy    Field[string] `json:"issued_by"`
	Status      Field[string] `json:"status"`
}

type ScheduleRequest struct {
	ActionTarget
	Day       string  `json:"day"`
	WakeUp    *string `json:"wake_up"`
	Training  *string `json:"training"`
	Duty      *string `json:"duty"`
	Rest      *string `json:"rest"`
	LightsOut *string `json:"lights_out"`
}

type NotificationRequest struct {
	ActionTarget
	Content string `json:"content"`
}

type BroadcastResult struct {
	Success    bool `json:"success"`
	CreatedFor int  `json:"created_for"`
}

type GroupView struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type GroupCreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type GroupUpdateRequest struct {
	Name        Field[string] `json:"name"`
	Description Field[string] `json:"description"`
}

type GroupMemberView struct {
	ID       int    `json:"id"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

type AddMemberRequest struct {
	Username string `json:"username"`
}

type AccountView struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Rank     string `json:"rank"`
}

type AccountUpdateRequest struct {
	Rank Field[string] `json:"rank"`
}

type TaskView struct {
	CombatTask
	CreatedAt string `json:"created_at"`
}

type AssignmentView struct {
	Assignment
	CreatedAt string `json:"created_at"`
}

type NotificationView struct {
	Notification
	CreatedAt string `json:"created_at"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  AccountView `json:"user"`
}
