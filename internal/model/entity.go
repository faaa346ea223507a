package model

import "time"

// Defaults for the free-text status columns. None of these form a closed
// set: any string is accepted on update.
const (
	StatusUnderReview        = "На рассмотрении"
	TaskStatusNew            = "new"
	TaskPriorityNormal       = "normal"
	AssignmentStatusAssigned = "assigned"
	DefaultIssuer            = "Командование"
	DefaultNewsAuthor        = "Администратор"
)

// Application is a submitted recruitment form.
type Application struct {
	ID                        int       `gorm:"primaryKey" json:"id"`
	LastName                  string    `gorm:"type:varchar(100);not null" json:"last_name"`
	FirstName                 string    `gorm:"type:varchar(100);not null" json:"first_name"`
	MiddleName                string    `gorm:"type:varchar(100);default:''" json:"middle_name"`
	BirthDate                 string    `gorm:"type:varchar(50);not null" json:"birth_date"`
	RAge                      string    `gorm:"column:r_age;type:varchar(10);default:''" json:"r_age"`
	TimeOnProject             string    `gorm:"type:varchar(100);default:''" json:"time_on_project"`
	PreviousFactionExperience string    `gorm:"type:varchar(200);default:''" json:"previous_faction_experience"`
	ShootingSkills            string    `gorm:"type:varchar(10);default:''" json:"shooting_skills"`
	KnowledgeOfLaw            string    `gorm:"type:text" json:"knowledge_of_law"`
	PassportSeries            string    `gorm:"type:varchar(10);default:''" json:"passport_series"`
	PassportNumber            string    `gorm:"type:varchar(20);default:''" json:"passport_number"`
	Phone                     string    `gorm:"type:varchar(20);not null" json:"phone"`
	Email                     string    `gorm:"type:varchar(100);default:''" json:"email"`
	RobloxNick                string    `gorm:"type:varchar(100);default:''" json:"roblox_nick"`
	Address                   string    `gorm:"type:text" json:"address"`
	Education                 string    `gorm:"type:varchar(200);default:''" json:"education"`
	WorkExperience            string    `gorm:"type:text" json:"work_experience"`
	LiveInArea                string    `gorm:"type:varchar(200);default:''" json:"live_in_area"`
	ReadyToServeTheCountry    string    `gorm:"type:varchar(100);default:''" json:"ready_to_serve_the_country"`
	MilitaryRank              string    `gorm:"type:varchar(50);default:''" json:"military_rank"`
	PreviousService           string    `gorm:"type:text" json:"previous_service"`
	DepartmentPreference      string    `gorm:"type:varchar(200);default:''" json:"department_preference"`
	AdditionalInfo            string    `gorm:"type:text" json:"additional_info"`
	Status                    string    `gorm:"type:varchar(50)" json:"status"`
	SubmissionDate            time.Time `gorm:"autoCreateTime" json:"submission_date"`

	Account *Account `gorm:"foreignKey:RecruitmentID" json:"-"`
}

// Account is the credentialed identity created for an accepted applicant.
// Each application owns at most one.
type Account struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	RecruitmentID int       `gorm:"not null;uniqueIndex" json:"recruitment_id"`
	Username      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	Password      string    `gorm:"type:varchar(200);not null" json:"-"`
	Rank          *string   `gorm:"type:varchar(50)" json:"rank"`
	CreatedDate   time.Time `gorm:"autoCreateTime" json:"created_date"`

	Recruitment *Application `gorm:"foreignKey:RecruitmentID" json:"-"`
}

type News struct {
	ID       int       `gorm:"primaryKey" json:"id"`
	Title    string    `gorm:"type:varchar(200);not null" json:"title"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	Date     time.Time `gorm:"autoCreateTime" json:"date"`
	Category string    `gorm:"type:varchar(100);default:''" json:"category"`
	Author   string    `gorm:"type:varchar(100);default:''" json:"author"`
}

type CombatTask struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	UserID      int       `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"type:varchar(50)" json:"status"`
	Priority    string    `gorm:"type:varchar(20)" json:"priority"`
	DueDate     *string   `gorm:"type:varchar(50)" json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`

	User *Account `gorm:"foreignKey:UserID" json:"-"`
}

type Assignment struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	UserID      int       `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	IssuedBy    string    `gorm:"type:varchar(100)" json:"issued_by"`
	CreatedAt   time.Time `json:"created_at"`
	Status      string    `gorm:"type:varchar(50)" json:"status"`

	User *Account `gorm:"foreignKey:UserID" json:"-"`
}

type Notification struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`

	User *Account `gorm:"foreignKey:UserID" json:"-"`
}

// DaySchedule holds one day's routine; the slot columns are free text.
type DaySchedule struct {
	ID        int     `gorm:"primaryKey" json:"id"`
	UserID    int     `gorm:"not null;index" json:"user_id"`
	Day       string  `gorm:"type:varchar(20);not null" json:"day"`
	WakeUp    *string `gorm:"type:varchar(20)" json:"wake_up"`
	Training  *string `gorm:"type:varchar(50)" json:"training"`
	Duty      *string `gorm:"type:varchar(50)" json:"duty"`
	Rest      *string `gorm:"type:varchar(50)" json:"rest"`
	LightsOut *string `gorm:"type:varchar(20)" json:"lights_out"`

	User *Account `gorm:"foreignKey:UserID" json:"-"`
}

type Group struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// GroupMember links a group and an account. The (group_id, user_id) pair
// is unique.
type GroupMember struct {
	ID      int       `gorm:"primaryKey" json:"id"`
	GroupID int       `gorm:"not null;uniqueIndex:idx_group_member_pair" json:"group_id"`
	UserID  int       `gorm:"not null;uniqueIndex:idx_group_member_pair" json:"user_id"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`

	Group *Group   `gorm:"foreignKey:GroupID" json:"-"`
	User  *Account `gorm:"foreignKey:UserID" json:"-"`
}

func (Application) TableName() string  { return "recruitment" }
func (Account) TableName() string      { return "user" }
func (News) TableName() string         { return "news" }
func (CombatTask) TableName() string   { return "combat_task" }
func (Assignment) TableName() string   { return "assignment" }
func (Notification) TableName() string { return "notification" }
func (DaySchedule) TableName() string  { return "day_schedule" }
func (Group) TableName() string        { return "group" }
func (GroupMember) TableName() string  { return "group_member" }

// All lists every entity in dependency order, for schema creation.
func All() []any {
	return []any{
		&Application{}, &Account{}, &News{},
		&CombatTask{}, &Assignment{}, &Notification{}, &DaySchedule{},
		&Group{}, &GroupMember{},
	}
}
