package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"garrison/internal/logger"
	"garrison/internal/model"

	"gorm.io/gorm"
)

// RequiredFields must be non-empty in every submission, reported in this
// order when missing.
var RequiredFields = []string{
	"last_name", "first_name", "birth_date", "r_age", "time_on_project",
	"previous_faction_experience", "shooting_skills", "knowledge_of_law", "phone",
	"username", "password",
}

const (
	minUsernameLen = 3
	minPasswordLen = 6

	msgSubmitted     = "Заявка успешно отправлена! Учетная запись создана."
	msgShortUsername = "Логин должен быть не короче 3 символов"
	msgShortPassword = "Пароль должен быть не короче 6 символов"
	msgUsernameTaken = "Логин уже занят, выберите другой"
)

// Submission is a flattened recruitment form, keyed by field name.
type Submission map[string]string

func (s Submission) Missing() []string {
	var missing []string
	for _, f := range RequiredFields {
		if s[f] == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

func (s Submission) Application() model.Application {
	return model.Application{
		LastName:                  s["last_name"],
		FirstName:                 s["first_name"],
		MiddleName:                s["middle_name"],
		BirthDate:                 s["birth_date"],
		RAge:                      s["r_age"],
		TimeOnProject:             s["time_on_project"],
		PreviousFactionExperience: s["previous_faction_experience"],
		ShootingSkills:            s["shooting_skills"],
		KnowledgeOfLaw:            s["knowledge_of_law"],
		PassportSeries:            s["passport_series"],
		PassportNumber:            s["passport_number"],
		Phone:                     s["phone"],
		Email:                     s["email"],
		RobloxNick:                s["roblox_nick"],
		Address:                   s["address"],
		Education:                 s["education"],
		WorkExperience:            s["work_experience"],
		LiveInArea:                s["live_in_area"],
		ReadyToServeTheCountry:    s["ready_to_serve_the_country"],
		MilitaryRank:              s["military_rank"],
		PreviousService:           s["previous_service"],
		DepartmentPreference:      s["department_preference"],
		AdditionalInfo:            s["additional_info"],
		Status:                    model.StatusUnderReview,
	}
}

type RecruitmentService struct {
	db     *gorm.DB
	creds  CredentialStrategy
	atomic bool
}

// NewRecruitmentService builds the submission flow. With atomic unset the
// application row is committed before the credentials are checked, so a
// rejected username still leaves the application behind.
func NewRecruitmentService(db *gorm.DB, creds CredentialStrategy, atomic bool) *RecruitmentService {
	return &RecruitmentService{db: db, creds: creds, atomic: atomic}
}

func (s *RecruitmentService) Submit(ctx context.Context, sub Submission) (*model.SubmissionResult, error) {
	if missing := sub.Missing(); len(missing) > 0 {
		return nil, Invalid("Отсутствуют обязательные поля: " + strings.Join(missing, ", "))
	}
	app := sub.Application()
	username := strings.TrimSpace(sub["username"])
	password := strings.TrimSpace(sub["password"])

	db := s.db.WithContext(ctx)
	var err error
	if s.atomic {
		err = s.submitAtomic(db, &app, username, password)
	} else {
		err = s.submitStaged(db, &app, username, password)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("recruitment.account_created", "recruitment_id", app.ID, "username", username)
	return &model.SubmissionResult{
		Success:         true,
		Message:         msgSubmitted,
		ID:              app.ID,
		Username:        username,
		Password:        password,
		ShowCredentials: true,
	}, nil
}

func (s *RecruitmentService) submitStaged(db *gorm.DB, app *model.Application, username, password string) error {
	if err := db.Create(app).Error; err != nil {
		return fmt.Errorf("save application: %w", err)
	}
	logger.Info("recruitment.saved", "recruitment_id", app.ID)

	if err := validateCredentials(username, password); err != nil {
		return err
	}
	if err := ensureUsernameFree(db, username); err != nil {
		return err
	}
	return s.createAccount(db, app.ID, username, password)
}

func (s *RecruitmentService) submitAtomic(db *gorm.DB, app *model.Application, username, password string) error {
	if err := validateCredentials(username, password); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUsernameFree(tx, username); err != nil {
			return err
		}
		if err := tx.Create(app).Error; err != nil {
			return fmt.Errorf("save application: %w", err)
		}
		return s.createAccount(tx, app.ID, username, password)
	})
}

func (s *RecruitmentService) createAccount(db *gorm.DB, recruitmentID int, username, password string) error {
	sealed, err := s.creds.Seal(password)
	if err != nil {
		return err
	}
	acct := model.Account{RecruitmentID: recruitmentID, Username: username, Password: sealed}
	if err := db.Create(&acct).Error; err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func validateCredentials(username, password string) error {
	if len([]rune(username)) < minUsernameLen {
		return Invalid(msgShortUsername)
	}
	if len([]rune(password)) < minPasswordLen {
		return Invalid(msgShortPassword)
	}
	return nil
}

func ensureUsernameFree(db *gorm.DB, username string) error {
	var existing model.Account
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return Conflict(msgUsernameTaken)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check username: %w", err)
	}
	return nil
}
