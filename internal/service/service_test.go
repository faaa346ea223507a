package service

import (
	"context"
	"testing"

	"garrison/internal/migrate"
	"garrison/internal/model"
	"garrison/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.OpenDB(t)
	_, err := migrate.Run(context.Background(), db)
	require.NoError(t, err)
	return db
}

func submission(username, password string) Submission {
	return Submission{
		"last_name":                   "Иванов",
		"first_name":                  "Иван",
		"birth_date":                  "01.01.2000",
		"r_age":                       "18",
		"time_on_project":             "1 год",
		"previous_faction_experience": "нет",
		"shooting_skills":             "5",
		"knowledge_of_law":            "5",
		"phone":                       "+70000000000",
		"username":                    username,
		"password":                    password,
	}
}

// seedMember creates an application with an account and returns the
// account id.
func seedMember(t *testing.T, db *gorm.DB, username string) int {
	t.Helper()
	svc := NewRecruitmentService(db, PlaintextCredentials{}, false)
	_, err := svc.Submit(context.Background(), submission(username, "secret1"))
	require.NoError(t, err)
	var a model.Account
	require.NoError(t, db.Where("username = ?", username).First(&a).Error)
	return a.ID
}

func count(t *testing.T, db *gorm.DB, entity any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(entity).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }

func idOf(n int) model.OptionalID { return model.OptionalID{ID: n, Valid: true} }
