// Package migrate evolves the relational schema through an ordered list of
// forward-only migrations. Each one runs in its own transaction and is
// recorded in schema_migrations so it is applied at most once.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garrison/internal/logger"
	"garrison/internal/model"

	"gorm.io/gorm"
)

type Migration struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
}

type SchemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"type:varchar(100);not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

// Migrations is the full history, oldest first. Append only.
var Migrations = []Migration{
	{Version: 1, Name: "initial_schema", Up: createMissingTables},
	{Version: 2, Name: "legacy_recruitment_columns", Up: addLegacyColumns},
	{Version: 3, Name: "group_member_unique", Up: addGroupMemberUnique},
}

// legacyRecruitmentColumns were added to recruitment after the first
// deployments; databases created before then lack them.
var legacyRecruitmentColumns = []string{
	"r_age", "time_on_project", "previous_faction_experience", "shooting_skills",
	"knowledge_of_law", "passport_series", "passport_number", "email",
	"roblox_nick", "address", "education", "work_experience", "live_in_area",
	"ready_to_serve_the_country", "military_rank", "previous_service",
	"department_preference", "additional_info",
}

func createMissingTables(tx *gorm.DB) error {
	m := tx.Migrator()
	for _, entity := range model.All() {
		if m.HasTable(entity) {
			continue
		}
		if err := m.CreateTable(entity); err != nil {
			return fmt.Errorf("create table for %T: %w", entity, err)
		}
	}
	return nil
}

func addLegacyColumns(tx *gorm.DB) error {
	m := tx.Migrator()
	for _, col := range legacyRecruitmentColumns {
		if m.HasColumn(&model.Application{}, col) {
			continue
		}
		if err := m.AddColumn(&model.Application{}, col); err != nil {
			return fmt.Errorf("add recruitment.%s: %w", col, err)
		}
	}
	if !m.HasColumn(&model.Account{}, "rank") {
		if err := m.AddColumn(&model.Account{}, "rank"); err != nil {
			return fmt.Errorf("add user.rank: %w", err)
		}
	}
	return nil
}

func addGroupMemberUnique(tx *gorm.DB) error {
	m := tx.Migrator()
	if m.HasIndex(&model.GroupMember{}, "idx_group_member_pair") {
		return nil
	}
	return m.CreateIndex(&model.GroupMember{}, "idx_group_member_pair")
}

type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

type Result struct {
	Migration Migration
	Outcome   Outcome
	Err       error
}

// Run applies every pending migration in order. A failed migration is rolled
// back and reported; later migrations are still attempted. The returned
// error joins every failure.
func Run(ctx context.Context, db *gorm.DB) ([]Result, error) {
	return run(ctx, db, Migrations)
}

func run(ctx context.Context, db *gorm.DB, migrations []Migration) ([]Result, error) {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return nil, fmt.Errorf("prepare schema_migrations: %w", err)
	}
	applied, err := appliedVersions(db)
	if err != nil {
		return nil, err
	}

	var (
		results []Result
		errs    []error
	)
	for _, mig := range migrations {
		if _, ok := applied[mig.Version]; ok {
			results = append(results, Result{Migration: mig, Outcome: OutcomeSkipped})
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: mig.Version, Name: mig.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			logger.Error("migrate.failed", "version", mig.Version, "name", mig.Name, "err", err)
			results = append(results, Result{Migration: mig, Outcome: OutcomeFailed, Err: err})
			errs = append(errs, fmt.Errorf("migration %d %s: %w", mig.Version, mig.Name, err))
			continue
		}
		logger.Info("migrate.applied", "version", mig.Version, "name", mig.Name)
		results = append(results, Result{Migration: mig, Outcome: OutcomeApplied})
	}
	return results, errors.Join(errs...)
}

// Bootstrap is the startup entry point: it runs the migrations and only logs
// failures, so a damaged legacy schema never keeps the server from starting.
func Bootstrap(ctx context.Context, db *gorm.DB) {
	results, err := Run(ctx, db)
	if err != nil {
		logger.Error("migrate.bootstrap", "err", err)
	}
	n := 0
	for _, r := range results {
		if r.Outcome == OutcomeApplied {
			n++
		}
	}
	logger.Info("migrate.done", "applied", n, "known", len(Migrations))
}

type State struct {
	Migration Migration
	Applied   bool
	AppliedAt time.Time
}

// Status reports every known migration and whether it has been applied.
func Status(ctx context.Context, db *gorm.DB) ([]State, error) {
	db = db.WithContext(ctx)
	applied := map[int]time.Time{}
	if db.Migrator().HasTable(&SchemaMigration{}) {
		var err error
		if applied, err = appliedVersions(db); err != nil {
			return nil, err
		}
	}
	states := make([]State, 0, len(Migrations))
	for _, mig := range Migrations {
		at, ok := applied[mig.Version]
		states = append(states, State{Migration: mig, Applied: ok, AppliedAt: at})
	}
	return states, nil
}

func appliedVersions(db *gorm.DB) (map[int]time.Time, error) {
	var rows []SchemaMigration
	if err := db.Order("version").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load schema_migrations: %w", err)
	}
	out := make(map[int]time.Time, len(rows))
	for _, r := range rows {
		out[r.Version] = r.AppliedAt
	}
	return out, nil
}
