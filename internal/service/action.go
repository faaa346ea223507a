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

type TargetKind int

const (
	// TargetNone: neither a member nor a group was selected.
	TargetNone TargetKind = iota
	// TargetSingle: one member was selected. The set is empty when that
	// member does not exist.
	TargetSingle
	// TargetGroup: every current member of the selected group.
	TargetGroup
)

func (k TargetKind) String() string {
	switch k {
	case TargetSingle:
		return "single"
	case TargetGroup:
		return "group"
	default:
		return "none"
	}
}

// Target is the resolved audience of a broadcast action.
type Target struct {
	Kind TargetKind
	ids  []int
}

func (t Target) IDs() []int { return t.ids }

// ResolveTargets maps a member-or-group selection to member ids. A member
// selection takes precedence over a group one. Unknown members and groups
// resolve to an empty set rather than an error.
func ResolveTargets(ctx context.Context, db *gorm.DB, userID, groupID *int) (Target, error) {
	db = db.WithContext(ctx)
	switch {
	case userID != nil:
		var acct model.Account
		err := db.Select("id").First(&acct, *userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Target{Kind: TargetSingle}, nil
		}
		if err != nil {
			return Target{}, fmt.Errorf("resolve member %d: %w", *userID, err)
		}
		return Target{Kind: TargetSingle, ids: []int{acct.ID}}, nil
	case groupID != nil:
		var ids []int
		err := db.Model(&model.GroupMember{}).
			Where("group_id = ?", *groupID).
			Distinct().Order("user_id").
			Pluck("user_id", &ids).Error
		if err != nil {
			return Target{}, fmt.Errorf("resolve group %d: %w", *groupID, err)
		}
		return Target{Kind: TargetGroup, ids: ids}, nil
	default:
		return Target{Kind: TargetNone}, nil
	}
}

const (
	msgTitleRequired   = "Заголовок обязателен"
	msgDayRequired     = "День обязателен"
	msgContentRequired = "Текст уведомления обязателен"
)

type ActionService struct{ db *gorm.DB }

func NewActionService(db *gorm.DB) *ActionService { return &ActionService{db: db} }

// broadcast resolves the target and inserts one row per member in a single
// transaction. It returns how many rows were created.
func broadcast[T any](ctx context.Context, db *gorm.DB, kind string, target model.ActionTarget, build func(uid int) T) (int, error) {
	var created int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := ResolveTargets(ctx, tx, target.UserID.Ptr(), target.GroupID.Ptr())
		if err != nil {
			return err
		}
		ids := t.IDs()
		if len(ids) == 0 {
			logger.Info("action.no_targets", "kind", kind, "target", t.Kind.String())
			return nil
		}
		rows := make([]T, 0, len(ids))
		for _, uid := range ids {
			rows = append(rows, build(uid))
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("create %s rows: %w", kind, err)
		}
		created = len(rows)
		return nil
	})
	if err != nil {
		return 0, err
	}
	logger.Info("action.broadcast", "kind", kind, "created_for", created)
	return created, nil
}

func (s *ActionService) CreateTasks(ctx context.Context, req model.TaskRequest) (int, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return 0, Invalid(msgTitleRequired)
	}
	return broadcast(ctx, s.db, "task", req.ActionTarget, func(uid int) model.CombatTask {
		return model.CombatTask{
			UserID:      uid,
			Title:       title,
			Description: req.Description,
			Status:      req.Status.Or(model.TaskStatusNew),
			Priority:    req.Priority.Or(model.TaskPriorityNormal),
			DueDate:     req.DueDate,
		}
	})
}

func (s *ActionService) CreateAssignments(ctx context.Context, req model.AssignmentRequest) (int, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return 0, Invalid(msgTitleRequired)
	}
	return broadcast(ctx, s.db, "assignment", req.ActionTarget, func(uid int) model.Assignment {
		return model.Assignment{
			UserID:      uid,
			Title:       title,
			Description: req.Description,
			IssuedBy:    req.IssuedBy.Or(model.DefaultIssuer),
			Status:      req.Status.Or(model.AssignmentStatusAssigned),
		}
	})
}

func (s *ActionService) CreateSchedules(ctx context.Context, req model.ScheduleRequest) (int, error) {
	day := strings.TrimSpace(req.Day)
	if day == "" {
		return 0, Invalid(msgDayRequired)
	}
	return broadcast(ctx, s.db, "schedule", req.ActionTarget, func(uid int) model.DaySchedule {
		return model.DaySchedule{
			UserID:    uid,
			Day:       day,
			WakeUp:    req.WakeUp,
			Training:  req.Training,
			Duty:      req.Duty,
			Rest:      req.Rest,
			LightsOut: req.LightsOut,
		}
	})
}

func (s *ActionService) CreateNotifications(ctx context.Context, req model.NotificationRequest) (int, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return 0, Invalid(msgContentRequired)
	}
	return broadcast(ctx, s.db, "notification", req.ActionTarget, func(uid int) model.Notification {
		return model.Notification{UserID: uid, Content: content}
	})
}
