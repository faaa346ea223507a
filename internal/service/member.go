package service

import (
	"context"
	"errors"
	"fmt"

	"garrison/internal/model"

	"gorm.io/gorm"
)

// MemberService covers account administration and the views a signed-in
// member has of their own tasks, assignments, notifications and schedule.
type MemberService struct{ db *gorm.DB }

func NewMemberService(db *gorm.DB) *MemberService { return &MemberService{db: db} }

func (s *MemberService) Get(ctx context.Context, id int) (*model.Account, error) {
	var a model.Account
	err := s.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account %d: %w", id, err)
	}
	return &a, nil
}

func AccountView(a *model.Account) model.AccountView {
	v := model.AccountView{ID: a.ID, Username: a.Username}
	if a.Rank != nil {
		v.Rank = *a.Rank
	}
	return v
}

func (s *MemberService) List(ctx context.Context) ([]model.AccountView, error) {
	var accts []model.Account
	if err := s.db.WithContext(ctx).Order("created_date DESC").Order("id DESC").Find(&accts).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]model.AccountView, 0, len(accts))
	for i := range accts {
		out = append(out, AccountView(&accts[i]))
	}
	return out, nil
}

func (s *MemberService) UpdateRank(ctx context.Context, id int, rank model.Field[string]) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !rank.Set {
		return nil
	}
	return s.db.WithContext(ctx).Model(a).Update("rank", rank.Value).Error
}

func (s *MemberService) Tasks(ctx context.Context, uid int) ([]model.TaskView, error) {
	var rows []model.CombatTask
	if err := s.db.WithContext(ctx).Where("user_id = ?", uid).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]model.TaskView, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.TaskView{CombatTask: r, CreatedAt: r.CreatedAt.Format(model.MinuteLayout)})
	}
	return out, nil
}

func (s *MemberService) Assignments(ctx context.Context, uid int) ([]model.AssignmentView, error) {
	var rows []model.Assignment
	if err := s.db.WithContext(ctx).Where("user_id = ?", uid).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	out := make([]model.AssignmentView, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.AssignmentView{Assignment: r, CreatedAt: r.CreatedAt.Format(model.MinuteLayout)})
	}
	return out, nil
}

func (s *MemberService) Notifications(ctx context.Context, uid int) ([]model.NotificationView, error) {
	var rows []model.Notification
	if err := s.db.WithContext(ctx).Where("user_id = ?", uid).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	out := make([]model.NotificationView, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.NotificationView{Notification: r, CreatedAt: r.CreatedAt.Format(model.MinuteLayout)})
	}
	return out, nil
}

func (s *MemberService) Schedule(ctx context.Context, uid int) ([]model.DaySchedule, error) {
	var rows []model.DaySchedule
	if err := s.db.WithContext(ctx).Where("user_id = ?", uid).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	return rows, nil
}

// MarkNotificationRead only touches notifications owned by uid; anything
// else is reported as not found.
func (s *MemberService) MarkNotificationRead(ctx context.Context, uid, id int) error {
	db := s.db.WithContext(ctx)
	var n model.Notification
	err := db.Where("id = ? AND user_id = ?", id, uid).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(msgNotFound)
	}
	if err != nil {
		return fmt.Errorf("get notification %d: %w", id, err)
	}
	return db.Model(&n).Update("is_read", true).Error
}
