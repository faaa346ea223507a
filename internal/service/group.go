package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"garrison/internal/model"

	"gorm.io/gorm"
)

const (
	msgGroupNameRequired = "Название группы обязательно"
	msgGroupNameEmpty    = "Название не может быть пустым"
	msgGroupExists       = "Группа с таким названием уже существует"
	msgGroupNameTaken    = "Название уже занято"
	msgGroupNotFound     = "Группа не найдена"
	msgUserNotFound      = "Пользователь не найден"
	msgAlreadyMember     = "Уже в группе"
	msgNotMember         = "Пользователь не состоит в группе"
)

type GroupService struct{ db *gorm.DB }

func NewGroupService(db *gorm.DB) *GroupService { return &GroupService{db: db} }

func (s *GroupService) List(ctx context.Context) ([]model.GroupView, error) {
	var groups []model.Group
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	out := make([]model.GroupView, 0, len(groups))
	for _, g := range groups {
		out = append(out, model.GroupView{ID: g.ID, Name: g.Name, Description: g.Description})
	}
	return out, nil
}

func (s *GroupService) get(db *gorm.DB, id int) (*model.Group, error) {
	var g model.Group
	err := db.First(&g, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound(msgGroupNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get group %d: %w", id, err)
	}
	return &g, nil
}

// nameTaken reports whether another group already uses name. Pass
// excludeID 0 when creating.
func nameTaken(db *gorm.DB, name string, excludeID int) (bool, error) {
	q := db.Model(&model.Group{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check group name: %w", err)
	}
	return n > 0, nil
}

func (s *GroupService) Create(ctx context.Context, req model.GroupCreateRequest) (int, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return 0, Invalid(msgGroupNameRequired)
	}
	db := s.db.WithContext(ctx)
	taken, err := nameTaken(db, name, 0)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, Conflict(msgGroupExists)
	}
	desc := ""
	if req.Description != nil {
		desc = *req.Description
	}
	g := model.Group{Name: name, Description: &desc}
	if err := db.Create(&g).Error; err != nil {
		return 0, fmt.Errorf("create group: %w", err)
	}
	return g.ID, nil
}

// Update changes name and description independently; each is touched only
// when present in req.
func (s *GroupService) Update(ctx context.Context, id int, req model.GroupUpdateRequest) error {
	db := s.db.WithContext(ctx)
	g, err := s.get(db, id)
	if err != nil {
		return err
	}
	changes := map[string]any{}
	if req.Name.Set {
		name := strings.TrimSpace(req.Name.Or(""))
		if name == "" {
			return Invalid(msgGroupNameEmpty)
		}
		taken, err := nameTaken(db, name, id)
		if err != nil {
			return err
		}
		if taken {
			return Conflict(msgGroupNameTaken)
		}
		changes["name"] = name
	}
	if req.Description.Set {
		changes["description"] = req.Description.Value
	}
	if len(changes) == 0 {
		return nil
	}
	return db.Model(g).Updates(changes).Error
}

// Delete removes the group's memberships and then the group itself, in one
// transaction.
func (s *GroupService) Delete(ctx context.Context, id int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		g, err := s.get(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&model.GroupMember{}).Error; err != nil {
			return fmt.Errorf("delete memberships: %w", err)
		}
		return tx.Delete(g).Error
	})
}

// Members lists a group's memberships with each member's username.
func (s *GroupService) Members(ctx context.Context, groupID int) ([]model.GroupMemberView, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.get(db, groupID); err != nil {
		return nil, err
	}
	var rows []model.GroupMember
	if err := db.Where("group_id = ?", groupID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	names := map[int]string{}
	if len(ids) > 0 {
		var accts []model.Account
		if err := db.Select("id", "username").Where("id IN ?", ids).Find(&accts).Error; err != nil {
			return nil, fmt.Errorf("load member names: %w", err)
		}
		for _, a := range accts {
			names[a.ID] = a.Username
		}
	}
	out := make([]model.GroupMemberView, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.GroupMemberView{ID: r.ID, UserID: r.UserID, Username: names[r.UserID]})
	}
	return out, nil
}

// AddMember adds the account with the given username. The explicit
// duplicate check gives a readable message; the unique index on
// (group_id, user_id) still settles concurrent adds.
func (s *GroupService) AddMember(ctx context.Context, groupID int, username string) error {
	db := s.db.WithContext(ctx)
	if _, err := s.get(db, groupID); err != nil {
		return err
	}
	var acct model.Account
	err := db.Where("username = ?", strings.TrimSpace(username)).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(msgUserNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup member: %w", err)
	}
	var n int64
	if err := db.Model(&model.GroupMember{}).Where("group_id = ? AND user_id = ?", groupID, acct.ID).Count(&n).Error; err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if n > 0 {
		return Conflict(msgAlreadyMember)
	}
	return db.Create(&model.GroupMember{GroupID: groupID, UserID: acct.ID}).Error
}

func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID int) error {
	db := s.db.WithContext(ctx)
	var gm model.GroupMember
	err := db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&gm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(msgNotMember)
	}
	if err != nil {
		return fmt.Errorf("lookup membership: %w", err)
	}
	return db.Delete(&gm).Error
}
