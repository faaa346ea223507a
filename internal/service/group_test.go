package service

import (
	"context"
	"testing"

	"garrison/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCreateValidatesName(t *testing.T) {
	svc := NewGroupService(newDB(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, model.GroupCreateRequest{Name: "  "})
	assert.EqualError(t, err, "Название группы обязательно")

	id, err := svc.Create(ctx, model.GroupCreateRequest{Name: "Alpha"})
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = svc.Create(ctx, model.GroupCreateRequest{Name: "Alpha"})
	assert.EqualError(t, err, "Группа с таким названием уже существует")

	groups, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.NotNil(t, groups[0].Description)
	assert.Equal(t, "", *groups[0].Description)
}

func TestGroupUpdate(t *testing.T) {
	svc := NewGroupService(newDB(t))
	ctx := context.Background()
	alpha, err := svc.Create(ctx, model.GroupCreateRequest{Name: "Alpha", Description: ptr("first")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.GroupCreateRequest{Name: "Bravo"})
	require.NoError(t, err)

	err = svc.Update(ctx, alpha, model.GroupUpdateRequest{Name: model.Field[string]{Set: true, Value: ptr("Bravo")}})
	assert.EqualError(t, err, "Название уже занято")

	err = svc.Update(ctx, alpha, model.GroupUpdateRequest{Name: model.Field[string]{Set: true, Value: ptr(" ")}})
	assert.EqualError(t, err, "Название не может быть пустым")

	// Renaming to its own name is not a conflict.
	require.NoError(t, svc.Update(ctx, alpha, model.GroupUpdateRequest{Name: model.Field[string]{Set: true, Value: ptr("Alpha")}}))

	require.NoError(t, svc.Update(ctx, alpha, model.GroupUpdateRequest{Description: model.Field[string]{Set: true, Value: ptr("second")}}))
	groups, err := svc.List(ctx)
	require.NoError(t, err)
	for _, g := range groups {
		if g.ID == alpha {
			assert.Equal(t, "Alpha", g.Name)
			assert.Equal(t, "second", *g.Description)
		}
	}

	err = svc.Update(ctx, 9999, model.GroupUpdateRequest{})
	assert.True(t, IsNotFound(err))
}

func TestGroupMembership(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewGroupService(db)
	uid := seedMember(t, db, "alpha1")
	gid, err := svc.Create(ctx, model.GroupCreateRequest{Name: "Alpha"})
	require.NoError(t, err)

	assert.True(t, IsNotFound(svc.AddMember(ctx, 9999, "alpha1")))
	err = svc.AddMember(ctx, gid, "ghost")
	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "Пользователь не найден")

	require.NoError(t, svc.AddMember(ctx, gid, "alpha1"))
	assert.EqualError(t, svc.AddMember(ctx, gid, "alpha1"), "Уже в группе")

	members, err := svc.Members(ctx, gid)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, uid, members[0].UserID)
	assert.Equal(t, "alpha1", members[0].Username)

	_, err = svc.Members(ctx, 9999)
	assert.True(t, IsNotFound(err))

	require.NoError(t, svc.RemoveMember(ctx, gid, uid))
	err = svc.RemoveMember(ctx, gid, uid)
	assert.True(t, IsNotFound(err))
}

func TestGroupDeleteRemovesMemberships(t *testing.T) {
	db := newDB(t)
	ctx := context.Background()
	svc := NewGroupService(db)
	seedMember(t, db, "alpha1")
	gid, err := svc.Create(ctx, model.GroupCreateRequest{Name: "Alpha"})
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(ctx, gid, "alpha1"))

	require.NoError(t, svc.Delete(ctx, gid))
	assert.Zero(t, count(t, db, &model.Group{}))
	assert.Zero(t, count(t, db, &model.GroupMember{}))
	assert.True(t, IsNotFound(svc.Delete(ctx, gid)))
}
