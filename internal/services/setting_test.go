package services

import (
	"context"
	"testing"

	"github.com/loreycode/cms-api/internal/store"
	"github.com/loreycode/cms-api/internal/testutil"
	"github.com/loreycode/cms-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestSettingPutUpserts(t *testing.T) {
	ctx := context.Background()
	pub := testutil.NewPublisher()
	svc := NewSettingService(testutil.NewSettings(), NewNotifier(pub, "content", "contact", nil))

	created, err := svc.Put(ctx, "phone", types.SettingInput{Value: ptr("+1 555 0100")})
	require.NoError(t, err)
	assert.Equal(t, "phone", created.Key)
	assert.Equal(t, types.DefaultSettingType, created.Type)
	assert.Nil(t, created.Description)

	updated, err := svc.Put(ctx, "phone", types.SettingInput{Value: ptr("+1 555 0199"), Description: ptr("Footer phone")})
	require.NoError(t, err)
	assert.Equal(t, "+1 555 0199", updated.Value)
	assert.Equal(t, types.DefaultSettingType, updated.Type, "type is kept when omitted")
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Footer phone", *updated.Description)

	retyped, err := svc.Put(ctx, "phone", types.SettingInput{Value: ptr(""), Type: ptr("tel")})
	require.NoError(t, err)
	assert.Equal(t, "", retyped.Value)
	assert.Equal(t, "tel", retyped.Type)
	assert.NotNil(t, retyped.Description, "description is kept when omitted")

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 3, pub.Count("content"))
}

func TestSettingListByKey(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingService(testutil.NewSettings(), nil)

	for _, key := range []string{"phone", "address", "email"} {
		_, err := svc.Put(ctx, key, types.SettingInput{Value: ptr(key)})
		require.NoError(t, err)
	}

	items, err := svc.ListByKey(ctx)
	require.NoError(t, err)
	keys := make([]string, len(items))
	for i, s := range items {
		keys[i] = s.Key
	}
	assert.Equal(t, []string{"address", "email", "phone"}, keys)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
