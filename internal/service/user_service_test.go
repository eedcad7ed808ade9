package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seongmin-k/festival-discovery/internal/repository"
	"github.com/seongmin-k/festival-discovery/internal/utils"
)

func newUserFixture() (*UserService, *fakeUserStore) {
	users := &fakeUserStore{}
	svc := NewUserService(users, utils.PlainVerifier{})
	return svc, users
}

func TestSignupStoresJoinedInterests(t *testing.T) {
	svc, _ := newUserFixture()

	u, err := svc.Signup(context.Background(), SignupInput{
		Name:      "kim",
		Email:     "kim@example.com",
		Password:  "secret",
		Interests: []string{"음식", "공연"},
	})
	require.NoError(t, err)
	assert.Equal(t, "음식,공연", u.Interest)
	assert.Equal(t, 0, u.Admin)
	assert.False(t, u.JoinedAt.IsZero())
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newUserFixture()
	_, err := svc.Signup(context.Background(), SignupInput{Name: "kim", Email: "kim@example.com", Password: "a"})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), SignupInput{Name: "other", Email: "kim@example.com", Password: "b"})
	assert.ErrorIs(t, err, repository.ErrEmailExists)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newUserFixture()
	_, err := svc.Signup(context.Background(), SignupInput{Name: "kim", Email: "kim@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "kim@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u, err := svc.Login(context.Background(), "kim@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "kim", u.Name)
}

func TestUpdateIgnoresEmptyPassword(t *testing.T) {
	svc, _ := newUserFixture()
	created, err := svc.Signup(context.Background(), SignupInput{Name: "kim", Email: "kim@example.com", Password: "secret"})
	require.NoError(t, err)

	empty := ""
	name := "kim2"
	got, err := svc.Update(context.Background(), created.ID, UserPatch{Name: &name, Password: &empty})
	require.NoError(t, err)
	assert.Equal(t, "kim2", got.Name)
	assert.Equal(t, "secret", got.Password)

	newPass := "rotated"
	got, err = svc.Update(context.Background(), created.ID, UserPatch{Password: &newPass})
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.Password)

	got, err = svc.Update(context.Background(), created.ID, UserPatch{Interests: []string{"전시"}})
	require.NoError(t, err)
	assert.Equal(t, "전시", got.Interest)
}
