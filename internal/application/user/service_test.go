package user

import (
	"context"
	"errors"
	"testing"

	"dongs-backend/internal/domain"
	"dongs-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Organization{}, &domain.User{}))
	return &Service{DB: db}
}

type fakeSender struct {
	to        string
	firstName string
	err       error
}

func (f *fakeSender) SendWelcome(ctx context.Context, to, firstName string) error {
	f.to = to
	f.firstName = firstName
	return f.err
}

func TestCreateUser_Defaults(t *testing.T) {
	s := setupTest(t)

	u, err := s.CreateUser(context.Background(), CreateUserInput{
		Name:     "  maria DA silva  ",
		Email:    "Maria@Example.com",
		Password: "Passw0rd!",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria Da Silva", u.Name)
	assert.Equal(t, "maria@example.com", u.Email)
	assert.Equal(t, constants.Viewer, u.Role)
	assert.Nil(t, u.OrganizationID)
	assert.NotEqual(t, "Passw0rd!", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("Passw0rd!")))
}

func TestCreateUser_Validation(t *testing.T) {
	s := setupTest(t)

	_, err := s.CreateUser(context.Background(), CreateUserInput{Name: " ", Email: "a@b.com", Password: "Passw0rd!"})
	assert.Error(t, err)

	_, err = s.CreateUser(context.Background(), CreateUserInput{Name: "Ana", Email: "not-an-email", Password: "Passw0rd!"})
	assert.Error(t, err)

	// Too short, no digit, no special
	_, err = s.CreateUser(context.Background(), CreateUserInput{Name: "Ana", Email: "ana@b.com", Password: "password"})
	assert.Error(t, err)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := setupTest(t)

	_, err := s.CreateUser(context.Background(), CreateUserInput{Name: "Ana", Email: "ana@b.com", Password: "Passw0rd!"})
	require.NoError(t, err)

	_, err = s.CreateUser(context.Background(), CreateUserInput{Name: "Outra Ana", Email: "ANA@b.com", Password: "Passw0rd!"})
	require.Error(t, err)
	assert.Equal(t, "Email already registered", err.Error())
}

func TestCreateUser_SendsWelcomeEmail(t *testing.T) {
	s := setupTest(t)
	sender := &fakeSender{}
	s.EmailSender = sender

	u, err := s.CreateUser(context.Background(), CreateUserInput{Name: "joão pedro santos", Email: "jp@b.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, u.Email, sender.to)
	assert.Equal(t, "João", sender.firstName)
}

func TestCreateUser_EmailFailureDoesNotBlock(t *testing.T) {
	s := setupTest(t)
	s.EmailSender = &fakeSender{err: errors.New("smtp down")}

	u, err := s.CreateUser(context.Background(), CreateUserInput{Name: "Ana", Email: "ana@b.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestUpdateUser_AllowedFieldsOnly(t *testing.T) {
	s := setupTest(t)
	u, err := s.CreateUser(context.Background(), CreateUserInput{Name: "Ana", Email: "ana@b.com", Password: "Passw0rd!"})
	require.NoError(t, err)

	got, err := s.UpdateUser(context.Background(), u.ID.String(), map[string]interface{}{
		"name": "ana beatriz",
		"role": "admin", // not an allowed field, silently dropped
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Beatriz", got.Name)
	assert.Equal(t, constants.Viewer, got.Role)
}

func TestUpdateUser_PasswordIsRehashed(t *testing.T) {
	s := setupTest(t)
	u, err := s.CreateUser(context.Background(), CreateUserInput{Name: "Ana", Email: "ana@b.com", Password: "Passw0rd!"})
	require.NoError(t, err)

	got, err := s.UpdateUser(context.Background(), u.ID.String(), map[string]interface{}{"password": "NewPass1!"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("NewPass1!")))

	_, err = s.UpdateUser(context.Background(), u.ID.String(), map[string]interface{}{"password": "weak"})
	assert.Error(t, err)
}

func TestUpdateUser_EmailUniqueness(t *testing.T) {
	s := setupTest(t)
	u1, err := s.CreateUser(context.Background(), CreateUserInput{Name: "Ana", Email: "ana@b.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	_, err = s.CreateUser(context.Background(), CreateUserInput{Name: "Bia", Email: "bia@b.com", Password: "Passw0rd!"})
	require.NoError(t, err)

	_, err = s.UpdateUser(context.Background(), u1.ID.String(), map[string]interface{}{"email": "bia@b.com"})
	require.Error(t, err)
	assert.Equal(t, "Email already registered", err.Error())

	// Keeping your own email is fine
	_, err = s.UpdateUser(context.Background(), u1.ID.String(), map[string]interface{}{"email": "ana@b.com"})
	assert.NoError(t, err)
}

func TestUpdateUser_Missing(t *testing.T) {
	s := setupTest(t)

	_, err := s.UpdateUser(context.Background(), "", map[string]interface{}{"name": "X"})
	assert.Error(t, err)

	_, err = s.UpdateUser(context.Background(), "not-a-uuid", map[string]interface{}{"name": "X"})
	assert.Error(t, err)

	_, err = s.UpdateUser(context.Background(), uuid.New().String(), map[string]interface{}{"name": "X"})
	require.Error(t, err)
	assert.Equal(t, "User not found", err.Error())
}

func TestUpdateUserRole_PolicyEnforced(t *testing.T) {
	s := setupTest(t)

	org := domain.Organization{Name: "Instituto Esperança"}
	require.NoError(t, s.DB.Create(&org).Error)
	orgStr := org.ID.String()

	admin := domain.User{Name: "Admin", Email: "admin@b.com", PasswordHash: "x", Role: constants.Admin, OrganizationID: &org.ID}
	member := domain.User{Name: "Member", Email: "member@b.com", PasswordHash: "x", Role: constants.Viewer, OrganizationID: &org.ID}
	require.NoError(t, s.DB.Create(&admin).Error)
	require.NoError(t, s.DB.Create(&member).Error)

	got, err := s.UpdateUserRole(context.Background(), UpdateUserRoleInput{
		ActorUserID:  admin.ID.String(),
		ActorRole:    constants.Admin,
		TargetUserID: member.ID.String(),
		TargetRole:   constants.Manager,
		OrgID:        &orgStr,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.Manager, got.Role)

	// Demoting the only admin is never allowed
	_, err = s.UpdateUserRole(context.Background(), UpdateUserRoleInput{
		ActorUserID:  member.ID.String(),
		ActorRole:    constants.Admin,
		TargetUserID: admin.ID.String(),
		TargetRole:   constants.Viewer,
		OrgID:        &orgStr,
	})
	assert.Error(t, err)
}

func TestRemoveUserFromOrg(t *testing.T) {
	s := setupTest(t)

	org := domain.Organization{Name: "Instituto Esperança"}
	require.NoError(t, s.DB.Create(&org).Error)
	orgStr := org.ID.String()

	admin := domain.User{Name: "Admin", Email: "admin@b.com", PasswordHash: "x", Role: constants.Admin, OrganizationID: &org.ID}
	member := domain.User{Name: "Member", Email: "member@b.com", PasswordHash: "x", Role: constants.Manager, OrganizationID: &org.ID}
	require.NoError(t, s.DB.Create(&admin).Error)
	require.NoError(t, s.DB.Create(&member).Error)

	err := s.RemoveUserFromOrg(context.Background(), RemoveUserFromOrgInput{
		ActorUserID:  admin.ID.String(),
		ActorRole:    constants.Admin,
		TargetUserID: member.ID.String(),
		OrgID:        &orgStr,
	})
	require.NoError(t, err)

	var got domain.User
	require.NoError(t, s.DB.Where("id = ?", member.ID).First(&got).Error)
	assert.Nil(t, got.OrganizationID)
	assert.Equal(t, constants.Viewer, got.Role)

	// Self-removal is blocked
	err = s.RemoveUserFromOrg(context.Background(), RemoveUserFromOrgInput{
		ActorUserID:  admin.ID.String(),
		ActorRole:    constants.Admin,
		TargetUserID: admin.ID.String(),
		OrgID:        &orgStr,
	})
	assert.Error(t, err)
}

func TestTitleCaseAndNormalize(t *testing.T) {
	assert.Equal(t, "Maria Da Silva", titleCaseAndNormalize("  MARIA   da   SILVA "))
	assert.Equal(t, "José", titleCaseAndNormalize("josé"))
	assert.Equal(t, "", titleCaseAndNormalize("   "))
}
