package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"fitcoach/coaching-app/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type sentMail struct {
	to       string
	subject  string
	textBody string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, textBody: textBody})
	return nil
}

type fakeFileStorage struct{}

func (fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expiry time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return nil
}

func newClientFixture() (*memStore, *fakeMailer, ClientService) {
	store := newMemStore()
	mail := &fakeMailer{}
	return store, mail, NewClientService(store, mail, fakeFileStorage{})
}

func TestAddClientCreatesAccountAndMailsPassword(t *testing.T) {
	store, mail, clients := newClientFixture()
	ctx := context.Background()
	trainerID := uuid.New()

	profile, err := clients.AddClient(ctx, AddClientInput{
		TrainerID: trainerID,
		Name:      "Athlete",
		Email:     "athlete@example.com",
		Age:       intPtr(30),
	})
	require.NoError(t, err)
	assert.Equal(t, trainerID, profile.TrainerID)
	require.NotEqual(t, uuid.Nil, profile.UserID)

	user, err := store.Users().GetByID(ctx, profile.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.NotEmpty(t, user.PasswordHash)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "athlete@example.com", mail.sent[0].to)

	// The mailed temporary password must match the stored hash.
	var password string
	for _, line := range strings.Split(mail.sent[0].textBody, "\n") {
		if rest, ok := strings.CutPrefix(line, "Temporary password: "); ok {
			password = rest
		}
	}
	require.Len(t, password, tempPasswordLength)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)))
}

func TestAddClientDuplicateEmailRollsBack(t *testing.T) {
	store, _, clients := newClientFixture()
	ctx := context.Background()

	_, err := clients.AddClient(ctx, AddClientInput{TrainerID: uuid.New(), Name: "A", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = clients.AddClient(ctx, AddClientInput{TrainerID: uuid.New(), Name: "B", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Len(t, store.users, 1)
	assert.Len(t, store.profiles, 1)
}

func TestAddClientSurvivesMailFailure(t *testing.T) {
	store, mail, clients := newClientFixture()
	mail.err = assert.AnError

	profile, err := clients.AddClient(context.Background(), AddClientInput{
		TrainerID: uuid.New(),
		Name:      "Athlete",
		Email:     "athlete@example.com",
	})
	require.NoError(t, err)
	assert.Len(t, store.profiles, 1)
	assert.NotEqual(t, uuid.Nil, profile.UserID)
}

func TestUpdateClientPartialEdit(t *testing.T) {
	store, _, clients := newClientFixture()
	ctx := context.Background()
	trainerID, clientID := uuid.New(), uuid.New()
	seedProfile(store, trainerID, clientID)

	profile, err := clients.UpdateClient(ctx, trainerID, clientID, UpdateClientInput{
		Weight: floatPtr(82.5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Client", profile.Name)
	require.NotNil(t, profile.Weight)
	assert.Equal(t, 82.5, *profile.Weight)

	_, err = clients.UpdateClient(ctx, uuid.New(), clientID, UpdateClientInput{})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestProgressPicFlow(t *testing.T) {
	store, _, clients := newClientFixture()
	ctx := context.Background()
	trainerID, clientID := uuid.New(), uuid.New()
	seedProfile(store, trainerID, clientID)

	upload, err := clients.RequestProgressPicUpload(ctx, clientID, "front.jpg")
	require.NoError(t, err)
	assert.Contains(t, upload.ObjectKey, clientID.String())
	assert.Contains(t, upload.UploadURL, upload.ObjectKey)

	profile, err := clients.AttachProgressPic(ctx, clientID, upload.ObjectKey)
	require.NoError(t, err)
	require.Len(t, profile.ProgressPics, 1)

	urls, err := clients.GetProgressPicURLs(ctx, trainerID, clientID)
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Equal(t, "https://storage.test/download/"+upload.ObjectKey, urls[0])
}

func TestProgressPicUploadRequiresProfile(t *testing.T) {
	_, _, clients := newClientFixture()

	_, err := clients.RequestProgressPicUpload(context.Background(), uuid.New(), "front.jpg")
	assert.ErrorIs(t, err, ErrClientNotFound)
}
