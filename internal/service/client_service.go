package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"mime"
	"path/filepath"
	"time"

	"fitcoach/coaching-app/internal/domain"
	"fitcoach/coaching-app/internal/mailer"
	"fitcoach/coaching-app/internal/repository"
	"fitcoach/coaching-app/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrClientNotFound = errors.New("client not found")
)

// --- Input Types ---

type AddClientInput struct {
	TrainerID uuid.UUID
	Name      string
	Email     string
	Age       *int
	Weight    *float64
	BodyFat   *float64
}

// UpdateClientInput carries optional profile fields; nil means keep stored.
type UpdateClientInput struct {
	Name    *string
	Age     *int
	Weight  *float64
	BodyFat *float64
}

// ProgressPicUpload pairs the object key with a presigned PUT URL.
type ProgressPicUpload struct {
	ObjectKey string `json:"objectKey"`
	UploadURL string `json:"uploadUrl"`
}

// --- Service Interface ---

// ClientService manages the trainer's client roster: onboarding with a
// generated temporary password, profile reads and edits, and progress
// picture uploads through presigned object storage URLs.
type ClientService interface {
	AddClient(ctx context.Context, input AddClientInput) (*domain.ClientProfile, error)
	GetClient(ctx context.Context, trainerID, clientUserID uuid.UUID) (*domain.ClientProfile, error)
	GetClientsByTrainer(ctx context.Context, trainerID uuid.UUID) ([]domain.ClientProfile, error)
	UpdateClient(ctx context.Context, trainerID, clientUserID uuid.UUID, input UpdateClientInput) (*domain.ClientProfile, error)
	RequestProgressPicUpload(ctx context.Context, clientUserID uuid.UUID, fileName string) (*ProgressPicUpload, error)
	AttachProgressPic(ctx context.Context, clientUserID uuid.UUID, objectKey string) (*domain.ClientProfile, error)
	GetProgressPicURLs(ctx context.Context, trainerID, clientUserID uuid.UUID) ([]string, error)
}

// --- Service Implementation ---

type clientService struct {
	store  repository.Store
	mailer mailer.Mailer
	files  storage.FileStorage
}

// NewClientService creates a new instance of clientService.
func NewClientService(store repository.Store, m mailer.Mailer, files storage.FileStorage) ClientService {
	return &clientService{store: store, mailer: m, files: files}
}

const tempPasswordLength = 10

var tempPasswordCharset = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func generateTempPassword() (string, error) {
	out := make([]rune, tempPasswordLength)
	max := big.NewInt(int64(len(tempPasswordCharset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tempPasswordCharset[n.Int64()]
	}
	return string(out), nil
}

// AddClient onboards a client under a trainer: a client-role user account
// with a generated temporary password plus the linked profile, created in
// one transaction. The temporary password is mailed to the client and never
// returned through the API.
func (s *clientService) AddClient(ctx context.Context, input AddClientInput) (*domain.ClientProfile, error) {
	if input.TrainerID == uuid.Nil || input.Name == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: trainer ID, name and email are required", ErrValidation)
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	profile := &domain.ClientProfile{
		TrainerID: input.TrainerID,
		Name:      input.Name,
		Age:       input.Age,
		Weight:    input.Weight,
		BodyFat:   input.BodyFat,
	}

	err = s.store.Transact(ctx, func(tx repository.Store) error {
		user := &domain.User{
			Name:         input.Name,
			Email:        input.Email,
			PasswordHash: string(hashed),
			Role:         domain.RoleClient,
		}
		userID, err := tx.Users().Create(ctx, user)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrUserAlreadyExists
			}
			return err
		}
		profile.UserID = userID
		_, err = tx.ClientProfiles().Create(ctx, profile)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Mail delivery is best-effort; the account exists either way and the
	// trainer can trigger a reset.
	textBody := fmt.Sprintf("Welcome %s!\n\nYour coach created an account for you.\nTemporary password: %s\n\nPlease log in and change it.", input.Name, tempPassword)
	htmlBody := fmt.Sprintf("<p>Welcome %s!</p><p>Your coach created an account for you.</p><p>Temporary password: <b>%s</b></p><p>Please log in and change it.</p>", input.Name, tempPassword)
	if err := s.mailer.Send(ctx, input.Email, "Your coaching account", textBody, htmlBody); err != nil {
		logrus.WithError(err).WithField("email", input.Email).Error("add client: welcome mail failed")
	}

	return profile, nil
}

// GetClient returns one managed client's profile.
func (s *clientService) GetClient(ctx context.Context, trainerID, clientUserID uuid.UUID) (*domain.ClientProfile, error) {
	profile, err := s.store.ClientProfiles().GetByUserAndTrainerID(ctx, clientUserID, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return profile, nil
}

// GetClientsByTrainer lists the trainer's roster.
func (s *clientService) GetClientsByTrainer(ctx context.Context, trainerID uuid.UUID) ([]domain.ClientProfile, error) {
	if trainerID == uuid.Nil {
		return nil, fmt.Errorf("%w: trainer ID is required", ErrValidation)
	}
	return s.store.ClientProfiles().GetByTrainerID(ctx, trainerID)
}

// UpdateClient edits the mutable profile fields of a managed client.
func (s *clientService) UpdateClient(ctx context.Context, trainerID, clientUserID uuid.UUID, input UpdateClientInput) (*domain.ClientProfile, error) {
	profile, err := s.GetClient(ctx, trainerID, clientUserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.Age != nil {
		profile.Age = input.Age
	}
	if input.Weight != nil {
		profile.Weight = input.Weight
	}
	if input.BodyFat != nil {
		profile.BodyFat = input.BodyFat
	}

	if err := s.store.ClientProfiles().Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RequestProgressPicUpload mints a presigned upload URL for a new progress
// picture. The object key is namespaced per client and timestamped so
// uploads never collide.
func (s *clientService) RequestProgressPicUpload(ctx context.Context, clientUserID uuid.UUID, fileName string) (*ProgressPicUpload, error) {
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if _, err := s.store.ClientProfiles().GetByUserID(ctx, clientUserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectKey := fmt.Sprintf("progress-pics/%s/%d-%s", clientUserID, time.Now().Unix(), fileName)
	uploadURL, err := s.files.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &ProgressPicUpload{ObjectKey: objectKey, UploadURL: uploadURL}, nil
}

// AttachProgressPic records an uploaded object key on the client's profile.
func (s *clientService) AttachProgressPic(ctx context.Context, clientUserID uuid.UUID, objectKey string) (*domain.ClientProfile, error) {
	if objectKey == "" {
		return nil, fmt.Errorf("%w: object key is required", ErrValidation)
	}
	profile, err := s.store.ClientProfiles().GetByUserID(ctx, clientUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	profile.ProgressPics = append(profile.ProgressPics, objectKey)
	if err := s.store.ClientProfiles().Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetProgressPicURLs returns presigned download URLs for a managed client's
// stored progress pictures, newest key last.
func (s *clientService) GetProgressPicURLs(ctx context.Context, trainerID, clientUserID uuid.UUID) ([]string, error) {
	profile, err := s.GetClient(ctx, trainerID, clientUserID)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(profile.ProgressPics))
	for _, key := range profile.ProgressPics {
		u, err := s.files.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
		if err != nil {
			logrus.WithError(err).WithField("objectKey", key).Warn("skipping unreadable progress pic")
			continue
		}
		urls = append(urls, u)
	}
	return urls, nil
}
