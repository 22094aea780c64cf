package services

import (
	"context"
	"fmt"
	"time"

	"crewlink-backend/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// photoStore is the persistence surface the photo service needs.
// *repository.PhotoRepository satisfies it.
type photoStore interface {
	Create(ctx context.Context, photo *models.ProfilePhoto) error
	GetLatestByUser(ctx context.Context, userID string) (*models.ProfilePhoto, error)
}

// photoUserStore updates the member profile after an upload.
// *repository.UserRepository satisfies it.
type photoUserStore interface {
	GetByID(ctx context.Context, id string) (*models.CrewMember, error)
	UpdateProfile(ctx context.Context, member *models.CrewMember) error
}

// PhotoService handles profile photo uploads via S3 pre-signed URLs
type PhotoService struct {
	photos   photoStore
	users    photoUserStore
	s3Client *s3.Client
	s3Bucket string
	region   string
}

// NewPhotoService creates a new photo service
func NewPhotoService(
	photos photoStore,
	users photoUserStore,
	awsRegion, s3Bucket, accessKey, secretKey, endpoint string,
) (*PhotoService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(awsRegion),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &PhotoService{
		photos:   photos,
		users:    users,
		s3Client: s3Client,
		s3Bucket: s3Bucket,
		region:   awsRegion,
	}, nil
}

// UploadRequest represents a request to get a pre-signed URL
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// UploadResponse represents the response with pre-signed URL
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	PhotoID   string `json:"photo_id"`
	PhotoURL  string `json:"photo_url"`
	ExpiresIn int    `json:"expires_in"`
}

// GetPreSignedURL generates a pre-signed upload URL and records the photo on
// the member's profile.
func (s *PhotoService) GetPreSignedURL(ctx context.Context, userID, contentType string) (*UploadResponse, error) {
	member, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "crew member")
	}

	photoID := uuid.New().String()
	s3Key := fmt.Sprintf("profiles/%s/%s.jpg", userID, photoID)

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(s3Key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 5 * time.Minute
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	s3URL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Bucket, s.region, s3Key)
	photo := &models.ProfilePhoto{
		ID:        photoID,
		UserID:    userID,
		S3URL:     s3URL,
		CreatedAt: time.Now(),
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}

	member.PhotoURL = s3URL
	if err := s.users.UpdateProfile(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to update profile photo: %w", err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		PhotoID:   photoID,
		PhotoURL:  s3URL,
		ExpiresIn: 300,
	}, nil
}

// GetLatest returns the member's most recent profile photo
func (s *PhotoService) GetLatest(ctx context.Context, userID string) (*models.ProfilePhoto, error) {
	photo, err := s.photos.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "photo")
	}
	return photo, nil
}
