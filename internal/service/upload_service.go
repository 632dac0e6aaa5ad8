package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/pushworks/wapush/internal/blobstore"
	"github.com/pushworks/wapush/internal/domain"
	"go.uber.org/zap"
)

const uploadURLExpiry = 10 * time.Minute

type UploadService struct {
	uploader blobstore.Uploader
	logger   *zap.Logger
	now      func() time.Time
}

type UploadTarget struct {
	SignedUploadURL string
	FilePath        string
}

func NewUploadService(uploader blobstore.Uploader, logger *zap.Logger) (*UploadService, error) {
	if uploader == nil {
		return nil, fmt.Errorf("uploader is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &UploadService{
		uploader: uploader,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// IssueUploadURL returns a presigned PUT target for a recipient list file.
// Files are keyed by user and upload date so later uploads never collide
// across users.
func (s *UploadService) IssueUploadURL(ctx context.Context, userID, fileName string) (*UploadTarget, error) {
	userID = strings.TrimSpace(userID)
	fileName = strings.TrimSpace(fileName)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	if fileName != path.Base(fileName) {
		return nil, fmt.Errorf("%w: file name must not contain path separators", domain.ErrValidation)
	}

	filePath := fmt.Sprintf("%s/%s/%s", userID, s.now().UTC().Format("2006-01-02"), fileName)

	signedURL, err := s.uploader.PresignPut(ctx, filePath, uploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload url: %w", err)
	}

	s.logger.Info("upload url issued",
		zap.String("userId", userID),
		zap.String("filePath", filePath),
	)

	return &UploadTarget{
		SignedUploadURL: signedURL.String(),
		FilePath:        filePath,
	}, nil
}
