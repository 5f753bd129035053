package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/mymoment/internal/server/config"
	"github.com/dmitrijs2005/mymoment/internal/server/models"
	"github.com/google/uuid"
)

// EntryLister is the part of EntryService an export needs.
type EntryLister interface {
	List(ctx context.Context, userID string) ([]*models.Entry, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// ExportService writes a JSON backup of a user's entries to S3 and hands
// out a presigned download link for it.
type ExportService struct {
	entries   EntryLister
	bucket    string
	linkTTL   time.Duration
	putter    objectPutter
	presigner objectPresigner
	now       func() time.Time
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewExportService builds the S3 client from the server config. Nothing is
// contacted until the first export.
func NewExportService(ctx context.Context, entries EntryLister, cfg *sc.Config) (*ExportService, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &ExportService{
		entries:   entries,
		bucket:    cfg.S3Bucket,
		linkTTL:   cfg.ExportLinkValidityDuration,
		putter:    client,
		presigner: s3.NewPresignClient(client),
		now:       time.Now,
	}, nil
}

type exportLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type exportEntry struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Timestamp    int64           `json:"timestamp"`
	Location     *exportLocation `json:"location,omitempty"`
	Weather      string          `json:"weather,omitempty"`
	Temperature  *float64        `json:"temperature,omitempty"`
	LocationName string          `json:"locationName,omitempty"`
}

type exportDocument struct {
	UserID     string        `json:"user_id"`
	ExportedAt int64         `json:"exported_at"`
	Entries    []exportEntry `json:"entries"`
}

func exportKey(userID string, d time.Time) string {
	return fmt.Sprintf("exports/%s/%d/%02d/%02d/%v.json", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

// Export uploads the backup and returns its object key and a download URL.
func (s *ExportService) Export(ctx context.Context, userID string) (string, string, error) {
	list, err := s.entries.List(ctx, userID)
	if err != nil {
		return "", "", err
	}

	now := s.now().UTC()
	doc := exportDocument{UserID: userID, ExportedAt: now.UnixMilli(), Entries: make([]exportEntry, 0, len(list))}
	for _, e := range list {
		item := exportEntry{
			ID: e.ID, Title: e.Title, Content: e.Content, Timestamp: e.Timestamp,
			Weather: e.Weather, Temperature: e.Temperature, LocationName: e.LocationName,
		}
		if e.Latitude != nil && e.Longitude != nil {
			item.Location = &exportLocation{Latitude: *e.Latitude, Longitude: *e.Longitude}
		}
		doc.Entries = append(doc.Entries, item)
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode export: %w", err)
	}

	key := exportKey(userID, now)
	if _, err := s.putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return "", "", fmt.Errorf("upload export: %w", err)
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.linkTTL))
	if err != nil {
		return "", "", fmt.Errorf("presign export: %w", err)
	}

	return key, req.URL, nil
}
