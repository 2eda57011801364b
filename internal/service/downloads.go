package service

import (
	"context"
	"fmt"

	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/telemetry"
)

// DownloadURLSigner generates time-limited URLs for stored objects.
type DownloadURLSigner interface {
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
}

// DownloadResource describes one preparedness document in the catalog.
type DownloadResource struct {
	ID          string
	Title       string
	Description string
	Category    string
	Filename    string
	Type        string
	Size        string
}

// Key returns the object storage key for the resource.
func (r DownloadResource) Key() string {
	return fmt.Sprintf("%s/%s", r.Category, r.Filename)
}

// DownloadCatalog returns the curated preparedness resource catalog.
func DownloadCatalog() []DownloadResource {
	return []DownloadResource{
		{
			ID:          "emergency-guide",
			Title:       "Emergency Preparedness Guide",
			Description: "Comprehensive PDF guide covering all aspects of disaster preparedness",
			Category:    "pdfs",
			Filename:    "emergency-preparedness-guide.pdf",
			Type:        "PDF",
			Size:        "2.3 MB",
		},
		{
			ID:          "family-plan",
			Title:       "Family Emergency Plan Template",
			Description: "Customizable template to create your family's emergency plan",
			Category:    "pdfs",
			Filename:    "family-emergency-plan-template.pdf",
			Type:        "PDF",
			Size:        "856 KB",
		},
		{
			ID:          "disaster-handbook",
			Title:       "Disaster Response Handbook",
			Description: "Detailed handbook for responding to different types of disasters",
			Category:    "resources",
			Filename:    "disaster-response-handbook.pdf",
			Type:        "PDF",
			Size:        "4.1 MB",
		},
		{
			ID:          "emergency-apps",
			Title:       "Emergency Apps Collection",
			Description: "Recommended mobile apps for emergency situations",
			Category:    "resources",
			Filename:    "emergency-apps-list.pdf",
			Type:        "PDF",
			Size:        "1.2 MB",
		},
	}
}

// DownloadService serves the preparedness resource catalog and signs
// download URLs for its entries.
type DownloadService struct {
	signer  DownloadURLSigner
	catalog []DownloadResource
}

// NewDownloadService creates a new DownloadService instance. signer may
// be nil when object storage is not configured; downloads are then
// listed but not fetchable.
func NewDownloadService(signer DownloadURLSigner) *DownloadService {
	return &DownloadService{signer: signer, catalog: DownloadCatalog()}
}

// List returns the full resource catalog.
func (s *DownloadService) List() []DownloadResource {
	return s.catalog
}

// SignURL returns a presigned download URL for the catalog entry with
// the given category and filename. Requests outside the catalog are
// rejected, so arbitrary bucket keys cannot be signed.
func (s *DownloadService) SignURL(ctx context.Context, category, filename string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "DownloadService.SignURL", telemetry.SpanAttributes{
		Operation: "download",
	})
	defer span.End()

	var resource *DownloadResource
	for i := range s.catalog {
		if s.catalog[i].Category == category && s.catalog[i].Filename == filename {
			resource = &s.catalog[i]
			break
		}
	}
	if resource == nil {
		return "", domain.ErrDownloadNotFound
	}

	if s.signer == nil {
		return "", domain.NewDomainError(domain.ErrCodeServiceError, "object storage is not configured")
	}

	url, err := s.signer.GenerateDownloadURL(ctx, resource.Key())
	if err != nil {
		span.SetError(err)
		return "", domain.NewServiceError("failed to sign download URL", err)
	}
	return url, nil
}
