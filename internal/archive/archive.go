// Package archive keeps a JSON dossier of every captured lead in
// S3-compatible object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"energy_diagnostic_backend/internal/diagnostic"

	"github.com/google/uuid"
)

const (
	dossierFolder      = "dossiers"
	dossierContentType = "application/json"
)

// Dossier is the archived snapshot of a lead at capture time.
type Dossier struct {
	LeadID         uuid.UUID                `json:"leadId"`
	SessionID      *uuid.UUID               `json:"sessionId,omitempty"`
	CapturedAt     time.Time                `json:"capturedAt"`
	Contact        Contact                  `json:"contact"`
	SelectedAction string                   `json:"selectedAction,omitempty"`
	Questionnaire  diagnostic.Questionnaire `json:"questionnaire"`
	Result         diagnostic.Result        `json:"result"`
	Insight        string                   `json:"insight"`
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Encode renders the dossier as indented JSON.
func (d Dossier) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// FileName is the base name used for attachments and object keys.
func (d Dossier) FileName() string {
	return d.LeadID.String() + ".json"
}

// DossierKey returns the object key for a lead's dossier.
func DossierKey(leadID uuid.UUID) string {
	return path.Join(dossierFolder, leadID.String()+".json")
}

// Archive stores dossiers in a single bucket.
type Archive struct {
	store  ObjectStore
	bucket string
}

func New(store ObjectStore, bucket string) *Archive {
	return &Archive{store: store, bucket: bucket}
}

// EnsureBucket creates the dossier bucket when missing.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	return a.store.EnsureBucketExists(ctx, a.bucket)
}

// Save uploads the dossier and returns its object key. Re-saving a lead
// overwrites the previous dossier.
func (a *Archive) Save(ctx context.Context, d Dossier) (string, error) {
	body, err := d.Encode()
	if err != nil {
		return "", fmt.Errorf("encode dossier %s: %w", d.LeadID, err)
	}
	key := DossierKey(d.LeadID)
	if err := a.store.PutObject(ctx, a.bucket, key, dossierContentType, bytes.NewReader(body), int64(len(body))); err != nil {
		return "", err
	}
	return key, nil
}

// Load reads a previously archived dossier.
func (a *Archive) Load(ctx context.Context, leadID uuid.UUID) (Dossier, error) {
	obj, err := a.store.GetObject(ctx, a.bucket, DossierKey(leadID))
	if err != nil {
		return Dossier{}, err
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		return Dossier{}, fmt.Errorf("read dossier %s: %w", leadID, err)
	}
	var d Dossier
	if err := json.Unmarshal(body, &d); err != nil {
		return Dossier{}, fmt.Errorf("decode dossier %s: %w", leadID, err)
	}
	return d, nil
}

// DownloadURL returns a short-lived link to a lead's dossier.
func (a *Archive) DownloadURL(ctx context.Context, leadID uuid.UUID) (string, error) {
	return a.store.PresignedGet(ctx, a.bucket, DossierKey(leadID), PresignedURLTTL)
}
