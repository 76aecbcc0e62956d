package libraries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinicdesk-backend/internal/models"

	"cloud.google.com/go/storage"
)

// TranscriptArchiver writes a patient's record and transcript to a GCS
// bucket before the patient is deleted.
type TranscriptArchiver struct {
	client *storage.Client
	bucket string
	now    func() time.Time
}

func NewTranscriptArchiver(client *storage.Client, bucket string) *TranscriptArchiver {
	return &TranscriptArchiver{client: client, bucket: bucket, now: time.Now}
}

type transcriptArchive struct {
	ArchivedAt time.Time      `json:"archivedAt"`
	Patient    models.Patient `json:"patient"`
	History    []models.Chat  `json:"history"`
}

func (a *TranscriptArchiver) ArchiveTranscript(ctx context.Context, patient *models.Patient, history []models.Chat) error {
	name, body, err := transcriptObject(patient, history, a.now().UTC())
	if err != nil {
		return err
	}

	w := a.client.Bucket(a.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(body); err != nil {
		w.Close()
		return fmt.Errorf("write gs://%s/%s: %w", a.bucket, name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close gs://%s/%s: %w", a.bucket, name, err)
	}
	return nil
}

func transcriptObject(patient *models.Patient, history []models.Chat, at time.Time) (string, []byte, error) {
	if history == nil {
		history = []models.Chat{}
	}
	body, err := json.Marshal(transcriptArchive{ArchivedAt: at, Patient: *patient, History: history})
	if err != nil {
		return "", nil, fmt.Errorf("marshal transcript: %w", err)
	}
	name := fmt.Sprintf("transcripts/%s-%d.json", patient.ID, at.Unix())
	return name, body, nil
}
