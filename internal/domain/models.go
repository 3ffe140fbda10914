package domain

import (
	"time"

	"github.com/google/uuid"
)

// FormatJob is one ingest-and-format run: an uploaded document, its pipeline
// status, and the resulting Markdown once the run completes.
type FormatJob struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	OriginalName      string     `db:"original_name" json:"original_name"`
	ContentType       string     `db:"content_type" json:"content_type"`
	FileSize          int64      `db:"file_size" json:"file_size"`
	StorageBucket     string     `db:"storage_bucket" json:"-"`
	StorageKey        string     `db:"storage_key" json:"-"`
	Preset            string     `db:"preset" json:"preset"`
	Model             string     `db:"model" json:"model"`
	CustomInstruction string     `db:"custom_instruction" json:"custom_instruction,omitempty"`
	Status            JobStatus  `db:"status" json:"status"`
	Attempts          int        `db:"attempts" json:"attempts"`
	Markdown          string     `db:"markdown" json:"markdown,omitempty"`
	ImageCount        int        `db:"image_count" json:"image_count"`
	Confidence        *float64   `db:"confidence" json:"confidence,omitempty"`
	Degraded          bool       `db:"degraded" json:"degraded"`
	ErrorText         string     `db:"error_text" json:"error,omitempty"`
	CompletedAt       *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Preset is a named block of formatting instructions fed to the LLM as system
// guidance. Body holds the full preset text including the title line.
type Preset struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// FormatResult is the outcome of one pipeline run.
type FormatResult struct {
	Markdown   string            `json:"markdown"`
	ModelUsed  string            `json:"model_used"`
	Confidence *float64          `json:"confidence,omitempty"`
	Degraded   bool              `json:"degraded"`
	Images     map[string]string `json:"images,omitempty"` // image id -> stored path
}
