package services

import (
	"context"
	"encoding/json"
	"testing"

	"alfredoptarigan/document-parser/internal/models"
)

func TestOutcomeEvent(t *testing.T) {
	success := models.AnalysisOutcome{
		Status: models.StatusSuccess,
		Data:   &models.AnalysisPayload{DocumentType: models.TypeWorkshop, Skills: []string{"Docker"}},
	}
	event := OutcomeEvent("alice", "cert.png", "42", success)
	if event.Status != EventProcessed || event.RoutingKey() != "document.processed" {
		t.Fatalf("unexpected success event %+v", event)
	}
	if event.DocumentType != models.TypeWorkshop || len(event.Skills) != 1 {
		t.Fatalf("success event should carry analysis: %+v", event)
	}

	failed := OutcomeEvent("alice", "blank.png", "", models.AnalysisOutcome{Status: models.StatusError, Error: "insufficient text"})
	if failed.RoutingKey() != "document.failed" || failed.Error != "insufficient text" {
		t.Fatalf("unexpected failure event %+v", failed)
	}

	body, err := json.Marshal(failed)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["document_id"]; ok {
		t.Fatal("empty document id should be omitted")
	}
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher()
	if err := p.Publish(context.Background(), DocumentEvent{Status: EventDeleted}); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}
