package models

import (
	"encoding/json"
	"testing"
)

func TestCitation_ClampedScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  float64
	}{
		{"in range", 0.87, 0.87},
		{"zero", 0, 0},
		{"one", 1, 1},
		{"below range", -0.2, 0},
		{"above range", 1.3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Citation{RelevanceScore: tt.score}
			if got := c.ClampedScore(); got != tt.want {
				t.Errorf("ClampedScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChatResponse_Decode(t *testing.T) {
	body := `{
		"message_id": "m1",
		"session_id": "s1",
		"content": "Revenue grew [ref:report.pdf|4].",
		"citations": [
			{"source": "report.pdf", "file_id": "f1", "page": "4", "content": "Revenue...", "relevance_score": 0.91}
		],
		"tokens_used": 128,
		"created_at": "2025-03-01T12:00:00Z"
	}`

	var resp ChatResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if resp.SessionID != "s1" {
		t.Errorf("SessionID = %s, want s1", resp.SessionID)
	}
	if len(resp.Citations) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(resp.Citations))
	}
	if resp.Citations[0].Source != "report.pdf" {
		t.Errorf("citation source = %s, want report.pdf", resp.Citations[0].Source)
	}
	if resp.TokensUsed != 128 {
		t.Errorf("TokensUsed = %d, want 128", resp.TokensUsed)
	}
}

func TestMessage_PendingNotSerialized(t *testing.T) {
	msg := Message{ID: "m1", Role: RoleUser, Content: "hi", Pending: true}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := decoded["Pending"]; ok {
		t.Error("Pending flag must not be serialized")
	}
}
