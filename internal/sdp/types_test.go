package sdp

import (
	"encoding/json"
	"testing"
)

func TestFlexString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FlexString
	}{
		{name: "string", input: `"4521"`, want: "4521"},
		{name: "integer", input: `4521`, want: "4521"},
		{name: "large integer stays exact", input: `216826000000071251`, want: "216826000000071251"},
		{name: "null", input: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FlexString
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FlexInt
	}{
		{name: "number", input: `2000`, want: 2000},
		{name: "quoted number", input: `"2000"`, want: 2000},
		{name: "null", input: `null`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FlexInt
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal(%s) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestRequestDisplayHelpers(t *testing.T) {
	t.Run("empty request uses placeholders", func(t *testing.T) {
		var req Request
		if got := req.DisplaySubject(); got != "(No subject)" {
			t.Errorf("DisplaySubject() = %q", got)
		}
		if got := req.DisplayStatus(); got != "Unknown" {
			t.Errorf("DisplayStatus() = %q", got)
		}
		if got := req.DisplayTechnician(); got != "Unassigned" {
			t.Errorf("DisplayTechnician() = %q", got)
		}
		if got := req.CategoryPath(); got != "Uncategorized" {
			t.Errorf("CategoryPath() = %q", got)
		}
	})

	t.Run("category path joins present levels", func(t *testing.T) {
		req := Request{
			Category:    &NamedEntity{Name: "Hardware"},
			Subcategory: &NamedEntity{Name: "Laptop"},
			Item:        &NamedEntity{Name: "Battery"},
		}
		if got := req.CategoryPath(); got != "Hardware > Laptop > Battery" {
			t.Errorf("CategoryPath() = %q", got)
		}
	})

	t.Run("category path skips absent middle level", func(t *testing.T) {
		req := Request{
			Category: &NamedEntity{Name: "Hardware"},
			Item:     &NamedEntity{Name: "Battery"},
		}
		if got := req.CategoryPath(); got != "Hardware > Battery" {
			t.Errorf("CategoryPath() = %q", got)
		}
	})
}

func TestTimestampDisplay(t *testing.T) {
	t.Run("nil timestamp", func(t *testing.T) {
		var ts *Timestamp
		if got := ts.Display(); got != "" {
			t.Errorf("Display() = %q, want empty", got)
		}
	})

	t.Run("display value preferred", func(t *testing.T) {
		ts := &Timestamp{Value: "1700000000000", DisplayValue: "Nov 14, 2023 11:13 PM"}
		if got := ts.Display(); got != "Nov 14, 2023 11:13 PM" {
			t.Errorf("Display() = %q", got)
		}
	})

	t.Run("raw value fallback", func(t *testing.T) {
		ts := &Timestamp{Value: "1700000000000"}
		if got := ts.Display(); got != "1700000000000" {
			t.Errorf("Display() = %q", got)
		}
	})
}

func TestConversationUnmarshal(t *testing.T) {
	t.Run("canonical fields", func(t *testing.T) {
		var conv Conversation
		body := `{"id": "9", "description": "hello", "sent_time": {"display_value": "today"}}`
		if err := json.Unmarshal([]byte(body), &conv); err != nil {
			t.Fatal(err)
		}
		if conv.Description != "hello" {
			t.Errorf("Description = %q", conv.Description)
		}
		if conv.DisplayTime() != "today" {
			t.Errorf("DisplayTime() = %q", conv.DisplayTime())
		}
	})

	t.Run("content alias", func(t *testing.T) {
		var conv Conversation
		if err := json.Unmarshal([]byte(`{"id": "9", "content": "from content"}`), &conv); err != nil {
			t.Fatal(err)
		}
		if conv.Description != "from content" {
			t.Errorf("Description = %q, want content alias folded in", conv.Description)
		}
	})

	t.Run("body alias", func(t *testing.T) {
		var conv Conversation
		if err := json.Unmarshal([]byte(`{"id": "9", "body": "from body"}`), &conv); err != nil {
			t.Fatal(err)
		}
		if conv.Description != "from body" {
			t.Errorf("Description = %q, want body alias folded in", conv.Description)
		}
	})

	t.Run("description wins over aliases", func(t *testing.T) {
		var conv Conversation
		body := `{"id": "9", "description": "canonical", "content": "alias"}`
		if err := json.Unmarshal([]byte(body), &conv); err != nil {
			t.Fatal(err)
		}
		if conv.Description != "canonical" {
			t.Errorf("Description = %q, want canonical field preferred", conv.Description)
		}
	})

	t.Run("created_time alias for sent_time", func(t *testing.T) {
		var conv Conversation
		body := `{"id": "9", "created_time": {"display_value": "yesterday"}}`
		if err := json.Unmarshal([]byte(body), &conv); err != nil {
			t.Fatal(err)
		}
		if conv.DisplayTime() != "yesterday" {
			t.Errorf("DisplayTime() = %q, want created_time folded in", conv.DisplayTime())
		}
	})
}

func TestConversationDisplayContent(t *testing.T) {
	tests := []struct {
		name string
		conv Conversation
		want string
	}{
		{
			name: "inline description",
			conv: Conversation{Description: "text"},
			want: "text",
		},
		{
			name: "unfetched content url",
			conv: Conversation{ContentURL: "/api/v3/requests/1/notifications/2"},
			want: "(Content could not be fetched)",
		},
		{
			name: "subject fallback",
			conv: Conversation{Subject: "Re: printer"},
			want: "[Subject: Re: printer]",
		},
		{
			name: "nothing at all",
			conv: Conversation{},
			want: "(No content)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.conv.DisplayContent(); got != tt.want {
				t.Errorf("DisplayContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTechnicianDisplayName(t *testing.T) {
	tests := []struct {
		name string
		tech Technician
		want string
	}{
		{name: "full name", tech: Technician{Name: "Gorm Reventlow"}, want: "Gorm Reventlow"},
		{name: "first and last", tech: Technician{FirstName: "Gorm", LastName: "Reventlow"}, want: "Gorm Reventlow"},
		{name: "first only", tech: Technician{FirstName: "Gorm"}, want: "Gorm"},
		{name: "last only", tech: Technician{LastName: "Reventlow"}, want: "Reventlow"},
		{name: "nothing", tech: Technician{}, want: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tech.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
