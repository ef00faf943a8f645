package sdp

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestListParamsInputData(t *testing.T) {
	t.Run("empty params omit everything", func(t *testing.T) {
		data, err := json.Marshal(NewListParams().InputData())
		if err != nil {
			t.Fatal(err)
		}
		want := `{"list_info":{}}`
		if string(data) != want {
			t.Errorf("InputData() = %s, want %s", data, want)
		}
	})

	t.Run("pagination only", func(t *testing.T) {
		params := NewListParams().WithLimit(20).WithOffset(40)
		data, err := json.Marshal(params.InputData())
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"row_count":20`) {
			t.Errorf("InputData() = %s, want row_count 20", data)
		}
		if !strings.Contains(string(data), `"start_index":40`) {
			t.Errorf("InputData() = %s, want start_index 40", data)
		}
		if strings.Contains(string(data), "search_criteria") {
			t.Errorf("InputData() = %s, want no search_criteria without filters", data)
		}
	})

	t.Run("single criterion has no combinator", func(t *testing.T) {
		params := NewListParams().WithStatus("Åben")
		data, err := json.Marshal(params.InputData())
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(data), "logical_operator") {
			t.Errorf("InputData() = %s, want no logical_operator on single criterion", data)
		}
		if !strings.Contains(string(data), `"field":"status.name"`) {
			t.Errorf("InputData() = %s, want status.name criterion", data)
		}
	})

	t.Run("all but last criterion carry AND", func(t *testing.T) {
		params := NewListParams().
			WithStatus("Åben").
			WithPriority("High").
			WithTechnician("Gorm Reventlow")
		data, err := json.Marshal(params.InputData())
		if err != nil {
			t.Fatal(err)
		}
		if got := strings.Count(string(data), `"logical_operator":"AND"`); got != 2 {
			t.Errorf("InputData() = %s, want exactly 2 AND combinators, got %d", data, got)
		}
	})

	t.Run("open only excludes closed statuses", func(t *testing.T) {
		params := NewListParams().WithOpenOnly()
		data, err := json.Marshal(params.InputData())
		if err != nil {
			t.Fatal(err)
		}
		for _, status := range []string{"Lukket", "Annulleret", "Udført, afventer godkendelse"} {
			if !strings.Contains(string(data), status) {
				t.Errorf("InputData() = %s, want exclusion of %q", data, status)
			}
		}
		if got := strings.Count(string(data), `"condition":"is not"`); got != 3 {
			t.Errorf("InputData() = %s, want 3 is-not conditions, got %d", data, got)
		}
		// Three criteria: two combinators.
		if got := strings.Count(string(data), `"logical_operator":"AND"`); got != 2 {
			t.Errorf("InputData() = %s, want 2 AND combinators, got %d", data, got)
		}
	})

	t.Run("date range uses comparison conditions", func(t *testing.T) {
		params := NewListParams().
			WithCreatedAfter("2026-01-01").
			WithCreatedBefore("2026-02-01")
		data, err := json.Marshal(params.InputData())
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"condition":"greater than"`) {
			t.Errorf("InputData() = %s, want greater than condition", data)
		}
		if !strings.Contains(string(data), `"condition":"less than"`) {
			t.Errorf("InputData() = %s, want less than condition", data)
		}
	})

	t.Run("stamping does not mutate the params", func(t *testing.T) {
		params := NewListParams().WithStatus("Åben").WithPriority("High")
		if _, err := json.Marshal(params.InputData()); err != nil {
			t.Fatal(err)
		}
		if _, err := json.Marshal(params.InputData()); err != nil {
			t.Fatal(err)
		}
		if params.criteria[0].LogicalOperator != "" {
			t.Error("InputData() mutated the stored criteria")
		}
	})

	t.Run("preset OR combinator survives stamping", func(t *testing.T) {
		params := NewListParams().
			WithCriterion(SearchCriterion{
				Field: "status.name", Condition: "is", Value: "Åben",
				LogicalOperator: "OR",
			}).
			WithCriterion(Is("status.name", "Tildelt")).
			WithCriterion(Is("priority.name", "High"))
		data, err := json.Marshal(params.InputData())
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"logical_operator":"OR"`) {
			t.Errorf("InputData() = %s, want OR preserved", data)
		}
		if got := strings.Count(string(data), `"logical_operator":"AND"`); got != 1 {
			t.Errorf("InputData() = %s, want 1 AND combinator, got %d", data, got)
		}
	})
}

func TestSearchCriterionConstructors(t *testing.T) {
	tests := []struct {
		name      string
		criterion SearchCriterion
		condition string
	}{
		{name: "is", criterion: Is("status.name", "Open"), condition: "is"},
		{name: "is not", criterion: IsNot("status.name", "Lukket"), condition: "is not"},
		{name: "contains", criterion: Contains("subject", "printer"), condition: "contains"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.criterion.Condition != tt.condition {
				t.Errorf("condition = %q, want %q", tt.criterion.Condition, tt.condition)
			}
			if tt.criterion.LogicalOperator != "" {
				t.Error("constructors must not preset a combinator")
			}
		})
	}
}
