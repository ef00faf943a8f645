package tools

import (
	"strings"
	"testing"
)

func TestListRequestsInputSanitize(t *testing.T) {
	in := ListRequestsInput{
		Status:     "  Åben  ",
		Priority:   "   ",
		Technician: "  Gorm Reventlow  ",
		Limit:      10,
	}
	in.Sanitize()

	if in.Status != "Åben" {
		t.Errorf("Status = %q", in.Status)
	}
	if in.Priority != "" {
		t.Errorf("Priority = %q, want whitespace collapsed to empty", in.Priority)
	}
	if in.Technician != "Gorm Reventlow" {
		t.Errorf("Technician = %q", in.Technician)
	}
	if in.Limit != 10 {
		t.Errorf("Limit = %d", in.Limit)
	}
}

func TestCreateRequestInputValidate(t *testing.T) {
	t.Run("subject required", func(t *testing.T) {
		in := CreateRequestInput{Subject: "   "}
		in.Sanitize()
		if err := in.Validate(); err == nil {
			t.Error("whitespace-only subject should fail validation")
		}
	})

	t.Run("subject length limit", func(t *testing.T) {
		in := CreateRequestInput{Subject: strings.Repeat("x", 251)}
		in.Sanitize()
		err := in.Validate()
		if err == nil {
			t.Fatal("overlong subject should fail validation")
		}
		if !strings.Contains(err.Error(), "250") {
			t.Errorf("error = %q, want mention of the limit", err.Error())
		}
	})

	t.Run("valid minimal input", func(t *testing.T) {
		in := CreateRequestInput{Subject: "  Printer broken  "}
		in.Sanitize()
		if err := in.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
		if in.Subject != "Printer broken" {
			t.Errorf("Subject = %q", in.Subject)
		}
	})
}

func TestUpdateRequestInputValidate(t *testing.T) {
	t.Run("no fields fails", func(t *testing.T) {
		in := UpdateRequestInput{RequestID: "123"}
		if err := in.Validate(); err == nil {
			t.Error("update with no fields should fail validation")
		}
	})

	t.Run("single field passes", func(t *testing.T) {
		in := UpdateRequestInput{RequestID: "123", Priority: "High"}
		if err := in.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("whitespace-only field does not count", func(t *testing.T) {
		in := UpdateRequestInput{RequestID: "123", Priority: "   "}
		in.Sanitize()
		if err := in.Validate(); err == nil {
			t.Error("whitespace-only update should fail validation")
		}
	})
}

func TestAddNoteInputValidate(t *testing.T) {
	in := AddNoteInput{RequestID: "123", Content: "   "}
	in.Sanitize()
	if err := in.Validate(); err == nil {
		t.Error("empty note content should fail validation")
	}

	in = AddNoteInput{RequestID: "123", Content: "  real content  "}
	in.Sanitize()
	if err := in.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if in.Content != "real content" {
		t.Errorf("Content = %q", in.Content)
	}
}

func TestAssignRequestInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      AssignRequestInput
		wantErr bool
	}{
		{name: "no target", in: AssignRequestInput{RequestID: "1"}, wantErr: true},
		{name: "technician only", in: AssignRequestInput{RequestID: "1", TechnicianID: "42"}},
		{name: "group only", in: AssignRequestInput{RequestID: "1", Group: "IT Support"}},
		{name: "both", in: AssignRequestInput{RequestID: "1", TechnicianID: "42", Group: "IT Support"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
