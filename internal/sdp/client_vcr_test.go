package sdp

import (
	"context"
	"os"
	"testing"

	"github.com/Reventlow/glass/internal/config"
	"github.com/Reventlow/glass/internal/testutil"
)

func TestListTechniciansReplay(t *testing.T) {
	if os.Getenv("VCR_MODE") == "record" && os.Getenv("SDP_API_KEY") == "" {
		t.Skip("Skipping test: SDP_API_KEY not set")
	}

	recorder, cleanup := testutil.NewVCRRecorder(t, "list_technicians")
	defer cleanup()

	apiKey := os.Getenv("SDP_API_KEY")
	if apiKey == "" {
		apiKey = "test-key"
	}

	cfg := &config.Config{
		SDP: config.SDPConfig{
			BaseURL: "https://sdp.example.com",
			APIKey:  apiKey,
		},
	}
	client := NewClient(cfg, WithHTTPClient(testutil.VCRHTTPClient(recorder)))

	technicians, err := client.ListTechnicians(context.Background(), "IT Support", 5)
	if err != nil {
		t.Fatalf("ListTechnicians() error = %v", err)
	}

	if len(technicians) != 2 {
		t.Fatalf("technicians = %d, want 2", len(technicians))
	}
	if technicians[0].DisplayName() != "Gorm Reventlow" {
		t.Errorf("first technician = %q", technicians[0].DisplayName())
	}
	if technicians[1].DisplayName() != "Henriette Meissner" {
		t.Errorf("second technician = %q, want name assembled from parts", technicians[1].DisplayName())
	}
	if technicians[1].IsActive == nil || *technicians[1].IsActive {
		t.Error("second technician should be inactive")
	}
}
