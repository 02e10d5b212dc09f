package routing

import (
	"errors"
	"slices"
	"testing"

	"github.com/joseph-ayodele/invoice-pipeline/constants"
	"github.com/joseph-ayodele/invoice-pipeline/internal/common"
)

func TestRouteHeaderFields(t *testing.T) {
	svc := NewService(nil, nil, nil)

	decisions, err := svc.RouteHeaderFields("default", map[constants.FieldType]float64{
		constants.InvoiceNumber: 0.95,
		constants.VendorName:    0.70,
		constants.TotalAmount:   0.20,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(decisions) != 3 {
		t.Fatalf("decisions = %d, want 3", len(decisions))
	}

	byComponent := map[string]ComponentDecision{}
	for _, d := range decisions {
		byComponent[d.Component] = d
	}
	if got := byComponent["invoice_number"].Status; got != constants.Approved {
		t.Errorf("invoice_number = %s, want approved", got)
	}
	if got := byComponent["vendor_name"].Status; got != constants.ReviewRequired {
		t.Errorf("vendor_name = %s, want review_required", got)
	}
	total := byComponent["total_amount"]
	if total.Status != constants.ReviewRequired {
		t.Errorf("total_amount = %s, want review_required under default rule", total.Status)
	}
	if !slices.Contains(total.Flags, FlagVeryLowConfidence) {
		t.Errorf("total_amount flags = %v, want VERY_LOW_CONFIDENCE", total.Flags)
	}
}

func TestRouteTableRows(t *testing.T) {
	svc := NewService(nil, nil, nil)

	decisions, err := svc.RouteTableRows("strict", []float64{0.95, 0.75, 0.40})
	if err != nil {
		t.Fatal(err)
	}
	want := []constants.RoutingStatus{constants.Approved, constants.ReviewRequired, constants.Rejected}
	for i, d := range decisions {
		if d.Status != want[i] {
			t.Errorf("row %d = %s, want %s", i, d.Status, want[i])
		}
	}
	if decisions[0].Component != "row_0" || decisions[2].Component != "row_2" {
		t.Errorf("component names = %s, %s", decisions[0].Component, decisions[2].Component)
	}
}

func TestRouteDocumentAggregation(t *testing.T) {
	svc := NewService(nil, nil, nil)

	t.Run("rejected component rejects document", func(t *testing.T) {
		components := []ComponentDecision{
			{Component: "invoice_number", Confidence: 0.95, Status: constants.Approved},
			{Component: "row_0", Confidence: 0.2, Status: constants.Rejected},
		}
		d, err := svc.RouteDocument("default", "doc-1", 0.9, components)
		if err != nil {
			t.Fatal(err)
		}
		if d.Status != constants.Rejected {
			t.Errorf("status = %s, want rejected", d.Status)
		}
	})

	t.Run("require_all_approved forces review", func(t *testing.T) {
		components := []ComponentDecision{
			{Component: "invoice_number", Confidence: 0.95, Status: constants.Approved},
			{Component: "vendor_name", Confidence: 0.80, Status: constants.ReviewRequired},
		}
		d, err := svc.RouteDocument("strict", "doc-2", 0.95, components)
		if err != nil {
			t.Fatal(err)
		}
		if d.Status != constants.ReviewRequired {
			t.Errorf("status = %s, want review_required", d.Status)
		}
		if !slices.Contains(d.Flags, FlagReviewNeeded) {
			t.Errorf("flags = %v, want REVIEW_NEEDED", d.Flags)
		}
	})

	t.Run("all approved routes overall confidence", func(t *testing.T) {
		components := []ComponentDecision{
			{Component: "invoice_number", Confidence: 0.95, Status: constants.Approved},
			{Component: "total_amount", Confidence: 0.92, Status: constants.Approved},
		}
		d, err := svc.RouteDocument("default", "doc-3", 0.93, components)
		if err != nil {
			t.Fatal(err)
		}
		if d.Status != constants.Approved {
			t.Errorf("status = %s, want approved", d.Status)
		}
		if d.RecommendedAction != "auto_process" {
			t.Errorf("recommended action = %s", d.RecommendedAction)
		}
		if d.DecisionID == "" {
			t.Error("decision id not assigned")
		}
	})

	t.Run("uneven confidences are flagged", func(t *testing.T) {
		components := []ComponentDecision{
			{Component: "invoice_number", Confidence: 0.95, Status: constants.Approved},
			{Component: "vendor_name", Confidence: 0.45, Status: constants.ReviewRequired},
		}
		d, err := svc.RouteDocument("default", "doc-4", 0.70, components)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Contains(d.Flags, FlagHighConfidenceVariance) {
			t.Errorf("flags = %v, want HIGH_CONFIDENCE_VARIANCE", d.Flags)
		}
	})

	t.Run("weak components drag the average", func(t *testing.T) {
		components := []ComponentDecision{
			{Component: "vendor_name", Confidence: 0.50, Status: constants.ReviewRequired},
			{Component: "total_amount", Confidence: 0.55, Status: constants.ReviewRequired},
		}
		d, err := svc.RouteDocument("default", "doc-5", 0.65, components)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Contains(d.Flags, FlagLowAverageConfidence) {
			t.Errorf("flags = %v, want LOW_AVERAGE_CONFIDENCE", d.Flags)
		}
	})
}

func TestRouteDocumentUnknownRule(t *testing.T) {
	svc := NewService(nil, nil, nil)
	_, err := svc.RouteDocument("missing", "doc-1", 0.9, nil)
	if err == nil {
		t.Fatal("unknown rule did not error")
	}
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestStatsCollectorReceivesDecisions(t *testing.T) {
	counter := NewCounter()
	svc := NewService(nil, counter, nil)

	for _, conf := range []float64{0.95, 0.70, 0.95} {
		if _, err := svc.RouteDocument("default", "doc", conf, nil); err != nil {
			t.Fatal(err)
		}
	}

	counts := counter.Counts()
	if counts[constants.Approved] != 2 || counts[constants.ReviewRequired] != 1 {
		t.Errorf("counts = %v, want 2 approved / 1 review", counts)
	}
}
