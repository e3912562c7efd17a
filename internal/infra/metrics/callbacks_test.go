//go:build !integration

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCallback_NormalizesLabels(t *testing.T) {
	before := testutil.ToFloat64(CallbackRequests.WithLabelValues("service_requests", "rejected"))
	ObserveCallback("Service_Requests", " Rejected ", 0.01)
	after := testutil.ToFloat64(CallbackRequests.WithLabelValues("service_requests", "rejected"))
	if after-before != 1 {
		t.Fatalf("expected one more observation, got %v", after-before)
	}

	before = testutil.ToFloat64(CallbackRequests.WithLabelValues("unknown", "bad_request"))
	ObserveCallback("", "bad_request", 0)
	if got := testutil.ToFloat64(CallbackRequests.WithLabelValues("unknown", "bad_request")) - before; got != 1 {
		t.Fatalf("empty flow should count as unknown, got %v", got)
	}
}

func TestIncInwardRejection(t *testing.T) {
	before := testutil.ToFloat64(InwardRejections.WithLabelValues("DU03"))
	IncInwardRejection("du03")
	if got := testutil.ToFloat64(InwardRejections.WithLabelValues("DU03")) - before; got != 1 {
		t.Fatalf("got %v", got)
	}
}

func TestIncInwardRejection_UnknownCodesShareLabel(t *testing.T) {
	before := testutil.ToFloat64(InwardRejections.WithLabelValues("other"))
	IncInwardRejection("X-PARTNER-42")
	IncInwardRejection("")
	if got := testutil.ToFloat64(InwardRejections.WithLabelValues("other")) - before; got != 2 {
		t.Fatalf("got %v", got)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(InwardRejections)
	var found bool
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetValue() == "X-PARTNER-42" {
					found = true
				}
			}
		}
	}
	if found {
		t.Fatal("raw partner code leaked into labels")
	}
}

func TestMustRegister_Once(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg)
	MustRegister(reg) // second call is a no-op

	if n, err := testutil.GatherAndCount(reg, "duplicate_claims_total"); err != nil || n < 0 {
		t.Fatalf("gather: %v", err)
	}
}
