package observability

import (
	"math/big"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("deadswitch-a", "GET", "/health", 200, 12*time.Millisecond)
	RecordOperation("distribute", "", true)
	RecordOperation("distribute", "ledger", false)
	RecordEvent("claim_initiated", 1)
	RecordDistribution("native", big.NewInt(30))
	RecordDistribution("native", nil)

	if got := testutil.ToFloat64(custodyStatus); got != 1 {
		t.Fatalf("unexpected status gauge: %v", got)
	}
	if got := testutil.ToFloat64(custodyOperations.WithLabelValues("distribute", "failure", "ledger")); got < 1 {
		t.Fatalf("expected failure counter to be recorded, got %v", got)
	}
	if got := testutil.ToFloat64(custodyDistributed.WithLabelValues("native")); got < 30 {
		t.Fatalf("expected distributed units >= 30, got %v", got)
	}
}
