package ws

import (
	"os"
	"testing"

	"dmserver/internal/observability/metrics"
)

func TestMain(m *testing.M) {
	metrics.MustRegister("ws-test")
	os.Exit(m.Run())
}
