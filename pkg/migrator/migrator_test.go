package migrator

import (
	"testing"
	"testing/fstest"
)

func TestRun_UnknownDirection(t *testing.T) {
	err := Run("postgres://localhost:1/none?sslmode=disable", fstest.MapFS{}, Direction("sideways"))
	if err == nil {
		t.Fatal("expected error for unknown direction")
	}
}
