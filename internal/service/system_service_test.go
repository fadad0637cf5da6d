package service_test

import (
	"testing"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/testutil"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/version"
)

// TestSystemService_GetVersionInfo verifies the schema version reflects the applied migrations.
func TestSystemService_GetVersionInfo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSystemService(t, db)

	info, err := svc.GetVersionInfo()
	if err != nil {
		t.Fatalf("GetVersionInfo() error = %v", err)
	}
	if info.AppVersion != version.Version {
		t.Errorf("app version = %s, want %s", info.AppVersion, version.Version)
	}
	if info.DbVersion != "2" {
		t.Errorf("db version = %s, want 2", info.DbVersion)
	}
}

func TestSystemService_CheckHealth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSystemService(t, db)

	if err := svc.CheckHealth(); err != nil {
		t.Errorf("CheckHealth() error = %v", err)
	}

	db.Close()
	if err := svc.CheckHealth(); err == nil {
		t.Error("expected error after close")
	}
}
