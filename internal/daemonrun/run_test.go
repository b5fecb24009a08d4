package daemonrun_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vidcat/internal/daemonrun"
	"vidcat/internal/testsupport"
)

func TestRunServesUntilCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteSampleCSV(t, cfg.Source.CSVPath)
	pidPath := filepath.Join(cfg.Paths.DataDir, daemonrun.PIDFileName)
	st := testsupport.MustOpenStore(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- daemonrun.Run(ctx, cfg, daemonrun.Options{LogLevel: "error"})
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		_, pidErr := os.Stat(pidPath)
		cat, loadErr := st.LoadCatalog(context.Background())
		if pidErr == nil && loadErr == nil && cat.Len() == 3 {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("portal never persisted the catalog: pid=%v load=%v", pidErr, loadErr)
		}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, err := os.Stat(pidPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pid file should be removed, stat err = %v", err)
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := daemonrun.Run(context.Background(), nil, daemonrun.Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}
