package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/allisson/wopihost/internal/config"
)

const manifestDocument = `<?xml version="1.0" encoding="utf-8"?>
<wopi-discovery>
  <net-zone name="external-https">
    <app name="Word">
      <action name="edit" ext="docx" urlsrc="http://editor/x?&lt;ui=UI_LLCC&amp;&gt;"/>
    </app>
  </net-zone>
</wopi-discovery>`

// testConfig returns a memory-driver configuration that needs no external
// services: local file storage, a file-backed manifest, metrics disabled.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	masterKey := make([]byte, 32)
	if _, err := rand.Read(masterKey); err != nil {
		t.Fatalf("failed to generate master key: %v", err)
	}

	manifestPath := filepath.Join(t.TempDir(), "discovery.xml")
	if err := os.WriteFile(manifestPath, []byte(manifestDocument), 0o600); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	return &config.Config{
		ServerHost:            "localhost",
		ServerPort:            8080,
		PublicBaseURL:         "http://localhost:8080",
		StoreDriver:           "memory",
		LogLevel:              "error",
		DiscoveryFile:         manifestPath,
		DiscoveryNetZone:      "external-https",
		DiscoveryCacheTTL:     time.Minute,
		DiscoveryFetchTimeout: time.Second,
		LockTTL:               30 * time.Minute,
		AccessTokenExpiration: time.Hour,
		TokenMasterKey:        base64.StdEncoding.EncodeToString(masterKey),
		FileStoragePath:       t.TempDir(),
		UILanguage:            "en-US",
	}
}

// TestNewContainer verifies that a new container can be created with a valid configuration.
func TestNewContainer(t *testing.T) {
	cfg := testConfig(t)

	container := NewContainer(cfg)

	if container == nil {
		t.Fatal("expected non-nil container")
	}

	if container.Config() != cfg {
		t.Error("container config does not match provided config")
	}
}

// TestContainerLogger verifies that the logger can be retrieved from the container.
func TestContainerLogger(t *testing.T) {
	cfg := &config.Config{
		LogLevel: "debug",
	}

	container := NewContainer(cfg)
	logger := container.Logger()

	if logger == nil {
		t.Fatal("expected non-nil logger")
	}

	// Calling Logger() again should return the same instance (singleton)
	logger2 := container.Logger()
	if logger != logger2 {
		t.Error("expected same logger instance on multiple calls")
	}
}

// TestContainerDBMemoryDriver verifies that the memory driver refuses to open
// a database connection.
func TestContainerDBMemoryDriver(t *testing.T) {
	container := NewContainer(testConfig(t))

	if _, err := container.DB(); err == nil {
		t.Fatal("expected error for memory store driver")
	}

	// The stored error is returned on subsequent calls as well
	if _, err := container.DB(); err == nil {
		t.Fatal("expected stored error on repeated call")
	}
}

// TestContainerMemoryWiring verifies that the full component graph assembles
// with the memory driver.
func TestContainerMemoryWiring(t *testing.T) {
	container := NewContainer(testConfig(t))

	server, err := container.HTTPServer()
	if err != nil {
		t.Fatalf("failed to build http server: %v", err)
	}
	if server == nil {
		t.Fatal("expected non-nil http server")
	}

	// Singleton behavior across accessors
	authority, err := container.TokenAuthority()
	if err != nil {
		t.Fatalf("failed to get token authority: %v", err)
	}
	authority2, err := container.TokenAuthority()
	if err != nil {
		t.Fatalf("failed to get token authority again: %v", err)
	}
	if authority != authority2 {
		t.Error("expected same token authority instance on multiple calls")
	}

	if err := container.Shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

// TestContainerMetricsDisabled verifies that metrics components are absent
// when metrics are disabled.
func TestContainerMetricsDisabled(t *testing.T) {
	container := NewContainer(testConfig(t))

	provider, err := container.MetricsProvider()
	if err != nil {
		t.Fatalf("unexpected metrics provider error: %v", err)
	}
	if provider != nil {
		t.Error("expected nil metrics provider when metrics are disabled")
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		t.Fatalf("unexpected metrics server error: %v", err)
	}
	if metricsServer != nil {
		t.Error("expected nil metrics server when metrics are disabled")
	}
}

// TestContainerMissingMasterKey verifies that token authority construction
// fails without a master key.
func TestContainerMissingMasterKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.TokenMasterKey = ""
	container := NewContainer(cfg)

	if _, err := container.TokenAuthority(); err == nil {
		t.Fatal("expected error without a master key")
	}

	// The failure propagates to dependents
	if _, err := container.HTTPServer(); err == nil {
		t.Fatal("expected http server build to fail without a master key")
	}
}

// TestContainerUnknownStoreDriver verifies that repositories reject unknown
// store drivers.
func TestContainerUnknownStoreDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = "cassandra"
	container := NewContainer(cfg)

	if _, err := container.UserRepository(); err == nil {
		t.Fatal("expected error for unknown store driver")
	}

	if _, err := container.LockRepository(); err == nil {
		t.Fatal("expected error for unknown store driver")
	}
}

// TestContainerUnknownNetZone verifies that the discoverer rejects unknown
// net zones.
func TestContainerUnknownNetZone(t *testing.T) {
	cfg := testConfig(t)
	cfg.DiscoveryNetZone = "lunar"
	container := NewContainer(cfg)

	if _, err := container.Discoverer(); err == nil {
		t.Fatal("expected error for unknown net zone")
	}
}
