//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/loreycode/cms-api/config"
	"github.com/loreycode/cms-api/internal/db"
	"github.com/loreycode/cms-api/internal/server"
	"github.com/loreycode/cms-api/internal/services"
	"github.com/loreycode/cms-api/internal/store"
	"github.com/loreycode/cms-api/types"
)

const (
	serverPort = 18080
	password   = "testpass123"
)

var baseURL = fmt.Sprintf("http://localhost:%d", serverPort)

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	root, err := repoRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to locate repo root: %v\n", err)
		os.Exit(1)
	}

	uploadDir, err := os.MkdirTemp("", "cms-e2e-uploads")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create upload dir: %v\n", err)
		os.Exit(1)
	}
	setEnv(uploadDir)

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := dockerCompose(ctx, root, "up", "-d", "postgres"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start docker compose: %v\n", err)
		os.Exit(1)
	}

	if err := waitForPostgres(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "postgres not ready: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	if err := runMigrations(root, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	srv, err := server.New(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start server: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}
	go func() {
		_ = srv.Start()
	}()

	if err := waitForHealth(ctx, baseURL+"/healthz"); err != nil {
		fmt.Fprintf(os.Stderr, "server not healthy: %v\n", err)
		_ = srv.Shutdown(context.Background())
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	code := m.Run()

	_ = srv.Shutdown(context.Background())
	_ = dockerCompose(context.Background(), root, "down")
	_ = os.RemoveAll(uploadDir)
	os.Exit(code)
}

func TestServiceLifecycle(t *testing.T) {
	token := login(t, createAdmin(t))

	var created struct {
		Item types.Service `json:"item"`
	}
	status := call(t, http.MethodPost, "/api/admin/services", token, map[string]any{
		"title":       "Web Development",
		"description": "Sites and web apps",
		"order":       1,
	}, &created)
	if status != http.StatusOK {
		t.Fatalf("create service: status %d", status)
	}
	if created.Item.ID == "" || !created.Item.IsActive {
		t.Fatalf("unexpected created service: %+v", created.Item)
	}

	var public struct {
		Items []types.Service `json:"items"`
	}
	if status := call(t, http.MethodGet, "/api/public/services", "", nil, &public); status != http.StatusOK {
		t.Fatalf("public services: status %d", status)
	}
	if !containsService(public.Items, created.Item.ID) {
		t.Fatalf("created service missing from public list")
	}

	var updated struct {
		Item types.Service `json:"item"`
	}
	status = call(t, http.MethodPut, "/api/admin/services/"+created.Item.ID, token, map[string]any{"isActive": false}, &updated)
	if status != http.StatusOK {
		t.Fatalf("update service: status %d", status)
	}
	if updated.Item.IsActive || updated.Item.Title != "Web Development" {
		t.Fatalf("unexpected updated service: %+v", updated.Item)
	}

	call(t, http.MethodGet, "/api/public/services", "", nil, &public)
	if containsService(public.Items, created.Item.ID) {
		t.Fatalf("inactive service listed publicly")
	}

	if status := call(t, http.MethodDelete, "/api/admin/services/"+created.Item.ID, token, nil, nil); status != http.StatusOK {
		t.Fatalf("delete service: status %d", status)
	}
	if status := call(t, http.MethodGet, "/api/admin/services/"+created.Item.ID, token, nil, nil); status != http.StatusNotFound {
		t.Fatalf("expected deleted service to be missing, got %d", status)
	}
	if status := call(t, http.MethodDelete, "/api/admin/services/"+created.Item.ID, token, nil, nil); status != http.StatusOK {
		t.Fatalf("second delete: status %d", status)
	}
}

func TestPageDeleteCascadesToSections(t *testing.T) {
	token := login(t, createAdmin(t))
	slug := fmt.Sprintf("about-%d", time.Now().UnixNano())

	var page struct {
		Item types.Page `json:"item"`
	}
	if status := call(t, http.MethodPost, "/api/admin/pages", token, map[string]any{"slug": slug, "title": "About"}, &page); status != http.StatusOK {
		t.Fatalf("create page: status %d", status)
	}
	if status := call(t, http.MethodPost, "/api/admin/pages", token, map[string]any{"slug": slug, "title": "Again"}, nil); status != http.StatusConflict {
		t.Fatalf("duplicate slug: expected 409, got %d", status)
	}

	var section struct {
		Item types.Section `json:"item"`
	}
	status := call(t, http.MethodPost, "/api/admin/pages/"+page.Item.ID+"/sections", token, map[string]any{
		"title": "Intro", "type": "text", "content": "Hello",
	}, &section)
	if status != http.StatusOK {
		t.Fatalf("create section: status %d", status)
	}

	var published struct {
		Sections []types.Section `json:"sections"`
	}
	if status := call(t, http.MethodGet, "/api/public/pages/"+slug, "", nil, &published); status != http.StatusOK {
		t.Fatalf("public page: status %d", status)
	}
	if len(published.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(published.Sections))
	}

	call(t, http.MethodDelete, "/api/admin/pages/"+page.Item.ID, token, nil, nil)
	if status := call(t, http.MethodGet, "/api/admin/sections/"+section.Item.ID, token, nil, nil); status != http.StatusNotFound {
		t.Fatalf("expected section to be removed with its page, got %d", status)
	}
}

func TestSettingsAndMedia(t *testing.T) {
	token := login(t, createAdmin(t))

	var setting struct {
		Item types.SiteSetting `json:"item"`
	}
	call(t, http.MethodPut, "/api/admin/settings/site_title", token, map[string]any{"value": "New Title"}, &setting)
	call(t, http.MethodPut, "/api/admin/settings/site_title", token, map[string]any{"value": "Newer Title"}, &setting)
	if setting.Item.Value != "Newer Title" || setting.Item.Type != "text" {
		t.Fatalf("unexpected setting: %+v", setting.Item)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", "logo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte("not really a png"))
	_ = mw.Close()

	req, _ := http.NewRequest(http.MethodPost, baseURL+"/api/admin/media/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		t.Fatalf("upload status %d: %s", resp.StatusCode, msg)
	}
	var uploaded struct {
		Items []types.MediaFile `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil || len(uploaded.Items) != 1 {
		t.Fatalf("decode upload: %v (%d items)", err, len(uploaded.Items))
	}

	file, err := http.Get(baseURL + uploaded.Items[0].URL)
	if err != nil {
		t.Fatalf("fetch upload: %v", err)
	}
	data, _ := io.ReadAll(file.Body)
	_ = file.Body.Close()
	if file.StatusCode != http.StatusOK || string(data) != "not really a png" {
		t.Fatalf("unexpected upload content: %d %q", file.StatusCode, data)
	}
}

func setEnv(uploadDir string) {
	vars := map[string]string{
		"ENV":              "test",
		"JWT_SECRET":       "test-secret",
		"SERVER_PORT":      fmt.Sprintf("%d", serverPort),
		"DB_HOST":          "localhost",
		"DB_PORT":          "5432",
		"DB_USER":          "cms",
		"DB_PASSWORD":      "password",
		"DB_NAME":          "cms_db",
		"DB_USE_SSL":       "false",
		"MEDIA_BACKEND":    "local",
		"MEDIA_UPLOAD_DIR": uploadDir,
		"MQ_BACKEND":       "none",
		"RATE_LIMIT_RPS":   "0",
		"EMAIL_HOST":       "localhost",
		"EMAIL_RECIPIENT":  "owner@example.com",
	}
	for k, v := range vars {
		_ = os.Setenv(k, v)
	}
}

func createAdmin(t *testing.T) string {
	t.Helper()

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	conn, err := db.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer conn.Close()

	email := fmt.Sprintf("admin_%d@example.com", time.Now().UnixNano())
	users := services.NewUserService(store.NewUserRepository(conn))
	if _, err := users.Create(context.Background(), email, "Test Admin", types.RoleSuperAdmin, password); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	return email
}

func login(t *testing.T, email string) string {
	t.Helper()

	var parsed struct {
		Token string `json:"token"`
	}
	status := call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password}, &parsed)
	if status != http.StatusOK || parsed.Token == "" {
		t.Fatalf("login: status %d", status)
	}
	return parsed.Token
}

// call sends a JSON request and decodes the response into out when it is non-nil.
func call(t *testing.T, method, path, token string, payload, out any) int {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func containsService(items []types.Service, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func waitForPostgres(ctx context.Context, cfg config.Config) error {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		conn, err := db.Open(ctx, cfg)
		if err == nil {
			return conn.Close()
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("postgres ping timeout: %w", err)
		case <-ticker.C:
		}
	}
}

func waitForHealth(ctx context.Context, url string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			return fmt.Errorf("health check failed with status")
		case <-ticker.C:
		}
	}
}

func runMigrations(root string, cfg config.Config) error {
	migrationsURL := "file://" + filepath.Join(root, "internal", "db", "migrations")

	migrator, err := migrate.New(migrationsURL, db.URL(cfg.Database))
	if err != nil {
		return err
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func dockerCompose(ctx context.Context, root string, args ...string) error {
	composeFile := filepath.Join(root, "development", "docker-compose.yml")
	baseArgs := append([]string{"compose", "-f", composeFile}, args...)
	cmd := exec.CommandContext(ctx, "docker", baseArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}
