package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/loreycode/cms-api/internal/auth"
	"github.com/loreycode/cms-api/internal/services"
	"github.com/loreycode/cms-api/internal/storage"
	"github.com/loreycode/cms-api/internal/testutil"
	"github.com/loreycode/cms-api/types"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret"
	testEmail    = "admin@example.com"
	testPassword = "secret123"
)

// harness wires the router over in-memory repositories.
type harness struct {
	t      *testing.T
	router http.Handler
	token  string

	services    *testutil.Collection[types.Service]
	courses     *testutil.Collection[types.Course]
	projects    *testutil.Collection[types.Project]
	pages       *testutil.Collection[types.Page]
	sections    *testutil.Collection[types.Section]
	media       *testutil.Collection[types.MediaFile]
	submissions *testutil.Collection[types.ContactSubmission]
	mailer      *testutil.Mailer
	uploadDir   string
}

func newHarness(t *testing.T, customize ...func(*Deps)) *harness {
	t.Helper()
	h := &harness{
		t:           t,
		services:    testutil.NewCollection[types.Service](),
		courses:     testutil.NewCollection[types.Course](),
		projects:    testutil.NewCollection[types.Project](),
		pages:       testutil.NewCollection[types.Page](),
		sections:    testutil.NewCollection[types.Section](),
		media:       testutil.NewCollection[types.MediaFile](),
		submissions: testutil.NewCollection[types.ContactSubmission](),
		mailer:      &testutil.Mailer{},
		uploadDir:   t.TempDir(),
	}

	users := services.NewUserService(testutil.NewUsers())
	admin, err := users.Create(context.Background(), testEmail, "Admin", types.RoleSuperAdmin, testPassword)
	require.NoError(t, err)

	codec := auth.NewCodec(testSecret)
	h.token, err = codec.Sign(auth.Identity{ID: admin.ID, Email: admin.Email, Name: admin.Name, Role: admin.Role})
	require.NoError(t, err)

	disk, err := storage.NewLocalDisk(h.uploadDir)
	require.NoError(t, err)

	pages := services.NewPageService(
		services.NewContentService[types.Page](h.pages, services.PageOptions, nil),
		services.NewContentService[types.Section](h.sections, services.SectionOptions, nil),
	)
	deps := Deps{
		Codec:       codec,
		Users:       users,
		Services:    services.NewContentService[types.Service](h.services, services.ServiceOptions, nil),
		Courses:     services.NewContentService[types.Course](h.courses, services.CourseOptions, nil),
		Projects:    services.NewContentService[types.Project](h.projects, services.ProjectOptions, nil),
		Pages:       pages,
		Sections:    services.NewContentService[types.Section](h.sections, services.SectionOptions, nil),
		Settings:    services.NewSettingService(testutil.NewSettings(), nil),
		Media:       services.NewMediaService(services.NewContentService[types.MediaFile](h.media, services.MediaOptions, nil), disk, nil, nil),
		Contacts:    services.NewContactService(h.submissions, h.mailer, "owner@example.com", "LoreyCode", nil, nil),
		Submissions: services.NewContentService[types.ContactSubmission](h.submissions, services.ContactOptions, nil),
		PingMessage: "pong",
	}
	for _, fn := range customize {
		fn(&deps)
	}
	h.router = NewRouter(deps)
	return h
}

// do sends body as JSON unless it is a string, which is sent verbatim.
func (h *harness) do(method, path string, body any, authed bool) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(h.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	return h.serve(req)
}

func (h *harness) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func fieldsOf(errs []FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}
