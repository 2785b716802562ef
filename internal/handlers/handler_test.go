package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/latestcomment/courtroom-game/internal/mocks"
	"github.com/latestcomment/courtroom-game/internal/models"
	"github.com/latestcomment/courtroom-game/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	app      *fiber.App
	sessions *services.SessionManager
	replies  *mocks.MockReplyGenerator
}

func newTestServer(t *testing.T, transcriber services.Transcriber, tweak func(*services.SessionOptions)) *testServer {
	t.Helper()
	opts := services.DefaultSessionOptions()
	opts.ReplyDelay = 0
	opts.WitnessChance = 0
	if tweak != nil {
		tweak(&opts)
	}
	replies := mocks.NewMockReplyGenerator(t)
	sessions := services.NewSessionManager(opts, replies, nil, services.NewRandomSource(11), zap.NewNop())

	app := fiber.New(fiber.Config{Views: html.New("../../static", ".html")})
	api := NewAPIHandler(sessions, transcriber, 16, zap.NewNop())
	Register(app, NewHandler(sessions), api, NewWebSocketHandler(sessions, 20*time.Millisecond, zap.NewNop()))
	return &testServer{app: app, sessions: sessions, replies: replies}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (ts *testServer) create(t *testing.T, mode string) models.SessionView {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/api/sessions", fiber.Map{"player": "alice", "mode": mode, "difficulty": "easy"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var view models.SessionView
	require.NoError(t, json.Unmarshal(body, &view))
	return view
}

func (ts *testServer) drain(t *testing.T, id uuid.UUID) {
	t.Helper()
	for {
		resp, _ := ts.do(t, http.MethodPost, "/api/sessions/"+id.String()+"/advance", nil)
		if resp.StatusCode == fiber.StatusConflict {
			return
		}
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	view := ts.create(t, "tutorial")
	assert.Equal(t, "alice", view.Player)
	assert.Equal(t, models.ModeTutorial, view.Mode)
	assert.Equal(t, models.StateDrainingQueue, view.State)
	assert.Equal(t, "The Missing Cookie Case", view.Case.Title)

	resp, body := ts.do(t, http.MethodGet, "/api/sessions/"+view.SessionId.String(), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"roundedScore":0`)
}

func TestCreateSessionWithoutBodyUsesDefaults(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp, body := ts.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var view models.SessionView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, models.ModeRandom, view.Mode)
	assert.Equal(t, models.DifficultyMedium, view.Difficulty)
	assert.Equal(t, "Guest", view.Player)
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp, _ := ts.do(t, http.MethodGet, "/api/sessions/"+uuid.NewString(), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodPost, "/api/sessions/not-a-uuid/advance", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmitFlow(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	ts.replies.On("GenerateReply", mock.Anything, services.RolePrompt(models.RoleOpponent, ""), mock.Anything).Return("Objection!", nil)
	ts.replies.On("GenerateReply", mock.Anything, services.RolePrompt(models.RoleJudge, ""), mock.Anything).Return("Noted.", nil)
	view := ts.create(t, "tutorial")
	path := "/api/sessions/" + view.SessionId.String()

	resp, _ := ts.do(t, http.MethodPost, path+"/submit", fiber.Map{"text": "Your Honor, I object"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, "input is refused while opening lines are pending")

	ts.drain(t, view.SessionId)
	resp, _ = ts.do(t, http.MethodPost, path+"/submit", fiber.Map{"text": "   "})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, body := ts.do(t, http.MethodPost, path+"/submit", fiber.Map{"text": "Your Honor, I object"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var after models.SessionView
	require.NoError(t, json.Unmarshal(body, &after))
	assert.Equal(t, 1, after.TurnCount)
	assert.Equal(t, models.StateDrainingQueue, after.State)

	resp, body = ts.do(t, http.MethodPost, path+"/advance", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var advanced struct {
		Message models.Message     `json:"message"`
		Session models.SessionView `json:"session"`
	}
	require.NoError(t, json.Unmarshal(body, &advanced))
	assert.Equal(t, "Objection!", advanced.Message.Content)

	resp, _ = ts.do(t, http.MethodPost, path+"/reveal", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodPost, path+"/acknowledge", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestVerdictFlowUpdatesStats(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	ts.replies.On("GenerateReply", mock.Anything, services.RolePrompt(models.RoleOpponent, ""), mock.Anything).Return("Objection!", nil)
	ts.replies.On("GenerateReply", mock.Anything, services.RolePrompt(models.RoleJudge, ""), mock.Anything).Return("Overruled.", nil)
	view := ts.create(t, "random")
	path := "/api/sessions/" + view.SessionId.String()
	ts.drain(t, view.SessionId)

	resp, _ := ts.do(t, http.MethodPost, path+"/submit", fiber.Map{"text": "Your Honor, the evidence clearly shows my client's alibi, per exhibit A."})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	ts.drain(t, view.SessionId)

	resp, body := ts.do(t, http.MethodPost, path+"/reveal", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var v models.Verdict
	require.NoError(t, json.Unmarshal(body, &v))
	assert.Equal(t, models.OutcomeWin, v.Outcome)
	assert.Equal(t, view.Case.Id, v.CaseId)

	resp, _ = ts.do(t, http.MethodPost, path+"/acknowledge", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/api/stats/alice", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var st models.Stats
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, 1, st.GamesWon)
	assert.Equal(t, 1, st.CurrentStreak)

	resp, body = ts.do(t, http.MethodPost, path+"/reset", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var fresh models.SessionView
	require.NoError(t, json.Unmarshal(body, &fresh))
	assert.NotEqual(t, view.Case.Id, fresh.Case.Id)
	assert.Zero(t, fresh.TurnCount)
}

func TestSubmitUpstreamFailureIsBadGateway(t *testing.T) {
	ts := newTestServer(t, nil, func(o *services.SessionOptions) { o.UseFallbacks = false })
	ts.replies.On("GenerateReply", mock.Anything, mock.Anything, mock.Anything).Return("", services.ErrUpstream).Once()
	view := ts.create(t, "random")
	ts.drain(t, view.SessionId)

	resp, _ := ts.do(t, http.MethodPost, "/api/sessions/"+view.SessionId.String()+"/submit", fiber.Map{"text": "Your Honor, I object"})
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	s, err := ts.sessions.Get(view.SessionId)
	require.NoError(t, err)
	assert.Equal(t, models.StateAwaitingInput, s.State())
	assert.Zero(t, s.Snapshot().TurnCount)
}

func audioRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if field != "" {
		part, err := w.CreateFormFile(field, "argument.webm")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestTranscribe(t *testing.T) {
	transcriber := mocks.NewMockTranscriber(t)
	transcriber.On("Transcribe", mock.Anything, mock.Anything, "argument.webm").Return("Your Honor, I object", nil).Once()
	ts := newTestServer(t, transcriber, nil)

	resp, err := ts.app.Test(audioRequest(t, "audio", []byte("webm")), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"text":"Your Honor, I object"}`, string(body))
}

func TestTranscribeErrors(t *testing.T) {
	failing := mocks.NewMockTranscriber(t)
	failing.On("Transcribe", mock.Anything, mock.Anything, mock.Anything).Return("", services.ErrUpstream).Once()

	tests := []struct {
		name        string
		transcriber services.Transcriber
		field       string
		content     []byte
		status      int
	}{
		{"no file", mocks.NewMockTranscriber(t), "", nil, fiber.StatusBadRequest},
		{"wrong field", mocks.NewMockTranscriber(t), "file", []byte("webm"), fiber.StatusBadRequest},
		{"not configured", nil, "audio", []byte("webm"), fiber.StatusServiceUnavailable},
		{"too large", mocks.NewMockTranscriber(t), "audio", bytes.Repeat([]byte("a"), 64), fiber.StatusRequestEntityTooLarge},
		{"upstream", failing, "audio", []byte("webm"), fiber.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.transcriber, nil)
			resp, err := ts.app.Test(audioRequest(t, tt.field, tt.content), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestPages(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp, body := ts.do(t, http.MethodGet, "/", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `<option value="hard">hard</option>`)

	form := url.Values{"name": {"alice"}, "mode": {"tutorial"}}
	req := httptest.NewRequest(http.MethodPost, "/court", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(page), "The Missing Cookie Case")
	assert.Contains(t, string(page), "Record for alice")
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	view := ts.create(t, "tutorial")

	resp, _ := ts.do(t, http.MethodGet, "/ws/"+view.SessionId.String(), nil)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	resp, body := ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

var sessionIDInPage = regexp.MustCompile(`/ws/" \+ "([0-9a-f-]{36})"`)

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestCourtPageKeepsFormValuesAfterLaterRequests(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp, page := postForm(t, ts.app, "/court", url.Values{"name": {"alice"}, "mode": {"random"}, "difficulty": {"hard"}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	m := sessionIDInPage.FindSubmatch(page)
	require.Len(t, m, 2, "session id not found in court page")
	id := string(m[1])

	for i := 0; i < 5; i++ {
		resp, _ := postForm(t, ts.app, "/court", url.Values{"name": {"zzzzz"}, "mode": {"random"}, "difficulty": {"qqqq"}})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, body := ts.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var view models.SessionView
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, "alice", view.Player)
	assert.Equal(t, models.DifficultyHard, view.Difficulty)
	assert.Equal(t, models.RulesFor(models.DifficultyHard), view.Rules)

	resp, _ = ts.do(t, http.MethodPost, "/api/sessions/"+id+"/reset", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	view = ts.sessionView(t, id)
	assert.Equal(t, models.RulesFor(models.DifficultyHard), view.Rules)
}

func TestCreateSessionFormKeepsValuesAfterLaterRequests(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp, body := postForm(t, ts.app, "/api/sessions", url.Values{"player": {"alice"}, "difficulty": {"easy"}})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created models.SessionView
	require.NoError(t, json.Unmarshal(body, &created))

	for i := 0; i < 5; i++ {
		resp, _ := postForm(t, ts.app, "/api/sessions", url.Values{"player": {"zzzzz"}, "difficulty": {"qqqq"}})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	view := ts.sessionView(t, created.SessionId.String())
	assert.Equal(t, "alice", view.Player)
	assert.Equal(t, models.DifficultyEasy, view.Difficulty)
}

func (ts *testServer) sessionView(t *testing.T, id string) models.SessionView {
	t.Helper()
	resp, body := ts.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var view models.SessionView
	require.NoError(t, json.Unmarshal(body, &view))
	return view
}
