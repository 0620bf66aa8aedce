package http_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	chathttp "gochat/internal/chat/adapters/http"
	"gochat/internal/chat/adapters/http/middleware"
	"gochat/internal/chat/adapters/http/respond"
	"gochat/internal/chat/app/dto"
	"gochat/internal/chat/domain/entities"
	"gochat/internal/chat/domain/services"
	"gochat/internal/chat/resilience"
)

const (
	testUserID  = "user-1"
	testSession = "signed-session"
)

var errStoreDown = errors.New("store down")

type testServer struct {
	app   *fiber.App
	auth  *mockAuthUseCase
	chats *mockChatUseCase
}

func newTestServer(t *testing.T, cfg chathttp.RouterConfig) *testServer {
	t.Helper()
	s := &testServer{
		app:   fiber.New(),
		auth:  new(mockAuthUseCase),
		chats: new(mockChatUseCase),
	}
	chathttp.SetupRouter(s.app, cfg, s.auth, s.chats)
	t.Cleanup(func() {
		s.auth.AssertExpectations(t)
		s.chats.AssertExpectations(t)
	})
	return s
}

func (s *testServer) authenticated() {
	s.auth.On("WhoAmI", mock.Anything, testSession).Return(testUserID, true)
}

func (s *testServer) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: services.SessionCookieName, Value: testSession})
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == services.SessionCookieName {
			return c
		}
	}
	t.Fatalf("response has no %q cookie", services.SessionCookieName)
	return nil
}

func TestSignup(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	t.Run("успешная регистрация выдает cookie", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{SecureCookie: true})
		s.auth.On("Register", mock.Anything, "a@x.com", "Passw0rd").Return(&services.AuthResult{
			UserID:  testUserID,
			Session: services.Credential{Value: testSession, ExpiresAt: expires},
		}, nil)

		resp := s.do(t, jsonRequest(http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"Passw0rd"}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, dto.Response{Success: true}, decode[dto.Response](t, resp))

		cookie := sessionCookie(t, resp)
		assert.Equal(t, testSession, cookie.Value)
		assert.Equal(t, "/", cookie.Path)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		assert.True(t, expires.Equal(cookie.Expires))
	})

	t.Run("ошибки регистрации", func(t *testing.T) {
		tests := []struct {
			name    string
			err     error
			status  int
			message string
		}{
			{"уже зарегистрирован", services.ErrEmailAlreadyExists, http.StatusConflict, respond.MessageAlreadyRegistered},
			{"политика пароля", services.ErrPasswordTooShort, http.StatusBadRequest, services.ErrPasswordTooShort.Error()},
			{"домен запрещен", services.ErrEmailDomainNotAllowed, http.StatusBadRequest, respond.MessageDomainNotAllowed},
			{"политики недоступны", services.ErrPolicyUnavailable, http.StatusInternalServerError, respond.MessagePolicyUnavailable},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s := newTestServer(t, chathttp.RouterConfig{})
				s.auth.On("Register", mock.Anything, "a@x.com", "Passw0rd").Return(nil, tt.err)

				resp := s.do(t, jsonRequest(http.MethodPost, "/auth/signup", `{"email":"a@x.com","password":"Passw0rd"}`))

				assert.Equal(t, tt.status, resp.StatusCode)
				assert.Equal(t, dto.Response{Message: tt.message}, decode[dto.Response](t, resp))
				assert.Empty(t, resp.Header.Values("Set-Cookie"))
			})
		}
	})

	t.Run("проверка тела запроса", func(t *testing.T) {
		tests := []struct {
			name    string
			body    string
			message string
		}{
			{"пустой email", `{"email":"","password":"x"}`, respond.MessageFieldsRequired},
			{"пустой пароль", `{"email":"a@x.com"}`, respond.MessageFieldsRequired},
			{"email из одних пробелов", `{"email":"   ","password":"x"}`, respond.MessageFieldsRequired},
			{"оба поля пусты", `{}`, respond.MessageFieldsRequired},
			{"некорректный email", `{"email":"not-an-email","password":"x"}`, respond.MessageInvalidEmail},
			{"битый JSON", `{"email":`, respond.MessageInvalidRequest},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s := newTestServer(t, chathttp.RouterConfig{})

				resp := s.do(t, jsonRequest(http.MethodPost, "/auth/signup", tt.body))

				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
				assert.Equal(t, tt.message, decode[dto.Response](t, resp).Message)
				s.auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("успешный вход", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})
		s.auth.On("Login", mock.Anything, "a@x.com", "Passw0rd").Return(&services.AuthResult{
			UserID:  testUserID,
			Session: services.Credential{Value: testSession, ExpiresAt: time.Now().Add(time.Hour)},
		}, nil)

		resp := s.do(t, jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"Passw0rd"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, testSession, sessionCookie(t, resp).Value)
		assert.False(t, sessionCookie(t, resp).Secure)
	})

	t.Run("пробелы вокруг email", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})
		s.auth.On("Login", mock.Anything, "a@x.com", "Passw0rd").Return(&services.AuthResult{
			UserID:  testUserID,
			Session: services.Credential{Value: testSession, ExpiresAt: time.Now().Add(time.Hour)},
		}, nil)

		resp := s.do(t, jsonRequest(http.MethodPost, "/auth/login", `{"email":"  a@x.com ","password":"Passw0rd"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, testSession, sessionCookie(t, resp).Value)
	})

	t.Run("неверные данные", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})
		s.auth.On("Login", mock.Anything, "a@x.com", "wrong").Return(nil, services.ErrInvalidCredentials)

		resp := s.do(t, jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong"}`))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, dto.Response{Message: respond.MessageInvalidCredentials}, decode[dto.Response](t, resp))
	})

	t.Run("учетная запись заблокирована", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})
		s.auth.On("Login", mock.Anything, "a@x.com", "Passw0rd").Return(nil, services.ErrAccountLocked)

		resp := s.do(t, jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"Passw0rd"}`))

		assert.Equal(t, http.StatusLocked, resp.StatusCode)
		body := decode[dto.Response](t, resp)
		assert.True(t, body.Locked)
		assert.False(t, body.Success)
	})
}

func TestLogoutClearsCookie(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			s := newTestServer(t, chathttp.RouterConfig{})
			s.auth.On("Logout", mock.Anything).Return(services.Credential{ExpiresAt: time.Unix(0, 0)})

			resp := s.do(t, httptest.NewRequest(method, "/auth/logout", nil))

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			cookie := sessionCookie(t, resp)
			assert.Empty(t, cookie.Value)
			assert.True(t, cookie.Expires.Before(time.Now()))
		})
	}
}

func TestMe(t *testing.T) {
	t.Run("с сессией", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})
		s.authenticated()

		resp := s.do(t, withSession(httptest.NewRequest(http.MethodGet, "/auth/me", nil)))

		assert.True(t, decode[dto.AuthStatusResponse](t, resp).Authenticated)
	})

	t.Run("недействительная сессия", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})
		s.auth.On("WhoAmI", mock.Anything, testSession).Return("", false)

		resp := s.do(t, withSession(httptest.NewRequest(http.MethodGet, "/auth/me", nil)))

		assert.False(t, decode[dto.AuthStatusResponse](t, resp).Authenticated)
	})

	t.Run("без cookie", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})

		resp := s.do(t, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

		assert.False(t, decode[dto.AuthStatusResponse](t, resp).Authenticated)
		s.auth.AssertNotCalled(t, "WhoAmI", mock.Anything, mock.Anything)
	})
}

func TestPolicy(t *testing.T) {
	t.Run("документ", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})
		policy := &entities.Policy{Login: entities.LoginPolicy{MaxAttempts: 5, LockoutMinutes: 15}}
		s.auth.On("Policy", mock.Anything).Return(policy, nil)

		resp := s.do(t, httptest.NewRequest(http.MethodGet, "/auth/policy", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, *policy, decode[entities.Policy](t, resp))
	})

	t.Run("недоступен", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})
		s.auth.On("Policy", mock.Anything).Return(nil, services.ErrPolicyUnavailable)

		resp := s.do(t, httptest.NewRequest(http.MethodGet, "/auth/policy", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestCheckKey(t *testing.T) {
	for _, key := range []string{"", "sk-test"} {
		s := newTestServer(t, chathttp.RouterConfig{AgentAPIKey: key})

		resp := s.do(t, httptest.NewRequest(http.MethodGet, "/check-open-ai-key", nil))

		assert.Equal(t, key != "", decode[dto.Response](t, resp).Success)
	}
}

func TestChats(t *testing.T) {
	t.Run("анонимный список", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})

		resp := s.do(t, httptest.NewRequest(http.MethodGet, "/api/chats", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(raw))
	})

	t.Run("список пользователя", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})
		s.authenticated()
		chats := []entities.Chat{{ID: "c2", UserID: testUserID, Title: "second"}}
		s.chats.On("ListChats", mock.Anything, testUserID).Return(chats, nil)

		resp := s.do(t, withSession(httptest.NewRequest(http.MethodGet, "/api/chats", nil)))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		got := decode[[]entities.Chat](t, resp)
		require.Len(t, got, 1)
		assert.Equal(t, "c2", got[0].ID)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})
		s.authenticated()
		s.chats.On("ListChats", mock.Anything, testUserID).Return(nil, errStoreDown)

		resp := s.do(t, withSession(httptest.NewRequest(http.MethodGet, "/api/chats", nil)))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.NotContains(t, decode[dto.Response](t, resp).Message, errStoreDown.Error())
	})

	t.Run("создание", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})
		s.authenticated()
		s.chats.On("CreateChat", mock.Anything, testUserID, "plans").
			Return(&entities.Chat{ID: "c3", UserID: testUserID, Title: "plans"}, nil)

		resp := s.do(t, withSession(jsonRequest(http.MethodPost, "/api/chats", `{"title":"plans"}`)))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "c3", decode[entities.Chat](t, resp).ID)
	})

	t.Run("создание без сессии", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})

		resp := s.do(t, jsonRequest(http.MethodPost, "/api/chats", `{"title":"plans"}`))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, respond.MessageNotAuthenticated, decode[dto.Response](t, resp).Message)
		s.chats.AssertNotCalled(t, "CreateChat", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandoff(t *testing.T) {
	type seen struct {
		path   string
		userID string
		chatID string
	}
	received := make(chan seen, 1)
	agentServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- seen{path: r.URL.RequestURI(), userID: r.Header.Get("X-User-ID"), chatID: r.Header.Get("X-Chat-ID")}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "agent reply")
	}))
	t.Cleanup(agentServer.Close)

	cfg := chathttp.RouterConfig{AgentURL: agentServer.URL + "/"}

	t.Run("анонимный запрос", func(t *testing.T) {
		s := newTestServer(t, cfg)

		resp := s.do(t, httptest.NewRequest(http.MethodPost, "/chat/stream", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, map[string]string{"error": respond.MessageNotAuthenticated}, decode[map[string]string](t, resp))
	})

	t.Run("нет идентификатора чата", func(t *testing.T) {
		s := newTestServer(t, cfg)
		s.authenticated()

		resp := s.do(t, withSession(httptest.NewRequest(http.MethodPost, "/chat/stream", nil)))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("идентификатор из заголовка", func(t *testing.T) {
		s := newTestServer(t, cfg)
		s.authenticated()
		s.chats.On("EnsureChat", mock.Anything, testUserID, "chat-9", "Trip").
			Return(&entities.Chat{ID: "chat-9", UserID: testUserID}, nil)

		req := withSession(httptest.NewRequest(http.MethodPost, "/chat/stream?x=1", nil))
		req.Header.Set("chatId", "chat-9")
		req.Header.Set("title", "Trip")
		req.Header.Set("X-User-ID", "spoofed")
		resp := s.do(t, req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "agent reply", string(body))

		got := <-received
		assert.Equal(t, "/chat/stream?x=1", got.path)
		assert.Equal(t, testUserID, got.userID)
		assert.Equal(t, "chat-9", got.chatID)
	})

	t.Run("идентификатор из параметра _pk", func(t *testing.T) {
		s := newTestServer(t, cfg)
		s.authenticated()
		s.chats.On("EnsureChat", mock.Anything, testUserID, "chat-7", "").
			Return(&entities.Chat{ID: "chat-7", UserID: testUserID}, nil)

		resp := s.do(t, withSession(httptest.NewRequest(http.MethodGet, "/history?_pk=chat-7", nil)))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "chat-7", (<-received).chatID)
	})

	t.Run("чужой чат", func(t *testing.T) {
		s := newTestServer(t, cfg)
		s.authenticated()
		s.chats.On("EnsureChat", mock.Anything, testUserID, "chat-5", "").Return(nil, entities.ErrChatForbidden)

		req := withSession(httptest.NewRequest(http.MethodGet, "/history", nil))
		req.Header.Set("chatId", "chat-5")
		resp := s.do(t, req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Empty(t, received)
	})

	t.Run("слишком длинный идентификатор чата", func(t *testing.T) {
		s := newTestServer(t, cfg)
		s.authenticated()
		longID := strings.Repeat("c", entities.MaxChatIDLength+1)
		s.chats.On("EnsureChat", mock.Anything, testUserID, longID, "").Return(nil, entities.ErrChatIDTooLong)

		req := withSession(httptest.NewRequest(http.MethodGet, "/history", nil))
		req.Header.Set("chatId", longID)
		resp := s.do(t, req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, received)
	})

	t.Run("агент не настроен", func(t *testing.T) {
		s := newTestServer(t, chathttp.RouterConfig{})
		s.authenticated()

		req := withSession(httptest.NewRequest(http.MethodGet, "/history", nil))
		req.Header.Set("chatId", "chat-5")
		resp := s.do(t, req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestHandoffCircuitBreaker(t *testing.T) {
	var hits atomic.Int32
	agentServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(agentServer.Close)

	s := newTestServer(t, chathttp.RouterConfig{
		AgentURL: agentServer.URL,
		AgentBreaker: resilience.CircuitBreakerConfig{
			ErrorThreshold:   2,
			Timeout:          time.Hour,
			SuccessThreshold: 1,
		},
	})
	s.authenticated()
	s.chats.On("EnsureChat", mock.Anything, testUserID, "chat-1", "").
		Return(&entities.Chat{ID: "chat-1", UserID: testUserID}, nil)

	request := func() *http.Request {
		req := withSession(httptest.NewRequest(http.MethodGet, "/history", nil))
		req.Header.Set("chatId", "chat-1")
		return req
	}

	for range 2 {
		assert.Equal(t, http.StatusInternalServerError, s.do(t, request()).StatusCode, "agent errors pass through")
	}

	resp := s.do(t, request())
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(2), hits.Load(), "open circuit must not reach the agent")
}

func TestRequestIDAndRecovery(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	app.Get("/panic", func(fiber.Ctx) error { panic("boom") })

	t.Run("идентификатор запроса сохраняется", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/panic", nil)
		req.Header.Set(middleware.HeaderRequestID, "req-77")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, "req-77", resp.Header.Get(middleware.HeaderRequestID))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("идентификатор генерируется", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.NotEmpty(t, resp.Header.Get(middleware.HeaderRequestID))
	})
}
