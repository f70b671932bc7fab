package leave_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/leave"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/session"
	"go-leave/internal/shared/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type profileDirectory map[uuid.UUID]session.Profile

func (d profileDirectory) LookupProfile(ctx context.Context, userID uuid.UUID) (*session.Profile, error) {
	p, ok := d[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type routeDeps struct {
	engine   *gin.Engine
	tokens   *token.Manager
	calls    *int
	employer session.Profile
	employee session.Profile
}

func setupRoutes(t *testing.T) *routeDeps {
	t.Helper()
	gin.SetMode(gin.TestMode)

	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)

	employer := employerProfile()
	employee := aliceProfile()
	tokens := token.NewManager("route-secret", time.Hour)

	calls := 0
	svc := &fakeLeaveService{
		EmployerDashboardFn: func(ctx context.Context, actor session.Profile) (leave.EmployerDashboardResponse, error) {
			calls++
			return leave.EmployerDashboardResponse{Stats: leave.Stats{Total: 1, Pending: 1}}, nil
		},
	}

	guard := middleware.Guard{
		Tokens:      tokens,
		CookieName:  "access_token",
		Profiles:    profileDirectory{employer.UserID: employer, employee.UserID: employee},
		RBAC:        rbac.NewService(enforcer),
		LandingPath: "/",
	}

	engine := gin.New()
	leave.RegisterRoutes(engine, leave.NewHandler(svc, nil), guard, nil)

	return &routeDeps{engine: engine, tokens: tokens, calls: &calls, employer: employer, employee: employee}
}

func (d *routeDeps) cookieFor(t *testing.T, p session.Profile) *http.Cookie {
	t.Helper()
	raw, err := d.tokens.Issue(p.UserID, p.Username)
	assert.NoError(t, err)
	return &http.Cookie{Name: "access_token", Value: raw}
}

func TestRoutes_EmployerDashboardGate(t *testing.T) {
	t.Run("negative unauthenticated browser goes to login", func(t *testing.T) {
		deps := setupRoutes(t)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/employer-dashboard", nil)

		deps.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?next=%2Femployer-dashboard", w.Header().Get("Location"))
		assert.Equal(t, 0, *deps.calls)
	})

	t.Run("negative unauthenticated json gets 401", func(t *testing.T) {
		deps := setupRoutes(t)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/employer-dashboard", nil)
		req.Header.Set("Accept", "application/json")

		deps.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 0, *deps.calls)
	})

	t.Run("negative employee browser is sent home", func(t *testing.T) {
		deps := setupRoutes(t)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/employer-dashboard", nil)
		req.AddCookie(deps.cookieFor(t, deps.employee))

		deps.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		msgs := flashFrom(t, w)
		if assert.Len(t, msgs, 1) {
			assert.Equal(t, middleware.MsgAccessDenied, msgs[0].Text)
		}
		assert.Equal(t, 0, *deps.calls)
	})

	t.Run("negative employee json is denied", func(t *testing.T) {
		deps := setupRoutes(t)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests/"+uuid.NewString()+"/approve", nil)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.AddCookie(deps.cookieFor(t, deps.employee))

		deps.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		res := decodeAction(t, w)
		assert.False(t, res.Success)
		assert.Equal(t, middleware.MsgAccessDenied, res.Error)
	})

	t.Run("negative user without profile", func(t *testing.T) {
		deps := setupRoutes(t)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/employer-dashboard", nil)
		raw, err := deps.tokens.Issue(uuid.New(), "admin")
		assert.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: raw})

		deps.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		msgs := flashFrom(t, w)
		if assert.Len(t, msgs, 1) {
			assert.Equal(t, middleware.MsgProfileNotFound, msgs[0].Text)
		}
	})

	t.Run("success employer", func(t *testing.T) {
		deps := setupRoutes(t)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/employer-dashboard", nil)
		req.AddCookie(deps.cookieFor(t, deps.employer))

		deps.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, *deps.calls)
	})
}
