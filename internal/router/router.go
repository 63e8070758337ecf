package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/PastorStudio/geminiaicrm-sub005/internal/auth"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/handlers"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/middleware"
	"github.com/PastorStudio/geminiaicrm-sub005/internal/realtime"
)

type Router struct {
	api     *handlers.API
	auth    *auth.Service
	limiter *middleware.RateLimiter
	origin  string
	hub     *realtime.Hub
}

func New(api *handlers.API, authService *auth.Service, limiter *middleware.RateLimiter, origin string, hub *realtime.Hub) *Router {
	return &Router{api: api, auth: authService, limiter: limiter, origin: origin, hub: hub}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if middleware.HandleCORS(w, r, rt.origin) {
		return
	}
	middleware.SecurityHeaders(w)

	path := strings.TrimSuffix(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	if requiresAuth(path) {
		user, err := middleware.Authenticate(r, rt.auth)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("{\"error\":\"unauthorized\"}"))
			return
		}
		if rt.limiter != nil {
			key := "user:" + strconv.FormatInt(user.ID, 10)
			if !rt.limiter.Allow(key) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte("{\"error\":\"rate limit exceeded\"}"))
				return
			}
		}
		if err := middleware.ValidateCSRF(r, user); err != nil {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("{\"error\":\"invalid csrf token\"}"))
			return
		}
		r = r.WithContext(auth.WithUser(r.Context(), user))
	} else if rt.limiter != nil {
		key := middleware.ClientKey(r)
		if !rt.limiter.Allow(key) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("{\"error\":\"rate limit exceeded\"}"))
			return
		}
	}

	switch {
	case path == "/api/v1/auth/login":
		if r.Method == http.MethodPost {
			rt.api.Login(w, r)
			return
		}
	case path == "/api/v1/auth/register":
		if r.Method == http.MethodPost {
			rt.api.Register(w, r)
			return
		}
	case path == "/api/v1/auth/me":
		if r.Method == http.MethodGet {
			rt.api.Me(w, r)
			return
		}
	case path == "/api/v1/ws":
		if r.Method == http.MethodGet && rt.hub != nil {
			user, err := middleware.Authenticate(r, rt.auth)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte("{\"error\":\"unauthorized\"}"))
				return
			}
			realtime.ServeWS(w, r, rt.hub, user.ID)
			return
		}
	case path == "/api/v1/leads":
		if r.Method == http.MethodGet {
			rt.api.ListLeads(w, r)
			return
		}
	case path == "/api/v1/leads/organize":
		if r.Method == http.MethodPost {
			rt.api.OrganizeLeads(w, r)
			return
		}
	case strings.HasPrefix(path, "/api/v1/leads/"):
		segments := strings.Split(strings.TrimPrefix(path, "/api/v1/leads/"), "/")
		id, ok := handlers.ParseID(segments[0])
		if !ok {
			break
		}
		switch {
		case len(segments) == 1 && r.Method == http.MethodGet:
			rt.api.GetLead(w, r, id)
			return
		case len(segments) == 2 && segments[1] == "messages" && r.Method == http.MethodGet:
			rt.api.LeadMessages(w, r, id)
			return
		case len(segments) == 2 && segments[1] == "activities" && r.Method == http.MethodGet:
			rt.api.LeadActivities(w, r, id)
			return
		case len(segments) == 2 && segments[1] == "advance" && r.Method == http.MethodPost:
			rt.api.AdvanceLead(w, r, id)
			return
		}
	case path == "/api/v1/analysis":
		if r.Method == http.MethodPost {
			rt.api.AnalyzeConversation(w, r)
			return
		}
	case path == "/api/v1/auto-response":
		if r.Method == http.MethodPost {
			rt.api.AutoResponse(w, r)
			return
		}
	case path == "/api/v1/tickets/classify":
		if r.Method == http.MethodPost {
			rt.api.ClassifyTicket(w, r)
			return
		}
	case path == "/api/v1/messages/reply":
		if r.Method == http.MethodPost {
			rt.api.ReplyMessage(w, r)
			return
		}
	case path == "/api/v1/dashboard":
		if r.Method == http.MethodGet {
			rt.api.GetDashboard(w, r)
			return
		}
	case path == "/api/v1/providers":
		switch r.Method {
		case http.MethodGet:
			rt.api.ListProviders(w, r)
			return
		case http.MethodPost:
			rt.api.CreateProvider(w, r)
			return
		}
	case path == "/api/v1/whatsapp/qr":
		if r.Method == http.MethodGet || r.Method == http.MethodPost {
			rt.api.StartWhatsAppAuth(w, r)
			return
		}
	case path == "/api/v1/whatsapp/status":
		if r.Method == http.MethodGet {
			rt.api.WhatsAppAuthStatus(w, r)
			return
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("{\"error\":\"not found\"}"))
}

func requiresAuth(path string) bool {
	switch path {
	case "/api/v1/auth/login", "/api/v1/auth/register":
		return false
	default:
		return strings.HasPrefix(path, "/api/v1/")
	}
}
