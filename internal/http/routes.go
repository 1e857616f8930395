package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Transactions *service.TransactionService
	Stats        *service.StatsService
	Cookies      CookieSettings
	Health       map[string]HealthChecker
	Logger       *slog.Logger
}

// NewRouter builds the full route table: the JSON API under /api plus the
// server-rendered views, each behind its role allow-list.
func NewRouter(services RouterServices) (http.Handler, error) {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer, err := NewRenderer(logger)
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		Renderer:     renderer,
		Cookies:      services.Cookies,
		Auth:         services.Auth,
		Users:        services.Users,
		Transactions: services.Transactions,
		Stats:        services.Stats,
		Logger:       logger,
	}
	guard := &Guard{Auth: services.Auth, UI: ui, Cookies: services.Cookies}

	authHandlers := &AuthHandlers{Svc: services.Auth, Cookies: services.Cookies, Logger: logger}
	userHandlers := &UserHandlers{Users: services.Users, Auth: services.Auth}
	txHandlers := &TransactionHandlers{Svc: services.Transactions}
	statsHandlers := &StatsHandlers{Svc: services.Stats}

	users := domainauth.NewRoleSet(domainauth.RoleUser)
	admins := domainauth.NewRoleSet(domainauth.RoleAdmin, domainauth.RoleSuperAdmin)
	superOnly := domainauth.NewRoleSet(domainauth.RoleSuperAdmin)

	mux := http.NewServeMux()

	// JSON API
	mux.Handle("POST /api/login", http.HandlerFunc(authHandlers.Login))
	mux.Handle("POST /api/logout", http.HandlerFunc(authHandlers.Logout))
	mux.Handle("GET /api/users/{email}", guard.RequireAuth(http.HandlerFunc(userHandlers.Rehydrate)))
	mux.Handle("GET /api/users", guard.RequireRoles(admins)(http.HandlerFunc(userHandlers.List)))
	mux.Handle("POST /api/users/{id}/toggle", guard.RequireRoles(admins)(http.HandlerFunc(userHandlers.Toggle)))
	mux.Handle("POST /api/users/{id}/remove", guard.RequireRoles(admins)(http.HandlerFunc(userHandlers.Remove)))
	mux.Handle("GET /api/company-users", guard.RequireRoles(superOnly)(http.HandlerFunc(userHandlers.CompanyUsers)))
	mux.Handle("POST /api/admins/add", guard.RequireRoles(superOnly)(http.HandlerFunc(userHandlers.AddAdmin)))
	mux.Handle("POST /api/admins/remove", guard.RequireRoles(superOnly)(http.HandlerFunc(userHandlers.RemoveAdmin)))
	mux.Handle("GET /api/wallet", guard.RequireRoles(users)(http.HandlerFunc(txHandlers.Wallet)))
	mux.Handle("GET /api/transactions", guard.RequireRoles(admins)(http.HandlerFunc(txHandlers.All)))
	mux.Handle("GET /api/transactions/mine", guard.RequireAuth(http.HandlerFunc(txHandlers.Mine)))
	mux.Handle("POST /api/transactions/send", guard.RequireRoles(users)(http.HandlerFunc(txHandlers.Send)))
	mux.Handle("GET /api/stats", guard.RequireRoles(superOnly)(http.HandlerFunc(statsHandlers.Stats)))
	mux.Handle("GET /api/payment-summary", guard.RequireRoles(admins)(http.HandlerFunc(statsHandlers.PaymentSummary)))

	// Views
	mux.Handle("GET /{$}", guard.Optional(http.HandlerFunc(ui.Entry)))
	mux.Handle("POST /login", http.HandlerFunc(ui.LoginForm))
	mux.Handle("POST /logout", http.HandlerFunc(authHandlers.Logout))
	mux.Handle("GET /dashboard", guard.RequireRoles(users)(http.HandlerFunc(ui.Dashboard)))
	mux.Handle("POST /dashboard/send", guard.RequireRoles(users)(http.HandlerFunc(ui.SendForm)))
	mux.Handle("GET /admin/users", guard.RequireRoles(admins)(http.HandlerFunc(ui.AdminUsers)))
	mux.Handle("POST /admin/users/{id}/toggle", guard.RequireRoles(admins)(http.HandlerFunc(ui.ToggleUserForm)))
	mux.Handle("POST /admin/users/{id}/remove", guard.RequireRoles(admins)(http.HandlerFunc(ui.RemoveUserForm)))
	mux.Handle("GET /admin/payment-summary", guard.RequireRoles(admins)(http.HandlerFunc(ui.PaymentSummary)))
	mux.Handle("GET /admin/employees", guard.RequireRoles(superOnly)(http.HandlerFunc(ui.AdminEmployees)))
	mux.Handle("POST /admin/employees/add", guard.RequireRoles(superOnly)(http.HandlerFunc(ui.AddEmployeeForm)))
	mux.Handle("POST /admin/employees/{id}/remove", guard.RequireRoles(superOnly)(http.HandlerFunc(ui.RemoveEmployeeForm)))
	mux.Handle("GET /admin/statistics", guard.RequireRoles(superOnly)(http.HandlerFunc(ui.Statistics)))

	mux.Handle("GET /healthz", &HealthHandler{Checks: services.Health})
	mux.Handle("HEAD /healthz", &HealthHandler{Checks: services.Health})

	// Everything unmatched gets the 404 error view (JSON on /api paths).
	mux.Handle("/", http.HandlerFunc(ui.NotFound))

	handler := Logging(logger)(mux)
	handler = Recover(logger)(handler)
	return handler, nil
}
