package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	domainauth "github.com/libamlakbirhanu/chapa-dashboard/internal/domain/auth"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/domain/model"
	apperrors "github.com/libamlakbirhanu/chapa-dashboard/internal/errors"
	"github.com/libamlakbirhanu/chapa-dashboard/internal/service"
)

// UIHandlers renders the server-side views. Data flows through the same
// services (and therefore the same read cache) as the JSON API.
type UIHandlers struct {
	Renderer     *Renderer
	Cookies      CookieSettings
	Auth         *service.AuthService
	Users        *service.UserService
	Transactions *service.TransactionService
	Stats        *service.StatsService
	Logger       *slog.Logger
}

// Entry handles GET /. Authenticated visitors are redirected to their role's
// landing route; everyone else gets the login page.
func (h *UIHandlers) Entry(w http.ResponseWriter, r *http.Request) {
	if session, ok := SessionFromContext(r.Context()); ok {
		http.Redirect(w, r, session.Role.LandingPath(), http.StatusSeeOther)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "login", TemplateData{
		Title: "Sign in",
		Error: r.URL.Query().Get("error"),
	})
}

// LoginForm handles the browser login form POST.
func (h *UIHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/?error="+url.QueryEscape("Invalid form submission"), http.StatusSeeOther)
		return
	}
	res, err := h.Auth.Login(r.Context(), &model.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	})
	if err != nil {
		http.Redirect(w, r, "/?error="+url.QueryEscape(apperrors.Message(err)), http.StatusSeeOther)
		return
	}
	h.Cookies.setSession(w, res.Session)
	h.Cookies.setRemember(w, res.RememberToken)
	http.Redirect(w, r, res.Identity.Role.LandingPath(), http.StatusSeeOther)
}

// DashboardData feeds the end-user dashboard view.
type DashboardData struct {
	Wallet       *model.Wallet
	Transactions []*model.Transaction
	Stale        bool
}

// Dashboard handles GET /dashboard: wallet, send form, history.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())

	data := DashboardData{}
	wallet, walletErr := h.Transactions.Wallet(r.Context(), session.Email)
	txs, txErr := h.Transactions.Mine(r.Context(), session.Email)
	data.Wallet = wallet
	data.Transactions = txs

	// Stale-while-error: a failed refresh with a previous value still
	// renders, flagged; no value at all is a full error view.
	if walletErr != nil || txErr != nil {
		if wallet == nil && txs == nil {
			h.RenderError(w, r, http.StatusInternalServerError, "Could not load your dashboard")
			return
		}
		data.Stale = true
	}

	h.render(w, r, "dashboard", TemplateData{Title: "Dashboard", Data: data})
}

// SendForm handles the dashboard send-money form POST.
func (h *UIHandlers) SendForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectFlash(w, r, "/dashboard", "", "Invalid form submission")
		return
	}
	session, _ := SessionFromContext(r.Context())

	amount, err := strconv.ParseFloat(r.PostFormValue("amount"), 64)
	if err != nil {
		h.redirectFlash(w, r, "/dashboard", "", "Amount must be a positive number")
		return
	}
	_, err = h.Transactions.Send(r.Context(), &model.SendTransactionRequest{
		Amount: model.AmountValue(amount),
		To:     r.PostFormValue("to"),
		UserID: session.Email,
	})
	if err != nil {
		h.redirectFlash(w, r, "/dashboard", "", apperrors.Message(err))
		return
	}
	h.redirectFlash(w, r, "/dashboard", "Payment sent", "")
}

// AdminUsers handles GET /admin/users.
func (h *UIHandlers) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil && users == nil {
		h.RenderError(w, r, http.StatusInternalServerError, "Could not load users")
		return
	}
	h.render(w, r, "users", TemplateData{Title: "Users", Data: users})
}

// ToggleUserForm handles the admin users page toggle button.
func (h *UIHandlers) ToggleUserForm(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Users.ToggleActive(r.Context(), r.PathValue("id")); err != nil {
		h.redirectFlash(w, r, "/admin/users", "", apperrors.Message(err))
		return
	}
	h.redirectFlash(w, r, "/admin/users", "User updated", "")
}

// RemoveUserForm handles the admin users page remove button.
func (h *UIHandlers) RemoveUserForm(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Remove(r.Context(), r.PathValue("id")); err != nil {
		h.redirectFlash(w, r, "/admin/users", "", apperrors.Message(err))
		return
	}
	h.redirectFlash(w, r, "/admin/users", "User removed", "")
}

// AdminEmployees handles GET /admin/employees.
func (h *UIHandlers) AdminEmployees(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	employees, err := h.Users.CompanyUsers(r.Context(), session.Email)
	if err != nil && employees == nil {
		h.RenderError(w, r, http.StatusInternalServerError, "Could not load employees")
		return
	}
	h.render(w, r, "employees", TemplateData{Title: "Employees", Data: employees})
}

// AddEmployeeForm handles the employees page add-admin form POST.
func (h *UIHandlers) AddEmployeeForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectFlash(w, r, "/admin/employees", "", "Invalid form submission")
		return
	}
	_, err := h.Users.AddAdmin(r.Context(), &model.AddAdminRequest{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     domainauth.Role(r.PostFormValue("role")),
	})
	if err != nil {
		h.redirectFlash(w, r, "/admin/employees", "", apperrors.Message(err))
		return
	}
	h.redirectFlash(w, r, "/admin/employees", "Employee added", "")
}

// RemoveEmployeeForm handles the employees page remove button.
func (h *UIHandlers) RemoveEmployeeForm(w http.ResponseWriter, r *http.Request) {
	session, _ := SessionFromContext(r.Context())
	email := r.PathValue("id")
	if domainauth.SameEmail(session.Email, email) {
		h.redirectFlash(w, r, "/admin/employees", "", "Cannot remove your own account")
		return
	}
	if err := h.Users.Remove(r.Context(), email); err != nil {
		h.redirectFlash(w, r, "/admin/employees", "", apperrors.Message(err))
		return
	}
	h.redirectFlash(w, r, "/admin/employees", "Employee removed", "")
}

// PaymentSummary handles GET /admin/payment-summary.
func (h *UIHandlers) PaymentSummary(w http.ResponseWriter, r *http.Request) {
	sums, err := h.Stats.PaymentSummaries(r.Context())
	if err != nil && sums == nil {
		h.RenderError(w, r, http.StatusInternalServerError, "Could not load the payment summary")
		return
	}
	h.render(w, r, "payment_summary", TemplateData{Title: "Payment Summary", Data: sums})
}

// Statistics handles GET /admin/statistics.
func (h *UIHandlers) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Stats(r.Context())
	if err != nil && stats == nil {
		h.RenderError(w, r, http.StatusInternalServerError, "Could not load statistics")
		return
	}
	h.render(w, r, "statistics", TemplateData{Title: "Statistics", Data: stats})
}

// Unauthorized renders the terminal 403 view shown when an authenticated
// user's role is outside a route's allow-list.
func (h *UIHandlers) Unauthorized(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "unauthorized", TemplateData{Title: "Unauthorized"}, http.StatusForbidden)
}

// NotFound renders the 404 variant of the error view.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if IsAPIRequest(r) {
		WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	h.RenderError(w, r, http.StatusNotFound, "The page you are looking for does not exist")
}

// ErrorViewData feeds the error template.
type ErrorViewData struct {
	Status  int
	Message string
	Retry   string
}

// RenderError renders the error view with the offending status code and
// "go home" / "retry" affordances.
func (h *UIHandlers) RenderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, "error", TemplateData{
		Title: "Error",
		Data:  ErrorViewData{Status: status, Message: message, Retry: r.URL.Path},
	}, status)
}

// render fills the shared chrome (identity, nav, flash) and delegates to the
// template renderer.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, name string, data TemplateData, status ...int) {
	code := http.StatusOK
	if len(status) > 0 {
		code = status[0]
	}
	if session, ok := SessionFromContext(r.Context()); ok {
		id := session.Identity()
		data.Identity = &id
		data.Nav = VisibleNav(session.Role)
	}
	if data.Notice == "" {
		data.Notice = r.URL.Query().Get("notice")
	}
	if data.Error == "" {
		data.Error = r.URL.Query().Get("error")
	}
	h.Renderer.Render(w, code, name, data)
}

func (h *UIHandlers) redirectFlash(w http.ResponseWriter, r *http.Request, path, notice, errMsg string) {
	q := url.Values{}
	if notice != "" {
		q.Set("notice", notice)
	}
	if errMsg != "" {
		q.Set("error", errMsg)
	}
	target := path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
