package http

import (
	"net/http"

	"agrobook-backend/internal/handlers"
	"agrobook-backend/internal/health"
	"agrobook-backend/internal/middleware"
	"agrobook-backend/internal/realtime"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Auth      *middleware.AuthMiddleware
	AuthH     *handlers.AuthHandler
	UserH     *handlers.UserHandler
	PersonH   *handlers.PersonHandler
	EquipH    *handlers.EquipmentHandler
	CropH     *handlers.CropTypeHandler
	EntryH    *handlers.EntryHandler
	PaymentH  *handlers.PaymentHandler
	RazorpayH *handlers.RazorpayHandler
	TOTPH     *handlers.TOTPHandler
	ReportH   *handlers.ReportHandler
	HealthH   *health.Handler
	Hub       *realtime.Hub
}

func NewRouter(d RouterDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	// Unauthenticated surface
	r.HandleFunc("/health", d.HealthH.Basic).Methods("GET")
	r.HandleFunc("/health/ready", d.HealthH.Ready).Methods("GET")
	r.HandleFunc("/health/detailed", d.HealthH.Detailed).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/api/auth/signup", d.AuthH.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", d.AuthH.Login).Methods("POST")
	// Signature-authenticated, not token-authenticated
	r.HandleFunc("/api/online-payments/webhook", d.RazorpayH.HandleWebhook).Methods("POST")

	// Everything below requires a valid token
	api := r.PathPrefix("/api").Subrouter()
	api.Use(d.Auth.Authenticate)

	api.HandleFunc("/auth/me", d.AuthH.Me).Methods("GET")

	api.HandleFunc("/totp/setup", d.TOTPH.Setup).Methods("POST")
	api.HandleFunc("/totp/verify", d.TOTPH.Verify).Methods("POST")
	api.HandleFunc("/totp/disable", d.TOTPH.Disable).Methods("POST")

	api.HandleFunc("/persons", d.PersonH.Create).Methods("POST")
	api.HandleFunc("/persons", d.PersonH.List).Methods("GET")
	api.HandleFunc("/persons/{id:[0-9]+}", d.PersonH.Get).Methods("GET")
	api.HandleFunc("/persons/{id:[0-9]+}", d.PersonH.Update).Methods("PUT")
	api.HandleFunc("/persons/{id:[0-9]+}/statement", d.PersonH.Statement).Methods("GET")
	api.HandleFunc("/persons/{id:[0-9]+}/recalculate", d.PersonH.Recalculate).Methods("POST")

	// Reference data: everyone reads, admins mutate
	api.HandleFunc("/equipment", d.EquipH.List).Methods("GET")
	api.HandleFunc("/crop-types", d.CropH.List).Methods("GET")

	api.HandleFunc("/entries", d.EntryH.Create).Methods("POST")
	api.HandleFunc("/entries", d.EntryH.List).Methods("GET")
	api.HandleFunc("/entries/{id:[0-9]+}", d.EntryH.Get).Methods("GET")
	api.HandleFunc("/entries/{id:[0-9]+}", d.EntryH.Delete).Methods("DELETE")
	api.HandleFunc("/entries/{id:[0-9]+}/payments", d.PaymentH.ListByEntry).Methods("GET")
	api.HandleFunc("/entries/{id:[0-9]+}/online-payments", d.RazorpayH.ListByEntry).Methods("GET")

	api.HandleFunc("/payments", d.PaymentH.Create).Methods("POST")
	api.HandleFunc("/payments/entry/{id:[0-9]+}", d.PaymentH.ListByEntry).Methods("GET")
	api.HandleFunc("/payments/{id:[0-9]+}", d.PaymentH.Get).Methods("GET")
	api.HandleFunc("/payments/{id:[0-9]+}", d.PaymentH.Delete).Methods("DELETE")
	api.HandleFunc("/payments/{id:[0-9]+}/receipt", d.PaymentH.Receipt).Methods("GET")

	api.HandleFunc("/online-payments/order", d.RazorpayH.CreateOrder).Methods("POST")
	api.HandleFunc("/online-payments/verify", d.RazorpayH.VerifyPayment).Methods("POST")

	api.HandleFunc("/summary", d.EntryH.Summary).Methods("GET")
	api.HandleFunc("/reports/persons.csv", d.ReportH.PersonsCSV).Methods("GET")
	api.HandleFunc("/reports/person/{id:[0-9]+}.pdf", d.ReportH.PersonStatementPDF).Methods("GET")

	// Realtime updates for open dashboards
	api.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		d.Hub.ServeWS(w, r, middleware.UserIDFromContext(r.Context()))
	}).Methods("GET")

	// Admin-only surface
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(d.Auth.RequireAdmin)
	admin.HandleFunc("/users", d.UserH.List).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", d.UserH.Update).Methods("PUT")
	admin.HandleFunc("/login-logs", d.UserH.LoginLogs).Methods("GET")
	admin.HandleFunc("/equipment", d.EquipH.Create).Methods("POST")
	admin.HandleFunc("/equipment/{id:[0-9]+}", d.EquipH.Update).Methods("PUT")
	admin.HandleFunc("/crop-types", d.CropH.Create).Methods("POST")
	admin.HandleFunc("/crop-types/{id:[0-9]+}", d.CropH.Delete).Methods("DELETE")

	return r
}
