// Package stubapi is an in-memory stand-in for the backend REST surface,
// used by tests and local development. It mirrors the envelope, the
// validation semantics and the blob endpoints of the real API; it is
// not the production backend.
package stubapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/shopspring/decimal"
	"github.com/unrolled/secure"
)

// Specs lists the entities the stub serves, matching the admin's five.
func Specs() []Spec {
	return []Spec{
		{
			Entity:     "billers",
			Fields:     []string{"code", "name", "email", "phone", "company_name", "nid", "image", "address", "city", "country"},
			Required:   []string{"code", "name", "email", "phone"},
			Searchable: []string{"code", "name", "email", "company_name"},
		},
		{
			Entity:        "customers",
			Fields:        []string{"code", "name", "email", "phone", "company_name", "tax_number", "address", "postal_code", "country_id", "state_id", "city_id", "opening_balance", "credit_limit", "deposit", "reward_points"},
			Required:      []string{"code", "name", "phone"},
			Searchable:    []string{"code", "name", "email", "phone", "company_name"},
			IntFields:     []string{"country_id", "state_id", "city_id", "reward_points"},
			DecimalFields: []string{"opening_balance", "credit_limit", "deposit"},
		},
		{
			Entity:        "suppliers",
			Fields:        []string{"code", "name", "email", "phone", "company_name", "vat_number", "image", "address", "city", "country", "opening_balance"},
			Required:      []string{"code", "name", "email", "phone"},
			Searchable:    []string{"code", "name", "email", "company_name"},
			DecimalFields: []string{"opening_balance"},
		},
		{
			Entity:     "categories",
			Fields:     []string{"code", "name", "parent_id", "featured"},
			Required:   []string{"code", "name"},
			Searchable: []string{"code", "name"},
			IntFields:  []string{"parent_id"},
			BoolFields: []string{"featured"},
		},
		{
			Entity:        "units",
			Fields:        []string{"code", "name", "base_unit_id", "operator", "operation_value"},
			Required:      []string{"code", "name"},
			Searchable:    []string{"code", "name"},
			IntFields:     []string{"base_unit_id"},
			DecimalFields: []string{"operation_value"},
		},
	}
}

// Server hosts the stub surface.
type Server struct {
	logger *slog.Logger
	token  string
	tables map[string]*table
	router chi.Router
}

// New builds the stub server. A non-empty token enables bearer auth.
func New(logger *slog.Logger, token string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger: logger,
		token:  token,
		tables: make(map[string]*table),
	}

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(secureMiddleware.Handler)
	r.Use(httprate.LimitByIP(300, time.Minute))
	r.Use(s.requireToken)

	for _, spec := range Specs() {
		t := newTable(spec)
		s.tables[spec.Entity] = t
		handler := &resourceHandler{logger: logger, table: t}
		r.Route("/"+spec.Entity, handler.mount)
	}
	r.Post("/customers/{id}/deposits", s.addDeposit)

	s.router = r
	return s
}

// Handler returns the HTTP handler for the stub surface.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Seed inserts rows directly, for tests and local development.
func (s *Server) Seed(entity string, rows []map[string]string) {
	t, ok := s.tables[entity]
	if !ok {
		return
	}
	for _, row := range rows {
		t.create(row)
	}
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		if header != "Bearer "+s.token {
			fail(w, http.StatusUnauthorized, "Unauthenticated.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// addDeposit is the customer-specific mutation: it adds the amount onto
// the customer's stored deposit balance.
func (s *Server) addDeposit(w http.ResponseWriter, r *http.Request) {
	id, valid := parseID(chi.URLParam(r, "id"))
	if !valid {
		fail(w, http.StatusBadRequest, "Invalid id.")
		return
	}
	t := s.tables["customers"]
	values, err := (&resourceHandler{logger: s.logger, table: t}).readValues(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "Malformed request body.")
		return
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(values["amount"]))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		failFields(w, http.StatusUnprocessableEntity, "The given data was invalid.", map[string][]string{
			"amount": {"Deposit amount must be greater than zero."},
		})
		return
	}
	row, found := t.get(id)
	if !found {
		fail(w, http.StatusNotFound, "Record not found.")
		return
	}
	current, _ := decimal.NewFromString(stringValue(row["deposit"]))
	t.update(id, map[string]string{"deposit": current.Add(amount).String()})
	ok(w, "Deposit added.", map[string]any{"id": id})
}

func stringValue(v any) string {
	switch value := v.(type) {
	case string:
		if value == "" {
			return "0"
		}
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return "0"
	}
}
