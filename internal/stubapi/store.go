package stubapi

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Spec describes one entity the stub serves. IntFields render as JSON
// numbers (null when blank) and BoolFields as booleans, so typed model
// fields decode the same way they would against the real backend.
type Spec struct {
	Entity     string
	Fields     []string
	Required   []string
	Searchable []string
	IntFields  []string
	BoolFields []string
	// DecimalFields stay strings on the wire but a blank becomes "0" so
	// decimal model fields always decode.
	DecimalFields []string
}

// table is the in-memory storage behind one entity.
type table struct {
	mu     sync.Mutex
	spec   Spec
	nextID int64
	rows   map[int64]map[string]any
}

func newTable(spec Spec) *table {
	return &table{spec: spec, nextID: 1, rows: make(map[int64]map[string]any)}
}

type listQuery struct {
	page      int
	perPage   int
	search    string
	status    string
	startDate string
	endDate   string
}

func (t *table) list(q listQuery) ([]map[string]any, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var matched []map[string]any
	for _, id := range ids {
		row := t.rows[id]
		if !t.matchesLocked(row, q) {
			continue
		}
		matched = append(matched, t.viewLocked(row))
	}
	total := len(matched)

	page, perPage := q.page, q.perPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	start := (page - 1) * perPage
	if start >= total {
		return []map[string]any{}, total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return matched[start:end], total
}

func (t *table) matchesLocked(row map[string]any, q listQuery) bool {
	if q.status != "" {
		active, _ := row["is_active"].(bool)
		if q.status != activeStatus(active) {
			return false
		}
	}
	if q.startDate != "" || q.endDate != "" {
		created, _ := row["created_at"].(string)
		day := created
		if len(day) >= 10 {
			day = day[:10]
		}
		if q.startDate != "" && day < q.startDate {
			return false
		}
		if q.endDate != "" && day > q.endDate {
			return false
		}
	}
	if q.search == "" {
		return true
	}
	needle := strings.ToLower(q.search)
	for _, field := range t.spec.Searchable {
		if v, _ := row[field].(string); strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func (t *table) get(id int64) (map[string]any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	return t.viewLocked(row), true
}

func (t *table) create(values map[string]string) map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked(t.createLocked(values))
}

func (t *table) createLocked(values map[string]string) map[string]any {
	now := time.Now().UTC().Format(time.RFC3339)
	row := map[string]any{
		"id":         t.nextID,
		"is_active":  true,
		"created_at": now,
		"updated_at": now,
	}
	t.nextID++
	for _, field := range t.spec.Fields {
		row[field] = values[field]
	}
	t.rows[row["id"].(int64)] = row
	return row
}

// update applies only the provided keys; absent fields stay untouched.
func (t *table) update(id int64, values map[string]string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		return false
	}
	for _, field := range t.spec.Fields {
		if v, present := values[field]; present {
			row[field] = v
		}
	}
	if v, present := values["is_active"]; present {
		row["is_active"] = v == "1" || v == "true"
	}
	row["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	return true
}

func (t *table) delete(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

func (t *table) setActive(ids []int64, active bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	for _, id := range ids {
		if row, ok := t.rows[id]; ok {
			row["is_active"] = active
			row["updated_at"] = time.Now().UTC().Format(time.RFC3339)
			count++
		}
	}
	return count
}

func (t *table) destroy(ids []int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	for _, id := range ids {
		if _, ok := t.rows[id]; ok {
			delete(t.rows, id)
			count++
		}
	}
	return count
}

// findByField returns the id of the first row whose field equals value.
func (t *table) findByField(field, value string) (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if v, _ := t.rows[id][field].(string); v == value {
			return id, true
		}
	}
	return 0, false
}

func (t *table) options() []map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	opts := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		row := t.rows[id]
		if active, _ := row["is_active"].(bool); !active {
			continue
		}
		label, _ := row["name"].(string)
		opts = append(opts, map[string]any{"value": id, "label": label})
	}
	return opts
}

// viewLocked renders a row for responses, deriving active_status from
// is_active. The flag is the only stored truth.
func (t *table) viewLocked(row map[string]any) map[string]any {
	view := make(map[string]any, len(row)+1)
	for k, v := range row {
		view[k] = v
	}
	for _, field := range t.spec.IntFields {
		raw, _ := view[field].(string)
		raw = strings.TrimSpace(raw)
		if raw == "" {
			view[field] = nil
			continue
		}
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			view[field] = n
		} else {
			view[field] = nil
		}
	}
	for _, field := range t.spec.BoolFields {
		raw, _ := view[field].(string)
		view[field] = raw == "1" || strings.EqualFold(raw, "true")
	}
	for _, field := range t.spec.DecimalFields {
		if raw, _ := view[field].(string); strings.TrimSpace(raw) == "" {
			view[field] = "0"
		}
	}
	active, _ := row["is_active"].(bool)
	view["active_status"] = activeStatus(active)
	return view
}

func (t *table) validate(values map[string]string, requireAll bool) map[string][]string {
	errors := map[string][]string{}
	for _, field := range t.spec.Required {
		v, present := values[field]
		if !present && !requireAll {
			continue
		}
		if strings.TrimSpace(v) == "" {
			errors[field] = append(errors[field], "The "+strings.ReplaceAll(field, "_", " ")+" field is required.")
		}
	}
	return errors
}

func activeStatus(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}
