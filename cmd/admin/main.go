// Command admin is the headless operator console for the business
// management backend. It drives the same resource clients the web admin
// uses: cached list queries, export and import flows, bulk status
// changes and customer deposits.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/meridian-pos/meridian-admin/internal/app"
	"github.com/meridian-pos/meridian-admin/internal/entities/billers"
	"github.com/meridian-pos/meridian-admin/internal/entities/categories"
	"github.com/meridian-pos/meridian-admin/internal/entities/customers"
	"github.com/meridian-pos/meridian-admin/internal/entities/suppliers"
	"github.com/meridian-pos/meridian-admin/internal/entities/units"
	"github.com/meridian-pos/meridian-admin/internal/importexport"
	"github.com/meridian-pos/meridian-admin/internal/platform/cache"
	"github.com/meridian-pos/meridian-admin/internal/platform/rest"
	"github.com/meridian-pos/meridian-admin/internal/resource"
	"github.com/meridian-pos/meridian-admin/internal/session"
)

const usage = `usage: admin <command> <entity> [flags]

commands:
  list            list records (--page, --per-page, --search, --status, --start, --end)
  export          export records (--format, --method, --user-id, --columns, --ids)
  import          upload an import file (--file)
  import-preview  parse an import file locally (--file; no entity)
  template        download the sample import file
  bulk-status     activate or deactivate rows (--ids, --action)
  deposit         add a customer deposit (--id, --amount, --note)

entities: billers, customers, suppliers, categories, units`

// ops is the uniform command surface over one entity, closed over its
// typed client.
type ops struct {
	columns  *importexport.ColumnSet
	list     func(ctx context.Context, f resource.Filters) (any, resource.Meta, error)
	export   func(ctx context.Context, req *importexport.ExportRequest) (*rest.Blob, error)
	upload   func(ctx context.Context, filename string, file io.Reader) error
	template func(ctx context.Context) (*rest.Blob, error)
	activate func(ctx context.Context, ids []int64, active bool) (int, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	if command == "import-preview" {
		if err := runImportPreview(args); err != nil {
			logger.Error("import-preview", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	store := cache.NewStore(redisClient, cfg.CacheTTL, logger)
	api := rest.NewClient(cfg.APIBaseURL, cfg.APIToken, cfg.APITimeout, cfg.APIRetryCount, logger)
	notifier := resource.LogNotifier{Logger: logger}

	// The console is a trusted operator tool: the session resolves with
	// the full grant and the server stays the enforcement point.
	sess := session.NewState()
	sess.Resolve(1, allPermissions())

	customerClient := customers.NewClient(api, store, sess, notifier, logger)
	resources := buildResources(api, store, sess, notifier, logger, customerClient)

	switch command {
	case "list":
		err = runList(ctx, resources, args)
	case "export":
		err = runExport(ctx, cfg, resources, args)
	case "import":
		err = runImport(ctx, resources, args)
	case "template":
		err = runTemplate(ctx, cfg, resources, args)
	case "bulk-status":
		err = runBulkStatus(ctx, resources, args)
	case "deposit":
		err = runDeposit(ctx, customerClient, args)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error(command, slog.Any("error", err))
		os.Exit(1)
	}
}

func allPermissions() []string {
	return []string{
		billers.PermView, billers.PermCreate, billers.PermEdit, billers.PermDelete, billers.PermImport, billers.PermExport,
		customers.PermView, customers.PermCreate, customers.PermEdit, customers.PermDelete, customers.PermImport, customers.PermExport, customers.PermDeposit,
		suppliers.PermView, suppliers.PermCreate, suppliers.PermEdit, suppliers.PermDelete, suppliers.PermImport, suppliers.PermExport,
		categories.PermView, categories.PermCreate, categories.PermEdit, categories.PermDelete, categories.PermImport, categories.PermExport,
		units.PermView, units.PermCreate, units.PermEdit, units.PermDelete, units.PermImport, units.PermExport,
	}
}

func buildResources(api *rest.Client, store *cache.Store, sess *session.State, notifier resource.Notifier, logger *slog.Logger, customerClient *customers.Client) map[string]ops {
	b := billers.NewClient(api, store, sess, notifier, logger)
	s := suppliers.NewClient(api, store, sess, notifier, logger)
	cat := categories.NewClient(api, store, sess, notifier, logger)
	u := units.NewClient(api, store, sess, notifier, logger)

	return map[string]ops{
		billers.Entity: {
			columns: billers.Columns(),
			list: func(ctx context.Context, f resource.Filters) (any, resource.Meta, error) {
				page, err := b.List(ctx, f)
				return page.Items, page.Meta, err
			},
			export:   b.Export,
			upload:   b.Import,
			template: b.DownloadTemplate,
			activate: bulkFor(b.BulkActivate, b.BulkDeactivate),
		},
		customers.Entity: {
			columns: customers.Columns(),
			list: func(ctx context.Context, f resource.Filters) (any, resource.Meta, error) {
				page, err := customerClient.List(ctx, f)
				return page.Items, page.Meta, err
			},
			export:   customerClient.Export,
			upload:   customerClient.Import,
			template: customerClient.DownloadTemplate,
			activate: bulkFor(customerClient.BulkActivate, customerClient.BulkDeactivate),
		},
		suppliers.Entity: {
			columns: suppliers.Columns(),
			list: func(ctx context.Context, f resource.Filters) (any, resource.Meta, error) {
				page, err := s.List(ctx, f)
				return page.Items, page.Meta, err
			},
			export:   s.Export,
			upload:   s.Import,
			template: s.DownloadTemplate,
			activate: bulkFor(s.BulkActivate, s.BulkDeactivate),
		},
		categories.Entity: {
			columns: categories.Columns(),
			list: func(ctx context.Context, f resource.Filters) (any, resource.Meta, error) {
				page, err := cat.List(ctx, f)
				return page.Items, page.Meta, err
			},
			export:   cat.Export,
			upload:   cat.Import,
			template: cat.DownloadTemplate,
			activate: bulkFor(cat.BulkActivate, cat.BulkDeactivate),
		},
		units.Entity: {
			columns: units.Columns(),
			list: func(ctx context.Context, f resource.Filters) (any, resource.Meta, error) {
				page, err := u.List(ctx, f)
				return page.Items, page.Meta, err
			},
			export:   u.Export,
			upload:   u.Import,
			template: u.DownloadTemplate,
			activate: bulkFor(u.BulkActivate, u.BulkDeactivate),
		},
	}
}

func bulkFor(activate, deactivate func(context.Context, []int64) (int, error)) func(context.Context, []int64, bool) (int, error) {
	return func(ctx context.Context, ids []int64, active bool) (int, error) {
		if active {
			return activate(ctx, ids)
		}
		return deactivate(ctx, ids)
	}
}

// pickResource consumes the leading entity argument ("admin list
// billers --page 2") and returns the matching operation set plus the
// remaining flag arguments.
func pickResource(resources map[string]ops, args []string) (ops, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return ops{}, nil, errors.New("missing entity argument")
	}
	r, ok := resources[args[0]]
	if !ok {
		return ops{}, nil, fmt.Errorf("unknown entity %q", args[0])
	}
	return r, args[1:], nil
}

func runList(ctx context.Context, resources map[string]ops, args []string) error {
	r, rem, err := pickResource(resources, args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	perPage := fs.Int("per-page", 10, "rows per page")
	search := fs.String("search", "", "search term")
	status := fs.String("status", "", "active or inactive")
	start := fs.String("start", "", "start date YYYY-MM-DD")
	end := fs.String("end", "", "end date YYYY-MM-DD")
	if err := fs.Parse(rem); err != nil {
		return err
	}

	items, meta, err := r.list(ctx, resource.Filters{
		Page:      *page,
		PerPage:   *perPage,
		Search:    *search,
		Status:    *status,
		StartDate: *start,
		EndDate:   *end,
	})
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"items": items, "meta": meta})
}

func runExport(ctx context.Context, cfg *app.Config, resources map[string]ops, args []string) error {
	r, rem, err := pickResource(resources, args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", importexport.FormatExcel, "excel or pdf")
	method := fs.String("method", importexport.MethodDownload, "download or email")
	userID := fs.Int64("user-id", 0, "recipient user id for the email method")
	columns := fs.String("columns", "", "comma-separated column keys; all when empty")
	ids := fs.String("ids", "", "comma-separated row ids; full list when empty")
	start := fs.String("start", "", "start date YYYY-MM-DD")
	end := fs.String("end", "", "end date YYYY-MM-DD")
	if err := fs.Parse(rem); err != nil {
		return err
	}

	selected := r.columns
	if *columns != "" {
		selected.DeselectAll()
		for _, key := range strings.Split(*columns, ",") {
			selected.Toggle(strings.TrimSpace(key))
		}
	}
	rowIDs, err := parseIDs(*ids)
	if err != nil {
		return err
	}

	blob, err := r.export(ctx, &importexport.ExportRequest{
		IDs:       rowIDs,
		Format:    *format,
		Method:    *method,
		Columns:   selected.Selected(),
		UserID:    *userID,
		StartDate: *start,
		EndDate:   *end,
	})
	if err != nil {
		return err
	}
	if blob == nil {
		return printJSON(map[string]any{"status": "queued", "method": *method})
	}
	path, err := importexport.SaveBlob(blob, cfg.DownloadDir)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"saved": path})
}

func runImport(ctx context.Context, resources map[string]ops, args []string) error {
	r, rem, err := pickResource(resources, args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "path of the import file")
	if err := fs.Parse(rem); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("--file is required")
	}
	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.upload(ctx, filepath.Base(*file), f)
}

func runImportPreview(args []string) error {
	fs := flag.NewFlagSet("import-preview", flag.ExitOnError)
	file := fs.String("file", "", "path of the import file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" && fs.NArg() > 0 {
		*file = fs.Arg(0)
	}
	if *file == "" {
		return errors.New("--file is required")
	}
	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()
	preview, err := importexport.ParsePreview(filepath.Base(*file), f)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"headers": preview.Headers, "rows": preview.Rows})
}

func runTemplate(ctx context.Context, cfg *app.Config, resources map[string]ops, args []string) error {
	r, _, err := pickResource(resources, args)
	if err != nil {
		return err
	}
	blob, err := r.template(ctx)
	if err != nil {
		return err
	}
	path, err := importexport.SaveBlob(blob, cfg.DownloadDir)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"saved": path})
}

func runBulkStatus(ctx context.Context, resources map[string]ops, args []string) error {
	r, rem, err := pickResource(resources, args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("bulk-status", flag.ExitOnError)
	ids := fs.String("ids", "", "comma-separated row ids")
	action := fs.String("action", "activate", "activate or deactivate")
	if err := fs.Parse(rem); err != nil {
		return err
	}
	rowIDs, err := parseIDs(*ids)
	if err != nil {
		return err
	}
	if len(rowIDs) == 0 {
		return errors.New("--ids is required")
	}
	var active bool
	switch *action {
	case "activate":
		active = true
	case "deactivate":
		active = false
	default:
		return fmt.Errorf("unknown action %q", *action)
	}
	count, err := r.activate(ctx, rowIDs, active)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"action": *action, "count": count})
}

func runDeposit(ctx context.Context, client *customers.Client, args []string) error {
	fs := flag.NewFlagSet("deposit", flag.ExitOnError)
	id := fs.Int64("id", 0, "customer id")
	amount := fs.String("amount", "", "deposit amount")
	note := fs.String("note", "", "optional note")
	if err := fs.Parse(args); err != nil {
		return err
	}
	value, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q", *amount)
	}
	return client.AddDeposit(ctx, *id, customers.DepositInput{Amount: value, Note: *note})
}

func parseIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
