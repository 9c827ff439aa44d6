package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/kanzlei/internal/models"
	"github.com/mmynk/kanzlei/internal/query"
	"github.com/mmynk/kanzlei/pkg/apiclient"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

const dateLayout = "2006-01-02"

type listFlags struct {
	server  string
	token   string
	output  string
	params  query.Params
	filters []string
	desc    bool
}

func newListCmd() *cobra.Command {
	f := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records from a running server",
		Example: `  kanzlei list documents --query bilanz --filter status=Draft --sort deadline
  kanzlei list clients --filter type=Gewerbe --page 2 --page-size 12
  kanzlei list templates --from 2025-01-01 --to 2025-12-31 -o json`,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&f.server, "server", envOr("KANZLEI_SERVER", "http://localhost:8080"), "server URL")
	flags.StringVar(&f.token, "token", os.Getenv("KANZLEI_TOKEN"), "session token (default $KANZLEI_TOKEN)")
	flags.StringVarP(&f.output, "output", "o", "table", "table or json")
	flags.StringVarP(&f.params.Query, "query", "q", "", "free-text search")
	flags.StringArrayVar(&f.filters, "filter", nil, "name=value filter, repeatable")
	flags.StringVar(&f.params.From, "from", "", "start of the date range (YYYY-MM-DD)")
	flags.StringVar(&f.params.To, "to", "", "end of the date range (YYYY-MM-DD)")
	flags.IntVar(&f.params.Page, "page", 0, "page number")
	flags.IntVar(&f.params.PageSize, "page-size", 0, "records per page")
	flags.StringVar(&f.params.SortBy, "sort", "", "sort key")
	flags.BoolVar(&f.desc, "desc", false, "sort descending")

	cmd.AddCommand(
		listSubcommand("documents", "List documents", f, listDocuments),
		listSubcommand("clients", "List clients", f, listClients),
		listSubcommand("templates", "List templates", f, listTemplates),
		listSubcommand("work-orders", "List work orders", f, listWorkOrders),
	)
	return cmd
}

type lister func(ctx context.Context, c *apiclient.Client, params query.Params, w io.Writer, asJSON bool) error

func listSubcommand(use, short string, f *listFlags, run lister) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := f.queryParams()
			if err != nil {
				return err
			}
			switch f.output {
			case "table", "json":
			default:
				return fmt.Errorf("unknown output format %q", f.output)
			}
			c := apiclient.New(f.server, apiclient.WithToken(f.token))
			return run(cmd.Context(), c, params, cmd.OutOrStdout(), f.output == "json")
		},
	}
}

func (f *listFlags) queryParams() (query.Params, error) {
	p := f.params
	if f.desc {
		p.SortDir = query.SortDesc
	}
	for _, kv := range f.filters {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return p, fmt.Errorf("invalid filter %q, want name=value", kv)
		}
		if p.Filters == nil {
			p.Filters = make(map[string][]string)
		}
		p.Filters[name] = append(p.Filters[name], value)
	}
	return p, nil
}

func listDocuments(ctx context.Context, c *apiclient.Client, params query.Params, w io.Writer, asJSON bool) error {
	return render(ctx, c.DocumentList(), params, w, asJSON,
		"NAME\tSTATUS\tOWNER\tDEADLINE\tMODIFIED",
		func(d *models.Document) string {
			return strings.Join([]string{d.Name, string(d.Status), d.Owner, date(d.Deadline), d.ModifiedAt.Format(dateLayout)}, "\t")
		})
}

func listClients(ctx context.Context, c *apiclient.Client, params query.Params, w io.Writer, asJSON bool) error {
	return render(ctx, c.ClientList(), params, w, asJSON,
		"NAME\tTYPE\tLEGAL FORM\tCITY\tADVISOR",
		func(cl *models.Client) string {
			return strings.Join([]string{cl.DisplayName(), string(cl.Type), string(cl.LegalFormValue()), cl.Address.City, cl.AdvisorName}, "\t")
		})
}

func listTemplates(ctx context.Context, c *apiclient.Client, params query.Params, w io.Writer, asJSON bool) error {
	return render(ctx, c.TemplateList(), params, w, asJSON,
		"TITLE\tTYPE\tCREATOR\tCREATED\tFILE",
		func(t *models.Template) string {
			return strings.Join([]string{t.Title, string(t.Type), t.Creator, t.CreatedAt.Format(dateLayout), t.FileName}, "\t")
		})
}

func listWorkOrders(ctx context.Context, c *apiclient.Client, params query.Params, w io.Writer, asJSON bool) error {
	return render(ctx, c.WorkOrderList(), params, w, asJSON,
		"TITLE\tSTATUS\tPRIORITY\tDUE",
		func(o *models.WorkOrder) string {
			return strings.Join([]string{o.Title, string(o.Status), string(o.Priority), date(o.DueDate)}, "\t")
		})
}

func render[T any](ctx context.Context, list *apiclient.Collection[T], params query.Params, w io.Writer, asJSON bool, header string, row func(T) string) error {
	if err := list.Fetch(ctx, params); err != nil {
		return fmt.Errorf("%s: %w", list.State().Error, err)
	}
	state := list.State()

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(query.Result[T]{
			Items:    state.Items,
			Page:     state.Page,
			PageSize: state.PageSize,
			Total:    state.Total,
		})
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, item := range state.Items {
		fmt.Fprintln(tw, row(item))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nPage %d, %d of %d shown\n", state.Page, len(state.Items), state.Total)
	return nil
}

func date(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
