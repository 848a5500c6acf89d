package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"mealcatalog/internal/catalog"
	"mealcatalog/internal/config"
	"mealcatalog/internal/logging"
	"mealcatalog/internal/model"
	"mealcatalog/internal/service"
	"mealcatalog/internal/source"
)

// Output formats
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

type queryOptions struct {
	file     string
	url      string
	timeout  time.Duration
	logLevel string

	query      string
	category   string
	minPrice   float64
	maxPrice   float64
	rating     float64
	delivery   int
	experience int
	sortBy     string
	order      string

	pages          int
	pageSize       int
	noNameFallback bool
	unified        bool
	output         string
}

func newRootCmd() *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "mealquery",
		Short: "Search, filter, sort and page a meal catalog",
		Long: `mealquery loads meals from a storefront feed (--url) or a JSON/YAML
fixture (--file) and prints the window the storefront would show.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.file, "file", "", "JSON or YAML file with meals")
	pf.StringVar(&opts.url, "url", "", "meal listing endpoint")
	pf.DurationVar(&opts.timeout, "timeout", 15*time.Second, "fetch timeout for --url")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.output, "output", "o", outputTable, "output format: table, json or yaml")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
	cmd.MarkFlagsOneRequired("file", "url")

	f := cmd.Flags()
	f.StringVar(&opts.query, "q", "", "search term matched against name, chef and ingredients")
	f.StringVar(&opts.category, "category", "", "category, or All")
	f.Float64Var(&opts.minPrice, "min-price", 0, "minimum price")
	f.Float64Var(&opts.maxPrice, "max-price", 0, "maximum price")
	f.Float64Var(&opts.rating, "rating", 0, "minimum rating (3, 3.5, 4 or 4.5)")
	f.IntVar(&opts.delivery, "delivery", 0, "maximum delivery minutes (15, 30, 45 or 60)")
	f.IntVar(&opts.experience, "experience", 0, "minimum chef experience years (1, 3, 5 or 10)")
	f.StringVar(&opts.sortBy, "sort", string(model.SortByName), "sort key: name, price, rating or deliveryMinutes")
	f.StringVar(&opts.order, "order", string(model.SortAsc), "sort order: asc or desc")
	f.IntVar(&opts.pages, "pages", 1, "number of loaded pages")
	f.IntVar(&opts.pageSize, "page-size", catalog.DefaultPageSize, "meals per page")
	f.BoolVar(&opts.noNameFallback, "no-name-fallback", false, "match categories on the category field only")
	f.BoolVar(&opts.unified, "unified-defaults", false, "sort missing ratings and delivery times with the filter defaults")

	cmd.AddCommand(newMetadataCmd(opts))
	return cmd
}

func newMetadataCmd(opts *queryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Print the categories, price range and filter options of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadCatalog(cmd.Context(), opts, catalog.DefaultOptions())
			if err != nil {
				return err
			}
			return writeMetadata(cmd.OutOrStdout(), opts.output, svc.Metadata())
		},
	}
}

func runQuery(cmd *cobra.Command, opts *queryOptions) error {
	filters, err := opts.filterState(cmd)
	if err != nil {
		return err
	}

	engineOpts := catalog.DefaultOptions()
	engineOpts.CategoryNameFallback = !opts.noNameFallback
	engineOpts.UnifiedDefaults = opts.unified
	if opts.pageSize > 0 {
		engineOpts.PageSize = opts.pageSize
	}

	svc, err := loadCatalog(cmd.Context(), opts, engineOpts)
	if err != nil {
		return err
	}

	view, err := svc.View(filters, opts.pages, opts.pageSize)
	if err != nil {
		return err
	}
	return writeView(cmd.OutOrStdout(), opts.output, view)
}

// filterState builds the filters from the flags the user actually set
func (o *queryOptions) filterState(cmd *cobra.Command) (model.FilterState, error) {
	f := model.DefaultFilterState()
	f.SearchTerm = o.query
	if o.category != "" {
		f.Category = model.StringPtr(o.category)
	}

	flags := cmd.Flags()
	if flags.Changed("min-price") {
		f.PriceRange.Min = model.Float64Ptr(o.minPrice)
	}
	if flags.Changed("max-price") {
		f.PriceRange.Max = model.Float64Ptr(o.maxPrice)
	}
	if flags.Changed("rating") {
		f.RatingFloor = model.Float64Ptr(o.rating)
	}
	if flags.Changed("delivery") {
		f.DeliveryCeiling = model.IntPtr(o.delivery)
	}
	if flags.Changed("experience") {
		f.ExperienceFloor = model.IntPtr(o.experience)
	}

	var err error
	if f.SortKey, err = model.ParseSortKey(o.sortBy); err != nil {
		return f, err
	}
	if f.SortDirection, err = model.ParseSortDirection(o.order); err != nil {
		return f, err
	}
	return f, nil
}

func loadCatalog(ctx context.Context, opts *queryOptions, engineOpts catalog.Options) (*service.CatalogService, error) {
	switch opts.output {
	case outputTable, outputJSON, outputYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q (want table, json or yaml)", opts.output)
	}

	logger, err := logging.New(config.LoggingConfig{Level: opts.logLevel, Format: "console"})
	if err != nil {
		return nil, err
	}
	defer logger.Sync() //nolint:errcheck

	var src source.MealSource
	switch {
	case opts.file != "":
		src = source.NewFileSource(opts.file)
	case opts.url != "":
		src = source.NewHTTPSource(opts.url, opts.timeout)
	default:
		return nil, errors.New("one of --file or --url is required")
	}

	svc := service.NewCatalogService(src, catalog.NewEngine(engineOpts), nil, logger)
	if err := svc.Load(ctx); err != nil {
		logger.Warn("continuing with an empty catalog", zap.Error(err))
	}
	return svc, nil
}

func writeView(w io.Writer, format string, view model.View) error {
	switch format {
	case outputJSON:
		return writeJSON(w, view)
	case outputYAML:
		return yaml.NewEncoder(w).Encode(view)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCHEF\tCATEGORY\tPRICE\tRATING\tDELIVERY\tEXPERIENCE")
	for _, m := range view.Visible {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%s\t%s\t%s\n",
			m.ID, m.Name, m.ChefName, deref(m.Category), m.Price,
			m.DisplayRating(), minutes(m.DeliveryMinutes), years(m.ChefExperienceYears))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nshowing %d of %d meals (pages %d x %d)", len(view.Visible), view.TotalFiltered, view.LoadedPages, view.PageSize)
	if view.HasMore {
		fmt.Fprint(w, ", more available")
	}
	fmt.Fprintln(w)

	if len(view.ActiveFilters) > 0 {
		labels := make([]string, len(view.ActiveFilters))
		for i, chip := range view.ActiveFilters {
			labels[i] = chip.Label
		}
		fmt.Fprintf(w, "filters: %s\n", strings.Join(labels, " | "))
	}
	return nil
}

func writeMetadata(w io.Writer, format string, meta model.FilterMetadata) error {
	switch format {
	case outputJSON:
		return writeJSON(w, meta)
	case outputYAML:
		return yaml.NewEncoder(w).Encode(meta)
	}

	fmt.Fprintf(w, "meals: %d\n", meta.TotalMeals)
	fmt.Fprintf(w, "price: %.2f - %.2f\n\n", meta.PriceRange.Min, meta.PriceRange.Max)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tMEALS")
	for _, c := range meta.Categories {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Count)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func minutes(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d min", *v)
}

func years(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d yrs", *v)
}
