package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	config "sales-forecast-web/configs"
	"sales-forecast-web/pkg/catalog"
	"sales-forecast-web/pkg/logging"
	"sales-forecast-web/pkg/models"
	"sales-forecast-web/pkg/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	endpoint string
	proxyURL string
	timeout  time.Duration
	verbose  bool
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadConfig()
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "predictctl",
		Short:         "Talk to the sales prediction API from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.endpoint, "endpoint", cfg.PredictEndpoint, "prediction API URL")
	root.PersistentFlags().StringVar(&opts.proxyURL, "proxy", cfg.PredictProxyURL, "HTTP proxy for the prediction API")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", cfg.PredictTimeout, "request timeout (0 disables it)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newPredictCmd(opts), newCatalogCmd(), newRawCmd(opts))
	return root
}

func (o *globalOptions) logger() *zap.Logger {
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	logger, err := logging.NewLogger("development", level)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func (o *globalOptions) client() (*services.PredictionClient, error) {
	return services.NewPredictionClient(o.endpoint, o.timeout, o.proxyURL)
}

// bindFormFlags はフォームの各項目をフラグとして登録します。
func bindFormFlags(cmd *cobra.Command, input *models.FormInput) {
	f := cmd.Flags()
	f.StringVar(&input.Date, "date", input.Date, "sales date (YYYY-MM-DD)")
	f.StringVar(&input.Family, "family", input.Family, "product family")
	f.StringVar(&input.State, "state", input.State, "store state")
	f.StringVar(&input.City, "city", input.City, "store city")
	f.StringVar(&input.StoreType, "store-type", input.StoreType, "store type code (A-E)")
	f.StringVar(&input.DayType, "day-type", input.DayType, "day type")
	f.StringVar(&input.OnPromotion, "onpromotion", input.OnPromotion, "items on promotion")
	f.StringVar(&input.OilPrice, "oil-price", input.OilPrice, "oil price (dcoilwtico)")
	f.StringVar(&input.Transactions, "transactions", input.Transactions, "transactions")
	f.StringVar(&input.StoreNumber, "store-nbr", input.StoreNumber, "store number")
	f.StringVar(&input.Cluster, "cluster", input.Cluster, "store cluster (1-20)")
}

func newPredictCmd(opts *globalOptions) *cobra.Command {
	input := models.NewFormInput()

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Submit one prediction and print the demand classification",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			logger := opts.logger()
			defer func() { _ = logger.Sync() }()

			fc := services.NewFormController(client, logger)
			fc.Load(input)
			fc.ResolveSelections()

			sub := fc.Submit(cmd.Context())
			return printSubmission(cmd.OutOrStdout(), sub)
		},
	}
	bindFormFlags(cmd, &input)
	return cmd
}

func printSubmission(w io.Writer, sub *services.Submission) error {
	if sub.Notification != nil {
		n := sub.Notification
		fmt.Fprintf(w, "%s %s: %s\n", n.Icon, n.Headline, n.Body)
	}
	if sub.Err != nil {
		return sub.Err
	}

	p := services.Present(sub.Result)
	switch p.State {
	case models.PresentationError:
		fmt.Fprintf(w, "error: %s\n", p.Message)
		return errors.New(p.Message)
	case models.PresentationEmpty:
		return errors.New("prediction API returned no status")
	}
	fmt.Fprintf(w, "predicted_sales: %s\n", p.FormattedSales)
	fmt.Fprintf(w, "demand_level:    %s\n", p.DemandLevel)
	fmt.Fprintf(w, "recommendation:  %s\n", p.Recommendation)
	if p.Message != "" {
		fmt.Fprintf(w, "message:         %s\n", p.Message)
	}
	return nil
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog <selector> [query]",
		Short: "List the options of a selector (family, city, state, store-type, day-type)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			selector := catalog.Selector(args[0])
			options, ok := catalog.Values(selector)
			if !ok {
				return fmt.Errorf("unknown selector %q", args[0])
			}

			query := ""
			if len(args) == 2 {
				query = args[1]
			}

			w := cmd.OutOrStdout()
			for _, option := range catalog.Filter(options, query) {
				if selector == catalog.SelectorStoreType {
					fmt.Fprintf(w, "%s\t%s\n", option, catalog.StoreTypeLabel(option))
					continue
				}
				fmt.Fprintln(w, option)
			}
			return nil
		},
	}
}

// newRawCmd はAPIに生のリクエストを送り、ステータスとボディをそのまま表示します。
func newRawCmd(opts *globalOptions) *cobra.Command {
	input := models.NewFormInput()
	input.Date = time.Now().UTC().Format("2006-01-02")
	input.Family = catalog.Families[0]
	input.State = catalog.States[0]
	input.City = catalog.Cities[0]
	input.StoreType = catalog.StoreTypes[0].Value

	cmd := &cobra.Command{
		Use:   "raw",
		Short: "Send a raw request to the prediction API and dump the response",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}

			req, err := services.BuildPredictionRequest(input)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "POST %s\n", client.Endpoint())
			status, body, err := client.PostRaw(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "status: %d\n", status)
			fmt.Fprintln(w, strings.TrimSpace(string(body)))
			if status < 200 || status > 299 {
				return fmt.Errorf("prediction API returned status %d", status)
			}
			return nil
		},
	}
	bindFormFlags(cmd, &input)
	return cmd
}
