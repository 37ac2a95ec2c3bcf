package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/younsl/lambdactl/internal/models"
	"github.com/younsl/lambdactl/internal/version"
	"github.com/younsl/lambdactl/pkg/formatter"
	"github.com/younsl/lambdactl/pkg/lambda"
	"github.com/younsl/lambdactl/pkg/scan"
	"github.com/younsl/lambdactl/pkg/utils"
)

// errFindings signals a completed scan that found long-running instances
// while --fail-on-findings is set.
var errFindings = errors.New("long-running instances found")

var (
	apiKey   string
	dotenv   string
	noDotenv bool
	verbose  bool
	baseURL  string
	logger   zerolog.Logger
)

// startScanSpinner creates and starts a spinner with a message for the given resource
func startScanSpinner(resource string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Fetching %s ...", resource)
	s.Start()
	return s
}

func newClient() (*lambda.Client, error) {
	return lambda.NewClient(lambda.Config{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Logger:  &logger,
	})
}

func printJSON(value any) error {
	out, err := utils.FormatJSON(value)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "lambdactl",
		Short: "CLI for the Lambda GPU Cloud API",
		Long: `lambdactl lists and manages Lambda Cloud GPU instances and images,
and can detect instances running longer than a threshold by inferring
start times from instance tags or the account audit-event feed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().Timestamp().Logger()

			loadDotenv()
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "",
		"API key (or set LAMBDA_API_KEY env var)")
	rootCmd.PersistentFlags().StringVar(&dotenv, "dotenv", "",
		"Path to a .env file to load (default: .env if present)")
	rootCmd.PersistentFlags().BoolVar(&noDotenv, "no-dotenv", false,
		"Disable loading a .env file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "",
		"Override the API base URL")
	rootCmd.PersistentFlags().MarkHidden("base-url")

	rootCmd.AddCommand(newInstancesCmd())
	rootCmd.AddCommand(newImagesCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errFindings) {
			os.Exit(1)
		}
		if apiErr, ok := lambda.AsAPIError(err); ok {
			printAPIError(apiErr)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// loadDotenv loads environment variables from a .env file. Dotenv is a
// convenience; env vars and --api-key still work when it fails.
func loadDotenv() {
	if noDotenv {
		return
	}
	path := dotenv
	if path == "" {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("dotenv not loaded")
	}
}

// printAPIError renders an API error as a JSON object on stderr, so
// scripted callers can parse failures the same way as successes.
func printAPIError(apiErr *lambda.APIError) {
	payload := map[string]any{
		"error": map[string]any{
			"http_status": apiErr.Status,
			"code":        apiErr.Code,
			"message":     apiErr.Message,
			"suggestion":  apiErr.Suggestion,
		},
	}
	if out, err := utils.FormatJSON(payload); err == nil {
		fmt.Fprintln(os.Stderr, out)
	} else {
		fmt.Fprintln(os.Stderr, apiErr)
	}
}

func newInstancesCmd() *cobra.Command {
	instancesCmd := &cobra.Command{
		Use:   "instances",
		Short: "Instance-related commands",
	}

	var jsonOut bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			scanStartTime := time.Now()
			var s *spinner.Spinner
			if !jsonOut {
				s = startScanSpinner("instances")
			}

			instances, err := client.ListInstances(cmd.Context())
			if s != nil {
				s.Stop()
			}
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(instances)
			}
			formatter.PrintInstancesTable(os.Stdout, instances, scanStartTime, time.Since(scanStartTime))
			return nil
		},
	}
	listCmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")

	instancesCmd.AddCommand(listCmd)
	instancesCmd.AddCommand(newLaunchCmd())
	instancesCmd.AddCommand(newShutdownCmd())
	instancesCmd.AddCommand(newLongRunningCmd())
	return instancesCmd
}

func newLaunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launch FILE",
		Short: "Launch an on-demand instance from a JSON request file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read launch payload: %w", err)
			}

			var payload map[string]any
			if err := json.Unmarshal(raw, &payload); err != nil || payload == nil {
				return fmt.Errorf("launch payload must be a JSON object")
			}

			// Make long-running checks reliable by tagging launch time automatically.
			lambda.EnsureStartedAtTag(payload, time.Now().UTC())

			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			data, err := client.LaunchRaw(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return printJSON(json.RawMessage(data))
		},
	}
}

func newShutdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shutdown ID",
		Short: "Shutdown (terminate) an instance by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			data, err := client.TerminateInstance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(json.RawMessage(data))
		},
	}
}

func newLongRunningCmd() *cobra.Command {
	var (
		thresholdHours   float64
		tagKey           string
		fallbackAudit    bool
		auditWindowHours float64
		auditResource    string
		auditMaxPages    int
		actionKeywords   []string
		includeUnknown   bool
		failOnFindings   bool
		asJSON           bool
	)

	cmd := &cobra.Command{
		Use:   "long-running",
		Short: "Find instances running longer than N hours",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			var s *spinner.Spinner
			if !asJSON {
				s = startScanSpinner("long-running instances")
			}

			report, err := scan.Run(cmd.Context(), client, scan.Options{
				ThresholdHours:      thresholdHours,
				TagKey:              tagKey,
				FallbackAuditEvents: fallbackAudit,
				AuditWindow:         time.Duration(auditWindowHours * float64(time.Hour)),
				AuditResourceType:   auditResource,
				AuditMaxPages:       auditMaxPages,
				ActionKeywords:      actionKeywords,
			})
			if s != nil {
				s.Stop()
			}
			if err != nil {
				return err
			}

			if !includeUnknown {
				report.UnknownStartTime = []models.Instance{}
			}

			if asJSON {
				if err := printJSON(report); err != nil {
					return err
				}
			} else {
				formatter.PrintLongRunningTable(os.Stdout, report)
				formatter.PrintLongRunningSummary(os.Stdout, report)
			}

			if failOnFindings && len(report.LongRunning) > 0 {
				return errFindings
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&thresholdHours, "hours", 24.0,
		"Threshold in hours")
	cmd.Flags().StringVar(&tagKey, "tag-key", lambda.StartedAtTagKey,
		"Instance tag key containing ISO8601 start time")
	cmd.Flags().BoolVar(&fallbackAudit, "fallback-audit-events", false,
		"Infer start time via audit events when tag is missing")
	cmd.Flags().Float64Var(&auditWindowHours, "audit-window-hours", 24.0*14,
		"How far back to look in audit events")
	cmd.Flags().StringVar(&auditResource, "audit-resource-type", "instance",
		"Audit events resource_type filter")
	cmd.Flags().IntVar(&auditMaxPages, "audit-max-pages", lambda.DefaultAuditMaxPages,
		"Max audit event pages to scan")
	cmd.Flags().StringSliceVar(&actionKeywords, "audit-action-keyword", lambda.DefaultActionKeywords,
		"Action keyword to treat as start (repeatable)")
	cmd.Flags().BoolVar(&includeUnknown, "include-unknown", false,
		"Include instances where start time cannot be inferred")
	cmd.Flags().BoolVar(&failOnFindings, "fail-on-findings", false,
		"Exit with code 1 if any long-running instances are found")
	cmd.Flags().BoolVar(&asJSON, "json", true,
		"Output JSON (default true for this command)")
	return cmd
}

func newImagesCmd() *cobra.Command {
	imagesCmd := &cobra.Command{
		Use:   "images",
		Short: "Image-related commands",
	}

	var imagesJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available images",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			scanStartTime := time.Now()
			var s *spinner.Spinner
			if !imagesJSON {
				s = startScanSpinner("images")
			}

			images, err := client.ListImages(cmd.Context())
			if s != nil {
				s.Stop()
			}
			if err != nil {
				return err
			}

			if imagesJSON {
				return printJSON(images)
			}
			formatter.PrintImagesTable(os.Stdout, images, scanStartTime, time.Since(scanStartTime))
			return nil
		},
	}
	listCmd.Flags().BoolVar(&imagesJSON, "json", false, "Output JSON")

	imagesCmd.AddCommand(listCmd)
	return imagesCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Get().String())
		},
	}
}
