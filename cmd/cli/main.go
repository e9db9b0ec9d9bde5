package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/estambul-delivery/shiftledger/internal/config"
	"github.com/estambul-delivery/shiftledger/internal/httpapi"
	"github.com/estambul-delivery/shiftledger/pkg/cache"
	"github.com/estambul-delivery/shiftledger/pkg/clients/gmailclient"
	"github.com/estambul-delivery/shiftledger/pkg/core/model"
	"github.com/estambul-delivery/shiftledger/pkg/core/services"
	"github.com/estambul-delivery/shiftledger/pkg/core/shiftcalc"
	"github.com/estambul-delivery/shiftledger/pkg/db"
	"github.com/estambul-delivery/shiftledger/pkg/notify"
	"github.com/estambul-delivery/shiftledger/pkg/postgres"
	"github.com/estambul-delivery/shiftledger/pkg/report"
	"github.com/estambul-delivery/shiftledger/pkg/utils"
	"github.com/estambul-delivery/shiftledger/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg         *config.Config
	database    *postgres.DB
	mirror      *cache.FileStore
	notifier    *notify.Publisher
	gmailClient *gmailclient.Client
	logger      *zap.Logger
	ctx         context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shiftledger",
		Short: "Shift Ledger CLI - Log and reconcile delivery shifts",
		Long:  `A CLI tool for logging driver shifts, reviewing cash reconciliation, and producing monthly reports.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.notifier != nil {
					app.notifier.Close()
				}
				if app.database != nil {
					app.database.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(submitShiftCmd())
	rootCmd.AddCommand(reviewShiftCmd())
	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(listShiftsCmd())
	rootCmd.AddCommand(previousShiftCmd())
	rootCmd.AddCommand(monthlyReportCmd())
	rootCmd.AddCommand(emailReportCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database, draft mirror, and event publisher
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	app.logger.Info("Loading configuration")
	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	app.logger.Info("Connecting to database")
	app.database, err = postgres.NewDB(app.ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := app.database.RunMigrations(app.ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.logger.Debug("Database ready")

	cacheDir := app.cfg.CacheDir
	if cacheDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		cacheDir = homeDir + "/.shiftledger/cache"
	}
	app.mirror, err = cache.NewFileStore(cacheDir)
	if err != nil {
		return fmt.Errorf("failed to initialize draft mirror: %w", err)
	}

	if app.cfg.AMQPURL != "" {
		app.logger.Info("Connecting to message broker")
		app.notifier, err = notify.Dial(app.cfg.AMQPURL)
		if err != nil {
			return fmt.Errorf("failed to connect to message broker: %w", err)
		}
	}

	return nil
}

// initGmail lazily authenticates and builds the Gmail client. Only the
// emailReport command pays the OAuth cost.
func initGmail() error {
	if app.gmailClient != nil {
		return nil
	}

	app.logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return fmt.Errorf("failed to build oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(app.ctx, oauthConfig, env)
	if err != nil {
		return fmt.Errorf("failed to obtain token: %w", err)
	}

	app.gmailClient, err = gmailclient.NewClient(app.ctx, oauthCfg, token)
	if err != nil {
		return fmt.Errorf("failed to create gmail client: %w", err)
	}

	return nil
}

// monthBounds returns the inclusive first and last business dates of a
// YYYY-MM month
func monthBounds(month string) (string, string, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return "", "", fmt.Errorf("month must be in YYYY-MM format: %w", err)
	}
	end := start.AddDate(0, 1, -1)
	return start.Format("2006-01-02"), end.Format("2006-01-02"), nil
}

// notifierOrNil avoids handing services a typed nil interface
func notifierOrNil() notify.StatusNotifier {
	if app.notifier == nil {
		return nil
	}
	return app.notifier
}

// Command definitions

func submitShiftCmd() *cobra.Command {
	var input services.ShiftInput
	var fromDraft bool

	cmd := &cobra.Command{
		Use:   "submitShift",
		Short: "Submit a shift report for a driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromDraft {
				draft, found, err := services.LoadDraft(app.mirror, input.DriverID)
				if err != nil {
					return fmt.Errorf("failed to load draft: %w", err)
				}
				if !found {
					return fmt.Errorf("no draft found for driver %s", input.DriverID)
				}
				input = *draft
			}

			shift, violations, err := services.SubmitShift(app.ctx, app.database, app.mirror, notifierOrNil(), app.logger, input)
			if err != nil {
				return err
			}
			if len(violations) > 0 {
				fmt.Println("\nEl turno no se pudo registrar:")
				for _, v := range violations {
					fmt.Printf("  - %s\n", v)
				}
				fmt.Println()
				return fmt.Errorf("shift rejected with %d validation errors", len(violations))
			}

			fmt.Printf("\n✓ Turno registrado!\n\n")
			fmt.Printf("ID:           %s\n", shift.ID)
			fmt.Printf("Fecha:        %s\n", shift.Date)
			fmt.Printf("Horas:        %.1f\n", shift.HoursWorked)
			fmt.Printf("Tickets:      %d\n", shift.TotalTickets)
			fmt.Printf("Total ganado: %.2f €\n", shift.TotalEarned)
			fmt.Printf("Caja neto:    %.2f €\n", shiftcalc.DisplayCajaNeto(shift.TotalCajaNeto))
			if msg := shiftcalc.IncentiveMessage(shift.TotalTickets); msg != "" {
				fmt.Printf("\n%s\n", msg)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringVar(&input.DriverID, "driver", "", "Driver ID")
	cmd.Flags().StringVar(&input.DriverEmail, "email", "", "Driver email")
	cmd.Flags().StringVar(&input.Date, "date", "", "Business date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&input.EntryTime, "entry", "", "Entry time (HH:MM)")
	cmd.Flags().StringVar(&input.ExitTime, "exit", "", "Exit time (HH:MM)")
	cmd.Flags().StringVar(&input.HomeDeliveryOrders, "home", "", "Home delivery order numbers, comma separated")
	cmd.Flags().StringVar(&input.OnlineOrders, "online", "", "Online order numbers, comma separated")
	cmd.Flags().BoolVar(&input.MolaresExtraTrip, "molares", false, "Shift included a Molares trip")
	cmd.Flags().StringVar(&input.MolaresOrderNumbers, "molares-orders", "", "Molares order numbers, comma separated")
	cmd.Flags().Float64Var(&input.TotalSalesDeclared, "sales", 0, "Total sales declared (€)")
	cmd.Flags().Float64Var(&input.TotalCardTerminal, "datafono", 0, "Card terminal total (€)")
	cmd.Flags().StringVar(&input.Incidents, "incidents", "", "Incident notes")
	cmd.Flags().BoolVar(&fromDraft, "from-draft", false, "Load the saved draft for --driver instead of flags")
	cmd.MarkFlagRequired("driver")

	return cmd
}

func reviewShiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reviewShift <shift_id> <reviewer> [notes]",
		Short: "Mark a pending shift as reviewed by a cashier",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			shiftID := args[0]
			reviewer := args[1]
			var notes string
			if len(args) > 2 {
				notes = args[2]
			}

			updated, err := services.ReviewShift(app.ctx, app.database, notifierOrNil(), app.logger, shiftID, reviewer, notes)
			if err != nil {
				return err
			}
			if !updated {
				fmt.Printf("Shift %s is not pending; nothing to review.\n", shiftID)
				return nil
			}

			fmt.Printf("✓ Shift %s reviewed by %s\n", shiftID, reviewer)
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Archive pending shifts older than the weekly cutoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			swept, err := services.SweepPending(app.ctx, app.database, notifierOrNil(), app.logger, app.cfg.CutoffRule, time.Now())
			if err != nil {
				return err
			}

			fmt.Printf("✓ Swept %d shifts to unreviewed\n", swept)
			return nil
		},
	}
}

func listShiftsCmd() *cobra.Command {
	var status, driver, month string

	cmd := &cobra.Command{
		Use:   "listShifts",
		Short: "List shifts, optionally filtered by status, driver, or month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := db.ShiftFilter{
				Status:   model.Status(status),
				DriverID: driver,
			}
			if filter.Status != "" && !filter.Status.IsValid() {
				return fmt.Errorf("unknown status %q", status)
			}
			if month != "" {
				from, to, err := monthBounds(month)
				if err != nil {
					return err
				}
				filter.FromDate = from
				filter.ToDate = to
			}

			shifts, err := app.database.ListShifts(app.ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list shifts: %w", err)
			}

			fmt.Printf("\nFound %d shifts:\n\n", len(shifts))
			for _, s := range shifts {
				reviewer := s.ReviewedBy
				if reviewer == "" {
					reviewer = "-"
				}
				fmt.Printf("- %s  %s  %-10s  %.1fh  %3d tickets  %7.2f €  [%s] %s\n",
					s.Date, s.ID, s.DriverID, s.HoursWorked, s.TotalTickets, s.TotalEarned, s.Status, reviewer)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, reviewed, unreviewed)")
	cmd.Flags().StringVar(&driver, "driver", "", "Filter by driver ID")
	cmd.Flags().StringVar(&month, "month", "", "Filter by month (YYYY-MM)")

	return cmd
}

func previousShiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "previousShift <driver_id>",
		Short: "Show the driver's most recent reviewed or unreviewed shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := services.PreviousShift(app.ctx, app.database, app.logger, args[0])
			if err != nil {
				return err
			}
			if shift == nil {
				fmt.Println("No previous shift found.")
				return nil
			}

			fmt.Printf("\nPrevious shift for %s:\n\n", shift.DriverID)
			fmt.Printf("Fecha:        %s (%s - %s)\n", shift.Date, shift.EntryTime, shift.ExitTime)
			fmt.Printf("Horas:        %.1f\n", shift.HoursWorked)
			fmt.Printf("Tickets:      %d\n", shift.TotalTickets)
			fmt.Printf("Total ganado: %.2f €\n", shift.TotalEarned)
			fmt.Printf("Estado:       %s (%s)\n\n", shift.Status, shift.ReviewedBy)

			return nil
		},
	}
}

func monthlyReportCmd() *cobra.Command {
	var asXLSX bool
	var outPath string

	cmd := &cobra.Command{
		Use:   "monthlyReport <month>",
		Short: "Build the monthly rollup report (YYYY-MM)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := args[0]
			rollup, err := services.MonthlyReport(app.ctx, app.database, app.logger, month)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if asXLSX {
				if err := report.WriteXLSX(&buf, rollup); err != nil {
					return fmt.Errorf("failed to encode report: %w", err)
				}
				if outPath == "" {
					outPath = fmt.Sprintf("reporte-mensual-%s.xlsx", month)
				}
			} else {
				if err := report.WriteCSV(&buf, rollup); err != nil {
					return fmt.Errorf("failed to encode report: %w", err)
				}
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
					return fmt.Errorf("failed to write report file: %w", err)
				}
				fmt.Printf("✓ Report written to %s\n", outPath)
				return nil
			}

			fmt.Print(buf.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asXLSX, "xlsx", false, "Produce an XLSX workbook instead of CSV")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the report to this file instead of stdout")

	return cmd
}

func emailReportCmd() *cobra.Command {
	var asXLSX bool

	cmd := &cobra.Command{
		Use:   "emailReport <month> [recipient]",
		Short: "Email the monthly report (recipient defaults to the configured one)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := args[0]
			to := app.cfg.ReportRecipient
			if len(args) > 1 {
				to = args[1]
			}
			if to == "" {
				return fmt.Errorf("no recipient given and reportRecipient is not configured")
			}

			if err := initGmail(); err != nil {
				return err
			}

			if err := services.EmailMonthlyReport(app.ctx, app.database, app.gmailClient, app.logger, month, to, asXLSX); err != nil {
				return err
			}

			fmt.Printf("✓ Report for %s sent to %s\n", month, to)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asXLSX, "xlsx", false, "Attach an XLSX workbook instead of CSV")

	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := app.cfg.HTTPAddr
			if addr == "" {
				addr = ":8080"
			}

			server := httpapi.NewServer(app.database, app.mirror, notifierOrNil(), app.logger, app.cfg.CutoffRule)
			app.logger.Info("HTTP server listening", zap.String("addr", addr))
			return server.Run(addr)
		},
	}
}

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (connect once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without reconnecting.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\nStarting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			// Get all sibling commands (excluding interactive itself)
			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts := strings.Fields(line)
				cmdName := parts[0]
				cmdArgs := parts[1:]

				if cmdName == "exit" || cmdName == "quit" {
					fmt.Println("Goodbye!")
					return nil
				}

				if cmdName == "help" {
					printInteractiveHelp(commands)
					continue
				}

				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Printf("Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Reset command flags and args
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// Execute the command's RunE directly, bypassing the full Execute() flow
				// This avoids re-running PersistentPreRunE which would call initApp() again
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("Error parsing flags: %v\n\n", err)
					continue
				}

				// Get non-flag args after parsing flags
				cmdArgs = targetCmd.Flags().Args()

				if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
					fmt.Printf("Error: %v\n\n", err)
					continue
				}

				if targetCmd.RunE != nil {
					if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
						fmt.Printf("Error: %v\n\n", err)
					}
				} else if targetCmd.Run != nil {
					targetCmd.Run(targetCmd, cmdArgs)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}

	return cmd
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}

	for _, name := range names {
		cmd := commands[name]
		fmt.Printf("  %-30s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Println("\n  help                           Show this help message")
	fmt.Println("  exit, quit                     Exit the interactive session")
}
