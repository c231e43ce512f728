package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rollplan-mcp/internal/config"
	"rollplan-mcp/internal/export"
	"rollplan-mcp/internal/logging"
	"rollplan-mcp/internal/mcp"
	"rollplan-mcp/internal/plan"
	"rollplan-mcp/internal/refdata"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
	store   *refdata.Store
)

var rootCmd = &cobra.Command{
	Use:   "rollplan-mcp",
	Short: "Rollplan is a production-plan simulation MCP server for cement networks",
	Long: `An MCP Server that projects day-by-day inventories, production and shipments
across a network of cement plants, grinding stations and terminals, flagging
silo-full and stockout situations over the planning horizon.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		// Load configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		store = refdata.NewStore()
		if err := store.Load(cfg.SnapshotPath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.SnapshotPath).Msg("Failed to load snapshot")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Rollplan starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		log.Info().Msg("MCP Server starting Stdio loop")
		server := mcp.NewServer(store, cfg)
		if err := server.Serve(); err != nil {
			log.Fatal().Err(err).Msg("Stdio loop failed")
		}
	},
}

var (
	simStart      string
	simDays       int
	simFacilities []string
	simXLSX       string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the production plan once and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		start := simStart
		if start == "" {
			start = time.Now().Format("2006-01-02")
		}
		days := simDays
		if days <= 0 {
			days = cfg.HorizonDays
		}

		view, err := plan.BuildView(context.Background(), store.Snapshot(), plan.Request{
			StartDate:   start,
			Days:        days,
			FacilityIDs: simFacilities,
		})
		if err != nil {
			return err
		}

		if simXLSX != "" {
			if err := export.WritePlan(view, simXLSX); err != nil {
				return err
			}
			log.Info().Str("path", simXLSX).Msg("Plan exported")
		}

		out, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	simulateCmd.Flags().StringVar(&simStart, "start", "", "first day of the horizon (YYYY-MM-DD, default today)")
	simulateCmd.Flags().IntVar(&simDays, "days", 0, "horizon length in days (default PLAN_HORIZON_DAYS)")
	simulateCmd.Flags().StringSliceVar(&simFacilities, "facilities", nil, "facility or org-node IDs (default whole network)")
	simulateCmd.Flags().StringVar(&simXLSX, "xlsx", "", "also write the plan to this .xlsx path")
	rootCmd.AddCommand(simulateCmd)
}
