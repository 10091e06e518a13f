// Package main provides the recommendation CLI: building the day's wagering
// recommendations from the latest backtest artifacts.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pace-bias/internal/config"
	"github.com/yourusername/pace-bias/internal/datasource"
	"github.com/yourusername/pace-bias/internal/logger"
	"github.com/yourusername/pace-bias/internal/models"
	"github.com/yourusername/pace-bias/internal/reco"
	"github.com/yourusername/pace-bias/internal/service"
)

var (
	configFile string
	dateFlag   string
	quiet      bool

	appLog *logrus.Logger
	cfg    *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Race day (YYYY-MM-DD, default today)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only write the document, no console output")
}

var rootCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Build wagering recommendations for a race day",
	Long:  `Builds the recommendation document for an augmented day card, gated by the latest backtest artifacts, and writes it next to the card documents.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate()
		if err != nil {
			return err
		}

		store := datasource.NewLocalDirSource(cfg.Cards.DataDir)
		svc := service.NewRecoService(store, cfg.Backtest.OutputPath, recoOptions(cfg), appLog)

		dayReco, err := svc.BuildDay(cmd.Context(), date)
		if err != nil {
			return err
		}

		if !quiet {
			printDay(dayReco)
		}
		fmt.Printf("recommendations written to %s\n", svc.RecoPath(date))
		return nil
	},
}

func recoOptions(cfg *config.Config) reco.Options {
	return reco.Options{
		WinROIMin:    cfg.Reco.WinROIMin,
		PlaceROIMin:  cfg.Reco.PlaceROIMin,
		WinOddsMin:   cfg.Reco.WinOddsMin,
		WinOddsMax:   cfg.Reco.WinOddsMax,
		NoWinOddsCut: cfg.Reco.NoWinOddsCut,
	}
}

func printDay(day *models.DayReco) {
	for _, race := range day.Races {
		if len(race.Win) == 0 && len(race.Place) == 0 && len(race.QuinellaBox) == 0 {
			continue
		}
		fmt.Printf("%s %dR", race.Track, race.No)
		if len(race.Win) > 0 {
			fmt.Printf("  単勝 %s", joinNums(race.Win))
		}
		if len(race.Place) > 0 {
			fmt.Printf("  複勝 %s", joinNums(race.Place))
		}
		if len(race.QuinellaBox) > 0 {
			fmt.Printf("  馬連BOX %s", joinNums(race.QuinellaBox))
		}
		fmt.Println()
		for _, note := range race.Notes {
			fmt.Printf("    %s\n", note)
		}
	}
}

func joinNums(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ",")
}

func resolveDate() (models.YMD, error) {
	if dateFlag == "" {
		return models.YMDFromTime(time.Now()), nil
	}
	return models.ParseISODate(dateFlag)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
