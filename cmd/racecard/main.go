// Package main provides the race card CLI: pulling day cards and augmenting
// them with pace classifications.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pace-bias/internal/config"
	"github.com/yourusername/pace-bias/internal/database"
	"github.com/yourusername/pace-bias/internal/datasource"
	"github.com/yourusername/pace-bias/internal/logger"
	"github.com/yourusername/pace-bias/internal/models"
	"github.com/yourusername/pace-bias/internal/repository"
	"github.com/yourusername/pace-bias/internal/service"
)

var (
	configFile string
	dateFlag   string

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&dateFlag, "date", "d", "", "Race day (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(augmentCmd)
	rootCmd.AddCommand(reportCmd)
}

var rootCmd = &cobra.Command{
	Use:   "racecard",
	Short: "Augment race-day cards with pace classifications",
	Long:  `Loads a day's card document, classifies every runner's pace style from its passage history and fills the race pace score.`,
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

		db, err = database.Initialize(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		repos, err = repository.NewRepositories(db, time.Duration(cfg.Cards.HistoryCacheTTLSeconds)*time.Second)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var augmentCmd = &cobra.Command{
	Use:   "augment",
	Short: "Augment a day's card and write the bias report",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate()
		if err != nil {
			return err
		}

		factory := datasource.NewFactory(cfg.Cards, appLog)
		svc := service.NewCardService(factory.NewDaySource(), factory.Local(), repos.History, appLog)

		day, err := svc.AugmentDay(cmd.Context(), date)
		if err != nil {
			return err
		}

		path, err := svc.WriteBiasReport(day)
		if err != nil {
			return err
		}
		fmt.Printf("augmented %s, bias report at %s\n", date.ISO(), path)
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the bias report for an augmented day",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate()
		if err != nil {
			return err
		}

		store := datasource.NewLocalDirSource(cfg.Cards.DataDir)
		day, err := store.FetchDay(cmd.Context(), date)
		if err != nil {
			return err
		}
		fmt.Print(service.BiasReport(day))
		return nil
	},
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
