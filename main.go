package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/niktanya/telegram-book-bot/bot"
	"github.com/niktanya/telegram-book-bot/config"
	"github.com/niktanya/telegram-book-bot/llm"
	"github.com/niktanya/telegram-book-bot/log"
	"github.com/niktanya/telegram-book-bot/model"
	"github.com/niktanya/telegram-book-bot/recommend"
	"github.com/niktanya/telegram-book-bot/search"
	"github.com/niktanya/telegram-book-bot/server"
	"github.com/niktanya/telegram-book-bot/store"
	"github.com/niktanya/telegram-book-bot/store/db"
	"github.com/niktanya/telegram-book-bot/worker"
)

const (
	greetingBanner = `
██████   ██████   ██████  ██   ██     ██████   ██████  ████████
██   ██ ██    ██ ██    ██ ██  ██      ██   ██ ██    ██    ██
██████  ██    ██ ██    ██ █████      ██████  ██    ██    ██
██   ██ ██    ██ ██    ██ ██  ██      ██   ██ ██    ██    ██
██████   ██████   ██████  ██   ██     ██████   ██████     ██
`
)

var (
	configFile string
	dsn        string
	data       string

	rootCmd = &cobra.Command{
		Use:   "telegram-book-bot",
		Short: "Telegram bot for book search and recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "path of the sqlite database")
	rootCmd.PersistentFlags().StringVar(&data, "data", "", "directory for data files")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	var opts *config.Options
	var err error
	if configFile != "" {
		opts, err = config.ParseFile(configFile)
	} else {
		opts, err = config.GetConfig()
	}
	if err != nil {
		return err
	}
	if dsn != "" {
		opts.DSN = dsn
	}
	if data != "" {
		opts.Data = data
	}
	log.Logger = log.NewLogger()
	defer log.Logger.Sync()
	fmt.Print(greetingBanner)
	log.Info("Starting book bot", zap.String("version", opts.Version))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	database, err := db.NewDB(opts.DSN)
	if err != nil {
		log.Error("Error connecting to database", zap.Error(err))
		return err
	}
	defer database.Close()
	if err := database.Migrate(ctx, opts.Version); err != nil {
		log.Error("Error migrating database", zap.Error(err))
		return err
	}
	if history, err := database.FindMigrationHistoryList(ctx, &store.FindMigrationHistory{}); err == nil && len(history) > 0 {
		log.Info("Database schema ready", zap.String("schema_version", history[0].Version))
	}

	st := store.NewStore(database.DB)
	if err := st.Ping(); err != nil {
		log.Error("Error pinging database", zap.Error(err))
		return err
	}
	if err := bootstrap(st, opts); err != nil {
		log.Error("Error bootstrapping data", zap.Error(err))
		return err
	}

	provider, err := llm.NewFromConfig(opts)
	if err != nil {
		log.Error("Error creating llm provider", zap.Error(err))
		return err
	}

	searcher := search.NewService(provider, opts.SearchCandidates)
	generative := recommend.NewGenerative(provider, opts.FuzzyThreshold)
	orchestrator := recommend.NewOrchestrator(st, generative, opts.FuzzyThreshold)

	tg, err := bot.NewTelegramBot(opts.TelegramToken)
	if err != nil {
		log.Error("Error creating telegram bot", zap.Error(err))
		return err
	}

	enforce := opts.Environment == "production" && len(opts.AllowedUsers) > 0
	machine := bot.NewMachine(bot.Config{
		AllowedUsers:        opts.AllowedUsers,
		EnforceAllowList:    enforce,
		RecommendCount:      opts.RecommendCount,
		SimilarityThreshold: opts.SimilarityThreshold,
		FuzzyThreshold:      opts.FuzzyThreshold,
		SearchRetries:       opts.SearchRetries,
	}, st, searcher, orchestrator, tg)
	if enforce {
		log.Info("Bot running with access checks", zap.Int64s("allowed_users", opts.AllowedUsers))
	} else {
		log.Info("Bot running without access checks")
	}

	pool := worker.NewDispatchPool(opts.WorkerPoolSize, func(job model.Job) {
		ev, ok := job.Item.(bot.Event)
		if !ok {
			log.Error("Unexpected job payload", zap.Int64("user_id", job.UserID))
			return
		}
		machine.HandleEvent(ctx, ev)
	})
	defer pool.Shutdown()

	srv := server.NewServer(ctx, st, machine.Sessions())
	go func() {
		if err := srv.Start(); err != nil {
			log.Error("Admin API stopped", zap.Error(err))
			cancel()
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info("Shutting down")
		srv.Shutdown(context.Background())
		cancel()
	}()

	err = tg.Run(ctx, pool)
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// bootstrap seeds an empty database from the configured CSV files,
// falling back to books.csv/ratings.csv in the data directory.
func bootstrap(st *store.Store, opts *config.Options) error {
	bookCount, err := st.CountBooks()
	if err != nil {
		return err
	}
	if bookCount == 0 {
		path := opts.BooksCSV
		if path == "" {
			path = filepath.Join(opts.Data, "books.csv")
		}
		if added, err := importCSV(path, st.ImportBooksCSV); err != nil {
			return err
		} else if added > 0 {
			log.Info("Imported books from csv", zap.String("path", path), zap.Int("added", added))
		}
	}

	ratingCount, err := st.CountRatings()
	if err != nil {
		return err
	}
	if ratingCount == 0 {
		path := opts.RatingsCSV
		if path == "" {
			path = filepath.Join(opts.Data, "ratings.csv")
		}
		if added, err := importCSV(path, st.ImportRatingsCSV); err != nil {
			return err
		} else if added > 0 {
			log.Info("Imported ratings from csv", zap.String("path", path), zap.Int("added", added))
		}
	}
	return nil
}

func importCSV(path string, load func(r io.Reader) (int, error)) (int, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return load(f)
}
