package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"trivia-game-service/internal/app"
	"trivia-game-service/internal/config"
	"trivia-game-service/internal/infra/opentdb"
)

// NewQuestionsCmd groups question pool maintenance commands.
func NewQuestionsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Manage the question pool",
	}
	cmd.AddCommand(newQuestionsImportCmd(configPath))
	return cmd
}

func newQuestionsImportCmd(configPath *string) *cobra.Command {
	var (
		category   string
		difficulty string
		amount     int
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Fetch questions from Open Trivia DB into the question store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			if cfg.Storage.Backend != config.BackendPostgres {
				log.Warn("imported questions are kept in memory and discarded on exit", "backend", cfg.Storage.Backend)
			}

			st, err := openStores(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer st.close()

			source := opentdb.NewClient(cfg.OpenTDB.BaseURL, &http.Client{
				Timeout: config.TTLDuration(cfg.OpenTDB.Timeout, 10*time.Second),
			})
			saved, err := app.NewQuestionService(st.questions, source, log).Import(cmd.Context(), category, difficulty, amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d questions (%s, %s)\n", len(saved), category, difficulty)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category name, e.g. \"Science: Computers\" or books")
	cmd.Flags().StringVar(&difficulty, "difficulty", "easy", "easy, medium or hard")
	cmd.Flags().IntVar(&amount, "amount", 10, "number of questions to fetch")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}
