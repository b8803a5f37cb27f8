package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/profile-guesser/internal/ai"
	"github.com/spigell/profile-guesser/internal/ai/gemini"
	"github.com/spigell/profile-guesser/internal/candidates"
	"github.com/spigell/profile-guesser/internal/filtering"
	"github.com/spigell/profile-guesser/internal/game"
	"github.com/spigell/profile-guesser/internal/logger"
	"github.com/spigell/profile-guesser/internal/profile"
	"github.com/spigell/profile-guesser/internal/resolver"
	"github.com/spigell/profile-guesser/internal/secrets"
)

const (
	PromptYes  = "Yes"
	PromptNo   = "No"
	PromptSkip = "Skip"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Think of a person and answer yes/no questions until they are guessed",
	Run: func(cmd *cobra.Command, _ []string) {
		play(cmd)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("profiles", "p", "", "a profiles file written by parse (default is profiles-file from the config)")
	playCmd.Flags().StringP("exclude-file", "e", "", "special file with profiles to leave out of the game. Default is unset.")
	playCmd.Flags().Bool("no-ai", false, "use template questions even when ai is enabled")

	viper.BindPFlag("exclude-file", playCmd.Flags().Lookup("exclude-file"))
}

// promptAsker asks questions in the terminal.
type promptAsker struct{}

func (promptAsker) Ask(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	prompt := promptui.Select{
		Label: question,
		Items: []string{PromptYes, PromptNo, PromptSkip},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return false, err
	}

	return parseAnswer(answer)
}

func parseAnswer(answer string) (bool, error) {
	switch answer {
	case PromptYes:
		return true, nil
	case PromptNo:
		return false, nil
	case PromptSkip:
		return false, game.ErrSkip
	default:
		return false, fmt.Errorf("invalid answer: %s", answer)
	}
}

func play(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	path := config.ProfilesFile
	if cmd.Flags().Changed("profiles") {
		path, _ = cmd.Flags().GetString("profiles")
	}

	profiles, err := profile.Load(path)
	if err != nil {
		logger.Fatal("loading profiles",
			zap.String("path", path),
			zap.Error(err),
			zap.String("hint", "run the parse command first or set GUESSER_PROFILES_FILE"),
		)
	}

	pool, err := filtering.Run(ctx, logger, prepareFilters(config), profiles)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if len(pool) == 0 {
		logger.Info("exiting", zap.String("reason", "no profiles left after filters"))
		return
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Think of one of these %d people:\n", len(pool))
	for _, p := range pool {
		fmt.Fprintf(out, "  - %s\n", p.DisplayName())
	}

	opts := []game.Option{game.OnTurn(func(turn game.Turn, _ game.State) {
		printTurn(out, turn)
	})}

	if noAI, _ := cmd.Flags().GetBool("no-ai"); !noAI && config.AI != nil && config.AI.Enabled {
		phraser, err := newAIPhraser(ctx, config.AI, logger)
		if err != nil {
			logger.Warn("skipping AI phrasing", zap.Error(err))
		} else {
			opts = append(opts, game.WithPhraser(phraser))
		}
	}

	state, err := game.New(logger, opts...).Play(ctx, candidates.New(pool), promptAsker{})
	if err != nil {
		if isInterrupt(err) || errors.Is(err, context.Canceled) {
			logger.Info("exiting", zap.String("reason", "game interrupted"))
			return
		}
		logger.Fatal("playing", zap.Error(err))
	}

	result, err := resolver.Resolve(state)
	if err != nil {
		logger.Fatal("resolving the game", zap.Error(err))
	}

	printResult(out, result)

	if !result.Found() {
		return
	}

	correct, err := confirm("Did I guess correctly?")
	if err != nil {
		logger.Fatal("reading the answer", zap.Error(err))
	}
	fmt.Fprintln(out, verdict(correct))

	if correct && config.ExcludeFile != "" {
		if err := offerExclude(config.ExcludeFile, *result.Guess, logger); err != nil {
			logger.Fatal("updating exclude file", zap.Error(err))
		}
	}
}

func isInterrupt(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF)
}

// confirm asks a yes/no question. An interrupted prompt counts as no.
func confirm(label string) (bool, error) {
	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptYes, PromptNo},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		if isInterrupt(err) {
			return false, nil
		}
		return false, err
	}

	return answer == PromptYes, nil
}

func verdict(correct bool) string {
	if correct {
		return "Yay! I guessed right!"
	}
	return "Oops! I was wrong. Good game though!"
}

func prepareFilters(config *Config) []filtering.Filter {
	var companies []string
	if config.Exclude != nil {
		companies = config.Exclude.Companies
	}

	return []filtering.Filter{
		filtering.NewDuplicates(),
		filtering.NewExcludedCompanies(companies),
		filtering.NewExcludeFile(config.ExcludeFile),
	}
}

func newAIPhraser(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Phraser, error) {
	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, logger)
	if err != nil {
		return nil, err
	}

	return gemini.NewPhraser(generator, cfg.Gemini.MaxLogLength, logger), nil
}

func printTurn(out io.Writer, turn game.Turn) {
	switch {
	case turn.Skipped:
		fmt.Fprintln(out, "Skipped.")
	case turn.Status == game.StatusContradicted:
		fmt.Fprintf(out, "That answer contradicts the earlier ones, ignoring it. %d people left.\n", turn.After)
	default:
		fmt.Fprintf(out, "%d people left.\n", turn.After)
	}
}

func printResult(out io.Writer, result resolver.Result) {
	if result.Found() {
		guess := result.Guess
		fmt.Fprintf(out, "You are thinking of %s.\n", guess.Name)
		if guess.URL != "" {
			fmt.Fprintf(out, "  %s\n", guess.URL)
		}
		for _, exp := range guess.Experiences {
			fmt.Fprintf(out, "  * %s\n", exp)
		}
		for _, edu := range guess.Educations {
			fmt.Fprintf(out, "  * %s\n", edu)
		}
		return
	}

	fmt.Fprintf(out, "Out of questions. It is one of: %s.\n", strings.Join(profile.Names(result.Shortlist), ", "))
}

func offerExclude(path string, guess profile.Profile, logger *zap.Logger) error {
	leave, err := confirm(fmt.Sprintf("Leave %s out of future games?", guess.Name))
	if err != nil || !leave {
		return err
	}

	excluded, err := filtering.ReadExcluded(path)
	if err != nil {
		return err
	}

	excluded.Add(guess, time.Now())

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", path), zap.String("name", guess.Name))
	return nil
}
