package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/profile-guesser/internal/builder"
	"github.com/spigell/profile-guesser/internal/logger"
	"github.com/spigell/profile-guesser/internal/profile"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Normalize scraped records into a profiles file",
	Run: func(cmd *cobra.Command, _ []string) {
		parse(cmd)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("input", "i", "", "a JSON file with scraped records")
	parseCmd.Flags().StringP("output", "o", "", "where to write profiles (default is profiles-file from the config)")
	parseCmd.Flags().BoolP("tmp", "t", false, "write profiles to a temporary file instead")

	parseCmd.MarkFlagRequired("input")
}

func parse(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	input, _ := cmd.Flags().GetString("input")

	raws, err := profile.ReadRaw(input)
	if err != nil {
		logger.Fatal("reading scraped records", zap.String("input", input), zap.Error(err))
	}

	logger.Info("records loaded", zap.String("input", input), zap.Int("count", len(raws)))

	profiles := builder.New(logger).BuildAll(raws)

	if tmp, _ := cmd.Flags().GetBool("tmp"); tmp {
		filename, err := profile.DumpToTmpFile(profiles)
		if err != nil {
			logger.Fatal("dump profiles to file", zap.Error(err))
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return
	}

	output := config.ProfilesFile
	if cmd.Flags().Changed("output") {
		output, _ = cmd.Flags().GetString("output")
	}

	if err := profile.Save(output, profiles); err != nil {
		logger.Fatal("saving profiles", zap.String("output", output), zap.Error(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d profiles written to %s\n", len(profiles), output)
}
