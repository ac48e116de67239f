package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lookalike",
	Short: "A tool for matching photos against a character roster using AI",
	Long: `Lookalike compares an uploaded photo against a fixed roster of
illustrated characters using a multimodal AI model (OpenAI or Gemini)
and picks the entry the subject most resembles, with a short humorous
explanation and optional character trivia.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
