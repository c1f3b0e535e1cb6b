package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"coolai/bot"
	"coolai/gcs"
	"coolai/gemini"
	"coolai/persona"
	"coolai/safety"
	"coolai/tts"
)

var logger *log.Logger

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(discordCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(sayCmd)

	askCmd.Flags().String("persona", "", "Instruction persona for the prompt")
	sayCmd.Flags().String("out", "speech.mp3", "Output audio file")

	rootCmd.PersistentFlags().String("discord-token", "", "Discord bot token")
	rootCmd.PersistentFlags().String("gemini-api-key", "", "Gemini API key")
	rootCmd.PersistentFlags().
		String("project-id", "", "Google Cloud project ID")
	rootCmd.PersistentFlags().
		String("bucket", "", "Cloud Storage bucket for staged media")
	rootCmd.PersistentFlags().
		Bool("debug", false, "Restrict commands to the debug guild")
	rootCmd.PersistentFlags().String("debug-guild-id", "", "Debug guild ID")

	viper.BindPFlag(
		"discord_token",
		rootCmd.PersistentFlags().Lookup("discord-token"),
	)
	viper.BindPFlag(
		"gemini_api_key",
		rootCmd.PersistentFlags().Lookup("gemini-api-key"),
	)
	viper.BindPFlag(
		"google_cloud_project_id",
		rootCmd.PersistentFlags().Lookup("project-id"),
	)
	viper.BindPFlag(
		"gcs_bucket_name",
		rootCmd.PersistentFlags().Lookup("bucket"),
	)
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag(
		"debug_guild_id",
		rootCmd.PersistentFlags().Lookup("debug-guild-id"),
	)
}

func initConfig() {
	// The bot has always been configured through a .env file; keep honoring
	// one when present.
	godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("conversation_channel_name", "ai-chatroom")
	viper.SetDefault("blackjack_channel_name", "blackjack-ai-bot")
	viper.SetDefault("ai_room_channel_name", "ai-conversation-room")
	viper.SetDefault("history_limit", 20)

	viper.ReadInConfig()

	logger = log.New(os.Stdout)
}

var rootCmd = &cobra.Command{
	Use:   "coolai",
	Short: "coolai is a Discord bot that bridges channels to Gemini",
	Long:  `coolai relays Discord conversations to Gemini and brings back text, images, and synthesized speech.`,
}

var discordCmd = &cobra.Command{
	Use:   "discord",
	Short: "Start the Discord bot",
	Run:   runDiscord,
}

var askCmd = &cobra.Command{
	Use:   "ask [prompt...]",
	Short: "Ask Gemini a one-shot question in the terminal",
	Args:  cobra.MinimumNArgs(1),
	Run:   runAsk,
}

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the persona catalog in a table",
	Run:   runPersonas,
}

var sayCmd = &cobra.Command{
	Use:   "say <text...>",
	Short: "Synthesize speech to an audio file",
	Args:  cobra.MinimumNArgs(1),
	Run:   runSay,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runDiscord(cmd *cobra.Command, args []string) {
	mainLogger, chatLogger, cloudLogger := createLoggers()

	discordToken := viper.GetString("discord_token")
	if discordToken == "" {
		mainLogger.Fatal("missing DISCORD_TOKEN or --discord-token=")
	}

	geminiAPIKey := viper.GetString("gemini_api_key")
	if geminiAPIKey == "" {
		mainLogger.Fatal("missing GEMINI_API_KEY or --gemini-api-key=")
	}

	projectID := viper.GetString("google_cloud_project_id")
	if projectID == "" {
		mainLogger.Fatal("missing GOOGLE_CLOUD_PROJECT_ID or --project-id=")
	}

	bucket := viper.GetString("gcs_bucket_name")
	if bucket == "" {
		mainLogger.Fatal("missing GCS_BUCKET_NAME or --bucket=")
	}

	ctx := context.Background()

	generator, err := gemini.New(ctx, geminiAPIKey, cloudLogger)
	if err != nil {
		mainLogger.Fatal("create gemini client", "error", err.Error())
	}
	defer generator.Close()

	images, err := gemini.NewImagenGenerator(ctx, projectID, cloudLogger)
	if err != nil {
		mainLogger.Fatal("create image generator", "error", err.Error())
	}

	speech, err := tts.NewGoogleSpeechGenerator(ctx)
	if err != nil {
		mainLogger.Fatal("create speech generator", "error", err.Error())
	}

	store, err := gcs.NewBucketStore(ctx, bucket, cloudLogger)
	if err != nil {
		mainLogger.Fatal("create storage client", "error", err.Error())
	}

	scorer, err := safety.NewVisionScorer(ctx, cloudLogger)
	if err != nil {
		mainLogger.Fatal("create vision client", "error", err.Error())
	}

	session, err := discordgo.New("Bot " + discordToken)
	if err != nil {
		mainLogger.Fatal("create discord session", "error", err.Error())
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentMessageContent

	b, err := bot.NewBot(
		&bot.Session{Session: session},
		generator,
		images,
		speech,
		store,
		scorer,
		bot.Config{
			ConversationChannel: viper.GetString("conversation_channel_name"),
			BlackjackChannel:    viper.GetString("blackjack_channel_name"),
			RoomChannel:         viper.GetString("ai_room_channel_name"),
			HistoryLimit:        viper.GetInt("history_limit"),
			Debug:               viper.GetBool("debug"),
			DebugGuildID:        viper.GetString("debug_guild_id"),
		},
		chatLogger,
	)
	if err != nil {
		mainLogger.Fatal("start discord bot", "error", err.Error())
	}
	defer b.Close()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}

func runAsk(cmd *cobra.Command, args []string) {
	mainLogger, _, cloudLogger := createLoggers()

	geminiAPIKey := viper.GetString("gemini_api_key")
	if geminiAPIKey == "" {
		mainLogger.Fatal("missing GEMINI_API_KEY or --gemini-api-key=")
	}

	name, _ := cmd.Flags().GetString("persona")
	if name == "" {
		options := make([]huh.Option[string], 0, len(persona.Instructions))
		for _, key := range persona.InstructionNames() {
			options = append(options, huh.NewOption(key, key))
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Choose a persona").
					Options(options...).
					Value(&name),
			),
		)
		if err := form.Run(); err != nil {
			mainLogger.Fatal("persona selection", "error", err.Error())
		}
	}

	directive, ok := persona.Instructions[name]
	if !ok {
		mainLogger.Fatal("unknown persona", "persona", name)
	}

	ctx := context.Background()
	generator, err := gemini.New(ctx, geminiAPIKey, cloudLogger)
	if err != nil {
		mainLogger.Fatal("create gemini client", "error", err.Error())
	}
	defer generator.Close()

	text, err := generator.GenerateText(
		ctx,
		directive+" "+strings.Join(args, " "),
	)
	if err != nil {
		mainLogger.Fatal("generate response", "error", err.Error())
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		mainLogger.Fatal("create renderer", "error", err.Error())
	}

	rendered, err := renderer.Render(text)
	if err != nil {
		mainLogger.Fatal("render response", "error", err.Error())
	}
	fmt.Print(rendered)
}

func runPersonas(cmd *cobra.Command, args []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Kind", "Name", "Directive"})
	table.SetBorder(false)
	table.SetAutoWrapText(true)
	table.SetColWidth(72)

	for _, name := range persona.InstructionNames() {
		table.Append([]string{"instruction", name, persona.Instructions[name]})
	}
	for _, name := range persona.RoomNames() {
		table.Append([]string{"room", name, persona.Room[name]})
	}

	table.Render()
}

func runSay(cmd *cobra.Command, args []string) {
	mainLogger, _, _ := createLoggers()

	out, _ := cmd.Flags().GetString("out")

	ctx := context.Background()
	speech, err := tts.NewGoogleSpeechGenerator(ctx)
	if err != nil {
		mainLogger.Fatal("create speech generator", "error", err.Error())
	}

	file, err := os.Create(out)
	if err != nil {
		mainLogger.Fatal("create output file", "error", err.Error())
	}
	defer file.Close()

	if err := speech.TextToSpeech(ctx, strings.Join(args, " "), file); err != nil {
		mainLogger.Fatal("synthesize speech", "error", err.Error())
	}

	fmt.Printf("Audio file generated: %s\n", out)
}

func createLoggers() (mainLogger, chatLogger, cloudLogger *log.Logger) {
	logger.SetLevel(log.DebugLevel)
	logger.SetReportCaller(true)
	logger.SetCallerFormatter(
		func(file string, line int, funcName string) string {
			path, err := filepath.Rel(".", file)
			if err != nil {
				path = file
			}
			return fmt.Sprintf("%s:%d", path, line)
		},
	)

	styles := log.DefaultStyles()
	styles.Prefix = styles.Prefix.MarginTop(1).
		Bold(false).Transform(func(s string) string {
		return strings.TrimSuffix(s, ":")
	})
	styles.Levels[log.InfoLevel] = styles.Levels[log.InfoLevel].
		MaxWidth(6).
		MarginRight(1).
		Bold(false)
	styles.Levels[log.ErrorLevel] = styles.Levels[log.ErrorLevel].
		MaxWidth(6).
		MarginRight(1).
		Bold(false)
	styles.Message = styles.Message.Bold(true).Width(24)
	styles.Key = styles.Key.MarginLeft(1).
		Bold(false).
		Foreground(lipgloss.Color("#ff8800"))

	logger.SetStyles(styles)

	mainLogger = logger.With().WithPrefix("main")
	chatLogger = logger.With().WithPrefix("chat")
	cloudLogger = logger.With().WithPrefix("cloud")

	return
}
