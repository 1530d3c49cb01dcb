package main

import (
	"os"
	"time"

	"github.com/rbhz/tg-vocab-trainer/app/ai"
	"github.com/rbhz/tg-vocab-trainer/app/api"
	"github.com/rbhz/tg-vocab-trainer/app/bot"
	"github.com/rbhz/tg-vocab-trainer/app/clients/gemini"
	"github.com/rbhz/tg-vocab-trainer/app/db"
	"github.com/rbhz/tg-vocab-trainer/app/review"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	log "github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

type Opts struct {
	BotToken       string        `long:"bot-token" env:"BOT_TOKEN" required:"true" description:"Telegram bot token"`
	BoltDB         string        `long:"boltdb" env:"BOLTDB" default:"./vocab.data" description:"Path to BoltDB"`
	RedisURL       string        `long:"redis" env:"REDIS_URL" description:"Redis database URL"`
	GeminiAPIKey   string        `long:"gemini-key" env:"GEMINI_API_KEY" required:"true" description:"Gemini API key"`
	GeminiModel    string        `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-1.5-flash" description:"Gemini model"`
	GeminiEndpoint string        `long:"gemini-endpoint" env:"GEMINI_ENDPOINT" description:"Gemini API base URL"`
	EvalTemp       float64       `long:"eval-temperature" env:"EVAL_TEMPERATURE" default:"0.1" description:"Sampling temperature for answer evaluation"`
	JWTSecret      string        `long:"jwt" env:"JWT_SECRET" required:"true" description:"JWT secret"`
	Port           int           `long:"port" env:"PORT" default:"8080" description:"Port to listen on"`
	RequestTimeout time.Duration `long:"timeout" env:"REQUEST_TIMEOUT" default:"30s" description:"Timeout of a single bot update or API request"`
	ReviewLimit    int           `long:"review-limit" env:"REVIEW_LIMIT" default:"20" description:"Cards per review session if user did not set own limit"`
	Debug          bool          `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func main() {
	var opts Opts
	_, err := flags.ParseArgs(&opts, os.Args)
	if err != nil {
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	storage, closeStorage := getStorage(opts)
	defer closeStorage()

	client := gemini.NewGeminiClient(opts.GeminiAPIKey, opts.GeminiModel, opts.GeminiEndpoint)
	service := ai.NewService(client)
	evaluator := ai.NewEvaluator(ai.NewService(client.WithTemperature(opts.EvalTemp)))
	trainer := review.NewTrainer(storage, evaluator)

	// Start API
	go func() {
		api := api.NewServer(storage, service, evaluator, opts.BotToken, opts.JWTSecret, opts.RequestTimeout)
		if err := api.Run(opts.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to run API server")
		}
	}()

	// initialize Telegram bot
	b, err := bot.NewTelegramBot(
		opts.BotToken, storage, bot.DefaultHandlers(service, trainer, opts.ReviewLimit), opts.RequestTimeout,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}
	b.Start()

}

func getStorage(opts Opts) (db.Storage, func()) {
	if opts.RedisURL != "" {
		redisStorage, err := db.NewRedisStorage(opts.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create redis client")
		}
		return redisStorage, func() {}

	} else {
		boltDB, err := bolt.Open(opts.BoltDB, 0600, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create boltDB database")
		}
		boltStorage, err := db.NewBoltStorage(boltDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to bolt storage")
		}
		return boltStorage, func() {
			err := boltDB.Close()
			if err != nil {
				log.Error().Err(err).Msg("failed to close boltDB database")
			}
		}
	}
}
