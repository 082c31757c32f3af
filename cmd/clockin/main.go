package main

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pardee-foods/clockin/adapters/events"
	"github.com/pardee-foods/clockin/adapters/store"
	"github.com/pardee-foods/clockin/adapters/tokenizer"
	"github.com/pardee-foods/clockin/config"
	"github.com/pardee-foods/clockin/ports"
	"github.com/pardee-foods/clockin/service"
	"github.com/pardee-foods/clockin/transport/http"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := watermill.NewStdLogger(false, false)

	// With Redis configured, challenges survive restarts and events go out on
	// a stream other services can read. Without it everything stays in-process.
	var challenges ports.ChallengeStore
	var publisher message.Publisher
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient := redis.NewClient(opts)

		challenges = store.NewRedisChallengeStore(redisClient)

		publisher, err = redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			logger,
		)
		if err != nil {
			log.Fatalf("Failed to create Redis publisher: %v", err)
		}
	} else {
		challenges = store.NewMemoryChallengeStore()
		publisher = gochannel.NewGoChannel(gochannel.Config{}, logger)
	}

	users := store.NewMemoryUserStore()
	creds := store.NewMemoryCredentialStore()
	records := store.NewMemoryAttendanceStore()
	eventPub := events.NewWatermillPublisher(publisher)

	jwtTokenizer, err := tokenizer.NewJWTTokenizer([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatalf("Failed to create tokenizer: %v", err)
	}

	authService := service.NewAuthService(users, jwtTokenizer, eventPub, cfg.TokenTTL)

	webAuthnService, err := service.NewWebAuthnService(
		service.WebAuthnConfig{
			RPID:          cfg.RPID,
			RPDisplayName: cfg.RPDisplayName,
			RPOrigin:      cfg.RPOrigin,
			ChallengeTTL:  cfg.ChallengeTTL,
		},
		creds, challenges, eventPub,
	)
	if err != nil {
		log.Fatalf("Failed to create webauthn service: %v", err)
	}

	attendanceService := service.NewAttendanceService(records)

	// Setup Gin router
	router := http.SetupRouter(authService, webAuthnService, attendanceService)

	// Start server
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
