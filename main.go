package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mrjawadhere/Hackthon-Smit/config"
	"github.com/mrjawadhere/Hackthon-Smit/controlers"
	"github.com/mrjawadhere/Hackthon-Smit/database"
	"github.com/mrjawadhere/Hackthon-Smit/libs"
	"github.com/mrjawadhere/Hackthon-Smit/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	logger, err := libs.InitLogger()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zap.S().Fatalw("config load failed", "error", err)
	}
	if cfg.UsingDefaultJWTSecret() {
		zap.S().Warn("JWT_SECRET is not set, signing tokens with the built-in development secret")
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		zap.S().Fatalw("mongo connect failed", "error", err)
	}
	db := client.Database(cfg.DBName)

	if err := database.EnsureIndexes(db); err != nil {
		zap.S().Fatalw("index bootstrap failed", "error", err)
	}
	zap.S().Info("MongoDB connected")

	users := libs.NewUserStore(db)
	students := libs.NewStudentStore(db)
	chatLog := libs.NewChatLog(db)
	tokens := libs.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	mailer := libs.NewMailer(cfg.GmailUser, cfg.GmailAppPassword)
	provisioner := libs.NewProvisioner(students, mailer)

	// The agent is optional: probe once, degrade to the deterministic
	// fallback when the flag is off or construction fails.
	var agent controlers.AgentInvoker
	if cfg.AgentEnabled {
		built, err := libs.NewAgent(cfg.GeminiAPIKey, students, mailer, libs.NewWebSearcher())
		if err != nil {
			zap.S().Warnw("agent unavailable, chat will use fallback replies", "error", err)
		} else {
			agent = built
			zap.S().Info("conversational agent enabled")
		}
	}

	ctrl := routes.Controllers{
		Users:     controlers.NewUserController(users, tokens),
		Students:  controlers.NewStudentController(students, mailer),
		Chat:      controlers.NewChatController(chatLog, provisioner, agent),
		Analytics: controlers.NewAnalyticsController(students),
	}

	r := gin.Default()
	routes.InitRoutes(r, ctrl, tokens, cfg.APIKey)

	address := fmt.Sprintf(":%s", cfg.Port)
	zap.S().Infow("starting server", "address", address)
	if err := r.Run(address); err != nil {
		zap.S().Fatalw("server failed to run", "error", err)
	}
}
