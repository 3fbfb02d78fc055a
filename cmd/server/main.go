package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	handler "github.com/orgpoll/api/internal/adapters/handler/http"
	repo "github.com/orgpoll/api/internal/adapters/repository/postgres"
	"github.com/orgpoll/api/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	pollRepo := repo.NewPollRepository(db)
	participantRepo := repo.NewParticipantRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	draftRepo := repo.NewDraftRepository(db)
	membershipRepo := repo.NewMembershipRepository(db)
	userRepo := repo.NewUserRepository(db)

	pollSvc := services.NewPollService(pollRepo, participantRepo, voteRepo, draftRepo, membershipRepo)
	participantSvc := services.NewParticipantService(pollRepo, participantRepo, voteRepo, membershipRepo, userRepo)
	voteSvc := services.NewVoteService(pollRepo, participantRepo, draftRepo, voteRepo)
	resultSvc := services.NewResultService(pollRepo, participantRepo, voteRepo, membershipRepo, userRepo)

	router := handler.NewHandler(
		handler.NewPollHandler(pollSvc),
		handler.NewParticipantHandler(participantSvc),
		handler.NewVoteHandler(voteSvc),
		handler.NewResultHandler(resultSvc),
		[]byte(jwtSecret),
	)

	server := &stdhttp.Server{Addr: "0.0.0.0:8080", Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}
