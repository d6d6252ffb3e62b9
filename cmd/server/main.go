package main

import (
	"context"
	"log"
	"os"

	httpadapter "portfolio-editor/internal/adapter/http"
	repo "portfolio-editor/internal/adapter/repository"
	"portfolio-editor/internal/infrastructure/migration"
	"portfolio-editor/internal/usecase"
	infra "portfolio-editor/pkg/infrastructure"
	"portfolio-editor/pkg/labeler"
	"portfolio-editor/pkg/parser"

	"github.com/gofiber/fiber/v2"
)

func main() {
	ctx := context.Background()

	pool, err := infra.NewPortfolioPool(ctx)
	if err != nil {
		log.Printf("warning: portfolio DB not available, using in-memory store: %v", err)
	}
	if pool != nil {
		if err := migration.RunMigrations(ctx, pool); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	portfolios := repo.NewPortfoliosRepo(pool)
	intake := usecase.NewProcessor(parser.NewClient(), labeler.NewClient(), portfolios)
	renderer := infra.NewChromedpRenderer()

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})

	h := httpadapter.NewHandler(intake, portfolios, renderer, "templates")
	h.Register(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
