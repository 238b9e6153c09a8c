// Command campaignctl checks provider credentials and runs campaign
// generation from the terminal.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"campaigngen/internal/campaign"
	"campaigngen/internal/providers/genai"
)

func main() {
	_ = godotenv.Load()

	root := newRootCmd(&cli{connect: connectGenAI})
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func connectGenAI(ctx context.Context, opts genai.Options) (campaign.TextBackend, error) {
	client, err := genai.New(ctx, opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}
