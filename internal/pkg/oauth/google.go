package oauth

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
)

// SheetsReadonlyScope grants read access to spreadsheets.
const SheetsReadonlyScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

// NewServiceAccountClient returns an HTTP client that signs requests with a
// service account's JSON key.
func NewServiceAccountClient(ctx context.Context, credentialsJSON []byte, scopes ...string) (*http.Client, error) {
	config, err := google.JWTConfigFromJSON(credentialsJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	return config.Client(ctx), nil
}

// NewServiceAccountClientFromFile reads the JSON key from disk.
func NewServiceAccountClientFromFile(ctx context.Context, path string, scopes ...string) (*http.Client, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return NewServiceAccountClient(ctx, data, scopes...)
}
