package firebase

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// App bundles the Firebase app with the auth client used to verify
// social-login ID tokens.
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase builds the Firebase app and auth client from a
// service-account credentials file. A missing or unreadable file
// surfaces through the SDK's own error.
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}

	firebaseApp, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app from %s: %w", credentialsPath, err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firebase auth client: %w", err)
	}

	log.Println("Firebase auth client ready")
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}
