package auth

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// InitializeFirebase initializes the Firebase Admin SDK and returns the app.
// Callers pull the Auth and Firestore clients off it.
func InitializeFirebase(ctx context.Context, credentialsPath, projectID string) (*firebase.App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(credentialsPath)
	cfg := &firebase.Config{ProjectID: projectID}
	app, err := firebase.NewApp(ctx, cfg, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	return app, nil
}

// FirebaseAuthorizer verifies a Firebase ID token and then checks that the
// authenticated uid is an admin: either listed in the configured allow-list,
// or present in the admin_users collection with role "admin".
type FirebaseAuthorizer struct {
	authClient *fbauth.Client
	fsClient   *firestore.Client
	allowUIDs  map[string]bool
}

func NewFirebaseAuthorizer(authClient *fbauth.Client, fsClient *firestore.Client, allowUIDs []string) *FirebaseAuthorizer {
	allowed := make(map[string]bool, len(allowUIDs))
	for _, uid := range allowUIDs {
		if uid != "" {
			allowed[uid] = true
		}
	}
	return &FirebaseAuthorizer{authClient: authClient, fsClient: fsClient, allowUIDs: allowed}
}

func (a *FirebaseAuthorizer) IsAuthorized(ctx context.Context, credential string) bool {
	if credential == "" {
		return false
	}

	token, err := a.authClient.VerifyIDToken(ctx, credential)
	if err != nil {
		return false
	}

	if a.allowUIDs[token.UID] {
		return true
	}
	if a.fsClient == nil {
		return false
	}

	snap, err := a.fsClient.Collection("admin_users").Doc(token.UID).Get(ctx)
	if err != nil {
		// fail closed: an unreachable allow-list means no admin access
		log.Printf("[auth] admin lookup failed for uid=%s: %v", token.UID, err)
		return false
	}
	role, _ := snap.Data()["role"].(string)
	return role == "admin"
}
