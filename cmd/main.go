package main

import (
	"context"
	emulatorAuth "event-catalog/internal/auth"
	"event-catalog/internal/log"
	"flag"
	"fmt"
	"os"
	"time"

	// Load .env BEFORE importing the function package
	_ "github.com/joho/godotenv/autoload"

	// Blank-import the function package so the init() runs
	_ "event-catalog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
)

// the main function starts the Functions Framework server - only needed when running locally
func main() {
	printToken := flag.Bool("token", false, "print an Auth Emulator admin token and exit")
	flag.Parse()

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = "local-project-id"
	}

	if *printToken {
		fmt.Printf("Bearer %s\n", emulatorAuth.EmulatorToken(projectID, os.Getenv("FIRESTORE_ADMIN_UID"), time.Now(), 0))
		return
	}

	// 1. Setup Port
	port := "5000"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}

	// 2. Setup Hostname (Local Only)
	hostname := ""
	if localOnly := os.Getenv("LOCAL_ONLY"); localOnly == "true" {
		hostname = "127.0.0.1"
	}

	// 3. Create Local Admin User if Emulator is detected
	// The admin UID must exist in the Auth Emulator for POST /catalog/reload.
	if os.Getenv("FIREBASE_AUTH_EMULATOR_HOST") != "" {
		go createLocalAdminUser(projectID)
	}

	log.Info("server starting", "url", "http://127.0.0.1:"+port)
	log.Info("swagger ui", "url", "http://127.0.0.1:"+port+"/swagger/index.html")

	// 4. Start Server
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Error("funcframework.StartHostPort failed", err)
		os.Exit(1)
	}
}

func createLocalAdminUser(projectID string) {
	// Give the server/emulator a moment to settle
	time.Sleep(1 * time.Second)

	ctx := context.Background()
	adminUID := os.Getenv("FIRESTORE_ADMIN_UID")
	if adminUID == "" {
		log.Info("skipping local admin creation: FIRESTORE_ADMIN_UID not set")
		return
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID})
	if err != nil {
		log.Error("admin setup: firebase app init failed", err)
		return
	}

	client, err := app.Auth(ctx)
	if err != nil {
		log.Error("admin setup: auth client failed", err)
		return
	}

	if u, err := client.GetUser(ctx, adminUID); err == nil {
		log.Info("admin setup: user exists", "name", u.DisplayName, "uid", adminUID)
	} else {
		params := (&auth.UserToCreate{}).
			UID(adminUID).
			Email("admin@localhost.com").
			EmailVerified(true).
			Password("admin123").
			DisplayName("Local Admin")

		if _, err := client.CreateUser(ctx, params); err != nil {
			log.Error("admin setup: create user failed (emulator down?)", err, "uid", adminUID)
			return
		}
		log.Info("admin setup: created user", "uid", adminUID)
	}

	token := emulatorAuth.EmulatorToken(projectID, adminUID, time.Now(), 0)
	log.Info("admin token for swagger 'Authorize'", "authorization", "Bearer "+token)
}
