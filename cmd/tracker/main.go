// cmd/tracker is a small terminal client for the tracksafe API: it signs
// in, records the current position and prints the nearest services.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	clientbackend "tracksafe-service/internal/client/backend"
	clientlocation "tracksafe-service/internal/client/location"
	clientsession "tracksafe-service/internal/client/session"
	domainlocation "tracksafe-service/internal/domain/location"
	xerrors "tracksafe-service/internal/pkg/errors"
	locationUsecase "tracksafe-service/internal/service/location"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// envLocator reads a fixed coordinate from the environment. A desktop
// terminal has no GPS; TRACKER_LAT/TRACKER_LON stand in for one.
type envLocator struct{}

func (envLocator) CurrentPosition(ctx context.Context) (*clientlocation.Position, error) {
	lat, latErr := strconv.ParseFloat(os.Getenv("TRACKER_LAT"), 64)
	lon, lonErr := strconv.ParseFloat(os.Getenv("TRACKER_LON"), 64)
	if latErr != nil || lonErr != nil {
		return nil, &clientlocation.PlatformError{
			Code:    clientlocation.CodePositionUnavailable,
			Message: "TRACKER_LAT/TRACKER_LON not set",
		}
	}
	return &clientlocation.Position{Latitude: lat, Longitude: lon, Timestamp: time.Now()}, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[TRACKER] No .env file found, relying on system env vars")
	}

	var (
		baseURL  = flag.String("server", envOr("TRACKER_SERVER", "http://localhost:8000"), "API base URL")
		email    = flag.String("email", "", "account email (triggers login when set)")
		password = flag.String("password", "", "account password")
		kind     = flag.String("kind", "hospital", "nearby service kind: hospital or police")
	)
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	home, _ := os.UserHomeDir()
	tokens := clientbackend.NewFileTokenStore(filepath.Join(home, ".tracksafe", "token"))
	api := clientbackend.NewRESTBackend(*baseURL, tokens, logger)

	mgr := clientsession.NewManager(api, logger)
	workflow := clientlocation.NewWorkflow(
		envLocator{},
		locationUsecase.NewStaticDirectory(),
		api,
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := mgr.Restore(ctx); err != nil {
		log.Fatalf("restore failed: %v", err)
	}

	if !mgr.Snapshot().SignedIn() {
		if *email == "" || *password == "" {
			log.Fatal("no stored session; pass -email and -password to sign in")
		}
		if err := mgr.Login(ctx, *email, *password); err != nil {
			log.Fatalf("login failed: %s", xerrors.UserMessage(err))
		}
	}

	snap := mgr.Snapshot()
	fmt.Printf("signed in as %s (%s)\n", snap.User.FullName, snap.User.Email)

	// Keep the local session honest while we work: a logout elsewhere
	// (or a force-logout) clears this process's state too.
	if stream, err := api.SubscribeAuthEvents(ctx); err != nil {
		logger.Warn("session push unavailable", zap.Error(err))
	} else {
		defer stream.Close()
		go mgr.Pump(ctx, stream.Events())
	}

	pos, err := workflow.Current(ctx)
	if err != nil {
		log.Fatalf("location: %s", xerrors.UserMessage(err))
	}
	fmt.Printf("position: %.6f, %.6f\n", pos.Latitude, pos.Longitude)

	if workflow.Record(ctx, pos) {
		fmt.Println("position recorded")
	} else {
		fmt.Println("position not recorded (continuing)")
	}

	services, err := workflow.Nearby(pos.Location(), domainlocation.ServiceKind(*kind))
	if err != nil {
		log.Fatalf("nearby: %s", xerrors.UserMessage(err))
	}
	for _, svc := range services {
		fmt.Printf("  %-28s %5.2f km  %s\n", svc.Name, svc.DistanceKm, svc.Phone)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
